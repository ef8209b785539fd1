// Package command implements C9: the three narrow fan-out operations
// (target, command, query) through which every external dispatcher
// endpoint reaches an entity's behaviors. None of it mutates Game
// fields directly; it only calls the entity.World surface the
// behaviors themselves are restricted to.
package command

import (
	"hexarena/internal/entity"
	"hexarena/internal/hexgrid"
)

// Target fans a position out to every behavior's OnTarget, letting
// e.g. Attack claim a manual target and Pathing claim a move
// destination from the same click.
func Target(e *entity.Entity, w entity.World, pos hexgrid.Position) {
	for _, b := range e.Behaviors {
		b.OnTarget(e, w, pos)
	}
}

// Command fans a (key, value) pair out to every behavior's OnCommand.
// Per spec.md §7, one mis-configured command must not poison the
// handler chain: every behavior runs regardless of earlier errors, and
// only the first error is returned to the caller.
func Command(e *entity.Entity, w entity.World, key, value string) error {
	var first error
	for _, b := range e.Behaviors {
		if err := b.OnCommand(e, w, key, value); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Query aggregates every behavior's OnQuery descriptors, the affordance
// listing a client uses to render available commands for an entity.
func Query(e *entity.Entity, w entity.World) []entity.QueryDescriptor {
	out := make([]entity.QueryDescriptor, 0)
	for _, b := range e.Behaviors {
		out = append(out, b.OnQuery(e, w)...)
	}
	return out
}
