package entity

import (
	"hexarena/internal/hexgrid"
	"hexarena/internal/pathing"
)

// Pathing is the movement mixin described by spec.md §4.3's consumer
// policy and §9's redesign note: rather than a PathingBehavior base
// class that subclasses call super().on_activate() into, movers embed
// Pathing by value and call Step first each activation; a true result
// means Pathing handled this activation (moved one step) and the
// caller's own logic should not run this tick.
type Pathing struct {
	TargetPosition *hexgrid.Position
	reserved       []hexgrid.Position
}

// SetTarget records a move target, refusing occupied destinations per
// spec.md §4.5 (target only sets Pathing.TargetPosition if unoccupied).
func (p *Pathing) SetTarget(w World, pos hexgrid.Position) {
	if w.IsOccupied(pos) {
		return
	}
	p.TargetPosition = &pos
	p.reserved = nil
}

// Step executes one reserved move if available, else (re)plans via
// bounded A*, truncates the plan to ceil(len/5) steps, and executes
// the first one. Returns true if it moved (or has no work to do and
// should be considered "handled" with no caller fallthrough needed for
// this tick), false if there is no target to path toward.
func (p *Pathing) Step(e *Entity, w World) bool {
	if p.TargetPosition == nil {
		return false
	}
	if *p.TargetPosition == e.Position {
		p.TargetPosition = nil
		p.reserved = nil
		return true
	}

	if len(p.reserved) > 0 {
		next := p.reserved[0]
		if w.IsOccupied(next) {
			p.reserved = nil
		} else {
			p.reserved = p.reserved[1:]
			_ = w.MoveEntity(e, next)
			return true
		}
	}

	occupied := func(pos hexgrid.Position) bool { return w.IsOccupied(pos) }
	full := pathing.AStar(e.Position, *p.TargetPosition, occupied, pathing.DefaultExpansionLimit, w.Random())
	if len(full) <= 1 {
		return true
	}
	steps := full[1:]
	take := (len(steps) + 4) / 5 // ceil(len/5)
	if take < 1 {
		take = 1
	}
	if take > len(steps) {
		take = len(steps)
	}
	prefix := steps[:take]
	first, rest := prefix[0], prefix[1:]
	p.reserved = rest
	_ = w.MoveEntity(e, first)
	return true
}

// Clone returns a copy with its own reserved-step stack.
func (p Pathing) Clone() Pathing {
	out := p
	out.reserved = append([]hexgrid.Position(nil), p.reserved...)
	if p.TargetPosition != nil {
		pos := *p.TargetPosition
		out.TargetPosition = &pos
	}
	return out
}
