package entity

import "hexarena/internal/hexgrid"

// searchRadius bounds how far Worker/SeekEnemy/SeekFortress look for a
// target via World.FindNearest before giving up for this activation.
const searchRadius = 12

// Worker gathers a resource, carries it, and drops it off at the
// fortress, repeating indefinitely. It embeds Pathing for movement and
// follows spec.md §4.4's two-phase pattern: Pathing is consulted first
// each activation, and Worker's own logic only runs when Pathing has
// nothing to do.
type Worker struct {
	Base
	Cooldown
	Pathing

	CarryCapacity float64
	GatherRate    float64

	TargetResource string // entity id
	CarryType      ResourceType
	CarryAmount    float64
}

func (wk *Worker) OnTarget(e *Entity, w World, pos hexgrid.Position) {
	if occ, ok := w.Occupant(pos); ok {
		if occ.Tag&Resource != 0 {
			wk.TargetResource = occ.ID
		}
		return
	}
	wk.Pathing.SetTarget(w, pos)
}

func (wk *Worker) OnTick(e *Entity, w World, delta float64) {
	wk.Cooldown.Tick(delta, w.Random(), func() bool { return wk.OnActivate(e, w) })
}

func (wk *Worker) OnActivate(e *Entity, w World) bool {
	if wk.Pathing.Step(e, w) {
		return true
	}

	if wk.CarryAmount >= wk.CarryCapacity && wk.CarryAmount > 0 {
		return wk.headToDropoff(e, w)
	}
	if wk.TargetResource != "" {
		return wk.gather(e, w)
	}
	if wk.CarryAmount > 0 {
		return wk.headToDropoff(e, w)
	}
	return wk.acquireResource(e, w)
}

func (wk *Worker) gather(e *Entity, w World) bool {
	resource, ok := w.EntityByID(wk.TargetResource)
	if !ok || resource.Removed {
		wk.TargetResource = ""
		return false
	}
	if hexgrid.Distance(e.Position, resource.Position) > 1 {
		wk.moveAdjacentTo(e, w, resource.Position)
		return true
	}
	wk.CarryType = resource.ResourceType
	wk.CarryAmount += wk.GatherRate
	w.QueueUpdate(e.ID)
	return true
}

func (wk *Worker) headToDropoff(e *Entity, w World) bool {
	fortress := w.FortressPosition()
	if hexgrid.Distance(e.Position, fortress) <= 1 {
		w.AddResource(wk.CarryType, wk.CarryAmount)
		wk.CarryAmount = 0
		wk.TargetResource = ""
		return true
	}
	wk.moveAdjacentTo(e, w, fortress)
	return true
}

func (wk *Worker) acquireResource(e *Entity, w World) bool {
	match := func(cand *Entity) bool {
		return cand.Tag&Resource != 0 && (wk.CarryType == "" || cand.ResourceType == e.Priority || e.Priority == "")
	}
	found, ok := w.FindNearest(e.Position, searchRadius, match)
	if !ok {
		return false
	}
	wk.TargetResource = found.ID
	return true
}

// moveAdjacentTo sets the pathing target to an unoccupied neighbor of
// dest, since dest itself is always occupied by the thing we want to
// reach (a resource node or the fortress).
func (wk *Worker) moveAdjacentTo(e *Entity, w World, dest hexgrid.Position) {
	for _, n := range dest.Neighbors() {
		if !w.IsOccupied(n) {
			wk.Pathing.SetTarget(w, n)
			return
		}
	}
}

func (wk *Worker) Clone() Behavior {
	out := *wk
	out.Pathing = wk.Pathing.Clone()
	return &out
}

// SeekEnemy paths toward the nearest Enemy-aligned unit and records it
// as Attack's manual target once in range, letting a combined
// Pathing+Attack+SeekEnemy behavior set model "wander, then fight."
type SeekEnemy struct {
	Base
	Cooldown
	Pathing

	TargetEntity string
}

func (s *SeekEnemy) OnTarget(e *Entity, w World, pos hexgrid.Position) {
	if occ, ok := w.Occupant(pos); ok {
		s.TargetEntity = occ.ID
		return
	}
	s.Pathing.SetTarget(w, pos)
}

func (s *SeekEnemy) OnTick(e *Entity, w World, delta float64) {
	s.Cooldown.Tick(delta, w.Random(), func() bool { return s.OnActivate(e, w) })
}

func (s *SeekEnemy) OnActivate(e *Entity, w World) bool {
	if s.Pathing.Step(e, w) {
		return true
	}
	var target *Entity
	if s.TargetEntity != "" {
		if t, ok := w.EntityByID(s.TargetEntity); ok && !t.Removed {
			target = t
		} else {
			s.TargetEntity = ""
		}
	}
	if target == nil {
		found, ok := w.FindNearest(e.Position, searchRadius, func(cand *Entity) bool {
			return cand.Alignment == Enemy && cand.Tag&Unit != 0
		})
		if !ok {
			return false
		}
		target = found
		s.TargetEntity = found.ID
	}
	if hexgrid.Distance(e.Position, target.Position) <= 1 {
		for _, b := range e.Behaviors {
			if a, ok := b.(*Attack); ok {
				a.ManualTarget = target.ID
			}
		}
		return true
	}
	for _, n := range target.Position.Neighbors() {
		if !w.IsOccupied(n) {
			s.Pathing.SetTarget(w, n)
			return true
		}
	}
	return false
}

func (s *SeekEnemy) Clone() Behavior {
	out := *s
	out.Pathing = s.Pathing.Clone()
	return &out
}

// SeekFortress paths toward the enemy fortress (a KillObjective or
// Essential entity), used by raider units that simply march on the
// objective rather than engaging wandering units.
type SeekFortress struct {
	Base
	Cooldown
	Pathing
}

func (s *SeekFortress) OnTick(e *Entity, w World, delta float64) {
	s.Cooldown.Tick(delta, w.Random(), func() bool { return s.OnActivate(e, w) })
}

func (s *SeekFortress) OnActivate(e *Entity, w World) bool {
	if s.Pathing.Step(e, w) {
		return true
	}
	fortress := w.FortressPosition()
	for _, n := range fortress.Neighbors() {
		if !w.IsOccupied(n) {
			s.Pathing.SetTarget(w, n)
			return true
		}
	}
	return false
}

func (s *SeekFortress) Clone() Behavior {
	out := *s
	out.Pathing = s.Pathing.Clone()
	return &out
}
