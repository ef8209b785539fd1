package entity

import "hexarena/internal/hexgrid"

// Attack lets an entity deal damage to a manually targeted occupant
// once per activation, within Range, for a random amount in
// [MinDamage, MaxDamage]. Targeting a position whose occupant is a
// Resource does not set a target, per spec.md §4.5.
type Attack struct {
	Base
	Cooldown

	MinDamage int
	MaxDamage int
	Range     int
	Visual    string

	ManualTarget string
}

func (a *Attack) OnTarget(e *Entity, w World, pos hexgrid.Position) {
	occ, ok := w.Occupant(pos)
	if !ok || occ.Tag&Resource != 0 {
		return
	}
	a.ManualTarget = occ.ID
}

func (a *Attack) OnTick(e *Entity, w World, delta float64) {
	a.Cooldown.Tick(delta, w.Random(), func() bool { return a.OnActivate(e, w) })
}

func (a *Attack) OnActivate(e *Entity, w World) bool {
	if a.ManualTarget == "" {
		return false
	}
	target, ok := w.EntityByID(a.ManualTarget)
	if !ok || target.Removed {
		a.ManualTarget = ""
		return false
	}
	if hexgrid.Distance(e.Position, target.Position) > a.Range {
		return false
	}
	damage := a.MinDamage
	if a.MaxDamage > a.MinDamage {
		damage += w.Random().Intn(a.MaxDamage - a.MinDamage + 1)
	}
	w.HandleAttack(e, target, damage, a.Visual)
	return true
}

func (a *Attack) Clone() Behavior {
	out := *a
	out.ManualTarget = ""
	return &out
}

// Essential marks an entity whose removal ends the owning side's game
// in defeat (e.g. the fortress).
type Essential struct {
	Base
	Label string
}

func (ess *Essential) OnRemove(e *Entity, w World) {
	w.FinishGame(false, ess.Label)
}

func (ess *Essential) Clone() Behavior {
	out := *ess
	return &out
}

// KillObjective marks an entity whose destruction ends the game in
// victory (e.g. an enemy portal).
type KillObjective struct {
	Base
	Label string
}

func (k *KillObjective) OnRemove(e *Entity, w World) {
	w.FinishGame(true, k.Label)
}

func (k *KillObjective) Clone() Behavior {
	out := *k
	return &out
}
