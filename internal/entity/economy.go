package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"hexarena/internal/errkind"
	"hexarena/internal/hexgrid"
)

// transmuteValues is the canonical resource value table spec.md §4.6
// names for converting goods sold into the credited resource.
var transmuteValues = map[ResourceType]float64{
	Food:   0.5,
	Stone:  0.5,
	Wood:   0.5,
	Gold:   1.0,
	Aether: 5.0,
}

// Transmute sells Rate units of From per activation and buys To at the
// canonical value ratio, carrying the fractional remainder to the next
// activation rather than discarding it.
type Transmute struct {
	Base
	Cooldown

	Rate       float64
	From       ResourceType
	To         ResourceType
	Efficiency float64
	remainder  float64
}

func (t *Transmute) OnTick(e *Entity, w World, delta float64) {
	t.Cooldown.Tick(delta, w.Random(), func() bool { return t.OnActivate(e, w) })
}

func (t *Transmute) OnActivate(e *Entity, w World) bool {
	if w.ResourceBalance(t.From) < t.Rate {
		return false
	}
	if err := w.Spend(ResourceCost{Resource: t.From, Amount: t.Rate}); err != nil {
		return false
	}
	vFrom := transmuteValues[t.From]
	vTo := transmuteValues[t.To]
	proceeds := t.Rate*vFrom*t.Efficiency + t.remainder
	credit := math.Floor(proceeds / vTo)
	t.remainder = proceeds - credit*vTo
	if credit > 0 {
		w.AddResource(t.To, credit)
	}
	return true
}

func (t *Transmute) OnCommand(e *Entity, w World, key, value string) error {
	switch key {
	case "rate":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errkind.New(errkind.ClientError, "rate must be numeric: %v", err)
		}
		t.Rate = v
	case "from_resource":
		t.From = ResourceType(value)
	case "to_resource":
		t.To = ResourceType(value)
	}
	return nil
}

func (t *Transmute) Clone() Behavior {
	out := *t
	return &out
}

// BuildOption is one unit this Build behavior can construct, and its
// resource cost.
type BuildOption struct {
	Unit  string
	Costs []ResourceCost
}

// Build handles `build/<unit>` commands: spends the unit's cost,
// spawns an UnderConstruction entity at the requested position, and
// paths its own entity's Pathing mixin toward it.
type Build struct {
	Base

	Options []BuildOption
	Pathing
}

func (b *Build) OnTick(e *Entity, w World, delta float64) {
	b.Pathing.Step(e, w)
}

func (b *Build) optionFor(unit string) (BuildOption, bool) {
	for _, o := range b.Options {
		if o.Unit == unit {
			return o, true
		}
	}
	return BuildOption{}, false
}

func (b *Build) OnCommand(e *Entity, w World, key, value string) error {
	const prefix = "build/"
	if !strings.HasPrefix(key, prefix) {
		return nil
	}
	unit := strings.TrimPrefix(key, prefix)
	option, ok := b.optionFor(unit)
	if !ok {
		return nil
	}
	pos, err := parsePosition(value)
	if err != nil {
		return errkind.New(errkind.ClientError, "build target: %v", err)
	}
	if w.IsOccupied(pos) {
		return errkind.New(errkind.ClientError, "position %v occupied", pos)
	}
	if err := w.Spend(option.Costs...); err != nil {
		return err
	}
	construction, err := w.AddEntity(unit, pos, e.Alignment)
	if err != nil {
		return err
	}
	for _, beh := range construction.Behaviors {
		if c, ok := beh.(*UnderConstruction); ok {
			c.BuilderID = e.ID
			c.BuiltName = unit
			construction.HP = 1
			w.QueueUpdate(construction.ID)
		}
	}
	b.Pathing.SetTarget(w, pos)
	return nil
}

func (b *Build) OnQuery(e *Entity, w World) []QueryDescriptor {
	out := make([]QueryDescriptor, 0, len(b.Options))
	for _, o := range b.Options {
		out = append(out, QueryDescriptor{
			Key:        "build/" + o.Unit,
			Descriptor: map[string]any{"unit": o.Unit, "costs": o.Costs},
		})
	}
	return out
}

func (b *Build) Clone() Behavior {
	out := *b
	out.Options = append([]BuildOption(nil), b.Options...)
	out.Pathing = b.Pathing.Clone()
	return &out
}

// TrainOption is one unit a Train behavior can enqueue.
type TrainOption struct {
	Unit     string
	Duration float64
	Costs    []ResourceCost
}

// queuedTraining is one pending production slot.
type queuedTraining struct {
	Unit     string
	Duration float64
	Progress float64
}

// Train enqueues production slots on `train/<unit>` commands, charging
// immediately, and emits one unit per slot as its progress crosses
// Duration.
type Train struct {
	Base

	Options []TrainOption
	queue   []queuedTraining
}

func (tr *Train) optionFor(unit string) (TrainOption, bool) {
	for _, o := range tr.Options {
		if o.Unit == unit {
			return o, true
		}
	}
	return TrainOption{}, false
}

func (tr *Train) OnCommand(e *Entity, w World, key, value string) error {
	const prefix = "train/"
	if strings.HasPrefix(key, prefix) {
		unit := strings.TrimPrefix(key, prefix)
		option, ok := tr.optionFor(unit)
		if !ok {
			return nil
		}
		if err := w.Spend(option.Costs...); err != nil {
			return err
		}
		tr.queue = append(tr.queue, queuedTraining{Unit: unit, Duration: option.Duration})
		return nil
	}
	if strings.HasPrefix(key, "cancel/") {
		unit := strings.TrimPrefix(key, "cancel/")
		for i, q := range tr.queue {
			if q.Unit == unit {
				option, _ := tr.optionFor(unit)
				refundHalf(w, option.Costs)
				tr.queue = append(tr.queue[:i], tr.queue[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (tr *Train) OnTick(e *Entity, w World, delta float64) {
	if len(tr.queue) == 0 {
		return
	}
	head := &tr.queue[0]
	head.Progress += delta
	w.ReportProgress(e.ID, "train/"+head.Unit, len(tr.queue), head.Progress, head.Duration)
	if head.Progress < head.Duration {
		return
	}
	unit := head.Unit
	tr.queue = tr.queue[1:]
	for _, n := range e.Position.Neighbors() {
		if !w.IsOccupied(n) {
			w.AddEntity(unit, n, e.Alignment)
			break
		}
	}
}

func (tr *Train) OnQuery(e *Entity, w World) []QueryDescriptor {
	out := make([]QueryDescriptor, 0, len(tr.Options))
	for _, o := range tr.Options {
		out = append(out, QueryDescriptor{
			Key:        "train/" + o.Unit,
			Descriptor: map[string]any{"unit": o.Unit, "duration": o.Duration, "costs": o.Costs},
		})
	}
	return out
}

func (tr *Train) Clone() Behavior {
	out := *tr
	out.Options = append([]TrainOption(nil), tr.Options...)
	out.queue = append([]queuedTraining(nil), tr.queue...)
	return &out
}

// refundHalf credits half of each listed cost back to the pool,
// per spec.md §4.5's cancel/<unit> refund rule.
func refundHalf(w World, costs []ResourceCost) {
	for _, c := range costs {
		w.AddResource(c.Resource, c.Amount/2)
	}
}

// Repair heals the nearest damaged friendly entity within Range hexes
// by Amount per activation, the behavior scenario 2 of spec.md §8 relies on to drive
// an UnderConstruction entity to completion.
type Repair struct {
	Base
	Cooldown

	Amount int
	Range  int
}

func (r *Repair) OnTick(e *Entity, w World, delta float64) {
	r.Cooldown.Tick(delta, w.Random(), func() bool { return r.OnActivate(e, w) })
}

func (r *Repair) OnActivate(e *Entity, w World) bool {
	found, ok := w.FindNearest(e.Position, r.Range, func(cand *Entity) bool {
		return cand.Alignment == e.Alignment && cand.HP < cand.MaxHP && cand.ID != e.ID
	})
	if !ok {
		return false
	}
	w.HealEntity(found, r.Amount)
	return true
}

func (r *Repair) Clone() Behavior {
	out := *r
	return &out
}

// UnderConstruction is the transient entity a Build spawns: it sits at
// hp<max_hp until fully healed, at which point it removes itself and
// adds the built unit at the same position, per spec.md §4.11's state
// machine.
type UnderConstruction struct {
	Base

	BuilderID string
	BuiltName string
}

func (uc *UnderConstruction) OnHeal(e *Entity, w World, amount int) {
	if e.HP < e.MaxHP {
		return
	}
	pos := e.Position
	alignment := e.Alignment
	w.RemoveEntity(e)
	w.AddEntity(uc.BuiltName, pos, alignment)
}

func (uc *UnderConstruction) Clone() Behavior {
	out := *uc
	return &out
}

func parsePosition(s string) (pos hexgrid.Position, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return pos, fmt.Errorf("expected \"q,r\", got %q", s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return pos, err
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return pos, err
	}
	return hexgrid.Position{Q: q, R: r}, nil
}
