package entity

// Strengthened is implemented by behaviors whose effect scales with a
// shared Strength field, the quantity Empower adds to.
type Strengthened interface {
	AddStrength(amount float64)
}

// Summon periodically spawns one unit of Unit at a free neighboring
// position. Strength increases the number spawned per activation.
type Summon struct {
	Base
	Cooldown

	Unit     string
	Strength float64
}

func (s *Summon) OnTick(e *Entity, w World, delta float64) {
	s.Cooldown.Tick(delta, w.Random(), func() bool { return s.OnActivate(e, w) })
}

func (s *Summon) OnActivate(e *Entity, w World) bool {
	count := 1
	if s.Strength > 1 {
		count = int(s.Strength)
	}
	spawned := 0
	for _, n := range e.Position.Neighbors() {
		if spawned >= count {
			break
		}
		if w.IsOccupied(n) {
			continue
		}
		if _, err := w.AddEntity(s.Unit, n, e.Alignment); err == nil {
			spawned++
		}
	}
	return spawned > 0
}

func (s *Summon) AddStrength(amount float64) { s.Strength += amount }

func (s *Summon) Clone() Behavior {
	out := *s
	return &out
}

// WeightedUnit is one entry in a SummonPool's weighted mix.
type WeightedUnit struct {
	Unit   string
	Weight float64
}

// SummonPool is Summon generalized to a weighted choice among several
// unit names, used by enemy portals that spawn a mix of unit types.
type SummonPool struct {
	Base
	Cooldown

	Pool     []WeightedUnit
	Strength float64
}

func (s *SummonPool) OnTick(e *Entity, w World, delta float64) {
	s.Cooldown.Tick(delta, w.Random(), func() bool { return s.OnActivate(e, w) })
}

func (s *SummonPool) OnActivate(e *Entity, w World) bool {
	if len(s.Pool) == 0 {
		return false
	}
	unit := s.choose(w)
	for _, n := range e.Position.Neighbors() {
		if w.IsOccupied(n) {
			continue
		}
		_, err := w.AddEntity(unit, n, e.Alignment)
		return err == nil
	}
	return false
}

func (s *SummonPool) choose(w World) string {
	total := 0.0
	for _, entry := range s.Pool {
		total += entry.Weight
	}
	roll := w.Random().Float64() * total
	for _, entry := range s.Pool {
		if roll < entry.Weight {
			return entry.Unit
		}
		roll -= entry.Weight
	}
	return s.Pool[len(s.Pool)-1].Unit
}

func (s *SummonPool) AddStrength(amount float64) { s.Strength += amount }

func (s *SummonPool) Clone() Behavior {
	out := *s
	out.Pool = append([]WeightedUnit(nil), s.Pool...)
	return &out
}

// Empower adds Strength to another labeled behavior on the same
// entity. Activation fails (and retries sooner) if the label is
// missing or the target behavior does not carry a Strength field.
type Empower struct {
	Base
	Cooldown

	TargetLabel string
	Strength    float64
}

func (em *Empower) OnTick(e *Entity, w World, delta float64) {
	em.Cooldown.Tick(delta, w.Random(), func() bool { return em.OnActivate(e, w) })
}

func (em *Empower) OnActivate(e *Entity, w World) bool {
	target, ok := e.Label(em.TargetLabel)
	if !ok {
		return false
	}
	strengthened, ok := target.(Strengthened)
	if !ok {
		return false
	}
	strengthened.AddStrength(em.Strength)
	return true
}

func (em *Empower) Clone() Behavior {
	out := *em
	return &out
}
