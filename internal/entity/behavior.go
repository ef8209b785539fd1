package entity

import (
	"math/rand"

	"hexarena/internal/hexgrid"
)

// Behavior is a stateful unit of per-entity logic. Concrete variants
// implement whichever capabilities are meaningful to them; no-op
// embedding via Base supplies the rest.
type Behavior interface {
	OnCreate(e *Entity, w World)
	OnTick(e *Entity, w World, delta float64)
	OnActivate(e *Entity, w World) bool
	OnRemove(e *Entity, w World)
	OnTarget(e *Entity, w World, pos hexgrid.Position)
	OnCommand(e *Entity, w World, key, value string) error
	OnQuery(e *Entity, w World) []QueryDescriptor
	OnHeal(e *Entity, w World, amount int)

	// Clone returns a deep copy for use by Entity.Clone, so that
	// per-instance mutable state never aliases a template's behavior.
	Clone() Behavior
}

// QueryDescriptor is one (key, descriptor) pair a behavior contributes
// to an entity's `query()` response, describing a UI-facing affordance.
type QueryDescriptor struct {
	Key        string
	Descriptor map[string]any
}

// ResourceCost is one (resource, amount) pair, the atomic unit `spend`
// and `add_resource` operate over.
type ResourceCost struct {
	Resource ResourceType
	Amount   float64
}

// World is the narrow surface of Game (internal/worldstate) that
// Behaviors are allowed to call into. Defining it here rather than
// importing worldstate breaks the C4/C6 dependency cycle: worldstate
// implements World, entity never imports worldstate.
type World interface {
	Occupant(pos hexgrid.Position) (*Entity, bool)
	IsOccupied(pos hexgrid.Position) bool
	EntityByID(id string) (*Entity, bool)
	FindNearest(from hexgrid.Position, radius int, match func(*Entity) bool) (*Entity, bool)
	FortressPosition() hexgrid.Position

	AddEntity(name string, pos hexgrid.Position, alignment Alignment) (*Entity, error)
	MoveEntity(e *Entity, pos hexgrid.Position) error
	RemoveEntity(e *Entity)

	HandleAttack(attacker, target *Entity, amount int, visual string)
	HealEntity(e *Entity, amount int)

	Spend(costs ...ResourceCost) error
	AddResource(rt ResourceType, amount float64)
	ResourceBalance(rt ResourceType) float64

	QueueUpdate(id string)
	Random() *rand.Rand
	FinishGame(success bool, label string)
	ReportProgress(parentID, event string, queue int, progress, duration float64)
}

// Base supplies no-op implementations of every Behavior capability.
// Concrete behaviors embed Base and override only what they need,
// mirroring the teacher's pattern of small composed structs
// (CombatState embedded into Player) rather than a class hierarchy.
type Base struct{}

func (Base) OnCreate(*Entity, World)                   {}
func (Base) OnTick(*Entity, World, float64)            {}
func (Base) OnActivate(*Entity, World) bool            { return false }
func (Base) OnRemove(*Entity, World)                   {}
func (Base) OnTarget(*Entity, World, hexgrid.Position) {}
func (Base) OnCommand(*Entity, World, string, string) error {
	return nil
}
func (Base) OnQuery(*Entity, World) []QueryDescriptor { return nil }
func (Base) OnHeal(*Entity, World, int)               {}

// Cooldown is embedded by every behavior whose activation is gated by
// a timer: it owns the default on_tick jitter-reload logic described
// in spec.md §4.4 (success reloads at cooldown*Uniform(0.95,1.05),
// failure reloads sooner at 0.33x that).
type Cooldown struct {
	Seconds               float64
	TimeUntilActivation    float64
}

// Tick decrements the timer and, on expiry, invokes activate and
// reloads according to its outcome. activate is supplied by the
// concrete behavior's OnActivate.
func (c *Cooldown) Tick(delta float64, rng *rand.Rand, activate func() bool) {
	c.TimeUntilActivation -= delta
	if c.TimeUntilActivation > 0 {
		return
	}
	jitter := c.Seconds * (0.95 + 0.1*rng.Float64())
	if activate() {
		c.TimeUntilActivation = jitter
	} else {
		c.TimeUntilActivation = jitter * 0.33
	}
}
