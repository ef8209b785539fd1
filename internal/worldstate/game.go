// Package worldstate implements C6: the authoritative per-game
// container of entities, occupancy, resource pools, subscribers, and
// the revealed-area polygon, plus the mutation operations (add/move/
// remove entity, spend, add_resource, handle_attack, heal_entity) that
// keep spec.md §3's seven invariants intact across a tick.
package worldstate

import (
	"math/rand"
	"sync"

	"hexarena/internal/errkind"
	"hexarena/internal/entity"
	"hexarena/internal/eventbus"
	"hexarena/internal/hexgrid"
	"hexarena/internal/template"
	"hexarena/internal/vision"
)

// Lifecycle is the one-way Game state machine: Lobby -> Active -> Finished.
type Lifecycle int

const (
	Lobby Lifecycle = iota
	Active
	Finished
)

// Fortress is the origin town-hall structure; its footprint is the
// seven-cell plate documented in spec.md §3 invariant 2.
var Fortress = hexgrid.Position{Q: 0, R: 0}

// Subscriber is the opaque transport sink the engine broadcasts to.
// Per spec.md §6, the engine never reads from a Subscriber directly;
// any Send failure drops it from the game's subscriber set after the
// current broadcast completes.
type Subscriber interface {
	Send(message map[string]any) error
}

// Game is one authoritative simulation instance.
type Game struct {
	ID      string
	OwnerID string
	State   Lifecycle

	Inactive        bool
	TimeSinceActive float64
	Runtime         float64

	resources map[entity.ResourceType]float64

	entities   map[string]*entity.Entity
	units      map[string]*entity.Entity
	resourceEnts map[string]*entity.Entity
	structures map[string]*entity.Entity
	occupancy  map[hexgrid.Position]*entity.Entity

	fortressID        string
	fortressFootprint []hexgrid.Position

	subscribers   map[string]Subscriber
	queuedUpdates map[string]bool

	revealed *vision.Area

	templates template.Catalog
	rng       *rand.Rand

	mu sync.Mutex
}

// New constructs an empty game in the Lobby state; the caller is
// expected to call AddFortress and seed resources before transitioning
// to Active (engine.Engine.CreateGame does both for the common case).
func New(id, ownerID string, templates template.Catalog, rng *rand.Rand) *Game {
	return &Game{
		ID:            id,
		OwnerID:       ownerID,
		State:         Lobby,
		resources:     make(map[entity.ResourceType]float64),
		entities:      make(map[string]*entity.Entity),
		units:         make(map[string]*entity.Entity),
		resourceEnts:  make(map[string]*entity.Entity),
		structures:    make(map[string]*entity.Entity),
		occupancy:     make(map[hexgrid.Position]*entity.Entity),
		subscribers:   make(map[string]Subscriber),
		queuedUpdates: make(map[string]bool),
		revealed:      vision.NewArea(),
		templates:     templates,
		rng:           rng,
	}
}

// StartingResources seeds the five resource pools, typically called
// once at creation.
func (g *Game) StartingResources(amounts map[entity.ResourceType]float64) {
	for rt, amt := range amounts {
		g.resources[rt] = amt
	}
}

// Activate transitions Lobby -> Active. It is a no-op once already
// Active or Finished, since the state machine is one-way.
func (g *Game) Activate() {
	if g.State == Lobby {
		g.State = Active
	}
}

// ---- entity.World implementation ----

func (g *Game) Occupant(pos hexgrid.Position) (*entity.Entity, bool) {
	e, ok := g.occupancy[pos]
	return e, ok
}

func (g *Game) IsOccupied(pos hexgrid.Position) bool {
	_, ok := g.occupancy[pos]
	return ok
}

func (g *Game) EntityByID(id string) (*entity.Entity, bool) {
	e, ok := g.entities[id]
	if !ok || e.Removed {
		return nil, false
	}
	return e, true
}

func (g *Game) FindNearest(from hexgrid.Position, radius int, match func(*entity.Entity) bool) (*entity.Entity, bool) {
	for p := range hexgrid.FloodFill(from, &radius, g.rng) {
		if e, ok := g.occupancy[p]; ok && match(e) {
			return e, true
		}
	}
	return nil, false
}

func (g *Game) FortressPosition() hexgrid.Position {
	return Fortress
}

// AddEntity instantiates name from the template catalog at pos for
// alignment. Placing onto an occupied position is an InvariantViolation
// per spec.md §7 — a programmer/caller error, never a silent overwrite.
func (g *Game) AddEntity(name string, pos hexgrid.Position, alignment entity.Alignment) (*entity.Entity, error) {
	if g.IsOccupied(pos) {
		return nil, errkind.New(errkind.InvariantViolation, "add_entity: %v already occupied", pos)
	}
	e, err := g.templates.Instantiate(name)
	if err != nil {
		return nil, err
	}
	e.Position = pos
	e.Alignment = alignment

	g.insert(e, []hexgrid.Position{pos})

	for _, b := range e.Behaviors {
		b.OnCreate(e, g)
	}
	g.Broadcast(eventbus.EntityAdd(e))
	if e.Alignment == entity.Player && e.VisionSize > 0 {
		g.revealAround(pos, e.VisionSize)
	}
	return e, nil
}

// AddFortress places a multi-cell entity whose footprint is the origin
// plus its six neighbors, all indexed to the same Entity per spec.md
// §3 invariant 2's documented exception.
func (g *Game) AddFortress(name string, alignment entity.Alignment) (*entity.Entity, error) {
	if g.IsOccupied(Fortress) {
		return nil, errkind.New(errkind.InvariantViolation, "fortress position already occupied")
	}
	e, err := g.templates.Instantiate(name)
	if err != nil {
		return nil, err
	}
	e.Position = Fortress
	e.Alignment = alignment

	footprint := append([]hexgrid.Position{Fortress}, Fortress.Neighbors()[:]...)
	g.insert(e, footprint)
	g.fortressID = e.ID
	g.fortressFootprint = footprint

	for _, b := range e.Behaviors {
		b.OnCreate(e, g)
	}
	g.Broadcast(eventbus.EntityAdd(e))
	return e, nil
}

func (g *Game) insert(e *entity.Entity, footprint []hexgrid.Position) {
	g.entities[e.ID] = e
	for _, p := range footprint {
		g.occupancy[p] = e
	}
	switch {
	case e.Tag&entity.Unit != 0:
		g.units[e.ID] = e
	case e.Tag&entity.Resource != 0:
		g.resourceEnts[e.ID] = e
	case e.Tag&entity.Structure != 0:
		g.structures[e.ID] = e
	}
}

// MoveEntity re-indexes the occupancy map and extends vision for
// Player-aligned entities. Moving onto an occupied cell is an
// InvariantViolation; Pathing is responsible for never attempting it.
func (g *Game) MoveEntity(e *entity.Entity, pos hexgrid.Position) error {
	if g.IsOccupied(pos) {
		return errkind.New(errkind.InvariantViolation, "move_entity: %v already occupied", pos)
	}
	delete(g.occupancy, e.Position)
	e.Position = pos
	g.occupancy[pos] = e
	g.QueueUpdate(e.ID)
	if e.Alignment == entity.Player && e.VisionSize > 0 {
		g.revealAround(pos, e.VisionSize)
	}
	return nil
}

// RemoveEntity tombstones e, clears every occupancy cell it owns
// (handling the fortress's multi-cell footprint), invokes each
// behavior's OnRemove, and emits the terminal entity/remove event.
func (g *Game) RemoveEntity(e *entity.Entity) {
	if e.Removed {
		return
	}
	e.Removed = true

	if e.ID == g.fortressID {
		for _, p := range g.fortressFootprint {
			delete(g.occupancy, p)
		}
	} else if occ, ok := g.occupancy[e.Position]; ok && occ.ID == e.ID {
		delete(g.occupancy, e.Position)
	}

	delete(g.entities, e.ID)
	delete(g.units, e.ID)
	delete(g.resourceEnts, e.ID)
	delete(g.structures, e.ID)
	delete(g.queuedUpdates, e.ID)

	for _, b := range e.Behaviors {
		b.OnRemove(e, g)
	}
	g.Broadcast(eventbus.EntityRemove(e.ID, e.Render.DeathVisual))
}

// HandleAttack clamps target hp at 0, always broadcasts entity/attack,
// and removes the target on death rather than leaving a zero-hp
// corpse, per spec.md §4.7.
func (g *Game) HandleAttack(attacker, target *entity.Entity, amount int, visual string) {
	target.HP -= amount
	if target.HP < 0 {
		target.HP = 0
	}
	g.Broadcast(eventbus.EntityAttack(attacker.ID, target.ID, visual))
	if target.HP == 0 {
		g.RemoveEntity(target)
		return
	}
	g.QueueUpdate(target.ID)
}

// HealEntity clamps to MaxHP and, if the entity was not already full,
// queues an update and fans OnHeal out to every behavior so that
// UnderConstruction can observe completion.
func (g *Game) HealEntity(e *entity.Entity, amount int) {
	if e.HP >= e.MaxHP {
		return
	}
	e.HP += amount
	if e.HP > e.MaxHP {
		e.HP = e.MaxHP
	}
	g.QueueUpdate(e.ID)
	for _, b := range e.Behaviors {
		b.OnHeal(e, g, amount)
	}
}

// Spend verifies every cost is affordable before debiting any of them;
// a single insufficient resource fails the whole call with no partial
// debit, per spec.md §4.6.
func (g *Game) Spend(costs ...entity.ResourceCost) error {
	for _, c := range costs {
		if g.resources[c.Resource] < c.Amount {
			return errkind.New(errkind.ClientError, "insufficient %s: have %.1f, need %.1f", c.Resource, g.resources[c.Resource], c.Amount)
		}
	}
	for _, c := range costs {
		g.credit(c.Resource, -c.Amount)
	}
	return nil
}

// AddResource is an unconditional credit, always broadcasting a delta.
func (g *Game) AddResource(rt entity.ResourceType, amount float64) {
	g.credit(rt, amount)
}

func (g *Game) credit(rt entity.ResourceType, signedAmount float64) {
	g.resources[rt] += signedAmount
	g.Broadcast(eventbus.Resource(rt, signedAmount))
}

func (g *Game) ResourceBalance(rt entity.ResourceType) float64 {
	return g.resources[rt]
}

func (g *Game) QueueUpdate(id string) {
	g.queuedUpdates[id] = true
}

func (g *Game) Random() *rand.Rand {
	return g.rng
}

// ReportProgress broadcasts a production queue's advancement, e.g.
// Train counting a pending unit toward its duration each tick.
func (g *Game) ReportProgress(parentID, event string, queue int, progress, duration float64) {
	g.Broadcast(eventbus.EntityProgress(parentID, event, queue, progress, duration))
}

// FinishGame transitions Active -> Finished exactly once and
// broadcasts the terminal game/end event, per spec.md §4.11.
func (g *Game) FinishGame(success bool, label string) {
	if g.State == Finished {
		return
	}
	g.State = Finished
	g.Broadcast(eventbus.GameEnd(success, label))
}

func (g *Game) revealAround(pos hexgrid.Position, radius int) {
	if g.revealed.Reveal(pos, radius) {
		g.Broadcast(eventbus.Reveal(g.revealed.Boundary()))
	}
}

// ---- subscribers & broadcast ----

// Subscribe registers conn under id. Re-subscribing the same id
// replaces the previous sink.
func (g *Game) Subscribe(id string, conn Subscriber) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers[id] = conn
}

// Unsubscribe removes id from the subscriber set, if present.
func (g *Game) Unsubscribe(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.subscribers, id)
}

// SubscriberCount reports the live subscriber count.
func (g *Game) SubscriberCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subscribers)
}

// Broadcast fans message out to every current subscriber. A subscriber
// whose Send fails is collected and removed only after the full
// fan-out completes, per spec.md §5's no-mid-iteration-removal rule.
func (g *Game) Broadcast(message map[string]any) {
	g.mu.Lock()
	failed := make([]string, 0)
	for id, sub := range g.subscribers {
		if err := sub.Send(message); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		delete(g.subscribers, id)
	}
	g.mu.Unlock()
}

// ---- per-tick lifecycle (C7) ----

// idleGraceSeconds is how long a game with zero subscribers keeps
// ticking before Advance reports it eligible for destruction.
const idleGraceSeconds = 30.0

// Advance runs one C7 scheduler tick against this game's subscriber
// and lifecycle state per spec.md §4.10, returning true once the
// caller should evict the game entirely.
func (g *Game) Advance(delta float64) (destroy bool) {
	hasSubscribers := g.SubscriberCount() > 0

	switch {
	case g.Inactive && hasSubscribers:
		g.Inactive = false
		g.TimeSinceActive = 0
	case g.Inactive:
		g.TimeSinceActive += delta
		return g.TimeSinceActive >= idleGraceSeconds
	case !hasSubscribers:
		g.Inactive = true
		g.TimeSinceActive = 0
		return false
	}

	g.Runtime += delta
	if g.State == Active {
		g.activeTick(delta)
	}
	return false
}

// activeTick ticks every live entity over a stable snapshot of ids
// (so a behavior that removes or adds entities mid-tick never corrupts
// iteration), then flushes the tick's coalesced updates.
func (g *Game) activeTick(delta float64) {
	ids := make([]string, 0, len(g.entities))
	for id := range g.entities {
		ids = append(ids, id)
	}
	for _, id := range ids {
		e, ok := g.entities[id]
		if !ok || e.Removed {
			continue
		}
		e.Tick(g, delta)
	}
	g.flushQueuedUpdates()
}

// flushQueuedUpdates drains queued_updates into a single entity/update
// broadcast, the C8 coalescer spec.md §4.8 requires so that a tick with
// a hundred moving units produces one message, not a hundred.
func (g *Game) flushQueuedUpdates() {
	if len(g.queuedUpdates) == 0 {
		return
	}
	flushed := make([]*entity.Entity, 0, len(g.queuedUpdates))
	for id := range g.queuedUpdates {
		if e, ok := g.entities[id]; ok && !e.Removed {
			flushed = append(flushed, e)
		}
	}
	g.queuedUpdates = make(map[string]bool)
	if len(flushed) == 0 {
		return
	}
	g.Broadcast(eventbus.EntityUpdate(flushed))
}

// Snapshot serializes every live entity and every revealed hex (the
// full revealed set, not just its boundary) for a point-in-time game/get response or the debug map renderer.
func (g *Game) Snapshot() map[string]any {
	entities := make([]map[string]any, 0, len(g.entities))
	for _, e := range g.entities {
		entities = append(entities, eventbus.SerializeEntity(e))
	}
	resources := make(map[string]float64, len(g.resources))
	for rt, amt := range g.resources {
		resources[string(rt)] = amt
	}
	return map[string]any{
		"id":        g.ID,
		"state":     int(g.State),
		"entities":  entities,
		"resources": resources,
		"revealed":  g.revealed.Coordinates(),
	}
}
