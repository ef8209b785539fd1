// Package entity holds the Entity record and the Behavior composition
// model described by the hex-grid simulation: a live entity is a
// position, health, alignment, and an ordered list of Behaviors that
// each tick drives its own activation logic.
//
// Per the redesign note carried into this repository, the original
// class-inheritance/super() chain becomes a tagged sum of concrete
// Behavior implementations sharing one interface, with Pathing
// expressed as an embeddable two-phase "handled" helper rather than a
// base class.
package entity

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"sync/atomic"
	"time"

	"hexarena/internal/hexgrid"
)

// Alignment classifies who an entity fights for.
type Alignment int

const (
	Enemy Alignment = iota
	Neutral
	Player
)

// Tag is a bitmask of entity kinds; exactly one bit is set on any live
// entity.
type Tag int

const (
	Unit Tag = 1 << iota
	Resource
	Structure
)

// ResourceType enumerates the five tradeable goods.
type ResourceType string

const (
	Food   ResourceType = "Food"
	Stone  ResourceType = "Stone"
	Wood   ResourceType = "Wood"
	Gold   ResourceType = "Gold"
	Aether ResourceType = "Aether"
)

// Render describes how a client should draw an entity; purely
// declarative, never interpreted by the engine itself.
type Render struct {
	Images      []string
	Tint        int
	Size        int
	DeathVisual string
}

// Entity is a live simulation object or, when Template is true, an
// uninstantiated catalog prototype that is never ticked or indexed.
type Entity struct {
	ID       string
	Position hexgrid.Position

	HP    int
	MaxHP int

	Alignment    Alignment
	Tag          Tag
	ResourceType ResourceType // meaningful only when Tag&Resource != 0

	VisionSize int
	Render     Render
	Name       string

	// Priority and UnitType are carried from original_source's
	// chat-driven Unit creation (job selection, preferred gather
	// target) and are optional on non-chat-spawned entities.
	Priority ResourceType
	UnitType string

	Template bool
	Removed  bool

	Behaviors        []Behavior
	BehaviorsByLabel map[string]Behavior

	// TimeUntilUpdate is the staggered heartbeat that queues this
	// entity for the next coalesced entity/update broadcast even when
	// nothing else touched it, so long-lived state (hp regen, carried
	// resources) eventually reaches subscribers. Never serialized.
	TimeUntilUpdate float64
}

// NewID returns a fresh 24-character hex identifier shaped like a Mongo
// ObjectID: a 4-byte unix timestamp, a 5-byte random value, and a
// 3-byte process-local monotonic counter, matching the scheme
// original_source's generate_id() builds over bson.ObjectId().
func NewID() string {
	var buf [12]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(buf[4:9]); err != nil {
		// crypto/rand failure is unrecoverable entropy starvation;
		// fall back to the counter alone rather than panicking.
	}
	c := idCounter.Add(1)
	buf[9] = byte(c >> 16)
	buf[10] = byte(c >> 8)
	buf[11] = byte(c)
	return hex.EncodeToString(buf[:])
}

var idCounter atomic.Uint32

// Clone deep-copies a template into a fresh live instance: new id,
// Template cleared, hp reset to max, behaviors deep-copied so per-entity
// mutable state (cooldown timers, labels) never aliases the prototype.
func (e *Entity) Clone() *Entity {
	out := *e
	out.ID = NewID()
	out.Template = false
	out.HP = e.MaxHP
	out.Removed = false

	out.Render.Images = append([]string(nil), e.Render.Images...)

	out.Behaviors = make([]Behavior, len(e.Behaviors))
	out.BehaviorsByLabel = make(map[string]Behavior, len(e.BehaviorsByLabel))
	for i, b := range e.Behaviors {
		cloned := b.Clone()
		out.Behaviors[i] = cloned
		for label, original := range e.BehaviorsByLabel {
			if original == b {
				out.BehaviorsByLabel[label] = cloned
			}
		}
	}
	return &out
}

// Tick advances every behavior by delta seconds, in stored order, and
// is the per-entity half of the C7 scheduler's per-tick work. A
// jittered heartbeat queues the entity for its next coalesced update
// independently of whatever the behaviors themselves trigger.
func (e *Entity) Tick(world World, delta float64) {
	e.TimeUntilUpdate -= delta
	if e.TimeUntilUpdate <= 0 {
		world.QueueUpdate(e.ID)
		e.TimeUntilUpdate = 5 + world.Random().Float64()
	}
	for _, b := range e.Behaviors {
		b.OnTick(e, world, delta)
	}
}

// Label returns the behavior registered under name, if any.
func (e *Entity) Label(name string) (Behavior, bool) {
	b, ok := e.BehaviorsByLabel[name]
	return b, ok
}
