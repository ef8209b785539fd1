// Package engine implements A6: the process-level owner of every live
// game, the template catalog, and the tick scheduler — the composition
// root the transport and HTTP layers are built against. Grounded on
// the teacher's Engine type (internal/game/engine.go), generalized
// from a single game instance to a registry of many.
package engine

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hexarena/internal/entity"
	"hexarena/internal/errkind"
	"hexarena/internal/scheduler"
	"hexarena/internal/template"
	"hexarena/internal/worldstate"
)

// Config bundles the values every new game is seeded with.
type Config struct {
	TickRate          int
	FortressTemplate  string
	StartingResources map[entity.ResourceType]float64
}

// Engine owns every live Game plus the shared template catalog and
// random source, and drives them via an embedded scheduler.Scheduler.
type Engine struct {
	mu      sync.RWMutex
	games   map[string]*worldstate.Game
	catalog template.Catalog
	cfg     Config
	rng     *rand.Rand
	sched   *scheduler.Scheduler
}

// New constructs an Engine over a pre-loaded template catalog and
// starts its scheduler immediately. rng seeds every game's random
// source (jittered cooldowns, A*/flood-fill neighbor shuffling,
// SummonPool's weighted choice); pass a seeded *rand.Rand for
// deterministic tests, or nil to self-seed from the wall clock.
func New(catalog template.Catalog, cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		games:   make(map[string]*worldstate.Game),
		catalog: catalog,
		cfg:     cfg,
		rng:     rng,
	}
	e.sched = scheduler.New(e, cfg.TickRate)
	e.sched.Start()
	return e
}

// Games satisfies scheduler.Registry.
func (e *Engine) Games() map[string]scheduler.Game {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]scheduler.Game, len(e.games))
	for id, g := range e.games {
		out[id] = g
	}
	return out
}

// Evict satisfies scheduler.Registry: it drops a destroyed game.
func (e *Engine) Evict(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.games, id)
}

// CreateGame allocates a fresh Lobby-state game owned by ownerID,
// places its fortress, seeds starting resources, and activates it.
func (e *Engine) CreateGame(id, ownerID string) (*worldstate.Game, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.games[id]; exists {
		return nil, errkind.New(errkind.ClientError, "game %q already exists", id)
	}

	gameRNG := rand.New(rand.NewSource(e.rng.Int63()))
	g := worldstate.New(id, ownerID, e.catalog, gameRNG)
	g.StartingResources(e.cfg.StartingResources)
	if e.cfg.FortressTemplate != "" {
		if _, err := g.AddFortress(e.cfg.FortressTemplate, entity.Player); err != nil {
			return nil, fmt.Errorf("place fortress: %w", err)
		}
	}
	g.Activate()

	e.games[id] = g
	return g, nil
}

// Game looks up a game by id.
func (e *Engine) Game(id string) (*worldstate.Game, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.games[id]
	return g, ok
}

// GameIDs lists every live game id.
func (e *Engine) GameIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.games))
	for id := range e.games {
		out = append(out, id)
	}
	return out
}

// Shutdown stops the tick loop. Individual games are left as-is; the
// process is expected to exit shortly after.
func (e *Engine) Shutdown() {
	e.sched.Stop()
}
