package engine

import (
	"math/rand"
	"testing"
	"time"

	"hexarena/internal/entity"
	"hexarena/internal/template"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func testCatalog() template.Catalog {
	return template.Catalog{
		"fortress": {
			Name:             "fortress",
			HP:               100,
			MaxHP:            100,
			Tag:              entity.Structure,
			Template:         true,
			BehaviorsByLabel: map[string]entity.Behavior{},
		},
	}
}

func TestCreateGamePlacesFortressAndActivates(t *testing.T) {
	eng := New(testCatalog(), Config{
		TickRate:         30,
		FortressTemplate: "fortress",
		StartingResources: map[entity.ResourceType]float64{
			entity.Food: 100,
		},
	}, testRNG())
	defer eng.Shutdown()

	g, err := eng.CreateGame("g1", "owner1")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if g.ResourceBalance(entity.Food) != 100 {
		t.Fatalf("Food balance = %v, want 100", g.ResourceBalance(entity.Food))
	}
	if !g.IsOccupied(g.FortressPosition()) {
		t.Fatal("expected the fortress to be placed")
	}
}

func TestCreateGameRejectsDuplicateID(t *testing.T) {
	eng := New(testCatalog(), Config{TickRate: 30}, testRNG())
	defer eng.Shutdown()

	if _, err := eng.CreateGame("dup", "owner1"); err != nil {
		t.Fatalf("first CreateGame: %v", err)
	}
	if _, err := eng.CreateGame("dup", "owner2"); err == nil {
		t.Fatal("expected a duplicate game id to be rejected")
	}
}

func TestGameLookup(t *testing.T) {
	eng := New(testCatalog(), Config{TickRate: 30}, testRNG())
	defer eng.Shutdown()

	eng.CreateGame("g1", "owner1")
	if _, ok := eng.Game("g1"); !ok {
		t.Fatal("expected to find the created game")
	}
	if _, ok := eng.Game("missing"); ok {
		t.Fatal("expected no game for an unknown id")
	}
}

func TestEvictRemovesGame(t *testing.T) {
	eng := New(testCatalog(), Config{TickRate: 30}, testRNG())
	defer eng.Shutdown()

	eng.CreateGame("g1", "owner1")
	eng.Evict("g1")
	if _, ok := eng.Game("g1"); ok {
		t.Fatal("expected Evict to remove the game")
	}
}

func TestSchedulerTicksCreatedGames(t *testing.T) {
	eng := New(testCatalog(), Config{TickRate: 1000}, testRNG())
	defer eng.Shutdown()

	g, _ := eng.CreateGame("g1", "owner1")
	g.Subscribe("watcher", noopSubscriber{})

	time.Sleep(50 * time.Millisecond)

	if g.Runtime <= 0 {
		t.Fatalf("Runtime = %v, want > 0 after scheduler ticks", g.Runtime)
	}
}

func TestSameSeedProducesSameGameRandomDraw(t *testing.T) {
	engA := New(testCatalog(), Config{TickRate: 30}, rand.New(rand.NewSource(42)))
	defer engA.Shutdown()
	engB := New(testCatalog(), Config{TickRate: 30}, rand.New(rand.NewSource(42)))
	defer engB.Shutdown()

	gA, _ := engA.CreateGame("g1", "owner1")
	gB, _ := engB.CreateGame("g1", "owner1")

	if gA.Random().Int63() != gB.Random().Int63() {
		t.Fatal("expected two engines seeded identically to hand their first game an identical random source")
	}
}

type noopSubscriber struct{}

func (noopSubscriber) Send(map[string]any) error { return nil }
