package worldstate

import (
	"math/rand"
	"testing"

	"hexarena/internal/entity"
	"hexarena/internal/hexgrid"
	"hexarena/internal/template"
)

func testCatalog() template.Catalog {
	return template.Catalog{
		"worker": {
			Name:             "worker",
			HP:               40,
			MaxHP:            40,
			Tag:              entity.Unit,
			Template:         true,
			BehaviorsByLabel: map[string]entity.Behavior{},
		},
		"fortress": {
			Name:             "fortress",
			HP:               2000,
			MaxHP:            2000,
			Tag:              entity.Structure,
			Template:         true,
			Behaviors:        []entity.Behavior{&entity.Essential{Label: "core"}},
			BehaviorsByLabel: map[string]entity.Behavior{},
		},
	}
}

func newTestGame() *Game {
	g := New("g1", "owner1", testCatalog(), rand.New(rand.NewSource(1)))
	g.Activate()
	return g
}

func TestAddEntityRejectsOccupiedCell(t *testing.T) {
	g := newTestGame()
	pos := hexgrid.Position{Q: 1, R: 1}
	if _, err := g.AddEntity("worker", pos, entity.Player); err != nil {
		t.Fatalf("first add_entity: %v", err)
	}
	if _, err := g.AddEntity("worker", pos, entity.Player); err == nil {
		t.Fatal("expected the second add_entity onto the same cell to fail")
	}
}

func TestAddFortressOccupiesSevenCells(t *testing.T) {
	g := newTestGame()
	if _, err := g.AddFortress("fortress", entity.Player); err != nil {
		t.Fatalf("add_fortress: %v", err)
	}
	if !g.IsOccupied(Fortress) {
		t.Fatal("expected the origin cell to be occupied")
	}
	for _, n := range Fortress.Neighbors() {
		if !g.IsOccupied(n) {
			t.Fatalf("expected fortress footprint to occupy neighbor %v", n)
		}
	}
}

func TestRemoveEntityClearsFortressFootprint(t *testing.T) {
	g := newTestGame()
	fortress, err := g.AddFortress("fortress", entity.Player)
	if err != nil {
		t.Fatalf("add_fortress: %v", err)
	}
	g.RemoveEntity(fortress)
	if g.IsOccupied(Fortress) {
		t.Fatal("expected the origin cell to be vacated")
	}
	for _, n := range Fortress.Neighbors() {
		if g.IsOccupied(n) {
			t.Fatalf("expected neighbor %v to be vacated", n)
		}
	}
}

func TestMoveEntityRejectsOccupiedDestination(t *testing.T) {
	g := newTestGame()
	from := hexgrid.Position{Q: 0, R: 1}
	to := hexgrid.Position{Q: 0, R: 2}
	a, _ := g.AddEntity("worker", from, entity.Player)
	_, _ = g.AddEntity("worker", to, entity.Player)

	if err := g.MoveEntity(a, to); err == nil {
		t.Fatal("expected move onto an occupied cell to fail")
	}
}

func TestHandleAttackRemovesEntityAtZeroHP(t *testing.T) {
	g := newTestGame()
	attacker, _ := g.AddEntity("worker", hexgrid.Position{Q: 2, R: 0}, entity.Player)
	target, _ := g.AddEntity("worker", hexgrid.Position{Q: 3, R: 0}, entity.Enemy)

	g.HandleAttack(attacker, target, target.MaxHP+10, "slash")

	if _, ok := g.EntityByID(target.ID); ok {
		t.Fatal("expected a lethal attack to remove the target")
	}
	if g.IsOccupied(hexgrid.Position{Q: 3, R: 0}) {
		t.Fatal("expected the target's cell to be vacated after removal")
	}
}

func TestHandleAttackClampsAtZero(t *testing.T) {
	g := newTestGame()
	attacker, _ := g.AddEntity("worker", hexgrid.Position{Q: 4, R: 0}, entity.Player)
	target, _ := g.AddEntity("worker", hexgrid.Position{Q: 5, R: 0}, entity.Enemy)
	target.HP = 5

	g.HandleAttack(attacker, target, 100, "slash")
	if target.HP != 0 {
		t.Fatalf("HP = %d, want 0", target.HP)
	}
}

func TestSpendFailsAtomically(t *testing.T) {
	g := newTestGame()
	g.StartingResources(map[entity.ResourceType]float64{entity.Food: 10, entity.Wood: 10})

	err := g.Spend(
		entity.ResourceCost{Resource: entity.Food, Amount: 5},
		entity.ResourceCost{Resource: entity.Wood, Amount: 100},
	)
	if err == nil {
		t.Fatal("expected insufficient Wood to fail the whole spend")
	}
	if g.ResourceBalance(entity.Food) != 10 {
		t.Fatalf("Food = %v, want 10 (no partial debit)", g.ResourceBalance(entity.Food))
	}
}

func TestSpendDebitsAllOnSuccess(t *testing.T) {
	g := newTestGame()
	g.StartingResources(map[entity.ResourceType]float64{entity.Food: 10, entity.Wood: 10})

	if err := g.Spend(entity.ResourceCost{Resource: entity.Food, Amount: 5}); err != nil {
		t.Fatalf("spend: %v", err)
	}
	if g.ResourceBalance(entity.Food) != 5 {
		t.Fatalf("Food = %v, want 5", g.ResourceBalance(entity.Food))
	}
}

type recordingSubscriber struct {
	messages []map[string]any
	fail     bool
}

func (r *recordingSubscriber) Send(message map[string]any) error {
	if r.fail {
		return errFailedSend
	}
	r.messages = append(r.messages, message)
	return nil
}

type sendError string

func (e sendError) Error() string { return string(e) }

const errFailedSend = sendError("send failed")

func TestBroadcastDropsFailingSubscriberAfterFanOut(t *testing.T) {
	g := newTestGame()
	ok := &recordingSubscriber{}
	bad := &recordingSubscriber{fail: true}
	g.Subscribe("ok", ok)
	g.Subscribe("bad", bad)

	g.Broadcast(map[string]any{"type": "test"})

	if g.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount = %d, want 1", g.SubscriberCount())
	}
	if len(ok.messages) != 1 {
		t.Fatalf("expected the surviving subscriber to receive the broadcast")
	}
}

func TestAdvanceGoesInactiveThenDestroys(t *testing.T) {
	g := newTestGame()

	if destroy := g.Advance(1); destroy {
		t.Fatal("a freshly created game with no subscribers must not destroy on its first tick")
	}
	if !g.Inactive {
		t.Fatal("expected a subscriber-less game to go Inactive")
	}

	if destroy := g.Advance(idleGraceSeconds - 1); destroy {
		t.Fatal("should not destroy before the idle grace period elapses")
	}
	if destroy := g.Advance(2); !destroy {
		t.Fatal("expected destroy once TimeSinceActive exceeds the idle grace period")
	}
}

func TestAdvanceReactivatesOnSubscribe(t *testing.T) {
	g := newTestGame()
	g.Advance(1)
	if !g.Inactive {
		t.Fatal("expected game to go inactive with no subscribers")
	}

	g.Subscribe("s1", &recordingSubscriber{})
	g.Advance(1)
	if g.Inactive {
		t.Fatal("expected a new subscriber to reactivate the game")
	}
}
