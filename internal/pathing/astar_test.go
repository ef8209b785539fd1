package pathing

import (
	"math/rand"
	"testing"

	"hexarena/internal/hexgrid"
)

func noneOccupied(hexgrid.Position) bool { return false }

func assertValidPath(t *testing.T, path []hexgrid.Position, start hexgrid.Position, occupied Occupied) {
	t.Helper()
	if len(path) == 0 {
		return
	}
	if path[0] != start {
		t.Fatalf("path must start at %v, got %v", start, path[0])
	}
	for i := 1; i < len(path); i++ {
		if hexgrid.Distance(path[i-1], path[i]) != 1 {
			t.Errorf("non-adjacent step %v -> %v", path[i-1], path[i])
		}
		if occupied(path[i]) {
			t.Errorf("path passes through occupied position %v", path[i])
		}
	}
}

func TestAStarReachesUnobstructedTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	start := hexgrid.Position{Q: 0, R: 0}
	target := hexgrid.Position{Q: 4, R: 0}
	path := AStar(start, target, noneOccupied, 0, rng)
	assertValidPath(t, path, start, noneOccupied)
	if path[len(path)-1] != target {
		t.Fatalf("expected to reach target, got final %v", path[len(path)-1])
	}
}

func TestAStarRoutesAroundObstacles(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	blocked := map[hexgrid.Position]bool{}
	for r := 0; r <= 2; r++ {
		blocked[hexgrid.Position{Q: 5, R: r}] = true
	}
	occupied := func(p hexgrid.Position) bool { return blocked[p] }

	start := hexgrid.Position{Q: 0, R: 0}
	target := hexgrid.Position{Q: 10, R: 0}
	path := AStar(start, target, occupied, 60, rng)
	assertValidPath(t, path, start, occupied)
}

func TestAStarBoundedByExpansionLimit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	start := hexgrid.Position{Q: 0, R: 0}
	target := hexgrid.Position{Q: 100, R: 0}
	path := AStar(start, target, noneOccupied, 5, rng)
	if path[len(path)-1] == target {
		t.Fatal("should not reach a far target within a tiny expansion budget")
	}
}

func TestFloodFillSameContract(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	start := hexgrid.Position{Q: 0, R: 0}
	target := hexgrid.Position{Q: 3, R: -1}
	path := FloodFill(start, target, noneOccupied, 0, rng)
	assertValidPath(t, path, start, noneOccupied)
	if path[len(path)-1] != target {
		t.Fatalf("expected flood fill to reach target, got %v", path[len(path)-1])
	}
}
