package hexgrid

import (
	"math/rand"
	"testing"
)

func TestDistanceOrigin(t *testing.T) {
	if d := Distance(Position{0, 0}, Position{0, 0}); d != 0 {
		t.Errorf("expected 0, got %d", d)
	}
	if d := Distance(Position{0, 0}, Position{3, 0}); d != 3 {
		t.Errorf("expected 3, got %d", d)
	}
}

func TestNeighborsAreUnitDistance(t *testing.T) {
	origin := Position{2, -1}
	for _, n := range origin.Neighbors() {
		if d := Distance(origin, n); d != 1 {
			t.Errorf("neighbor %v at distance %d, want 1", n, d)
		}
	}
}

func TestPixelRoundTrip(t *testing.T) {
	for q := -5; q <= 5; q++ {
		for r := -5; r <= 5; r++ {
			p := Position{Q: q, R: r}
			x, y := p.ToPixel()
			if got := FromPixel(x, y); got != p {
				t.Errorf("round trip %v -> (%v,%v) -> %v", p, x, y, got)
			}
		}
	}
}

func TestLineToEndpointsAndLength(t *testing.T) {
	a := Position{0, 0}
	b := Position{4, -2}
	line := LineTo(a, b)
	if len(line) != Distance(a, b)+1 {
		t.Fatalf("expected length %d, got %d", Distance(a, b)+1, len(line))
	}
	if line[0] != a || line[len(line)-1] != b {
		t.Fatalf("line must start at a and end at b, got %v", line)
	}
	for i := 1; i < len(line); i++ {
		if Distance(line[i-1], line[i]) != 1 {
			t.Errorf("non-adjacent step between %v and %v", line[i-1], line[i])
		}
	}
}

func TestFromCubeRequiresExactlyTwo(t *testing.T) {
	q, r := 1, 2
	if _, err := FromCube(&q, &r, nil); err != nil {
		t.Fatalf("expected success with two axes, got %v", err)
	}
	if _, err := FromCube(&q, nil, nil); err == nil {
		t.Fatal("expected InvalidArgument with one axis supplied")
	}
}

func TestFloodFillRingOrderIsDistanceMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	limit := 3
	origin := Position{0, 0}
	last := -1
	for p := range FloodFill(origin, &limit, rng) {
		d := Distance(origin, p)
		if d < last {
			t.Errorf("flood fill regressed distance: %d after %d", d, last)
		}
		last = d
	}
}

func TestHexagonAreaContainsAllWithinRadius(t *testing.T) {
	center := Position{1, 1}
	radius := 2
	area := HexagonArea(center, radius)
	seen := map[Position]bool{}
	for _, p := range area {
		if Distance(center, p) > radius {
			t.Errorf("position %v outside radius %d", p, radius)
		}
		seen[p] = true
	}
	for dq := -radius; dq <= radius; dq++ {
		for dr := -radius; dr <= radius; dr++ {
			p := Position{center.Q + dq, center.R + dr}
			if Distance(center, p) <= radius && !seen[p] {
				t.Errorf("missing position %v within radius", p)
			}
		}
	}
}
