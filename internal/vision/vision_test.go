package vision

import (
	"testing"

	"hexarena/internal/hexgrid"
)

func TestRevealGrowsMonotonically(t *testing.T) {
	a := NewArea()
	if !a.Reveal(hexgrid.Position{0, 0}, 2) {
		t.Fatal("first reveal should grow the area")
	}
	before := len(a.Coordinates())
	if a.Reveal(hexgrid.Position{0, 0}, 2) {
		t.Error("re-revealing the same area should not grow it")
	}
	if len(a.Coordinates()) != before {
		t.Error("area size changed on a no-op reveal")
	}
}

func TestRevealNeverShrinks(t *testing.T) {
	a := NewArea()
	a.Reveal(hexgrid.Position{0, 0}, 3)
	full := len(a.Coordinates())
	a.Reveal(hexgrid.Position{0, 0}, 1)
	if len(a.Coordinates()) < full {
		t.Fatal("area shrank after revealing a smaller radius")
	}
}

func TestBoundaryOnlyContainsEdgeCells(t *testing.T) {
	a := NewArea()
	a.Reveal(hexgrid.Position{0, 0}, 2)
	for _, p := range a.Boundary() {
		if !a.Contains(p) {
			t.Errorf("boundary cell %v not in revealed set", p)
		}
		edge := false
		for _, n := range p.Neighbors() {
			if !a.Contains(n) {
				edge = true
				break
			}
		}
		if !edge {
			t.Errorf("boundary cell %v has no unrevealed neighbor", p)
		}
	}
}
