package hexgrid

import (
	"iter"
	"math/rand"
)

// FloodFill produces positions expanding outward ring by ring from
// origin, with each ring's positions shuffled to break tie order.
// limit is the maximum ring radius to expand to; a nil limit walks
// forever (callers must break out of the range loop themselves).
func FloodFill(origin Position, limit *int, rng *rand.Rand) iter.Seq[Position] {
	return func(yield func(Position) bool) {
		if !yield(origin) {
			return
		}
		for radius := 1; limit == nil || radius <= *limit; radius++ {
			ring := ringPositions(origin, radius)
			rng.Shuffle(len(ring), func(i, j int) { ring[i], ring[j] = ring[j], ring[i] })
			for _, p := range ring {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// ringPositions returns every position at exactly the given hex
// distance from origin, in a fixed traversal order (later shuffled by
// the caller).
func ringPositions(origin Position, radius int) []Position {
	out := make([]Position, 0, 6*radius)
	p := origin
	for i := 0; i < radius; i++ {
		p = p.Neighbor(4) // SW, a standard ring-start direction
	}
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			out = append(out, p)
			p = p.Neighbor(side)
		}
	}
	return out
}

// HexagonArea returns every position within radius hexes of center,
// inclusive, used by C10 to materialize a single entity's vision disc.
func HexagonArea(center Position, radius int) []Position {
	out := make([]Position, 0, 3*radius*(radius+1)+1)
	for dq := -radius; dq <= radius; dq++ {
		r1 := max(-radius, -dq-radius)
		r2 := min(radius, -dq+radius)
		for dr := r1; dr <= r2; dr++ {
			out = append(out, Position{Q: center.Q + dq, R: center.R + dr})
		}
	}
	return out
}
