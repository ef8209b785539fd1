// Package vision implements C10: a persistent, monotonically growing
// union of revealed hexes and the boundary of that union, built
// in-house over integer hex coordinates per spec.md §9's explicit
// redesign note that an external geometry/polygon-union library is
// unnecessary here.
package vision

import (
	"sort"

	"hexarena/internal/hexgrid"
)

// Area is the revealed-hex set for one game: fog of war never
// regresses, so Area only ever grows.
type Area struct {
	hexes map[hexgrid.Position]bool
}

// NewArea returns an empty revealed area.
func NewArea() *Area {
	return &Area{hexes: make(map[hexgrid.Position]bool)}
}

// Reveal unions the radius-vision hexagon centered on pos into the
// area and reports whether the area grew (callers use this to decide
// whether to broadcast a `reveal` event).
func (a *Area) Reveal(center hexgrid.Position, radius int) bool {
	grew := false
	for _, p := range hexgrid.HexagonArea(center, radius) {
		if !a.hexes[p] {
			a.hexes[p] = true
			grew = true
		}
	}
	return grew
}

// Contains reports whether a position has been revealed.
func (a *Area) Contains(p hexgrid.Position) bool {
	return a.hexes[p]
}

// Boundary returns every revealed hex that has at least one
// unrevealed neighbor — the serialized polygon-coordinate structure
// broadcast in a `reveal` event, expressed as the set of boundary
// cells rather than a traced outline (a hex grid's boundary is fully
// described by its edge cells; no separate polygon-simplification step
// is needed).
func (a *Area) Boundary() []hexgrid.Position {
	out := make([]hexgrid.Position, 0)
	for p := range a.hexes {
		for _, n := range p.Neighbors() {
			if !a.hexes[n] {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Coordinates returns every revealed hex, ordered deterministically by
// (Q, R), for snapshotting and tests.
func (a *Area) Coordinates() []hexgrid.Position {
	out := make([]hexgrid.Position, 0, len(a.hexes))
	for p := range a.hexes {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Q != out[j].Q {
			return out[i].Q < out[j].Q
		}
		return out[i].R < out[j].R
	})
	return out
}
