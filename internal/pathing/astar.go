// Package pathing implements the bounded epsilon-admissible A* planner
// and a flood-fill fallback planner over the hex occupancy map.
package pathing

import (
	"math/rand"

	"hexarena/internal/hexgrid"
	"hexarena/internal/pqueue"
)

// DefaultExpansionLimit bounds the number of nodes A* will expand
// before giving up and returning its best-effort path.
const DefaultExpansionLimit = 20

// Occupied reports whether a position is currently occupied and
// therefore not eligible for expansion.
type Occupied func(hexgrid.Position) bool

// searchNode records how a position was first reached during a search.
type searchNode struct {
	g      int
	parent hexgrid.Position
	hasPar bool
}

// AStar searches from start toward target, expanding at most limit
// nodes (DefaultExpansionLimit if limit <= 0). It never expands an
// occupied position. Neighbors are visited in randomized order each
// expansion, using rng, to vary among equally-weighted ties.
//
// If target is reached the reconstructed path is returned. Otherwise
// the path to whichever expanded node has the smallest heuristic value
// is returned. A result of length 0 or 1 means "stay put".
func AStar(start, target hexgrid.Position, occupied Occupied, limit int, rng *rand.Rand) []hexgrid.Position {
	if limit <= 0 {
		limit = DefaultExpansionLimit
	}

	h := func(p hexgrid.Position) int { return hexgrid.Distance(p, target) }

	visited := map[hexgrid.Position]searchNode{start: {g: 0}}
	open := pqueue.New[hexgrid.Position]()
	open.Add(start, float64(h(start)))

	expansions := 0
	bestNode := start
	bestH := h(start)
	reached := false

	for open.Len() > 0 && expansions < limit {
		current, err := open.Pop()
		if err != nil {
			break
		}
		expansions++

		curH := h(current)
		if curH < bestH {
			bestH = curH
			bestNode = current
		}
		if current == target {
			reached = true
			break
		}

		neighbors := current.Neighbors()
		order := rng.Perm(6)
		curNode := visited[current]
		for _, idx := range order {
			n := neighbors[idx]
			if n != target && occupied(n) {
				continue
			}
			g := curNode.g + 1
			if existing, ok := visited[n]; ok && existing.g <= g {
				continue
			}
			visited[n] = searchNode{g: g, parent: current, hasPar: true}
			f := float64(g) + 2*float64(h(n))
			open.Add(n, f)
		}
	}

	end := bestNode
	if reached {
		end = target
	}
	return reconstructPath(start, end, visited)
}

func reconstructPath(start, end hexgrid.Position, visited map[hexgrid.Position]searchNode) []hexgrid.Position {
	path := []hexgrid.Position{end}
	cur := end
	for cur != start {
		n, ok := visited[cur]
		if !ok || !n.hasPar {
			break
		}
		path = append(path, n.parent)
		cur = n.parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
