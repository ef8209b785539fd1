package pathing

import (
	"math/rand"

	"hexarena/internal/hexgrid"
)

// FloodFill is the fallback planner: a contiguous breadth-first search
// with no heuristic, same signature and occupancy contract as AStar.
// Retained per the source's two-planner design (A* is the live caller;
// this is used directly by tests that want a BFS-shortest path).
func FloodFill(start, target hexgrid.Position, occupied Occupied, limit int, rng *rand.Rand) []hexgrid.Position {
	if limit <= 0 {
		limit = DefaultExpansionLimit
	}

	visited := map[hexgrid.Position]searchNode{start: {g: 0}}
	queue := []hexgrid.Position{start}

	expansions := 0
	bestNode := start
	bestH := hexgrid.Distance(start, target)
	reached := start == target

	for len(queue) > 0 && expansions < limit && !reached {
		current := queue[0]
		queue = queue[1:]
		expansions++

		neighbors := current.Neighbors()
		order := rng.Perm(6)
		curNode := visited[current]
		for _, idx := range order {
			n := neighbors[idx]
			if n != target && occupied(n) {
				continue
			}
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = searchNode{g: curNode.g + 1, parent: current, hasPar: true}
			if h := hexgrid.Distance(n, target); h < bestH {
				bestH = h
				bestNode = n
			}
			if n == target {
				reached = true
				break
			}
			queue = append(queue, n)
		}
	}

	end := bestNode
	if reached {
		end = target
	}
	return reconstructPath(start, end, visited)
}
