package diag

import (
	"github.com/dicore-project/dicore/internal/key"
)

// Edges exposes, for one resolved Key, the dependency Keys reached from it —
// the minimal surface Tracer needs, so this package never imports
// internal/graph directly (avoiding an import cycle, since internal/graph
// will in turn want to report diagnostics through this package).
type Edges interface {
	// DependenciesOf returns the dependency Keys of whatever is bound to k,
	// or (nil, false) if k is not resolved at all.
	DependenciesOf(k key.Key) ([]key.Key, bool)
}

// ShortestPath performs a BFS over a single-successor view of the binding
// graph (edges are dependency requests) from `from` to `to` — no recursion,
// bounded memory. It returns the path as Key.String() values, from→...→to
// inclusive, or nil if no path exists.
func ShortestPath(edges Edges, from, to key.Key) []string {
	if from == to {
		return []string{from.String()}
	}

	visited := map[key.Key]bool{from: true}
	queue := []bfsFrame{{k: from, prev: -1}}

	for i := 0; i < len(queue); i++ {
		cur := queue[i]

		deps, ok := edges.DependenciesOf(cur.k)
		if !ok {
			continue
		}
		for _, d := range deps {
			if visited[d] {
				continue
			}
			visited[d] = true
			queue = append(queue, bfsFrame{k: d, prev: i})
			if d == to {
				return reconstructPath(queue, len(queue)-1)
			}
		}
	}
	return nil
}

type bfsFrame struct {
	k    key.Key
	prev int
}

func reconstructPath(queue []bfsFrame, idx int) []string {
	var rev []string
	for idx >= 0 {
		rev = append(rev, queue[idx].k.String())
		idx = queue[idx].prev
	}
	out := make([]string, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out
}
