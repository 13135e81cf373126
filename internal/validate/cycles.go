package validate

import (
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
)

// DependencyCycles reports strongly connected components in the resolved
// dependency graph; "cycles" broken by a request kind that defers
// evaluation (provider/lazy/producer/future) are allowed.
//
// Tarjan's algorithm finds SCCs deterministically given a deterministic
// adjacency order (gr.Keys()), keeping diagnostics reproducible. An SCC of
// size 1 with no self-loop is not a cycle; an SCC of size 1 with a
// self-loop, or of size > 1, is a cycle candidate — legitimate only if
// every edge leaving the SCC back into itself defers evaluation.
func DependencyCycles(g *graph.BindingGraph, c *Context) {
	walkGraphs(g, func(gr *graph.BindingGraph) {
		sccs := tarjanSCCs(gr)
		for _, scc := range sccs {
			if !isIllegalCycle(gr, scc) {
				continue
			}
			member := make(map[key.Key]bool, len(scc))
			for _, k := range scc {
				member[k] = true
			}
			for _, ep := range gr.Component.EntryPoints {
				if ep.IsMembersInjection() {
					continue
				}
				if !reaches(gr, ep.Request.Key, member) {
					continue
				}
				c.Reporter.Errorf(ep.Origin.String(), "dependency cycle: %s", describeCycle(scc))
			}
		}
	})
}

// isIllegalCycle reports whether scc is a real cycle (either more than one
// member, or a single member with a self-edge) where NO request kind among
// its internal edges defers evaluation. A single deferring edge anywhere in
// the SCC breaks the construction-time recursion, so the cycle is
// legitimate and not reported.
func isIllegalCycle(gr *graph.BindingGraph, scc []key.Key) bool {
	member := make(map[key.Key]bool, len(scc))
	for _, k := range scc {
		member[k] = true
	}
	anyDeferred := false
	hasSelfEdge := false
	for _, k := range scc {
		rb := gr.Resolved[k]
		if rb == nil || rb.Unresolved {
			continue
		}
		for _, dep := range rb.Binding.Dependencies {
			if !member[dep.Key] {
				continue
			}
			if dep.Key == k {
				hasSelfEdge = true
			}
			if dep.Kind.Defers() {
				anyDeferred = true
			}
		}
	}
	if len(scc) == 1 && !hasSelfEdge {
		return false
	}
	return !anyDeferred
}

func reaches(gr *graph.BindingGraph, from key.Key, target map[key.Key]bool) bool {
	if target[from] {
		return true
	}
	visited := map[key.Key]bool{from: true}
	queue := []key.Key{from}
	for i := 0; i < len(queue); i++ {
		deps, ok := gr.DependenciesOf(queue[i])
		if !ok {
			continue
		}
		for _, d := range deps {
			if target[d] {
				return true
			}
			if visited[d] {
				continue
			}
			visited[d] = true
			queue = append(queue, d)
		}
	}
	return false
}

func describeCycle(scc []key.Key) string {
	s := ""
	for i, k := range scc {
		if i > 0 {
			s += " -> "
		}
		s += k.String()
	}
	if len(scc) > 0 {
		s += " -> " + scc[0].String()
	}
	return s
}

// tarjanSCCs runs Tarjan's strongly-connected-components algorithm over
// gr's resolved Keys, visited in gr.Keys() order.
func tarjanSCCs(gr *graph.BindingGraph) [][]key.Key {
	type nodeState struct {
		index, low int
		onStack    bool
	}
	index := 0
	states := map[key.Key]*nodeState{}
	var stack []key.Key
	var sccs [][]key.Key

	var strongConnect func(v key.Key)
	strongConnect = func(v key.Key) {
		states[v] = &nodeState{index: index, low: index, onStack: true}
		index++
		stack = append(stack, v)

		deps, _ := gr.DependenciesOf(v)
		for _, w := range deps {
			if states[w] == nil {
				strongConnect(w)
				if states[w].low < states[v].low {
					states[v].low = states[w].low
				}
			} else if states[w].onStack {
				if states[w].index < states[v].low {
					states[v].low = states[w].index
				}
			}
		}

		if states[v].low == states[v].index {
			var scc []key.Key
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				states[w].onStack = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, k := range gr.Keys() {
		if states[k] == nil {
			strongConnect(k)
		}
	}
	return sccs
}
