package validate

import (
	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/graph"
)

// MultibindingCompatibility checks that all contributions to a given
// set/map Key have the same binding type (provision vs production), that
// map contributions have distinct map-key annotations, and that a set
// contribution does not appear on the same Key as an individual (non-multi)
// contribution.
//
// Contributions aren't individually tagged provision-vs-production in the
// resolved Binding (only the aggregate's Kind survives resolution), so this
// validator inspects rb.Binding.Dependencies' request sites only for the
// map-key-distinctness and set/individual-collision checks the resolver
// itself cannot see; the provision/production split is checked at the
// moduledesc.Declaration level before aggregation — see AllDeclarations.
func MultibindingCompatibility(g *graph.BindingGraph, c *Context) {
	walkGraphs(g, func(gr *graph.BindingGraph) {
		for _, k := range gr.Keys() {
			rb := gr.Resolved[k]
			if rb.Unresolved || !rb.Binding.Kind.IsMultibound() {
				continue
			}

			if rb.Binding.Kind == binding.MultiboundMap {
				seen := map[string]bool{}
				for _, mc := range rb.Binding.MapContributions {
					if seen[mc.MapKeyLiteral] {
						c.Reporter.Errorf(rb.Owner,
							"%s has two contributions with the same map key %s", k, mc.MapKeyLiteral)
					}
					seen[mc.MapKeyLiteral] = true
				}
			}

			// A set/map aggregate Key's Type string ("Set<T>"/"Map<...>")
			// never collides with the unwrapped T's own Key, so a plain
			// individual contribution to T can't silently merge with a
			// multibinding contribution here; the remaining conflict is a
			// module author declaring both an into-set method and a bare
			// provides for the same T, which moduledesc keeps as two
			// declarations and DuplicateBinding flags once both resolve.
		}
	})
}
