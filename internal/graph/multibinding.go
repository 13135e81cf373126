package graph

import (
	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/moduledesc"
)

// resolveMultibinding aggregates a set/map Key across this component and
// all ancestors; a binding that includes at least one local contribution is
// owned by this component, otherwise it is inherited.
//
// Because modules installed on an ancestor are visible downward (never the
// reverse), recursing toward the root and stopping at the first level with
// a local contribution is exactly the set of contributions visible to a
// caller at r's component: r's own contributions plus whatever the parent
// resolver (which already only sees its own ancestors) aggregates.
func (r *Resolver) resolveMultibinding(k key.Key, rb *ResolvedBindings) {
	local := r.localMultibindingContributions(k)

	if len(local) == 0 && r.parent != nil {
		parentRB := r.parent.Resolve(k)
		*rb = *parentRB
		return
	}

	var deps []key.Request
	var mapContribs []binding.MapContribution
	seen := map[key.Key]bool{}
	for _, d := range local {
		if seen[d.Key] {
			continue // contributions never repeat in the aggregate.
		}
		seen[d.Key] = true
		req := d.Dependencies[0]
		deps = append(deps, req)
		if d.Kind == moduledesc.IntoMapContribution {
			mapContribs = append(mapContribs, binding.MapContribution{
				MapKeyLiteral: d.MapKeyLiteral,
				Dependency:    req,
			})
		}
	}

	kind := binding.MultiboundSet
	if len(mapContribs) > 0 {
		kind = binding.MultiboundMap
	}

	rb.Owner = r.comp.Name
	b := binding.New(kind, k, elementid.ID{}).WithDependencies(deps...)
	b.MapContributions = mapContribs
	rb.Binding = b

	r.resolveDependenciesAt(r, deps)
}

// localMultibindingContributions returns this component's own
// IntoSetContribution/IntoMapContribution declarations whose aggregate Key
// is k (i.e. whose own declared Key, once wrapped, equals k). Declarations
// already carry the wrapped aggregate Key in moduledesc — see
// internal/moduledesc's key-factory seam — so a direct field match suffices.
func (r *Resolver) localMultibindingContributions(k key.Key) []moduledesc.Declaration {
	var out []moduledesc.Declaration
	for _, d := range r.comp.AllDeclarations() {
		if (d.Kind == moduledesc.IntoSetContribution || d.Kind == moduledesc.IntoMapContribution) &&
			d.Key == k {
			out = append(out, d)
		}
	}
	return out
}
