package validate

import (
	"strings"

	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/graph"
)

// DuplicateBinding reports every Key with more than one visible binding
// whose (kind, bindingElement, contributingModule) triples are distinct,
// specializing the message when an implicit inject-constructor binding
// conflicts with an explicit provision.
//
// Each duplicate set is reported exactly once per conflicting element
// combination even if the same duplicates recur in multiple subgraphs,
// tracked via c.reportedDuplicates keyed by owner, key, and the origin set.
func DuplicateBinding(g *graph.BindingGraph, c *Context) {
	walkGraphs(g, func(gr *graph.BindingGraph) {
		for _, k := range gr.Keys() {
			rb := gr.Resolved[k]
			if rb.Unresolved || len(rb.Duplicates) == 0 {
				continue
			}

			all := append([]binding.Binding{rb.Binding}, rb.Duplicates...)
			dedupKey := dedupeKey(rb.Owner, k, all)
			if c.reportedDuplicates[dedupKey] {
				continue
			}
			c.reportedDuplicates[dedupKey] = true

			msg := k.String() + " is bound multiple times"
			if hasInjectVsExplicitConflict(all) {
				msg += " (an @Inject constructor binding conflicts with an explicit binding)"
			}
			msg += ":"
			for _, b := range all {
				msg += "\n    " + describeBinding(b)
			}

			c.Reporter.Errorf(rb.Owner, "%s", msg)
		}
	})
}

func hasInjectVsExplicitConflict(all []binding.Binding) bool {
	hasInject, hasExplicit := false, false
	for _, b := range all {
		if b.Kind == binding.Injection {
			hasInject = true
		} else {
			hasExplicit = true
		}
	}
	return hasInject && hasExplicit
}

func describeBinding(b binding.Binding) string {
	if b.ContributingModule != "" {
		return b.ContributingModule + "#" + b.Origin.Signature
	}
	return b.Origin.String()
}

func dedupeKey(owner string, k interface{ String() string }, all []binding.Binding) string {
	var parts []string
	for _, b := range all {
		parts = append(parts, b.Kind.String()+":"+b.Origin.String()+":"+b.ContributingModule)
	}
	return owner + "|" + k.String() + "|" + strings.Join(parts, ",")
}
