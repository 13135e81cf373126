package validate

import (
	"github.com/dicore-project/dicore/internal/graph"
)

// ScopeConsistency checks scope declarations: a component
// declares a set of scopes; every binding with a scope must match a
// declared scope of some component that owns it. A scoped binding whose
// scope is not declared on any ancestor is an error. Subcomponents must not
// redeclare ancestor scopes.
func ScopeConsistency(g *graph.BindingGraph, c *Context) {
	checkScopes(g, nil, c)
}

func checkScopes(gr *graph.BindingGraph, declaredAbove []string, c *Context) {
	for _, s := range gr.Component.Scopes {
		for _, above := range declaredAbove {
			if above == s {
				c.Reporter.Errorf(gr.Component.Name,
					"subcomponent %s redeclares ancestor scope %s", gr.Component.Name, s)
			}
		}
	}
	declared := append(append([]string{}, declaredAbove...), gr.Component.Scopes...)

	for _, k := range gr.Keys() {
		rb := gr.Resolved[k]
		if rb.Unresolved || rb.Binding.Scope.IsUnscoped() {
			continue
		}
		if rb.Owner != gr.Component.Name {
			continue // checked at the owning component instead.
		}
		if !containsStr(declared, string(rb.Binding.Scope)) {
			c.Reporter.Errorf(rb.Owner,
				"%s is scoped with @%s which is not declared on %s or any ancestor",
				k, rb.Binding.Scope, gr.Component.Name)
		}
	}

	for _, child := range gr.Children {
		checkScopes(child, declared, c)
	}
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
