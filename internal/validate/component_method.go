package validate

import (
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
)

// ComponentMethodValidity checks component methods: entry-point methods must be abstract or must defer to
// inherited methods; members-injection methods must take exactly one
// parameter of a declared type.
//
// The descriptor shape (component.EntryPoint) already cannot represent a
// members-injection site with zero or multiple parameters — it is a single
// MembersInjectionParam string — so the one remaining thing this validator
// can catch from the descriptor alone is a request-kind/shape mismatch: a
// members-injection entry point whose Request.Kind isn't MembersInjector, or
// a non-members-injection entry point that nonetheless carries a
// MembersInjectionParam.
func ComponentMethodValidity(g *graph.BindingGraph, c *Context) {
	walkGraphs(g, func(gr *graph.BindingGraph) {
		for _, ep := range gr.Component.EntryPoints {
			switch {
			case ep.IsMembersInjection() && ep.Request.Kind != key.MembersInjector:
				c.Reporter.Errorf(ep.Origin.String(),
					"members-injection method %s must request kind MEMBERS_INJECTOR", ep.Name)
			case !ep.IsMembersInjection() && ep.Request.Kind == key.MembersInjector:
				c.Reporter.Errorf(ep.Origin.String(),
					"entry point %s requests MEMBERS_INJECTOR but declares no injected parameter", ep.Name)
			}
		}
	})
}
