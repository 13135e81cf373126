package validate

import (
	"github.com/dicore-project/dicore/internal/diag"
	"github.com/dicore-project/dicore/internal/graph"
)

// MissingBinding reports every dependency request not satisfied anywhere in
// the ancestor chain, at the entry points that reach it, including the
// shortest path from the entry point.
func MissingBinding(g *graph.BindingGraph, c *Context) {
	walkGraphs(g, func(gr *graph.BindingGraph) {
		for _, k := range gr.Keys() {
			rb := gr.Resolved[k]
			if !rb.Unresolved {
				continue
			}
			for _, ep := range gr.Component.EntryPoints {
				if ep.IsMembersInjection() {
					continue
				}
				trace := diag.ShortestPath(gr, ep.Request.Key, k)
				if ep.Request.Key != k && trace == nil {
					continue
				}
				c.Reporter.Report(diag.Diagnostic{
					Severity: diag.Error,
					Element:  ep.Origin.String(),
					Message:  k.String() + " cannot be provided without an @Provides-annotated method",
					Trace:    trace,
				})
			}
		}
	})
}
