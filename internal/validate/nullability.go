package validate

import (
	"github.com/dicore-project/dicore/internal/diag"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/options"
)

// Nullability checks that nullable bindings only feed tolerant consumers:
// if a request is declared non-nullable but the matching binding is nullable, report at the
// severity configured by options.Options.NullableValidation.
func Nullability(g *graph.BindingGraph, c *Context) {
	sev, ok := severityFor(c.Options.NullableValidation)
	if !ok {
		return // "none" disables the check.
	}

	walkGraphs(g, func(gr *graph.BindingGraph) {
		for _, k := range gr.Keys() {
			rb := gr.Resolved[k]
			if rb.Unresolved || !rb.Binding.Nullable {
				continue
			}
			for _, ep := range gr.Component.EntryPoints {
				if ep.Request.Key == k && !ep.Request.Nullable {
					c.Reporter.Report(diag.Diagnostic{
						Severity: sev,
						Element:  ep.Origin.String(),
						Message:  k.String() + " is bound as @Nullable but the consumer does not allow null",
					})
				}
			}
		}
	})
}

func severityFor(s options.Severity) (diag.Severity, bool) {
	switch s {
	case options.SeverityError:
		return diag.Error, true
	case options.SeverityWarning:
		return diag.Warning, true
	default:
		return 0, false
	}
}
