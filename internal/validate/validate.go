// Package validate runs the independent validator checks over a resolved
// BindingGraph, reporting through internal/diag.
//
// Each validator is a plain function over (*graph.BindingGraph, *Context)
// rather than an object implementing a shared interface: the checks only
// need to be independent, and a slice of functions keeps the set flat.
package validate

import (
	"github.com/dicore-project/dicore/internal/diag"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/options"
)

// Validator is one independent check over a single component's graph.
// Validators that need to look under a component also recurse into
// g.Children themselves, since child visibility rules differ per validator
// (e.g. duplicate-binding must not re-report the same conflict once per
// subgraph; missing-binding must walk every subgraph).
type Validator func(g *graph.BindingGraph, c *Context)

// Context threads the pieces validators need beyond the graph itself: the
// diagnostic sink, the configured severities, and a memo of which Keys have
// already had a given kind of problem reported, so the duplicate-binding
// validator reports each duplicate set exactly once per conflicting element
// combination even when the same duplicates recur in multiple subgraphs.
type Context struct {
	Reporter *diag.Reporter
	Options  options.Options

	reportedDuplicates map[string]bool
}

// NewContext constructs a Context.
func NewContext(rep *diag.Reporter, opts options.Options) *Context {
	return &Context{Reporter: rep, Options: opts, reportedDuplicates: map[string]bool{}}
}

// All is the full validator set, run in a fixed order so diagnostics for a
// single input are always emitted in the same relative order across runs.
var All = []Validator{
	MissingBinding,
	DuplicateBinding,
	MultibindingCompatibility,
	DependencyCycles,
	ScopeConsistency,
	ModuleComponentStructural,
	ComponentMethodValidity,
	Nullability,
}

// Run executes every validator in All over g and its subgraphs, recording
// diagnostics on ctx.Reporter. It returns true if the component (and every
// descendant) is clean, i.e. safe to write: a component with any error is
// never written.
func Run(g *graph.BindingGraph, ctx *Context) bool {
	for _, v := range All {
		v(g, ctx)
	}
	return !ctx.Reporter.HasError()
}

// walkGraphs calls fn for g and every descendant, depth-first, in
// declaration order — the same traversal order the writer (internal/codegen)
// uses, so a validator and the writer agree on "which subgraph is this".
func walkGraphs(g *graph.BindingGraph, fn func(*graph.BindingGraph)) {
	fn(g)
	for _, child := range g.Children {
		walkGraphs(child, fn)
	}
}
