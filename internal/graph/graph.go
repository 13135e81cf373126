// Package graph performs fix-point binding resolution and holds its result:
// one BindingGraph per component, each a Key → ResolvedBindings map plus a
// list of child subgraphs. A per-component resolver inherits from its
// parent and hoists ownership of bindings to the rootmost component that
// can satisfy them.
package graph

import (
	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/component"
	"github.com/dicore-project/dicore/internal/key"
)

// ResolvedBindings is, for one Key within one component's scope of
// visibility, the set of contributing bindings plus the component that owns
// them.
type ResolvedBindings struct {
	Key key.Key

	// Owner is the simple name of the component that owns the effective
	// Binding below. For a multibinding with zero contributions anywhere in
	// the chain, Owner is the root component name.
	Owner string

	// Binding is the effective, owned Binding for this Key: the single
	// contribution for a non-multibinding Key, or the aggregate binding
	// (Dependencies = contributions) for a multibinding Key.
	Binding binding.Binding

	// Unresolved is true if no contribution, injection constructor, or
	// default exists anywhere in the ancestor chain.
	Unresolved bool

	// Duplicates holds every additional contribution found for a
	// non-multibinding Key beyond the first, for the duplicate-binding
	// validator. Empty in the common
	// case.
	Duplicates []binding.Binding
}

// BindingGraph is the resolved graph for one component.
type BindingGraph struct {
	Component *component.Descriptor
	Resolved  map[key.Key]*ResolvedBindings
	Children  []*BindingGraph

	// ScopesNeedingReleasableRef records which of this component's declared
	// scopes have at least one releasable-reference binding, so the writer
	// (internal/codegen) knows which manager fields to emit.
	ScopesNeedingReleasableRef map[string]bool

	// order is populated by the resolver as Keys are first resolved; kept
	// unexported so only this package can maintain the invariant that
	// Resolved and order stay in lockstep.
	order []key.Key
}

// DependenciesOf implements internal/diag.Edges over this single graph
// (without reaching into ancestor graphs — callers tracing a path that
// crosses component boundaries compose per-component graphs themselves).
func (g *BindingGraph) DependenciesOf(k key.Key) ([]key.Key, bool) {
	rb, ok := g.Resolved[k]
	if !ok || rb.Unresolved {
		return nil, ok
	}
	return rb.Binding.DependencyKeys(), true
}

// Keys returns every Key this graph resolved, in first-resolved order —
// stable across runs of the same input because resolution always proceeds
// from entry points in declaration order.
func (g *BindingGraph) Keys() []key.Key {
	out := make([]key.Key, 0, len(g.order))
	out = append(out, g.order...)
	return out
}
