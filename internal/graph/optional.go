package graph

import (
	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/moduledesc"
)

// resolveOptionalDecl resolves a binds-optional-of declaration: the
// underlying Key is the declaration's single dependency. The resulting
// Optional binding depends on the underlying Key only if it resolves
// somewhere in the ancestor chain; otherwise the Optional binding has no
// dependency and represents "absent".
//
// Optional bindings are neither hoisted nor inherited across components.
// Each component that sees a binds-optional-of declaration computes its own
// presence against what is visible to it, so a child whose modules make the
// underlying Key available binds "present" even when an ancestor, lacking
// that visibility, bound "absent". The child shadows the parent rather than
// overriding it.
func (r *Resolver) resolveOptionalDecl(decl moduledesc.Declaration, rb *ResolvedBindings) {
	underlying := decl.Dependencies[0].Key

	rb.Owner = r.comp.Name
	b := binding.New(binding.Optional, decl.Key, decl.Origin)
	b.Nullable = decl.Nullable

	if underlyingRB := r.Resolve(underlying); !underlyingRB.Unresolved {
		b.Dependencies = []key.Request{decl.Dependencies[0]}
	}
	rb.Binding = b
}
