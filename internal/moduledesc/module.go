// Package moduledesc builds immutable module descriptors from declarative
// input: a declarative group of contributing methods, transitively included
// modules, declared subcomponents, declared multibindings, and optional-of
// declarations.
package moduledesc

import (
	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/key"
)

// DeclKind discriminates the binding-method declarations a module can carry.
type DeclKind int

const (
	Provides DeclKind = iota
	Produces
	Binds
	BindsOptionalOf
	Multibinds
	IntoSetContribution
	IntoMapContribution
)

// Declaration is one binding-method declaration on a module: provides,
// produces, binds, binds-optional-of, multibinds, or a map/set
// contribution. Delegate (Binds) and BindsOptionalOf declarations are kept
// distinct from plain provisions because the resolver rewrites them during
// resolution.
type Declaration struct {
	Kind DeclKind

	// Key is the declared return type's Key (the binding's own key, not its
	// dependency keys).
	Key key.Key

	// Dependencies are the method's parameter requests, in declaration
	// order. A Binds declaration has exactly one.
	Dependencies []key.Request

	// MapKeyLiteral is populated only for IntoMapContribution declarations.
	MapKeyLiteral string

	// ElementDependencies are, for IntoSet/IntoMap contributions, the
	// contributing method's own parameter requests — the dependencies of
	// the per-element provision behind the tagged contributor Key.
	// (Dependencies[0] holds the tagged contributor request itself.)
	ElementDependencies []key.Request

	Scope string
	Origin elementid.ID

	// Nullable records whether the method's return type may be nil/absent.
	Nullable bool

	// ModuleName is stamped by Descriptor.AddDeclaration; it names the
	// declaring module so the resolver can attribute a Binding's
	// ContributingModule without re-deriving it from a (slice-bearing, and
	// therefore incomparable) Declaration value.
	ModuleName string
}

// Descriptor is an immutable module descriptor.
type Descriptor struct {
	// Name is the module's simple type name, used as the ContributionTag's
	// Module component and for duplicate-binding diagnostics.
	Name string

	// Declarations are this module's own binding-method declarations; it
	// does NOT include declarations inherited from included modules — those
	// are reached through IncludedModules during expansion.
	Declarations []Declaration

	// IncludedModules lists the modules this module's `includes` attribute
	// names directly (not transitively).
	IncludedModules []*Descriptor

	// DeclaredSubcomponents lists subcomponent type names this module's
	// `subcomponents` attribute names; these become children of the
	// installing component even without a factory method.
	DeclaredSubcomponents []string

	// RequiresInstance is true unless every binding-method declaration is
	// effectively static (no instance state needed to invoke it).
	RequiresInstance bool

	// Public is false for a module declared private; private modules may
	// not be included by a public module that itself requires publication.
	Public bool
}

// New constructs a Descriptor. Validation of structural rules (privacy,
// self-inclusion, etc.) is the job of internal/validate — this constructor
// is total so downstream validators can attribute multiple problems to the
// same element.
func New(name string, public bool) *Descriptor {
	return &Descriptor{Name: name, Public: public}
}

// AddDeclaration appends decl to this module, stamping its ModuleName so
// downstream consumers never need to re-derive which module a declaration
// came from.
func (d *Descriptor) AddDeclaration(decl Declaration) {
	decl.ModuleName = d.Name
	d.Declarations = append(d.Declarations, decl)
}

// Expand computes the fixed point of module inclusion: seed modules plus
// transitively included modules. A cycle among includes is benign (an
// already-seen check).
//
// The returned slice is in a deterministic order: a pre-order traversal
// starting from seeds, each module visited exactly once, so downstream
// output is reproducible.
func Expand(seeds ...*Descriptor) []*Descriptor {
	seen := make(map[*Descriptor]bool)
	var order []*Descriptor

	var visit func(d *Descriptor)
	visit = func(d *Descriptor) {
		if d == nil || seen[d] {
			return
		}
		seen[d] = true
		order = append(order, d)
		for _, inc := range d.IncludedModules {
			visit(inc)
		}
	}
	for _, s := range seeds {
		visit(s)
	}
	return order
}

// DeclarationsFor returns every Declaration contributed by the transitive
// closure of seeds, in the same deterministic order as Expand.
func DeclarationsFor(seeds ...*Descriptor) []Declaration {
	var out []Declaration
	for _, m := range Expand(seeds...) {
		out = append(out, m.Declarations...)
	}
	return out
}
