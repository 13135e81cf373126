// Package binding models every way the graph can satisfy a Key: a
// tagged-variant Binding carrying a common record (key, scope, dependencies,
// origin element id, nullability) plus a per-variant payload. A Binding
// records how a value would be constructed and what it depends on, before
// anything is built.
package binding

import (
	"sort"

	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/key"
)

// Kind discriminates the Binding variants.
type Kind int

const (
	Injection Kind = iota
	Provision
	Production
	Delegate
	MultiboundSet
	MultiboundMap
	Optional
	SubcomponentCreator
	ComponentProvided
	ComponentInstance
	BoundInstance
	MembersInjection
)

func (k Kind) String() string {
	switch k {
	case Injection:
		return "injection"
	case Provision:
		return "provision"
	case Production:
		return "production"
	case Delegate:
		return "delegate"
	case MultiboundSet:
		return "multibound-set"
	case MultiboundMap:
		return "multibound-map"
	case Optional:
		return "optional"
	case SubcomponentCreator:
		return "subcomponent-creator"
	case ComponentProvided:
		return "component-provided"
	case ComponentInstance:
		return "component-instance"
	case BoundInstance:
		return "bound-instance"
	case MembersInjection:
		return "members-injection"
	default:
		return "unknown"
	}
}

// IsMultibound reports whether this Kind aggregates contributions.
func (k Kind) IsMultibound() bool { return k == MultiboundSet || k == MultiboundMap }

// Scope names a memoization level. The empty
// Scope is the unscoped sentinel.
type Scope string

// IsUnscoped reports whether s is the unscoped sentinel.
func (s Scope) IsUnscoped() bool { return s == "" }

// MapContribution pairs a map-multibinding dependency with the literal
// map-key annotation value the planner will later serialize into source
// form.
type MapContribution struct {
	MapKeyLiteral string
	Dependency    key.Request
}

// Binding is the polymorphic root of the binding model.
//
// Every variant carries the common fields; MapContributions is populated
// only for MultiboundMap bindings, and Delegate/Target is populated only for
// Delegate bindings. Dependencies is ordered: iteration order must match
// user declaration order for reproducible builds.
type Binding struct {
	Kind Kind
	Key  key.Key

	// Scope is empty for unscoped bindings.
	Scope Scope

	// Dependencies are this binding's dependency requests, in declaration
	// order. For MultiboundSet/MultiboundMap this is the set of
	// contributions. For Optional it has zero or one element: the
	// underlying Key, present only if resolvable.
	Dependencies []key.Request

	// MapContributions is populated only when Kind == MultiboundMap, one
	// entry per Dependencies entry, in the same order.
	MapContributions []MapContribution

	// RequiresModuleInstance is true for Provision/Production/Delegate
	// bindings whose declaring module is not effectively static.
	RequiresModuleInstance bool

	// Nullable is true if this binding's produced value may legitimately be
	// nil/absent.
	Nullable bool

	// Origin is the stable identity of the user element that gave rise to
	// this binding, for diagnostics.
	Origin elementid.ID

	// ContributingModule is the simple name of the module declaring this
	// binding, empty for synthetic/injection bindings.
	ContributingModule string

	// DelegateTarget is populated only for Kind == Delegate: the Key this
	// binding forwards to.
	DelegateTarget key.Key
}

// New constructs a Binding with the given kind and key; dependencies are
// attached via WithDependencies for clarity at call sites.
func New(kind Kind, k key.Key, origin elementid.ID) Binding {
	return Binding{Kind: kind, Key: k, Origin: origin}
}

// WithDependencies returns a copy of b with Dependencies set.
func (b Binding) WithDependencies(deps ...key.Request) Binding {
	b.Dependencies = deps
	return b
}

// WithScope returns a copy of b scoped to s.
func (b Binding) WithScope(s Scope) Binding {
	b.Scope = s
	return b
}

// DependencyKeys returns the Keys of b's dependency requests, preserving
// declaration order but never mutating b.Dependencies.
func (b Binding) DependencyKeys() []key.Key {
	out := make([]key.Key, len(b.Dependencies))
	for i, d := range b.Dependencies {
		out[i] = d.Key
	}
	return out
}

// SortContributionsByTag orders a multibinding's contributions
// deterministically by their origin's stable id, used only when the
// contributions arrived from concurrent discovery in a nondeterministic
// order; declaration-ordered contributions are left untouched by callers
// that already guarantee order.
func SortContributionsByTag(deps []key.Request) {
	sort.SliceStable(deps, func(i, j int) bool {
		return deps[i].Key.Tag.String() < deps[j].Key.Tag.String()
	})
}
