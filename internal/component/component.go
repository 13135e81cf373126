// Package component builds immutable component descriptors: a root or
// sub-component's modules (transitive), entry-point methods, dependency
// components, creator shape, and children.
package component

import (
	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/moduledesc"
)

// Kind discriminates the component shapes.
type Kind int

const (
	Root Kind = iota
	ProductionRoot
	Subcomponent
	ProductionSubcomponent
	ModuleForValidation
)

// CreatorKind is builder vs. factory.
type CreatorKind int

const (
	NoCreator CreatorKind = iota
	Builder
	Factory
)

// EntryPoint is a single abstract method on the component interface whose
// return type a caller requests.
type EntryPoint struct {
	// Name is the method's simple name; used both for deduplication by
	// resolved-as-member signature and as the generated
	// method's name.
	Name    string
	Request key.Request
	Origin  elementid.ID

	// MembersInjectionParam is populated only when this entry point is a
	// members-injection method: the declared type of its single parameter.
	MembersInjectionParam string

	// MemberSites lists the injected members of MembersInjectionParam's
	// type, in declaration order; the generated injectFoo method runs them
	// in this order.
	MemberSites []MemberSite
}

// MemberSite is one injectable member (field or setter) of a
// members-injected type.
type MemberSite struct {
	// Member is the field or method name assigned/invoked on the instance.
	Member string
	// IsMethod is true for method (setter) injection, false for a field.
	IsMethod bool
	Request  key.Request
}

// IsMembersInjection reports whether this entry point injects an existing
// instance rather than returning a constructed value.
func (e EntryPoint) IsMembersInjection() bool { return e.MembersInjectionParam != "" }

// CreatorInput is one required input a builder/factory must collect before
// a component instance can be produced.
type CreatorInput struct {
	Name string
	Type string
	// IsBoundInstance is true for @BindsInstance-style inputs (a value
	// installed at build time rather than a module).
	IsBoundInstance bool
}

// DependencyComponent is a component this one declares as an upstream
// dependency (its entry points are visible as ComponentProvided bindings).
type DependencyComponent struct {
	Name        string
	EntryPoints []EntryPoint
}

// Descriptor is an immutable component descriptor.
type Descriptor struct {
	Kind Kind
	// Name is the component's simple type name.
	Name string

	// Modules is the transitive closure of included modules, already
	// expanded via moduledesc.Expand by the builder of this Descriptor.
	Modules []*moduledesc.Descriptor

	EntryPoints []EntryPoint

	DependencyComponents []DependencyComponent

	CreatorKind   CreatorKind
	CreatorInputs []CreatorInput

	// Scopes lists the scope names declared directly on this component type
	// (not inherited from an ancestor).
	Scopes []string

	// Children are subcomponents reachable from this component: both those
	// with a factory method on the component interface and those declared
	// via a module's `subcomponents` attribute.
	Children []*Descriptor

	// ChildFactoryMethods maps a child's Name to the factory method name
	// used to construct it, for children that do have one.
	ChildFactoryMethods map[string]string
}

// New constructs a Descriptor with its module set already expanded.
func New(kind Kind, name string, seedModules ...*moduledesc.Descriptor) *Descriptor {
	return &Descriptor{
		Kind:                kind,
		Name:                name,
		Modules:             moduledesc.Expand(seedModules...),
		ChildFactoryMethods: map[string]string{},
	}
}

// AddChild appends a subcomponent. factoryMethod is empty for a child that
// has no factory method on this component's own interface (declared solely
// via a parent module's `subcomponents` attribute).
func (d *Descriptor) AddChild(child *Descriptor, factoryMethod string) {
	d.Children = append(d.Children, child)
	if factoryMethod != "" {
		d.ChildFactoryMethods[child.Name] = factoryMethod
	}
}

// DeclaresScope reports whether s is one of this component's own declared
// scopes (not inherited).
func (d *Descriptor) DeclaresScope(s string) bool {
	for _, got := range d.Scopes {
		if got == s {
			return true
		}
	}
	return false
}

// AllDeclarations returns every binding-method declaration visible at this
// component: every declaration of every transitively included module.
func (d *Descriptor) AllDeclarations() []moduledesc.Declaration {
	var out []moduledesc.Declaration
	for _, m := range d.Modules {
		out = append(out, m.Declarations...)
	}
	return out
}
