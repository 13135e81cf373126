package graph

import (
	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/component"
	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/moduledesc"
)

// InjectableTemplate is what an injection-constructor lookup returns for a
// plain type Key that has an @Inject-annotated constructor: its dependency
// requests and the constructor's origin, in declaration-parameter order;
// the resolver synthesizes the corresponding binding on demand.
type InjectableTemplate struct {
	Dependencies []key.Request
	Origin       elementid.ID
	Nullable     bool
}

// InjectableIndex resolves a plain type's inject-constructor template, by
// Key. It is total-lookup (ok=false, not panic) so resolution never aborts
// just because a type has no injectable constructor.
type InjectableIndex interface {
	InjectConstructor(k key.Key) (InjectableTemplate, bool)
}

// Resolver performs fix-point resolution for exactly one component,
// inheriting from its parent resolver.
type Resolver struct {
	comp       *component.Descriptor
	parent     *Resolver
	graph      *BindingGraph
	injectable InjectableIndex
}

// NewRoot constructs the resolver for a root (parentless) component.
func NewRoot(comp *component.Descriptor, injectable InjectableIndex) *Resolver {
	r := &Resolver{
		comp:       comp,
		injectable: injectable,
		graph: &BindingGraph{
			Component:                  comp,
			Resolved:                   map[key.Key]*ResolvedBindings{},
			ScopesNeedingReleasableRef: map[string]bool{},
		},
	}
	return r
}

// NewChild constructs a child resolver whose parent is r, for subcomponent
// comp. The child's inherited view of bindings, modules, and scopes flows
// down through parent resolution.
func (r *Resolver) NewChild(comp *component.Descriptor) *Resolver {
	child := &Resolver{
		comp:       comp,
		parent:     r,
		injectable: r.injectable,
		graph: &BindingGraph{
			Component:                  comp,
			Resolved:                   map[key.Key]*ResolvedBindings{},
			ScopesNeedingReleasableRef: map[string]bool{},
		},
	}
	r.graph.Children = append(r.graph.Children, child.graph)
	return child
}

// Graph returns the BindingGraph this resolver is populating.
func (r *Resolver) Graph() *BindingGraph { return r.graph }

// ResolveEntryPoints resolves every entry point of this resolver's
// component, the seed of the fix-point worklist.
func (r *Resolver) ResolveEntryPoints() {
	for _, ep := range r.comp.EntryPoints {
		if ep.IsMembersInjection() {
			// A members-injection method has no Key value of its own,
			// but each injected member's request does.
			for _, site := range ep.MemberSites {
				r.Resolve(site.Request.Key)
			}
			continue
		}
		r.Resolve(ep.Request.Key)
	}
}

// Resolve resolves k in the scope of r's component, returning the
// ResolvedBindings (possibly still Unresolved). Resolving the same Key twice
// returns the same pointer: a binding is interned by identity.
func (r *Resolver) Resolve(k key.Key) *ResolvedBindings {
	if rb, ok := r.graph.Resolved[k]; ok {
		return rb
	}

	// Registering rb before descending makes a dependency cycle terminate:
	// a re-entrant Resolve(k) hits the map and returns the in-progress rb
	// as a stub. Cycle diagnosis is validate's job, not the resolver's.
	rb := &ResolvedBindings{Key: k}
	r.graph.Resolved[k] = rb
	r.graph.order = append(r.graph.order, k)

	switch {
	case k.IsMultibindingAggregate():
		r.resolveMultibinding(k, rb)
	default:
		r.resolveSingular(k, rb)
	}
	return rb
}

// localDeclarations returns this component's own (not ancestors') binding
// declarations for k, across every transitively included module.
func (r *Resolver) localDeclarations(k key.Key) []moduledesc.Declaration {
	var out []moduledesc.Declaration
	for _, d := range r.comp.AllDeclarations() {
		if d.Key == k {
			out = append(out, d)
		}
	}
	return out
}

func (r *Resolver) declToBinding(d moduledesc.Declaration) binding.Binding {
	kind := binding.Provision
	switch d.Kind {
	case moduledesc.Produces:
		kind = binding.Production
	case moduledesc.Binds:
		kind = binding.Delegate
	}
	b := binding.New(kind, d.Key, d.Origin).WithDependencies(d.Dependencies...)
	b.ContributingModule = d.ModuleName
	b.RequiresModuleInstance = r.moduleRequiresInstance(d.ModuleName)
	b.Nullable = d.Nullable
	if d.Scope != "" {
		b = b.WithScope(binding.Scope(d.Scope))
	}
	if d.Kind == moduledesc.Binds && len(d.Dependencies) == 1 {
		b.DelegateTarget = d.Dependencies[0].Key
	}
	return b
}

func (r *Resolver) moduleRequiresInstance(name string) bool {
	for _, m := range r.comp.Modules {
		if m.Name == name {
			return m.RequiresInstance
		}
	}
	return false
}

// resolveSingular handles every non-multibinding Key. A binds-optional-of
// declaration routes through resolveOptionalDecl.
func (r *Resolver) resolveSingular(k key.Key, rb *ResolvedBindings) {
	if decls := r.localDeclarations(k); len(decls) > 0 {
		if decls[0].Kind == moduledesc.BindsOptionalOf {
			r.resolveOptionalDecl(decls[0], rb)
			return
		}
		rb.Owner = r.comp.Name
		rb.Binding = r.declToBinding(decls[0])
		for _, extra := range decls[1:] {
			rb.Duplicates = append(rb.Duplicates, r.declToBinding(extra))
		}
		r.resolveDependenciesAt(r, rb.Binding.Dependencies)
		return
	}

	if !k.Tag.IsZero() {
		if d, ok := r.contributionDeclFor(k); ok {
			rb.Owner = r.comp.Name
			b := binding.New(binding.Provision, k, d.Origin).WithDependencies(d.ElementDependencies...)
			b.ContributingModule = k.Tag.Module
			b.Nullable = d.Nullable
			if d.Scope != "" {
				b = b.WithScope(binding.Scope(d.Scope))
			}
			rb.Binding = b
			r.resolveDependenciesAt(r, b.Dependencies)
			return
		}
	}

	if r.parent != nil {
		parentRB := r.parent.Resolve(k)
		if !parentRB.Unresolved {
			*rb = *parentRB
			return
		}
	}

	if r.injectable != nil {
		if tmpl, ok := r.injectable.InjectConstructor(k); ok {
			r.resolveInjectionWithHoisting(k, tmpl, rb)
			return
		}
	}

	if child, ok := r.subcomponentForCreator(k); ok {
		rb.Owner = r.comp.Name
		rb.Binding = binding.New(binding.SubcomponentCreator, k, elementid.New(child, elementid.Method, "builder()"))
		return
	}

	if k.Qualifier.IsZero() && k.Tag.IsZero() {
		if k.Type == r.comp.Name {
			rb.Owner = r.comp.Name
			rb.Binding = binding.New(binding.ComponentInstance, k, elementid.New(r.comp.Name, elementid.Method, r.comp.Name))
			return
		}
		for _, in := range r.comp.CreatorInputs {
			if in.IsBoundInstance && key.New(in.Type) == k {
				rb.Owner = r.comp.Name
				rb.Binding = binding.New(binding.BoundInstance, k, elementid.New(r.comp.Name, elementid.Field, in.Name))
				return
			}
		}
	}

	rb.Unresolved = true
}

// contributionDeclFor finds the IntoSet/IntoMap declaration behind a tagged
// contributor Key: the per-element provision a multibinding aggregate
// depends on. A tagged Key never unifies with anything else, so matching
// the declaration's recorded contributor request is exact.
func (r *Resolver) contributionDeclFor(k key.Key) (moduledesc.Declaration, bool) {
	for _, d := range r.comp.AllDeclarations() {
		if d.Kind != moduledesc.IntoSetContribution && d.Kind != moduledesc.IntoMapContribution {
			continue
		}
		if len(d.Dependencies) > 0 && d.Dependencies[0].Key == k {
			return d, true
		}
	}
	return moduledesc.Declaration{}, false
}

// subcomponentForCreator reports whether k names the creator type of one of
// this component's declared children: a subcomponent creator's key is the
// creator type itself, "<Child>Builder" or "<Child>Factory" by convention.
func (r *Resolver) subcomponentForCreator(k key.Key) (string, bool) {
	if !k.Qualifier.IsZero() || !k.Tag.IsZero() {
		return "", false
	}
	for _, child := range r.comp.Children {
		if k.Type == child.Name+"Builder" || k.Type == child.Name+"Factory" {
			return child.Name, true
		}
	}
	return "", false
}

// resolveInjectionWithHoisting synthesizes an injection binding and assigns
// it to the rootmost ancestor (including r's own component) at which every
// dependency is itself resolvable: a binding is owned by the rootmost
// component in the ancestor chain at which all of its dependencies are
// satisfiable.
func (r *Resolver) resolveInjectionWithHoisting(k key.Key, tmpl InjectableTemplate, rb *ResolvedBindings) {
	chain := r.ancestorChainRootFirst()

	for _, candidate := range chain {
		if candidate.allDependenciesResolvable(tmpl.Dependencies) {
			rb.Owner = candidate.comp.Name
			b := binding.New(binding.Injection, k, tmpl.Origin).WithDependencies(tmpl.Dependencies...)
			b.Nullable = tmpl.Nullable
			rb.Binding = b
			candidate.resolveDependenciesAt(candidate, tmpl.Dependencies)
			return
		}
	}
	rb.Unresolved = true
}

// ancestorChainRootFirst returns [root, ..., r], the path from the root
// component down to r inclusive.
func (r *Resolver) ancestorChainRootFirst() []*Resolver {
	var chain []*Resolver
	for cur := r; cur != nil; cur = cur.parent {
		chain = append([]*Resolver{cur}, chain...)
	}
	return chain
}

// allDependenciesResolvable reports whether every dep resolves to something
// non-missing when requested starting at this resolver's component (i.e.
// visible there: its own modules plus its ancestors', never its
// descendants').
func (r *Resolver) allDependenciesResolvable(deps []key.Request) bool {
	for _, dep := range deps {
		if rb := r.Resolve(dep.Key); rb.Unresolved {
			return false
		}
	}
	return true
}

// resolveDependenciesAt walks deps, resolving each in owner's scope: the
// resolution worklist realized as plain recursive calls rather than an
// explicit queue, with the in-progress registration in Resolve providing
// fix-point/cycle-safety.
func (r *Resolver) resolveDependenciesAt(owner *Resolver, deps []key.Request) {
	for _, dep := range deps {
		owner.Resolve(dep.Key)
	}
}

