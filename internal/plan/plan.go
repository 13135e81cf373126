// Package plan is the binding-expression planner: for each Key a component
// owns, it chooses the strategy callers within the generated component will
// use to refer to it — static method, component/bound instance,
// subcomponent creator, delegate, multibound set/map, optional, simple
// method, or framework instance — with scope wrapping and
// cyclic-initialization delegate substitution on top.
package plan

import (
	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/options"
)

// Strategy discriminates the binding-expression shapes, numbered to match
// the order they are evaluated in.
type Strategy int

const (
	StaticMethod Strategy = iota + 1
	ComponentInstanceExpr
	SubcomponentCreatorExpr
	DelegateExpr
	MultiboundExpr
	OptionalExpr
	SimpleMethodExpr
	FrameworkInstanceExpr
)

func (s Strategy) String() string {
	switch s {
	case StaticMethod:
		return "static-method"
	case ComponentInstanceExpr:
		return "component-instance"
	case SubcomponentCreatorExpr:
		return "subcomponent-creator"
	case DelegateExpr:
		return "delegate"
	case MultiboundExpr:
		return "multibound"
	case OptionalExpr:
		return "optional"
	case SimpleMethodExpr:
		return "simple-method"
	case FrameworkInstanceExpr:
		return "framework-instance"
	default:
		return "unknown"
	}
}

// ScopeWrap selects the scope-wrapper shape.
type ScopeWrap int

const (
	NoWrap ScopeWrap = iota
	SingleCheck
	DoubleCheck
	ReleasableRef
)

// Expression is the chosen binding expression for one owned Key.
type Expression struct {
	Key      key.Key
	Strategy Strategy
	Wrap     ScopeWrap

	// FieldName is populated whenever Strategy needs a field the constructor
	// initializes: FrameworkInstanceExpr always, DelegateExpr only when a
	// cycle forced delegation, MultiboundExpr/OptionalExpr when not
	// trivially inlinable. Empty otherwise.
	FieldName string

	// PrivateMethodName is populated when the expression hides behind a
	// getFoo() method: synthetic multibounds, injections, and provisions
	// under fast-init.
	PrivateMethodName string

	// SwitchID is this binding's id in the component's switching provider,
	// valid only when UsesSwitchingProvider is true.
	SwitchID              int
	UsesSwitchingProvider bool

	// NeedsCast records that DelegateExpr must insert a type cast because the contributed type is accessible but the source
	// expression's type differs from the target's.
	NeedsCast bool

	// DelegateTarget is the Key DelegateExpr forwards to.
	DelegateTarget key.Key

	// State is this expression's cyclic-initialization state, relevant only
	// when FieldName != "".
	State InitState
}

// Plan holds every Expression a single component owns, plus the shared
// per-component planning state: scope manager fields, switching-provider
// assignment, and unique names.
type Plan struct {
	ComponentName string
	Expressions   map[key.Key]*Expression
	// Order is initialization order: dependencies-first, derived
	// deterministically from resolution order, with
	// cycle heads hoisted to their delegate-creation point. Expressions are
	// iterated in this order wherever output must be reproducible.
	Order []key.Key

	// InitSteps is the field-initialization statement sequence the writer
	// emits verbatim into the initialize methods: one StepInit per ordinary
	// field, a StepCreateDelegate/StepSetDelegate pair per cycle head.
	InitSteps []InitStep

	Names *UniqueNames

	// ScopeManagerFields maps a scope name to the releasable-reference
	// manager field created for it, once per scope per component.
	ScopeManagerFields map[string]string

	switching *switchingProvider
	init      *initController

	// fieldDeps records each Key's dependency Keys as seen at planning time,
	// so the init-ordering DFS (init.go) can walk the initializer graph
	// without holding a reference to the full BindingGraph.
	fieldDeps map[key.Key][]key.Key
}

// New constructs an empty Plan for one component.
func New(componentName string) *Plan {
	return &Plan{
		ComponentName:       componentName,
		Expressions:         map[key.Key]*Expression{},
		Names:               NewUniqueNames(),
		ScopeManagerFields:  map[string]string{},
		switching:           newSwitchingProvider(),
		init:                newInitController(),
		fieldDeps:           map[key.Key][]key.Key{},
	}
}

// Build runs the planner over every Key g owns, in resolution order,
// selecting a Strategy for each per the rule order below. opts.FastInit
// toggles switching-provider and private-method preferences.
func Build(g *graph.BindingGraph, opts options.Options) *Plan {
	p := New(g.Component.Name)

	var seeds []key.Key
	for _, k := range g.Keys() {
		rb := g.Resolved[k]
		if rb.Unresolved || rb.Owner != g.Component.Name {
			continue // inherited bindings get no expression in this component.
		}
		seeds = append(seeds, k)
		p.Expressions[k] = p.selectStrategy(g, rb, opts)
		p.fieldDeps[k] = rb.Binding.DependencyKeys()
	}

	p.init.computeStates(p, seeds)

	if opts.FastInit {
		for _, k := range p.Order {
			expr := p.Expressions[k]
			if expr.Strategy == FrameworkInstanceExpr {
				expr.SwitchID = p.switching.assign(k)
				expr.UsesSwitchingProvider = true
			}
		}
	}

	return p
}

// selectStrategy applies the eight-item strategy rule order.
func (p *Plan) selectStrategy(g *graph.BindingGraph, rb *graph.ResolvedBindings, opts options.Options) *Expression {
	b := rb.Binding
	e := &Expression{Key: rb.Key, State: Uninitialized}

	switch {
	case isStaticEligible(b):
		e.Strategy = StaticMethod

	case b.Kind == binding.ComponentInstance || b.Kind == binding.BoundInstance || b.Kind == binding.ComponentProvided:
		e.Strategy = ComponentInstanceExpr

	case b.Kind == binding.SubcomponentCreator:
		e.Strategy = SubcomponentCreatorExpr

	case b.Kind == binding.Delegate && delegateScopeOK(g, b):
		e.Strategy = DelegateExpr
		e.DelegateTarget = b.DelegateTarget
		e.NeedsCast = targetBinding(g, b.DelegateTarget).Key.Type != b.Key.Type

	case b.Kind.IsMultibound():
		e.Strategy = MultiboundExpr
		if needsFieldForMultibinding(b, opts) {
			e.FieldName = p.Names.Reserve(fieldNameFor(rb.Key))
		}

	case b.Kind == binding.Optional:
		e.Strategy = OptionalExpr

	case isSimpleEligible(b, opts):
		e.Strategy = SimpleMethodExpr

	default:
		e.Strategy = FrameworkInstanceExpr
		e.FieldName = p.Names.Reserve(fieldNameFor(rb.Key))
		e.Wrap = wrapFor(b, g)
		if !b.Scope.IsUnscoped() && e.Wrap == ReleasableRef {
			p.ensureScopeManager(string(b.Scope))
		}
	}

	if wantsPrivateMethod(b, opts) && e.Strategy != FrameworkInstanceExpr {
		e.PrivateMethodName = p.Names.Reserve(methodNameFor(rb.Key))
	}

	return e
}

// isStaticEligible selects the static-method strategy: inject-constructor or
// provision method with no dependencies, no instance required, and no
// scope.
func isStaticEligible(b binding.Binding) bool {
	if b.Kind != binding.Injection && b.Kind != binding.Provision {
		return false
	}
	return len(b.Dependencies) == 0 && !b.RequiresModuleInstance && b.Scope.IsUnscoped()
}

// isSimpleEligible selects the simple-method strategy: a standard
// provision/injection that is trivially accessible, emitted inline on every
// request — never when scoped (a scoped binding must share its instance,
// which an inline call cannot provide). Inlining on every request is the
// fast-init trade; the default mode allocates a framework field instead so
// the factory exists once per component.
func isSimpleEligible(b binding.Binding, opts options.Options) bool {
	if b.Kind != binding.Injection && b.Kind != binding.Provision && b.Kind != binding.Production {
		return false
	}
	if !b.Scope.IsUnscoped() {
		return false
	}
	return opts.FastInit
}

// needsFieldForMultibinding reports whether a multibound expression needs a
// field: only when FastInit wraps the builder expression for reuse, since a
// set/map builder is otherwise recomposed inline at each call site.
func needsFieldForMultibinding(b binding.Binding, opts options.Options) bool {
	return opts.FastInit
}

// wantsPrivateMethod reports whether the expression hides behind a private
// getFoo() method: multibounds, injections, and provisions under fast-init,
// so call sites stay compact.
func wantsPrivateMethod(b binding.Binding, opts options.Options) bool {
	if !opts.FastInit {
		return false
	}
	return b.Kind.IsMultibound() || b.Kind == binding.Injection || b.Kind == binding.Provision
}

// delegateScopeOK gates the direct-forward delegate expression: a delegate
// may forward from a stronger or equal scope to a weaker or equal scope
// only. Since there is no total order over user-defined scope names beyond
// "unscoped is weakest", the only pairs treated as definitely compatible
// are either side being unscoped, or both sides sharing the same name.
func delegateScopeOK(g *graph.BindingGraph, b binding.Binding) bool {
	target := targetBinding(g, b.DelegateTarget)
	if b.Scope.IsUnscoped() || target.Scope.IsUnscoped() {
		return true
	}
	return b.Scope == target.Scope
}

func targetBinding(g *graph.BindingGraph, k key.Key) binding.Binding {
	if rb, ok := g.Resolved[k]; ok && !rb.Unresolved {
		return rb.Binding
	}
	return binding.Binding{}
}

func fieldNameFor(k key.Key) string { return simpleFieldName(k) + "Provider" }
func methodNameFor(k key.Key) string { return "get" + capitalize(simpleFieldName(k)) }

// UsesSwitchingProvider reports whether Build assigned any switching-id, so
// the writer (internal/codegen) knows whether to emit the per-component
// switching-provider class at all.
func (p *Plan) UsesSwitchingProvider() bool { return p.switching.used }

func (p *Plan) ensureScopeManager(scope string) string {
	if f, ok := p.ScopeManagerFields[scope]; ok {
		return f
	}
	f := p.Names.Reserve(decapitalize(scope) + "ReferenceManager")
	p.ScopeManagerFields[scope] = f
	return f
}
