package codegen

import (
	"fmt"
	"strings"

	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/plan"
)

// exprRenderer turns a planned binding expression into Go source text at a
// call site inside one generated component. Inherited bindings render
// through the parent renderer with the access path extended by one ".parent"
// hop per component level.
type exprRenderer struct {
	g      *graph.BindingGraph
	p      *plan.Plan
	parent *exprRenderer
	recv   string

	// subBuilders maps a subcomponent-creator Key to the generated builder
	// constructor's name, so creator expressions can name it.
	subBuilders map[key.Key]string
}

func (r *exprRenderer) withRecv(recv string) *exprRenderer {
	cp := *r
	cp.recv = recv
	return &cp
}

// resolvedHere returns this component's expression for k, or nil if k is
// owned by (and must be rendered through) an ancestor.
func (r *exprRenderer) resolvedHere(k key.Key) (*plan.Expression, *graph.ResolvedBindings) {
	rb, ok := r.g.Resolved[k]
	if !ok || rb.Unresolved {
		return nil, nil
	}
	if rb.Owner != r.g.Component.Name {
		return nil, rb
	}
	return r.p.Expressions[k], rb
}

// instance renders a value-typed expression for k.
func (r *exprRenderer) instance(k key.Key) string {
	e, rb := r.resolvedHere(k)
	if rb == nil {
		return "nil /* unresolved " + k.String() + " */"
	}
	if e == nil {
		return r.parent.withRecv(r.recv + ".parent").instance(k)
	}

	b := rb.Binding
	switch e.Strategy {
	case plan.StaticMethod:
		return factoryName(b) + "_Create()"

	case plan.ComponentInstanceExpr:
		switch b.Kind {
		case binding.ComponentInstance:
			return r.recv
		case binding.BoundInstance:
			return r.recv + "." + unexported(simpleTypeName(k.Type))
		default: // ComponentProvided
			return r.recv + "." + unexported(sanitizeIdent(b.Origin.Qualified)) + "." + exported(methodNameOf(b.Origin.Signature)) + "()"
		}

	case plan.SubcomponentCreatorExpr:
		if ctor, ok := r.subBuilders[k]; ok {
			return ctor + "(" + r.recv + ")"
		}
		return "nil /* unknown subcomponent creator " + k.String() + " */"

	case plan.DelegateExpr:
		inner := r.instance(e.DelegateTarget)
		if e.NeedsCast {
			return goType(k.Type) + "(" + inner + ")"
		}
		return inner

	case plan.MultiboundExpr:
		if e.PrivateMethodName != "" {
			return r.recv + "." + e.PrivateMethodName + "()"
		}
		return r.multibound(b)

	case plan.OptionalExpr:
		return r.optional(b)

	case plan.SimpleMethodExpr:
		if e.PrivateMethodName != "" {
			return r.recv + "." + e.PrivateMethodName + "()"
		}
		return r.create(b)

	default: // FrameworkInstanceExpr
		return r.recv + "." + e.FieldName + ".Get()"
	}
}

// provider renders a Provider-typed expression for k.
func (r *exprRenderer) provider(k key.Key) string {
	e, rb := r.resolvedHere(k)
	if rb == nil {
		return "nil /* unresolved " + k.String() + " */"
	}
	if e == nil {
		return r.parent.withRecv(r.recv + ".parent").provider(k)
	}

	t := goType(k.Type)
	switch e.Strategy {
	case plan.FrameworkInstanceExpr:
		return r.recv + "." + e.FieldName
	case plan.StaticMethod:
		return "runtime.ProviderFunc[" + t + "](" + factoryName(rb.Binding) + "_Create)"
	default:
		return "runtime.ProviderFunc[" + t + "](func() " + t + " { return " + r.instance(k) + " })"
	}
}

// request renders a dependency request the way the requesting site asked
// for it: the planner's framework-wrapped/unwrapped conversion.
func (r *exprRenderer) request(req key.Request) string {
	switch req.Kind {
	case key.Provider, key.Producer:
		return r.provider(req.Key)
	case key.Lazy:
		return "runtime.NewLazy(" + r.provider(req.Key) + ")"
	default:
		return r.instance(req.Key)
	}
}

// create renders the direct creation call for an injection/provision
// binding: Factory_Create(module?, deps...), dependencies converted per
// their request kinds.
func (r *exprRenderer) create(b binding.Binding) string {
	args := make([]string, 0, len(b.Dependencies)+1)
	if b.RequiresModuleInstance {
		args = append(args, r.recv+"."+moduleField(b.ContributingModule))
	}
	for _, dep := range b.Dependencies {
		args = append(args, r.request(dep))
	}
	return factoryName(b) + "_Create(" + strings.Join(args, ", ") + ")"
}

// factoryNew renders the factory-construction expression assigned to a
// framework field, before any scope wrapper.
func (r *exprRenderer) factoryNew(b binding.Binding) string {
	switch b.Kind {
	case binding.Injection, binding.Provision, binding.Production:
		args := make([]string, 0, len(b.Dependencies)+1)
		if b.RequiresModuleInstance {
			args = append(args, r.recv+"."+moduleField(b.ContributingModule))
		}
		for _, dep := range b.Dependencies {
			args = append(args, r.provider(dep.Key))
		}
		return "New" + factoryName(b) + "(" + strings.Join(args, ", ") + ")"
	default:
		t := goType(b.Key.Type)
		return "runtime.ProviderFunc[" + t + "](func() " + t + " { return " + r.instanceOfBinding(b) + " })"
	}
}

// instanceOfBinding renders the raw construction expression for b without
// going through b's own field (used inside that field's initializer and in
// switching-provider cases, where field access would self-recurse).
func (r *exprRenderer) instanceOfBinding(b binding.Binding) string {
	switch b.Kind {
	case binding.Injection, binding.Provision, binding.Production:
		return r.create(b)
	case binding.MultiboundSet, binding.MultiboundMap:
		return r.multibound(b)
	case binding.Optional:
		return r.optional(b)
	default:
		return r.instance(b.Key)
	}
}

// multibound composes a set or map aggregate from its contributions
//: empty collection, or a sized builder over each
// contribution's expression; map contributions emit (keyLiteral,
// valueExpression) pairs.
func (r *exprRenderer) multibound(b binding.Binding) string {
	if b.Kind == binding.MultiboundMap {
		return r.multiboundMap(b)
	}

	_, elem, ok := splitAngle(b.Key.Type)
	if !ok {
		elem = b.Key.Type
	}
	t := goType(elem)
	if len(b.Dependencies) == 0 {
		return "runtime.EmptySet[" + t + "]().Get()"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "runtime.NewSetBuilder[%s](%d, 0)", t, len(b.Dependencies))
	for _, dep := range b.Dependencies {
		sb.WriteString(".\n\t\tAddProvider(" + r.provider(dep.Key) + ")")
	}
	sb.WriteString(".\n\t\tBuild().Get()")
	return sb.String()
}

func (r *exprRenderer) multiboundMap(b binding.Binding) string {
	_, inner, _ := splitAngle(b.Key.Type)
	kt, vt := splitTopComma(inner)
	keyT, valT := goType(kt), goType(vt)

	if wrapper, wrapped, ok := splitAngle(vt); ok && (wrapper == "Provider" || wrapper == "Producer") {
		// Provider-valued maps hold the contributions' providers directly.
		var sb strings.Builder
		fmt.Fprintf(&sb, "map[%s]runtime.Provider[%s]{", keyT, goType(wrapped))
		for _, mc := range b.MapContributions {
			fmt.Fprintf(&sb, "\n\t\t%s: %s,", mc.MapKeyLiteral, r.provider(mc.Dependency.Key))
		}
		sb.WriteString("\n\t}")
		return sb.String()
	}

	if len(b.MapContributions) == 0 {
		return "runtime.EmptyMap[" + keyT + ", " + valT + "]().Get()"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "runtime.NewMapBuilder[%s, %s](%d)", keyT, valT, len(b.MapContributions))
	for _, mc := range b.MapContributions {
		fmt.Fprintf(&sb, ".\n\t\tPut(%s, %s)", mc.MapKeyLiteral, r.provider(mc.Dependency.Key))
	}
	sb.WriteString(".\n\t\tBuild().Get()")
	return sb.String()
}

// optional renders a binds-optional-of binding: Some over the underlying
// expression when present, None when absent. The
// type parameter is always explicit so the FUTURE request kind needs no
// special shape.
func (r *exprRenderer) optional(b binding.Binding) string {
	inner := b.Key.Type
	if _, in, ok := splitAngle(b.Key.Type); ok {
		inner = in
	}
	t := goType(inner)
	if len(b.Dependencies) == 0 {
		return "runtime.None[" + t + "]()"
	}
	return "runtime.Some[" + t + "](" + r.request(b.Dependencies[0]) + ")"
}

// moduleField names the component field holding a module instance.
func moduleField(module string) string {
	return unexported(sanitizeIdent(module)) + "Module"
}
