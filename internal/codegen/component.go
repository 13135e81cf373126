// Package codegen is the component writer: it emits the generated component
// implementation, one factory per injection/provision/production binding,
// and one members injector per members-injected type, addressed to a host
// Sink.
//
// Source renders through text/template, pretty-prints with go/format, and
// writes atomically: creator validation, batched initialize methods, nested
// subcomponent implementations, unique naming.
package codegen

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/options"
	"github.com/dicore-project/dicore/internal/plan"
)

// initBatchSize bounds the number of statements per initialize method so no
// single generated method grows past what downstream toolchains handle
// comfortably.
const initBatchSize = 100

// runtimeImport is the import path generated files use for the framework
// support types.
const runtimeImport = "github.com/dicore-project/dicore/runtime"

// ErrAlreadyEmitted is returned when Write is called twice on the same
// Writer; emission is one-shot.
var ErrAlreadyEmitted = errors.New("codegen: component already emitted from this writer")

// Writer emits one root component and its nested subcomponents.
type Writer struct {
	// Package is the Go package the generated files declare.
	Package string
	// Prefix is the user-chosen class-name prefix prepended to the
	// component's simple name.
	Prefix string

	opts    options.Options
	emitted bool
}

// NewWriter constructs a Writer. An empty prefix defaults to "Dicore".
func NewWriter(pkg, prefix string, opts options.Options) *Writer {
	if prefix == "" {
		prefix = "Dicore"
	}
	return &Writer{Package: pkg, Prefix: prefix, opts: opts}
}

type paramModel struct{ Name, Type string }

type fieldModel struct{ Name, Type string }

type methodModel struct {
	Recv   string
	Name   string
	Params []paramModel
	Result string
	Body   []string
}

type switchCaseModel struct {
	ID   int
	Expr string
}

type setterModel struct {
	Name    string
	Field   string
	Type    string
	Tracked bool // value inputs track a "set" flag; pointer inputs use nil.
}

type creatorModel struct {
	TypeName      string
	CtorName      string
	ParentField   string // "" for a root creator
	ParentType    string
	ComponentCtor string
	ComponentType string
	Fields        []fieldModel
	Setters       []setterModel
	// RequiredMsg maps a setter to the documented missing-input message.
	Required []setterModel
	// DefaultModules are module fields defaulted to &T{} when unset.
	DefaultModules []fieldModel
}

type initMethodModel struct {
	Name  string
	Stmts []string
}

type componentModel struct {
	TypeName    string
	Interface   string
	IsRoot      bool
	ParentType  string
	Fields      []fieldModel
	Creator     *creatorModel
	CtorName    string
	CtorParams  []paramModel
	CtorAssigns []string
	InitMethods []initMethodModel
	EntryPoints []methodModel
	Private     []methodModel
	SwitchCases []switchCaseModel
	HasSwitch   bool
}

// Write emits the component-implementation file for g plus the factory and
// members-injector files its bindings require. plans maps each component's
// name to its Plan (one per graph in the tree, built by internal/plan).
func (w *Writer) Write(g *graph.BindingGraph, plans map[string]*plan.Plan, sink Sink) error {
	if w.emitted {
		return ErrAlreadyEmitted
	}
	w.emitted = true

	st := &writeState{
		writer:    w,
		plans:     plans,
		factories: map[string]factoryModel{},
		injectors: map[string]injectorModel{},
	}
	root := st.buildComponent(g, nil, nil)

	var comps []*componentModel
	flatten(root, &comps)

	src, err := w.renderComponentFile(comps)
	if err != nil {
		return err
	}
	if err := finish(sink, fileNameFor(root.model.TypeName), src, w.opts.FormatGeneratedSource); err != nil {
		return err
	}

	if err := st.writeFactories(sink); err != nil {
		return err
	}
	return st.writeInjectors(sink)
}

func flatten(m *treeModel, out *[]*componentModel) {
	*out = append(*out, m.model)
	for _, c := range m.children {
		flatten(c, out)
	}
}

type treeModel struct {
	model    *componentModel
	children []*treeModel
}

type writeState struct {
	writer    *Writer
	plans     map[string]*plan.Plan
	factories map[string]factoryModel
	injectors map[string]injectorModel
}

// buildComponent assembles the emission model for one component: decorate,
// creator, reserve entry-point names, scope managers, binding expressions,
// entry points, subcomponents, initialize partitioning, members-injection
// helpers.
func (st *writeState) buildComponent(g *graph.BindingGraph, parent *treeModel, parentR *exprRenderer) *treeModel {
	w := st.writer
	comp := g.Component
	p := st.plans[comp.Name]
	if p == nil {
		p = plan.New(comp.Name)
	}

	m := &componentModel{Interface: comp.Name, IsRoot: parent == nil}
	if m.IsRoot {
		m.TypeName = w.Prefix + sanitizeIdent(comp.Name)
	} else {
		m.TypeName = unexported(parent.model.TypeName) + "_" + sanitizeIdent(comp.Name)
		m.ParentType = parent.model.TypeName
	}
	m.CtorName = "new" + exported(m.TypeName)

	r := &exprRenderer{g: g, p: p, parent: parentR, recv: "c", subBuilders: map[key.Key]string{}}
	for _, child := range comp.Children {
		childImpl := unexported(m.TypeName) + "_" + sanitizeIdent(child.Name)
		ctor := "new" + exported(childImpl) + "Builder"
		r.subBuilders[key.New(child.Name+"Builder")] = ctor
		r.subBuilders[key.New(child.Name+"Factory")] = ctor
	}

	// Reserve entry-point method names before private names are derived.
	for _, ep := range comp.EntryPoints {
		p.Names.Reserve(exported(ep.Name))
	}

	modules := st.ownedModules(g, p)
	st.buildFields(m, g, p, modules)
	st.buildCreator(m, g, modules)
	st.buildInit(m, g, p, r)
	st.buildEntryPoints(m, g, p, r)
	st.buildPrivate(m, g, p, r)
	st.collectFactories(g, p)

	tm := &treeModel{model: m}
	for _, childGraph := range g.Children {
		tm.children = append(tm.children, st.buildComponent(childGraph, tm, r))
	}
	return tm
}

// ownedModules lists the distinct modules whose instances this component
// needs, in first-use order.
func (st *writeState) ownedModules(g *graph.BindingGraph, p *plan.Plan) []string {
	var mods []string
	seen := map[string]bool{}
	for _, k := range p.Order {
		rb := g.Resolved[k]
		if rb == nil {
			continue
		}
		b := rb.Binding
		if b.RequiresModuleInstance && b.ContributingModule != "" && !seen[b.ContributingModule] {
			seen[b.ContributingModule] = true
			mods = append(mods, b.ContributingModule)
		}
	}
	return mods
}

func (st *writeState) buildFields(m *componentModel, g *graph.BindingGraph, p *plan.Plan, modules []string) {
	if !m.IsRoot {
		m.Fields = append(m.Fields, fieldModel{Name: "parent", Type: "*" + m.ParentType})
	}
	for _, mod := range modules {
		m.Fields = append(m.Fields, fieldModel{Name: moduleField(mod), Type: "*" + mod})
	}
	for _, dep := range g.Component.DependencyComponents {
		m.Fields = append(m.Fields, fieldModel{Name: unexported(sanitizeIdent(dep.Name)), Type: dep.Name})
	}
	for _, in := range g.Component.CreatorInputs {
		if in.IsBoundInstance {
			m.Fields = append(m.Fields, fieldModel{Name: unexported(simpleTypeName(in.Type)), Type: goType(in.Type)})
		}
	}
	// Scope-manager fields, one per releasable scope, in stable order.
	for _, scope := range sortedKeys(p.ScopeManagerFields) {
		m.Fields = append(m.Fields, fieldModel{Name: p.ScopeManagerFields[scope], Type: "*runtime.ReleasableReferenceManager"})
	}
	for _, k := range p.Order {
		e := p.Expressions[k]
		if e == nil || e.FieldName == "" {
			continue
		}
		m.Fields = append(m.Fields, fieldModel{Name: e.FieldName, Type: "runtime.Provider[" + goType(k.Type) + "]"})
	}
}

func (st *writeState) buildCreator(m *componentModel, g *graph.BindingGraph, modules []string) {
	comp := g.Component

	cr := &creatorModel{
		ComponentType: m.TypeName,
		ComponentCtor: m.CtorName,
	}
	if m.IsRoot {
		cr.TypeName = m.TypeName + "Builder"
		cr.CtorName = "New" + cr.TypeName
	} else {
		cr.TypeName = m.TypeName + "Builder"
		cr.CtorName = "new" + exported(cr.TypeName)
		cr.ParentField = "parent"
		cr.ParentType = m.ParentType
	}

	for _, mod := range modules {
		f := fieldModel{Name: moduleField(mod), Type: "*" + mod}
		cr.Fields = append(cr.Fields, f)
		cr.Setters = append(cr.Setters, setterModel{Name: exported(mod), Field: f.Name, Type: f.Type})
		cr.DefaultModules = append(cr.DefaultModules, f)
	}
	for _, dep := range comp.DependencyComponents {
		f := fieldModel{Name: unexported(sanitizeIdent(dep.Name)), Type: dep.Name}
		cr.Fields = append(cr.Fields, f)
		s := setterModel{Name: exported(sanitizeIdent(dep.Name)), Field: f.Name, Type: f.Type, Tracked: true}
		cr.Setters = append(cr.Setters, s)
		cr.Required = append(cr.Required, s)
	}
	for _, in := range comp.CreatorInputs {
		if !in.IsBoundInstance {
			continue
		}
		f := fieldModel{Name: unexported(simpleTypeName(in.Type)), Type: goType(in.Type)}
		cr.Fields = append(cr.Fields, f)
		s := setterModel{Name: exported(sanitizeIdent(in.Name)), Field: f.Name, Type: f.Type, Tracked: true}
		cr.Setters = append(cr.Setters, s)
		cr.Required = append(cr.Required, s)
	}

	m.Creator = cr

	// The component constructor copies every creator field.
	m.CtorParams = []paramModel{{Name: "b", Type: "*" + cr.TypeName}}
	if !m.IsRoot {
		m.CtorAssigns = append(m.CtorAssigns, "c.parent = b.parent")
	}
	for _, f := range cr.Fields {
		m.CtorAssigns = append(m.CtorAssigns, "c."+f.Name+" = b."+f.Name)
	}
}

func (st *writeState) buildInit(m *componentModel, g *graph.BindingGraph, p *plan.Plan, r *exprRenderer) {
	if st.writer.opts.HeaderCompilation {
		return // signatures only: no initialize methods at all.
	}

	var stmts []string
	for _, scope := range sortedKeys(p.ScopeManagerFields) {
		stmts = append(stmts, "c."+p.ScopeManagerFields[scope]+" = runtime.NewReleasableReferenceManager()")
	}

	for _, step := range p.InitSteps {
		e := p.Expressions[step.Key]
		rb := g.Resolved[step.Key]
		if e == nil || rb == nil {
			continue
		}
		t := goType(step.Key.Type)
		switch step.Kind {
		case plan.StepCreateDelegate:
			stmts = append(stmts, fmt.Sprintf("c.%s = runtime.NewDelegateFactory[%s]()", e.FieldName, t))
		case plan.StepSetDelegate:
			stmts = append(stmts, fmt.Sprintf("c.%s.(*runtime.DelegateFactory[%s]).MustSetDelegate(%s)",
				e.FieldName, t, st.wrappedFactory(g, p, r, step.Key)))
		default:
			stmts = append(stmts, fmt.Sprintf("c.%s = %s", e.FieldName, st.wrappedFactory(g, p, r, step.Key)))
		}
	}

	// Partition into bounded-size methods called in order from the
	// constructor.
	for i := 0; i < len(stmts); i += initBatchSize {
		end := i + initBatchSize
		if end > len(stmts) {
			end = len(stmts)
		}
		name := "initialize"
		if i > 0 {
			name = fmt.Sprintf("initialize%d", i/initBatchSize+1)
		}
		m.InitMethods = append(m.InitMethods, initMethodModel{Name: name, Stmts: stmts[i:end]})
	}
}

// wrappedFactory renders the provider expression assigned to a field: the
// factory construction, wrapped per the planned scope strategy, or the
// switching-provider indirection under fast-init.
func (st *writeState) wrappedFactory(g *graph.BindingGraph, p *plan.Plan, r *exprRenderer, k key.Key) string {
	e := p.Expressions[k]
	rb := g.Resolved[k]
	t := goType(k.Type)

	var base string
	if e.UsesSwitchingProvider {
		base = fmt.Sprintf("runtime.ProviderFunc[%s](func() %s { return c.switchProvider(%d).(%s) })",
			t, t, e.SwitchID, t)
	} else {
		base = r.factoryNew(rb.Binding)
	}

	switch e.Wrap {
	case plan.SingleCheck:
		return "runtime.NewSingleCheck(" + base + ")"
	case plan.DoubleCheck:
		return "runtime.NewDoubleCheck(" + base + ")"
	case plan.ReleasableRef:
		mgr := p.ScopeManagerFields[string(rb.Binding.Scope)]
		return "runtime.NewReleasable(c." + mgr + ", " + base + ")"
	default:
		return base
	}
}

func (st *writeState) buildEntryPoints(m *componentModel, g *graph.BindingGraph, p *plan.Plan, r *exprRenderer) {
	header := st.writer.opts.HeaderCompilation

	for _, ep := range g.Component.EntryPoints {
		mm := methodModel{Recv: m.TypeName, Name: exported(ep.Name)}

		if ep.IsMembersInjection() {
			param := goType(ep.MembersInjectionParam)
			mm.Params = []paramModel{{Name: "instance", Type: "*" + param}}
			if header {
				mm.Body = []string{`panic("dicore: header compilation")`}
			} else {
				mm.Body = []string{"c.inject" + simpleTypeName(ep.MembersInjectionParam) + "(instance)"}
			}
			m.EntryPoints = append(m.EntryPoints, mm)
			continue
		}

		t := goType(ep.Request.Key.Type)
		var body string
		switch ep.Request.Kind {
		case key.Provider, key.Producer:
			mm.Result = "runtime.Provider[" + t + "]"
			body = "return " + r.provider(ep.Request.Key)
		case key.Lazy:
			mm.Result = "*runtime.Lazy[" + t + "]"
			body = "return runtime.NewLazy(" + r.provider(ep.Request.Key) + ")"
		default:
			mm.Result = t
			body = "return " + r.instance(ep.Request.Key)
		}
		if header {
			mm.Body = []string{`panic("dicore: header compilation")`}
		} else {
			mm.Body = []string{body}
		}
		m.EntryPoints = append(m.EntryPoints, mm)
	}

	// Child factory methods construct subcomponent implementations
	// directly.
	for _, child := range g.Component.Children {
		factory, ok := g.Component.ChildFactoryMethods[child.Name]
		if !ok {
			continue
		}
		childImpl := unexported(m.TypeName) + "_" + sanitizeIdent(child.Name)
		mm := methodModel{
			Recv:   m.TypeName,
			Name:   exported(factory),
			Result: "*" + childImpl,
			Body:   []string{"return new" + exported(childImpl) + "Builder(c).MustBuild()"},
		}
		if header {
			mm.Body = []string{`panic("dicore: header compilation")`}
		}
		m.EntryPoints = append(m.EntryPoints, mm)
	}
}

func (st *writeState) buildPrivate(m *componentModel, g *graph.BindingGraph, p *plan.Plan, r *exprRenderer) {
	header := st.writer.opts.HeaderCompilation

	// Private binding methods.
	for _, k := range p.Order {
		e := p.Expressions[k]
		if e == nil || e.PrivateMethodName == "" {
			continue
		}
		rb := g.Resolved[k]
		body := []string{"return " + r.instanceOfBinding(rb.Binding)}
		if header {
			body = []string{`panic("dicore: header compilation")`}
		}
		m.Private = append(m.Private, methodModel{
			Recv:   m.TypeName,
			Name:   e.PrivateMethodName,
			Result: goType(k.Type),
			Body:   body,
		})
	}

	// Members-injection helper methods, one per injected type, running
	// sites in declaration order.
	for _, ep := range g.Component.EntryPoints {
		if !ep.IsMembersInjection() {
			continue
		}
		simple := simpleTypeName(ep.MembersInjectionParam)
		param := goType(ep.MembersInjectionParam)
		mm := methodModel{
			Recv:   m.TypeName,
			Name:   "inject" + simple,
			Params: []paramModel{{Name: "instance", Type: "*" + param}},
			Result: "*" + param,
		}
		for _, site := range ep.MemberSites {
			if site.IsMethod {
				mm.Body = append(mm.Body, "instance."+exported(site.Member)+"("+r.request(site.Request)+")")
			} else {
				mm.Body = append(mm.Body,
					membersInjectorName(ep.MembersInjectionParam)+"_Inject"+exported(site.Member)+"(instance, "+r.request(site.Request)+")")
			}
		}
		mm.Body = append(mm.Body, "return instance")
		if header {
			mm.Body = []string{`panic("dicore: header compilation")`}
		}
		m.Private = append(m.Private, mm)
		st.collectInjector(ep)
	}

	// The switching provider: one dispatch method per component under
	// fast-init.
	if p.UsesSwitchingProvider() {
		m.HasSwitch = true
		for _, k := range p.Order {
			e := p.Expressions[k]
			if e == nil || !e.UsesSwitchingProvider {
				continue
			}
			rb := g.Resolved[k]
			m.SwitchCases = append(m.SwitchCases, switchCaseModel{ID: e.SwitchID, Expr: r.instanceOfBinding(rb.Binding)})
		}
		sort.Slice(m.SwitchCases, func(i, j int) bool { return m.SwitchCases[i].ID < m.SwitchCases[j].ID })
	}
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (w *Writer) renderComponentFile(comps []*componentModel) ([]byte, error) {
	needsErrors := false
	for _, c := range comps {
		if c.Creator != nil && len(c.Creator.Required) > 0 {
			needsErrors = true
		}
	}

	var sb strings.Builder
	data := map[string]any{
		"Package":     w.Package,
		"Runtime":     runtimeImport,
		"Components":  comps,
		"Options":     StampLines(w.opts),
		"NeedsErrors": needsErrors,
	}
	if err := componentTpl.Execute(&sb, data); err != nil {
		return nil, fmt.Errorf("codegen: render component: %w", err)
	}
	return []byte(sb.String()), nil
}
