package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/component"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/plan"
)

// factoryDep is one dependency of a generated factory: the provider field
// it is stored in, plus the unwrapped shape Create receives.
type factoryDep struct {
	FieldName  string
	FieldType  string
	CreateName string
	CreateType string
	// GetExpr converts the stored provider to the Create argument.
	GetExpr string
}

// factoryModel describes one generated factory file: a provider struct over
// the binding's dependencies plus a static Create function.
type factoryModel struct {
	Name       string
	ResultType string
	ModuleType string // "" when the binding needs no module instance
	Deps       []factoryDep
	CreateBody string
}

// collectFactories records a factory for every owned
// injection/provision/production binding of g.
func (st *writeState) collectFactories(g *graph.BindingGraph, p *plan.Plan) {
	for _, k := range p.Order {
		rb := g.Resolved[k]
		if rb == nil {
			continue
		}
		b := rb.Binding
		switch b.Kind {
		case binding.Injection, binding.Provision, binding.Production:
		default:
			continue
		}
		name := factoryName(b)
		if _, ok := st.factories[name]; ok {
			continue
		}
		st.factories[name] = buildFactoryModel(b)
	}
}

func buildFactoryModel(b binding.Binding) factoryModel {
	m := factoryModel{
		Name:       factoryName(b),
		ResultType: goType(b.Key.Type),
	}
	if b.RequiresModuleInstance {
		m.ModuleType = "*" + sanitizeIdent(b.ContributingModule)
	}

	names := map[string]int{}
	args := make([]string, 0, len(b.Dependencies))
	for _, dep := range b.Dependencies {
		d := buildFactoryDep(dep, names)
		m.Deps = append(m.Deps, d)
		args = append(args, d.CreateName)
	}

	call := strings.Join(args, ", ")
	switch b.Kind {
	case binding.Injection:
		m.CreateBody = "New" + simpleTypeName(b.Key.Type) + "(" + call + ")"
	default:
		method := exported(methodNameOf(b.Origin.Signature))
		if b.RequiresModuleInstance {
			m.CreateBody = "module." + method + "(" + call + ")"
		} else {
			m.CreateBody = method + "(" + call + ")"
		}
	}
	return m
}

func buildFactoryDep(dep key.Request, names map[string]int) factoryDep {
	base := unexported(simpleTypeName(dep.Key.Type)) + qualifierPart(dep.Key)
	if base == "" {
		base = "dep"
	}
	names[base]++
	if n := names[base]; n > 1 {
		base = fmt.Sprintf("%s%d", base, n)
	}

	t := goType(dep.Key.Type)
	d := factoryDep{
		FieldName:  base + "Provider",
		FieldType:  "runtime.Provider[" + t + "]",
		CreateName: base,
	}
	switch dep.Kind {
	case key.Provider, key.Producer:
		d.CreateType = "runtime.Provider[" + t + "]"
		d.GetExpr = "f." + d.FieldName
	case key.Lazy:
		d.CreateType = "*runtime.Lazy[" + t + "]"
		d.GetExpr = "runtime.NewLazy(f." + d.FieldName + ")"
	default:
		d.CreateType = t
		d.GetExpr = "f." + d.FieldName + ".Get()"
	}
	return d
}

func (st *writeState) writeFactories(sink Sink) error {
	for _, name := range sortedFactoryNames(st.factories) {
		m := st.factories[name]
		var sb strings.Builder
		if err := factoryTpl.Execute(&sb, map[string]any{
			"Package":      st.writer.Package,
			"Runtime":      runtimeImport,
			"NeedsRuntime": len(m.Deps) > 0 || strings.Contains(m.ResultType, "runtime."),
			"F":            m,
		}); err != nil {
			return fmt.Errorf("codegen: render factory %s: %w", name, err)
		}
		if err := finish(sink, fileNameFor(name), []byte(sb.String()), st.writer.opts.FormatGeneratedSource); err != nil {
			return err
		}
	}
	return nil
}

// injectorModel describes one generated members injector: static per-field
// inject functions for a members-injected type.
type injectorModel struct {
	Name         string
	InstanceType string
	Fields       []injectorField
}

type injectorField struct {
	Member    string
	ValueType string
}

func (st *writeState) collectInjector(ep component.EntryPoint) {
	name := membersInjectorName(ep.MembersInjectionParam)
	if _, ok := st.injectors[name]; ok {
		return
	}
	m := injectorModel{Name: name, InstanceType: goType(ep.MembersInjectionParam)}
	for _, site := range ep.MemberSites {
		if site.IsMethod {
			continue // method sites are invoked directly on the instance.
		}
		m.Fields = append(m.Fields, injectorField{
			Member:    exported(site.Member),
			ValueType: goType(site.Request.Key.Type),
		})
	}
	st.injectors[name] = m
}

func (st *writeState) writeInjectors(sink Sink) error {
	names := make([]string, 0, len(st.injectors))
	for n := range st.injectors {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		m := st.injectors[name]
		var sb strings.Builder
		if err := injectorTpl.Execute(&sb, map[string]any{
			"Package": st.writer.Package,
			"I":       m,
		}); err != nil {
			return fmt.Errorf("codegen: render injector %s: %w", name, err)
		}
		if err := finish(sink, fileNameFor(name), []byte(sb.String()), st.writer.opts.FormatGeneratedSource); err != nil {
			return err
		}
	}
	return nil
}

func sortedFactoryNames(m map[string]factoryModel) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
