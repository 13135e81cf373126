// cmd/dicore/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"go.uber.org/zap"

	"github.com/dicore-project/dicore/internal/codegen"
	"github.com/dicore-project/dicore/internal/component"
	"github.com/dicore-project/dicore/internal/diag"
	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/moduledesc"
	"github.com/dicore-project/dicore/internal/options"
	"github.com/dicore-project/dicore/internal/plan"
	"github.com/dicore-project/dicore/internal/sourcegraph"
	"github.com/dicore-project/dicore/internal/validate"
)

// This binary is a code-generation tool.
//
// It reads a YAML specification describing a component, its modules, and
// their binding methods, resolves the binding graph, validates it, and
// generates the component implementation plus its factories.
//
// Key behaviors:
// - Reads the component spec YAML: package, modules, entry points, subcomponents
// - Optionally scans a package directory for dicore:inject constructors
// - Resolves and validates the graph; any error suppresses generation
// - Writes output atomically (temp file + rename) to avoid partial writes

// EntryPointSpec is one entry-point method on a component.
type EntryPointSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Kind is the request kind: INSTANCE (default), LAZY, PROVIDER,
	// PRODUCER, FUTURE.
	Kind string `yaml:"kind"`
}

// ProvideSpec is one provides/produces method on a module.
type ProvideSpec struct {
	Method   string   `yaml:"method"`
	Type     string   `yaml:"type"`
	Scope    string   `yaml:"scope"`
	Params   []string `yaml:"params"`
	Nullable bool     `yaml:"nullable"`
	Produces bool     `yaml:"produces"`
}

// BindSpec is one binds (delegate) method on a module.
type BindSpec struct {
	Method string `yaml:"method"`
	Type   string `yaml:"type"`
	To     string `yaml:"to"`
	Scope  string `yaml:"scope"`
}

// IntoSetSpec is one into-set contribution method on a module.
type IntoSetSpec struct {
	Method string   `yaml:"method"`
	Type   string   `yaml:"type"`
	Params []string `yaml:"params"`
}

// IntoMapSpec is one into-map contribution method on a module.
type IntoMapSpec struct {
	Method     string   `yaml:"method"`
	Type       string   `yaml:"type"`
	MapKeyType string   `yaml:"mapKeyType"`
	Key        string   `yaml:"key"` // the map-key literal, emitted verbatim
	Params     []string `yaml:"params"`
}

// OptionalSpec is one binds-optional-of declaration on a module.
type OptionalSpec struct {
	Method string `yaml:"method"`
	Type   string `yaml:"type"`
}

// ModuleSpec is one module: binding methods plus structural attributes.
type ModuleSpec struct {
	Name             string `yaml:"name"`
	RequiresInstance bool   `yaml:"requiresInstance"`
	Private          bool   `yaml:"private"`

	Includes      []string `yaml:"includes"`
	Subcomponents []string `yaml:"subcomponents"`

	Provides  []ProvideSpec  `yaml:"provides"`
	Binds     []BindSpec     `yaml:"binds"`
	IntoSet   []IntoSetSpec  `yaml:"intoSet"`
	IntoMap   []IntoMapSpec  `yaml:"intoMap"`
	Optionals []OptionalSpec `yaml:"optionals"`
}

// BoundInstanceSpec is one value the component's builder collects at build
// time instead of a module providing it.
type BoundInstanceSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ComponentSpec is a component with its installed modules and children.
type ComponentSpec struct {
	Name           string              `yaml:"name"`
	Scopes         []string            `yaml:"scopes"`
	Modules        []string            `yaml:"modules"`
	EntryPoints    []EntryPointSpec    `yaml:"entryPoints"`
	BoundInstances []BoundInstanceSpec `yaml:"boundInstances"`
	FactoryMethod  string              `yaml:"factoryMethod"` // on the parent, for subcomponents
	Subcomponents  []ComponentSpec     `yaml:"subcomponents"`
}

// Spec is the full input schema consumed by the generator.
type Spec struct {
	Package   string        `yaml:"package"`
	Prefix    string        `yaml:"prefix"`
	Modules   []ModuleSpec  `yaml:"modules"`
	Component ComponentSpec `yaml:"component"`
}

func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("dicore", flag.ContinueOnError)
	flags.SetOutput(stderr)

	specPath := flags.String("spec", "", "path to the component spec YAML")
	outDir := flags.String("out", "", "output directory for generated sources")
	optionsPath := flags.String("options", "", "optional path to a compiler-options YAML")
	scanDir := flags.String("scan", "", "optional package directory to scan for dicore:inject constructors")
	verbose := flags.Bool("v", false, "verbose logging")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*specPath) == "" || strings.TrimSpace(*outDir) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: dicore -spec <component.yaml> -out <dir> [-options <options.yaml>] [-scan <pkgdir>]")
		return 2
	}

	logger := newLogger(*verbose)
	defer func() { _ = logger.Sync() }()

	opts, err := loadOptions(*optionsPath, logger)
	if err != nil {
		logger.Error("load options", zap.Error(err))
		return 1
	}

	spec, err := loadSpec(*specPath)
	if err != nil {
		logger.Error("load spec", zap.Error(err))
		return 1
	}

	var injectables graph.InjectableIndex
	if *scanDir != "" {
		ix, serr := sourcegraph.Scan(*scanDir)
		if serr != nil {
			logger.Error("scan package", zap.String("dir", *scanDir), zap.Error(serr))
			return 1
		}
		logger.Debug("scanned inject constructors", zap.Int("count", ix.Len()))
		injectables = ix
	}

	rep := diag.NewReporter("dicore", logger)
	g, err := resolveSpec(spec, injectables)
	if err != nil {
		logger.Error("build descriptors", zap.Error(err))
		return 1
	}

	clean := validate.Run(g, validate.NewContext(rep, opts))
	for _, d := range rep.Diagnostics() {
		_, _ = fmt.Fprintln(stderr, rep.Format(d))
	}
	if !clean {
		logger.Error("graph has errors; skipping generation",
			zap.String("component", spec.Component.Name), zap.String("run_id", rep.RunID))
		return 1
	}

	plans := map[string]*plan.Plan{}
	var planAll func(gr *graph.BindingGraph)
	planAll = func(gr *graph.BindingGraph) {
		plans[gr.Component.Name] = plan.Build(gr, opts)
		for _, child := range gr.Children {
			planAll(child)
		}
	}
	planAll(g)

	w := codegen.NewWriter(spec.Package, spec.Prefix, opts)
	if err := w.Write(g, plans, codegen.DirSink{Dir: *outDir}); err != nil {
		logger.Error("write component", zap.Error(err))
		return 1
	}

	logger.Info("generated component",
		zap.String("component", spec.Component.Name),
		zap.String("out", *outDir),
		zap.String("run_id", rep.RunID))
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadOptions(path string, logger *zap.Logger) (options.Options, error) {
	if strings.TrimSpace(path) == "" {
		return options.Defaults(), nil
	}
	doc, err := os.ReadFile(path)
	if err != nil {
		return options.Defaults(), err
	}
	opts, unknown, err := options.Load(doc)
	for _, k := range unknown {
		logger.Warn("unknown compiler option ignored", zap.String("option", k))
	}
	return opts, err
}

func loadSpec(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var spec Spec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("spec: parse: %w", err)
	}
	if strings.TrimSpace(spec.Package) == "" {
		return nil, fmt.Errorf("spec missing: package")
	}
	if strings.TrimSpace(spec.Component.Name) == "" {
		return nil, fmt.Errorf("spec missing: component.name")
	}
	return &spec, nil
}

// resolveSpec turns the parsed spec into descriptors and resolves the full
// graph tree.
func resolveSpec(spec *Spec, injectables graph.InjectableIndex) (*graph.BindingGraph, error) {
	mods, err := buildModules(spec.Modules)
	if err != nil {
		return nil, err
	}

	rootDesc, err := buildComponent(component.Root, spec.Component, mods)
	if err != nil {
		return nil, err
	}

	root := graph.NewRoot(rootDesc, injectables)
	root.ResolveEntryPoints()
	resolveChildren(root, rootDesc)
	return root.Graph(), nil
}

func resolveChildren(r *graph.Resolver, desc *component.Descriptor) {
	for _, childDesc := range desc.Children {
		child := r.NewChild(childDesc)
		child.ResolveEntryPoints()
		resolveChildren(child, childDesc)
	}
}

// buildModules constructs every module descriptor, then wires includes by
// name in a second pass so order of declaration does not matter.
func buildModules(specs []ModuleSpec) (map[string]*moduledesc.Descriptor, error) {
	mods := map[string]*moduledesc.Descriptor{}
	for _, ms := range specs {
		if _, dup := mods[ms.Name]; dup {
			return nil, fmt.Errorf("module %q declared twice", ms.Name)
		}
		m := moduledesc.New(ms.Name, !ms.Private)
		m.RequiresInstance = ms.RequiresInstance
		m.DeclaredSubcomponents = ms.Subcomponents
		addDeclarations(m, ms)
		mods[ms.Name] = m
	}
	for _, ms := range specs {
		m := mods[ms.Name]
		for _, inc := range ms.Includes {
			target, ok := mods[inc]
			if !ok {
				return nil, fmt.Errorf("module %q includes unknown module %q", ms.Name, inc)
			}
			m.IncludedModules = append(m.IncludedModules, target)
		}
	}
	return mods, nil
}

func addDeclarations(m *moduledesc.Descriptor, ms ModuleSpec) {
	for _, p := range ms.Provides {
		kind := moduledesc.Provides
		if p.Produces {
			kind = moduledesc.Produces
		}
		m.AddDeclaration(moduledesc.Declaration{
			Kind:         kind,
			Key:          key.New(p.Type),
			Scope:        p.Scope,
			Nullable:     p.Nullable,
			Dependencies: paramRequests(ms.Name, p.Method, p.Params),
			Origin:       methodOrigin(ms.Name, p.Method, p.Params),
		})
	}
	for _, b := range ms.Binds {
		m.AddDeclaration(moduledesc.Declaration{
			Kind:         moduledesc.Binds,
			Key:          key.New(b.Type),
			Scope:        b.Scope,
			Dependencies: paramRequests(ms.Name, b.Method, []string{b.To}),
			Origin:       methodOrigin(ms.Name, b.Method, []string{b.To}),
		})
	}
	for _, s := range ms.IntoSet {
		elem := key.New(s.Type)
		tagged := elem.WithTag(key.ContributionTag{Module: ms.Name, Method: s.Method})
		m.AddDeclaration(moduledesc.Declaration{
			Kind:                moduledesc.IntoSetContribution,
			Key:                 elem.AsSet(),
			Dependencies:        []key.Request{key.NewRequest(tagged, key.Site{Element: ms.Name + "." + s.Method})},
			ElementDependencies: paramRequests(ms.Name, s.Method, s.Params),
			Origin:              methodOrigin(ms.Name, s.Method, s.Params),
		})
	}
	for _, im := range ms.IntoMap {
		elem := key.New(im.Type)
		tagged := elem.WithTag(key.ContributionTag{Module: ms.Name, Method: im.Method})
		mapKeyType := im.MapKeyType
		if mapKeyType == "" {
			mapKeyType = "String"
		}
		m.AddDeclaration(moduledesc.Declaration{
			Kind:                moduledesc.IntoMapContribution,
			Key:                 elem.AsMap(key.Box(mapKeyType), "Provider<"+elem.Type+">"),
			MapKeyLiteral:       im.Key,
			Dependencies:        []key.Request{key.NewRequest(tagged, key.Site{Element: ms.Name + "." + im.Method})},
			ElementDependencies: paramRequests(ms.Name, im.Method, im.Params),
			Origin:              methodOrigin(ms.Name, im.Method, im.Params),
		})
	}
	for _, o := range ms.Optionals {
		underlying := key.New(o.Type)
		m.AddDeclaration(moduledesc.Declaration{
			Kind:         moduledesc.BindsOptionalOf,
			Key:          key.Key{Qualifier: underlying.Qualifier, Type: "Optional<" + underlying.Type + ">"},
			Dependencies: []key.Request{key.NewRequest(underlying, key.Site{Element: ms.Name + "." + o.Method})},
			Origin:       methodOrigin(ms.Name, o.Method, []string{o.Type}),
		})
	}
}

// paramRequests parses a method's parameter list into dependency requests.
// A "provider:"/"lazy:" prefix selects the matching request kind.
func paramRequests(module, method string, params []string) []key.Request {
	out := make([]key.Request, 0, len(params))
	for _, p := range params {
		kind := key.Instance
		t := p
		switch {
		case strings.HasPrefix(p, "provider:"):
			kind, t = key.Provider, strings.TrimPrefix(p, "provider:")
		case strings.HasPrefix(p, "lazy:"):
			kind, t = key.Lazy, strings.TrimPrefix(p, "lazy:")
		}
		out = append(out, key.NewRequest(key.New(t), key.Site{Element: module + "." + method}).WithKind(kind))
	}
	return out
}

func methodOrigin(module, method string, params []string) elementid.ID {
	return elementid.New(module, elementid.Method, method+"("+strings.Join(params, ",")+")")
}

func buildComponent(kind component.Kind, cs ComponentSpec, mods map[string]*moduledesc.Descriptor) (*component.Descriptor, error) {
	seeds := make([]*moduledesc.Descriptor, 0, len(cs.Modules))
	for _, name := range cs.Modules {
		m, ok := mods[name]
		if !ok {
			return nil, fmt.Errorf("component %q installs unknown module %q", cs.Name, name)
		}
		seeds = append(seeds, m)
	}

	desc := component.New(kind, cs.Name, seeds...)
	desc.Scopes = cs.Scopes
	for _, bi := range cs.BoundInstances {
		desc.CreatorInputs = append(desc.CreatorInputs, component.CreatorInput{
			Name:            bi.Name,
			Type:            bi.Type,
			IsBoundInstance: true,
		})
	}

	for _, ep := range cs.EntryPoints {
		reqKind, err := parseRequestKind(ep.Kind)
		if err != nil {
			return nil, fmt.Errorf("entry point %q: %w", ep.Name, err)
		}
		desc.EntryPoints = append(desc.EntryPoints, component.EntryPoint{
			Name:    ep.Name,
			Request: key.NewRequest(key.New(ep.Type), key.Site{Element: cs.Name + "." + ep.Name + "()"}).WithKind(reqKind),
			Origin:  elementid.New(cs.Name, elementid.Method, ep.Name+"()"),
		})
	}

	for _, sub := range cs.Subcomponents {
		childKind := component.Subcomponent
		if kind == component.ProductionRoot || kind == component.ProductionSubcomponent {
			childKind = component.ProductionSubcomponent
		}
		child, err := buildComponent(childKind, sub, mods)
		if err != nil {
			return nil, err
		}
		desc.AddChild(child, sub.FactoryMethod)
	}
	return desc, nil
}

func parseRequestKind(s string) (key.RequestKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INSTANCE":
		return key.Instance, nil
	case "LAZY":
		return key.Lazy, nil
	case "PROVIDER":
		return key.Provider, nil
	case "PRODUCER":
		return key.Producer, nil
	case "FUTURE":
		return key.Future, nil
	default:
		return key.Instance, fmt.Errorf("unknown request kind %q", s)
	}
}
