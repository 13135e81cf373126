package codegen

import (
	"strings"
	"testing"

	"github.com/dicore-project/dicore/internal/component"
	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/moduledesc"
	"github.com/dicore-project/dicore/internal/options"
	"github.com/dicore-project/dicore/internal/plan"
	"github.com/stretchr/testify/require"
)

func fooKey() key.Key { return key.New("pkg.Foo") }
func barKey() key.Key { return key.New("pkg.Bar") }

type fakeInjectables map[key.Key]graph.InjectableTemplate

func (f fakeInjectables) InjectConstructor(k key.Key) (graph.InjectableTemplate, bool) {
	t, ok := f[k]
	return t, ok
}

func plansFor(g *graph.BindingGraph, opts options.Options) map[string]*plan.Plan {
	plans := map[string]*plan.Plan{}
	var walk func(gr *graph.BindingGraph)
	walk = func(gr *graph.BindingGraph) {
		plans[gr.Component.Name] = plan.Build(gr, opts)
		for _, child := range gr.Children {
			walk(child)
		}
	}
	walk(g)
	return plans
}

// provisionGraph builds the baseline shape: module M provides Foo from Bar,
// Bar has an inject constructor, component C exposes foo().
func provisionGraph(scope string) *graph.BindingGraph {
	m := moduledesc.New("M", true)
	m.RequiresInstance = true
	m.AddDeclaration(moduledesc.Declaration{
		Kind:  moduledesc.Provides,
		Key:   fooKey(),
		Scope: scope,
		Dependencies: []key.Request{
			key.NewRequest(barKey(), key.Site{Element: "fooFromM(bar)"}),
		},
		Origin: elementid.New("pkg.M", elementid.Method, "fooFromM(pkg.Bar)"),
	})

	comp := component.New(component.Root, "C", m)
	if scope != "" {
		comp.Scopes = []string{scope}
	}
	comp.EntryPoints = []component.EntryPoint{
		{Name: "foo", Request: key.NewRequest(fooKey(), key.Site{Element: "C.foo()"})},
	}

	r := graph.NewRoot(comp, fakeInjectables{
		barKey(): {Origin: elementid.New("pkg.Bar", elementid.Constructor, "Bar()")},
	})
	r.ResolveEntryPoints()
	return r.Graph()
}

func TestGeneratedComponentBasic(t *testing.T) {
	g := provisionGraph("")
	opts := options.Defaults()

	sink := MemSink{}
	w := NewWriter("pkg", "Dicore", opts)
	require.NoError(t, w.Write(g, plansFor(g, opts), sink))

	src := string(sink["dicorec.gen.go"])
	require.Contains(t, src, "type DicoreC struct")
	require.Contains(t, src, "fooProvider runtime.Provider[pkg.Foo]")
	require.Contains(t, src, "func (c *DicoreC) Foo() pkg.Foo")
	require.Contains(t, src, "return c.fooProvider.Get()")

	// Exactly one initialize method; the provider assignment lives there.
	require.Equal(t, 1, strings.Count(src, "func (c *DicoreC) initialize"))
	require.Contains(t, src, "c.fooProvider = NewM_FooFromMFactory(c.mModule")

	// One factory per provision/injection binding.
	require.Contains(t, sink, "m_foofrommfactory.gen.go")
	require.Contains(t, sink, "bar_factory.gen.go")
	require.Contains(t, string(sink["bar_factory.gen.go"]), "func Bar_Factory_Create() pkg.Bar")
}

func TestScopedBindingWrappedInDoubleCheck(t *testing.T) {
	g := provisionGraph("Singleton")
	opts := options.Defaults()

	sink := MemSink{}
	w := NewWriter("pkg", "Dicore", opts)
	require.NoError(t, w.Write(g, plansFor(g, opts), sink))

	src := string(sink["dicorec.gen.go"])
	require.Contains(t, src, "c.fooProvider = runtime.NewDoubleCheck(NewM_FooFromMFactory(")
	require.Contains(t, src, "func (c *DicoreC) Foo() pkg.Foo")
	require.Contains(t, src, "return c.fooProvider.Get()")
}

// TestCyclicInitializationUsesDelegate: the delegate is created first, the
// other cycle member initializes against it, then the real factory is
// installed.
func TestCyclicInitializationUsesDelegate(t *testing.T) {
	comp := component.New(component.Root, "C", moduledesc.New("M", true))
	comp.EntryPoints = []component.EntryPoint{
		{Name: "foo", Request: key.NewRequest(fooKey(), key.Site{}).WithKind(key.Lazy)},
	}
	r := graph.NewRoot(comp, fakeInjectables{
		fooKey(): {Dependencies: []key.Request{key.NewRequest(barKey(), key.Site{})}},
		barKey(): {Dependencies: []key.Request{key.NewRequest(fooKey(), key.Site{}).WithKind(key.Provider)}},
	})
	r.ResolveEntryPoints()
	g := r.Graph()
	opts := options.Defaults()

	sink := MemSink{}
	w := NewWriter("pkg", "Dicore", opts)
	require.NoError(t, w.Write(g, plansFor(g, opts), sink))

	src := string(sink["dicorec.gen.go"])
	delegateAt := strings.Index(src, "c.fooProvider = runtime.NewDelegateFactory[pkg.Foo]()")
	barAt := strings.Index(src, "c.barProvider = NewBar_Factory(c.fooProvider)")
	realAt := strings.Index(src, "c.fooProvider.(*runtime.DelegateFactory[pkg.Foo]).MustSetDelegate(NewFoo_Factory(c.barProvider))")
	require.True(t, delegateAt >= 0, "delegate creation missing:\n%s", src)
	require.True(t, barAt > delegateAt, "bar must initialize after the delegate:\n%s", src)
	require.True(t, realAt > barAt, "real factory must install after bar:\n%s", src)

	require.Contains(t, src, "func (c *DicoreC) Foo() *runtime.Lazy[pkg.Foo]")
}

// TestSetMultibinding: two modules contribute to Set<Plugin>; the component
// composes a sized builder over both.
func TestSetMultibinding(t *testing.T) {
	pluginKey := key.New("pkg.Plugin")
	setKey := pluginKey.AsSet()

	m1 := moduledesc.New("M1", true)
	m1.AddDeclaration(moduledesc.Declaration{
		Kind:         moduledesc.IntoSetContribution,
		Key:          setKey,
		Dependencies: []key.Request{key.NewRequest(pluginKey.WithTag(key.ContributionTag{Module: "M1", Method: "p1"}), key.Site{})},
		Origin:       elementid.New("pkg.M1", elementid.Method, "p1()"),
	})
	m2 := moduledesc.New("M2", true)
	m2.AddDeclaration(moduledesc.Declaration{
		Kind:         moduledesc.IntoSetContribution,
		Key:          setKey,
		Dependencies: []key.Request{key.NewRequest(pluginKey.WithTag(key.ContributionTag{Module: "M2", Method: "p2"}), key.Site{})},
		Origin:       elementid.New("pkg.M2", elementid.Method, "p2()"),
	})

	comp := component.New(component.Root, "C", m1, m2)
	comp.EntryPoints = []component.EntryPoint{
		{Name: "plugins", Request: key.NewRequest(setKey, key.Site{})},
	}
	r := graph.NewRoot(comp, fakeInjectables{})
	r.ResolveEntryPoints()
	g := r.Graph()
	opts := options.Defaults()

	sink := MemSink{}
	w := NewWriter("pkg", "Dicore", opts)
	require.NoError(t, w.Write(g, plansFor(g, opts), sink))

	src := string(sink["dicorec.gen.go"])
	require.Contains(t, src, "func (c *DicoreC) Plugins() []pkg.Plugin")
	require.Contains(t, src, "runtime.NewSetBuilder[pkg.Plugin](2, 0)")
	require.Contains(t, src, "AddProvider(runtime.ProviderFunc[pkg.Plugin](M1_P1Factory_Create))")
	require.Contains(t, src, "AddProvider(runtime.ProviderFunc[pkg.Plugin](M2_P2Factory_Create))")
}

func TestWriterIsOneShot(t *testing.T) {
	g := provisionGraph("")
	opts := options.Defaults()
	plans := plansFor(g, opts)

	w := NewWriter("pkg", "Dicore", opts)
	require.NoError(t, w.Write(g, plans, MemSink{}))
	require.ErrorIs(t, w.Write(g, plans, MemSink{}), ErrAlreadyEmitted)
}

func TestHeaderCompilationSuppressesBodies(t *testing.T) {
	g := provisionGraph("")
	opts := options.Defaults()
	opts.HeaderCompilation = true

	sink := MemSink{}
	w := NewWriter("pkg", "Dicore", opts)
	require.NoError(t, w.Write(g, plansFor(g, opts), sink))

	src := string(sink["dicorec.gen.go"])
	require.Contains(t, src, "func (c *DicoreC) Foo() pkg.Foo")
	require.Contains(t, src, `panic("dicore: header compilation")`)
	require.NotContains(t, src, "return c.fooProvider.Get()")
}

func TestFastInitUsesSwitchingProvider(t *testing.T) {
	g := provisionGraph("Singleton")
	opts := options.Defaults()
	opts.FastInit = true

	sink := MemSink{}
	w := NewWriter("pkg", "Dicore", opts)
	require.NoError(t, w.Write(g, plansFor(g, opts), sink))

	src := string(sink["dicorec.gen.go"])
	require.Contains(t, src, "func (c *DicoreC) switchProvider(id int) any")
	require.Contains(t, src, "case 0:")
	require.Contains(t, src, "c.switchProvider(0).(pkg.Foo)")
}

func TestOptionsStampRoundTrip(t *testing.T) {
	opts := options.Defaults()
	opts.FastInit = true
	opts.NullableValidation = options.SeverityError

	g := provisionGraph("")
	sink := MemSink{}
	w := NewWriter("pkg", "Dicore", opts)
	require.NoError(t, w.Write(g, plansFor(g, opts), sink))

	got, ok, err := DecodeOptions(sink["dicorec.gen.go"])
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, opts, got)
}

func TestDecodeOptionsWithoutStamp(t *testing.T) {
	got, ok, err := DecodeOptions([]byte("package pkg\n"))
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, options.Defaults(), got)
}
