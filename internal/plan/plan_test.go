package plan

import (
	"testing"

	"github.com/dicore-project/dicore/internal/component"
	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/moduledesc"
	"github.com/dicore-project/dicore/internal/options"
	"github.com/stretchr/testify/require"
)

func barKey() key.Key { return key.New("pkg.Bar") }
func fooKey() key.Key { return key.New("pkg.Foo") }

type fakeInjectables struct {
	table map[key.Key]graph.InjectableTemplate
}

func (f fakeInjectables) InjectConstructor(k key.Key) (graph.InjectableTemplate, bool) {
	t, ok := f.table[k]
	return t, ok
}

// TestStaticAndFrameworkInstance: bar is a no-dependency injection served
// statically; foo gets a provider field.
func TestStaticAndFrameworkInstance(t *testing.T) {
	m := moduledesc.New("M", true)
	m.AddDeclaration(moduledesc.Declaration{
		Kind: moduledesc.Provides,
		Key:  fooKey(),
		Dependencies: []key.Request{
			key.NewRequest(barKey(), key.Site{Element: "fooFromM(bar)"}),
		},
		Origin: elementid.New("pkg.M", elementid.Method, "fooFromM(pkg.Bar)"),
	})

	comp := component.New(component.Root, "C", m)
	comp.EntryPoints = []component.EntryPoint{
		{Name: "foo", Request: key.NewRequest(fooKey(), key.Site{Element: "C.foo()"})},
	}

	injectables := fakeInjectables{table: map[key.Key]graph.InjectableTemplate{
		barKey(): {},
	}}

	r := graph.NewRoot(comp, injectables)
	r.ResolveEntryPoints()

	p := Build(r.Graph(), options.Defaults())

	require.Equal(t, []key.Key{barKey(), fooKey()}, p.Order)

	barExpr := p.Expressions[barKey()]
	require.Equal(t, StaticMethod, barExpr.Strategy, "no-dep, unscoped injection must be static")

	fooExpr := p.Expressions[fooKey()]
	require.Equal(t, FrameworkInstanceExpr, fooExpr.Strategy, "fooFromM has a dependency: no fast-init, wrap in a field")
	require.NotEmpty(t, fooExpr.FieldName)
}

// TestScopedBindingUsesDoubleCheck: Foo has scope S which C declares — a non-reusable scope, so double-check wrap.
func TestScopedBindingUsesDoubleCheck(t *testing.T) {
	m := moduledesc.New("M", true)
	m.AddDeclaration(moduledesc.Declaration{
		Kind: moduledesc.Provides, Key: fooKey(), Scope: "Singleton",
		Dependencies: []key.Request{key.NewRequest(barKey(), key.Site{})},
		Origin:       elementid.New("pkg.M", elementid.Method, "fooFromM(pkg.Bar)"),
	})
	comp := component.New(component.Root, "C", m)
	comp.Scopes = []string{"Singleton"}
	comp.EntryPoints = []component.EntryPoint{
		{Name: "foo", Request: key.NewRequest(fooKey(), key.Site{})},
	}

	r := graph.NewRoot(comp, fakeInjectables{table: map[key.Key]graph.InjectableTemplate{barKey(): {}}})
	r.ResolveEntryPoints()

	p := Build(r.Graph(), options.Defaults())
	fooExpr := p.Expressions[fooKey()]
	require.Equal(t, FrameworkInstanceExpr, fooExpr.Strategy)
	require.Equal(t, DoubleCheck, fooExpr.Wrap)
}

// TestCyclicInitializationMarksDelegated: a Foo<->Bar cycle where Bar
// requests Provider<Foo>; Foo must be delegated.
func TestCyclicInitializationMarksDelegated(t *testing.T) {
	m := moduledesc.New("M", true)
	comp := component.New(component.Root, "C", m)
	comp.EntryPoints = []component.EntryPoint{
		{Name: "foo", Request: key.NewRequest(fooKey(), key.Site{}).WithKind(key.Lazy)},
	}

	injectables := fakeInjectables{table: map[key.Key]graph.InjectableTemplate{
		fooKey(): {Dependencies: []key.Request{key.NewRequest(barKey(), key.Site{})}},
		barKey():  {Dependencies: []key.Request{key.NewRequest(fooKey(), key.Site{}).WithKind(key.Provider)}},
	}}

	r := graph.NewRoot(comp, injectables)
	r.ResolveEntryPoints()

	p := Build(r.Graph(), options.Defaults())

	fooExpr := p.Expressions[fooKey()]
	barExpr := p.Expressions[barKey()]
	require.Equal(t, Delegated, fooExpr.State, "the first field in init order along the cycle must be DELEGATED")
	require.Equal(t, Initialized, barExpr.State)
}

func TestUniqueNamesSuffixesCollisions(t *testing.T) {
	n := NewUniqueNames()
	require.Equal(t, "fooProvider", n.Reserve("fooProvider"))
	require.Equal(t, "fooProvider2", n.Reserve("fooProvider"))
	require.Equal(t, "fooProvider3", n.Reserve("fooProvider"))
}
