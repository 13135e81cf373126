package validate

import (
	"testing"

	"github.com/dicore-project/dicore/internal/component"
	"github.com/dicore-project/dicore/internal/diag"
	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/dicore-project/dicore/internal/moduledesc"
	"github.com/dicore-project/dicore/internal/options"
	"github.com/stretchr/testify/require"
)

func fooKey() key.Key { return key.New("pkg.Foo") }

// TestDuplicateBindingAcrossModules: two modules both provide Foo,
// installed on the same component.
func TestDuplicateBindingAcrossModules(t *testing.T) {
	a := moduledesc.New("A", true)
	a.AddDeclaration(moduledesc.Declaration{
		Kind: moduledesc.Provides, Key: fooKey(),
		Origin: elementid.New("pkg.A", elementid.Method, "fooFromA()"),
	})
	b := moduledesc.New("B", true)
	b.AddDeclaration(moduledesc.Declaration{
		Kind: moduledesc.Provides, Key: fooKey(),
		Origin: elementid.New("pkg.B", elementid.Method, "fooFromB()"),
	})

	comp := component.New(component.Root, "C", a, b)
	comp.EntryPoints = []component.EntryPoint{
		{Name: "foo", Request: key.NewRequest(fooKey(), key.Site{Element: "C.foo()"})},
	}

	r := graph.NewRoot(comp, nil)
	r.ResolveEntryPoints()

	rep := diag.NewReporter("dicore", nil)
	ctx := NewContext(rep, options.Defaults())
	DuplicateBinding(r.Graph(), ctx)

	require.True(t, rep.HasError())
	found := false
	for _, d := range rep.Diagnostics() {
		if d.Message != "" && containsSub(d.Message, "is bound multiple times") {
			found = true
		}
	}
	require.True(t, found, "expected a duplicate-binding diagnostic, got %+v", rep.Diagnostics())
}

// TestMissingBindingReportsAtEntryPoint covers a Key with no contribution
// and no inject constructor anywhere in the chain.
func TestMissingBindingReportsAtEntryPoint(t *testing.T) {
	comp := component.New(component.Root, "C")
	comp.EntryPoints = []component.EntryPoint{
		{
			Name:    "foo",
			Request: key.NewRequest(fooKey(), key.Site{Element: "C.foo()"}),
			Origin:  elementid.New("pkg.C", elementid.Method, "foo()"),
		},
	}

	r := graph.NewRoot(comp, nil)
	r.ResolveEntryPoints()

	rep := diag.NewReporter("dicore", nil)
	ctx := NewContext(rep, options.Defaults())
	MissingBinding(r.Graph(), ctx)

	require.True(t, rep.HasError())
}

// TestDependencyCyclesAllowsProviderBreak: a Foo<->Bar cycle broken by a Provider request is not reported.
func TestDependencyCyclesAllowsProviderBreak(t *testing.T) {
	barKey := key.New("pkg.Bar")

	m := moduledesc.New("M", true)
	comp := component.New(component.Root, "C", m)
	comp.EntryPoints = []component.EntryPoint{
		{Name: "foo", Request: key.NewRequest(fooKey(), key.Site{Element: "C.foo()"}).WithKind(key.Lazy)},
	}

	injectables := cyclicInjectables{
		fooKey(): {Dependencies: []key.Request{key.NewRequest(barKey, key.Site{Element: "Foo(bar)"})}},
		barKey:   {Dependencies: []key.Request{key.NewRequest(fooKey(), key.Site{Element: "Bar(foo)"}).WithKind(key.Provider)}},
	}

	r := graph.NewRoot(comp, injectables)
	r.ResolveEntryPoints()

	rep := diag.NewReporter("dicore", nil)
	ctx := NewContext(rep, options.Defaults())
	DependencyCycles(r.Graph(), ctx)

	require.False(t, rep.HasError(), "a cycle broken by a Provider request must not be reported")
}

type cyclicInjectables map[key.Key]graph.InjectableTemplate

func (c cyclicInjectables) InjectConstructor(k key.Key) (graph.InjectableTemplate, bool) {
	t, ok := c[k]
	return t, ok
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
