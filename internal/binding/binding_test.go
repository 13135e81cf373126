package binding

import (
	"testing"

	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/key"
	"github.com/stretchr/testify/require"
)

func TestDependencyKeysPreservesOrder(t *testing.T) {
	origin := elementid.New("pkg.Foo", elementid.Constructor, "Foo(Bar,Baz)")
	b := New(Injection, key.New("pkg.Foo"), origin).WithDependencies(
		key.NewRequest(key.New("pkg.Bar"), key.Site{Element: "bar"}),
		key.NewRequest(key.New("pkg.Baz"), key.Site{Element: "baz"}),
	)

	got := b.DependencyKeys()
	require.Equal(t, []key.Key{key.New("pkg.Bar"), key.New("pkg.Baz")}, got)
}

func TestWithScopeDoesNotMutateOriginal(t *testing.T) {
	origin := elementid.New("pkg.Foo", elementid.Constructor, "Foo()")
	b := New(Injection, key.New("pkg.Foo"), origin)
	scoped := b.WithScope("Singleton")

	require.Equal(t, Scope(""), b.Scope, "original binding must stay unscoped")
	require.Equal(t, Scope("Singleton"), scoped.Scope)
}

func TestKindIsMultibound(t *testing.T) {
	require.True(t, MultiboundSet.IsMultibound())
	require.True(t, MultiboundMap.IsMultibound())
	require.False(t, Injection.IsMultibound())
	require.False(t, Optional.IsMultibound())
}
