package runtime_test

import (
	"testing"

	"github.com/dicore-project/dicore/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBuilderAggregatesInOrder(t *testing.T) {
	t.Parallel()

	set := runtime.NewSetBuilder[string](2, 1).
		AddProvider(runtime.InstanceProvider("a")).
		AddProvider(runtime.InstanceProvider("b")).
		AddCollectionProvider(runtime.InstanceProvider([]string{"c", "d"})).
		Build()

	assert.Equal(t, []string{"a", "b", "c", "d"}, set.Get())
}

func TestSetBuilderRecomputesEachGet(t *testing.T) {
	t.Parallel()

	calls := 0
	set := runtime.NewSetBuilder[int](1, 0).
		AddProvider(runtime.ProviderFunc[int](func() int { calls++; return calls })).
		Build()

	require.Equal(t, []int{1}, set.Get())
	require.Equal(t, []int{2}, set.Get())
}

func TestEmptySet(t *testing.T) {
	t.Parallel()

	assert.Empty(t, runtime.EmptySet[int]().Get())
}

func TestMapBuilderAggregates(t *testing.T) {
	t.Parallel()

	m := runtime.NewMapBuilder[string, int](2).
		Put("one", runtime.InstanceProvider(1)).
		Put("two", runtime.InstanceProvider(2)).
		Build()

	assert.Equal(t, map[string]int{"one": 1, "two": 2}, m.Get())
}

func TestMapBuilderDuplicateKeyPanicsAtBuild(t *testing.T) {
	t.Parallel()

	b := runtime.NewMapBuilder[string, int](2).
		Put("k", runtime.InstanceProvider(1)).
		Put("k", runtime.InstanceProvider(2))

	assert.PanicsWithValue(t, runtime.DuplicateMapKeyError{Key: "k"}, func() { b.Build() })
}

func TestEmptyMap(t *testing.T) {
	t.Parallel()

	assert.Empty(t, runtime.EmptyMap[string, int]().Get())
}

func TestOptionalSomeNone(t *testing.T) {
	t.Parallel()

	some := runtime.Some("x")
	v, ok := some.Get()
	require.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, "x", some.OrElse("y"))

	none := runtime.None[string]()
	_, ok = none.Get()
	require.False(t, ok)
	assert.Equal(t, "y", none.OrElse("y"))
	assert.False(t, none.IsPresent())
}

func TestMembersInjectorFunc(t *testing.T) {
	t.Parallel()

	type target struct{ n int }
	inj := runtime.MembersInjectorFunc[target](func(tg *target) { tg.n = 9 })

	var tg target
	inj.InjectMembers(&tg)
	assert.Equal(t, 9, tg.n)

	runtime.NoOpMembersInjector[target]().InjectMembers(&tg)
	assert.Equal(t, 9, tg.n)
}
