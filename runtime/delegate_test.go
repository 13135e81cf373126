package runtime_test

import (
	"testing"

	"github.com/dicore-project/dicore/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelegateForwardsAfterSet(t *testing.T) {
	t.Parallel()

	d := runtime.NewDelegateFactory[int]()
	require.NoError(t, d.SetDelegate(runtime.InstanceProvider(5)))
	assert.Equal(t, 5, d.Get())
}

func TestDelegateGetBeforeSetPanics(t *testing.T) {
	t.Parallel()

	d := runtime.NewDelegateFactory[int]()
	assert.PanicsWithValue(t, runtime.ErrDelegateUnset, func() { d.Get() })
}

func TestDelegateSetTwiceFails(t *testing.T) {
	t.Parallel()

	d := runtime.NewDelegateFactory[int]()
	require.NoError(t, d.SetDelegate(runtime.InstanceProvider(1)))

	err := d.SetDelegate(runtime.InstanceProvider(2))
	require.ErrorIs(t, err, runtime.ErrDelegateAlreadySet)
	assert.Equal(t, 1, d.Get(), "first delegate must survive the rejected second set")
}

func TestDelegateSetNilFails(t *testing.T) {
	t.Parallel()

	d := runtime.NewDelegateFactory[int]()
	require.ErrorIs(t, d.SetDelegate(nil), runtime.ErrNilDelegate)
}

func TestDelegateBreaksCycle(t *testing.T) {
	t.Parallel()

	// The generated pattern: foo's provider is delegated, bar captures the
	// delegate, then foo's real provider (which reads bar) replaces it.
	fooDelegate := runtime.NewDelegateFactory[int]()
	bar := runtime.NewLazy[int](runtime.ProviderFunc[int](func() int { return fooDelegate.Get() + 1 }))
	fooDelegate.MustSetDelegate(runtime.InstanceProvider(10))

	assert.Equal(t, 11, bar.Get())
}
