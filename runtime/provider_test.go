package runtime_test

import (
	"sync"
	"testing"

	"github.com/dicore-project/dicore/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingProvider(calls *int) runtime.Provider[int] {
	return runtime.ProviderFunc[int](func() int {
		*calls++
		return *calls
	})
}

func TestProviderFuncGet(t *testing.T) {
	t.Parallel()

	p := runtime.ProviderFunc[string](func() string { return "v" })
	assert.Equal(t, "v", p.Get())
}

func TestInstanceProviderAlwaysSameValue(t *testing.T) {
	t.Parallel()

	p := runtime.InstanceProvider(42)
	assert.Equal(t, 42, p.Get())
	assert.Equal(t, 42, p.Get())
}

func TestLazyMemoizesFirstGet(t *testing.T) {
	t.Parallel()

	calls := 0
	l := runtime.NewLazy(countingProvider(&calls))

	require.Equal(t, 1, l.Get())
	require.Equal(t, 1, l.Get())
	assert.Equal(t, 1, calls)
}

func TestDoubleCheckSingleComputationUnderConcurrency(t *testing.T) {
	t.Parallel()

	calls := 0
	var mu sync.Mutex
	d := runtime.NewDoubleCheck(runtime.ProviderFunc[int](func() int {
		mu.Lock()
		calls++
		mu.Unlock()
		return 7
	}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 7, d.Get())
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
}

func TestSingleCheckMemoizes(t *testing.T) {
	t.Parallel()

	calls := 0
	s := runtime.NewSingleCheck(countingProvider(&calls))

	require.Equal(t, 1, s.Get())
	require.Equal(t, 1, s.Get())
	assert.Equal(t, 1, calls)
}
