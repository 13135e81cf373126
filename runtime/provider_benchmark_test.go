package runtime_test

import (
	"testing"

	"github.com/dicore-project/dicore/runtime"
)

// The memoized Get paths sit on every generated call site, so their
// steady-state cost matters more than their first-call cost.

func BenchmarkProviderFuncGet(b *testing.B) {
	p := runtime.ProviderFunc[int](func() int { return 1 })
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = p.Get()
	}
}

func BenchmarkDoubleCheckGetWarm(b *testing.B) {
	d := runtime.NewDoubleCheck(runtime.InstanceProvider(1))
	_ = d.Get()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = d.Get()
	}
}

func BenchmarkSingleCheckGetWarm(b *testing.B) {
	s := runtime.NewSingleCheck(runtime.InstanceProvider(1))
	_ = s.Get()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Get()
	}
}

func BenchmarkLazyGetWarm(b *testing.B) {
	l := runtime.NewLazy(runtime.InstanceProvider(1))
	_ = l.Get()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = l.Get()
	}
}
