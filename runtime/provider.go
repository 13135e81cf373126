// Package runtime provides the small support types generated components
// reference by name: providers, lazy handles, scope wrappers, the
// cycle-breaking delegate factory, and set/map multibinding builders.
//
// Design goals:
//   - Lightweight: small API surface, no container graph, no reflection.
//   - Explicit wiring: generated code composes these types intentionally;
//     nothing here discovers or resolves anything on its own.
//   - Safe defaults: delegate misuse and duplicate builder keys surface as
//     typed errors or early panics rather than silent misbehavior.
//   - Test-friendly: every type is constructible by hand in unit tests.
//
// Notes on performance:
//   - The memoized Get paths are dominated by one atomic load.
//   - Error paths avoid fmt.Errorf to keep failure handling inexpensive.
package runtime

import (
	"sync"

	"go.uber.org/atomic"
)

// Provider produces a value of type T on demand.
//
// Each Get may produce a new value unless the provider is wrapped in a scope
// wrapper (DoubleCheck, SingleCheck) that memoizes the first result.
type Provider[T any] interface {
	Get() T
}

// ProviderFunc adapts a plain function into a Provider.
type ProviderFunc[T any] func() T

// Get implements Provider.
func (f ProviderFunc[T]) Get() T { return f() }

// InstanceProvider returns a Provider that always yields val.
//
// Generated components use it for bound instances and component fields.
func InstanceProvider[T any](val T) Provider[T] {
	return ProviderFunc[T](func() T { return val })
}

// Lazy defers computation of a value to the first Get and memoizes it.
//
// Lazy is safe for concurrent use; concurrent first calls race on the
// sync.Once and all observe the same value.
type Lazy[T any] struct {
	once     sync.Once
	provider Provider[T]
	val      T
}

// NewLazy wraps provider in a Lazy handle.
func NewLazy[T any](provider Provider[T]) *Lazy[T] {
	return &Lazy[T]{provider: provider}
}

// Get returns the memoized value, computing it on the first call.
func (l *Lazy[T]) Get() T {
	l.once.Do(func() {
		l.val = l.provider.Get()
		l.provider = nil
	})
	return l.val
}

// DoubleCheck memoizes a provider with double-checked locking.
//
// It is the wrapper generated for any scope that is not explicitly marked
// reusable: exactly one underlying Get happens even under concurrent use.
type DoubleCheck[T any] struct {
	mu       sync.Mutex
	done     atomic.Bool
	provider Provider[T]
	val      T
}

// NewDoubleCheck wraps provider in a DoubleCheck memoizer.
func NewDoubleCheck[T any](provider Provider[T]) *DoubleCheck[T] {
	return &DoubleCheck[T]{provider: provider}
}

// Get returns the memoized value, computing it under the lock on first use.
func (d *DoubleCheck[T]) Get() T {
	if !d.done.Load() {
		d.mu.Lock()
		if !d.done.Load() {
			d.val = d.provider.Get()
			d.provider = nil
			d.done.Store(true)
		}
		d.mu.Unlock()
	}
	return d.val
}

// SingleCheck memoizes a provider without locking.
//
// It is the wrapper generated for reusable scopes: under a race two callers
// may both invoke the underlying provider, and one result is discarded. The
// contract of a reusable scope is that recomputation is idempotent and
// cheap, so the stale read is acceptable.
type SingleCheck[T any] struct {
	done     atomic.Bool
	provider Provider[T]
	val      T
}

// NewSingleCheck wraps provider in a SingleCheck memoizer.
func NewSingleCheck[T any](provider Provider[T]) *SingleCheck[T] {
	return &SingleCheck[T]{provider: provider}
}

// Get returns the memoized value, computing it on first use without a lock.
func (s *SingleCheck[T]) Get() T {
	if !s.done.Load() {
		s.val = s.provider.Get()
		s.done.Store(true)
	}
	return s.val
}
