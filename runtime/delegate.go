package runtime

import "errors"

var (
	// ErrDelegateUnset is the panic value when Get is called on a
	// DelegateFactory before SetDelegate. Generated initialization order
	// guarantees this never happens; hitting it means the generator emitted
	// an unsound initialize sequence.
	ErrDelegateUnset = errors.New("runtime: delegate provider not set")

	// ErrDelegateAlreadySet is returned when SetDelegate is called twice.
	ErrDelegateAlreadySet = errors.New("runtime: delegate provider already set")

	// ErrNilDelegate is returned when SetDelegate is called with nil.
	ErrNilDelegate = errors.New("runtime: nil delegate provider")
)

// DelegateFactory breaks initialization-order cycles in generated
// components.
//
// When field X's initializer transitively refers to field Y and Y's refers
// back to X, the component assigns X a fresh DelegateFactory first,
// initializes Y against it, then installs X's real provider via SetDelegate.
// After SetDelegate, Get forwards to the real provider.
type DelegateFactory[T any] struct {
	delegate Provider[T]
}

// NewDelegateFactory returns an empty DelegateFactory.
func NewDelegateFactory[T any]() *DelegateFactory[T] {
	return &DelegateFactory[T]{}
}

// SetDelegate installs the real provider. It may be called exactly once.
func (d *DelegateFactory[T]) SetDelegate(p Provider[T]) error {
	if p == nil {
		return ErrNilDelegate
	}
	if d.delegate != nil {
		return ErrDelegateAlreadySet
	}
	d.delegate = p
	return nil
}

// MustSetDelegate installs the real provider and panics on misuse.
//
// Generated code uses this form: a failure here is a generator bug, not a
// recoverable user condition.
func (d *DelegateFactory[T]) MustSetDelegate(p Provider[T]) {
	if err := d.SetDelegate(p); err != nil {
		panic(err)
	}
}

// Get forwards to the installed provider.
func (d *DelegateFactory[T]) Get() T {
	if d.delegate == nil {
		panic(ErrDelegateUnset)
	}
	return d.delegate.Get()
}
