package runtime

import "strconv"

// DuplicateMapKeyError is returned when two map-multibinding contributions
// carry the same map key. The generator validates this statically; the
// builder re-checks so hand-wired tests fail loudly too.
type DuplicateMapKeyError struct{ Key string }

// Error implements the error interface.
func (e DuplicateMapKeyError) Error() string {
	// Example: runtime: duplicate map key "primary"
	return "runtime: duplicate map key " + strconv.Quote(e.Key)
}

// SetBuilder accumulates the contributions of a set multibinding and builds
// a Provider for the aggregate slice.
//
// Generated code sizes the builder up front:
//
//	runtime.NewSetBuilder[Plugin](2, 0).
//		AddProvider(m1Provider).
//		AddProvider(m2Provider).
//		Build()
type SetBuilder[T any] struct {
	individual []Provider[T]
	collection []Provider[[]T]
}

// NewSetBuilder constructs a SetBuilder with capacity hints for individual
// and collection contributions.
func NewSetBuilder[T any](individual, collection int) *SetBuilder[T] {
	return &SetBuilder[T]{
		individual: make([]Provider[T], 0, individual),
		collection: make([]Provider[[]T], 0, collection),
	}
}

// AddProvider appends one individual contribution.
func (b *SetBuilder[T]) AddProvider(p Provider[T]) *SetBuilder[T] {
	b.individual = append(b.individual, p)
	return b
}

// AddCollectionProvider appends an elements-into-set contribution whose
// provider yields several elements at once.
func (b *SetBuilder[T]) AddCollectionProvider(p Provider[[]T]) *SetBuilder[T] {
	b.collection = append(b.collection, p)
	return b
}

// Build returns a Provider producing the aggregated slice. Each Get
// re-invokes every contribution, preserving contribution order.
func (b *SetBuilder[T]) Build() Provider[[]T] {
	individual := b.individual
	collection := b.collection
	return ProviderFunc[[]T](func() []T {
		out := make([]T, 0, len(individual))
		for _, p := range individual {
			out = append(out, p.Get())
		}
		for _, p := range collection {
			out = append(out, p.Get()...)
		}
		return out
	})
}

// EmptySet returns a Provider for a set multibinding with no contributions.
func EmptySet[T any]() Provider[[]T] {
	return ProviderFunc[[]T](func() []T { return []T{} })
}

// MapBuilder accumulates the contributions of a map multibinding and builds
// a Provider for the aggregate map.
//
// Keys are checked for duplicates at Put time; Build panics if a duplicate
// slipped through, mirroring the generator's static map-key check.
type MapBuilder[K comparable, V any] struct {
	keys []K
	vals []Provider[V]
	seen map[K]bool
	dup  *K
}

// NewMapBuilder constructs a MapBuilder with a capacity hint.
func NewMapBuilder[K comparable, V any](size int) *MapBuilder[K, V] {
	return &MapBuilder[K, V]{
		keys: make([]K, 0, size),
		vals: make([]Provider[V], 0, size),
		seen: make(map[K]bool, size),
	}
}

// Put records one (key, value-provider) contribution.
func (b *MapBuilder[K, V]) Put(k K, p Provider[V]) *MapBuilder[K, V] {
	if b.seen[k] {
		if b.dup == nil {
			dup := k
			b.dup = &dup
		}
		return b
	}
	b.seen[k] = true
	b.keys = append(b.keys, k)
	b.vals = append(b.vals, p)
	return b
}

// Build returns a Provider producing the aggregated map. Each Get re-invokes
// every contribution.
func (b *MapBuilder[K, V]) Build() Provider[map[K]V] {
	if b.dup != nil {
		panic(DuplicateMapKeyError{Key: keyString(*b.dup)})
	}
	keys := b.keys
	vals := b.vals
	return ProviderFunc[map[K]V](func() map[K]V {
		out := make(map[K]V, len(keys))
		for i, k := range keys {
			out[k] = vals[i].Get()
		}
		return out
	})
}

// EmptyMap returns a Provider for a map multibinding with no contributions.
func EmptyMap[K comparable, V any]() Provider[map[K]V] {
	return ProviderFunc[map[K]V](func() map[K]V { return map[K]V{} })
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return "non-string map key"
}
