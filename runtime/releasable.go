package runtime

import (
	"sync"

	"go.uber.org/atomic"
)

// ReleasableReferenceManager is the per-scope handle a generated component
// holds for a releasable-reference scope: Release clears every cached value
// wrapped through this manager, forcing recomputation on the next Get.
type ReleasableReferenceManager struct {
	epoch atomic.Int64
}

// NewReleasableReferenceManager constructs a manager with nothing released.
func NewReleasableReferenceManager() *ReleasableReferenceManager {
	return &ReleasableReferenceManager{}
}

// Release invalidates every value cached under this manager.
func (m *ReleasableReferenceManager) Release() {
	m.epoch.Inc()
}

type releasable[T any] struct {
	mgr      *ReleasableReferenceManager
	provider Provider[T]

	mu     sync.Mutex
	cached T
	have   bool
	at     int64
}

// NewReleasable wraps provider so its memoized value lives until mgr's next
// Release.
func NewReleasable[T any](mgr *ReleasableReferenceManager, provider Provider[T]) Provider[T] {
	return &releasable[T]{mgr: mgr, provider: provider}
}

// Get returns the cached value for the current epoch, recomputing after a
// Release.
func (r *releasable[T]) Get() T {
	now := r.mgr.epoch.Load()
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.have || r.at != now {
		r.cached = r.provider.Get()
		r.have = true
		r.at = now
	}
	return r.cached
}
