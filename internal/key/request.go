package key

// RequestKind is the way a dependency site asks for a Key's value. The
// planner (internal/plan) converts between framework-wrapped and unwrapped
// forms depending on the kind.
type RequestKind int

const (
	// Instance requests the value directly.
	Instance RequestKind = iota
	// Lazy requests a memoizing handle; evaluation is deferred to first Get.
	Lazy
	// Provider requests a factory handle; each Get may produce a new value
	// unless the underlying binding is scoped.
	Provider
	// Producer requests an asynchronous handle (a future-producing factory).
	Producer
	// Produced requests the already-in-flight asynchronous value.
	Produced
	// Future requests a directly awaitable asynchronous value.
	Future
	// MembersInjector requests a helper that injects the members of an
	// existing instance rather than constructing a new one.
	MembersInjector
)

func (k RequestKind) String() string {
	switch k {
	case Instance:
		return "INSTANCE"
	case Lazy:
		return "LAZY"
	case Provider:
		return "PROVIDER"
	case Producer:
		return "PRODUCER"
	case Produced:
		return "PRODUCED"
	case Future:
		return "FUTURE"
	case MembersInjector:
		return "MEMBERS_INJECTOR"
	default:
		return "UNKNOWN"
	}
}

// Defers reports whether this request kind defers evaluation of its target,
// which is what legitimizes an otherwise-illegal dependency cycle.
func (k RequestKind) Defers() bool {
	switch k {
	case Lazy, Provider, Producer, Future:
		return true
	default:
		return false
	}
}

// Site identifies where a Request originates, for diagnostics only. It is a
// thin, display-oriented handle — never used for equality or hashing.
type Site struct {
	// Element is a human-readable description of the requesting element,
	// e.g. "pkg.Foo(bar Bar)" or "pkg.Module.provideFoo(bar Bar)".
	Element string
}

// Request is a single site requesting a Key, tagged with the kind of
// reference it needs.
type Request struct {
	Key  Key
	Kind RequestKind
	Site Site
	// Nullable records whether the requesting site declared itself tolerant
	// of a nil/absent value.
	Nullable bool
}

// NewRequest builds an instance-kind Request for k.
func NewRequest(k Key, site Site) Request { return Request{Key: k, Kind: Instance, Site: site} }

// WithKind returns a copy of r tagged with the given RequestKind.
func (r Request) WithKind(kind RequestKind) Request {
	r.Kind = kind
	return r
}
