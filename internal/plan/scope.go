package plan

import (
	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/graph"
)

// wrapFor selects the scope wrapper: when a binding has a
// scope, the field-creation expression is wrapped — reusable scope ->
// single-check wrapper; any other scope -> double-check wrapper;
// releasable-reference scope -> releasable-reference provider.
func wrapFor(b binding.Binding, g *graph.BindingGraph) ScopeWrap {
	if b.Scope.IsUnscoped() {
		return NoWrap
	}
	if g.ScopesNeedingReleasableRef[string(b.Scope)] {
		return ReleasableRef
	}
	if isReusableScope(string(b.Scope)) {
		return SingleCheck
	}
	return DoubleCheck
}

// reusableScopes names scopes this core treats as "reusable" (single-check
// suffices: a stale read under a race is acceptable because recomputation
// is idempotent and cheap), mirroring the host framework's @Reusable
// marker. Anything not in this set gets the conservative double-check
// wrapper.
var reusableScopes = map[string]bool{
	"Reusable": true,
}

func isReusableScope(scope string) bool { return reusableScopes[scope] }
