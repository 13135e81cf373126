package plan

import "github.com/dicore-project/dicore/internal/key"

// InitState is the field-initialization state machine: states transition
// monotonically Uninitialized -> Initializing -> Delegated -> Initialized
// (Delegated is skipped when no cycle forces it).
type InitState int

const (
	Uninitialized InitState = iota
	Initializing
	Delegated
	Initialized
)

func (s InitState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Delegated:
		return "delegated"
	case Initialized:
		return "initialized"
	default:
		return "unknown"
	}
}

// StepKind discriminates the three statement shapes a field initialization
// can take in the generated initialize methods.
type StepKind int

const (
	// StepInit assigns the field its real factory in one statement.
	StepInit StepKind = iota
	// StepCreateDelegate assigns the field a fresh delegate factory; the
	// real factory arrives later via StepSetDelegate.
	StepCreateDelegate
	// StepSetDelegate installs the real factory on a previously delegated
	// field.
	StepSetDelegate
)

// InitStep is one statement of the initialize sequence, in emission order.
type InitStep struct {
	Key  key.Key
	Kind StepKind
}

// initController computes the initialize-statement sequence and each
// field-bearing Expression's InitState. When the initializer of field X
// transitively refers to Y and Y's initializer transitively refers back to
// X, the first field to be initialized is marked Delegated: the delegate
// creation is written first, the rest of the cycle initializes against the
// delegate, then the real factory is installed.
type initController struct{}

func newInitController() *initController { return &initController{} }

// computeStates walks the owned keys in request (resolution) order with a
// three-color DFS over the dependency edges captured in p.fieldDeps. The
// post-order of the DFS is a dependencies-first initialization order; a
// back-edge hit while a frame is still open is a field whose initializer
// transitively refers back to an in-progress ancestor, and that ancestor —
// the first field of the cycle in request order — is emitted as a delegate
// at the point the back-edge is discovered, so every field referenced by
// another field's initializer is either initialized earlier or routed
// through a delegate factory.
func (ic *initController) computeStates(p *Plan, seeds []key.Key) {
	color := map[key.Key]int{} // 0=white (unvisited), 1=grey (on stack), 2=black (done)

	var visit func(k key.Key)
	visit = func(k key.Key) {
		expr, ok := p.Expressions[k]
		if !ok {
			return // inherited or unresolved: no expression in this component.
		}
		switch color[k] {
		case 2:
			return
		case 1:
			// Back-edge: k is an ancestor still being initialized.
			if expr.FieldName != "" && expr.State != Delegated {
				expr.State = Delegated
				p.InitSteps = append(p.InitSteps, InitStep{Key: k, Kind: StepCreateDelegate})
				p.Order = append(p.Order, k)
			}
			return
		}
		color[k] = 1
		if expr.State == Uninitialized {
			expr.State = Initializing
		}

		for _, dep := range p.fieldDeps[k] {
			visit(dep)
		}

		color[k] = 2
		if expr.State == Delegated {
			// The delegate was created when the back-edge was found; every
			// other field of the cycle is initialized by now, so the real
			// factory can be installed.
			if expr.FieldName != "" {
				p.InitSteps = append(p.InitSteps, InitStep{Key: k, Kind: StepSetDelegate})
			}
			return
		}
		expr.State = Initialized
		if expr.FieldName != "" {
			p.InitSteps = append(p.InitSteps, InitStep{Key: k, Kind: StepInit})
		}
		p.Order = append(p.Order, k)
	}

	for _, k := range seeds {
		visit(k)
	}
}
