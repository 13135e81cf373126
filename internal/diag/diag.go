// Package diag formats diagnostic messages and attributes each to the
// nearest user element, enriched by a shortest-path trace from an entry
// point.
//
// The reporter also tracks whether any error has been emitted and surfaces
// that fact to the driver, which decides whether to skip code generation.
// That flag is read from a different goroutine than it is written from
// whenever a host invokes validators for sibling components concurrently,
// so it is backed by go.uber.org/atomic rather than a bare bool — the one
// piece of reporter state the single-threaded assumption does not cover.
package diag

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Severity is the diagnostic's level.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is one reported problem:
// (severity, message, element, annotation?, annotation-value?).
type Diagnostic struct {
	Severity  Severity
	Message   string
	Element   string
	Annotation string
	Value      string
	// Trace is the shortest dependency path from the reporting entry point
	// to the offending Key, when one was computed.
	Trace []string
}

// Reporter collects Diagnostics for one processing round. Prefix is the
// tool identifier prepended to every message in square brackets.
type Reporter struct {
	Prefix string
	RunID  string

	log   *zap.Logger
	items []Diagnostic
	hasErr atomic.Bool
}

// NewReporter constructs a Reporter. A nil logger falls back to
// zap.NewNop().
func NewReporter(prefix string, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{Prefix: prefix, RunID: uuid.NewString(), log: log}
}

// Report records a Diagnostic and logs it at the matching zap level.
func (r *Reporter) Report(d Diagnostic) {
	msg := r.Format(d)
	r.items = append(r.items, d)
	if d.Severity == Error {
		r.hasErr.Store(true)
		r.log.Error(msg, zap.String("run_id", r.RunID))
	} else {
		r.log.Warn(msg, zap.String("run_id", r.RunID))
	}
}

// Errorf is a convenience for Report with Severity: Error.
func (r *Reporter) Errorf(element, format string, args ...any) {
	r.Report(Diagnostic{Severity: Error, Element: element, Message: fmt.Sprintf(format, args...)})
}

// Warnf is a convenience for Report with Severity: Warning.
func (r *Reporter) Warnf(element, format string, args ...any) {
	r.Report(Diagnostic{Severity: Warning, Element: element, Message: fmt.Sprintf(format, args...)})
}

// Format renders d the way a host messager would display it, including the
// bracketed tool prefix.
func (r *Reporter) Format(d Diagnostic) string {
	msg := fmt.Sprintf("[%s] %s: %s", r.Prefix, d.Severity, d.Message)
	if d.Element != "" {
		msg += " (at " + d.Element + ")"
	}
	for _, step := range d.Trace {
		msg += "\n    via " + step
	}
	return msg
}

// HasError reports whether any Error-severity diagnostic has been recorded —
// the flag the core surfaces to the driver so it knows whether to skip code
// generation for this component.
func (r *Reporter) HasError() bool { return r.hasErr.Load() }

// Diagnostics returns every recorded Diagnostic, in report order — the same
// order on every run for the same input.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}
