// Package options holds the recognized compiler-option table: a table of
// (option, default, accepted-values) records, parsed and applied
// table-driven rather than via per-option branches.
//
// Options load from a YAML document via github.com/goccy/go-yaml; the
// flag-based entry point stays in cmd/dicore for the common case of no
// options file at all.
package options

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// Severity is the configurable severity level for diagnosable conditions
// that a host may want to downgrade to a warning (nullableValidation,
// privateMemberValidation, etc).
type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ModuleBindingValidation is the moduleBindingValidation option value.
type ModuleBindingValidation string

const (
	ModuleBindingNone    ModuleBindingValidation = "none"
	ModuleBindingWarning ModuleBindingValidation = "warning"
	ModuleBindingError   ModuleBindingValidation = "error"
)

// Options is the full recognized option set.
type Options struct {
	FastInit                                       bool                    `yaml:"fastInit"`
	FormatGeneratedSource                          bool                    `yaml:"formatGeneratedSource"`
	WriteProducerNameInToken                        bool                    `yaml:"writeProducerNameInToken"`
	NullableValidation                             Severity                `yaml:"nullableValidation"`
	PrivateMemberValidation                        Severity                `yaml:"privateMemberValidation"`
	StaticMemberValidation                         Severity                `yaml:"staticMemberValidation"`
	IgnorePrivateAndStaticInjectionForComponent     bool                    `yaml:"ignorePrivateAndStaticInjectionForComponent"`
	ScopeCycleValidation                            Severity                `yaml:"scopeCycleValidation"`
	WarnIfInjectionFactoryNotGeneratedUpstream      bool                    `yaml:"warnIfInjectionFactoryNotGeneratedUpstream"`
	HeaderCompilation                               bool                    `yaml:"headerCompilation"`
	AheadOfTimeSubcomponents                        bool                    `yaml:"aheadOfTimeSubcomponents"`
	UseGradleIncrementalProcessing                  bool                    `yaml:"useGradleIncrementalProcessing"`
	ModuleBindingValidation                         ModuleBindingValidation `yaml:"moduleBindingValidation"`
	ModuleHasDifferentScopesDiagnosticKind          Severity                `yaml:"moduleHasDifferentScopesDiagnosticKind"`
	ExplicitBindingConflictsWithInjectValidationType ModuleBindingValidation `yaml:"explicitBindingConflictsWithInjectValidationType"`
}

// Defaults returns the option set's documented defaults.
func Defaults() Options {
	return Options{
		FormatGeneratedSource:                   true,
		NullableValidation:                      SeverityWarning,
		PrivateMemberValidation:                 SeverityError,
		StaticMemberValidation:                  SeverityError,
		ScopeCycleValidation:                     SeverityError,
		ModuleBindingValidation:                  ModuleBindingNone,
		ModuleHasDifferentScopesDiagnosticKind:   SeverityWarning,
		ExplicitBindingConflictsWithInjectValidationType: ModuleBindingWarning,
	}
}

// recognized backs option-name validation: unknown options must warn, not
// fail, which Load implements by diffing the parsed YAML's top-level keys
// against this list.
var recognized = map[string]bool{
	"fastInit": true, "formatGeneratedSource": true, "writeProducerNameInToken": true,
	"nullableValidation": true, "privateMemberValidation": true, "staticMemberValidation": true,
	"ignorePrivateAndStaticInjectionForComponent": true, "scopeCycleValidation": true,
	"warnIfInjectionFactoryNotGeneratedUpstream": true, "headerCompilation": true,
	"aheadOfTimeSubcomponents": true, "useGradleIncrementalProcessing": true,
	"moduleBindingValidation": true, "moduleHasDifferentScopesDiagnosticKind": true,
	"explicitBindingConflictsWithInjectValidationType": true,
}

// Load parses a YAML options document, returning the resolved Options plus
// the list of unrecognized top-level keys it ignored (callers should warn
// on these, not fail).
func Load(doc []byte) (Options, []string, error) {
	opts := Defaults()

	var raw map[string]any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return opts, nil, fmt.Errorf("options: parse: %w", err)
	}

	var unknown []string
	for k := range raw {
		if !recognized[k] {
			unknown = append(unknown, k)
		}
	}

	if err := yaml.Unmarshal(doc, &opts); err != nil {
		return opts, unknown, fmt.Errorf("options: decode: %w", err)
	}
	return opts, unknown, nil
}

// Encode serializes opts back to YAML: generating with options O and
// reading back the written generation-options stamp yields an options
// record equal to O in the serialized subset.
func Encode(opts Options) ([]byte, error) {
	return yaml.Marshal(opts)
}
