// Package elementid provides a stable identity for user source elements
// (constructors, provides methods, fields, parameters) that survives across a
// single processing pass without holding onto host-specific element handles.
//
// The host provides opaque element handles; this package is the stable
// interning key (qualified name + kind + member signature) used instead of
// holding those handles, so nothing retains host references across
// processing rounds.
package elementid

import "strings"

// Kind distinguishes the shape of the declaring element.
type Kind int

const (
	Constructor Kind = iota
	Method
	Field
	Parameter
)

func (k Kind) String() string {
	switch k {
	case Constructor:
		return "ctor"
	case Method:
		return "method"
	case Field:
		return "field"
	case Parameter:
		return "param"
	default:
		return "unknown"
	}
}

// ID is the stable identity of a user element: enclosing qualified type name,
// element kind, and the element's own signature (method name + parameter
// types, or field name).
type ID struct {
	Qualified string
	Kind      Kind
	Signature string
}

// New builds an ID. signature should already be canonicalized by the caller
// (e.g. "provideFoo(pkg.Bar)" for a method, "fieldName" for a field).
func New(qualified string, kind Kind, signature string) ID {
	return ID{Qualified: qualified, Kind: kind, Signature: signature}
}

// String renders a deterministic, human-readable form suitable for use as a
// map key or a diagnostic anchor.
func (id ID) String() string {
	var b strings.Builder
	b.WriteString(id.Qualified)
	b.WriteByte('#')
	b.WriteString(id.Kind.String())
	b.WriteByte(':')
	b.WriteString(id.Signature)
	return b.String()
}
