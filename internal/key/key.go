// Package key provides the canonical identity used to index everything the
// binding graph can resolve: a qualified type, optionally tagged with a
// multibinding-contribution marker.
package key

import "strings"

// Qualifier mirrors a qualifier annotation: an opaque discriminator attached
// to a type so that two otherwise-identical types can be bound separately
// (e.g. two different string bindings). The zero value means "unqualified".
type Qualifier struct {
	// Name is the qualifier's fully qualified annotation name, empty for none.
	Name string
	// Value disambiguates qualifiers that carry a literal argument
	// (e.g. @Named("primary")).
	Value string
}

// IsZero reports whether q represents "no qualifier".
func (q Qualifier) IsZero() bool { return q.Name == "" && q.Value == "" }

func (q Qualifier) String() string {
	if q.IsZero() {
		return ""
	}
	if q.Value == "" {
		return q.Name
	}
	return q.Name + "(" + q.Value + ")"
}

// ContributionTag disambiguates multiple contributions to the same
// set/map Key. A Key without a tag is the aggregate Key for a multibinding;
// a Key with a tag identifies one contributor to that aggregate.
//
// Invariant: two Keys with the same qualifier and type but
// different contribution tags are distinct and never unify during
// resolution.
type ContributionTag struct {
	// Module is the simple name of the contributing module type.
	Module string
	// Method is the contributing method's name.
	Method string
}

// IsZero reports whether t represents "not a contribution" (i.e. this Key is
// the aggregate Key for a multibinding, or not part of one at all).
func (t ContributionTag) IsZero() bool { return t.Module == "" && t.Method == "" }

func (t ContributionTag) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Module + "#" + t.Method
}

// Key is the canonical identity for a thing that can be injected.
//
// Equality is structural: two Keys with the same Qualifier, Type and
// ContributionTag are the same Key, full stop. Primitive types must already
// be boxed by the caller (e.g. "int" becomes "Integer") before constructing
// a Key.
type Key struct {
	Qualifier Qualifier
	// Type is the canonical, boxed type string, e.g. "pkg.Foo", "Set<pkg.Foo>",
	// "Map<string,Provider<pkg.Foo>>".
	Type string
	Tag  ContributionTag
}

// New constructs an unqualified, untagged Key for type t.
func New(t string) Key { return Key{Type: Box(t)} }

// Qualified constructs a Key with an explicit qualifier.
func Qualified(q Qualifier, t string) Key { return Key{Qualifier: q, Type: Box(t)} }

// WithTag returns a copy of k tagged with a multibinding contribution
// identifier. A tagged Key never unifies with its own untagged aggregate Key
// nor with any other tag.
func (k Key) WithTag(tag ContributionTag) Key {
	k.Tag = tag
	return k
}

// AsSet returns the aggregate Key for a Set<k> multibinding.
func (k Key) AsSet() Key { return Key{Qualifier: k.Qualifier, Type: "Set<" + k.Type + ">"} }

// AsMap returns the aggregate Key for a Map<keyType, valueWrapper> multibinding.
// valueWrapper is already the fully wrapped value type, e.g. "Provider<pkg.Foo>".
func (k Key) AsMap(mapKeyType, valueWrapper string) Key {
	return Key{Qualifier: k.Qualifier, Type: "Map<" + mapKeyType + "," + valueWrapper + ">"}
}

// primitiveBoxes mirrors the host type system's standard boxing table.
var primitiveBoxes = map[string]string{
	"bool":    "Boolean",
	"byte":    "Byte",
	"rune":    "Rune",
	"int":     "Integer",
	"int8":    "Byte",
	"int16":   "Short",
	"int32":   "Integer",
	"int64":   "Long",
	"uint":    "Integer",
	"uint8":   "Byte",
	"uint16":  "Short",
	"uint32":  "Integer",
	"uint64":  "Long",
	"float32": "Float",
	"float64": "Double",
	"string":  "String",
}

// Box maps a primitive type name to its boxed form. Non-primitive types
// pass through unchanged.
func Box(t string) string {
	if boxed, ok := primitiveBoxes[t]; ok {
		return boxed
	}
	return t
}

// String renders a Key in a stable, debuggable form:
// "[qualifier]type[#tag]".
func (k Key) String() string {
	var b strings.Builder
	if !k.Qualifier.IsZero() {
		b.WriteByte('@')
		b.WriteString(k.Qualifier.String())
		b.WriteByte(' ')
	}
	b.WriteString(k.Type)
	if !k.Tag.IsZero() {
		b.WriteByte('{')
		b.WriteString(k.Tag.String())
		b.WriteByte('}')
	}
	return b.String()
}

// IsMultibindingAggregate reports whether k's Type names a Set<...> or
// Map<...> shape and k carries no contribution tag — i.e. it is the key a
// consumer requests, not a single contributor's key.
func (k Key) IsMultibindingAggregate() bool {
	if !k.Tag.IsZero() {
		return false
	}
	return strings.HasPrefix(k.Type, "Set<") || strings.HasPrefix(k.Type, "Map<")
}
