package codegen

import (
	"strings"

	"github.com/dicore-project/dicore/internal/binding"
	"github.com/dicore-project/dicore/internal/key"
)

// unboxed maps the key model's boxed primitive names back to Go types, the
// inverse of key.Box.
var unboxed = map[string]string{
	"Boolean": "bool",
	"Byte":    "byte",
	"Rune":    "rune",
	"Short":   "int16",
	"Integer": "int",
	"Long":    "int64",
	"Float":   "float32",
	"Double":  "float64",
	"String":  "string",
}

// goType renders a canonical key type string as Go source. Set and Map
// aggregates become slices and maps; framework wrappers become the runtime
// package's types; boxed primitives unbox; everything else passes through
// as a type name the generated file's package can see.
func goType(t string) string {
	if g, ok := unboxed[t]; ok {
		return g
	}
	name, inner, ok := splitAngle(t)
	if !ok {
		return t
	}
	switch name {
	case "Set":
		return "[]" + goType(inner)
	case "Map":
		k, v := splitTopComma(inner)
		return "map[" + goType(k) + "]" + goType(v)
	case "Provider", "Producer":
		return "runtime.Provider[" + goType(inner) + "]"
	case "Lazy":
		return "*runtime.Lazy[" + goType(inner) + "]"
	case "Optional":
		return "runtime.Optional[" + goType(inner) + "]"
	default:
		return t
	}
}

// splitAngle splits "Name<inner>" into its parts; ok is false when t is not
// an angle-bracketed shape.
func splitAngle(t string) (name, inner string, ok bool) {
	open := strings.IndexByte(t, '<')
	if open < 0 || !strings.HasSuffix(t, ">") {
		return "", "", false
	}
	return t[:open], t[open+1 : len(t)-1], true
}

// splitTopComma splits a "K,V" pair at the first comma not nested inside
// angle brackets.
func splitTopComma(s string) (string, string) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

// simpleTypeName extracts the last identifier segment of a type string:
// "pkg.Foo" -> "Foo", "Set<pkg.Foo>" -> "Foo".
func simpleTypeName(t string) string {
	t = strings.TrimSuffix(t, ">")
	if i := strings.LastIndexAny(t, ".<"); i >= 0 {
		t = t[i+1:]
	}
	return sanitizeIdent(t)
}

// sanitizeIdent strips everything that cannot appear in a Go identifier.
func sanitizeIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func exported(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func unexported(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// methodNameOf extracts the method name from an element id's canonical
// signature ("fooFromM(pkg.Bar)" -> "fooFromM").
func methodNameOf(signature string) string {
	if i := strings.IndexByte(signature, '('); i >= 0 {
		return signature[:i]
	}
	return signature
}

// factoryName derives the generated factory type's name for a binding,
// following the output surface convention: EnclosingType_MethodNameFactory
// for module methods, EnclosingType_Factory for inject constructors.
func factoryName(b binding.Binding) string {
	switch b.Kind {
	case binding.Provision, binding.Production:
		return sanitizeIdent(b.ContributingModule) + "_" + exported(sanitizeIdent(methodNameOf(b.Origin.Signature))) + "Factory"
	default:
		return simpleTypeName(b.Key.Type) + "_Factory"
	}
}

// membersInjectorName derives the generated members injector's name for a
// members-injected type.
func membersInjectorName(typeName string) string {
	return simpleTypeName(typeName) + "_MembersInjector"
}

// fileNameFor converts a generated type name to its output file name.
func fileNameFor(typeName string) string {
	return strings.ToLower(sanitizeIdent(typeName)) + ".gen.go"
}

// qualifierPart folds a key's qualifier into derived identifiers so two
// differently qualified bindings of the same type never collide.
func qualifierPart(k key.Key) string {
	if k.Qualifier.IsZero() {
		return ""
	}
	return exported(sanitizeIdent(k.Qualifier.Name)) + exported(sanitizeIdent(k.Qualifier.Value))
}
