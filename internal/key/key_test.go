package key

import "testing"

func TestBoxPrimitives(t *testing.T) {
	cases := map[string]string{
		"int":      "Integer",
		"string":   "String",
		"bool":     "Boolean",
		"pkg.Type": "pkg.Type",
	}
	for in, want := range cases {
		if got := Box(in); got != want {
			t.Fatalf("Box(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContributionTagDistinctness(t *testing.T) {
	base := New("pkg.Plugin")
	a := base.WithTag(ContributionTag{Module: "ModA", Method: "provide"})
	b := base.WithTag(ContributionTag{Module: "ModB", Method: "provide"})

	if a == base {
		t.Fatalf("tagged key must not equal the untagged aggregate key")
	}
	if a == b {
		t.Fatalf("two distinct contribution tags must never unify")
	}
}

func TestIsMultibindingAggregate(t *testing.T) {
	plain := New("pkg.Foo")
	set := plain.AsSet()
	tagged := set.WithTag(ContributionTag{Module: "M", Method: "f"})

	if plain.IsMultibindingAggregate() {
		t.Fatalf("plain key must not be a multibinding aggregate")
	}
	if !set.IsMultibindingAggregate() {
		t.Fatalf("Set<> key must be a multibinding aggregate")
	}
	if tagged.IsMultibindingAggregate() {
		t.Fatalf("a tagged contribution key is not itself the aggregate")
	}
}

func TestQualifierString(t *testing.T) {
	q := Qualifier{Name: "Named", Value: "primary"}
	k := Qualified(q, "pkg.DataSource")
	want := "@Named(primary) pkg.DataSource"
	if got := k.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestRequestKindDefers(t *testing.T) {
	deferring := []RequestKind{Lazy, Provider, Producer, Future}
	for _, k := range deferring {
		if !k.Defers() {
			t.Fatalf("%s should defer evaluation", k)
		}
	}
	nonDeferring := []RequestKind{Instance, Produced, MembersInjector}
	for _, k := range nonDeferring {
		if k.Defers() {
			t.Fatalf("%s should not defer evaluation", k)
		}
	}
}
