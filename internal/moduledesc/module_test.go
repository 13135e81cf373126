package moduledesc

import "testing"

func TestExpandDeduplicatesCyclicIncludes(t *testing.T) {
	a := New("A", true)
	b := New("B", true)
	a.IncludedModules = []*Descriptor{b}
	b.IncludedModules = []*Descriptor{a} // cycle, must be benign

	got := Expand(a)
	if len(got) != 2 {
		t.Fatalf("expected 2 modules in the closure, got %d", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Fatalf("expected pre-order [A, B], got [%s, %s]", got[0].Name, got[1].Name)
	}
}

func TestExpandIsDeterministicAcrossRuns(t *testing.T) {
	a := New("A", true)
	b := New("B", true)
	c := New("C", true)
	a.IncludedModules = []*Descriptor{b, c}

	first := Expand(a)
	second := Expand(a)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic expansion length")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("non-deterministic expansion order at %d", i)
		}
	}
}
