package diag

import (
	"testing"

	"github.com/dicore-project/dicore/internal/key"
)

type fakeEdges map[key.Key][]key.Key

func (f fakeEdges) DependenciesOf(k key.Key) ([]key.Key, bool) {
	deps, ok := f[k]
	return deps, ok
}

func TestShortestPathFindsDirectRoute(t *testing.T) {
	a, b, c := key.New("A"), key.New("B"), key.New("C")
	edges := fakeEdges{
		a: {b},
		b: {c},
		c: {},
	}
	got := ShortestPath(edges, a, c)
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestShortestPathPrefersFewerHops(t *testing.T) {
	a, b, c, d := key.New("A"), key.New("B"), key.New("C"), key.New("D")
	edges := fakeEdges{
		a: {b, d},
		b: {c},
		d: {c},
		c: {},
	}
	got := ShortestPath(edges, a, c)
	if len(got) != 3 {
		t.Fatalf("expected a 3-node shortest path, got %v", got)
	}
}

func TestShortestPathNoRoute(t *testing.T) {
	a, z := key.New("A"), key.New("Z")
	edges := fakeEdges{a: {}}
	if got := ShortestPath(edges, a, z); got != nil {
		t.Fatalf("expected nil path, got %v", got)
	}
}
