package sourcegraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dicore-project/dicore/internal/key"
)

func writeFile(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanFindsMarkedConstructors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "store.go", `package app

// NewStore builds the store.
//
// dicore:inject
func NewStore(cfg Config, log *Logger) *Store { return &Store{} }

// NewLogger is not marked and must not be indexed.
func NewLogger() *Logger { return &Logger{} }
`)

	ix, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 1 {
		t.Fatalf("expected 1 constructor, got %d", ix.Len())
	}

	tmpl, ok := ix.InjectConstructor(key.New("app.Store"))
	if !ok {
		t.Fatalf("app.Store not indexed")
	}
	if len(tmpl.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies, got %d", len(tmpl.Dependencies))
	}
	if got := tmpl.Dependencies[0].Key; got != key.New("app.Config") {
		t.Fatalf("dep 0 = %s, want app.Config", got)
	}
	if got := tmpl.Dependencies[1].Key; got != key.New("app.Logger") {
		t.Fatalf("dep 1 = %s, want app.Logger (pointer stripped)", got)
	}
}

func TestScanUnwrapsFrameworkParams(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "svc.go", `package app

// dicore:inject
func NewService(store runtime.Provider[app.Store]) *Service { return &Service{} }
`)

	ix, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	tmpl, ok := ix.InjectConstructor(key.New("app.Service"))
	if !ok {
		t.Fatalf("app.Service not indexed")
	}
	dep := tmpl.Dependencies[0]
	if dep.Key != key.New("app.Store") {
		t.Fatalf("dep key = %s, want app.Store", dep.Key)
	}
	if dep.Kind != key.Provider {
		t.Fatalf("dep kind = %s, want PROVIDER", dep.Kind)
	}
}

func TestScanSkipsGeneratedAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.gen.go", `package app

// dicore:inject
func NewGenOnly() *GenOnly { return nil }
`)
	writeFile(t, dir, "broken.go", `package app func ???`)
	writeFile(t, dir, "ok.go", `package app

// dicore:inject
func NewOK() *OK { return &OK{} }
`)

	ix, err := Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 1 {
		t.Fatalf("expected only ok.go's constructor, got %d entries", ix.Len())
	}
	if _, ok := ix.InjectConstructor(key.New("app.OK")); !ok {
		t.Fatalf("app.OK not indexed")
	}
}
