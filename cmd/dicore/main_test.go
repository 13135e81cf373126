package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSpec(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const happySpec = `package: app
component:
  name: App
  scopes: [Singleton]
  modules: [StorageModule]
  entryPoints:
    - name: store
      type: app.Store
modules:
  - name: StorageModule
    requiresInstance: true
    provides:
      - method: provideConfig
        type: app.Config
      - method: provideStore
        type: app.Store
        scope: Singleton
        params: [app.Config]
`

func TestRunGeneratesComponent(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "gen")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}
	spec := writeSpec(t, dir, "component.yaml", happySpec)

	var stderr bytes.Buffer
	if code := run([]string{"-spec", spec, "-out", out}, &stderr); code != 0 {
		t.Fatalf("run = %d, stderr:\n%s", code, stderr.String())
	}

	src, err := os.ReadFile(filepath.Join(out, "dicoreapp.gen.go"))
	if err != nil {
		t.Fatalf("component file not written: %v", err)
	}
	for _, want := range []string{
		"type DicoreApp struct",
		"func (c *DicoreApp) Store() app.Store",
		"runtime.NewDoubleCheck(",
		"type DicoreAppBuilder struct",
	} {
		if !strings.Contains(string(src), want) {
			t.Fatalf("generated component missing %q:\n%s", want, src)
		}
	}

	// One factory per provision binding.
	for _, f := range []string{"storagemodule_provideconfigfactory.gen.go", "storagemodule_providestorefactory.gen.go"} {
		if _, err := os.Stat(filepath.Join(out, f)); err != nil {
			t.Fatalf("factory %s not written: %v", f, err)
		}
	}
}

func TestRunMissingFlags(t *testing.T) {
	var stderr bytes.Buffer
	if code := run(nil, &stderr); code != 2 {
		t.Fatalf("run = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "usage:") {
		t.Fatalf("expected usage message, got: %s", stderr.String())
	}
}

func TestRunDuplicateBindingSuppressesGeneration(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "gen")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}
	spec := writeSpec(t, dir, "dup.yaml", `package: app
component:
  name: App
  modules: [A, B]
  entryPoints:
    - name: store
      type: app.Store
modules:
  - name: A
    provides:
      - method: storeFromA
        type: app.Store
  - name: B
    provides:
      - method: storeFromB
        type: app.Store
`)

	var stderr bytes.Buffer
	if code := run([]string{"-spec", spec, "-out", out}, &stderr); code != 1 {
		t.Fatalf("run = %d, want 1; stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stderr.String(), "is bound multiple times") {
		t.Fatalf("expected duplicate-binding diagnostic, got:\n%s", stderr.String())
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("a component with errors must never be written; found %d files", len(entries))
	}
}

func TestRunUnknownRequestKindFails(t *testing.T) {
	dir := t.TempDir()
	spec := writeSpec(t, dir, "bad.yaml", `package: app
component:
  name: App
  entryPoints:
    - name: store
      type: app.Store
      kind: SOMEDAY
`)
	var stderr bytes.Buffer
	if code := run([]string{"-spec", spec, "-out", dir}, &stderr); code != 1 {
		t.Fatalf("run = %d, want 1", code)
	}
}

func TestParseRequestKind(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "INSTANCE"},
		{in: "instance", want: "INSTANCE"},
		{in: "LAZY", want: "LAZY"},
		{in: "Provider", want: "PROVIDER"},
		{in: "producer", want: "PRODUCER"},
		{in: "FUTURE", want: "FUTURE"},
		{in: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseRequestKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseRequestKind(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseRequestKind(%q): %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Fatalf("parseRequestKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestBuildModulesRejectsUnknownInclude(t *testing.T) {
	_, err := buildModules([]ModuleSpec{
		{Name: "A", Includes: []string{"Missing"}},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown module") {
		t.Fatalf("expected unknown-include error, got %v", err)
	}
}

func TestBuildModulesRejectsDuplicateName(t *testing.T) {
	_, err := buildModules([]ModuleSpec{{Name: "A"}, {Name: "A"}})
	if err == nil || !strings.Contains(err.Error(), "declared twice") {
		t.Fatalf("expected duplicate-module error, got %v", err)
	}
}
