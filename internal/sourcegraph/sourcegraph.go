// Package sourcegraph scans real Go source for inject-constructor markers,
// producing the injectable-constructor index the resolver consults when no
// explicit binding exists for a Key.
//
// This is the driver-side discovery seam: instead of an annotation
// processor, dicore reads ordinary Go packages — parse the non-generated
// .go files in a directory and collect what the markers declare.
//
// A constructor participates when its doc comment contains a line reading
// "dicore:inject" (with any comment leader). Its first result type becomes
// the Key; each parameter becomes a dependency request, with
// runtime.Provider / runtime.Lazy parameter shapes mapped to the matching
// request kinds.
package sourcegraph

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"github.com/dicore-project/dicore/internal/elementid"
	"github.com/dicore-project/dicore/internal/graph"
	"github.com/dicore-project/dicore/internal/key"
)

const injectMarker = "dicore:inject"

// Index implements graph.InjectableIndex over the constructors discovered
// in one package directory.
type Index struct {
	table map[key.Key]graph.InjectableTemplate
}

// InjectConstructor implements graph.InjectableIndex.
func (ix *Index) InjectConstructor(k key.Key) (graph.InjectableTemplate, bool) {
	t, ok := ix.table[k]
	return t, ok
}

// Len reports how many inject constructors were discovered.
func (ix *Index) Len() int { return len(ix.table) }

// Scan parses every non-generated, non-test .go file in pkgDir and collects
// marked constructors. Files that fail to parse are skipped, best effort: a
// broken sibling file should not kill generation for the rest of the
// package.
func Scan(pkgDir string) (*Index, error) {
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		return nil, err
	}

	ix := &Index{table: map[key.Key]graph.InjectableTemplate{}}
	fset := token.NewFileSet()

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, ".gen.go") {
			continue
		}

		f, perr := parser.ParseFile(fset, filepath.Join(pkgDir, name), nil, parser.ParseComments)
		if perr != nil {
			continue
		}
		pkg := f.Name.Name
		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || !hasInjectMarker(fn.Doc) {
				continue
			}
			ix.addConstructor(pkg, fn)
		}
	}
	return ix, nil
}

func hasInjectMarker(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(strings.TrimLeft(c.Text, "/* "))
		if text == injectMarker {
			return true
		}
	}
	return false
}

func (ix *Index) addConstructor(pkg string, fn *ast.FuncDecl) {
	if fn.Type.Results == nil || len(fn.Type.Results.List) == 0 {
		return
	}
	resultType := renderType(pkg, fn.Type.Results.List[0].Type)
	k := key.New(resultType)

	var sig strings.Builder
	sig.WriteString(fn.Name.Name)
	sig.WriteByte('(')

	tmpl := graph.InjectableTemplate{}
	first := true
	for _, field := range fn.Type.Params.List {
		paramType := renderType(pkg, field.Type)
		// An unnamed parameter group still declares one parameter.
		n := len(field.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			if !first {
				sig.WriteByte(',')
			}
			first = false
			sig.WriteString(paramType)

			depKey, kind := unwrapRequest(paramType)
			req := key.NewRequest(depKey, key.Site{Element: pkg + "." + fn.Name.Name}).WithKind(kind)
			tmpl.Dependencies = append(tmpl.Dependencies, req)
		}
	}
	sig.WriteByte(')')

	tmpl.Origin = elementid.New(resultType, elementid.Constructor, sig.String())
	ix.table[k] = tmpl
}

// renderType flattens an AST type expression into the canonical type-string
// form the Key model uses: package-qualified names, pointers stripped (a
// constructor taking *T depends on T's binding).
func renderType(pkg string, expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return renderType(pkg, t.X)
	case *ast.Ident:
		if isExportedName(t.Name) {
			return pkg + "." + t.Name
		}
		return t.Name
	default:
		return types.ExprString(expr)
	}
}

func isExportedName(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// unwrapRequest maps a framework-wrapped parameter type to its underlying
// Key and request kind.
func unwrapRequest(t string) (key.Key, key.RequestKind) {
	switch {
	case strings.HasPrefix(t, "runtime.Provider["):
		inner := strings.TrimSuffix(strings.TrimPrefix(t, "runtime.Provider["), "]")
		return key.New(inner), key.Provider
	case strings.HasPrefix(t, "runtime.Lazy["):
		inner := strings.TrimSuffix(strings.TrimPrefix(t, "runtime.Lazy["), "]")
		return key.New(inner), key.Lazy
	default:
		return key.New(t), key.Instance
	}
}
