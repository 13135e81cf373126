package codegen

import (
	"strings"
	"text/template"
)

var tplFuncs = template.FuncMap{
	"params": func(ps []paramModel) string {
		parts := make([]string, len(ps))
		for i, p := range ps {
			parts[i] = p.Name + " " + p.Type
		}
		return strings.Join(parts, ", ")
	},
	"deref": func(t string) string { return strings.TrimPrefix(t, "*") },
}

// componentTpl renders the component-implementation file: every component
// of the tree (root first, subcomponents depth-first), each with its
// creator, constructor, initialize methods, entry points, private binding
// methods, and switching provider.
var componentTpl = template.Must(template.New("component").Funcs(tplFuncs).Parse(`// Code generated by dicore; DO NOT EDIT.
{{- range .Options}}
{{.}}
{{- end}}

package {{.Package}}

import (
{{- if .NeedsErrors}}
	"errors"
{{- end}}

	"{{.Runtime}}"
)

{{range $comp := .Components}}
// {{$comp.TypeName}} implements {{$comp.Interface}}.
type {{$comp.TypeName}} struct {
{{- range $comp.Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

{{with $cr := $comp.Creator}}
type {{$cr.TypeName}} struct {
{{- if $cr.ParentField}}
	{{$cr.ParentField}} *{{$cr.ParentType}}
{{- end}}
{{- range $cr.Fields}}
	{{.Name}} {{.Type}}
{{- end}}
{{- range $cr.Setters}}{{if .Tracked}}
	{{.Field}}Set bool
{{- end}}{{end}}
}

{{if $cr.ParentField -}}
func {{$cr.CtorName}}(parent *{{$cr.ParentType}}) *{{$cr.TypeName}} {
	return &{{$cr.TypeName}}{parent: parent}
}
{{- else -}}
func {{$cr.CtorName}}() *{{$cr.TypeName}} {
	return &{{$cr.TypeName}}{}
}
{{- end}}

{{range $s := $cr.Setters}}
func (b *{{$cr.TypeName}}) {{$s.Name}}(v {{$s.Type}}) *{{$cr.TypeName}} {
{{- if $s.Tracked}}
	if b.{{$s.Field}}Set {
		panic("{{$cr.TypeName}}: {{$s.Name}} set twice")
	}
	b.{{$s.Field}}Set = true
{{- else}}
	if b.{{$s.Field}} != nil {
		panic("{{$cr.TypeName}}: {{$s.Name}} set twice")
	}
{{- end}}
	b.{{$s.Field}} = v
	return b
}
{{end}}

func (b *{{$cr.TypeName}}) Build() (*{{$cr.ComponentType}}, error) {
{{- range $cr.DefaultModules}}
	if b.{{.Name}} == nil {
		b.{{.Name}} = &{{deref .Type}}{}
	}
{{- end}}
{{- range $cr.Required}}
	if !b.{{.Field}}Set {
		return nil, errors.New("{{$cr.TypeName}}: {{.Name}} must be set")
	}
{{- end}}
	return {{$cr.ComponentCtor}}(b), nil
}

func (b *{{$cr.TypeName}}) MustBuild() *{{$cr.ComponentType}} {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
{{end}}

func {{$comp.CtorName}}({{params $comp.CtorParams}}) *{{$comp.TypeName}} {
	c := &{{$comp.TypeName}}{}
{{- range $comp.CtorAssigns}}
	{{.}}
{{- end}}
{{- range $comp.InitMethods}}
	c.{{.Name}}()
{{- end}}
	return c
}

{{range $im := $comp.InitMethods}}
func (c *{{$comp.TypeName}}) {{$im.Name}}() {
{{- range $im.Stmts}}
	{{.}}
{{- end}}
}
{{end}}

{{range $m := $comp.EntryPoints}}
func (c *{{$m.Recv}}) {{$m.Name}}({{params $m.Params}}){{if $m.Result}} {{$m.Result}}{{end}} {
{{- range $m.Body}}
	{{.}}
{{- end}}
}
{{end}}

{{range $m := $comp.Private}}
func (c *{{$m.Recv}}) {{$m.Name}}({{params $m.Params}}){{if $m.Result}} {{$m.Result}}{{end}} {
{{- range $m.Body}}
	{{.}}
{{- end}}
}
{{end}}

{{if $comp.HasSwitch}}
func (c *{{$comp.TypeName}}) switchProvider(id int) any {
	switch id {
{{- range $comp.SwitchCases}}
	case {{.ID}}:
		return {{.Expr}}
{{- end}}
	default:
		panic("dicore: unknown provider id")
	}
}
{{end}}
{{end}}
`))

// factoryTpl renders one factory file: a provider struct over the binding's
// dependencies plus the static Create function inline call sites use.
var factoryTpl = template.Must(template.New("factory").Parse(`// Code generated by dicore; DO NOT EDIT.

package {{.Package}}
{{if .NeedsRuntime}}
import (
	"{{.Runtime}}"
)
{{end}}
type {{.F.Name}} struct {
{{- if .F.ModuleType}}
	module {{.F.ModuleType}}
{{- end}}
{{- range .F.Deps}}
	{{.FieldName}} {{.FieldType}}
{{- end}}
}

func New{{.F.Name}}({{if .F.ModuleType}}module {{.F.ModuleType}}{{range .F.Deps}}, {{.FieldName}} {{.FieldType}}{{end}}{{else}}{{range $i, $d := .F.Deps}}{{if $i}}, {{end}}{{$d.FieldName}} {{$d.FieldType}}{{end}}{{end}}) *{{.F.Name}} {
	return &{{.F.Name}}{
{{- if .F.ModuleType}}
		module: module,
{{- end}}
{{- range .F.Deps}}
		{{.FieldName}}: {{.FieldName}},
{{- end}}
	}
}

func (f *{{.F.Name}}) Get() {{.F.ResultType}} {
	return {{.F.Name}}_Create({{if .F.ModuleType}}f.module{{range .F.Deps}}, {{.GetExpr}}{{end}}{{else}}{{range $i, $d := .F.Deps}}{{if $i}}, {{end}}{{$d.GetExpr}}{{end}}{{end}})
}

func {{.F.Name}}_Create({{if .F.ModuleType}}module {{.F.ModuleType}}{{range .F.Deps}}, {{.CreateName}} {{.CreateType}}{{end}}{{else}}{{range $i, $d := .F.Deps}}{{if $i}}, {{end}}{{$d.CreateName}} {{$d.CreateType}}{{end}}{{end}}) {{.F.ResultType}} {
	return {{.F.CreateBody}}
}
`))

// injectorTpl renders one members-injector file: a static inject function
// per injected field, so members injection routes through one place even
// for fields the component could not assign directly.
var injectorTpl = template.Must(template.New("injector").Parse(`// Code generated by dicore; DO NOT EDIT.

package {{.Package}}

{{range .I.Fields}}
func {{$.I.Name}}_Inject{{.Member}}(instance *{{$.I.InstanceType}}, value {{.ValueType}}) {
	instance.{{.Member}} = value
}
{{end}}
`))
