// SPDX-License-Identifier: MPL-2.0

package emit

import "text/template"

var registryTemplate = template.Must(template.New("registry").Parse(`// Code generated by regista. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	"{{.}}"
{{- end}}
)

// {{.TypeName}} is a member of the {{.Collection}} registry.
type {{.TypeName}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}
{{- end}}
}

// {{.EmptyVar}} is returned by lookups that find no member.
var {{.EmptyVar}} = {{.TypeName}}{}
{{- if .HasMemberVars}}

// Registry members, in discovery order.
var (
{{- range .Members}}
	{{.VarName}} = {{.Literal}}
{{- end}}
)
{{- end}}
{{- if eq .Strategy "static"}}

var (
	{{.AllVar}} = []{{.TypeName}}{ {{- range $i, $m := .Members}}{{if $i}}, {{end}}{{$m.VarName}}{{end}} }
{{- if .UseTables}}
	{{.ByIDVar}} = map[int]{{.TypeName}}{
{{- range .Members}}{{if .InIDTable}}
		{{.ID}}: {{.VarName}},
{{- end}}{{end}}
	}
	{{.ByNameVar}} = map[string]{{.TypeName}}{
{{- range .Members}}{{if .InNameTab}}
		{{printf "%q" .NameKey}}: {{.VarName}},
{{- end}}{{end}}
	}
{{- end}}
)

// {{.RegistryType}} provides lookup over the generated {{.Collection}} members.
type {{.RegistryType}} struct{}

// {{.Collection}} returns the {{.Collection}} registry.
func {{.Collection}}() {{.RegistryType}} {
	return {{.RegistryType}}{}
}
{{- else if eq .Strategy "factory"}}

// {{.RegistryType}} provides lookup over the generated {{.Collection}}
// members. Every call constructs fresh member instances.
type {{.RegistryType}} struct{}

// {{.Collection}} returns the {{.Collection}} registry.
func {{.Collection}}() {{.RegistryType}} {
	return {{.RegistryType}}{}
}

func (r {{.RegistryType}}) build() []{{.TypeName}} {
	return []{{.TypeName}}{
{{- range .Members}}
		{{.Literal}},
{{- end}}
	}
}
{{- else}}

// {{.RegistryType}} provides lookup over the generated {{.Collection}} members.
type {{.RegistryType}} struct {
	all []{{.TypeName}}
{{- if .UseTables}}
	byID   map[int]{{.TypeName}}
	byName map[string]{{.TypeName}}
{{- end}}
}
{{- if eq .Strategy "singleton"}}

var (
	{{.LowerColl}}Once     sync.Once
	{{.LowerColl}}Instance *{{.RegistryType}}
)

// {{.Collection}} returns the shared {{.Collection}} registry instance.
func {{.Collection}}() *{{.RegistryType}} {
	{{.LowerColl}}Once.Do(func() {
		{{.LowerColl}}Instance = new{{.RegistryType}}()
	})
	return {{.LowerColl}}Instance
}

func new{{.RegistryType}}() *{{.RegistryType}} {
{{- else}}

// New{{.RegistryType}} constructs an independent {{.Collection}} registry.
func New{{.RegistryType}}() *{{.RegistryType}} {
{{- end}}
	r := &{{.RegistryType}}{
		all: []{{.TypeName}}{
{{- range .Members}}
			{{.Ref}},
{{- end}}
		},
	}
{{- if .UseTables}}
	r.byID = make(map[int]{{.TypeName}}, len(r.all))
	r.byName = make(map[string]{{.TypeName}}, len(r.all))
	for _, m := range r.all {
		if _, ok := r.byName[{{if .Fold}}strings.ToLower(m.Name){{else}}m.Name{{end}}]; !ok {
			r.byName[{{if .Fold}}strings.ToLower(m.Name){{else}}m.Name{{end}}] = m
		}
		if _, ok := r.byID[m.ID]; !ok {
			r.byID[m.ID] = m
		}
	}
{{- end}}
	return r
}
{{- end}}

// All returns every member in discovery order.
func {{.Recv}} All() []{{.TypeName}} {
	src := {{.AllRef}}
	out := make([]{{.TypeName}}, len(src))
	copy(out, src)
	return out
}

// AsSeq iterates members in discovery order.
func {{.Recv}} AsSeq() iter.Seq[{{.TypeName}}] {
	return func(yield func({{.TypeName}}) bool) {
		for _, m := range {{.AllRef}} {
			if !yield(m) {
				return
			}
		}
	}
}

// Empty returns the sentinel member.
func {{.Recv}} Empty() {{.TypeName}} {
	return {{.EmptyVar}}
}

// Count reports the number of members.
func {{.Recv}} Count() int {
	return len({{.AllRef}})
}

// Any reports whether the registry has at least one member.
func {{.Recv}} Any() bool {
	return len({{.AllRef}}) > 0
}

// ByID returns the member with the given identity, or the empty sentinel.
func {{.Recv}} ByID(id int) {{.TypeName}} {
	m, _ := r.TryByID(id)
	return m
}

// TryByID returns the member with the given identity and whether it exists.
func {{.Recv}} TryByID(id int) ({{.TypeName}}, bool) {
{{- if .UseTables}}
	m, ok := {{.ByIDRef}}[id]
	if !ok {
		return {{.EmptyVar}}, false
	}
	return m, true
{{- else}}
	for _, m := range {{.AllRef}} {
		if m.ID == id {
			return m, true
		}
	}
	return {{.EmptyVar}}, false
{{- end}}
}

// ByName returns the member with the given name, or the empty sentinel.
func {{.Recv}} ByName(name string) {{.TypeName}} {
	m, _ := r.TryByName(name)
	return m
}

// TryByName returns the member with the given name and whether it exists.
{{- if .Fold}}
// Matching ignores case.
{{- end}}
func {{.Recv}} TryByName(name string) ({{.TypeName}}, bool) {
{{- if .Fold}}
	name = strings.ToLower(name)
{{- end}}
{{- if .UseTables}}
	m, ok := {{.ByNameRef}}[name]
	if !ok {
		return {{.EmptyVar}}, false
	}
	return m, true
{{- else}}
	for _, m := range {{.AllRef}} {
		if {{if .Fold}}strings.ToLower(m.Name){{else}}m.Name{{end}} == name {
			return m, true
		}
	}
	return {{.EmptyVar}}, false
{{- end}}
}
{{- range .Lookups}}

// {{.Accessor}} returns the first member whose {{.Field}} equals v, or the
// empty sentinel.
func {{$.Recv}} {{.Accessor}}(v {{.Type}}) {{$.TypeName}} {
	for _, m := range {{$.AllRef}} {
		if m.{{.Field}} == v {
			return m
		}
	}
	return {{$.EmptyVar}}
}
{{- end}}
{{- range .Members}}
{{- range .Factories}}

// {{.Name}} constructs a new {{$.TypeName}} value.
func {{.Name}}({{range $i, $p := .Params}}{{if $i}}, {{end}}{{$p.Name}} {{$p.Type}}{{end}}) {{$.TypeName}} {
	return {{.Literal}}
}
{{- end}}
{{- end}}
`))
