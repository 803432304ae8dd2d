package main

import (
	"fmt"
	"text/template"
)

var funcMap = template.FuncMap{
	"hex32": func(v uint32) string { return fmt.Sprintf("0x%08X", v) },
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

var templates = template.Must(template.New("").Funcs(funcMap).Parse(moduleTmpl + entryTmpl + methodTmpl))

const moduleTmpl = `{{define "module"}}// Code generated by flipper-gen. DO NOT EDIT.

package {{.Package}}

import (
	"context"

	"github.com/wastevensv/flipper/pkg/arg"
	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/device"
	"github.com/wastevensv/flipper/pkg/dispatch"
	"github.com/wastevensv/flipper/pkg/module"
	"github.com/wastevensv/flipper/pkg/value"
)

// {{.GoName}} function indices.
const (
{{- range .Functions}}
	{{.Const}} uint8 = {{.Op}}
{{- end}}
)

{{template "entry" .}}

// {{.GoName}} is the typed binding for the {{.Name}} module{{if .Description}} ({{.Description}}){{end}}.
type {{.GoName}} struct {
	id *module.Identity
	d  *dispatch.Dispatcher
}

// Bind{{.GoName}} binds {{.Name}} v{{.Version}} on the device behind ref.
func Bind{{.GoName}}(ctx context.Context, d *dispatch.Dispatcher, ref device.Ref) (*{{.GoName}}, error) {
	id, err := bindEntry(ctx, {{.EntryVar}}, ref)
	if err != nil {
		return nil, err
	}
	return &{{.GoName}}{id: id, d: d}, nil
}

// Identity returns the bound identity.
func (m *{{.GoName}}) Identity() *module.Identity { return m.id }
{{range .Functions}}{{template "method" .}}{{end}}{{end}}`

const entryTmpl = `{{define "entry"}}var {{.EntryVar}} = catalog.Entry{
	Name:        {{quote .Name}},
	Description: {{quote .Description}},
	Version:     {{.Version}},
	Identifier:  {{hex32 .Identifier}},
	Functions: []catalog.FunctionDef{
{{- range .Entry.Functions}}
		{Name: {{quote .Name}}{{if .Kind}}, Kind: {{quote .Kind}}{{end}}{{if .Return}}, Return: {{quote .Return}}{{end}}{{if .Params}}, Params: []catalog.Param{
{{- range .Params}}{Name: {{quote .Name}}, Type: {{quote .Type}}}, {{end}}}{{end}}},
{{- end}}
	},
}{{end}}`

const methodTmpl = `{{define "method"}}
// {{.GoName}} calls {{.Name}}.
{{- if .IsVoid}}
func (m *{{.Module}}) {{.GoName}}(ctx context.Context{{.Signature}}) error {
	_, err := m.d.{{.Method}}(ctx, m.id, {{.Const}}, value.Void{{.Args}})
	return err
}
{{- else if .IsPtr}}
func (m *{{.Module}}) {{.GoName}}(ctx context.Context{{.Signature}}) (uintptr, error) {
	v, err := m.d.{{.Method}}(ctx, m.id, {{.Const}}, value.Ptr{{.Args}})
	return uintptr(v.Uint64()), err
}
{{- else}}
func (m *{{.Module}}) {{.GoName}}(ctx context.Context{{.Signature}}) ({{.GoReturn}}, error) {
	return dispatch.{{.Method}}As[{{.GoReturn}}](ctx, m.d, m.id, {{.Const}}{{.Args}})
}
{{- end}}
{{end}}`
