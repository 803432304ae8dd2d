package main

import (
	"fmt"
	"strings"

	"github.com/wastevensv/flipper/pkg/catalog"
	"github.com/wastevensv/flipper/pkg/value"
)

// initialisms are name parts rendered in upper case.
var initialisms = map[string]bool{
	"ADC": true, "DAC": true, "GPIO": true, "I2C": true, "ID": true,
	"IO": true, "LED": true, "PWM": true, "RGB": true, "RTC": true,
	"SPI": true, "SWD": true, "UART": true, "UART0": true, "USART": true,
	"USB": true, "WDT": true,
}

// goName converts "set_rgb" to "SetRGB" and "uart0" to "UART0".
func goName(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' }) {
		if upper := strings.ToUpper(part); initialisms[upper] {
			b.WriteString(upper)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}

// paramName converts a parameter name to a Go identifier that does not
// collide with keywords or the generated code's own names.
func paramName(name string, i int) string {
	n := goName(name)
	if n == "" {
		return fmt.Sprintf("arg%d", i)
	}
	n = strings.ToLower(n[:1]) + n[1:]
	switch n {
	case "ctx", "payload", "m", "type", "func", "range", "map", "chan", "var",
		"select", "default", "case", "go", "break", "continue", "return",
		"if", "else", "for", "switch", "struct", "interface", "package",
		"import", "const", "defer", "fallthrough", "goto", "byte":
		return n + "Arg"
	}
	return n
}

// lowerCamel converts "uart0" to "uart0" and "pin_mode" to "pinMode".
func lowerCamel(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(parts[0]) + goName(strings.Join(parts[1:], "_"))
}

// fileName converts "uart0" to "uart0" and "set-rgb" to "set_rgb".
func fileName(name string) string {
	return strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(name))
}

// goTypes maps tags to the Go parameter/result type and arg constructor.
var goTypes = map[value.Type]struct{ Go, Ctor string }{
	value.U8:   {"uint8", "arg.U8"},
	value.U16:  {"uint16", "arg.U16"},
	value.U32:  {"uint32", "arg.U32"},
	value.U64:  {"uint64", "arg.U64"},
	value.I8:   {"int8", "arg.I8"},
	value.I16:  {"int16", "arg.I16"},
	value.I32:  {"int32", "arg.I32"},
	value.I64:  {"int64", "arg.I64"},
	value.F32:  {"float32", "arg.F32"},
	value.F64:  {"float64", "arg.F64"},
	value.Bool: {"bool", "arg.Bool"},
	value.Ptr:  {"uintptr", "arg.Ptr"},
}

type moduleData struct {
	Package     string
	Name        string
	GoName      string
	EntryVar    string
	Description string
	Version     uint32
	Identifier  uint32
	Entry       catalog.Entry
	Functions   []functionData
}

type functionData struct {
	Module   string
	Name     string
	GoName   string
	Const    string
	Op       uint8
	Kind     catalog.Kind
	Return   value.Type
	GoReturn string
	Params   []paramData
}

type paramData struct {
	Name string
	Go   string
	Ctor string
}

// Signature renders the Go parameter list after ctx.
func (f functionData) Signature() string {
	var parts []string
	if f.Kind != catalog.KindInvoke {
		parts = append(parts, "payload []byte")
	}
	for _, p := range f.Params {
		parts = append(parts, p.Name+" "+p.Go)
	}
	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, ", ")
}

// Args renders the trailing call arguments.
func (f functionData) Args() string {
	var parts []string
	if f.Kind != catalog.KindInvoke {
		parts = append(parts, "payload")
	}
	for _, p := range f.Params {
		parts = append(parts, p.Ctor+"("+p.Name+")")
	}
	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, ", ")
}

// Method returns the dispatcher method name for the kind.
func (f functionData) Method() string {
	switch f.Kind {
	case catalog.KindPush:
		return "Push"
	case catalog.KindPull:
		return "Pull"
	default:
		return "Invoke"
	}
}

func (f functionData) IsVoid() bool { return f.Return == value.Void }
func (f functionData) IsPtr() bool  { return f.Return == value.Ptr }

func newModuleData(e catalog.Entry, pkg string) (*moduleData, error) {
	sigs, err := e.Signatures()
	if err != nil {
		return nil, err
	}
	if e.Identifier == 0 {
		if e.Identifier, err = catalog.Identifier(e); err != nil {
			return nil, err
		}
	}

	m := &moduleData{
		Package:     pkg,
		Name:        e.Name,
		GoName:      goName(e.Name),
		EntryVar:    lowerCamel(e.Name) + "Entry",
		Description: e.Description,
		Version:     e.Version,
		Identifier:  e.Identifier,
		Entry:       e,
	}
	seen := map[string]bool{"Identity": true}
	for i, s := range sigs {
		fn := functionData{
			Module: m.GoName,
			Name:   s.Name,
			GoName: goName(s.Name),
			Op:     s.Op,
			Kind:   s.Kind,
			Return: s.Return,
		}
		fn.Const = m.GoName + fn.GoName
		if seen[fn.GoName] {
			return nil, fmt.Errorf("function %s: Go name %s already used", s.Name, fn.GoName)
		}
		seen[fn.GoName] = true

		if s.Return != value.Void {
			fn.GoReturn = goTypes[s.Return].Go
		}
		for j, p := range s.Params {
			t := goTypes[p]
			fn.Params = append(fn.Params, paramData{
				Name: paramName(e.Functions[i].Params[j].Name, j),
				Go:   t.Go,
				Ctor: t.Ctor,
			})
		}
		m.Functions = append(m.Functions, fn)
	}
	return m, nil
}

// GenerateModule renders the binding source for one catalog entry.
func GenerateModule(e catalog.Entry, pkg string) (string, error) {
	data, err := newModuleData(e, pkg)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "module", data); err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	return b.String(), nil
}
