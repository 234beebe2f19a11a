// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regdef

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"
)

// MMIOPath is the import path of the package used by the generated code.
const MMIOPath = "github.com/embeddedgo/mmioreg/mmio"

var funcMap = template.FuncMap{
	"comment": comment,
}

var tmpl = template.Must(template.New("regs").Funcs(funcMap).Parse(regsTmpl))

type genFile struct {
	Source  string
	Descr   string
	Package string
	Import  string
	Regs    []genReg
}

type genReg struct {
	Name   string
	Descr  string
	Type   string
	Uint   string
	Ctor   string
	Addr   string
	Reset  string
	Fields []genField
	Values []genValue
}

type genField struct {
	Sym   string
	Descr string
	Expr  string
}

type genValue struct {
	Sym   string
	Descr string
	Field string
	Value string
}

// Generate returns Go source that declares, for every register of f, its
// value type NAME_Type, its address NAME_Addr, its reset value NAME_Reset
// (if not zero), the handle NAME, one NAME_FIELD descriptor per field and
// one NAME_FIELD_VALUE per named value. Source, if not empty, is mentioned
// in the header of the generated file.
//
// Generate validates f first. The output is not formatted, see Format.
func Generate(f *File, source string) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	gf := genFile{
		Source:  source,
		Descr:   f.Descr,
		Package: f.Package,
		Import:  MMIOPath,
	}
	for _, r := range f.Registers {
		gr := genReg{
			Name:  r.Name,
			Descr: r.Descr,
			Type:  r.Name + "_Type",
			Uint:  "uint" + strconv.Itoa(int(r.Width)),
			Addr:  hex(uint64(r.Addr), 8),
		}
		switch r.Access {
		case ReadOnly:
			gr.Ctor = "ROAt"
		case WriteOnly:
			gr.Ctor = "WOAt"
		default:
			gr.Ctor = "RWAt"
		}
		if r.Reset != 0 {
			gr.Reset = hex(uint64(r.Reset), int(r.Width/4))
		}
		for _, bf := range r.Fields {
			sym := r.Name + "_" + bf.Name
			gfd := genField{Sym: sym, Descr: bf.Descr}
			if bf.Bits() == 1 {
				gfd.Expr = fmt.Sprintf("mmio.Bit[%s](%d)", gr.Type, bf.Offset)
			} else {
				gfd.Expr = fmt.Sprintf(
					"mmio.NewField[%s](%d, %d)", gr.Type, bf.Offset, bf.Bits(),
				)
			}
			gr.Fields = append(gr.Fields, gfd)
			for _, v := range bf.Values {
				gr.Values = append(gr.Values, genValue{
					Sym:   sym + "_" + v.Name,
					Descr: fixSpaces(v.Descr),
					Field: sym,
					Value: hex(uint64(v.Value), 1),
				})
			}
		}
		gf.Regs = append(gf.Regs, gr)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, gf); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	return buf.Bytes(), nil
}

// Format formats the generated source like gofmt and sorts its imports.
// The name is used only in error messages.
func Format(name string, src []byte) ([]byte, error) {
	return imports.Process(name, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
}

// hex formats v in hexadecimal with at least digits digits, grouping long
// numbers by 4 digits.
func hex(v uint64, digits int) string {
	s := strings.ToUpper(strconv.FormatUint(v, 16))
	for len(s) < digits {
		s = "0" + s
	}
	if len(s) > 4 {
		var b strings.Builder
		for i, c := range s {
			if i > 0 && (len(s)-i)%4 == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(c)
		}
		s = b.String()
	}
	return "0x" + s
}

// comment returns s as a line comment indented by indent. Empty s gives an
// empty string.
func comment(indent, s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		b.WriteString(indent)
		b.WriteString("//")
		if line = strings.TrimRight(line, " \t"); line != "" {
			b.WriteByte(' ')
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

const regsTmpl = `// Code generated by mmiogen{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

{{comment "" .Descr}}package {{.Package}}

{{if .Regs}}import "{{.Import}}"{{end}}
{{range .Regs}}
// {{.Type}} is the value type of the {{.Name}} register.
type {{.Type}} {{.Uint}}

const {{.Name}}_Addr uintptr = {{.Addr}}
{{if .Reset}}
const {{.Name}}_Reset {{.Type}} = {{.Reset}}
{{end}}
{{comment "" .Descr}}var {{.Name}} = mmio.{{.Ctor}}[{{.Type}}]({{.Name}}_Addr)
{{if .Fields}}
var (
{{range .Fields}}{{comment "\t" .Descr}}	{{.Sym}} = {{.Expr}}
{{end}})
{{end}}{{if .Values}}
var (
{{range .Values}}	{{.Sym}} = {{.Field}}.With({{.Value}}){{if .Descr}} // {{.Descr}}{{end}}
{{end}})
{{end}}{{end}}`
