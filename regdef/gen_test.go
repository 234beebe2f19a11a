// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regdef

import (
	"fmt"
	"go/ast"
	goimporter "go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collapse replaces all runs of white space with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func mustContain(t *testing.T, src, s string) {
	t.Helper()
	assert.Contains(t, collapse(src), collapse(s))
}

func TestGenerate(t *testing.T) {
	f := loadGPIO(t)
	code, err := Generate(f, "gpio.yaml")
	require.NoError(t, err)
	src, err := Format("gpio.go", code)
	require.NoError(t, err, string(code))
	out := string(src)

	assert.True(t, strings.HasPrefix(out, "// Code generated by mmiogen from gpio.yaml. DO NOT EDIT.\n"))
	mustContain(t, out, "// Test registers.\npackage gpio")
	mustContain(t, out, `import "github.com/embeddedgo/mmioreg/mmio"`)

	mustContain(t, out, "type FOO_Type uint32")
	mustContain(t, out, "const FOO_Addr uintptr = 0x4000_0000")
	mustContain(t, out, "const FOO_Reset FOO_Type = 0x0000_0100")
	mustContain(t, out, "// Control register.\nvar FOO = mmio.RWAt[FOO_Type](FOO_Addr)")
	mustContain(t, out, "FOO_BAZ = mmio.NewField[FOO_Type](1, 3)")
	mustContain(t, out, "// Mode selection.\nFOO_BAL = mmio.NewField[FOO_Type](4, 2)")
	mustContain(t, out, "FOO_EN = mmio.Bit[FOO_Type](31)")
	mustContain(t, out, "FOO_BAL_VAL1 = FOO_BAL.With(0x1)")
	mustContain(t, out, "FOO_BAL_VAL2 = FOO_BAL.With(0x2) // Second mode.")

	mustContain(t, out, "type STAT_Type uint16")
	mustContain(t, out, "const STAT_Reset STAT_Type = 0x8001")
	mustContain(t, out, "var STAT = mmio.ROAt[STAT_Type](STAT_Addr)")
	mustContain(t, out, "STAT_LEVEL = mmio.NewField[STAT_Type](8, 4)")

	mustContain(t, out, "type CMD_Type uint8")
	mustContain(t, out, "var CMD = mmio.WOAt[CMD_Type](CMD_Addr)")
	mustContain(t, out, "CMD_OP_RUN = CMD_OP.With(0x5)")
	assert.NotContains(t, out, "CMD_Reset")

	_, err = parser.ParseFile(token.NewFileSet(), "gpio.go", src, parser.AllErrors)
	assert.NoError(t, err)
}

func TestGenerateEmpty(t *testing.T) {
	code, err := Generate(&File{Package: "empty"}, "")
	require.NoError(t, err)
	src, err := Format("empty.go", code)
	require.NoError(t, err)
	assert.Equal(t, "// Code generated by mmiogen. DO NOT EDIT.\n\npackage empty\n", string(src))
}

func TestGenerateInvalid(t *testing.T) {
	f := loadGPIO(t)
	f.Registers[0].Fields[0].Offset = 31
	_, err := Generate(f, "")
	assert.ErrorContains(t, err, "FOO.BAZ: offset 31 + width 3 exceeds 32-bit register")
}

func TestHex(t *testing.T) {
	assert.Equal(t, "0x0", hex(0, 1))
	assert.Equal(t, "0x05", hex(5, 2))
	assert.Equal(t, "0xABCD", hex(0xABCD, 4))
	assert.Equal(t, "0x0000_0100", hex(0x100, 8))
	assert.Equal(t, "0x1_2345", hex(0x12345, 1))
	assert.Equal(t, "0xFFFF_FFFF_FFFF_FFFF", hex(^uint64(0), 16))
}

func TestComment(t *testing.T) {
	assert.Equal(t, "", comment("", "  "))
	assert.Equal(t, "\t// a\n\t//\n\t// b\n", comment("\t", "a\n\nb"))
}

// mmioImporter serves the mmio package type-checked from its sources and
// everything else from the standard library sources.
type mmioImporter struct {
	std  types.Importer
	mmio *types.Package
}

func (im *mmioImporter) Import(path string) (*types.Package, error) {
	if path == MMIOPath {
		return im.mmio, nil
	}
	return im.std.Import(path)
}

func mmioPackage(t *testing.T, fset *token.FileSet, std types.Importer) *types.Package {
	t.Helper()
	names, err := filepath.Glob(filepath.Join("..", "mmio", "*.go"))
	require.NoError(t, err)
	var files []*ast.File
	for _, name := range names {
		if strings.HasSuffix(name, "_test.go") || strings.HasSuffix(name, "_tinygo.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, 0)
		require.NoError(t, err)
		files = append(files, f)
	}
	require.NotEmpty(t, files)
	conf := types.Config{Importer: std}
	pkg, err := conf.Check(MMIOPath, fset, files, nil)
	require.NoError(t, err)
	return pkg
}

// typeCheck generates and formats the code for f and type-checks it
// against the mmio package.
func typeCheck(t *testing.T, f *File) error {
	t.Helper()
	code, err := Generate(f, "")
	require.NoError(t, err)
	src, err := Format(f.Package+".go", code)
	require.NoError(t, err, string(code))
	fset := token.NewFileSet()
	af, err := parser.ParseFile(fset, f.Package+".go", src, parser.ParseComments)
	require.NoError(t, err)
	std := goimporter.ForCompiler(fset, "source", nil)
	conf := types.Config{Importer: &mmioImporter{std, mmioPackage(t, fset, std)}}
	_, err = conf.Check(f.Package, fset, []*ast.File{af}, nil)
	return err
}

func TestGeneratedCodeTypeChecks(t *testing.T) {
	assert.NoError(t, typeCheck(t, loadGPIO(t)))
}

func TestGeneratedCodeTypeChecksAllModes(t *testing.T) {
	for _, access := range []Access{ReadWrite, ReadOnly, WriteOnly} {
		for _, width := range []uint{8, 16, 32, 64} {
			t.Run(fmt.Sprintf("%v/%d", access, width), func(t *testing.T) {
				f := &File{
					Package: "regs",
					Registers: []*Register{{
						Name:   "R",
						Access: access,
						Width:  width,
						Addr:   0x1000,
						Reset:  1,
						Fields: []*Field{
							{Name: "B", Offset: 0},
							{Name: "F", Offset: width - 4, Width: 4, Values: []*Value{
								{Name: "V", Value: 0xF},
							}},
						},
					}},
				}
				assert.NoError(t, typeCheck(t, f))
			})
		}
	}
}

func TestGenerateReservedNames(t *testing.T) {
	for _, name := range []string{"mmio", "uintptr", "uint32", "init"} {
		f := &File{Package: "regs", Registers: []*Register{{Name: name, Width: 32}}}
		_, err := Generate(f, "")
		assert.ErrorContains(t, err, name+": name "+name+" is reserved")
	}
}
