// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regdef

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadGPIO(t *testing.T) *File {
	t.Helper()
	f, err := Load(filepath.Join("testdata", "gpio.yaml"))
	require.NoError(t, err)
	return f
}

func TestParseYAML(t *testing.T) {
	f := loadGPIO(t)
	assert.Equal(t, "gpio", f.Package)
	require.Len(t, f.Registers, 3)

	foo := f.Register("FOO")
	require.NotNil(t, foo)
	assert.Equal(t, ReadWrite, foo.Access)
	assert.Equal(t, Num(0x4000_0000), foo.Addr)
	assert.Equal(t, Num(0x100), foo.Reset)
	assert.Equal(t, uint64(0xFFFF_FFFF), foo.Mask())

	bal := foo.Field("BAL")
	require.NotNil(t, bal)
	assert.Equal(t, uint(2), bal.Bits())
	assert.Equal(t, uint64(3), bal.Mask())
	assert.Equal(t, Num(2), bal.Value("VAL2").Value)
	assert.Equal(t, "VAL1", bal.ValueName(1))
	assert.Empty(t, bal.ValueName(3))
	assert.Equal(t, uint(1), foo.Field("EN").Bits())

	assert.Equal(t, ReadOnly, f.Register("STAT").Access)
	assert.Equal(t, WriteOnly, f.Register("CMD").Access)
	assert.Nil(t, f.Register("NONE"))
	assert.Nil(t, foo.Field("NONE"))
}

func TestParseYAMLUnknownKey(t *testing.T) {
	_, err := ParseYAML([]byte("package: x\nregister: []\n"))
	assert.Error(t, err)
}

func TestParseYAMLBadNumber(t *testing.T) {
	_, err := ParseYAML([]byte("package: x\nregisters:\n  - name: A\n    width: 32\n    address: 0xZZ\n"))
	assert.Error(t, err)
}

func TestParseAccess(t *testing.T) {
	for s, want := range map[string]Access{
		"ReadWrite": ReadWrite, "rw": ReadWrite, "": ReadWrite,
		"ReadOnly": ReadOnly, "RO": ReadOnly, "r": ReadOnly,
		"WriteOnly": WriteOnly, "wo": WriteOnly, "W": WriteOnly,
	} {
		a, err := ParseAccess(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, a, s)
	}
	_, err := ParseAccess("execute")
	assert.Error(t, err)
	assert.Equal(t, "Access(7)", Access(7).String())
	assert.True(t, ReadWrite.CanRead() && ReadWrite.CanWrite())
	assert.False(t, ReadOnly.CanWrite())
	assert.False(t, WriteOnly.CanRead())
}

func TestYAMLRoundTrip(t *testing.T) {
	f := loadGPIO(t)
	data, err := MarshalYAML(f)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "address: 0x40000000")
	assert.Contains(t, s, "access: ReadOnly")
	g, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, f, g)
}

func TestCBORRoundTrip(t *testing.T) {
	f := loadGPIO(t)
	data, err := EncodeCBOR(f)
	require.NoError(t, err)
	g, err := DecodeCBOR(data)
	require.NoError(t, err)
	assert.Equal(t, f, g)

	again, err := EncodeCBOR(g)
	require.NoError(t, err)
	assert.Equal(t, data, again)

	_, err = DecodeCBOR(data[:len(data)/2])
	assert.Error(t, err)
}

func TestLoadCBOR(t *testing.T) {
	f := loadGPIO(t)
	data, err := EncodeCBOR(f)
	require.NoError(t, err)
	name := filepath.Join(t.TempDir(), "gpio.cbor")
	require.NoError(t, os.WriteFile(name, data, 0o644))
	g, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, f, g)
}

func TestValidate(t *testing.T) {
	f := &File{
		Package: "bad-name",
		Registers: []*Register{
			{Name: "A", Width: 24},
			{Name: "B", Width: 32, Addr: 2},
			{Name: "C", Width: 8, Reset: 0x100},
			{Name: "D", Width: 32, Fields: []*Field{
				{Name: "X", Offset: 30, Width: 3},
				{Name: "Y", Offset: 0, Width: 2, Values: []*Value{{Name: "V", Value: 4}}},
				{Name: "1Z"},
			}},
			{Name: "A_Type", Width: 32},
			{Name: "E", Width: 16, Access: 3},
			nil,
			{Name: "mmio", Width: 32},
			{Name: "uintptr", Width: 32},
		},
	}
	err := f.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, s := range []string{
		`package: bad package name "bad-name"`,
		"A: bad width 24",
		"B: address 0x2 not aligned to 32-bit register",
		"C: reset value 0x100 does not fit in 8 bits",
		"D.X: offset 30 + width 3 exceeds 32-bit register",
		"D.Y.V: value 0x4 does not fit in 2 bits",
		`D: field #2: bad name "1Z"`,
		"A_Type: symbol A_Type clashes with A",
		"E: bad access mode 3",
		"register #6: empty definition",
		"mmio: name mmio is reserved",
		"uintptr: name uintptr is reserved",
	} {
		assert.Contains(t, msg, s)
	}
	assert.Len(t, strings.Split(msg, "\n"), 12)
}

func TestValidateOverlappingFields(t *testing.T) {
	f := &File{
		Package: "p",
		Registers: []*Register{{
			Name: "R", Width: 32,
			Fields: []*Field{
				{Name: "LOW", Offset: 0, Width: 8},
				{Name: "NIBBLE", Offset: 4, Width: 4},
			},
		}},
	}
	assert.NoError(t, f.Validate())
}

func TestValidateValueSymbolClash(t *testing.T) {
	f := &File{
		Package: "p",
		Registers: []*Register{{
			Name: "R", Width: 32,
			Fields: []*Field{
				{Name: "A", Offset: 0, Values: []*Value{{Name: "B", Value: 1}}},
				{Name: "A_B", Offset: 1},
			},
		}},
	}
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol R_A_B clashes with R.A.B")
}
