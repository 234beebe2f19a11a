// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embeddedgo/mmioreg/mmio"
	"github.com/embeddedgo/mmioreg/sim"
)

type FOO_Type uint32

var (
	FOO_BAZ  = mmio.NewField[FOO_Type](1, 3)
	FOO_BAL  = mmio.NewField[FOO_Type](4, 2)
	FOO_FLAG = mmio.Bit[FOO_Type](31)

	FOO_BAL_VAL1 = FOO_BAL.With(0b01)
	FOO_BAL_VAL2 = FOO_BAL.With(0b10)
)

const base = 0x4000_0000

func newMem() *sim.Memory { return sim.New(base, 64) }

func TestWriteField(t *testing.T) {
	m := newMem()
	r := sim.RW[FOO_Type](m, base)
	r.Write(FOO_BAZ, 0b101)
	assert.Equal(t, FOO_Type(0xA), r.Get())
	assert.Equal(t, FOO_Type(0b101), r.Read(FOO_BAZ))
}

func TestWriteValueNamed(t *testing.T) {
	m := newMem()
	r := sim.RW[FOO_Type](m, base)
	r.WriteValue(FOO_BAL_VAL1.Or(FOO_BAL_VAL2))
	assert.Equal(t, FOO_Type(0x30), r.Get())
}

func TestSetGet(t *testing.T) {
	m := newMem()
	r := sim.RW[FOO_Type](m, base)
	r.Set(0x1F)
	assert.Equal(t, FOO_Type(0x1F), r.Get())
}

func TestReadWriteRoundTrip(t *testing.T) {
	m := newMem()
	r := sim.RW[FOO_Type](m, base)
	for v := FOO_Type(0); v < 16; v++ {
		r.Write(FOO_BAZ, v)
		require.Equal(t, v&7, r.Read(FOO_BAZ))
	}
}

func TestWritePreservesOtherFields(t *testing.T) {
	m := newMem()
	r := sim.RW[FOO_Type](m, base)
	r.Set(0xDEAD_BEEF)
	bal := r.Read(FOO_BAL)
	flag := r.Read(FOO_FLAG)
	r.Write(FOO_BAZ, 0)
	assert.Equal(t, bal, r.Read(FOO_BAL))
	assert.Equal(t, flag, r.Read(FOO_FLAG))
	assert.Equal(t, FOO_Type(0xDEAD_BEEF)&^FOO_BAZ.Mask(), r.Get())

	r.WriteValue(FOO_BAL_VAL1)
	assert.Equal(t, FOO_Type(0xDEAD_BEEF)&^(FOO_BAZ.Mask()|FOO_BAL.Mask())|0x10, r.Get())
}

func TestReadValue(t *testing.T) {
	m := newMem()
	r := sim.RW[FOO_Type](m, base)
	r.Set(0xFFFF_FFFF)
	v := r.ReadValue(FOO_BAL)
	assert.Equal(t, FOO_BAL.Mask(), v.Bits())
	assert.Equal(t, FOO_Type(3), v.Get(FOO_BAL))

	ro := sim.RO[FOO_Type](m, base)
	assert.Equal(t, v, ro.ReadValue(FOO_BAL))
	assert.Equal(t, FOO_Type(3), ro.Read(FOO_BAL))
	assert.Equal(t, FOO_Type(0xFFFF_FFFF), ro.Get())
}

func TestWriteOnlyZeroesOtherBits(t *testing.T) {
	m := newMem()
	require.NoError(t, m.Poke(base, 32, 0xFFFF_FFFF))
	w := sim.WO[FOO_Type](m, base)
	w.Write(FOO_BAZ, 0b101)
	raw, err := m.Peek(base, 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xA), raw)

	w.WriteValue(FOO_BAL_VAL2)
	raw, _ = m.Peek(base, 32)
	assert.Equal(t, uint64(0x20), raw)

	w.Set(0x1234)
	raw, _ = m.Peek(base, 32)
	assert.Equal(t, uint64(0x1234), raw)
}

func TestBitOps(t *testing.T) {
	m := newMem()
	r := sim.RW[uint8](m, base+3)
	r.SetBits(0x81)
	assert.True(t, r.HasBits(0x80))
	assert.False(t, r.HasBits(0x7E))
	r.ClearBits(0x80)
	assert.Equal(t, uint8(0x01), r.Get())
	assert.Equal(t, uint8(0xF1), r.Modify(mmio.NewField[uint8](4, 4), 0xF))
	assert.Equal(t, uint8(0xF1), r.Get())

	// Neighbouring bytes are untouched.
	raw, err := m.Peek(base, 32)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xF100_0000), raw)
}

func TestModifyValue(t *testing.T) {
	m := newMem()
	r := sim.RW[FOO_Type](m, base)
	r.Set(0x8000_0001)
	assert.Equal(t, FOO_Type(0x8000_002B), r.ModifyValue(FOO_BAL_VAL2.Or(FOO_BAZ.With(0b101))))
	assert.Equal(t, FOO_Type(0x8000_002B), r.Get())
}

func TestWidths(t *testing.T) {
	m := newMem()
	r16 := sim.RW[uint16](m, base+8)
	r64 := sim.RW[uint64](m, base+16)
	r16.Write(mmio.NewField[uint16](12, 4), 0xC)
	r64.Write(mmio.NewField[uint64](60, 4), 0x9)
	assert.Equal(t, uint16(0xC000), r16.Get())
	assert.Equal(t, uint64(0x9000_0000_0000_0000), r64.Get())
}

func TestAddr(t *testing.T) {
	m := newMem()
	r := sim.RW[uint32](m, base+4)
	p, err := m.Pointer(base+4, 4)
	require.NoError(t, err)
	assert.Equal(t, uintptr(p), r.Addr())
}

var hwreg uint32

func TestRWAt(t *testing.T) {
	r := mmio.RWAt[uint32](uintptr(unsafe.Pointer(&hwreg)))
	r.Write(FieldLow, 0x5)
	assert.Equal(t, uint32(0x5), hwreg)
	assert.Equal(t, uint32(0x5), mmio.ROAt[uint32](r.Addr()).Get())
	mmio.WOAt[uint32](r.Addr()).Set(7)
	assert.Equal(t, uint32(7), r.Get())
}

var FieldLow = mmio.NewField[uint32](0, 4)

func TestCapabilities(t *testing.T) {
	var ro, wo, rw any = (*mmio.RO[uint32])(nil), (*mmio.WO[uint32])(nil), (*mmio.RW[uint32])(nil)

	_, ok := ro.(mmio.Writable[uint32])
	assert.False(t, ok, "RO must not be writable")
	_, ok = ro.(mmio.Readable[uint32])
	assert.True(t, ok)

	_, ok = wo.(mmio.Readable[uint32])
	assert.False(t, ok, "WO must not be readable")
	_, ok = wo.(mmio.Writable[uint32])
	assert.True(t, ok)

	_, ok = rw.(mmio.ReadWritable[uint32])
	assert.True(t, ok)
}
