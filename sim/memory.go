// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sim provides simulated memory for running register code on a host.
//
// A Memory is a window of ordinary Go memory that stands in for a range of
// physical addresses. The mmio handles returned by RO, WO and RW are overlaid
// on the window exactly as they would be on real hardware, while Peek and
// Poke give the hardware side of the simulation raw access to it.
//
// Memory does no locking.
package sim

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/embeddedgo/mmioreg/mmio"
)

var (
	ErrOutOfRange = errors.New("address out of range")
	ErrUnaligned  = errors.New("unaligned access")
	ErrWidth      = errors.New("bad access width")
)

// Memory is a simulated address window.
type Memory struct {
	base uint64
	size uint64
	buf  []uint64 // 8-byte alignment for any register width
}

// New returns a zeroed window of size bytes starting at base. The window is
// extended down to the nearest multiple of 8.
func New(base uint64, size int) *Memory {
	if size < 0 {
		size = 0
	}
	off := base & 7
	m := &Memory{base: base - off, size: uint64(size) + off}
	m.buf = make([]uint64, (m.size+7)/8)
	return m
}

// Base returns the first address of m.
func (m *Memory) Base() uint64 { return m.base }

// Size returns the size of m in bytes.
func (m *Memory) Size() int { return int(m.size) }

// Bytes returns the content of m. The returned slice shares memory with m.
func (m *Memory) Bytes() []byte {
	if m.size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&m.buf[0])), m.size)
}

// Clear zeroes the whole window.
func (m *Memory) Clear() {
	clear(m.buf)
}

// Contains reports whether the n bytes at addr lie in m.
func (m *Memory) Contains(addr uint64, n int) bool {
	if n <= 0 || addr < m.base {
		return false
	}
	off := addr - m.base
	return off < m.size && uint64(n) <= m.size-off
}

// Pointer returns a pointer to the n bytes at addr. The address must be
// aligned to n, which must be a power of two.
func (m *Memory) Pointer(addr uint64, n int) (unsafe.Pointer, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrWidth, n)
	}
	if !m.Contains(addr, n) {
		return nil, fmt.Errorf("%w: %#x+%d", ErrOutOfRange, addr, n)
	}
	if addr&uint64(n-1) != 0 {
		return nil, fmt.Errorf("%w: %d-byte at %#x", ErrUnaligned, n, addr)
	}
	return unsafe.Pointer(&m.Bytes()[addr-m.base]), nil
}

func (m *Memory) mustPointer(addr uint64, n int) unsafe.Pointer {
	p, err := m.Pointer(addr, n)
	if err != nil {
		panic("sim: " + err.Error())
	}
	return p
}

func sizeOf[T mmio.Bits]() int { return int(mmio.BitSize[T]() / 8) }

// RO returns the read-only register at addr in m. It panics if the register
// does not fit in m or addr is not aligned.
func RO[T mmio.Bits](m *Memory, addr uint64) *mmio.RO[T] {
	return (*mmio.RO[T])(m.mustPointer(addr, sizeOf[T]()))
}

// WO returns the write-only register at addr in m. It panics if the register
// does not fit in m or addr is not aligned.
func WO[T mmio.Bits](m *Memory, addr uint64) *mmio.WO[T] {
	return (*mmio.WO[T])(m.mustPointer(addr, sizeOf[T]()))
}

// RW returns the read-write register at addr in m. It panics if the register
// does not fit in m or addr is not aligned.
func RW[T mmio.Bits](m *Memory, addr uint64) *mmio.RW[T] {
	return (*mmio.RW[T])(m.mustPointer(addr, sizeOf[T]()))
}

// Peek returns the width bits wide value at addr.
func (m *Memory) Peek(addr uint64, width uint) (uint64, error) {
	p, err := m.Pointer(addr, int(width/8))
	if err != nil {
		return 0, err
	}
	switch width {
	case 8:
		return uint64(*(*uint8)(p)), nil
	case 16:
		return uint64(*(*uint16)(p)), nil
	case 32:
		return uint64(*(*uint32)(p)), nil
	case 64:
		return *(*uint64)(p), nil
	}
	return 0, fmt.Errorf("%w: %d bits", ErrWidth, width)
}

// Poke stores the width bits wide value v at addr. The bits of v that do not
// fit in width are discarded.
func (m *Memory) Poke(addr uint64, width uint, v uint64) error {
	p, err := m.Pointer(addr, int(width/8))
	if err != nil {
		return err
	}
	switch width {
	case 8:
		*(*uint8)(p) = uint8(v)
	case 16:
		*(*uint16)(p) = uint16(v)
	case 32:
		*(*uint32)(p) = uint32(v)
	case 64:
		*(*uint64)(p) = v
	default:
		return fmt.Errorf("%w: %d bits", ErrWidth, width)
	}
	return nil
}
