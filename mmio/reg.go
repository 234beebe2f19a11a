// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import "unsafe"

// Readable is implemented by registers that can be read.
type Readable[T Bits] interface {
	Get() T
	Read(f Field[T]) T
	ReadValue(f Field[T]) Value[T]
}

// Writable is implemented by registers that can be written.
type Writable[T Bits] interface {
	Set(v T)
	Write(f Field[T], v T)
	WriteValue(v Value[T])
}

// ReadWritable is implemented by registers that can be read and written.
type ReadWritable[T Bits] interface {
	Readable[T]
	Writable[T]
}

var (
	_ Readable[uint32]     = (*RO[uint32])(nil)
	_ Writable[uint32]     = (*WO[uint32])(nil)
	_ ReadWritable[uint32] = (*RW[uint32])(nil)
)

// RO is a read-only register.
type RO[T Bits] struct{ r T }

// ROAt returns the read-only register at addr.
func ROAt[T Bits](addr uintptr) *RO[T] {
	return (*RO[T])(unsafe.Pointer(addr))
}

// Addr returns the address of r.
func (r *RO[T]) Addr() uintptr { return uintptr(unsafe.Pointer(r)) }

// Get returns the raw content of r.
func (r *RO[T]) Get() T { return load(&r.r) }

// HasBits reports whether any of the bits in mask is set in r.
func (r *RO[T]) HasBits(mask T) bool { return r.Get()&mask != 0 }

// Read returns the value of the field f.
func (r *RO[T]) Read(f Field[T]) T { return f.Get(r.Get()) }

// ReadValue returns the value of the field f in register position.
func (r *RO[T]) ReadValue(f Field[T]) Value[T] {
	return Value[T]{bits: r.Get() & f.mask, mask: f.mask}
}

// WO is a write-only register.
//
// The previous content of a write-only register cannot be read back so
// Write and WriteValue store zeros to all bits outside the written fields.
// Use Set to write the whole register at once.
type WO[T Bits] struct{ r T }

// WOAt returns the write-only register at addr.
func WOAt[T Bits](addr uintptr) *WO[T] {
	return (*WO[T])(unsafe.Pointer(addr))
}

// Addr returns the address of r.
func (r *WO[T]) Addr() uintptr { return uintptr(unsafe.Pointer(r)) }

// Set stores v to r.
func (r *WO[T]) Set(v T) { store(&r.r, v) }

// Write stores the value v of the field f to r. All other bits are zeroed.
func (r *WO[T]) Write(f Field[T], v T) { r.Set(f.With(v).bits) }

// WriteValue stores v to r. All bits outside v.Mask() are zeroed.
func (r *WO[T]) WriteValue(v Value[T]) { r.Set(v.bits) }

// RW is a read-write register.
//
// Write, WriteValue, SetBits, ClearBits, Modify and ModifyValue perform a
// read-modify-write sequence which is not atomic.
type RW[T Bits] struct{ r T }

// RWAt returns the read-write register at addr.
func RWAt[T Bits](addr uintptr) *RW[T] {
	return (*RW[T])(unsafe.Pointer(addr))
}

// Addr returns the address of r.
func (r *RW[T]) Addr() uintptr { return uintptr(unsafe.Pointer(r)) }

// Get returns the raw content of r.
func (r *RW[T]) Get() T { return load(&r.r) }

// Set stores v to r.
func (r *RW[T]) Set(v T) { store(&r.r, v) }

// HasBits reports whether any of the bits in mask is set in r.
func (r *RW[T]) HasBits(mask T) bool { return r.Get()&mask != 0 }

// SetBits sets the bits in mask.
func (r *RW[T]) SetBits(mask T) { r.Set(r.Get() | mask) }

// ClearBits clears the bits in mask.
func (r *RW[T]) ClearBits(mask T) { r.Set(r.Get() &^ mask) }

// Read returns the value of the field f.
func (r *RW[T]) Read(f Field[T]) T { return f.Get(r.Get()) }

// ReadValue returns the value of the field f in register position.
func (r *RW[T]) ReadValue(f Field[T]) Value[T] {
	return Value[T]{bits: r.Get() & f.mask, mask: f.mask}
}

// Write replaces the field f with v leaving other fields unchanged.
func (r *RW[T]) Write(f Field[T], v T) { r.Modify(f, v) }

// WriteValue replaces the fields covered by v.Mask() leaving other fields
// unchanged.
func (r *RW[T]) WriteValue(v Value[T]) { r.ModifyValue(v) }

// Modify works like Write but also returns the value stored to r.
func (r *RW[T]) Modify(f Field[T], v T) T {
	raw := f.Insert(r.Get(), v)
	r.Set(raw)
	return raw
}

// ModifyValue works like WriteValue but also returns the value stored to r.
func (r *RW[T]) ModifyValue(v Value[T]) T {
	raw := v.apply(r.Get())
	r.Set(raw)
	return raw
}
