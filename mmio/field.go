// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import "math/bits"

// Field describes a contiguous range of bits in a register of type T.
type Field[T Bits] struct {
	mask  T // in register position
	shift uint8
}

// NewField returns the field that occupies width bits of T starting at bit
// offset. It panics if the field does not fit in T or width is zero.
func NewField[T Bits](offset, width uint) Field[T] {
	n := BitSize[T]()
	if width == 0 || offset >= n || width > n-offset {
		panic("mmio: field does not fit in register")
	}
	return Field[T]{mask: ones[T](width) << offset, shift: uint8(offset)}
}

// Bit returns the one bit wide field at offset n.
func Bit[T Bits](n uint) Field[T] {
	return NewField[T](n, 1)
}

// Offset returns the position of the least significant bit of f.
func (f Field[T]) Offset() uint { return uint(f.shift) }

// Width returns the number of bits in f.
func (f Field[T]) Width() uint { return uint(bits.OnesCount64(uint64(f.mask))) }

// Mask returns ((1<<f.Width())-1) << f.Offset().
func (f Field[T]) Mask() T { return f.mask }

// With returns the value of f equal to v. The bits of v that do not fit in
// the field are discarded.
func (f Field[T]) With(v T) Value[T] {
	return Value[T]{bits: (v << f.shift) & f.mask, mask: f.mask}
}

// Get extracts the field from the register value raw.
func (f Field[T]) Get(raw T) T {
	return (raw & f.mask) >> f.shift
}

// Insert returns raw with the field replaced by v.
func (f Field[T]) Insert(raw, v T) T {
	return raw&^f.mask | (v<<f.shift)&f.mask
}

// Value is a set of field values in register position. The bits of a Value
// outside its mask are always zero.
//
// Values of different fields are combined with Or. Combining values of
// overlapping fields is allowed; the result ORs the overlapping bits.
type Value[T Bits] struct {
	bits T
	mask T
}

// Bits returns the register bits of v.
func (v Value[T]) Bits() T { return v.bits }

// Mask returns the union of the masks of the fields that make up v.
func (v Value[T]) Mask() T { return v.mask }

// Get extracts the value of f from v.
func (v Value[T]) Get(f Field[T]) T { return f.Get(v.bits) }

// Or returns the bitwise OR of v and w.
func (v Value[T]) Or(w Value[T]) Value[T] {
	return Value[T]{bits: v.bits | w.bits, mask: v.mask | w.mask}
}

// And returns the bitwise AND of v and w.
func (v Value[T]) And(w Value[T]) Value[T] {
	return Value[T]{bits: v.bits & w.bits, mask: v.mask & w.mask}
}

// apply returns raw with the fields of v replaced by v.
func (v Value[T]) apply(raw T) T {
	return raw&^v.mask | v.bits
}
