// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmio

import "unsafe"

// Bits is the set of types that can hold the value of a register.
type Bits interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// BitSize returns the width of T in bits.
func BitSize[T Bits]() uint {
	var x T
	return uint(unsafe.Sizeof(x)) * 8
}

// ones returns a T with the n least significant bits set.
func ones[T Bits](n uint) T {
	if n == 0 {
		return 0
	}
	return ^T(0) >> (BitSize[T]() - n)
}
