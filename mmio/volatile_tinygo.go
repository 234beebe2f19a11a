// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build tinygo

package mmio

import (
	"runtime/volatile"
	"unsafe"
)

func load[T Bits](p *T) T {
	switch unsafe.Sizeof(*p) {
	case 1:
		return T(volatile.LoadUint8((*uint8)(unsafe.Pointer(p))))
	case 2:
		return T(volatile.LoadUint16((*uint16)(unsafe.Pointer(p))))
	case 4:
		return T(volatile.LoadUint32((*uint32)(unsafe.Pointer(p))))
	}
	return T(volatile.LoadUint64((*uint64)(unsafe.Pointer(p))))
}

func store[T Bits](p *T, v T) {
	switch unsafe.Sizeof(*p) {
	case 1:
		volatile.StoreUint8((*uint8)(unsafe.Pointer(p)), uint8(v))
	case 2:
		volatile.StoreUint16((*uint16)(unsafe.Pointer(p)), uint16(v))
	case 4:
		volatile.StoreUint32((*uint32)(unsafe.Pointer(p)), uint32(v))
	default:
		volatile.StoreUint64((*uint64)(unsafe.Pointer(p)), uint64(v))
	}
}
