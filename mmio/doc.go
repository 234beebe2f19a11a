// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mmio provides typed access to memory-mapped I/O registers and
// their bit-fields.
//
// A register is accessed through one of three overlay types placed over its
// address: RO (read-only), WO (write-only) and RW (read-write). The access
// mode is part of the type, so writing a read-only register or reading a
// write-only one does not compile.
//
// Fields are described by Field values (offset and width in bits) and
// assembled into register contents with Value:
//
//	type CR uint32
//
//	var (
//		CTRL  = mmio.RWAt[CR](0x4000_0000)
//		EN    = mmio.Bit[CR](0)
//		MODE  = mmio.NewField[CR](4, 2)
//		Fast  = MODE.With(2)
//	)
//
//	CTRL.WriteValue(EN.With(1).Or(Fast))
//
// Field values are masked to the field width, never checked: an out of
// range value is silently truncated.
//
// Every load and store is a volatile memory access. The read-modify-write
// sequences performed by RW (Write, WriteValue, SetBits, ClearBits, Modify)
// are not atomic. If a register is shared by several goroutines or by an
// interrupt handler the caller must serialize the access.
package mmio
