// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"fmt"
	"io"

	"github.com/marcinbor85/gohex"
)

// WriteHex writes the content of m to w in the Intel HEX format. Multi-byte
// registers are stored in the host byte order.
func (m *Memory) WriteHex(w io.Writer) error {
	if m.base+m.size > 1<<32 {
		return fmt.Errorf("%w: Intel HEX is limited to 32-bit addresses", ErrOutOfRange)
	}
	mem := gohex.NewMemory()
	if m.size != 0 {
		if err := mem.AddBinary(uint32(m.base), m.Bytes()); err != nil {
			return err
		}
	}
	return mem.DumpIntelHex(w, 16)
}

// ReadHex loads the Intel HEX data from r into m. Every data segment must lie
// in m. Bytes not covered by r are left unchanged.
func (m *Memory) ReadHex(r io.Reader) error {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return err
	}
	segs := mem.GetDataSegments()
	for _, seg := range segs {
		if !m.Contains(uint64(seg.Address), len(seg.Data)) {
			return fmt.Errorf(
				"%w: segment %#x+%d", ErrOutOfRange, seg.Address, len(seg.Data),
			)
		}
	}
	b := m.Bytes()
	for _, seg := range segs {
		copy(b[uint64(seg.Address)-m.base:], seg.Data)
	}
	return nil
}
