// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regdef

import (
	"fmt"
	"strconv"

	"github.com/embeddedgo/mmioreg/sim"
)

// MaxSimSize is the largest address span Simulate agrees to allocate.
const MaxSimSize = 64 << 20

// Sim is a set of registers bound to simulated memory.
type Sim struct {
	File    *File
	Mem     *sim.Memory
	Handles map[string]*Handle
}

// Span returns the address range [lo, hi) occupied by the registers of f.
func (f *File) Span() (lo, hi uint64) {
	for i, r := range f.Registers {
		a, b := uint64(r.Addr), uint64(r.Addr)+uint64(r.Width/8)
		if i == 0 || a < lo {
			lo = a
		}
		if b > hi {
			hi = b
		}
	}
	return lo, hi
}

// Simulate allocates simulated memory that spans all registers of f, binds
// them to it and stores their reset values.
func (f *File) Simulate() (*Sim, error) {
	lo, hi := f.Span()
	if hi-lo > MaxSimSize {
		return nil, fmt.Errorf("register span %#x-%#x too large to simulate", lo, hi)
	}
	s := &Sim{
		File:    f,
		Mem:     sim.New(lo, int(hi-lo)),
		Handles: make(map[string]*Handle, len(f.Registers)),
	}
	for _, r := range f.Registers {
		p, err := s.Mem.Pointer(uint64(r.Addr), int(r.Width/8))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Name, err)
		}
		s.Handles[r.Name] = r.Bind(p)
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset stores the reset value to every register, bypassing access modes.
func (s *Sim) Reset() error {
	for _, r := range s.File.Registers {
		if err := s.Mem.Poke(uint64(r.Addr), r.Width, uint64(r.Reset)); err != nil {
			return fmt.Errorf("%s: %w", r.Name, err)
		}
	}
	return nil
}

// Handle returns the handle of the named register or nil.
func (s *Sim) Handle(name string) *Handle {
	return s.Handles[name]
}

// Peek returns the raw content of the named register, bypassing its access
// mode.
func (s *Sim) Peek(name string) (uint64, error) {
	h := s.Handles[name]
	if h == nil {
		return 0, fmt.Errorf("unknown register %s", name)
	}
	return s.Mem.Peek(uint64(h.Reg.Addr), h.Reg.Width)
}

// Poke stores v to the named register, bypassing its access mode.
func (s *Sim) Poke(name string, v uint64) error {
	h := s.Handles[name]
	if h == nil {
		return fmt.Errorf("unknown register %s", name)
	}
	return s.Mem.Poke(uint64(h.Reg.Addr), h.Reg.Width, v)
}

func parseNum(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}
