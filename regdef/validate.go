// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regdef

import (
	"errors"
	"fmt"
	"go/token"
)

// reserved are the names that a register cannot take in the generated
// package: the ones the generated code refers to and init.
var reserved = map[string]bool{
	"init": true, "mmio": true, "uintptr": true,
	"uint8": true, "uint16": true, "uint32": true, "uint64": true,
}

// Validate checks f and returns all problems found, joined with
// errors.Join. It rejects everything that would produce invalid Go source or
// a field that does not fit in its register.
//
// Overlapping fields are allowed: some peripherals describe the same bits
// under different names for different modes.
func (f *File) Validate() error {
	var errs []error
	bad := func(where, format string, args ...any) {
		errs = append(errs, fmt.Errorf(where+": "+format, args...))
	}
	if !token.IsIdentifier(f.Package) || f.Package == "_" {
		bad("package", "bad package name %q", f.Package)
	}
	// Every register and field produces several package level symbols.
	syms := make(map[string]string)
	sym := func(name, owner string) {
		if prev, ok := syms[name]; ok {
			bad(owner, "symbol %s clashes with %s", name, prev)
			return
		}
		syms[name] = owner
	}
	for i, r := range f.Registers {
		if r == nil {
			bad(fmt.Sprintf("register #%d", i), "empty definition")
			continue
		}
		where := r.Name
		if !token.IsIdentifier(r.Name) {
			bad(fmt.Sprintf("register #%d", i), "bad name %q", r.Name)
			continue
		}
		if reserved[r.Name] {
			bad(where, "name %s is reserved", r.Name)
			continue
		}
		for _, s := range [...]string{"", "_Type", "_Addr", "_Reset"} {
			sym(r.Name+s, where)
		}
		switch r.Width {
		case 8, 16, 32, 64:
		default:
			bad(where, "bad width %d: not 8, 16, 32, 64", r.Width)
			continue
		}
		if r.Access > WriteOnly {
			bad(where, "bad access mode %d", r.Access)
		}
		if uint64(r.Addr)&uint64(r.Width/8-1) != 0 {
			bad(where, "address %v not aligned to %d-bit register", r.Addr, r.Width)
		}
		if uint64(r.Reset)&^r.Mask() != 0 {
			bad(where, "reset value %v does not fit in %d bits", r.Reset, r.Width)
		}
		for k, bf := range r.Fields {
			if bf == nil {
				bad(where, "field #%d: empty definition", k)
				continue
			}
			fwhere := where + "." + bf.Name
			if !token.IsIdentifier(bf.Name) {
				bad(where, "field #%d: bad name %q", k, bf.Name)
				continue
			}
			sym(r.Name+"_"+bf.Name, fwhere)
			if bf.Offset >= r.Width || bf.Bits() > r.Width-bf.Offset {
				bad(
					fwhere, "offset %d + width %d exceeds %d-bit register",
					bf.Offset, bf.Bits(), r.Width,
				)
				continue
			}
			for _, v := range bf.Values {
				if v == nil {
					bad(fwhere, "empty value definition")
					continue
				}
				if !token.IsIdentifier(v.Name) {
					bad(fwhere, "bad value name %q", v.Name)
					continue
				}
				sym(r.Name+"_"+bf.Name+"_"+v.Name, fwhere+"."+v.Name)
				if uint64(v.Value)&^bf.Mask() != 0 {
					bad(
						fwhere+"."+v.Name, "value %v does not fit in %d bits",
						v.Value, bf.Bits(),
					)
				}
			}
		}
	}
	return errors.Join(errs...)
}
