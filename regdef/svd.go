// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regdef

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/embeddedgo/mmioreg/svd"
)

// SVDOptions controls FromSVD.
type SVDOptions struct {
	// Package is the package name. Defaults to the lower-cased device name.
	Package string
	// Peripherals selects the imported peripherals. Empty means all.
	Peripherals []string
	// Warn, if not nil, is called for every skipped SVD construct.
	Warn func(format string, args ...any)
}

// FromSVD converts the registers of the SVD device description to a
// definition file. Registers are named PERIPHERAL_REGISTER and sorted by
// address. Derived registers and fields, nested clusters and fields or
// values that do not fit are skipped with a warning.
func FromSVD(dev *svd.Device, opts *SVDOptions) (*File, error) {
	if opts == nil {
		opts = new(SVDOptions)
	}
	im := &importer{warn: opts.Warn}
	if im.warn == nil {
		im.warn = func(string, ...any) {}
	}
	f := &File{
		Package: opts.Package,
		Descr:   fixSpaces(dev.Description),
	}
	if f.Package == "" {
		f.Package = strings.ToLower(ident(dev.Name))
	}
	want := make(map[string]bool, len(opts.Peripherals))
	for _, name := range opts.Peripherals {
		want[name] = true
	}
	spmap := make(map[string]*svd.Peripheral, len(dev.Peripherals))
	for _, sp := range dev.Peripherals {
		spmap[sp.Name] = sp
	}
	top := props{width: uint(dev.Width)}.with(dev.RegisterPropertiesGroup, im)
	if top.width == 0 {
		top.width = 32
	}
	found := 0
	for _, sp := range dev.Peripherals {
		if len(want) != 0 && !want[sp.Name] {
			continue
		}
		found++
		src := sp
		if sp.DerivedFrom != nil {
			if src = spmap[*sp.DerivedFrom]; src == nil {
				im.warn("%s: derived from unknown peripheral %s", sp.Name, *sp.DerivedFrom)
				continue
			}
		}
		pr := top.with(src.RegisterPropertiesGroup, im)
		if src != sp {
			pr = pr.with(sp.RegisterPropertiesGroup, im)
		}
		base := uint64(sp.BaseAddress)
		for _, sr := range src.Registers {
			f.Registers = append(f.Registers, im.register(sp.Name, base, pr, sr)...)
		}
		for _, sc := range src.Clusters {
			f.Registers = append(f.Registers, im.cluster(sp.Name, base, pr, sc)...)
		}
	}
	if found < len(want) {
		return nil, fmt.Errorf("%d of %d requested peripherals not found in %s", len(want)-found, len(want), dev.Name)
	}
	sort.SliceStable(f.Registers, func(i, k int) bool {
		return f.Registers[i].Addr < f.Registers[k].Addr
	})
	return f, nil
}

type importer struct {
	warn func(format string, args ...any)
}

// props are the register properties inherited down the SVD hierarchy.
type props struct {
	width  uint
	access Access
	reset  uint64
}

func (pr props) with(g *svd.RegisterPropertiesGroup, im *importer) props {
	if g == nil {
		return pr
	}
	if g.Size != nil {
		pr.width = uint(*g.Size)
	}
	if g.Access != nil {
		if a, ok := svdAccess(*g.Access); ok {
			pr.access = a
		} else {
			im.warn("unknown access %q", *g.Access)
		}
	}
	if g.ResetValue != nil {
		pr.reset = uint64(*g.ResetValue)
	}
	return pr
}

func svdAccess(s string) (Access, bool) {
	switch s {
	case "read-only":
		return ReadOnly, true
	case "write-only", "writeOnce":
		return WriteOnly, true
	case "read-write", "read-writeOnce":
		return ReadWrite, true
	}
	return 0, false
}

// dims returns the names and address increments of the elements of an SVD
// dim group named name.
func (im *importer) dims(name string, g *svd.DimElementGroup) ([]string, []uint64) {
	if g.Dim == 0 {
		return []string{name}, []uint64{0}
	}
	idx, err := g.Indices()
	if err != nil {
		im.warn("%s: %v", name, err)
		return nil, nil
	}
	names := make([]string, len(idx))
	offs := make([]uint64, len(idx))
	for i, s := range idx {
		n := strings.ReplaceAll(name, "[%s]", s)
		names[i] = strings.ReplaceAll(n, "%s", s)
		offs[i] = uint64(i) * uint64(g.DimIncrement)
	}
	return names, offs
}

func (im *importer) cluster(prefix string, base uint64, pr props, sc *svd.Cluster) []*Register {
	if sc.DerivedFrom != nil {
		im.warn("%s_%s: derived clusters not supported", prefix, sc.Name)
		return nil
	}
	if len(sc.Clusters) > 0 {
		im.warn("%s_%s: cluster in cluster not supported", prefix, sc.Name)
	}
	pr = pr.with(sc.RegisterPropertiesGroup, im)
	var regs []*Register
	names, offs := im.dims(sc.Name, &sc.DimElementGroup)
	for i, name := range names {
		cbase := base + uint64(sc.AddressOffset) + offs[i]
		for _, sr := range sc.Registers {
			regs = append(regs, im.register(prefix+"_"+name, cbase, pr, sr)...)
		}
	}
	return regs
}

func (im *importer) register(prefix string, base uint64, pr props, sr *svd.Register) []*Register {
	if sr.DerivedFrom != nil {
		im.warn("%s_%s: derived registers not supported", prefix, sr.Name)
		return nil
	}
	pr = pr.with(sr.RegisterPropertiesGroup, im)
	var descr string
	if sr.Description != nil {
		descr = fixSpaces(*sr.Description)
	}
	names, offs := im.dims(sr.Name, &sr.DimElementGroup)
	regs := make([]*Register, 0, len(names))
	for i, name := range names {
		r := &Register{
			Name:   ident(prefix + "_" + name),
			Descr:  descr,
			Access: pr.access,
			Width:  pr.width,
			Addr:   Num(base + uint64(sr.AddressOffset) + offs[i]),
			Reset:  Num(pr.reset),
		}
		r.Reset &= Num(r.Mask())
		im.fields(r, sr.Fields)
		regs = append(regs, r)
	}
	return regs
}

func (im *importer) fields(r *Register, sfs []*svd.Field) {
	for _, sf := range sfs {
		if sf.DerivedFrom != nil {
			im.warn("%s.%s: derived fields not supported", r.Name, sf.Name)
			continue
		}
		offset, width, err := sf.BitRange()
		if err != nil || width == 0 || offset >= r.Width || width > r.Width-offset {
			im.warn("%s.%s: bad bit range", r.Name, sf.Name)
			continue
		}
		bf := &Field{Name: ident(sf.Name), Offset: offset}
		if width != 1 {
			bf.Width = width
		}
		if sf.Description != nil {
			bf.Descr = fixSpaces(*sf.Description)
		}
		for _, sevs := range sf.EnumeratedValues {
			if sevs.DerivedFrom != nil {
				im.warn("%s.%s: derived enumerated values not supported", r.Name, sf.Name)
				continue
			}
			for _, sev := range sevs.EnumeratedValue {
				if sev.Name == nil || sev.Value == nil {
					continue // isDefault
				}
				v, err := sev.Val()
				if err != nil {
					im.warn("%s.%s.%s: %v", r.Name, sf.Name, *sev.Name, err)
					continue
				}
				if v&^bf.Mask() != 0 {
					im.warn("%s.%s.%s: value %#x does not fit", r.Name, sf.Name, *sev.Name, v)
					continue
				}
				name := ident(*sev.Name)
				if bf.Value(name) != nil {
					continue // same value listed for read and write usage
				}
				bv := &Value{Name: name, Value: Num(v)}
				if sev.Description != nil {
					bv.Descr = fixSpaces(*sev.Description)
				}
				bf.Values = append(bf.Values, bv)
			}
		}
		sort.SliceStable(bf.Values, func(i, k int) bool {
			return bf.Values[i].Value < bf.Values[k].Value
		})
		r.Fields = append(r.Fields, bf)
	}
	sort.SliceStable(r.Fields, func(i, k int) bool {
		return r.Fields[i].Offset < r.Fields[k].Offset
	})
}

// ident turns an SVD name into a Go identifier.
func ident(s string) string {
	b := []rune(s)
	for i, r := range b {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			b[i] = '_'
		}
	}
	if len(b) == 0 || unicode.IsDigit(b[0]) {
		b = append([]rune{'_'}, b...)
	}
	return string(b)
}

func fixSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
