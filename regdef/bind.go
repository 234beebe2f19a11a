// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regdef

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/embeddedgo/mmioreg/mmio"
)

var (
	ErrReadOnly     = errors.New("register is read-only")
	ErrWriteOnly    = errors.New("register is write-only")
	ErrUnknownField = errors.New("unknown field")
	ErrUnknownValue = errors.New("unknown value")
	ErrFieldRange   = errors.New("field does not fit in register")
)

// Handle gives width independent access to a register described by a
// Register definition. The operations are delegated to the mmio handle that
// matches the width and the access mode of the register. The capability of
// the handle is fixed by Bind: reading a write-only register returns
// ErrWriteOnly, writing a read-only one returns ErrReadOnly.
//
// As with mmio, the read-modify-write operations are not atomic.
type Handle struct {
	Reg *Register

	get        func() uint64
	read       func(f *Field) uint64
	readValue  func(f *Field) uint64
	set        func(v uint64)
	write      func(f *Field, v uint64)
	writeValue func(as []Assign)
}

// Assign assigns a field-local value to a field.
type Assign struct {
	Field *Field
	Value uint64
}

// Bind returns a handle to the register r located at p. It panics if r has
// a width other than 8, 16, 32 or 64. Fields that do not fit in r make the
// operations on them fail with ErrFieldRange.
func (r *Register) Bind(p unsafe.Pointer) *Handle {
	h := &Handle{Reg: r}
	switch r.Width {
	case 8:
		bind[uint8](h, p)
	case 16:
		bind[uint16](h, p)
	case 32:
		bind[uint32](h, p)
	case 64:
		bind[uint64](h, p)
	default:
		panic(fmt.Sprintf("regdef: %s: bad width %d", r.Name, r.Width))
	}
	return h
}

// BindAddr returns a handle to the register r at its own address.
func (r *Register) BindAddr() *Handle {
	return r.Bind(unsafe.Pointer(uintptr(r.Addr)))
}

func bind[T mmio.Bits](h *Handle, p unsafe.Pointer) {
	field := func(f *Field) mmio.Field[T] {
		return mmio.NewField[T](f.Offset, f.Bits())
	}
	var (
		rd mmio.Readable[T]
		wr mmio.Writable[T]
	)
	switch h.Reg.Access {
	case ReadOnly:
		rd = (*mmio.RO[T])(p)
	case WriteOnly:
		wr = (*mmio.WO[T])(p)
	default:
		r := (*mmio.RW[T])(p)
		rd, wr = r, r
	}
	if rd != nil {
		h.get = func() uint64 { return uint64(rd.Get()) }
		h.read = func(f *Field) uint64 { return uint64(rd.Read(field(f))) }
		h.readValue = func(f *Field) uint64 {
			return uint64(rd.ReadValue(field(f)).Bits())
		}
	}
	if wr != nil {
		h.set = func(v uint64) { wr.Set(T(v)) }
		h.write = func(f *Field, v uint64) { wr.Write(field(f), T(v)) }
		h.writeValue = func(as []Assign) {
			var v mmio.Value[T]
			for _, a := range as {
				v = v.Or(field(a.Field).With(T(a.Value)))
			}
			wr.WriteValue(v)
		}
	}
}

func (h *Handle) field(name string) (*Field, error) {
	f := h.Reg.Field(name)
	if f == nil {
		return nil, fmt.Errorf("%w %s.%s", ErrUnknownField, h.Reg.Name, name)
	}
	return f, h.fits(f)
}

func (h *Handle) fits(f *Field) error {
	if f.Offset >= h.Reg.Width || f.Bits() > h.Reg.Width-f.Offset {
		return fmt.Errorf(
			"%s.%s: offset %d + width %d: %w",
			h.Reg.Name, f.Name, f.Offset, f.Bits(), ErrFieldRange,
		)
	}
	return nil
}

func (h *Handle) readable() error {
	if h.get == nil {
		return fmt.Errorf("%s: %w", h.Reg.Name, ErrWriteOnly)
	}
	return nil
}

func (h *Handle) writable() error {
	if h.set == nil {
		return fmt.Errorf("%s: %w", h.Reg.Name, ErrReadOnly)
	}
	return nil
}

// CanRead reports whether the register can be read through h.
func (h *Handle) CanRead() bool { return h.get != nil }

// CanWrite reports whether the register can be written through h.
func (h *Handle) CanWrite() bool { return h.set != nil }

// Get returns the raw content of the register.
func (h *Handle) Get() (uint64, error) {
	if err := h.readable(); err != nil {
		return 0, err
	}
	return h.get(), nil
}

// Set stores v to the register. The bits of v that do not fit in the
// register are discarded.
func (h *Handle) Set(v uint64) error {
	if err := h.writable(); err != nil {
		return err
	}
	h.set(v)
	return nil
}

// Read returns the value of the named field.
func (h *Handle) Read(name string) (uint64, error) {
	if err := h.readable(); err != nil {
		return 0, err
	}
	f, err := h.field(name)
	if err != nil {
		return 0, err
	}
	return h.read(f), nil
}

// ReadValue returns the value of the named field in register position.
func (h *Handle) ReadValue(name string) (uint64, error) {
	if err := h.readable(); err != nil {
		return 0, err
	}
	f, err := h.field(name)
	if err != nil {
		return 0, err
	}
	return h.readValue(f), nil
}

// Write stores v to the named field. Other fields of a read-write register
// are preserved, other fields of a write-only register are zeroed.
func (h *Handle) Write(name string, v uint64) error {
	if err := h.writable(); err != nil {
		return err
	}
	f, err := h.field(name)
	if err != nil {
		return err
	}
	h.write(f, v)
	return nil
}

// WriteValue stores all assignments with one register write.
func (h *Handle) WriteValue(as ...Assign) error {
	if err := h.writable(); err != nil {
		return err
	}
	for _, a := range as {
		if a.Field == nil {
			return fmt.Errorf("%w in %s", ErrUnknownField, h.Reg.Name)
		}
		if err := h.fits(a.Field); err != nil {
			return err
		}
	}
	h.writeValue(as)
	return nil
}

// Assign returns the assignment of the named value or of the number val to
// the named field. A named value takes precedence.
func (h *Handle) Assign(field, val string) (Assign, error) {
	f, err := h.field(field)
	if err != nil {
		return Assign{}, err
	}
	if nv := f.Value(val); nv != nil {
		return Assign{f, uint64(nv.Value)}, nil
	}
	n, err := parseNum(val)
	if err != nil {
		return Assign{}, fmt.Errorf("%w %s for %s.%s", ErrUnknownValue, val, h.Reg.Name, field)
	}
	return Assign{f, n}, nil
}
