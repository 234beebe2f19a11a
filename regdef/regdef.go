// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regdef describes memory-mapped registers declaratively.
//
// A File lists registers, each with an access mode, a width, an address and
// a set of bit-fields that may have named values. Files are read from YAML,
// CBOR or CMSIS-SVD, checked with Validate and turned into Go source that
// uses package mmio by Generate. Bind and Simulate give dynamic access to
// the described registers.
package regdef

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is a set of register definitions that make up one Go package.
type File struct {
	Package   string      `yaml:"package" cbor:"1,keyasint"`
	Descr     string      `yaml:"description,omitempty" cbor:"2,keyasint,omitempty"`
	Registers []*Register `yaml:"registers" cbor:"3,keyasint"`
}

// Register returns the register with the given name or nil.
func (f *File) Register(name string) *Register {
	for _, r := range f.Registers {
		if r != nil && r.Name == name {
			return r
		}
	}
	return nil
}

// Register describes a register. Width is in bits, Addr is the absolute
// address and Reset the content after reset.
type Register struct {
	Name   string   `yaml:"name" cbor:"1,keyasint"`
	Descr  string   `yaml:"description,omitempty" cbor:"2,keyasint,omitempty"`
	Access Access   `yaml:"access" cbor:"3,keyasint"`
	Width  uint     `yaml:"width" cbor:"4,keyasint"`
	Addr   Num      `yaml:"address" cbor:"5,keyasint"`
	Reset  Num      `yaml:"reset,omitempty" cbor:"6,keyasint,omitempty"`
	Fields []*Field `yaml:"fields,omitempty" cbor:"7,keyasint,omitempty"`
}

// Field returns the field with the given name or nil.
func (r *Register) Field(name string) *Field {
	for _, f := range r.Fields {
		if f != nil && f.Name == name {
			return f
		}
	}
	return nil
}

// Mask returns the mask of all bits of r.
func (r *Register) Mask() uint64 {
	if r.Width >= 64 {
		return ^uint64(0)
	}
	return 1<<r.Width - 1
}

// Field is a bit-field of a register. Width 0 means 1.
type Field struct {
	Name   string   `yaml:"name" cbor:"1,keyasint"`
	Descr  string   `yaml:"description,omitempty" cbor:"2,keyasint,omitempty"`
	Offset uint     `yaml:"offset" cbor:"3,keyasint"`
	Width  uint     `yaml:"width,omitempty" cbor:"4,keyasint,omitempty"`
	Values []*Value `yaml:"values,omitempty" cbor:"5,keyasint,omitempty"`
}

// Bits returns the number of bits in f.
func (f *Field) Bits() uint {
	if f.Width == 0 {
		return 1
	}
	return f.Width
}

// Mask returns the field-local mask of f (not shifted to its offset).
func (f *Field) Mask() uint64 {
	if f.Bits() >= 64 {
		return ^uint64(0)
	}
	return 1<<f.Bits() - 1
}

// Value returns the named value with the given name or nil.
func (f *Field) Value(name string) *Value {
	for _, v := range f.Values {
		if v != nil && v.Name == name {
			return v
		}
	}
	return nil
}

// ValueName returns the name of the first named value of f equal to v or an
// empty string.
func (f *Field) ValueName(v uint64) string {
	for _, nv := range f.Values {
		if nv != nil && uint64(nv.Value) == v {
			return nv.Name
		}
	}
	return ""
}

// Value is a named value of a field.
type Value struct {
	Name  string `yaml:"name" cbor:"1,keyasint"`
	Descr string `yaml:"description,omitempty" cbor:"2,keyasint,omitempty"`
	Value Num    `yaml:"value" cbor:"3,keyasint"`
}

// Access is the access mode of a register. The zero value is ReadWrite.
type Access uint8

const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

var accessNames = [...]string{"ReadWrite", "ReadOnly", "WriteOnly"}

func (a Access) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return "Access(" + strconv.Itoa(int(a)) + ")"
}

// CanRead reports whether a register with access mode a can be read.
func (a Access) CanRead() bool { return a != WriteOnly }

// CanWrite reports whether a register with access mode a can be written.
func (a Access) CanWrite() bool { return a != ReadOnly }

// ParseAccess parses the access mode names used in definition files:
// ReadOnly, WriteOnly, ReadWrite (any case) and the short forms ro, r, wo,
// w, rw.
func ParseAccess(s string) (Access, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "readwrite", "rw", "":
		return ReadWrite, nil
	case "readonly", "ro", "r":
		return ReadOnly, nil
	case "writeonly", "wo", "w":
		return WriteOnly, nil
	}
	return 0, fmt.Errorf("unknown access mode %q", s)
}

func (a Access) MarshalText() ([]byte, error) {
	if int(a) >= len(accessNames) {
		return nil, fmt.Errorf("bad access mode %d", a)
	}
	return []byte(a.String()), nil
}

func (a *Access) UnmarshalText(text []byte) error {
	v, err := ParseAccess(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Num is an unsigned number written in definition files using the Go
// integer literal syntax (0x3F20_0000, 0b101, 0o17, 42).
type Num uint64

func (n *Num) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: number expected", node.Line)
	}
	v, err := strconv.ParseUint(node.Value, 0, 64)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*n = Num(v)
	return nil
}

func (n Num) MarshalYAML() (any, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: n.String()}, nil
}

func (n Num) String() string {
	return "0x" + strings.ToUpper(strconv.FormatUint(uint64(n), 16))
}
