// Copyright 2019 Michal Derkacz. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package svd decodes the subset of the CMSIS-SVD format that describes
// registers, their fields and enumerated field values.
package svd

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

type Uint uint

func (u *Uint) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := parseUint(s, 0)
	*u = Uint(v)
	return err
}

type Uint64 uint64

func (u *Uint64) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var s string
	if err := d.DecodeElement(&s, &start); err != nil {
		return err
	}
	v, err := parseUint(s, 64)
	*u = Uint64(v)
	return err
}

// parseUint handles the SVD scaledNonNegativeInteger forms: decimal, 0x hex
// and #binary.
func parseUint(s string, bitSize int) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return strconv.ParseUint(s[1:], 2, bitSize)
	}
	if strings.HasPrefix(s, "0X") {
		s = "0x" + s[2:]
	}
	return strconv.ParseUint(s, 0, bitSize)
}

type Device struct {
	Name        string `xml:"name"`
	Version     string `xml:"version"`
	Description string `xml:"description"`
	Width       Uint   `xml:"width"`
	*RegisterPropertiesGroup
	Peripherals []*Peripheral `xml:"peripherals>peripheral"`
}

// Decode reads an SVD device description from r.
func Decode(r io.Reader) (*Device, error) {
	dev := new(Device)
	if err := xml.NewDecoder(r).Decode(dev); err != nil {
		return nil, err
	}
	return dev, nil
}

// RegisterPropertiesGroup holds the properties inherited by registers from
// the enclosing device, peripheral or cluster.
type RegisterPropertiesGroup struct {
	Size       *Uint   `xml:"size"`
	Access     *string `xml:"access"`
	ResetValue *Uint64 `xml:"resetValue"`
	ResetMask  *Uint64 `xml:"resetMask"`
}

type Peripheral struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	GroupName   *string `xml:"groupName"`
	BaseAddress Uint64  `xml:"baseAddress"`
	*RegisterPropertiesGroup
	Registers []*Register `xml:"registers>register"`
	Clusters  []*Cluster  `xml:"registers>cluster"`
}

type DimElementGroup struct {
	Dim          Uint    `xml:"dim"`
	DimIncrement Uint    `xml:"dimIncrement"`
	DimIndex     *string `xml:"dimIndex"`
}

// Indices returns the names substituted for %s in the names of the dim
// elements. Without dimIndex they are 0, 1, ..., Dim-1. The dimIndex forms
// A,B,C and 3-6 are supported.
func (g *DimElementGroup) Indices() ([]string, error) {
	n := int(g.Dim)
	if g.DimIndex == nil {
		idx := make([]string, n)
		for i := range idx {
			idx[i] = strconv.Itoa(i)
		}
		return idx, nil
	}
	s := strings.TrimSpace(*g.DimIndex)
	var idx []string
	if a, b, ok := strings.Cut(s, "-"); ok && !strings.Contains(s, ",") {
		lo, err1 := strconv.Atoi(a)
		hi, err2 := strconv.Atoi(b)
		if err1 != nil || err2 != nil || hi < lo {
			return nil, errors.New("bad dimIndex: " + s)
		}
		for i := lo; i <= hi; i++ {
			idx = append(idx, strconv.Itoa(i))
		}
	} else {
		for _, e := range strings.Split(s, ",") {
			idx = append(idx, strings.TrimSpace(e))
		}
	}
	if len(idx) != n {
		return nil, errors.New("dimIndex does not match dim: " + s)
	}
	return idx, nil
}

type Register struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name          string  `xml:"name"`
	Description   *string `xml:"description"`
	AddressOffset Uint64  `xml:"addressOffset"`
	*RegisterPropertiesGroup
	Fields []*Field `xml:"fields>field"`
}

type Cluster struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	DimElementGroup
	Name          string  `xml:"name"`
	Description   *string `xml:"description"`
	AddressOffset Uint64  `xml:"addressOffset"`
	*RegisterPropertiesGroup
	Registers []*Register `xml:"register"`
	Clusters  []*Cluster  `xml:"cluster"`
}

type Field struct {
	DerivedFrom *string `xml:"derivedFrom,attr"`
	Name        string  `xml:"name"`
	Description *string `xml:"description"`
	*BitRangeOffsetWidth
	*BitRangeLSBMSB
	BitRangePattern  *string            `xml:"bitRange"`
	Access           *string            `xml:"access"`
	EnumeratedValues []*EnumeratedValues `xml:"enumeratedValues"`
}

type BitRangeOffsetWidth struct {
	BitOffset Uint  `xml:"bitOffset"`
	BitWidth  *Uint `xml:"bitWidth"`
}

type BitRangeLSBMSB struct {
	LSB Uint `xml:"lsb"`
	MSB Uint `xml:"msb"`
}

var ErrBitRange = errors.New("bad bit range")

// BitRange returns the offset and the width of f whichever of the three SVD
// forms is used to describe it. The width defaults to 1.
func (f *Field) BitRange() (offset, width uint, err error) {
	switch {
	case f.BitRangeOffsetWidth != nil:
		width = 1
		if w := f.BitRangeOffsetWidth.BitWidth; w != nil {
			width = uint(*w)
		}
		return uint(f.BitOffset), width, nil
	case f.BitRangeLSBMSB != nil:
		lsb, msb := uint(f.LSB), uint(f.MSB)
		if msb < lsb {
			return 0, 0, ErrBitRange
		}
		return lsb, msb - lsb + 1, nil
	case f.BitRangePattern != nil:
		s := strings.TrimSpace(*f.BitRangePattern)
		if len(s) < 5 || s[0] != '[' || s[len(s)-1] != ']' {
			return 0, 0, ErrBitRange
		}
		a, b, ok := strings.Cut(s[1:len(s)-1], ":")
		if !ok {
			return 0, 0, ErrBitRange
		}
		msb, err1 := strconv.ParseUint(a, 10, 8)
		lsb, err2 := strconv.ParseUint(b, 10, 8)
		if err1 != nil || err2 != nil || msb < lsb {
			return 0, 0, ErrBitRange
		}
		return uint(lsb), uint(msb-lsb) + 1, nil
	}
	return 0, 0, ErrBitRange
}

type EnumeratedValues struct {
	DerivedFrom     *string            `xml:"derivedFrom,attr"`
	Name            *string            `xml:"name"`
	Usage           *string            `xml:"usage"`
	EnumeratedValue []*EnumeratedValue `xml:"enumeratedValue"`
}

type EnumeratedValue struct {
	Name        *string `xml:"name"`
	Description *string `xml:"description"`
	Value       *string `xml:"value"`
	IsDefault   *bool   `xml:"isDefault"`
}

var ErrNilValue = errors.New("nil value")

// Val returns the value of ev. The binary form with "do not care" bits
// (#1x0x) is accepted and the x bits are taken as zeros.
func (ev *EnumeratedValue) Val() (uint64, error) {
	if ev.Value == nil {
		return 0, ErrNilValue
	}
	s := strings.TrimSpace(*ev.Value)
	if strings.HasPrefix(s, "#") {
		s = strings.ReplaceAll(s, "x", "0")
	}
	return parseUint(s, 64)
}
