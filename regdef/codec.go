// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package regdef

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/embeddedgo/mmioreg/svd"
	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// ParseYAML decodes a definition file from YAML. Unknown keys are errors.
func ParseYAML(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	f := new(File)
	if err := dec.Decode(f); err != nil {
		return nil, fmt.Errorf("parsing register definitions: %w", err)
	}
	return f, nil
}

// MarshalYAML encodes f as YAML.
func MarshalYAML(f *File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("regdef: CBOR encoder mode: %v", err))
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("regdef: CBOR decoder mode: %v", err))
	}
}

// EncodeCBOR encodes f as a compact CBOR bundle with integer map keys.
func EncodeCBOR(f *File) ([]byte, error) {
	return encMode.Marshal(f)
}

// DecodeCBOR decodes a bundle produced by EncodeCBOR.
func DecodeCBOR(data []byte) (*File, error) {
	f := new(File)
	if err := decMode.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("decoding register bundle: %w", err)
	}
	return f, nil
}

// Load reads and validates the definition file name. The format is selected
// by the file extension: .cbor, .svd or .xml (CMSIS-SVD, all peripherals)
// and YAML for anything else.
func Load(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var f *File
	switch strings.ToLower(filepath.Ext(name)) {
	case ".cbor":
		f, err = DecodeCBOR(data)
	case ".svd", ".xml":
		var dev *svd.Device
		dev, err = svd.Decode(bytes.NewReader(data))
		if err == nil {
			f, err = FromSVD(dev, nil)
		}
	default:
		f, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return f, nil
}
