// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Mmiogen turns register definitions into Go code that uses the mmio
// package and helps to inspect them on a host.
package main

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/embeddedgo/mmioreg/mmiogen/internal/cmd/cbor"
	"github.com/embeddedgo/mmioreg/mmiogen/internal/cmd/gen"
	"github.com/embeddedgo/mmioreg/mmiogen/internal/cmd/hex"
	"github.com/embeddedgo/mmioreg/mmiogen/internal/cmd/shell"
	"github.com/embeddedgo/mmioreg/mmiogen/internal/cmd/svdimport"
)

type tool struct {
	descr string
	main  func(cmd string, args []string)
}

var tools = map[string]tool{
	"cbor":  {cbor.Descr, cbor.Main},
	"gen":   {gen.Descr, gen.Main},
	"hex":   {hex.Descr, hex.Main},
	"shell": {shell.Descr, shell.Main},
	"svd":   {svdimport.Descr, svdimport.Main},
}

func printToolList() {
	names := slices.Sorted(maps.Keys(tools))
	maxLen := 0
	for _, k := range names {
		if maxLen < len(k) {
			maxLen = len(k)
		}
	}
	uw := os.Stderr
	uw.WriteString("Usage:\n  mmiogen COMMAND [ARGUMENTS]\n\n")
	uw.WriteString("Available commands:\n")
	for _, name := range names {
		fmt.Fprintf(uw, "  %*s  %s\n", maxLen, name, tools[name].descr)
	}
}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "-h" {
		printToolList()
		return
	}
	tool, ok := tools[os.Args[1]]
	if !ok {
		printToolList()
		os.Exit(1)
	}
	tool.main(os.Args[1], os.Args[2:])
}
