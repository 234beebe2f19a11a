// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hex

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/mmioreg/mmiogen/internal/util"
	"github.com/embeddedgo/mmioreg/regdef"
)

const Descr = "write the reset values of registers in the Intel HEX format"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] DEFS\nOptions:\n", cmd,
		)
		fs.PrintDefaults()
	}
	out := fs.String("o", "", "output `file` (default: DEFS with the .hex extension)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	in := fs.Arg(0)
	f, err := regdef.Load(in)
	util.FatalErr("", err)
	s, err := f.Simulate()
	util.FatalErr("simulate", err)
	var buf bytes.Buffer
	util.FatalErr("dumpintelhex", s.Mem.WriteHex(&buf))
	util.FatalErr("", util.WriteFile(util.OutName(in, *out, ".hex"), buf.Bytes()))
}
