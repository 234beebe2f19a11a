// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cbor

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/mmioreg/mmiogen/internal/util"
	"github.com/embeddedgo/mmioreg/regdef"
)

const Descr = "pack register definitions into a CBOR bundle"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] DEFS\nOptions:\n", cmd,
		)
		fs.PrintDefaults()
	}
	out := fs.String("o", "", "output `file` (default: DEFS with the .cbor extension)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	in := fs.Arg(0)
	f, err := regdef.Load(in)
	util.FatalErr("", err)
	data, err := regdef.EncodeCBOR(f)
	util.FatalErr("cbor", err)
	util.FatalErr("", util.WriteFile(util.OutName(in, *out, ".cbor"), data))
}
