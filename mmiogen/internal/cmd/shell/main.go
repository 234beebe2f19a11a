// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shell

import (
	"flag"
	"fmt"
	"os"

	"github.com/embeddedgo/mmioreg/mmiogen/internal/shell"
	"github.com/embeddedgo/mmioreg/mmiogen/internal/util"
	"github.com/embeddedgo/mmioreg/regdef"
)

const Descr = "inspect and modify registers in simulated memory"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] DEFS\nOptions:\n", cmd,
		)
		fs.PrintDefaults()
	}
	img := fs.String("img", "", "load the Intel HEX `image` after applying reset values")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	f, err := regdef.Load(fs.Arg(0))
	util.FatalErr("", err)
	s, err := f.Simulate()
	util.FatalErr("simulate", err)
	if *img != "" {
		r, err := os.Open(*img)
		util.FatalErr("", err)
		err = s.Mem.ReadHex(r)
		r.Close()
		util.FatalErr(*img, err)
	}
	util.FatalErr("", shell.New(s, os.Stdout).Run())
}
