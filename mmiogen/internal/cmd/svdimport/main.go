// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package svdimport

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/embeddedgo/mmioreg/mmiogen/internal/util"
	"github.com/embeddedgo/mmioreg/regdef"
	"github.com/embeddedgo/mmioreg/svd"
)

const Descr = "convert a CMSIS-SVD file to register definitions"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] FILE.svd\nOptions:\n", cmd,
		)
		fs.PrintDefaults()
	}
	periphs := fs.String("p", "", "import only the `peripherals` P1[,P2[,...]]")
	pkg := fs.String("pkg", "", "package `name` (default: lower-cased device name)")
	out := fs.String("o", "", "output `file` (default: FILE with the .yaml extension)")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	in := fs.Arg(0)
	r, err := os.Open(in)
	util.FatalErr("", err)
	dev, err := svd.Decode(r)
	r.Close()
	util.FatalErr(in, err)
	opts := &regdef.SVDOptions{Package: *pkg, Warn: util.Warn}
	if *periphs != "" {
		opts.Peripherals = strings.Split(*periphs, ",")
	}
	f, err := regdef.FromSVD(dev, opts)
	util.FatalErr(in, err)
	if err := f.Validate(); err != nil {
		util.Warn("%s: %v", in, err)
	}
	data, err := regdef.MarshalYAML(f)
	util.FatalErr("yaml", err)
	util.FatalErr("", util.WriteFile(util.OutName(in, *out, ".yaml"), data))
}
