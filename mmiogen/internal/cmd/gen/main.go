// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/embeddedgo/mmioreg/mmiogen/internal/util"
	"github.com/embeddedgo/mmioreg/regdef"
)

const Descr = "generate Go register definitions"

func Main(cmd string, args []string) {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\n  %s [OPTIONS] DEFS...\nOptions:\n", cmd,
		)
		fs.PrintDefaults()
	}
	pkg := fs.String("p", "", "override the package `name` of the definitions")
	out := fs.String("o", "", "output `file` (default: DEFS with the .go extension)")
	fs.Parse(args)
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}
	if *out != "" && fs.NArg() != 1 {
		util.Fatal("%s: -o requires exactly one DEFS file", cmd)
	}
	wg := new(sync.WaitGroup)
	wg.Add(fs.NArg())
	for _, in := range fs.Args() {
		go gen(in, *out, *pkg, wg)
	}
	wg.Wait()
}

func gen(in, out, pkg string, wg *sync.WaitGroup) {
	defer wg.Done()
	f, err := regdef.Load(in)
	util.FatalErr("", err)
	if pkg != "" {
		f.Package = pkg
	}
	code, err := regdef.Generate(f, filepath.Base(in))
	util.FatalErr(in, err)
	name := util.OutName(in, out, ".go")
	src, err := regdef.Format(name, code)
	if err != nil {
		// Keep the unformatted output for debugging the generator.
		util.WriteFile(name+".broken", code)
		util.FatalErr("format", err)
	}
	util.FatalErr("", util.WriteFile(name, src))
}
