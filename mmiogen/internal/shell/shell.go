// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shell implements an interactive command interpreter that operates
// on registers bound to simulated memory.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/chzyer/readline"

	"github.com/embeddedgo/mmioreg/regdef"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

type command struct {
	args  string
	descr string
	run   func(sh *Shell, args []string) error
	nargs int // minimum number of arguments
}

var commands map[string]*command

var order = []string{
	"regs", "fields", "get", "set", "read", "write", "writev", "poke",
	"reset", "save", "load", "help", "quit",
}

func init() {
	commands = map[string]*command{
		"regs":   {"", "list registers", (*Shell).regs, 0},
		"fields": {"REG", "list fields of REG", (*Shell).fields, 1},
		"get":    {"REG", "read REG", (*Shell).get, 1},
		"set":    {"REG V", "write V to REG", (*Shell).set, 2},
		"read":   {"REG.F", "read field F of REG", (*Shell).read, 1},
		"write":  {"REG.F V|NAME", "write field F, preserve others", (*Shell).write, 2},
		"writev": {"REG F=V|F=NAME|NAME ...", "write fields in one access", (*Shell).writev, 2},
		"poke":   {"REG V", "store V to REG, ignore access mode", (*Shell).poke, 2},
		"reset":  {"", "restore reset values", (*Shell).reset, 0},
		"save":   {"FILE", "save memory as Intel HEX", (*Shell).save, 1},
		"load":   {"FILE", "load memory from Intel HEX", (*Shell).load, 1},
		"help":   {"", "print this help", (*Shell).help, 0},
		"quit":   {"", "exit the shell", (*Shell).quit, 0},
	}
}

// Shell executes commands on s writing results to w.
type Shell struct {
	s *regdef.Sim
	w io.Writer
}

func New(s *regdef.Sim, w io.Writer) *Shell {
	return &Shell{s, w}
}

// Exec executes one command line. Empty lines are ignored.
func (sh *Shell) Exec(line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	c := commands[args[0]]
	if c == nil {
		return fmt.Errorf("unknown command %s (try help)", args[0])
	}
	if len(args)-1 < c.nargs {
		return fmt.Errorf("usage: %s %s", args[0], c.args)
	}
	return c.run(sh, args[1:])
}

// Run reads commands from the terminal until EOF or quit.
func (sh *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.s.File.Package + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		err = sh.Exec(line)
		if err == ErrQuit {
			return nil
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

func (sh *Shell) handle(name string) (*regdef.Handle, error) {
	h := sh.s.Handle(name)
	if h == nil {
		return nil, fmt.Errorf("unknown register %s", name)
	}
	return h, nil
}

// regField splits REG.F.
func (sh *Shell) regField(s string) (*regdef.Handle, string, error) {
	reg, field, ok := strings.Cut(s, ".")
	if !ok {
		return nil, "", fmt.Errorf("%s: want REG.FIELD", s)
	}
	h, err := sh.handle(reg)
	return h, field, err
}

func (sh *Shell) printReg(r *regdef.Register, v uint64) {
	fmt.Fprintf(sh.w, "%s = %#0*x\n", r.Name, int(r.Width/4), v)
}

func (sh *Shell) printField(f *regdef.Field, reg string, v uint64) {
	if name := f.ValueName(v); name != "" {
		fmt.Fprintf(sh.w, "%s.%s = %#x (%s)\n", reg, f.Name, v, name)
		return
	}
	fmt.Fprintf(sh.w, "%s.%s = %#x\n", reg, f.Name, v)
}

func (sh *Shell) regs(args []string) error {
	tw := tabwriter.NewWriter(sh.w, 0, 8, 1, ' ', 0)
	for _, r := range sh.s.File.Registers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", r.Name, r.Addr, r.Width, r.Access, r.Descr)
	}
	return tw.Flush()
}

func (sh *Shell) fields(args []string) error {
	h, err := sh.handle(args[0])
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(sh.w, 0, 8, 1, ' ', 0)
	for _, f := range h.Reg.Fields {
		var names []string
		for _, v := range f.Values {
			names = append(names, v.Name+"="+v.Value.String())
		}
		fmt.Fprintf(tw, "%s\t%d:%d\t%s\t%s\n", f.Name, f.Offset+f.Bits()-1, f.Offset, strings.Join(names, " "), f.Descr)
	}
	return tw.Flush()
}

func (sh *Shell) get(args []string) error {
	h, err := sh.handle(args[0])
	if err != nil {
		return err
	}
	v, err := h.Get()
	if err != nil {
		return err
	}
	sh.printReg(h.Reg, v)
	for _, f := range h.Reg.Fields {
		fv, err := h.Read(f.Name)
		if err != nil {
			return err
		}
		fmt.Fprint(sh.w, "  ")
		sh.printField(f, h.Reg.Name, fv)
	}
	return nil
}

func (sh *Shell) set(args []string) error {
	h, err := sh.handle(args[0])
	if err != nil {
		return err
	}
	v, err := strconv.ParseUint(args[1], 0, 64)
	if err != nil {
		return err
	}
	return h.Set(v)
}

func (sh *Shell) read(args []string) error {
	h, field, err := sh.regField(args[0])
	if err != nil {
		return err
	}
	v, err := h.Read(field)
	if err != nil {
		return err
	}
	sh.printField(h.Reg.Field(field), h.Reg.Name, v)
	return nil
}

func (sh *Shell) write(args []string) error {
	h, field, err := sh.regField(args[0])
	if err != nil {
		return err
	}
	a, err := h.Assign(field, args[1])
	if err != nil {
		return err
	}
	return h.Write(a.Field.Name, a.Value)
}

func (sh *Shell) writev(args []string) error {
	h, err := sh.handle(args[0])
	if err != nil {
		return err
	}
	var as []regdef.Assign
	for _, arg := range args[1:] {
		field, val, ok := strings.Cut(arg, "=")
		if !ok {
			f := valueField(h.Reg, arg)
			if f == nil {
				return fmt.Errorf("%w %s in %s", regdef.ErrUnknownValue, arg, h.Reg.Name)
			}
			field, val = f.Name, arg
		}
		a, err := h.Assign(field, val)
		if err != nil {
			return err
		}
		as = append(as, a)
	}
	return h.WriteValue(as...)
}

// valueField returns the first field of r that has the named value.
func valueField(r *regdef.Register, name string) *regdef.Field {
	for _, f := range r.Fields {
		if f.Value(name) != nil {
			return f
		}
	}
	return nil
}

func (sh *Shell) poke(args []string) error {
	v, err := strconv.ParseUint(args[1], 0, 64)
	if err != nil {
		return err
	}
	return sh.s.Poke(args[0], v)
}

func (sh *Shell) reset(args []string) error {
	return sh.s.Reset()
}

func (sh *Shell) save(args []string) error {
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err = sh.s.Mem.WriteHex(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (sh *Shell) load(args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	return sh.s.Mem.ReadHex(f)
}

func (sh *Shell) help(args []string) error {
	tw := tabwriter.NewWriter(sh.w, 0, 8, 2, ' ', 0)
	for _, name := range order {
		c := commands[name]
		fmt.Fprintf(tw, "%s %s\t%s\n", name, c.args, c.descr)
	}
	return tw.Flush()
}

func (sh *Shell) quit(args []string) error {
	return ErrQuit
}
