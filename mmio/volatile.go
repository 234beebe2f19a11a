// Copyright 2026 The Embedded Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !tinygo

package mmio

// The gc compiler never inlines, merges or removes calls to the noinline
// functions below, so each call is exactly one access to the register.

//go:noinline
func load[T Bits](p *T) T { return *p }

//go:noinline
func store[T Bits](p *T, v T) { *p = v }
