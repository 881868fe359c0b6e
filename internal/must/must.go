// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package must provides a handful of functions to express fatal
// assertions. It's meant for invariants that can only be violated by
// a bug in this module itself (never by user input, which should be
// reported as a config error instead), so the only sane response is
// to stop the process.
package must

import (
	"fmt"

	"github.com/silkbench/silkbench/internal/slog"
)

// Func is called to report an error and interrupt execution. It
// defaults to slog.Panic. Tests may override it to assert on the
// message instead of crashing.
var Func func(...interface{}) = slog.Panic

// Nil asserts that v is nil; v is typically a value of type error. If
// v is not nil, Nil formats a message in the manner of fmt.Sprint and
// calls Func, suffixed with v itself.
func Nil(v interface{}, args ...interface{}) {
	if v == nil {
		return
	}
	if len(args) == 0 {
		Func(v)
		return
	}
	Func(fmt.Sprint(args...), ": ", v)
}

// Nilf is Nil with a fmt.Sprintf-style message.
func Nilf(v interface{}, format string, args ...interface{}) {
	if v == nil {
		return
	}
	Func(fmt.Sprintf(format, args...), ": ", v)
}

// True is a no-op if b is true; otherwise it calls Func.
func True(b bool, v ...interface{}) {
	if b {
		return
	}
	if len(v) == 0 {
		Func("must: assertion failed")
		return
	}
	Func(v...)
}

// Truef is True with a fmt.Sprintf-style message.
func Truef(x bool, format string, v ...interface{}) {
	if x {
		return
	}
	Func(fmt.Sprintf(format, v...))
}

// Never asserts that it is never called.
func Never(v ...interface{}) {
	Func(v...)
}

// Neverf is Never with a fmt.Sprintf-style message.
func Neverf(format string, v ...interface{}) {
	Func(fmt.Sprintf(format, v...))
}
