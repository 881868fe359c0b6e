// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package shutdown implements a global process finalize mechanism:
// callbacks added with Register run once, newest first, when Run is
// called. cmd/silkbench calls Run on exit; nothing in this module
// registers a callback itself (the runner restores CPU affinity with
// its own defer). It's a separate package so that internal/runner and cmd/silkbench
// don't need a direct import cycle to share it.
package shutdown

import "sync"

// Func is the type of function run on shutdown.
type Func func()

var (
	mu    sync.Mutex
	funcs []Func
)

// Register registers a function to be run by Run. Callbacks run in
// the reverse order of registration, so the most recently acquired
// resource is released first.
func Register(f Func) {
	mu.Lock()
	funcs = append(funcs, f)
	mu.Unlock()
}

// Run runs callbacks added by Register, then clears the registry so a
// second call to Run (as from a test harness running multiple
// sub-benchmarks in one process) doesn't re-run them.
func Run() {
	mu.Lock()
	fns := funcs
	funcs = nil
	mu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
