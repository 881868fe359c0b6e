// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

//go:build linux

package runner

import (
	"runtime"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/silkbench/silkbench/internal/slog"
)

// pinCurrentThread locks the calling goroutine to its current OS
// thread and pins that thread to CPU 0, reducing cross-core migration
// noise in the sample loop's timing. The caller restores the original
// affinity and unlocks the OS thread by calling (or deferring) the
// returned function exactly once; a failed read or set leaves the
// thread unpinned and returns a no-op restorer.
func pinCurrentThread() func() {
	runtime.LockOSThread()

	var original unix.CPUSet
	if err := unix.SchedGetaffinity(0, &original); err != nil {
		slog.Printf("silkbench: reading CPU affinity: %v", err)
		runtime.UnlockOSThread()
		return func() {}
	}

	var pinned unix.CPUSet
	pinned.Set(0)
	if err := unix.SchedSetaffinity(0, &pinned); err != nil {
		slog.Printf("silkbench: pinning to CPU 0: %v", err)
		runtime.UnlockOSThread()
		return func() {}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = unix.SchedSetaffinity(0, &original)
			runtime.UnlockOSThread()
		})
	}
}
