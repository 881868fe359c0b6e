// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

//go:build !linux

package runner

import "runtime"

// pinCurrentThread locks the calling goroutine to its current OS
// thread. CPU-affinity pinning itself is Linux-only (SchedSetaffinity
// has no portable equivalent); elsewhere this still gets the
// reduced-migration benefit of LockOSThread alone.
func pinCurrentThread() func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
