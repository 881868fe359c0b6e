// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

//go:build linux

package render

import "golang.org/x/sys/unix"

// isTerminalFd reports whether fd refers to a terminal device, probed
// the same way the runner's CPU-pinning code probes Linux-specific
// facilities: an ioctl that only succeeds against a tty.
func isTerminalFd(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}
