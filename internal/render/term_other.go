// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

//go:build !linux

package render

// isTerminalFd has no portable implementation outside the
// unix.IoctlGetTermios path; --color=auto degrades to "never" on
// other platforms rather than guessing.
func isTerminalFd(fd uintptr) bool {
	return false
}
