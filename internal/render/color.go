// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package render

import "io"

const (
	ansiBold  = "\x1b[1m"
	ansiDim   = "\x1b[2m"
	ansiReset = "\x1b[0m"
)

// IsTerminal reports whether w looks like an interactive terminal, for
// the pretty renderer's auto color detection. A writer that exposes no
// file descriptor (a bytes.Buffer, a pipe) is never a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isTerminalFd(f.Fd())
}
