// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package clock

import "sync/atomic"

var sink atomic.Pointer[any]

// Sink discards v in a way the optimizer can't see through, so that
// calibration loops (and the busy-wait in measurePrecision) aren't
// eliminated as dead code. internal/bench's sample loop also sinks
// results through it. The public silkbench.Sink, offered to benchmark
// code, is a separate implementation; this one lives at this low level
// to avoid an import cycle (the root package depends on clock, not the
// reverse).
//
//go:noinline
func Sink[T any](v T) {
	var a any = v
	sink.Store(&a)
}
