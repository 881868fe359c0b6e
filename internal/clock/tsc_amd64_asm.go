// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

//go:build amd64

package clock

// readTSC reads the raw CPU timestamp counter via the RDTSC
// instruction. Implemented in tsc_amd64.s since Go exposes no
// portable RDTSC intrinsic; this is the one spot in the engine where
// architecture-specific assembly is unavoidable, isolated exactly as
// a single read-timestamp function per architecture.
func readTSC() uint64
