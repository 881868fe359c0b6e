// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

//go:build amd64

package clock

import "github.com/klauspost/cpuid/v2"

// tscSupported reports whether this CPU exposes an invariant,
// steady TSC suitable for benchmarking: RDTSC/RDTSCP present and the
// invariant-TSC feature bit set (the counter runs at a constant rate
// regardless of P-state/C-state transitions).
func tscSupported() bool {
	return cpuid.CPU.Supports(cpuid.RDTSCP, cpuid.INVARIANT_TSC)
}
