// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Command silkbench is the standalone CLI driver. Most benchmark
// suites instead call silkbench.Main from their own _test.go-adjacent
// package so `go build` produces a single self-contained binary; this
// command exists for ad hoc use and for CI smoke-testing the engine
// itself with no benchmarks registered against it.
package main

import (
	"os"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/pbnjay/memory"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/silkbench/silkbench/internal/runner"
	"github.com/silkbench/silkbench/internal/shutdown"
	"github.com/silkbench/silkbench/internal/slog"
)

func main() {
	os.Exit(run())
}

// run performs the process-wide startup tuning every invocation needs
// before any benchmark is sampled (GOMAXPROCS/GOMEMLIMIT sized to the
// container's actual quota, not the host's full core/memory count, so
// a benchmark run inside a constrained CI container doesn't silently
// over-schedule), then hands off to the runner and runs any shutdown
// hooks registered with internal/shutdown exactly once on every exit
// path.
func run() int {
	defer shutdown.Run()

	if _, err := maxprocs.Set(maxprocs.Logger(slog.Printf)); err != nil {
		slog.Printf("silkbench: adjusting GOMAXPROCS: %v", err)
	}
	if _, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithRatio(0.9),
		memlimit.WithProvider(memlimit.FromSystem),
	); err != nil {
		slog.Printf("silkbench: no cgroup memory limit found, sizing GOMEMLIMIT from total system memory (%d bytes)", memory.TotalMemory())
	}

	return runner.Main()
}
