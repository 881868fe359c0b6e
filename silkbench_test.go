// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package silkbench_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/silkbench/silkbench"
	"github.com/silkbench/silkbench/counter"
	"github.com/silkbench/silkbench/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchRegistersAndRuns(t *testing.T) {
	silkbench.Bench("facadetest::plain", func(b *silkbench.Bencher) {
		silkbench.BenchFunc(b, func() int { return 1 + 1 })
	}, silkbench.Options{}.WithSampleCount(2).WithSampleSize(2))

	cfg, err := runner.ParseArgs([]string{"--bench", "^facadetest::plain"})
	require.NoError(t, err)

	var buf bytes.Buffer
	status := runner.Run(cfg, &buf)
	assert.Equal(t, 0, status)
	assert.Contains(t, buf.String(), "plain")
}

func TestBenchArgsRegistersAndRuns(t *testing.T) {
	silkbench.BenchArgs("facadetest::args", []int{1, 2, 4},
		func(n int) string { return "" },
		func(b *silkbench.Bencher, n int) {
			silkbench.BenchFunc(b, func() int { return n * n })
		},
		silkbench.Options{}.WithSampleCount(2).WithSampleSize(2),
	)

	cfg, err := runner.ParseArgs([]string{"--bench", "^facadetest::args"})
	require.NoError(t, err)

	var buf bytes.Buffer
	status := runner.Run(cfg, &buf)
	assert.Equal(t, 0, status)
	assert.Contains(t, buf.String(), "args")
}

func TestBenchGroupSharesOptions(t *testing.T) {
	silkbench.BenchGroup("facadetest::grouped", silkbench.Options{}.WithIgnore(true))
	silkbench.Bench("facadetest::grouped::child", func(b *silkbench.Bencher) {
		silkbench.BenchFunc(b, func() int { return 1 })
	}, silkbench.Options{}.WithSampleCount(2).WithSampleSize(2))

	cfg, err := runner.ParseArgs([]string{"--list", "--bench", "^facadetest::grouped"})
	require.NoError(t, err)
	var buf bytes.Buffer
	status := runner.Run(cfg, &buf)
	assert.Equal(t, 0, status)
	assert.NotContains(t, buf.String(), "child")

	cfg2, err := runner.ParseArgs([]string{"--list", "--include-ignored", "--bench", "^facadetest::grouped"})
	require.NoError(t, err)
	var buf2 bytes.Buffer
	status2 := runner.Run(cfg2, &buf2)
	assert.Equal(t, 0, status2)
	assert.Contains(t, buf2.String(), "child")
}

func TestBenchWithCounterAndThreadsOptions(t *testing.T) {
	silkbench.Bench("facadetest::counted", func(b *silkbench.Bencher) {
		silkbench.BenchFunc(b, func() int { return 1 })
	},
		silkbench.Options{}.
			WithSampleCount(2).
			WithSampleSize(2).
			WithCounter(counter.OfBytes(64)).
			WithThreads(1, 2).
			WithMinTime(time.Millisecond).
			WithMaxTime(time.Second).
			WithSkipExtTime(true),
	)

	cfg, err := runner.ParseArgs([]string{"--format", "json", "--bench", "^facadetest::counted"})
	require.NoError(t, err)
	var buf bytes.Buffer
	status := runner.Run(cfg, &buf)
	assert.Equal(t, 0, status)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
	assert.Contains(t, parsed, "benchmarks")
}

func TestSinkAcceptsAnyType(t *testing.T) {
	assert.NotPanics(t, func() {
		silkbench.Sink(42)
		silkbench.Sink("a string")
		silkbench.Sink([]byte("bytes"))
	})
}
