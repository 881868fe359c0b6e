// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package errs_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/silkbench/silkbench/internal/errs"
	"github.com/stretchr/testify/require"
)

func TestOnce(t *testing.T) {
	var e errs.Once
	require.NoError(t, e.Err())

	e.Set(errs.New("testerror"))
	require.EqualError(t, e.Err(), "testerror")
	e.Set(errs.New("testerror2")) // ignored
	require.EqualError(t, e.Err(), "testerror")
	runtime.GC()
	require.EqualError(t, e.Err(), "testerror")
}

func BenchmarkOnceSet(b *testing.B) {
	var e errs.Once
	err := errs.New("testerror")
	for i := 0; i < b.N; i++ {
		e.Set(err)
	}
}

func ExampleOnce() {
	var e errs.Once
	fmt.Printf("Error: %v\n", e.Err())
	e.Set(errs.New("test error 0"))
	fmt.Printf("Error: %v\n", e.Err())
	e.Set(errs.New("test error 1"))
	fmt.Printf("Error: %v\n", e.Err())
	// Output:
	// Error: <nil>
	// Error: test error 0
	// Error: test error 0
}
