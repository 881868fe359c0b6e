// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package once

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskRunsOnce(t *testing.T) {
	var task Task
	calls := 0
	for i := 0; i < 5; i++ {
		err := task.Do(func() error {
			calls++
			return nil
		})
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, task.Done())
}

func TestTaskPropagatesError(t *testing.T) {
	var task Task
	want := errors.New("boom")
	assert.Equal(t, want, task.Do(func() error { return want }))
	assert.Equal(t, want, task.Do(func() error { t.Fatal("should not run again"); return nil }))
}

func TestValueMemoizes(t *testing.T) {
	var v Value[int]
	var calls int
	for i := 0; i < 3; i++ {
		got := v.Get(func() int {
			calls++
			return 42
		})
		assert.Equal(t, 42, got)
	}
	assert.Equal(t, 1, calls)
}

func TestValueConcurrentGetIsConsistent(t *testing.T) {
	var v Value[int]
	var wg sync.WaitGroup
	results := make([]int, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = v.Get(func() int { return 7 })
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, 7, r)
	}
}

func TestMapDoIsPerKey(t *testing.T) {
	var m Map
	var calls int
	do := func() error { calls++; return nil }
	assert.NoError(t, m.Do("a", do))
	assert.NoError(t, m.Do("a", do))
	assert.NoError(t, m.Do("b", do))
	assert.Equal(t, 2, calls)
}
