// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package once contains utilities for managing actions, and cached
// values, that must be computed at most once.
package once

import (
	"sync"
	"sync/atomic"
)

// Task manages a computation that must be run at most once. It's
// similar to sync.Once, except it also handles and returns errors.
type Task struct {
	mu   sync.Mutex
	done uint32
	err  error
}

// Do runs the function do at most once. Successive invocations of Do
// guarantee exactly one invocation of the function do. Do returns the
// error of do's invocation.
func (o *Task) Do(do func() error) error {
	if atomic.LoadUint32(&o.done) == 1 {
		return o.err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if atomic.LoadUint32(&o.done) == 0 {
		o.err = do()
		atomic.StoreUint32(&o.done, 1)
	}
	return o.err
}

// Done returns whether the task is done.
func (o *Task) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return 1 == atomic.LoadUint32(&o.done)
}

// Value is a lazily-computed value that is memoized after the first
// call to Get. Unlike Task, the compute function cannot fail: it's
// meant for pure calibration-style values such as a timer's precision
// floor, where "compute" always succeeds and concurrent callers racing
// to compute it is benign (the result is the same regardless of which
// caller's computation wins).
type Value[T any] struct {
	mu    sync.Mutex
	done  atomic.Bool
	value T
}

// Get returns the memoized value, computing it via compute on the
// first call. Concurrent first calls may each invoke compute, but only
// one result is retained; this is intentional (see type doc) and
// avoids holding a lock across an expensive calibration.
func (v *Value[T]) Get(compute func() T) T {
	if v.done.Load() {
		return v.value
	}
	result := compute()
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.done.Load() {
		v.value = result
		v.done.Store(true)
	}
	return v.value
}

// Map coordinates actions that must happen exactly once, keyed by
// user-defined keys.
type Map sync.Map

// Do performs the provided action named by a key. Do invokes the
// action exactly once for each key, and returns any errors produced by
// the provided action.
func (m *Map) Do(key interface{}, do func() error) error {
	taskv, _ := (*sync.Map)(m).LoadOrStore(key, new(Task))
	task := taskv.(*Task)
	return task.Do(do)
}

// Forget forgets past computations associated with the provided key.
func (m *Map) Forget(key interface{}) {
	(*sync.Map)(m).Delete(key)
}
