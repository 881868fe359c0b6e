// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package errs

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// Once captures at most one error. Set is safe to call concurrently
// from many goroutines; only the first non-nil error sticks, which is
// how threads.Traverse reports "the first failure" without a
// mutex-guarded slice.
//
// A zero Once is ready to use.
type Once struct {
	// Ignored lists errors that Set drops rather than capturing.
	Ignored []error
	mu      sync.Mutex
	err     unsafe.Pointer // *error
}

// Err returns the first non-nil error passed to Set, or nil.
func (e *Once) Err() error {
	p := atomic.LoadPointer(&e.err)
	if p == nil {
		return nil
	}
	return *(*error)(p)
}

// Set records err as the instance's error if none has been recorded
// yet. Subsequent calls, and calls with an Ignored error, are no-ops.
func (e *Once) Set(err error) {
	if err == nil {
		return
	}
	for _, ignored := range e.Ignored {
		if err == ignored {
			return
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		atomic.StorePointer(&e.err, unsafe.Pointer(&err))
	}
}
