// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package alloc implements the allocation profiler: per-worker-slot
// allocate/free/grow/shrink tallies, reclaimed across worker
// lifetimes rather than freed, per spec.md §4.4.
//
// Go offers no GlobalAlloc-style interception hook the way Rust does,
// so tallies here are driven by runtime.ReadMemStats deltas bracketing
// each sample rather than a wrapped allocator: Mallocs/Frees deltas
// give alloc/dealloc counts, and the TotalAlloc delta gives the
// allocated size; freed sizes are not recorded.
// This is process-wide, not literally per-OS-thread (Go has no
// portable user-level TLS), so "thread-local lookup" becomes
// "explicit per-worker-slot registration": the runner acquires one
// *ThreadAllocInfo per benchmark entry and hands it to that entry's
// sample loop. threads.Cohort workers run without one; a cohort sample
// is bracketed once around the whole fan-out instead.
package alloc

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Op enumerates the allocator operations a tally tracks.
type Op int

const (
	Alloc Op = iota
	Dealloc
	Grow
	Shrink
	numOps
)

// Realloc maps a size change to Grow or Shrink.
func Realloc(shrink bool) Op {
	if shrink {
		return Shrink
	}
	return Grow
}

// Tally is a count-and-size pair, updated with relaxed atomics so
// concurrent samplers never contend on a lock.
type Tally struct {
	count atomic.Uint64
	size  atomic.Uint64
}

// Add records one operation of the given byte size.
func (t *Tally) Add(size uint64) {
	t.count.Add(1)
	t.size.Add(size)
}

// Count returns the tally's accumulated operation count.
func (t *Tally) Count() uint64 { return t.count.Load() }

// Size returns the tally's accumulated byte size.
func (t *Tally) Size() uint64 { return t.size.Load() }

// reset zeroes the tally. Tallies are otherwise never decremented;
// reset is only called between benchmark runs, never mid-sample.
func (t *Tally) reset() {
	t.count.Store(0)
	t.size.Store(0)
}

// TallyMap holds one Tally per Op.
type TallyMap [numOps]Tally

// Tally returns the tally for op.
func (m *TallyMap) Tally(op Op) *Tally { return &m[op] }

func (m *TallyMap) reset() {
	for i := range m {
		m[i].reset()
	}
}

// ThreadAllocInfo is a per-worker-slot allocation record. next links
// every live-or-reclaimable record into the append-only all-threads
// list; reuseNext links reclaimed records into the free-list.
type ThreadAllocInfo struct {
	tallies   TallyMap
	next      atomic.Pointer[ThreadAllocInfo]
	reuseNext atomic.Pointer[ThreadAllocInfo]
}

// Tallies returns the record's tally map.
func (info *ThreadAllocInfo) Tallies() *TallyMap { return &info.tallies }

// Profiler owns the append-only all-threads list, the reuse
// free-list, and a process-wide singleton record used as a fallback
// when a new record can't be obtained.
type Profiler struct {
	head     atomic.Pointer[ThreadAllocInfo] // all-threads list head
	freeHead atomic.Pointer[ThreadAllocInfo] // reuse free-list head
	fallback ThreadAllocInfo
	mu       sync.Mutex // guards Reset's walk of the all-threads list
}

// NewProfiler constructs an empty Profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// Acquire obtains a ThreadAllocInfo for a new worker slot: first from
// the reuse free-list (lock-free CAS pop), else a freshly allocated
// record CAS-pushed onto the all-threads list. It never returns the
// process-wide singleton record; that record is only reachable through
// Fallback.
func (p *Profiler) Acquire() *ThreadAllocInfo {
	if info := p.popFree(); info != nil {
		return info
	}
	info := &ThreadAllocInfo{}
	p.pushAll(info)
	return info
}

// Release returns info to the reuse free-list for a later worker to
// pick up, rather than discarding it — matching spec.md's "pushed to
// the reuse free-list rather than freed" lifetime rule.
func (p *Profiler) Release(info *ThreadAllocInfo) {
	if info == &p.fallback {
		return
	}
	for {
		old := p.freeHead.Load()
		info.reuseNext.Store(old)
		if p.freeHead.CompareAndSwap(old, info) {
			return
		}
	}
}

func (p *Profiler) popFree() *ThreadAllocInfo {
	for {
		head := p.freeHead.Load()
		if head == nil {
			return nil
		}
		next := head.reuseNext.Load()
		if p.freeHead.CompareAndSwap(head, next) {
			return head
		}
	}
}

func (p *Profiler) pushAll(info *ThreadAllocInfo) {
	for {
		head := p.head.Load()
		info.next.Store(head)
		if p.head.CompareAndSwap(head, info) {
			return
		}
	}
}

// Fallback returns the process-wide singleton record used when a
// worker-specific record is unavailable.
func (p *Profiler) Fallback() *ThreadAllocInfo { return &p.fallback }

// All calls fn for every record ever created, including the
// singleton fallback. Safe to call at any time; the all-threads list
// is append-only.
func (p *Profiler) All(fn func(*ThreadAllocInfo)) {
	fn(&p.fallback)
	for n := p.head.Load(); n != nil; n = n.next.Load() {
		fn(n)
	}
}

// Reset zeroes every tally on every record, readying the profiler for
// a fresh set of samples. Called once per benchmark run, never
// mid-sample.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.All(func(info *ThreadAllocInfo) { info.tallies.reset() })
}

// Sample records the current process-wide runtime.MemStats deltas
// into info's Alloc/Dealloc tallies, bracketing one sample: call
// Begin before the timed region and End after.
type Sample struct {
	info             *ThreadAllocInfo
	mallocs, frees   uint64
	totalAlloc       uint64
}

// Begin snapshots runtime.MemStats counters for info, to be
// differenced by End. ReadMemStats itself is not timed: callers use
// Begin/End outside the sample loop's fenced region.
func Begin(info *ThreadAllocInfo) Sample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return Sample{info: info, mallocs: ms.Mallocs, frees: ms.Frees, totalAlloc: ms.TotalAlloc}
}

// Delta is a count-and-size pair observed during a single bracketed
// Sample, as opposed to Tally's running cumulative total.
type Delta struct {
	Count uint64
	Size  uint64
}

// SampleDelta holds the Alloc/Dealloc deltas observed during one
// Begin/End bracket, for the stats aggregator's per-sample series.
type SampleDelta struct {
	Alloc   Delta
	Dealloc Delta
}

// End reads runtime.MemStats again, records the delta since Begin into
// info's running Alloc/Dealloc tallies, and returns that same delta
// for the caller's per-sample series. Grow/Shrink have no
// runtime.MemStats analogue (Go's allocator doesn't expose realloc as
// a distinct event) and are left for callers that model growth
// explicitly, e.g. a counter-driven benchmark that reports its own
// buffer growth via Tally.Add.
func (s Sample) End() SampleDelta {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	var delta SampleDelta
	if mallocs := ms.Mallocs - s.mallocs; mallocs > 0 {
		avgSize := uint64(0)
		if totalDelta := ms.TotalAlloc - s.totalAlloc; totalDelta > 0 {
			avgSize = totalDelta / mallocs
		}
		delta.Alloc = Delta{Count: mallocs, Size: avgSize * mallocs}
		s.info.tallies.Tally(Alloc).count.Add(mallocs)
		s.info.tallies.Tally(Alloc).size.Add(avgSize * mallocs)
	}
	if frees := ms.Frees - s.frees; frees > 0 {
		delta.Dealloc = Delta{Count: frees}
		s.info.tallies.Tally(Dealloc).count.Add(frees)
	}
	return delta
}
