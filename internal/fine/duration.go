// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package fine implements picosecond-precise duration arithmetic.
//
// Go's time.Duration only resolves to the nanosecond, which is too
// coarse for timing a single benchmark iteration that may run in a
// handful of CPU cycles. Duration carries picoseconds in a 128-bit
// count (represented as two uint64 halves) so that dividing a sample's
// total duration by a large iteration count doesn't immediately
// truncate to zero.
package fine

import (
	"fmt"
	"math/bits"
	"time"
)

// Duration is a non-negative picosecond count. The zero value is zero
// picoseconds. Duration never represents a negative quantity: all
// arithmetic on it saturates rather than wrapping or going negative.
type Duration struct {
	hi, lo uint64
}

// Max is the largest representable Duration: time.Duration's maximum
// value, converted to picoseconds. 1<<63-1 nanoseconds times 1000
// comfortably fits in 128 bits, so this never itself saturates.
var Max = FromCoarse(1<<63 - 1)

// FromPicos constructs a Duration directly from its 128-bit picosecond
// count, given as (high, low) uint64 halves.
func FromPicos(hi, lo uint64) Duration { return Duration{hi: hi, lo: lo} }

// FromCoarse converts a standard-library Duration (nanosecond
// resolution) into a picosecond-resolution Duration, saturating at
// zero for negative input.
func FromCoarse(d time.Duration) Duration {
	if d < 0 {
		return Duration{}
	}
	hi, lo := bits.Mul64(uint64(d), 1000)
	return Duration{hi: hi, lo: lo}
}

// Picos returns the duration as a 128-bit picosecond count, expressed
// as (high, low) uint64 halves.
func (d Duration) Picos() (hi, lo uint64) { return d.hi, d.lo }

// IsZero reports whether d is exactly zero.
func (d Duration) IsZero() bool { return d.hi == 0 && d.lo == 0 }

// Cmp returns -1, 0, or 1 according to whether d is less than, equal
// to, or greater than other.
func (d Duration) Cmp(other Duration) int {
	if d.hi != other.hi {
		if d.hi < other.hi {
			return -1
		}
		return 1
	}
	switch {
	case d.lo < other.lo:
		return -1
	case d.lo > other.lo:
		return 1
	default:
		return 0
	}
}

// Less reports whether d < other.
func (d Duration) Less(other Duration) bool { return d.Cmp(other) < 0 }

// Add returns d+other, saturating at Max.
func (d Duration) Add(other Duration) Duration {
	lo, carry := bits.Add64(d.lo, other.lo, 0)
	hi, carry2 := bits.Add64(d.hi, other.hi, carry)
	sum := Duration{hi: hi, lo: lo}
	if carry2 != 0 || Max.Less(sum) {
		return Max
	}
	return sum
}

// Sub returns the positive difference between d and earlier: zero if
// earlier >= d. This is the clock non-monotonicity guard required of
// timestamp differencing: a CPU timestamp-counter read can retire out
// of order across cores, so callers must never propagate a "negative"
// duration.
func (d Duration) Sub(earlier Duration) Duration {
	if d.Cmp(earlier) <= 0 {
		return Duration{}
	}
	lo, borrow := bits.Sub64(d.lo, earlier.lo, 0)
	hi, _ := bits.Sub64(d.hi, earlier.hi, borrow)
	return Duration{hi: hi, lo: lo}
}

// DivCount divides d by a positive iteration count, returning the
// per-iteration duration. n must be > 0.
func (d Duration) DivCount(n uint64) Duration {
	if n == 0 {
		return d
	}
	hiQuo, hiRem := bits.Div64(0, d.hi, n)
	loQuo, _ := bits.Div64(hiRem, d.lo, n)
	return Duration{hi: hiQuo, lo: loQuo}
}

// MulCount returns d*n, saturating at Max. Used to scale a
// per-iteration overhead by a sample's iteration count.
func (d Duration) MulCount(n uint64) Duration {
	if n == 0 || d.IsZero() {
		return Duration{}
	}
	loHi, loLo := bits.Mul64(d.lo, n)
	hiHi, hiLo := bits.Mul64(d.hi, n)
	sumLo, carry := bits.Add64(loHi, hiLo, 0)
	if hiHi != 0 || carry != 0 {
		return Max
	}
	result := Duration{hi: sumLo, lo: loLo}
	if Max.Less(result) {
		return Max
	}
	return result
}

// Min returns the smaller of d and other.
func Min(d, other Duration) Duration {
	if other.Less(d) {
		return other
	}
	return d
}

// Max2 returns the larger of d and other.
func Max2(d, other Duration) Duration {
	if d.Less(other) {
		return other
	}
	return d
}

// ClampMin returns other if d < other, else d.
func (d Duration) ClampMin(other Duration) Duration {
	if d.Less(other) {
		return other
	}
	return d
}

// AsFloat64Picos returns the duration as a float64 count of
// picoseconds, for use in throughput and formatting arithmetic where
// the tiny relative error of float64 is immaterial.
func (d Duration) AsFloat64Picos() float64 {
	const two64 = 18446744073709551616.0
	return float64(d.hi)*two64 + float64(d.lo)
}

// String formats the duration with 4 significant figures, choosing
// ps/ns/µs/ms/s as appropriate, matching the precision a benchmark
// report needs without dragging in a full fixed-point formatting
// dependency.
func (d Duration) String() string {
	picos := d.AsFloat64Picos()
	switch {
	case picos < 1_000:
		return fmt.Sprintf("%.4gps", picos)
	case picos < 1_000_000:
		return fmt.Sprintf("%.4gns", picos/1_000)
	case picos < 1_000_000_000:
		return fmt.Sprintf("%.4gµs", picos/1_000_000)
	case picos < 1_000_000_000_000:
		return fmt.Sprintf("%.4gms", picos/1_000_000_000)
	default:
		return fmt.Sprintf("%.4gs", picos/1_000_000_000_000)
	}
}

// Duration narrows to a standard-library time.Duration, losing
// sub-nanosecond precision and saturating at time.Duration's maximum.
// Used only by the JSON output layer, which is outside the measurement
// core.
func (d Duration) Duration() time.Duration {
	if d.hi >= 1000 {
		return time.Duration(1<<63 - 1)
	}
	ns, _ := bits.Div64(d.hi, d.lo, 1000)
	if ns > uint64(1<<63-1) {
		return time.Duration(1<<63 - 1)
	}
	return time.Duration(ns)
}
