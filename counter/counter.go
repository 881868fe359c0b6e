// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package counter implements the type-erased per-iteration "work
// unit" counters (bytes, items, chars) and their throughput
// formatting, per spec.md §4.5.
package counter

import (
	"fmt"
	"unicode/utf8"

	"github.com/silkbench/silkbench/internal/fastconv"
)

// Kind names the closed set of counter kinds this engine supports.
type Kind int

const (
	Bytes Kind = iota
	Items
	Chars
)

func (k Kind) String() string {
	switch k {
	case Bytes:
		return "bytes"
	case Items:
		return "items"
	case Chars:
		return "chars"
	default:
		return "unknown"
	}
}

// Counter is a type-erased per-iteration work unit: n units processed
// by one call to the benchmarked closure. The public API is
// polymorphic over integer widths but normalizes to uint64
// internally, matching spec.md's "public API is polymorphic ...
// normalizes to unsigned 64-bit internally".
type Counter struct {
	kind Kind
	n    uint64
}

// OfBytes constructs a Bytes counter from any unsigned-convertible
// integer width.
func OfBytes[N Unsigned](n N) Counter { return Counter{Bytes, uint64(n)} }

// OfItems constructs an Items counter.
func OfItems[N Unsigned](n N) Counter { return Counter{Items, uint64(n)} }

// OfChars constructs a Chars counter from an already-known rune count.
func OfChars[N Unsigned](n N) Counter { return Counter{Chars, uint64(n)} }

// OfCharsFromBytes constructs a Chars counter by counting the UTF-8
// runes in b directly, without the copy a conversion to string would
// otherwise force: b is reinterpreted in place for the rune count and
// never retained past this call, so the aliasing fastconv's zero-copy
// cast requires is safe here even though b is normally mutable.
func OfCharsFromBytes(b []byte) Counter {
	return Counter{Chars, uint64(utf8.RuneCountInString(fastconv.BytesToString(b)))}
}

// Unsigned constrains the integer widths Counter constructors accept.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Kind returns the counter's kind.
func (c Counter) Kind() Kind { return c.kind }

// N returns the counter's unit count, normalized to uint64.
func (c Counter) N() uint64 { return c.n }

// BytesFormat selects how Bytes counters render their throughput
// scale suffix.
type BytesFormat int

const (
	// Binary uses KiB/MiB/GiB (powers of 1024).
	Binary BytesFormat = iota
	// Decimal uses KB/MB/GB (powers of 1000).
	Decimal
)

var bytesFormat = Binary

// SetBytesFormat selects the global Bytes throughput format. It
// affects every subsequent call to FormatThroughput for a Bytes
// counter.
func SetBytesFormat(f BytesFormat) { bytesFormat = f }

// FormatThroughput renders n units processed over t picoseconds as a
// rate string with an appropriate scale suffix: n·10¹²/t units per
// second, scaled.
func (c Counter) FormatThroughput(picos float64) string {
	if picos <= 0 {
		return "n/a"
	}
	perSec := float64(c.n) * 1e12 / picos
	switch c.kind {
	case Bytes:
		return formatBytesRate(perSec)
	case Chars:
		return formatScaled(perSec, "char/s", decimalScales)
	default:
		return formatScaled(perSec, "/s", decimalScales)
	}
}

var decimalScales = []scale{
	{1e9, "G"}, {1e6, "M"}, {1e3, "K"}, {1, ""},
}

var binaryScales = []scale{
	{1 << 30, "Gi"}, {1 << 20, "Mi"}, {1 << 10, "Ki"}, {1, ""},
}

type scale struct {
	factor float64
	suffix string
}

func formatBytesRate(bytesPerSec float64) string {
	scales := decimalScales
	unit := "B/s"
	if bytesFormat == Binary {
		scales = binaryScales
	}
	return formatScaled(bytesPerSec, unit, scales)
}

func formatScaled(v float64, unit string, scales []scale) string {
	for _, s := range scales {
		if v >= s.factor {
			return fmt.Sprintf("%.4g %s%s", v/s.factor, s.suffix, unit)
		}
	}
	return fmt.Sprintf("%.4g %s", v, unit)
}
