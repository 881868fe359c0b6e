// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package fastconv provides zero-copy byte/string conversions used by
// the Chars counter's fast path, where allocating a copy per sample
// iteration would dwarf the cost of whatever is being measured.
package fastconv

import "unsafe"

// BytesToString casts src to a string without copying. The returned
// string aliases src's backing array: it must not be used after src
// is mutated.
func BytesToString(src []byte) string {
	return unsafe.String(unsafe.SliceData(src), len(src))
}

// StringToBytes casts src to []byte without copying. The returned
// slice aliases src's backing array and must never be written to;
// Go strings are immutable and the runtime may place src in
// read-only memory.
func StringToBytes(src string) []byte {
	return unsafe.Slice(unsafe.StringData(src), len(src))
}
