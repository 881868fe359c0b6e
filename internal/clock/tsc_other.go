// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

//go:build !amd64 && !arm64

package clock

// No usable counter on this architecture: always report unavailable.
func tscSupported() bool { return false }

func readTSC() uint64 { return 0 }
