// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package errs

import (
	"context"
	"fmt"
)

// CleanUp is defer-able syntactic sugar that calls f and reports an
// error, if any, to *err. Pass the caller's named return error:
//
//	func process(name string) (_ int, err error) {
//	  f, err := os.Open(name)
//	  if err != nil { return 0, err }
//	  defer errs.CleanUp(f.Close, &err)
//	  ...
//	}
//
// If the caller already has an error, a cleanup error is chained onto
// it rather than discarded.
func CleanUp(cleanUp func() error, dst *error) {
	addErr(cleanUp(), dst)
}

// CleanUpCtx is CleanUp for a context-ful cleanUp.
func CleanUpCtx(ctx context.Context, cleanUp func(context.Context) error, dst *error) {
	addErr(cleanUp(ctx), dst)
}

func addErr(err2 error, dst *error) {
	if err2 == nil {
		return
	}
	if *dst == nil {
		*dst = err2
		return
	}
	*dst = E(*dst, fmt.Sprintf("second error in Close: %v", err2))
}
