// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package render

import (
	"fmt"
	"io"

	"github.com/silkbench/silkbench/internal/tree"
)

// Terse renders one line per leaf — its fully-qualified "::"-joined
// path followed by its median and mean, tab-separated, with no tree
// branches or box-drawing. Meant for piping into another tool rather
// than for a human scanning a terminal.
func Terse(w io.Writer, roots []*tree.Entry, results Results) error {
	for _, n := range roots {
		if err := terseNode(w, n, "", results); err != nil {
			return err
		}
	}
	return nil
}

func terseNode(w io.Writer, n *tree.Entry, parentPath string, results Results) error {
	fullPath := n.DisplayName()
	if parentPath != "" {
		fullPath = parentPath + "::" + fullPath
	}

	if n.IsLeaf() {
		st, ok := results[n]
		if !ok {
			_, err := fmt.Fprintf(w, "%s\tignored\n", fullPath)
			return err
		}
		if st.SampleCount == 0 {
			_, err := fmt.Fprintf(w, "%s\tempty\n", fullPath)
			return err
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", fullPath, st.Time.Median, st.Time.Mean)
		return err
	}

	for _, c := range n.Children() {
		if err := terseNode(w, c, fullPath, results); err != nil {
			return err
		}
	}
	return nil
}
