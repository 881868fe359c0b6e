// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package render draws the entry tree's aggregated stats as either a
// box-drawn terminal report or JSON. The pretty renderer's column
// alignment is grounded on the teacher's text/tabwriter idiom (a
// live-status stream renderer used tabwriter.NewWriter(w, 2, 4, 2, '
// ', 0) to align columns); that source's SIGWINCH/terminal-capability
// machinery doesn't fit a one-shot batch report and was discarded —
// only the column-alignment technique was kept. This layer is outside
// the measurement core: spec.md treats "the tree-drawing renderer" as
// an external collaborator given only an option-surface contract.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/silkbench/silkbench/internal/tree"
	"github.com/silkbench/silkbench/stats"
)

// Results maps a tree leaf to its aggregated stats. A leaf absent
// from Results (e.g. a group header, or a leaf that was never run)
// prints with no stats columns.
type Results map[*tree.Entry]stats.Stats

// Pretty renders a tree as indented, box-drawn text with tab-aligned
// stats columns.
type Pretty struct {
	w     *tabwriter.Writer
	color bool
}

// NewPretty wraps w with the tree renderer's column alignment. color
// enables ANSI styling of the Name column: bold for leaves, dim for
// group headers, applied uniformly across every row so the constant
// escape-sequence overhead cancels out of tabwriter's column-width
// accounting instead of skewing it.
func NewPretty(w io.Writer, color bool) *Pretty {
	return &Pretty{w: tabwriter.NewWriter(w, 2, 4, 2, ' ', 0), color: color}
}

func (p *Pretty) style(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

// Render draws roots and flushes the underlying writer.
func (p *Pretty) Render(roots []*tree.Entry, results Results) {
	fmt.Fprintf(p.w, "%s\tFastest\tSlowest\tMedian\tMean\tSamples\tIters\n", p.style(ansiBold, "Name"))
	for i, n := range roots {
		p.renderNode(n, "", i == len(roots)-1, true, results)
	}
	p.w.Flush()
}

func (p *Pretty) renderNode(n *tree.Entry, prefix string, isLast, isTopLevel bool, results Results) {
	branch := ""
	switch {
	case isTopLevel:
		branch = ""
	case isLast:
		branch = "╰─ "
	default:
		branch = "├─ "
	}
	rawName := prefix + branch + n.DisplayName()

	if n.IsLeaf() {
		name := p.style(ansiBold, rawName)
		st, ok := results[n]
		if !ok {
			fmt.Fprintf(p.w, "%s\t\t\t\t\t\t\n", name)
			return
		}
		fmt.Fprintf(p.w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			name, st.Time.Min, st.Time.Max, st.Time.Median, st.Time.Mean, st.SampleCount, st.IterCount)
		return
	}

	name := p.style(ansiDim, rawName)
	fmt.Fprintf(p.w, "%s\t\t\t\t\t\t\n", name)

	childPrefix := prefix
	if !isTopLevel {
		if isLast {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}
	children := n.Children()
	for i, c := range children {
		p.renderNode(c, childPrefix, i == len(children)-1, false, results)
	}
}
