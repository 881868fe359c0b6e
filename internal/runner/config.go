// Copyright 2026 The Silkbench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package runner

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/silkbench/silkbench/counter"
	"github.com/silkbench/silkbench/internal/bench"
	"github.com/silkbench/silkbench/internal/errs"
	"github.com/silkbench/silkbench/internal/tree"
)

// TimerKind selects the wall-clock backend.
type TimerKind int

const (
	// TimerAuto prefers an invariant TSC, falling back to the OS clock
	// when the TSC isn't available or can't be calibrated.
	TimerAuto TimerKind = iota
	TimerOS
	TimerTSC
)

// Format selects the report renderer.
type Format int

const (
	FormatPretty Format = iota
	FormatJSON
	FormatTerse
)

// ColorMode selects when the pretty renderer colorizes its output.
type ColorMode int

const (
	// ColorAuto colorizes only when the output writer looks like an
	// interactive terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Config is the fully-resolved set of runner knobs: CLI flags layered
// over SILKBENCH_* environment variables layered over the built-in
// defaults, per spec.md §6's composition order (CLI > env > code
// options > defaults).
type Config struct {
	Positional     []string
	Skip           []string
	Exact          bool
	Ignored        bool // run only ignored entries
	IncludeIgnored bool
	List           bool
	Test           bool // --test: run once per entry with sample_size=1, for CI smoke checks

	Color       ColorMode
	Format      Format
	Timer       TimerKind
	Sort        tree.SortAttr
	SortReverse bool
	BytesFormat counter.BytesFormat

	CLIOptions bench.Options
}

// patternListFlag implements flag.Value over a repeatable string list
// flag: each occurrence appends its value as one pattern, without
// splitting on commas.
type patternListFlag []string

func (p *patternListFlag) String() string { return strings.Join(*p, ",") }
func (p *patternListFlag) Set(s string) error {
	*p = append(*p, s)
	return nil
}

// ParseArgs parses CLI args (excluding the program name) plus the
// SILKBENCH_* environment variables into a Config, applying the
// composition order CLI > env > defaults at the flag level (each flag
// is seeded from its environment variable before argv is parsed, so an
// explicit CLI flag always wins).
func ParseArgs(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("silkbench", flag.ContinueOnError)

	var skipCSV, formatStr, timerStr, sortStr, bytesFormatStr, threadsCSV, colorStr string
	var sampleCount, sampleSize uint64
	var minTime, maxTime time.Duration
	var skipExtTime bool

	fs.BoolVar(&cfg.Exact, "exact", envBool("SILKBENCH_EXACT", false), "treat filter patterns as exact matches instead of regular expressions")
	fs.StringVar(&skipCSV, "skip", os.Getenv("SILKBENCH_SKIP"), "comma-separated patterns to exclude, applied after --bench")
	fs.BoolVar(&cfg.IncludeIgnored, "include-ignored", envBool("SILKBENCH_INCLUDE_IGNORED", false), "run ignored entries in addition to non-ignored ones")
	fs.BoolVar(&cfg.Ignored, "ignored", envBool("SILKBENCH_IGNORED", false), "run only ignored entries")
	fs.BoolVar(&cfg.List, "list", false, "list matching entries instead of running them")
	fs.BoolVar(&cfg.Test, "test", envBool("SILKBENCH_TEST", false), "run once per matching entry as a smoke test, skipping full sampling")
	fs.StringVar(&colorStr, "color", envOr("SILKBENCH_COLOR", "auto"), "colorize pretty output: auto, always, or never")
	fs.StringVar(&formatStr, "format", envOr("SILKBENCH_FORMAT", "pretty"), "report format: pretty, json, or terse")
	fs.StringVar(&timerStr, "timer", envOr("SILKBENCH_TIMER", "auto"), "timer backend: auto, os, or tsc")
	fs.StringVar(&sortStr, "sort", envOr("SILKBENCH_SORT", "kind"), "sort attribute: kind, name, or location")
	fs.BoolVar(&cfg.SortReverse, "sortr", envBool("SILKBENCH_SORTR", false), "reverse the sort order")
	fs.StringVar(&bytesFormatStr, "bytes-format", envOr("SILKBENCH_BYTES_FORMAT", "decimal"), "throughput byte units: decimal or binary")
	fs.Uint64Var(&sampleCount, "sample-count", envUint64("SILKBENCH_SAMPLE_COUNT", 0), "number of samples to record per entry (0 = default)")
	fs.Uint64Var(&sampleSize, "sample-size", envUint64("SILKBENCH_SAMPLE_SIZE", 0), "iterations per sample (0 = calibrated default)")
	fs.DurationVar(&minTime, "min-time", envDuration("SILKBENCH_MIN_TIME", 0), "minimum wall time to spend sampling an entry")
	fs.DurationVar(&maxTime, "max-time", envDuration("SILKBENCH_MAX_TIME", 0), "maximum wall time to spend sampling an entry (0 = no ceiling)")
	fs.BoolVar(&skipExtTime, "skip-ext-time", envBool("SILKBENCH_SKIP_EXT_TIME", false), "don't count external time against the time budget")
	fs.StringVar(&threadsCSV, "threads", envOr("SILKBENCH_THREADS", ""), "comma-separated thread counts to sweep")

	var patterns patternListFlag
	fs.Var(&patterns, "bench", "patterns selecting which entries to run; may be repeated")

	if err := fs.Parse(args); err != nil {
		return Config{}, errs.E(errs.ConfigError, "parsing command line", err)
	}

	cfg.Positional = append(append([]string{}, patterns...), fs.Args()...)
	cfg.Skip = splitCSV(skipCSV)

	var err error
	if cfg.Format, err = parseFormat(formatStr); err != nil {
		return Config{}, err
	}
	if cfg.Timer, err = parseTimerKind(timerStr); err != nil {
		return Config{}, err
	}
	if cfg.Sort, err = parseSortAttr(sortStr); err != nil {
		return Config{}, err
	}
	if cfg.BytesFormat, err = parseBytesFormat(bytesFormatStr); err != nil {
		return Config{}, err
	}
	if cfg.Color, err = parseColorMode(colorStr); err != nil {
		return Config{}, err
	}

	cfg.CLIOptions = cliOptionsFromFlags(sampleCount, sampleSize, minTime, maxTime, skipExtTime, threadsCSV)
	return cfg, nil
}

func cliOptionsFromFlags(sampleCount, sampleSize uint64, minTime, maxTime time.Duration, skipExtTime bool, threadsCSV string) bench.Options {
	var o bench.Options
	if sampleCount > 0 {
		v := uint32(sampleCount)
		o.SampleCount = &v
	}
	if sampleSize > 0 {
		v := uint32(sampleSize)
		o.SampleSize = &v
	}
	if minTime > 0 {
		o.MinTime = &minTime
	}
	if maxTime > 0 {
		o.MaxTime = &maxTime
	}
	if skipExtTime {
		o.SkipExtTime = &skipExtTime
	}
	if threadsCSV != "" {
		o.Threads = parseThreads(threadsCSV)
	}
	return o
}

func parseThreads(csv string) []int {
	parts := splitCSV(csv)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "pretty", "":
		return FormatPretty, nil
	case "json":
		return FormatJSON, nil
	case "terse":
		return FormatTerse, nil
	default:
		return 0, errs.E(errs.ConfigError, fmt.Sprintf("unknown --format %q", s))
	}
}

func parseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return 0, errs.E(errs.ConfigError, fmt.Sprintf("unknown --color %q", s))
	}
}

func parseTimerKind(s string) (TimerKind, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return TimerAuto, nil
	case "os":
		return TimerOS, nil
	case "tsc":
		return TimerTSC, nil
	default:
		return 0, errs.E(errs.ConfigError, fmt.Sprintf("unknown --timer %q", s))
	}
}

func parseSortAttr(s string) (tree.SortAttr, error) {
	switch strings.ToLower(s) {
	case "kind", "":
		return tree.Kind, nil
	case "name":
		return tree.Name, nil
	case "location":
		return tree.Location, nil
	default:
		return 0, errs.E(errs.ConfigError, fmt.Sprintf("unknown --sort %q", s))
	}
}

func parseBytesFormat(s string) (counter.BytesFormat, error) {
	switch strings.ToLower(s) {
	case "decimal", "":
		return counter.Decimal, nil
	case "binary":
		return counter.Binary, nil
	default:
		return 0, errs.E(errs.ConfigError, fmt.Sprintf("unknown --bytes-format %q", s))
	}
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envUint64(key string, def uint64) uint64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
