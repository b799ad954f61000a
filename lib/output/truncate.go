// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"reflect"

	"github.com/chassis-cli/chassis/lib/clock"
)

// DefaultFilePointerThreshold is the result size above which the full,
// untruncated array is spilled to a temp file alongside the truncated
// inline data.
const DefaultFilePointerThreshold = 500

// Options control Truncate. The zero value means "no truncation".
type Options struct {
	// Limit is the page size. Zero or negative means unconfigured:
	// the input passes through untouched.
	Limit int

	// Offset is the start of the page. Negative offsets are clamped
	// to zero, not rejected.
	Offset int

	// Command, when set, prefixes the suggested next-page invocation
	// in the pagination hint.
	Command string

	// FilePointerThreshold overrides DefaultFilePointerThreshold.
	FilePointerThreshold int

	// TempDir is the spillover directory. It must pass
	// [IsSafeDirectory]; otherwise the OS temp directory is used and
	// a warning hint is attached. Empty means the OS temp directory.
	TempDir string

	// Clock supplies the spillover filename timestamp. Nil means the
	// real clock.
	Clock clock.Clock
}

// Metadata describes a truncation that actually occurred.
type Metadata struct {
	// Showing is the number of elements returned inline.
	Showing int `json:"showing"`

	// Total is the untruncated element count.
	Total int `json:"total"`

	// Truncated is always true when metadata is present.
	Truncated bool `json:"truncated"`

	// FullOutput is the path of the spillover file holding the full
	// array, when one was written.
	FullOutput string `json:"full_output,omitempty"`
}

// Result is the outcome of Truncate. Metadata is nil when the input
// passed through untouched.
type Result struct {
	Data     any
	Metadata *Metadata
	Hints    []Hint
}

// Truncate bounds an array result to a page. Non-array input, input
// without a configured limit, and input that already fits the page at
// offset zero all pass through untouched with no fabricated metadata.
// Otherwise the slice [offset, offset+limit) is returned with
// {showing, total, truncated} metadata, a next-page hint when more
// elements remain, and — above the file-pointer threshold — a
// spillover file holding the full array.
//
// Truncate never fails: unsafe directories and write errors degrade to
// warning hints on the truncated result.
func Truncate(data any, opts Options) Result {
	value := reflect.ValueOf(data)
	if !value.IsValid() || (value.Kind() != reflect.Slice && value.Kind() != reflect.Array) {
		return Result{Data: data}
	}
	if opts.Limit <= 0 {
		return Result{Data: data}
	}

	offset := max(opts.Offset, 0)
	total := value.Len()
	if total <= opts.Limit && offset == 0 {
		return Result{Data: data}
	}

	// Arrays arrive unaddressable through the interface and cannot be
	// sliced in place; page through a copy.
	if value.Kind() == reflect.Array {
		slice := reflect.MakeSlice(reflect.SliceOf(value.Type().Elem()), total, total)
		reflect.Copy(slice, value)
		value = slice
	}

	start := min(offset, total)
	end := min(offset+opts.Limit, total)
	page := value.Slice(start, end).Interface()

	metadata := &Metadata{Showing: end - start, Total: total, Truncated: true}
	var hints []Hint

	if offset+opts.Limit < total {
		hints = append(hints, nextPageHint(opts.Command, offset+opts.Limit, opts.Limit))
	}

	threshold := opts.FilePointerThreshold
	if threshold <= 0 {
		threshold = DefaultFilePointerThreshold
	}
	if total > threshold {
		path, warnings := spill(data, opts)
		metadata.FullOutput = path
		hints = append(hints, warnings...)
	}

	return Result{Data: page, Metadata: metadata, Hints: hints}
}

// nextPageHint proposes the exact flags for the following page.
func nextPageHint(command string, nextOffset, limit int) Hint {
	invocation := fmt.Sprintf("--offset %d --limit %d", nextOffset, limit)
	if command != "" {
		invocation = command + " " + invocation
	}
	return Hint{
		Description: "more results available, fetch the next page",
		Command:     invocation,
	}
}
