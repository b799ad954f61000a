// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/chassis-cli/chassis/lib/clock"
)

func sequence(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestTruncate_Passthrough(t *testing.T) {
	tests := []struct {
		name string
		data any
		opts Options
	}{
		{"non-array input", map[string]any{"a": 1}, Options{Limit: 3}},
		{"nil input", nil, Options{Limit: 3}},
		{"no limit configured", sequence(100), Options{}},
		{"fits the page", sequence(3), Options{Limit: 10}},
		{"exactly the limit", sequence(10), Options{Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Truncate(tt.data, tt.opts)
			if result.Metadata != nil {
				t.Errorf("metadata fabricated: %+v", result.Metadata)
			}
			if len(result.Hints) != 0 {
				t.Errorf("hints fabricated: %v", result.Hints)
			}
			if !reflect.DeepEqual(result.Data, tt.data) {
				t.Errorf("data changed: %v", result.Data)
			}
		})
	}
}

func TestTruncate_Pages(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		limit       int
		offset      int
		wantPage    []int
		wantShowing int
		wantHint    string
	}{
		{
			name:  "first page", total: 10, limit: 3, offset: 0,
			wantPage: []int{0, 1, 2}, wantShowing: 3,
			wantHint: "task list --offset 3 --limit 3",
		},
		{
			name:  "middle page", total: 10, limit: 3, offset: 3,
			wantPage: []int{3, 4, 5}, wantShowing: 3,
			wantHint: "task list --offset 6 --limit 3",
		},
		{
			name:  "final partial page", total: 10, limit: 3, offset: 9,
			wantPage: []int{9}, wantShowing: 1,
			wantHint: "",
		},
		{
			name:  "offset past the end", total: 10, limit: 3, offset: 50,
			wantPage: nil, wantShowing: 0,
			wantHint: "",
		},
		{
			name:  "negative offset clamped", total: 10, limit: 3, offset: -5,
			wantPage: []int{0, 1, 2}, wantShowing: 3,
			wantHint: "task list --offset 3 --limit 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Truncate(sequence(tt.total), Options{
				Limit:   tt.limit,
				Offset:  tt.offset,
				Command: "task list",
			})
			if result.Metadata == nil {
				t.Fatalf("no metadata")
			}
			if result.Metadata.Showing != tt.wantShowing || result.Metadata.Total != tt.total || !result.Metadata.Truncated {
				t.Errorf("metadata = %+v", result.Metadata)
			}

			page, _ := result.Data.([]int)
			if len(page) != len(tt.wantPage) {
				t.Fatalf("page = %v, want %v", page, tt.wantPage)
			}
			for i := range tt.wantPage {
				if page[i] != tt.wantPage[i] {
					t.Fatalf("page = %v, want %v", page, tt.wantPage)
				}
			}

			var hintCommand string
			for _, hint := range result.Hints {
				if hint.Command != "" {
					hintCommand = hint.Command
				}
			}
			if hintCommand != tt.wantHint {
				t.Errorf("hint = %q, want %q", hintCommand, tt.wantHint)
			}
		})
	}
}

func TestTruncate_ArrayValues(t *testing.T) {
	result := Truncate([4]int{1, 2, 3, 4}, Options{Limit: 2, Command: "task list"})

	if result.Metadata == nil {
		t.Fatalf("no metadata for truncated array")
	}
	if result.Metadata.Showing != 2 || result.Metadata.Total != 4 || !result.Metadata.Truncated {
		t.Errorf("metadata = %+v", result.Metadata)
	}
	page, ok := result.Data.([]int)
	if !ok || len(page) != 2 || page[0] != 1 || page[1] != 2 {
		t.Errorf("page = %v (%T), want [1 2]", result.Data, result.Data)
	}

	var hintCommand string
	for _, hint := range result.Hints {
		if hint.Command != "" {
			hintCommand = hint.Command
		}
	}
	if hintCommand != "task list --offset 2 --limit 2" {
		t.Errorf("hint = %q", hintCommand)
	}

	// Arrays that fit the page pass through untouched, as the
	// original array value.
	small := Truncate([2]int{1, 2}, Options{Limit: 5})
	if small.Metadata != nil {
		t.Errorf("metadata fabricated for fitting array: %+v", small.Metadata)
	}
	if _, ok := small.Data.([2]int); !ok {
		t.Errorf("fitting array changed type: %T", small.Data)
	}
}

func TestTruncate_SpilloverAboveThreshold(t *testing.T) {
	directory := t.TempDir()
	result := Truncate(sequence(10), Options{
		Limit:                3,
		Command:              "task list",
		FilePointerThreshold: 5,
		TempDir:              directory,
		Clock:                clock.Fake(time.UnixMilli(1700000000000)),
	})

	if result.Metadata == nil || result.Metadata.FullOutput == "" {
		t.Fatalf("no spillover path: %+v", result.Metadata)
	}
	if filepath.Dir(result.Metadata.FullOutput) != directory {
		t.Errorf("spilled outside the configured directory: %s", result.Metadata.FullOutput)
	}
	base := filepath.Base(result.Metadata.FullOutput)
	if !strings.HasPrefix(base, "chassis-task-list-1700000000000-") || !strings.HasSuffix(base, ".json") {
		t.Errorf("filename = %q", base)
	}

	raw, err := os.ReadFile(result.Metadata.FullOutput)
	if err != nil {
		t.Fatalf("read spillover: %v", err)
	}
	var full []int
	if err := json.Unmarshal(raw, &full); err != nil {
		t.Fatalf("decode spillover: %v", err)
	}
	if len(full) != 10 {
		t.Errorf("spillover holds %d elements, want the full 10", len(full))
	}

	found := false
	for _, hint := range result.Hints {
		if strings.Contains(hint.Description, "full output written to") {
			found = true
		}
	}
	if !found {
		t.Errorf("no spillover hint: %v", result.Hints)
	}
}

func TestTruncate_NoSpilloverBelowThreshold(t *testing.T) {
	result := Truncate(sequence(10), Options{
		Limit:                3,
		FilePointerThreshold: 50,
		TempDir:              t.TempDir(),
	})
	if result.Metadata == nil {
		t.Fatalf("no metadata")
	}
	if result.Metadata.FullOutput != "" {
		t.Errorf("spilled below threshold: %s", result.Metadata.FullOutput)
	}
}

func TestTruncate_UnsafeDirectoryFallsBack(t *testing.T) {
	result := Truncate(sequence(10), Options{
		Limit:                3,
		FilePointerThreshold: 5,
		TempDir:              "relative/dir",
	})
	if result.Metadata == nil || result.Metadata.FullOutput == "" {
		t.Fatalf("fallback did not spill: %+v", result.Metadata)
	}
	t.Cleanup(func() { os.Remove(result.Metadata.FullOutput) })

	if filepath.Dir(result.Metadata.FullOutput) != filepath.Clean(os.TempDir()) {
		t.Errorf("fallback path = %s, want the system temp directory", result.Metadata.FullOutput)
	}

	warned := false
	for _, hint := range result.Hints {
		if strings.Contains(hint.Description, "unsafe temp directory") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("no unsafe-directory warning: %v", result.Hints)
	}
}

func TestTruncate_WriteFailureDegrades(t *testing.T) {
	// Absolute and traversal-free, but nonexistent: the write fails and
	// the truncation must still succeed.
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	result := Truncate(sequence(10), Options{
		Limit:                3,
		FilePointerThreshold: 5,
		TempDir:              missing,
	})
	if result.Metadata == nil {
		t.Fatalf("no metadata")
	}
	if result.Metadata.FullOutput != "" {
		t.Errorf("path reported despite failed write: %s", result.Metadata.FullOutput)
	}

	warned := false
	for _, hint := range result.Hints {
		if strings.Contains(hint.Description, "could not write full output") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("no write-failure warning: %v", result.Hints)
	}

	page, _ := result.Data.([]int)
	if len(page) != 3 {
		t.Errorf("page = %v, want the truncated data regardless", page)
	}
}

func TestIsSafeDirectory(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/tmp", true},
		{"/var/tmp/chassis", true},
		{"relative", false},
		{"./here", false},
		{"", false},
		{"/tmp/../etc", false},
		{"/tmp/sub/../..", false},
	}
	for _, tt := range tests {
		if got := IsSafeDirectory(tt.path); got != tt.want {
			t.Errorf("IsSafeDirectory(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
