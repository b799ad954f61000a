// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"path/filepath"
	"strings"
)

// IsSafeDirectory reports whether path is acceptable as a spillover
// target: absolute, with no ".." traversal segment either as written
// or after cleaning. The check is a pure predicate — the caller
// decides the fallback — so it is testable independently of any file
// write.
func IsSafeDirectory(path string) bool {
	if !filepath.IsAbs(path) {
		return false
	}
	if hasTraversalSegment(path) {
		return false
	}
	return !hasTraversalSegment(filepath.Clean(path))
}

func hasTraversalSegment(path string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == ".." {
			return true
		}
	}
	return false
}
