// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/chassis-cli/chassis/lib/clock"
)

// spill writes the full, untruncated data to a uniquely named JSON
// file and returns its path. Failures are never fatal: an unsafe
// directory falls back to the OS temp directory with a warning hint,
// and a failed write returns an empty path with a warning hint.
func spill(data any, opts Options) (string, []Hint) {
	var warnings []Hint

	directory := opts.TempDir
	switch {
	case directory == "":
		directory = os.TempDir()
	case !IsSafeDirectory(directory):
		warnings = append(warnings, Hint{
			Description: fmt.Sprintf("rejected unsafe temp directory %q, using the system temp directory", directory),
		})
		directory = os.TempDir()
	}

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	path := filepath.Join(directory, spillFilename(opts.Command, clk))

	encoded, err := MarshalSafe(data)
	if err != nil {
		warnings = append(warnings, Hint{
			Description: fmt.Sprintf("could not serialize full output: %v", err),
		})
		return "", warnings
	}
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		warnings = append(warnings, Hint{
			Description: fmt.Sprintf("could not write full output file: %v", err),
		})
		return "", warnings
	}

	warnings = append(warnings, Hint{
		Description: fmt.Sprintf("full output written to %s", path),
	})
	return path, warnings
}

// spillFilename generates a collision-free name: a sanitized command
// slug, the wall-clock milliseconds, and a random suffix. Uniqueness
// by construction is what makes concurrent spillover writes safe
// without locking.
func spillFilename(command string, clk clock.Clock) string {
	slug := strings.ReplaceAll(command, " ", "-")
	if slug == "" {
		slug = "output"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("chassis-%s-%d-%s.json", slug, clk.Now().UnixMilli(), suffix)
}
