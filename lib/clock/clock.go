// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts time lookup for testability. Production code injects
// Real(); tests inject a Fake with deterministic time control.
//
// Chassis only needs wall-clock reads (spillover filenames embed a
// timestamp), so the interface is intentionally narrow.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
