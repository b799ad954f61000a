// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The truncation spillover writer embeds a timestamp in generated
// filenames; taking a [Clock] instead of calling time.Now directly
// lets tests pin the timestamp with [Fake].
package clock
