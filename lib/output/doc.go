// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

// Package output implements the command output contract.
//
// Every command outcome is an [Envelope]: ok flag, command path, and
// either a result or a categorized error, plus advisory [Hint]s. The
// same envelope is emitted whether a command responds with a single
// JSON object or streams NDJSON events — in streaming mode the
// envelope is simply the last line, after one start event and the
// handler's progress/step events in emission order ([Stream]).
//
// [Truncate] bounds array results to a page, proposes the exact
// next-page flags, and spills oversized results to a uniquely named
// temp file under a validated-safe directory, degrading to warning
// hints instead of failing.
//
// All lines go through [MarshalSafe], which falls back to a
// sanitizing deep copy for values plain encoding/json rejects, so a
// handler returning a cyclic structure or a big.Int cannot break the
// NDJSON framing.
package output
