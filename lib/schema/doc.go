// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema turns tagged Go structs into introspectable input
// schemas for the command engine.
//
// A schema is declared as a plain struct; [New] reflects over it once
// and produces an immutable [Object]. Four struct tags control the
// per-field shape:
//
//   - desc:"help text" — human-readable description.
//   - default:"value" — default applied when the field is absent,
//     parsed to the field's type. A field with a default is never
//     required.
//   - enum:"a,b,c" — restricts a string field to the listed literals.
//   - optional:"true" — marks a non-pointer field optional. Pointer
//     fields are optional implicitly.
//
// Property names come from the json tag when present, otherwise from
// the Go field name with its first rune lowered.
//
// [Object.Validate] implements the narrow validation contract the
// command pipeline depends on: raw flag bag in, typed [Values] or a
// [FieldError] out. The engine never depends on a particular
// validation library, only on this surface.
package schema
