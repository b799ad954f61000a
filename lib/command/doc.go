// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

// Package command is the composition core of chassis: declare a
// command once — name, positional arguments, a typed input schema,
// reusable flag presets, a context factory, and safety metadata — and
// the engine derives CLI flags, validates input, builds the handler
// context, and enforces a uniform response contract.
//
// A leaf command is assembled with [New] and finalized with
// [Builder.Build]; groups nest via [Group]. The [Runner] dispatches
// argv through the tree (flag parsing is layered on spf13/pflag),
// runs the validation/context pipeline, invokes the [Handler], and
// emits the outcome as one envelope or as an NDJSON stream. See the
// output package for the contract.
//
// Flag precedence within one command is fixed at build time: explicit
// [Builder.Option] declarations win, then preset options in
// registration order, then flags derived from the input schema, and
// finally the --dry-run guarantee for destructive commands. Later
// duplicates of an already-declared long flag are silently skipped.
//
// Validation failures and context-factory errors short-circuit before
// the handler through the same error-exit path a handler error takes,
// with a machine-readable [Category] in the error envelope.
package command
