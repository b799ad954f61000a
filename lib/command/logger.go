// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates the structured logger for command execution. When
// stderr is a terminal, it uses slog.TextHandler for human-readable
// output. When stderr is piped or redirected (CI, scripts, tool
// servers), it uses slog.JSONHandler so log lines stay
// machine-parseable alongside the NDJSON output contract.
//
// The runner scopes the logger per invocation:
//
//	logger := command.NewLogger().With("command", "items list")
func NewLogger() *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}
	return slog.New(handler)
}
