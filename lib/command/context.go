// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"log/slog"

	"github.com/chassis-cli/chassis/lib/output"
	"github.com/chassis-cli/chassis/lib/schema"
)

// Handler is a command's business logic. It receives the validated,
// preset-resolved input through the Context and returns the result
// that becomes the envelope's result field, or an error that becomes
// its error field. Handlers never write envelopes themselves.
type Handler func(ctx *Context) (any, error)

// ContextFactory builds a handler context value from the validated
// input (or the raw flag bag when the command has no schema). It runs
// after validation and before the handler; a failure here goes through
// the same exit path as a validation error and the handler never runs.
type ContextFactory func(ctx context.Context, input schema.Values) (any, error)

// HintFunc produces outcome-specific hints appended to the envelope.
type HintFunc func(outcome any) []output.Hint

// Context carries everything a handler may need for one invocation.
type Context struct {
	context.Context

	// Command is the command being executed.
	Command *Command

	// Args are the positional arguments left after flag parsing.
	Args []string

	// Input is the validated input bag, nil when the command declares
	// no schema and uses no presets.
	Input schema.Values

	// Raw is the unvalidated flag bag as read back from the parser,
	// including global flags.
	Raw map[string]any

	// Custom is the context factory's product, nil without a factory.
	Custom any

	// Logger is scoped to the command path.
	Logger *slog.Logger

	// DryRun is true when a destructive command was invoked with
	// --dry-run.
	DryRun bool

	emit func(event output.StreamEvent)
}

// Progress emits a progress event when the invocation is streaming.
// Outside streaming mode it is a no-op, so handlers report progress
// unconditionally.
func (c *Context) Progress(stage string, data any) {
	if c.emit == nil {
		return
	}
	c.emit(output.StreamEvent{Type: output.EventProgress, Stage: stage, Data: data})
}

// Step emits a named step event when the invocation is streaming.
func (c *Context) Step(name string, data any) {
	if c.emit == nil {
		return
	}
	c.emit(output.StreamEvent{Type: output.EventStep, Name: name, Data: data})
}

// String returns the string value of an input field, or fallback when
// absent.
func (c *Context) String(name, fallback string) string {
	if value, ok := c.Input[name].(string); ok {
		return value
	}
	return fallback
}

// Number returns the numeric value of an input field, or fallback when
// absent.
func (c *Context) Number(name string, fallback float64) float64 {
	if value, ok := c.Input[name].(float64); ok {
		return value
	}
	return fallback
}

// Bool returns the boolean value of an input field, or fallback when
// absent.
func (c *Context) Bool(name string, fallback bool) bool {
	if value, ok := c.Input[name].(bool); ok {
		return value
	}
	return fallback
}
