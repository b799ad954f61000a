// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package output

// Hint is an advisory "what to do next" suggestion attached to an
// envelope or truncation result. Hints never affect program behavior.
type Hint struct {
	// Description explains the suggestion.
	Description string `json:"description"`

	// Command is an optional ready-to-run invocation.
	Command string `json:"command,omitempty"`
}

// ErrorDetail is the error half of an [Envelope]. Category carries the
// machine-readable error class so callers can branch without parsing
// the message text.
type ErrorDetail struct {
	Message  string `json:"message"`
	Category string `json:"category,omitempty"`
}

// Envelope is the terminal outcome of a command: one structured object
// with an ok discriminator and either a result or an error. The shape
// is identical whether the envelope is written as a single response or
// as the last line of an NDJSON stream, so downstream tooling parses
// both the same way.
type Envelope struct {
	OK      bool         `json:"ok"`
	Command string       `json:"command"`
	Result  any          `json:"result,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
	Hints   []Hint       `json:"hints,omitempty"`
}

// Success builds a success envelope for the named command.
func Success(command string, result any, hints []Hint) Envelope {
	return Envelope{OK: true, Command: command, Result: result, Hints: hints}
}

// Failure builds an error envelope for the named command.
func Failure(command, message, category string, hints []Hint) Envelope {
	return Envelope{
		OK:      false,
		Command: command,
		Error:   &ErrorDetail{Message: message, Category: category},
		Hints:   hints,
	}
}

// Paged wraps a truncated result together with its truncation metadata
// so the envelope's result field carries both.
type Paged struct {
	Data     any       `json:"data"`
	Metadata *Metadata `json:"metadata"`
}
