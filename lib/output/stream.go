// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"sync"
)

// Stream event type discriminators.
const (
	EventStart    = "start"
	EventProgress = "progress"
	EventStep     = "step"
)

// StreamEvent is one non-terminal NDJSON line: the opening start event
// or a handler-emitted progress/step event.
type StreamEvent struct {
	// Type discriminates the event: "start", "progress", or "step".
	Type string `json:"type"`

	// Command is set on the start event only.
	Command string `json:"command,omitempty"`

	// Stage labels a progress event.
	Stage string `json:"stage,omitempty"`

	// Name labels a step event.
	Name string `json:"name,omitempty"`

	// Data is an optional payload.
	Data any `json:"data,omitempty"`
}

// Stream writes a command invocation as newline-delimited JSON with a
// fixed ordering contract: exactly one start event first, then handler
// events in emission order, then exactly one terminal [Envelope],
// always last. Success and error envelopes go to the same writer so
// the whole session is one ordered NDJSON sequence.
//
// Writes are serialized by a mutex, so a handler that emits progress
// from its own goroutines still produces whole, ordered lines.
type Stream struct {
	mu      sync.Mutex
	w       io.Writer
	command string
	started bool
	closed  bool
}

// NewStream creates a stream for one command invocation. No line is
// written until Start.
func NewStream(w io.Writer, command string) *Stream {
	return &Stream{w: w, command: command}
}

// Start writes the opening start event. It must be called exactly once
// before any Emit or Close.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("stream for %q already started", s.command)
	}
	s.started = true
	return EncodeLine(s.w, StreamEvent{Type: EventStart, Command: s.command})
}

// Emit writes one handler event. Events emitted before Start or after
// Close are dropped rather than corrupting the ordering contract.
func (s *Stream) Emit(event StreamEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.closed {
		return nil
	}
	return EncodeLine(s.w, event)
}

// Close writes the terminal envelope and seals the stream. It must be
// called exactly once; later calls are rejected.
func (s *Stream) Close(envelope Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return fmt.Errorf("stream for %q closed before start", s.command)
	}
	if s.closed {
		return fmt.Errorf("stream for %q already closed", s.command)
	}
	s.closed = true
	return EncodeLine(s.w, envelope)
}
