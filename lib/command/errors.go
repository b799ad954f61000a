// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
)

// Category classifies command errors so machine callers can make
// programmatic decisions (retry, fix input, escalate) without parsing
// error message text. The category travels in the error envelope's
// error.category field.
type Category string

const (
	// CategoryValidation means the caller provided invalid input:
	// missing required flags, wrong argument count, unparseable
	// values. Always recoverable by re-invoking with corrected flags.
	CategoryValidation Category = "validation"

	// CategoryNotFound means a referenced resource does not exist.
	CategoryNotFound Category = "not_found"

	// CategoryConflict means the operation conflicts with existing
	// state: duplicate resource, concurrent modification.
	CategoryConflict Category = "conflict"

	// CategoryTransient means a temporary failure: network error,
	// timeout, rate limit. Back off and retry.
	CategoryTransient Category = "transient"

	// CategoryInternal means an unexpected error: bugs, I/O failures.
	// Report rather than retry.
	CategoryInternal Category = "internal"
)

// Error is a categorized command error. It wraps an inner error,
// preserving the chain for errors.Is/As, while adding the category the
// envelope surfaces. Use the category constructors rather than
// building Error directly.
type Error struct {
	Category Category
	Err      error
}

// Error returns the underlying message. The category is not part of
// the string — it travels separately in the envelope.
func (e *Error) Error() string { return e.Err.Error() }

// Unwrap exposes the wrapped error to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Validationf creates a validation error: the caller provided bad input.
func Validationf(format string, args ...any) *Error {
	return &Error{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFoundf creates a not-found error: a referenced resource does not exist.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Conflictf creates a conflict error: the operation conflicts with existing state.
func Conflictf(format string, args ...any) *Error {
	return &Error{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transientf creates a transient error: a temporary failure worth retrying.
func Transientf(format string, args ...any) *Error {
	return &Error{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internalf creates an internal error: an unexpected failure or bug.
func Internalf(format string, args ...any) *Error {
	return &Error{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// categoryOf extracts the category from an error chain, defaulting to
// internal for uncategorized handler errors.
func categoryOf(err error) Category {
	var commandError *Error
	if errors.As(err, &commandError) {
		return commandError.Category
	}
	return CategoryInternal
}
