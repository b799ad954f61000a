// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import "fmt"

// ExitError signals a non-zero exit code without an extra error
// message. When a run returns an ExitError, the command has already
// written its own output (envelope or rendered text); main should exit
// with the code and print nothing further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. Binaries check for this interface on
// returned errors to distinguish "handled non-zero exit" from
// "unexpected error to display".
func (e *ExitError) ExitCode() int {
	return e.Code
}
