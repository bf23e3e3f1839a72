// SPDX-License-Identifier: MPL-2.0

package runtime

import "time"

// Result is the outcome of one Execute call.
type Result struct {
	// ExitCode is the child's exit status, or 1 when it could not run.
	ExitCode ExitCode
	// Error is set when the child could not be spawned or was interrupted.
	// A child that runs and exits non-zero leaves Error nil.
	Error error
	// OutputError is set when the child's output could not be written to
	// Stdout or Stderr. The child still ran to completion; ExitCode is its
	// own status.
	OutputError error
	// Duration is the wall time from spawn attempt to exit.
	Duration time.Duration
}

// Success reports whether the child ran, exited with status 0 and had all
// of its output written.
func (r *Result) Success() bool {
	return r.Error == nil && r.OutputError == nil && r.ExitCode.IsSuccess()
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than spawn failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}
