// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestNewErrorResult(t *testing.T) {
	t.Parallel()

	testErr := errors.New("test error")
	result := NewErrorResult(1, testErr)

	if result.ExitCode != 1 {
		t.Errorf("expected ExitCode 1, got %d", result.ExitCode)
	}
	if !errors.Is(result.Error, testErr) {
		t.Errorf("expected error %v, got %v", testErr, result.Error)
	}
	if result.Success() {
		t.Error("Success() = true for an error result")
	}
}

func TestNewSuccessResult(t *testing.T) {
	t.Parallel()

	result := NewSuccessResult()

	if result.ExitCode != 0 {
		t.Errorf("expected ExitCode 0, got %d", result.ExitCode)
	}
	if result.Error != nil {
		t.Errorf("expected nil error, got %v", result.Error)
	}
	if !result.Success() {
		t.Error("Success() = false for a success result")
	}
}

func TestNewExitCodeResult(t *testing.T) {
	t.Parallel()

	result := NewExitCodeResult(42)

	if result.ExitCode != 42 {
		t.Errorf("expected ExitCode 42, got %d", result.ExitCode)
	}
	if result.Error != nil {
		t.Errorf("expected nil error, got %v", result.Error)
	}
	if result.Success() {
		t.Error("Success() = true for a non-zero exit")
	}
}
