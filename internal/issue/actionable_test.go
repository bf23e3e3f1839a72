// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load spec"},
			expected: "failed to load spec",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load spec", Resource: "./cfgwrap.yaml"},
			expected: "failed to load spec: ./cfgwrap.yaml",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "parse config",
				Cause:     errors.New("syntax error at line 5"),
			},
			expected: "failed to parse config: syntax error at line 5",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load spec",
				Resource:  "./cfgwrap.yaml",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load spec: ./cfgwrap.yaml: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	err := WrapWithContext(fs.ErrNotExist, "open stream", "/var/log/app.log")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var ae *ActionableError
	if !errors.As(error(err), &ae) {
		t.Fatal("errors.As should find *ActionableError")
	}
	if ae.Resource != "/var/log/app.log" {
		t.Errorf("Resource = %q", ae.Resource)
	}
}

func TestWrapWithContext_Nil(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("no such file")
	err := &ActionableError{
		Operation:   "load spec",
		Resource:    "cfgwrap.yaml",
		Suggestions: []string{"Pass --spec", "Check the extension"},
		Cause:       &fs.PathError{Op: "open", Path: "cfgwrap.yaml", Err: inner},
	}

	plain := err.Format(false)
	want := "failed to load spec: cfgwrap.yaml: open cfgwrap.yaml: no such file\n\n  • Pass --spec\n  • Check the extension"
	if plain != want {
		t.Errorf("Format(false) =\n%q\nwant\n%q", plain, want)
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("non-verbose format should not include the error chain")
	}

	verbose := err.Format(true)
	for _, part := range []string{"Error chain:", "1. open cfgwrap.yaml: no such file", "2. no such file"} {
		if !strings.Contains(verbose, part) {
			t.Errorf("Format(true) missing %q:\n%s", part, verbose)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("execute target").
		WithResource("./server").
		WithSuggestion("Check PATH").
		WithSuggestions("Use an absolute path", "Set target.shell").
		WithIssue(CommandNotFoundId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "execute target" || ae.Resource != "./server" {
		t.Errorf("unexpected context: %+v", ae)
	}
	if len(ae.Suggestions) != 3 {
		t.Errorf("Suggestions = %v, want 3 entries", ae.Suggestions)
	}
	if ae.Cause != cause {
		t.Errorf("Cause = %v, want %v", ae.Cause, cause)
	}
	if got := ae.Issue(); got == nil || got.Id() != CommandNotFoundId {
		t.Errorf("Issue() = %v, want CommandNotFoundId entry", got)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestActionableError_IssueUnset(t *testing.T) {
	t.Parallel()

	ae := &ActionableError{Operation: "load spec"}
	if ae.Issue() != nil {
		t.Error("Issue() should be nil when no issue is referenced")
	}
}
