// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError is a single schema violation in a user document.
type ValidationError struct {
	// FilePath is the document being validated.
	FilePath string

	// Path is the JSON path of the invalid value (e.g. "configuration_injectors[0].kind").
	Path string

	// Message is the violation description.
	Message string

	// Suggestion is an optional hint for fixing the error.
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// ValidationErrors splits a CUE error into one ValidationError per violation.
// A non-CUE error yields a single entry without a path.
func ValidationErrors(err error, filePath string) []*ValidationError {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return []*ValidationError{{FilePath: filePath, Message: err.Error()}}
	}

	result := make([]*ValidationError, 0, len(cueErrors))
	for _, e := range cueErrors {
		path := FormatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path at the start of the message.
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}
		result = append(result, &ValidationError{FilePath: filePath, Path: path, Message: msg})
	}
	return result
}

// FormatError renders a CUE error as "<file>: <json-path>: <message>", one
// line per violation.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}
	if len(errors.Errors(err)) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	violations := ValidationErrors(err, filePath)
	if len(violations) == 1 {
		return violations[0]
	}

	lines := make([]string, len(violations))
	for i, v := range violations {
		if v.Path != "" {
			lines[i] = v.Path + ": " + v.Message
		} else {
			lines[i] = v.Message
		}
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// FormatPath converts a CUE selector path such as ["targets", "0", "name"]
// into JSON-path notation ("targets[0].name").
func FormatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case i > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize returns an error if data exceeds maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), maxSize)
	}
	return nil
}
