// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cfgwrap/cfgwrap/internal/mask"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

var (
	// ErrCoercion is the sentinel wrapped by every type coercion failure.
	ErrCoercion = errors.New("type coercion failed")

	// ErrInvalidInt is returned when an int-typed value is not a base-10 integer.
	ErrInvalidInt = errors.New("invalid integer")

	// ErrInvalidJSON is returned when a json-typed value is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInvalidBool is returned when a bool-typed value is not a recognized boolean word.
	ErrInvalidBool = errors.New("invalid boolean value")

	// ErrPathNotExist is returned when a path-typed value names nothing on disk.
	ErrPathNotExist = errors.New("path does not exist")

	// ErrUnknownType is returned for a declared type with no coercion.
	ErrUnknownType = errors.New("unknown type")
)

// CoercionError describes a value that could not be coerced to its declared
// type. A Sensitive error never renders Value.
type CoercionError struct {
	Type      spec.ValueType
	Value     string
	Sensitive bool
	Err       error
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	value := e.Value
	if e.Sensitive {
		value = mask.Placeholder
	}

	switch {
	case errors.Is(e.Err, ErrInvalidInt), errors.Is(e.Err, ErrInvalidJSON):
		return fmt.Sprintf("%s: %s %q", ErrCoercion, e.Err, value)
	case errors.Is(e.Err, ErrInvalidBool), errors.Is(e.Err, ErrPathNotExist):
		return fmt.Sprintf("%s: %s", e.Err, value)
	case errors.Is(e.Err, ErrUnknownType):
		return fmt.Sprintf("%s: %s", e.Err, e.Type)
	default:
		return fmt.Sprintf("%s: %v", ErrCoercion, e.Err)
	}
}

// Unwrap returns ErrCoercion and the specific cause.
func (e *CoercionError) Unwrap() []error { return []error{ErrCoercion, e.Err} }

// Coerce validates value against typ and returns its canonical form.
// The zero ValueType and TypeString return value unchanged. delimiter is
// used only by TypeList.
func Coerce(value string, typ spec.ValueType, delimiter string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &CoercionError{Type: typ, Value: value, Err: err}
	}

	switch typ {
	case "", spec.TypeString:
		return value, nil

	case spec.TypeInt:
		if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
			return fail(ErrInvalidInt)
		}
		return value, nil

	case spec.TypeBool:
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return "true", nil
		case "false", "0", "no", "off":
			return "false", nil
		}
		return fail(ErrInvalidBool)

	case spec.TypePath:
		return coercePath(value, fail)

	case spec.TypeList:
		if delimiter == "" {
			delimiter = spec.DefaultDelimiter
		}
		parts := strings.Split(value, delimiter)
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		encoded, err := json.Marshal(parts)
		if err != nil {
			return fail(err)
		}
		return string(encoded), nil

	case spec.TypeJSON:
		if !json.Valid([]byte(value)) {
			return fail(ErrInvalidJSON)
		}
		return value, nil

	default:
		return fail(ErrUnknownType)
	}
}

func coercePath(value string, fail func(error) (string, error)) (string, error) {
	if _, err := os.Stat(value); err != nil {
		return fail(ErrPathNotExist)
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return fail(err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}
