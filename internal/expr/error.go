// SPDX-License-Identifier: MPL-2.0

package expr

import (
	"errors"
	"fmt"
)

// NoPosition marks an Error that is not tied to a source offset.
const NoPosition = -1

const (
	// StageLex marks a tokenizer failure.
	StageLex Stage = "lex"
	// StageParse marks a grammar failure.
	StageParse Stage = "parse"
	// StageEval marks a runtime evaluation failure.
	StageEval Stage = "eval"
)

var (
	// ErrExpression is matched by every error this package returns.
	ErrExpression = errors.New("expression error")

	// ErrEmptyExpression is returned for blank input.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrUnexpectedCharacter is returned when the lexer meets a character outside the language.
	ErrUnexpectedCharacter = errors.New("unexpected character")

	// ErrUnterminatedString is returned for a quote without its closing partner.
	ErrUnterminatedString = errors.New("unterminated string literal")

	// ErrUnexpectedToken is returned when the parser finds a token it cannot place.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUndefinedVariable is returned when an evaluated identifier is not in the context.
	ErrUndefinedVariable = errors.New("undefined variable")

	// ErrInvalidPattern is returned when the right side of =~ or !~ is not a valid regexp.
	ErrInvalidPattern = errors.New("invalid regex pattern")
)

type (
	// Stage identifies which phase produced an Error.
	Stage string

	// Error describes a lex, parse, or evaluation failure.
	Error struct {
		// Stage is the phase that failed.
		Stage Stage
		// Position is the byte offset in the trimmed expression, or NoPosition.
		Position int
		// Detail is the human-readable description.
		Detail string
		// Err is the specific sentinel for the failure.
		Err error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position == NoPosition {
		return fmt.Sprintf("expression %s failed: %s", e.Stage, e.Detail)
	}
	return fmt.Sprintf("expression %s failed: %s at position %d", e.Stage, e.Detail, e.Position)
}

// Unwrap exposes both ErrExpression and the specific sentinel to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExpression}
	}
	return []error{ErrExpression, e.Err}
}

func lexError(pos int, sentinel error, format string, args ...any) *Error {
	return &Error{Stage: StageLex, Position: pos, Detail: fmt.Sprintf(format, args...), Err: sentinel}
}

func parseError(pos int, sentinel error, format string, args ...any) *Error {
	return &Error{Stage: StageParse, Position: pos, Detail: fmt.Sprintf(format, args...), Err: sentinel}
}

func evalError(sentinel error, format string, args ...any) *Error {
	return &Error{Stage: StageEval, Position: NoPosition, Detail: fmt.Sprintf(format, args...), Err: sentinel}
}
