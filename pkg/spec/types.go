// SPDX-License-Identifier: MPL-2.0

package spec

import (
	"errors"
	"fmt"
)

const (
	// ProviderEnv snapshots the process environment.
	ProviderEnv ProviderType = "env"
	// ProviderDotenv reads KEY=VALUE files.
	ProviderDotenv ProviderType = "dotenv"
	// ProviderBWS reads Bitwarden Secrets Manager secrets.
	ProviderBWS ProviderType = "bws"

	// KindEnvVar exports the value under every alias.
	KindEnvVar InjectorKind = "env_var"
	// KindNamed appends a flag and its value to argv.
	KindNamed InjectorKind = "named"
	// KindPositional appends the bare value to argv, ordered by Order.
	KindPositional InjectorKind = "positional"
	// KindFile writes the value to an ephemeral file and passes its path.
	KindFile InjectorKind = "file"
	// KindStdinFragment contributes the value to the child's stdin.
	KindStdinFragment InjectorKind = "stdin_fragment"

	// TypeString passes the value through.
	TypeString ValueType = "string"
	// TypeInt requires an integer.
	TypeInt ValueType = "int"
	// TypeBool normalizes to "true" or "false".
	TypeBool ValueType = "bool"
	// TypePath requires an existing filesystem entry and yields its absolute path.
	TypePath ValueType = "path"
	// TypeList splits on the delimiter and re-encodes as a JSON array.
	TypeList ValueType = "list"
	// TypeJSON requires valid JSON.
	TypeJSON ValueType = "json"

	// ConnectorEquals joins flag and value as "flag=value".
	ConnectorEquals Connector = "="
	// ConnectorSpace emits flag and value as two arguments.
	ConnectorSpace Connector = "space"
	// ConnectorRepeat emits flag and value as two arguments.
	ConnectorRepeat Connector = "repeat"

	// PrecedenceFirstNonEmpty picks the first source that expands to a non-empty string.
	PrecedenceFirstNonEmpty ValuePrecedence = "first_non_empty"

	// ShellNone executes argv directly.
	ShellNone Shell = "none"
	// ShellBash runs the command line through bash -c.
	ShellBash Shell = "bash"
	// ShellSh runs the command line through sh -c.
	ShellSh Shell = "sh"
	// ShellPowerShell runs the command line through powershell -Command.
	ShellPowerShell Shell = "powershell"

	// StreamFormatText copies output verbatim.
	StreamFormatText StreamFormat = "text"
	// StreamFormatJSON writes one JSON object per output line.
	StreamFormatJSON StreamFormat = "json"

	// DeepFirst lets the dotenv file closest to the working directory win.
	DeepFirst DotenvPrecedence = "deep-first"
	// ShallowFirst lets the dotenv file closest to the filesystem root win.
	ShallowFirst DotenvPrecedence = "shallow-first"
)

var (
	// ErrInvalidProviderType is returned when a ProviderType value is not recognized.
	ErrInvalidProviderType = errors.New("invalid provider type")
	// ErrInvalidInjectorKind is returned when an InjectorKind value is not recognized.
	ErrInvalidInjectorKind = errors.New("invalid injector kind")
	// ErrInvalidValueType is returned when a ValueType value is not recognized.
	ErrInvalidValueType = errors.New("invalid value type")
	// ErrInvalidConnector is returned when a Connector value is not recognized.
	ErrInvalidConnector = errors.New("invalid connector")
	// ErrInvalidShell is returned when a Shell value is not recognized.
	ErrInvalidShell = errors.New("invalid shell")
	// ErrInvalidStreamFormat is returned when a StreamFormat value is not recognized.
	ErrInvalidStreamFormat = errors.New("invalid stream format")
	// ErrInvalidDotenvPrecedence is returned when a DotenvPrecedence value is not recognized.
	ErrInvalidDotenvPrecedence = errors.New("invalid dotenv precedence")
)

type (
	// ProviderType selects a provider implementation.
	ProviderType string

	// InjectorKind selects how a resolved value reaches the target process.
	InjectorKind string

	// ValueType is the coercion applied to a resolved value.
	ValueType string

	// Connector controls how named flags are joined with their value.
	Connector string

	// ValuePrecedence controls how sources are combined.
	ValuePrecedence string

	// Shell selects an optional shell wrapper for the target command.
	Shell string

	// StreamFormat selects how captured output is written.
	StreamFormat string

	// DotenvPrecedence controls the merge order of hierarchical dotenv files.
	DotenvPrecedence string

	// InvalidEnumError is returned when an enum-typed field has an unknown value.
	// It wraps the enum's sentinel error for errors.Is() compatibility.
	InvalidEnumError struct {
		Value    string
		Sentinel error
	}
)

// Error implements the error interface.
func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("%s %q", e.Sentinel, e.Value)
}

// Unwrap returns the enum's sentinel error.
func (e *InvalidEnumError) Unwrap() error { return e.Sentinel }

func enumCheck[T ~string](v T, sentinel error, allowed ...T) (bool, []error) {
	for _, a := range allowed {
		if v == a {
			return true, nil
		}
	}
	return false, []error{&InvalidEnumError{Value: string(v), Sentinel: sentinel}}
}

// IsValid returns whether the ProviderType is a known provider.
func (t ProviderType) IsValid() (bool, []error) {
	return enumCheck(t, ErrInvalidProviderType, ProviderEnv, ProviderDotenv, ProviderBWS)
}

// IsValid returns whether the InjectorKind is a known kind.
func (k InjectorKind) IsValid() (bool, []error) {
	return enumCheck(k, ErrInvalidInjectorKind, KindEnvVar, KindNamed, KindPositional, KindFile, KindStdinFragment)
}

// IsValid returns whether the ValueType is a known coercion. The zero value
// means "no coercion" and is valid.
func (t ValueType) IsValid() (bool, []error) {
	if t == "" {
		return true, nil
	}
	return enumCheck(t, ErrInvalidValueType, TypeString, TypeInt, TypeBool, TypePath, TypeList, TypeJSON)
}

// IsValid returns whether the Connector is known.
func (c Connector) IsValid() (bool, []error) {
	return enumCheck(c, ErrInvalidConnector, ConnectorEquals, ConnectorSpace, ConnectorRepeat)
}

// IsValid returns whether the Shell is known.
func (s Shell) IsValid() (bool, []error) {
	return enumCheck(s, ErrInvalidShell, ShellNone, ShellBash, ShellSh, ShellPowerShell)
}

// IsValid returns whether the StreamFormat is known. The zero value defers
// to the spec-level default and is valid.
func (f StreamFormat) IsValid() (bool, []error) {
	if f == "" {
		return true, nil
	}
	return enumCheck(f, ErrInvalidStreamFormat, StreamFormatText, StreamFormatJSON)
}

// IsValid returns whether the DotenvPrecedence is known. The zero value
// means DeepFirst.
func (p DotenvPrecedence) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	return enumCheck(p, ErrInvalidDotenvPrecedence, DeepFirst, ShallowFirst)
}

// String returns the string representation of the InjectorKind.
func (k InjectorKind) String() string { return string(k) }

// String returns the string representation of the ProviderType.
func (t ProviderType) String() string { return string(t) }
