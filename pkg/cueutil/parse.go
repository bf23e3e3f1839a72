// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
	"github.com/pelletier/go-toml/v2"
)

const (
	// FormatCUE is native CUE syntax.
	FormatCUE Format = "cue"
	// FormatYAML is YAML 1.2, converted through CUE's YAML encoder.
	FormatYAML Format = "yaml"
	// FormatTOML is TOML 1.0.
	FormatTOML Format = "toml"
	// FormatJSON is JSON. It is a subset of CUE and compiled as such.
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for file extensions with no known decoder.
var ErrUnsupportedFormat = errors.New("unsupported document format")

type (
	// Format names the surface syntax of a user document.
	Format string

	// ParseResult contains the result of a successful parse.
	ParseResult[T any] struct {
		// Value is the decoded Go struct.
		Value *T

		// Unified is the unified CUE value with schema defaults applied.
		Unified cue.Value
	}
)

// FormatFromPath picks a Format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseAndDecode compiles schema, builds data in the configured format,
// unifies it with the definition at schemaPath (e.g. "#Spec"), validates,
// and decodes the result into T.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	// Size check comes first so oversized input is never parsed.
	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue, err := buildUserValue(ctx, data, filename, options.format)
	if err != nil {
		return nil, err
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)

	if options.concrete {
		err = unified.Validate(cue.Concrete(true))
	} else {
		err = unified.Validate()
	}
	if err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}

// ParseAndDecodeString is a convenience wrapper that accepts schema as string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}

func buildUserValue(ctx *cue.Context, data []byte, filename string, format Format) (cue.Value, error) {
	var v cue.Value

	switch format {
	case FormatCUE, FormatJSON:
		v = ctx.CompileBytes(data, cue.Filename(filename))

	case FormatYAML:
		file, err := yaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, FormatError(err, filename)
		}
		v = ctx.BuildFile(file)

	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return cue.Value{}, formatTOMLError(err, filename)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		v = ctx.Encode(doc)

	default:
		return cue.Value{}, fmt.Errorf("%s: %w: %q", filename, ErrUnsupportedFormat, format)
	}

	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), filename)
	}
	return v, nil
}

func formatTOMLError(err error, filename string) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("%s:%d:%d: %w", filename, row, col, err)
	}
	return fmt.Errorf("%s: %w", filename, err)
}
