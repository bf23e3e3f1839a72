// SPDX-License-Identifier: MPL-2.0

package spec

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cfgwrap/cfgwrap/pkg/cueutil"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/jsonschema"
)

const schemaRoot = "#Spec"

//go:embed spec_schema.cue
var schemaBytes []byte

// Schema returns the embedded CUE schema source.
func Schema() []byte {
	return schemaBytes
}

// Load reads, schema-validates and decodes a spec file. The format is taken
// from the file extension (.yaml, .yml, .toml, .cue or .json).
func Load(path string) (*Spec, error) {
	format, err := cueutil.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", err)
	}

	s, err := Parse(data, path, format)
	if err != nil {
		return nil, err
	}
	s.FilePath = path
	return s, nil
}

// Parse schema-validates and decodes spec data in the given format.
// filename is used only in error messages.
func Parse(data []byte, filename string, format cueutil.Format) (*Spec, error) {
	result, err := cueutil.ParseAndDecode[Spec](schemaBytes, data, schemaRoot,
		cueutil.WithFilename(filename),
		cueutil.WithFormat(format),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

// JSONSchema returns the spec schema as an indented JSON Schema document.
func JSONSchema() ([]byte, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaBytes)
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}

	root := schema.LookupPath(cue.ParsePath(schemaRoot))
	expr, err := jsonschema.Generate(root, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON schema: %w", err)
	}

	raw, err := ctx.BuildExpr(expr).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}
