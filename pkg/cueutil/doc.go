// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides schema-validated decoding of user documents.
//
// Every document, whatever its surface syntax, goes through the same flow:
//
//  1. Compile the embedded schema
//  2. Build the user data (CUE, YAML, TOML or JSON) and unify with the schema
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed spec_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Spec](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Spec",
//	    cueutil.WithFilename("cfgwrap.yaml"),
//	    cueutil.WithFormat(cueutil.FormatYAML),
//	)
//	if err != nil {
//	    return nil, err  // Error includes the field path for debugging
//	}
//	return result.Value, nil
package cueutil
