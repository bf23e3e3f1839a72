// SPDX-License-Identifier: MPL-2.0

// Package spec defines the cfgwrap specification model: providers,
// injectors, the target command and optional profiles.
//
// Spec files may be written in YAML, TOML or CUE. Every format is unified
// against the embedded CUE schema (spec_schema.cue) before decoding, so
// defaults are applied and structural errors are reported with JSON paths.
// Validate adds the semantic checks the schema cannot express.
package spec
