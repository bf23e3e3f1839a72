// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for cfgwrap.
//
// This package implements the Cobra command hierarchy: run, validate,
// explain, schema, config and version. Handlers delegate to the
// orchestration layer in internal/app/execute and render results with
// lipgloss styles. Failures are rendered once, with a glamour-rendered
// issue catalog entry when one applies, and surface as *ExitError.
package cmd
