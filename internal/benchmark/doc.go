// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for PGO profile generation.
// These benchmarks cover the hot paths of a cfgwrap invocation:
//   - Spec parsing and schema validation (YAML, TOML and CUE)
//   - Token expansion and condition evaluation
//   - Secret masking of target output
//   - The end-to-end resolution pipeline and a native target run
//
// To generate a PGO profile, run:
//
//	go test -run='^$' -bench=. -cpuprofile=default.pgo ./internal/benchmark
package benchmark
