// SPDX-License-Identifier: MPL-2.0

// Package testutil provides shared test helpers: a controllable clock for
// timestamped tokens and stream records, and environment and working
// directory helpers that restore state on cleanup.
package testutil
