// SPDX-License-Identifier: MPL-2.0

// Package stream routes the target's stdout and stderr to log files and
// the terminal, masking registered sensitive values on the way.
package stream
