// SPDX-License-Identifier: MPL-2.0

// Package runtime holds the per-invocation runtime snapshot and spawns the
// target process.
//
// Context captures the environment, clock, process id, home directory and
// sequence counter that token expansion and providers read. Execute runs an
// assembled argv with exactly the built environment, optionally wrapped in a
// shell (see Wrap) or attached to a pseudo-terminal, and reports the outcome
// as a Result.
package runtime
