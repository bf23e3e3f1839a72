// SPDX-License-Identifier: MPL-2.0

// Package build assembles resolved injectors into the final process
// invocation: argv, environment, stdin payload and the ephemeral files the
// executor must delete afterwards.
package build
