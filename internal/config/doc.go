// SPDX-License-Identifier: MPL-2.0

// Package config handles cfgwrap's own configuration using Viper with CUE as
// the file format.
//
// Configuration is loaded from ~/.config/cfgwrap/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/cfgwrap/config.cue on
// macOS, %APPDATA%\cfgwrap\config.cue on Windows), validated against the
// embedded #Config schema, and overlaid by CFGWRAP_* environment variables
// (for example CFGWRAP_LOG_LEVEL or CFGWRAP_DEFAULTS_STRICT).
package config
