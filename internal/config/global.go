// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform lookup in ConfigDir when set.
var configDirOverride string

// OverrideConfigDir points ConfigDir at dir until the returned restore
// function is called. macOS CI ignores HOME in os.UserHomeDir, so tests use
// this instead of setting environment variables.
func OverrideConfigDir(dir string) (restore func()) {
	previous := configDirOverride
	configDirOverride = dir
	return func() { configDirOverride = previous }
}
