// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform config directory when set.
// os.UserHomeDir() does not reliably respect HOME on every platform
// (e.g., macOS in CI), so tests point the lookup at a temp dir instead.
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path for tests.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
