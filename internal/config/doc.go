// SPDX-License-Identifier: MPL-2.0

// Package config handles codesubmit configuration using Viper with CUE as the file format.
//
// Configuration is read from the first of: the --config file, the per-user
// file (~/.config/codesubmit/config.cue, or ~/Library/Application Support on
// macOS, %APPDATA% on Windows), and ./codesubmit.cue. Files are validated
// against an embedded CUE schema (config_schema.cue). CODESUBMIT_* environment
// variables override file values; command-line flags override both.
//
// Config.RunConfig converts the loaded settings into the engine's RunConfig.
package config
