// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for codesubmit.
//
// The root command wires configuration, discovery, the execution engine and
// report encoders behind the run, scan, config and completion subcommands.
package cmd
