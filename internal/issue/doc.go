// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable, user-facing errors for the codesubmit CLI.
//
// ActionableError pairs an operation and resource with fix suggestions, and may
// link to an Issue: a known failure mode with Markdown guidance that the CLI
// renders with glamour when verbose output is requested.
package issue
