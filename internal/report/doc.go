// SPDX-License-Identifier: MPL-2.0

// Package report renders a batch of execution results as text, JSON, YAML,
// TOML or Markdown.
//
// Every machine-readable format carries the same Document: batch metadata, a
// summary, and one entry per discovered file whose result, when present, uses
// the field names stdout, stderr, exit_code, duration, command, context and
// timed_out.
package report
