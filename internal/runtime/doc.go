// SPDX-License-Identifier: MPL-2.0

// Package runtime is the execution engine: it resolves the command for each
// source file, supervises the child process in batch or interactive mode,
// enforces the per-file timeout, and assembles an immutable ExecutionResult.
//
// Batch mode feeds stdin up front and captures stdout/stderr in full.
// Interactive mode interposes pipes on all three standard streams: a
// StreamRelay per output stream mirrors data to the terminal while recording
// a Transcript, and an InputRelay forwards terminal lines to the child while
// echoing them into the stdout transcript.
//
// Files run strictly one after another. Engine.Run never fails: launch errors,
// pipe errors and timeouts are folded into the per-file result, and every input
// file yields exactly one FileResult.
package runtime
