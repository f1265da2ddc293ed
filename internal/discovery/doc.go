// SPDX-License-Identifier: MPL-2.0

// Package discovery locates runnable source files and detects their language.
//
// Roots may be files or directories. Directories are walked recursively in
// lexical order; every regular file whose extension maps to a known language
// is reported as a SourceFile. Include and exclude patterns are
// doublestar-compatible globs matched against the slash-separated path
// relative to the scan root.
//
// File organization:
//   - source.go: SourceFile and extension-to-language detection
//   - scanner.go: Scanner, Options and the directory walk
//   - diagnostic.go: non-fatal diagnostics returned alongside results
package discovery
