// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a batch when source files change.
//
// A Watcher registers every non-ignored directory under its roots with
// fsnotify and coalesces events for matching files within a debounce window,
// then invokes OnChange once with the sorted set of changed paths.
package watch
