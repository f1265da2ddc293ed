// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// It centralizes GOOS name constants and the host platform identifier that is
// recorded in every execution context.
package platform
