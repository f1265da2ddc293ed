// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// GOOS names compared against runtime.GOOS.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// HostID returns the identifier of the platform this process runs on, in
// "<os>/<arch>" form (e.g., "linux/amd64").
func HostID() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// IsWindows reports whether the host OS is Windows.
func IsWindows() bool { return runtime.GOOS == Windows }
