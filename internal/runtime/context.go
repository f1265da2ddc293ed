// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"os/user"

	"github.com/codesubmit/codesubmit/pkg/platform"
)

const unknownUser = "unknown"

// ExecutionContext describes where and as whom a file was executed.
type ExecutionContext struct {
	WorkDir  string `json:"cwd" yaml:"cwd" toml:"cwd"`
	User     string `json:"user" yaml:"user" toml:"user"`
	Platform string `json:"platform" yaml:"platform" toml:"platform"`
}

// CaptureContext snapshots the current working directory, user and platform.
// Failures degrade to empty or "unknown" values; capturing never fails.
func CaptureContext() ExecutionContext {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	return ExecutionContext{
		WorkDir:  wd,
		User:     currentUser(),
		Platform: platform.HostID(),
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return unknownUser
}
