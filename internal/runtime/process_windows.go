// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"errors"
	"os"
	"os/exec"
)

func prepareProcess(*exec.Cmd) {}

// killProcess terminates the child. Killing a process that already exited is a no-op.
func killProcess(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
