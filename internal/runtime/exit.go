// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"os/exec"

	"github.com/codesubmit/codesubmit/pkg/types"
)

// exitCodeOf maps the error returned by exec.Cmd.Wait to an exit code.
// A nil error is success. A child killed by a signal reports -1 from
// ProcessState.ExitCode and keeps that value. Any error that is not an
// *exec.ExitError means the child was never observed exiting, so the result
// is abnormal and waitErr is returned for the caller to report.
func exitCodeOf(err error) (code types.ExitCode, waitErr error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = types.ExitCode(exitErr.ExitCode())
		if code.Validate() != nil {
			code = types.ExitCodeAbnormal
		}
		return code, nil
	}

	return types.ExitCodeAbnormal, err
}
