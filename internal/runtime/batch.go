// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// runBatch feeds the configured input to the child and captures its output
// in full. Partial output is kept when the child is killed.
func (e *Engine) runBatch(ctx context.Context, cmd Command, cfg RunConfig) outcome {
	var stdout, stderr Transcript

	c := e.newCmd(cmd)
	c.Stdin = bytes.NewReader(cfg.batchInput(e.readFile))
	c.Stdout = &stdout
	c.Stderr = &stderr
	// Grandchildren that outlive the kill may hold the pipes open.
	c.WaitDelay = e.drainGrace

	if err := c.Start(); err != nil {
		return outcome{failure: err}
	}

	reason, waitErr := e.supervise(ctx, c, cfg.Timeout)
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		// The child exited with status 0; only the pipe drain was cut short.
		waitErr = nil
	}

	code, failure := exitCodeOf(waitErr)
	if failure != nil && reason == stopExited {
		return outcome{failure: failure}
	}

	return outcome{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		exitCode: code,
		reason:   reason,
		cause:    context.Cause(ctx),
	}
}
