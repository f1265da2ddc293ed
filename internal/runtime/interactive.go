// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
)

// pipeSet holds the three stdio pipes of an interactive child. The child ends
// are handed to the process and closed in the parent right after start.
type pipeSet struct {
	stdinR, stdinW   *os.File
	stdoutR, stdoutW *os.File
	stderrR, stderrW *os.File
}

func openPipes() (*pipeSet, error) {
	p := &pipeSet{}
	var err error
	if p.stdinR, p.stdinW, err = os.Pipe(); err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	if p.stdoutR, p.stdoutW, err = os.Pipe(); err != nil {
		p.closeAll()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if p.stderrR, p.stderrW, err = os.Pipe(); err != nil {
		p.closeAll()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	return p, nil
}

func (p *pipeSet) closeChildEnds() {
	closeFiles(p.stdinR, p.stdoutW, p.stderrW)
}

func (p *pipeSet) closeAll() {
	closeFiles(p.stdinR, p.stdinW, p.stdoutR, p.stdoutW, p.stderrR, p.stderrW)
}

func closeFiles(files ...*os.File) {
	for _, f := range files {
		if f != nil {
			_ = f.Close()
		}
	}
}

// runInteractive proxies the terminal to the child through pipes on all three
// standard streams while recording stdout and stderr transcripts. Typed input
// is echoed into the stdout transcript.
func (e *Engine) runInteractive(ctx context.Context, cmd Command, cfg RunConfig) outcome {
	pipes, err := openPipes()
	if err != nil {
		return outcome{failure: err}
	}

	c := e.newCmd(cmd)
	c.Stdin = pipes.stdinR
	c.Stdout = pipes.stdoutW
	c.Stderr = pipes.stderrW

	if err := c.Start(); err != nil {
		pipes.closeAll()
		return outcome{failure: err}
	}
	pipes.closeChildEnds()

	var stdout, stderr Transcript

	var relays errgroup.Group
	relays.Go((&StreamRelay{Source: pipes.stdoutR, Transcript: &stdout, Mirror: e.stdout}).Run)
	relays.Go((&StreamRelay{Source: pipes.stderrR, Transcript: &stderr, Mirror: e.stderr}).Run)

	exited := make(chan struct{})
	input := &InputRelay{Feed: e.lineFeed(), Sink: pipes.stdinW, Transcript: &stdout, Done: exited}
	go input.Run()

	reason, waitErr := e.supervise(ctx, c, cfg.Timeout)
	close(exited)
	_ = pipes.stdinW.Close()

	e.drain(&relays)
	closeFiles(pipes.stdoutR, pipes.stderrR)

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

// drain waits for the output relays to finish, for at most the drain grace.
func (e *Engine) drain(relays *errgroup.Group) {
	done := make(chan error, 1)
	go func() { done <- relays.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			e.logger.Debug("Output relay ended with error", "err", err)
		}
	case <-e.clock.After(e.drainGrace):
		e.logger.Warn("Output relays did not drain in time", "grace", e.drainGrace)
	}
}
