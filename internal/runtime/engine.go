// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/codesubmit/codesubmit/internal/discovery"
	"github.com/codesubmit/codesubmit/pkg/types"
)

// DefaultDrainGrace bounds how long output relays may keep draining after the
// child exits in interactive mode.
const DefaultDrainGrace = 2 * time.Second

const executionCanceledPrefix = "Execution Canceled: "

type (
	// Engine runs source files one at a time and produces one FileResult per file.
	// An Engine may be reused across batches but must not run two batches at once:
	// interactive runs share the terminal input.
	Engine struct {
		resolver   CommandResolver
		logger     *log.Logger
		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer
		env        []string
		drainGrace time.Duration
		clock      Clock
		readFile   func(string) ([]byte, error)
		snapshot   func() ExecutionContext

		feedOnce sync.Once
		feed     *LineFeed
	}

	// Option configures an Engine.
	Option func(*Engine)

	// stopReason records why supervision of a child ended.
	stopReason int

	// outcome is what a single mode run hands back for result assembly.
	outcome struct {
		stdout   string
		stderr   string
		exitCode types.ExitCode
		reason   stopReason
		// failure is set when the child could not be launched or waited on.
		failure error
		// cause is the context error when reason is stopCanceled.
		cause error
	}
)

const (
	stopExited stopReason = iota
	stopTimeout
	stopCanceled
)

// WithResolver sets the command resolver. Defaults to NewResolver().
func WithResolver(r CommandResolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithLogger sets the logger for progress and diagnostics. Defaults to a
// logger that discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithStdin sets the terminal input used by interactive mode. Defaults to os.Stdin.
func WithStdin(r io.Reader) Option {
	return func(e *Engine) { e.stdin = r }
}

// WithStdout sets the live mirror for child stdout in interactive mode. Defaults to os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(e *Engine) { e.stdout = w }
}

// WithStderr sets the live mirror for child stderr in interactive mode. Defaults to os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(e *Engine) { e.stderr = w }
}

// WithEnv appends entries ("KEY=value") to the environment inherited by children.
func WithEnv(env []string) Option {
	return func(e *Engine) { e.env = append(e.env, env...) }
}

// WithDrainGrace sets how long output relays may drain after the child exits.
// Non-positive values select DefaultDrainGrace.
func WithDrainGrace(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.drainGrace = d
		}
	}
}

// WithClock sets the clock used for durations, timeouts and the drain grace.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		resolver:   NewResolver(),
		logger:     log.New(io.Discard),
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		drainGrace: DefaultDrainGrace,
		clock:      RealClock(),
		readFile:   os.ReadFile,
		snapshot:   CaptureContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes files in order and returns exactly one FileResult per file,
// in the same order. A nil Result means execution is disabled or the file's
// language has no runner. Run never fails: every error is folded into the
// affected file's result. When ctx is canceled the running child is killed
// and every remaining file gets a result recording the cancellation.
func (e *Engine) Run(ctx context.Context, files []discovery.SourceFile, cfg RunConfig) []FileResult {
	results := make([]FileResult, 0, len(files))

	if !cfg.Enabled {
		for _, f := range files {
			results = append(results, FileResult{File: f})
		}
		return results
	}

	for _, f := range files {
		cmd := e.resolver.Resolve(f.Path, f.Language)
		if cmd.IsEmpty() {
			e.logger.Info("Skipping execution: no runner defined", "file", f.RelPath, "lang", f.Language)
			results = append(results, FileResult{File: f})
			continue
		}

		if err := ctx.Err(); err != nil {
			e.logger.Debug("Batch canceled before file", "file", f.RelPath)
			results = append(results, FileResult{File: f, Result: e.canceled(cmd, err)})
			continue
		}

		e.logger.Info("Executing", "file", f.RelPath, "command", cmd.String())
		res := e.execute(ctx, cmd, cfg)
		e.logger.Debug("Finished",
			"file", f.RelPath,
			"exit_code", res.ExitCode(),
			"duration", res.Duration(),
			"timed_out", res.TimedOut())
		results = append(results, FileResult{File: f, Result: res})
	}

	return results
}

// execute runs one command and assembles its result.
func (e *Engine) execute(ctx context.Context, cmd Command, cfg RunConfig) *ExecutionResult {
	execCtx := e.snapshot()
	start := e.clock.Now()

	var out outcome
	if cfg.Interactive {
		out = e.runInteractive(ctx, cmd, cfg)
	} else {
		out = e.runBatch(ctx, cmd, cfg)
	}

	duration := e.clock.Since(start)
	line := cmd.String()

	if out.failure != nil {
		e.logger.Warn("Execution failed", "command", line, "err", out.failure)
		return launchFailure(out.failure, line, execCtx, duration)
	}

	fields := ResultFields{
		Stdout:   strings.ToValidUTF8(out.stdout, "�"),
		Stderr:   strings.ToValidUTF8(out.stderr, "�"),
		ExitCode: out.exitCode,
		Duration: duration,
		Command:  line,
		Context:  execCtx,
	}

	switch out.reason {
	case stopTimeout:
		fields.TimedOut = true
		fields.ExitCode = types.ExitCodeAbnormal
		if fields.Stderr == "" {
			fields.Stderr = TimeoutMessage
		}
	case stopCanceled:
		fields.ExitCode = types.ExitCodeAbnormal
		fields.Stderr = appendLine(fields.Stderr, executionCanceledPrefix+out.cause.Error())
	}

	return NewExecutionResult(fields)
}

// canceled builds the result for a file that was never started because the
// batch was canceled.
func (e *Engine) canceled(cmd Command, cause error) *ExecutionResult {
	return NewExecutionResult(ResultFields{
		Stderr:   executionCanceledPrefix + cause.Error(),
		ExitCode: types.ExitCodeAbnormal,
		Command:  cmd.String(),
		Context:  e.snapshot(),
	})
}

// newCmd builds the exec.Cmd for a command without binding it to a context;
// supervision is done by the engine so partial output survives a kill.
func (e *Engine) newCmd(cmd Command) *exec.Cmd {
	c := exec.Command(cmd.Program(), cmd.Args()...)
	if len(e.env) > 0 {
		c.Env = append(os.Environ(), e.env...)
	}
	prepareProcess(c)
	return c
}

// supervise waits for the started child to exit, killing it when the timeout
// elapses or ctx is done. It always returns after the child has been reaped.
func (e *Engine) supervise(ctx context.Context, c *exec.Cmd, timeout time.Duration) (stopReason, error) {
	done := make(chan error, 1)
	go func() { done <- c.Wait() }()

	var expired <-chan time.Time
	if timeout > 0 {
		expired = e.clock.After(timeout)
	}

	select {
	case err := <-done:
		return stopExited, err
	case <-expired:
		e.kill(c)
		return stopTimeout, <-done
	case <-ctx.Done():
		e.kill(c)
		return stopCanceled, <-done
	}
}

func (e *Engine) kill(c *exec.Cmd) {
	if err := killProcess(c); err != nil {
		e.logger.Warn("Failed to kill child process", "pid", c.Process.Pid, "err", err)
	}
}

// lineFeed returns the engine-wide terminal line feed.
func (e *Engine) lineFeed() *LineFeed {
	e.feedOnce.Do(func() { e.feed = NewLineFeed(e.stdin) })
	return e.feed
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + line
}
