// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"strings"
	"time"

	"github.com/codesubmit/codesubmit/internal/discovery"
	"github.com/codesubmit/codesubmit/pkg/types"
)

const (
	// TimeoutMessage replaces an empty stderr when a run hits its timeout.
	TimeoutMessage = "Timeout Expired"

	// executionFailedPrefix prefixes stderr when the child could not be run.
	executionFailedPrefix = "Execution Failed: "
)

type (
	// ExecutionResult is the immutable outcome of running one file.
	// It is built once by the engine and only read afterwards.
	ExecutionResult struct {
		stdout   string
		stderr   string
		exitCode types.ExitCode
		duration time.Duration
		command  string
		context  ExecutionContext
		timedOut bool
	}

	// ResultFields carries the values for NewExecutionResult.
	ResultFields struct {
		Stdout   string
		Stderr   string
		ExitCode types.ExitCode
		Duration time.Duration
		Command  string
		Context  ExecutionContext
		TimedOut bool
	}

	// ResultRecord is the serializable form of an ExecutionResult.
	// Duration is expressed in seconds.
	ResultRecord struct {
		Stdout   string           `json:"stdout" yaml:"stdout" toml:"stdout"`
		Stderr   string           `json:"stderr" yaml:"stderr" toml:"stderr"`
		ExitCode int              `json:"exit_code" yaml:"exit_code" toml:"exit_code"`
		Duration float64          `json:"duration" yaml:"duration" toml:"duration"`
		Command  string           `json:"command" yaml:"command" toml:"command"`
		Context  ExecutionContext `json:"context" yaml:"context" toml:"context"`
		TimedOut bool             `json:"timed_out" yaml:"timed_out" toml:"timed_out"`
	}

	// FileResult pairs a source file with its result. Result is nil when
	// execution was disabled or no runner exists for the file's language.
	FileResult struct {
		File   discovery.SourceFile
		Result *ExecutionResult
	}
)

// NewExecutionResult builds an ExecutionResult. A negative duration is clamped to zero.
func NewExecutionResult(f ResultFields) *ExecutionResult {
	if f.Duration < 0 {
		f.Duration = 0
	}
	return &ExecutionResult{
		stdout:   f.Stdout,
		stderr:   f.Stderr,
		exitCode: f.ExitCode,
		duration: f.Duration,
		command:  f.Command,
		context:  f.Context,
		timedOut: f.TimedOut,
	}
}

// Stdout returns the captured standard output.
func (r *ExecutionResult) Stdout() string { return r.stdout }

// Stderr returns the captured standard error.
func (r *ExecutionResult) Stderr() string { return r.stderr }

// ExitCode returns the process exit code, or types.ExitCodeAbnormal.
func (r *ExecutionResult) ExitCode() types.ExitCode { return r.exitCode }

// Duration returns the wall-clock time of the run.
func (r *ExecutionResult) Duration() time.Duration { return r.duration }

// Command returns the shell-escaped command line.
func (r *ExecutionResult) Command() string { return r.command }

// Context returns the execution context snapshot.
func (r *ExecutionResult) Context() ExecutionContext { return r.context }

// TimedOut reports whether the run was killed for exceeding the timeout.
func (r *ExecutionResult) TimedOut() bool { return r.timedOut }

// Succeeded reports whether the child exited with status 0.
func (r *ExecutionResult) Succeeded() bool { return r.exitCode.IsSuccess() }

// LaunchFailed reports whether the child could not be started or waited on.
func (r *ExecutionResult) LaunchFailed() bool {
	return r.exitCode.IsAbnormal() && !r.timedOut && strings.HasPrefix(r.stderr, executionFailedPrefix)
}

// Record returns the serializable form of the result.
func (r *ExecutionResult) Record() ResultRecord {
	return ResultRecord{
		Stdout:   r.stdout,
		Stderr:   r.stderr,
		ExitCode: int(r.exitCode),
		Duration: r.duration.Seconds(),
		Command:  r.command,
		Context:  r.context,
		TimedOut: r.timedOut,
	}
}

// Failed reports whether the file ran and did not exit with status 0.
// A nil Result is not a failure.
func (fr FileResult) Failed() bool {
	return fr.Result != nil && !fr.Result.Succeeded()
}

// launchFailure builds the result for a child that could not be run.
func launchFailure(err error, cmd string, ctx ExecutionContext, d time.Duration) *ExecutionResult {
	return NewExecutionResult(ResultFields{
		Stderr:   executionFailedPrefix + err.Error(),
		ExitCode: types.ExitCodeAbnormal,
		Duration: d,
		Command:  cmd,
		Context:  ctx,
	})
}
