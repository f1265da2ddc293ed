// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/codesubmit/codesubmit/internal/discovery"
	"github.com/codesubmit/codesubmit/pkg/types"
)

func TestExecutionResult_Record(t *testing.T) {
	t.Parallel()

	ctx := ExecutionContext{WorkDir: "/work", User: "ada", Platform: "linux/amd64"}
	res := NewExecutionResult(ResultFields{
		Stdout:   "out",
		Stderr:   "err",
		ExitCode: 2,
		Duration: 2500 * time.Millisecond,
		Command:  "python3 -u main.py",
		Context:  ctx,
		TimedOut: false,
	})

	want := ResultRecord{
		Stdout:   "out",
		Stderr:   "err",
		ExitCode: 2,
		Duration: 2.5,
		Command:  "python3 -u main.py",
		Context:  ctx,
	}
	if got := res.Record(); got != want {
		t.Errorf("Record() = %+v, want %+v", got, want)
	}
}

func TestResultRecord_JSONFieldNames(t *testing.T) {
	t.Parallel()

	rec := NewExecutionResult(ResultFields{Command: "java Main.java", TimedOut: true, ExitCode: types.ExitCodeAbnormal}).Record()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"stdout", "stderr", "exit_code", "duration", "command", "context", "timed_out"} {
		if _, ok := m[key]; !ok {
			t.Errorf("record is missing %q: %s", key, data)
		}
	}
	ctx, ok := m["context"].(map[string]any)
	if !ok {
		t.Fatalf("context is %T, want object", m["context"])
	}
	for _, key := range []string{"cwd", "user", "platform"} {
		if _, ok := ctx[key]; !ok {
			t.Errorf("context is missing %q: %s", key, data)
		}
	}
	if m["exit_code"] != float64(-1) || m["timed_out"] != true {
		t.Errorf("exit_code/timed_out = %v/%v", m["exit_code"], m["timed_out"])
	}
}

func TestNewExecutionResult_ClampsNegativeDuration(t *testing.T) {
	t.Parallel()

	if d := NewExecutionResult(ResultFields{Duration: -time.Second}).Duration(); d != 0 {
		t.Errorf("Duration() = %v, want 0", d)
	}
}

func TestLaunchFailure(t *testing.T) {
	t.Parallel()

	res := launchFailure(errors.New(`exec: "java": executable file not found in $PATH`), "java Main.java", ExecutionContext{}, time.Millisecond)
	if !strings.HasPrefix(res.Stderr(), "Execution Failed: ") || !strings.Contains(res.Stderr(), "java") {
		t.Errorf("Stderr() = %q", res.Stderr())
	}
	if res.Stdout() != "" || res.ExitCode() != types.ExitCodeAbnormal || res.TimedOut() {
		t.Errorf("unexpected launch failure result %+v", res.Record())
	}
	if !res.LaunchFailed() {
		t.Error("LaunchFailed() = false for a launch failure")
	}

	timedOut := NewExecutionResult(ResultFields{Stderr: TimeoutMessage, ExitCode: types.ExitCodeAbnormal, TimedOut: true})
	if timedOut.LaunchFailed() {
		t.Error("LaunchFailed() = true for a timeout")
	}
	if NewExecutionResult(ResultFields{Stderr: "Execution Failed: x", ExitCode: 1}).LaunchFailed() {
		t.Error("LaunchFailed() = true for a program that printed the prefix itself")
	}
}

func TestFileResult_Failed(t *testing.T) {
	t.Parallel()

	file := discovery.SourceFile{Path: "/a.py", RelPath: "a.py", Language: types.LanguagePython}
	tests := []struct {
		name   string
		result *ExecutionResult
		want   bool
	}{
		{"no result", nil, false},
		{"success", NewExecutionResult(ResultFields{}), false},
		{"non-zero", NewExecutionResult(ResultFields{ExitCode: 1}), true},
		{"abnormal", NewExecutionResult(ResultFields{ExitCode: types.ExitCodeAbnormal, TimedOut: true}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := (FileResult{File: file, Result: tt.result}).Failed(); got != tt.want {
				t.Errorf("Failed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaptureContext(t *testing.T) {
	t.Parallel()

	ctx := CaptureContext()
	if ctx.WorkDir == "" {
		t.Error("WorkDir is empty")
	}
	if ctx.User == "" {
		t.Error("User is empty")
	}
	if !strings.Contains(ctx.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch", ctx.Platform)
	}
}
