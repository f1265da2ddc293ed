// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/codesubmit/codesubmit/internal/config"
	"github.com/codesubmit/codesubmit/internal/issue"
	"github.com/codesubmit/codesubmit/internal/report"
	"github.com/codesubmit/codesubmit/internal/testutil"
)

func TestRun_TextReportAndExitCode(t *testing.T) {
	t.Parallel()
	testutil.RequireShell(t)

	dir := writeScripts(t, map[string]string{
		"ok.sh":  "echo hello\n",
		"bad.sh": "echo oops >&2\nexit 3\n",
	})

	res := runCLI(t, Dependencies{}, "run", dir)

	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) || exitErr.Code != 1 || exitErr.Err != nil {
		t.Fatalf("run error = %v, want silent ExitError code 1", res.err)
	}
	for _, want := range []string{"✓ ok.sh", "✗ bad.sh", "hello", "oops", "exit 3", "1 passed · 1 failed"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("report missing %q:\n%s", want, res.stdout)
		}
	}
	if !strings.Contains(res.stderr, "Executing") {
		t.Errorf("stderr missing progress log:\n%s", res.stderr)
	}
}

func TestRun_AllPassExitsZero(t *testing.T) {
	t.Parallel()
	testutil.RequireShell(t)

	dir := writeScripts(t, map[string]string{"ok.sh": "exit 0\n", "notes.txt": "not code"})
	res := runCLI(t, Dependencies{}, "run", dir)
	if res.err != nil {
		t.Fatalf("run error = %v\nstderr:\n%s", res.err, res.stderr)
	}
	if strings.Contains(res.stdout, "notes.txt") {
		t.Errorf("non-source file reported:\n%s", res.stdout)
	}
}

func TestRun_JSONReportToFile(t *testing.T) {
	t.Parallel()
	testutil.RequireShell(t)

	dir := writeScripts(t, map[string]string{
		"echo.sh": "read line\necho \"got $line\"\n",
	})
	out := filepath.Join(t.TempDir(), "report.json")

	res := runCLI(t, Dependencies{}, "run", dir, "--stdin", "42\n", "-f", "json", "-o", out, "--timeout", "30s")
	if res.err != nil {
		t.Fatalf("run error = %v\nstderr:\n%s", res.err, res.stderr)
	}
	if res.stdout != "" {
		t.Errorf("stdout = %q, want empty when writing to a file", res.stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var doc report.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode report: %v\n%s", err, data)
	}
	if len(doc.Files) != 1 || doc.Files[0].Result == nil {
		t.Fatalf("files = %+v", doc.Files)
	}
	got := doc.Files[0].Result
	if got.Stdout != "got 42\n" || got.ExitCode != 0 || got.TimedOut {
		t.Errorf("result = %+v", got)
	}
	if !strings.HasPrefix(got.Command, "sh ") {
		t.Errorf("command = %q, want sh runner", got.Command)
	}
}

func TestRun_TimeoutFromFlag(t *testing.T) {
	t.Parallel()
	testutil.RequireShell(t)

	dir := writeScripts(t, map[string]string{"slow.sh": "sleep 5\n"})
	start := time.Now()
	res := runCLI(t, Dependencies{}, "run", dir, "--timeout", "200ms", "-f", "json")
	if time.Since(start) > 4*time.Second {
		t.Fatal("timeout flag was not applied")
	}

	var doc report.Document
	if err := json.Unmarshal([]byte(res.stdout), &doc); err != nil {
		t.Fatalf("decode report: %v\n%s", err, res.stdout)
	}
	got := doc.Files[0].Result
	if got == nil || !got.TimedOut || got.ExitCode != -1 || got.Stderr != "Timeout Expired" {
		t.Errorf("result = %+v", got)
	}
}

func TestRun_NoExecute(t *testing.T) {
	t.Parallel()

	dir := writeScripts(t, map[string]string{"a.py": "print(1)\n"})
	res := runCLI(t, Dependencies{}, "run", dir, "--no-execute", "-f", "yaml")
	if res.err != nil {
		t.Fatalf("run error = %v", res.err)
	}
	if !strings.Contains(res.stdout, "result: null") || !strings.Contains(res.stdout, "skipped: 1") {
		t.Errorf("report:\n%s", res.stdout)
	}
}

func TestRun_DryRun(t *testing.T) {
	t.Parallel()

	dir := writeScripts(t, map[string]string{
		"hello.py":  "print('hi')\n",
		"prog.c":    "int main(){}\n",
		"script.sh": "exit 1\n",
	})
	deps := Dependencies{LookPath: func(string) (string, error) { return "", errors.New("not found") }}

	res := runCLI(t, deps, "run", dir, "--dry-run", "--timeout", "0")
	if res.err != nil {
		t.Fatalf("run error = %v", res.err)
	}
	for _, want := range []string{
		"Dry Run",
		"Timeout: none",
		"hello.py (Python)",
		"$ python3 -u ",
		"prog.c (C)",
		"no runner defined",
		"$ sh ",
	} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("dry run output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	dir := writeScripts(t, map[string]string{"a.sh": "exit 0\n"})

	tests := []struct {
		name      string
		deps      Dependencies
		args      []string
		wantIssue issue.Id
		wantText  string
	}{
		{
			name:      "interactive without terminal",
			args:      []string{"run", dir, "--interactive"},
			wantIssue: issue.InteractiveNeedsTerminalId,
		},
		{
			name:      "no source files",
			args:      []string{"run", t.TempDir()},
			wantIssue: issue.NoSourceFilesId,
		},
		{
			name:      "bad include pattern",
			args:      []string{"run", dir, "--include", "[oops"},
			wantIssue: issue.InvalidGlobPatternId,
			wantText:  "[oops",
		},
		{
			name:     "unknown report format",
			args:     []string{"run", dir, "-f", "xml"},
			wantText: "unknown report format",
		},
		{
			name:     "negative timeout",
			args:     []string{"run", dir, "--timeout=-1s"},
			wantText: "execution.timeout",
		},
		{
			name:     "watch with dry run",
			args:     []string{"run", dir, "--watch", "--dry-run"},
			wantText: "cannot be used together",
		},
		{
			name:     "config load failure",
			deps:     Dependencies{Config: failingConfig{}},
			args:     []string{"run", dir},
			wantText: "config exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, tt.deps, tt.args...)
			if res.err == nil {
				t.Fatal("run succeeded, want error")
			}
			if tt.wantText != "" && !strings.Contains(res.err.Error(), tt.wantText) {
				t.Errorf("error = %v, want containing %q", res.err, tt.wantText)
			}
			if tt.wantIssue != 0 {
				is, ok := issue.GuidanceFor(res.err)
				if !ok || is.Id() != tt.wantIssue {
					t.Errorf("guidance for %v = %v, want issue %d", res.err, is, tt.wantIssue)
				}
			}
		})
	}
}

func TestRun_ReportWriteFailure(t *testing.T) {
	t.Parallel()

	dir := writeScripts(t, map[string]string{"a.py": "print(1)\n"})
	out := filepath.Join(t.TempDir(), "missing", "report.json")

	res := runCLI(t, Dependencies{}, "run", dir, "--no-execute", "-o", out)
	is, ok := issue.GuidanceFor(res.err)
	if !ok || is.Id() != issue.ReportWriteFailedId {
		t.Errorf("error = %v, want report write failure guidance", res.err)
	}
}

func TestRun_ConfigValuesApply(t *testing.T) {
	t.Parallel()
	testutil.RequireShell(t)

	dir := writeScripts(t, map[string]string{
		"keep/a.sh": "echo kept\n",
		"skip/b.sh": "echo skipped\n",
	})
	deps := Dependencies{Config: staticConfig{mutate: func(c *config.Config) {
		c.Scan.Exclude = []string{"skip/**"}
		c.Report.Format = "markdown"
	}}}

	res := runCLI(t, deps, "run", dir)
	if res.err != nil {
		t.Fatalf("run error = %v\nstderr:\n%s", res.err, res.stderr)
	}
	if !strings.Contains(res.stdout, "| `keep/a.sh` |") || strings.Contains(res.stdout, "skip/b.sh") {
		t.Errorf("markdown report:\n%s", res.stdout)
	}
}

func TestApplyRunFlags(t *testing.T) {
	t.Parallel()

	flags := &runFlagValues{}
	cmd := &cobra.Command{Use: "run"}
	bindRunFlags(cmd, flags)
	if err := cmd.ParseFlags([]string{
		"--timeout", "3s", "--stdin", "x", "-i", "--no-execute",
		"--include", "a/**,b/**", "-f", "toml", "-o", "out.toml", "--drain-grace", "500ms",
	}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Execution.InputFile = "kept.txt"
	cfg.Scan.Exclude = []string{"kept/**"}
	applyRunFlags(cmd, cfg, flags)

	want := config.ExecutionConfig{
		Enabled:     false,
		Timeout:     3 * time.Second,
		Stdin:       "x",
		InputFile:   "kept.txt",
		Interactive: true,
		DrainGrace:  500 * time.Millisecond,
	}
	if cfg.Execution != want {
		t.Errorf("Execution = %+v, want %+v", cfg.Execution, want)
	}
	if got := strings.Join(cfg.Scan.Include, ";"); got != "a/**;b/**" {
		t.Errorf("Include = %q", got)
	}
	if got := strings.Join(cfg.Scan.Exclude, ";"); got != "kept/**" {
		t.Errorf("Exclude = %q, want untouched", got)
	}
	if cfg.Report.Format != "toml" || cfg.Report.Output != "out.toml" {
		t.Errorf("Report = %+v", cfg.Report)
	}
}

func TestGlamourStyle(t *testing.T) {
	t.Parallel()

	tests := map[config.ColorScheme]string{
		config.ColorSchemeAuto:  "auto",
		config.ColorSchemeDark:  "dark",
		config.ColorSchemeLight: "light",
	}
	for cs, want := range tests {
		if got := glamourStyle(cs); got != want {
			t.Errorf("glamourStyle(%q) = %q, want %q", cs, got, want)
		}
	}
}
