// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codesubmit/codesubmit/internal/config"
	"github.com/codesubmit/codesubmit/internal/testutil"
)

// staticConfig serves defaults, optionally adjusted, without touching the
// user's configuration directory.
type staticConfig struct {
	mutate func(*config.Config)
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.mutate != nil {
		s.mutate(cfg)
	}
	return cfg, nil
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the command tree with deps and captured output.
func runCLI(t *testing.T, deps Dependencies, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	deps.Stdout = &stdout
	deps.Stderr = &stderr
	if deps.Stdin == nil {
		deps.Stdin = strings.NewReader("")
	}
	if deps.Config == nil {
		deps.Config = staticConfig{}
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = func(any) bool { return false }
	}

	root := NewRootCommand(NewApp(deps))
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// writeScripts creates shell scripts under a fresh directory.
func writeScripts(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range scripts {
		path := filepath.Join(dir, filepath.FromSlash(name))
		testutil.MustMkdirAll(t, filepath.Dir(path), 0o755)
		testutil.MustWriteFile(t, path, []byte(body))
	}
	return dir
}

type failingConfig struct{}

func (failingConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	return nil, errors.New("config exploded")
}
