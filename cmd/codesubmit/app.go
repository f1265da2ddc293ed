// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/codesubmit/codesubmit/internal/config"
	"github.com/codesubmit/codesubmit/internal/runtime"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; every Cobra handler receives an App reference.
	App struct {
		Config     ConfigProvider
		Resolver   runtime.CommandResolver
		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer
		isTerminal func(any) bool
		lookPath   func(string) (string, error)
		now        func() time.Time
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Resolver runtime.CommandResolver
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
		// IsTerminal reports whether a stream is attached to a terminal.
		IsTerminal func(any) bool
		// LookPath checks whether a runner program is installed.
		LookPath func(string) (string, error)
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.LookPath == nil {
		deps.LookPath = exec.LookPath
	}
	if deps.Resolver == nil {
		deps.Resolver = runtime.NewResolver(runtime.WithLookPath(deps.LookPath))
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = isTerminal
	}

	return &App{
		Config:     deps.Config,
		Resolver:   deps.Resolver,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		isTerminal: deps.IsTerminal,
		lookPath:   deps.LookPath,
		now:        time.Now,
	}
}

// loadConfig loads configuration honoring the --config flag.
func (a *App) loadConfig(ctx context.Context, rootFlags *rootFlagValues) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: rootFlags.configPath})
}

// newLogger returns the CLI logger writing to stderr.
func (a *App) newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "codesubmit",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// isTerminal reports whether v is a file descriptor attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
