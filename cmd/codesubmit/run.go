// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/codesubmit/codesubmit/internal/config"
	"github.com/codesubmit/codesubmit/internal/discovery"
	"github.com/codesubmit/codesubmit/internal/issue"
	"github.com/codesubmit/codesubmit/internal/report"
	"github.com/codesubmit/codesubmit/internal/runtime"
	"github.com/codesubmit/codesubmit/internal/watch"
)

// errStdinNotTerminal is wrapped when interactive mode is requested without a terminal.
var errStdinNotTerminal = errors.New("standard input is not a terminal")

type (
	// runFlagValues holds the flags of `codesubmit run`. Unset flags leave
	// the configured value in place.
	runFlagValues struct {
		timeout      time.Duration
		stdin        string
		inputFile    string
		interactive  bool
		noExecute    bool
		drainGrace   time.Duration
		include      []string
		exclude      []string
		reportFormat string
		output       string
		watch        bool
		clearScreen  bool
		dryRun       bool
		force        bool
	}

	// runSession is one `codesubmit run` invocation. The engine is shared by
	// every batch so interactive input has a single reader across watch re-runs.
	runSession struct {
		app     *App
		cfg     *config.Config
		format  report.Format
		logger  *log.Logger
		scanner *discovery.Scanner
		roots   []string
		engine  *runtime.Engine
	}
)

// newRunCommand creates the `codesubmit run` command.
func newRunCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &runFlagValues{}

	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run every source file under the given paths",
		Long: `Run every discovered source file and report the results.

Each file runs with its language's interpreter in the file's own process
group. In batch mode the configured input is written to every program's
standard input; in interactive mode your keystrokes are forwarded line by
line and output is shown as it is produced.

The command exits with status 1 if any program exits non-zero, times out or
cannot be started.`,
		Example: `  codesubmit run ./submissions
  codesubmit run hw1 --stdin "5\n" --timeout 3s
  codesubmit run . --input-file cases/1.txt -f json -o report.json
  codesubmit run . --interactive
  codesubmit run . --watch --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmissions(cmd, app, rootFlags, flags, args)
		},
	}
	bindRunFlags(runCmd, flags)

	return runCmd
}

// bindRunFlags registers the run flags on cmd, storing values in flags.
func bindRunFlags(cmd *cobra.Command, flags *runFlagValues) {
	f := cmd.Flags()
	f.DurationVar(&flags.timeout, "timeout", 0, "per-file time limit, 0 disables it (config default 10s)")
	f.StringVar(&flags.stdin, "stdin", "", "text written to each program's standard input")
	f.StringVar(&flags.inputFile, "input-file", "", "file whose contents replace --stdin when readable")
	f.BoolVarP(&flags.interactive, "interactive", "i", false, "forward terminal input to each program as it runs")
	f.BoolVar(&flags.noExecute, "no-execute", false, "discover files and report them without running anything")
	f.DurationVar(&flags.drainGrace, "drain-grace", 0, "how long to wait for output after an interactive program exits")
	f.StringSliceVar(&flags.include, "include", nil, "only run files matching these globs (relative to each path)")
	f.StringSliceVar(&flags.exclude, "exclude", nil, "skip files matching these globs")
	f.StringVarP(&flags.reportFormat, "report-format", "f", "", "report format: text, json, yaml, toml, markdown")
	f.StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of standard output")
	f.BoolVarP(&flags.watch, "watch", "w", false, "re-run when a source file changes")
	f.BoolVar(&flags.clearScreen, "clear", false, "clear the terminal before each watch re-run")
	f.BoolVar(&flags.dryRun, "dry-run", false, "print the commands that would run without running them")
	f.BoolVar(&flags.force, "force", false, "allow --interactive when standard input is not a terminal")

	_ = cmd.RegisterFlagCompletionFunc("report-format", completeReportFormats)
}

func completeReportFormats(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	formats := report.Formats()
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = f.String()
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// applyRunFlags overrides configuration with the flags the user set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config, flags *runFlagValues) {
	changed := cmd.Flags().Changed
	if changed("timeout") {
		cfg.Execution.Timeout = flags.timeout
	}
	if changed("stdin") {
		cfg.Execution.Stdin = flags.stdin
	}
	if changed("input-file") {
		cfg.Execution.InputFile = flags.inputFile
	}
	if changed("interactive") {
		cfg.Execution.Interactive = flags.interactive
	}
	if changed("no-execute") {
		cfg.Execution.Enabled = !flags.noExecute
	}
	if changed("drain-grace") {
		cfg.Execution.DrainGrace = flags.drainGrace
	}
	if changed("include") {
		cfg.Scan.Include = flags.include
	}
	if changed("exclude") {
		cfg.Scan.Exclude = flags.exclude
	}
	if changed("report-format") {
		cfg.Report.Format = flags.reportFormat
	}
	if changed("output") {
		cfg.Report.Output = flags.output
	}
}

func runSubmissions(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *runFlagValues, args []string) error {
	if flags.watch && flags.dryRun {
		return fmt.Errorf("--watch and --dry-run cannot be used together")
	}

	ctx := cmd.Context()
	cfg, err := app.loadConfig(ctx, rootFlags)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg, flags)
	if rootFlags.verbose {
		cfg.UI.Verbose = true
	}
	if valid, errs := cfg.IsValid(); !valid {
		err := errors.Join(errs...)
		ec := issue.NewErrorContext().WithOperation("apply run options")
		if errors.Is(err, config.ErrInvalidGlob) {
			ec.WithSuggestion("Check the --include and --exclude patterns").WithIssue(issue.InvalidGlobPatternId)
		}
		if errors.Is(err, config.ErrInvalidDuration) {
			ec.WithSuggestion("Durations must not be negative, e.g. --timeout 5s")
		}
		return ec.Wrap(err).BuildError()
	}

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("select report format").
			WithSuggestion("Use one of: text, json, yaml, toml, markdown").
			Wrap(err).
			BuildError()
	}

	logger := app.newLogger(cfg.UI.Verbose)
	scanner, err := newScanner(cfg.Scan)
	if err != nil {
		return err
	}
	roots := scanRoots(args)

	if flags.dryRun {
		files, discoverErr := discoverFiles(ctx, scanner, roots, logger)
		if discoverErr != nil {
			return discoverErr
		}
		renderDryRun(app.stdout, files, app.Resolver, cfg)
		return nil
	}

	if cfg.Execution.Enabled && cfg.Execution.Interactive && !flags.force && !app.isTerminal(app.stdin) {
		return issue.NewErrorContext().
			WithOperation("start interactive run").
			WithResource("standard input").
			WithSuggestion("Provide input with --stdin or --input-file instead").
			WithSuggestion("Pass --force to forward piped input line by line").
			WithIssue(issue.InteractiveNeedsTerminalId).
			Wrap(errStdinNotTerminal).
			BuildError()
	}
	warnUnreadableInput(cfg, logger)

	s := &runSession{
		app:     app,
		cfg:     cfg,
		format:  format,
		logger:  logger,
		scanner: scanner,
		roots:   roots,
		engine: runtime.NewEngine(
			runtime.WithResolver(app.Resolver),
			runtime.WithLogger(logger),
			runtime.WithStdin(app.stdin),
			runtime.WithStdout(app.stdout),
			runtime.WithStderr(app.stderr),
			runtime.WithDrainGrace(cfg.Execution.DrainGrace),
		),
	}

	if flags.watch {
		return s.watch(ctx, flags.clearScreen)
	}
	return s.runOnce(ctx)
}

// warnUnreadableInput logs when the input file will fall back to inline input.
func warnUnreadableInput(cfg *config.Config, logger *log.Logger) {
	path := cfg.Execution.InputFile
	if path == "" || cfg.Execution.Interactive || !cfg.Execution.Enabled {
		return
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("Input file is not readable, using --stdin text instead", "path", path, "err", err)
	}
}

// runOnce discovers, runs and reports one batch. A batch with any failed
// file yields an ExitError with code 1.
func (s *runSession) runOnce(ctx context.Context) error {
	files, err := discoverFiles(ctx, s.scanner, s.roots, s.logger)
	if err != nil {
		return err
	}

	started := s.app.now()
	results := s.engine.Run(ctx, files, s.cfg.RunConfig())
	batch := report.NewBatch(started, results)

	sum := batch.Summary()
	s.logger.Debug("Batch finished", "batch", batch.ID, "passed", sum.Passed, "failed", sum.Failed, "skipped", sum.Skipped)
	s.warnLaunchFailures(results)

	if err := s.writeReport(batch); err != nil {
		return err
	}
	if batch.Failed() {
		return &ExitError{Code: 1}
	}
	return nil
}

func (s *runSession) warnLaunchFailures(results []runtime.FileResult) {
	failed := false
	for _, fr := range results {
		if fr.Result != nil && fr.Result.LaunchFailed() {
			failed = true
			s.logger.Warn("Runner could not be started", "file", fr.File.RelPath, "command", fr.Result.Command())
		}
	}
	if failed && s.cfg.UI.Verbose {
		renderGuidance(s.app.stderr, issue.NewErrorContext().
			WithOperation("start runner").
			WithIssue(issue.RunnerNotInstalledId).
			BuildError())
	}
}

// writeReport encodes the batch to the configured destination.
func (s *runSession) writeReport(b report.Batch) (err error) {
	var w io.Writer = s.app.stdout
	opts := report.Options{Verbose: s.cfg.UI.Verbose}

	out := s.cfg.Report.Output
	if out != "" && out != "-" {
		f, createErr := os.Create(out)
		if createErr != nil {
			return reportWriteError(out, createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = reportWriteError(out, closeErr)
			}
		}()
		w = f
	} else if s.format == report.FormatMarkdown && s.app.isTerminal(s.app.stdout) {
		opts.GlamourStyle = glamourStyle(s.cfg.UI.ColorScheme)
	}

	if writeErr := report.Write(w, s.format, b, opts); writeErr != nil {
		return reportWriteError(out, writeErr)
	}
	if w != s.app.stdout {
		s.logger.Info("Report written", "path", out, "format", s.format)
	}
	return nil
}

func reportWriteError(path string, err error) error {
	if path == "" {
		path = "standard output"
	}
	return issue.NewErrorContext().
		WithOperation("write report").
		WithResource(path).
		WithIssue(issue.ReportWriteFailedId).
		Wrap(err).
		BuildError()
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle(cs config.ColorScheme) string {
	switch cs {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// watch runs the batch once, then again whenever a matching source file
// changes, until ctx is canceled. Batch failures do not stop watching.
func (s *runSession) watch(ctx context.Context, clearScreen bool) error {
	rerun := func(ctx context.Context) {
		if err := s.runOnce(ctx); err != nil {
			var exitErr *ExitError
			if errors.As(err, &exitErr) && exitErr.Err == nil {
				return
			}
			s.logger.Error("Run failed", "err", formatErrorForDisplay(err, s.cfg.UI.Verbose))
		}
	}
	waiting := func() {
		fmt.Fprintf(s.app.stderr, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", VerboseHighlightStyle.Render("→"))
	}

	w, err := watch.New(watch.Config{
		Roots:       s.roots,
		Filter:      s.scanner.Matches,
		ClearScreen: clearScreen,
		Stdout:      s.app.stdout,
		Logger:      s.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Info("Re-running", "changed", changed)
			rerun(ctx)
			waiting()
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	rerun(ctx)
	waiting()
	return w.Run(ctx)
}
