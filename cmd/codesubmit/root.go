// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/codesubmit/codesubmit/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// NewRootCommand builds the codesubmit command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootFlags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "codesubmit",
		Short: "Run a directory of code submissions and report the results",
		Long: TitleStyle.Render("codesubmit") + SubtitleStyle.Render(" - run code submissions and report the results") + `

codesubmit discovers source files (Python, Java, JavaScript, Ruby, Go, shell),
runs each one with its language's interpreter and collects stdout, stderr,
exit code and duration into a report.

` + SubtitleStyle.Render("Examples:") + `
  codesubmit run ./submissions                 Run everything, print a text report
  codesubmit run . --stdin "3 4" -f json       Feed input, emit JSON
  codesubmit run hw1 -i                        Type input to each program live
  codesubmit run . --watch                     Re-run when a file changes
  codesubmit scan ./submissions                List files and their commands
  codesubmit config show                       Show current configuration`,
	}

	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/codesubmit/config.cue)")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newRunCommand(app, rootFlags),
		newScanCommand(app, rootFlags),
		newConfigCommand(app, rootFlags),
		newCompletionCommand(),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(newErrorHandler(rootCmd)),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// newErrorHandler renders ActionableErrors with their suggestions and linked
// guidance. An ExitError without a cause prints nothing; its failure was
// already reported.
func newErrorHandler(rootCmd *cobra.Command) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err == nil {
			return
		}

		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			fang.DefaultErrorHandler(w, styles, err)
			return
		}

		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(verbose))
		renderGuidance(w, err)
	}
}

// renderGuidance writes the Markdown guidance linked from err, if any.
func renderGuidance(w io.Writer, err error) {
	is, ok := issue.GuidanceFor(err)
	if !ok {
		return
	}
	style := "notty"
	if isTerminal(w) {
		style = "auto"
	}
	if rendered, renderErr := is.Render(style); renderErr == nil {
		fmt.Fprint(w, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
