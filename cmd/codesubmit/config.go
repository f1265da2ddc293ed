// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codesubmit/codesubmit/internal/config"
	"github.com/codesubmit/codesubmit/internal/issue"
)

// newConfigCommand creates the `codesubmit config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage codesubmit configuration",
		Long: `Manage codesubmit configuration.

Configuration is read from the first of:
  - the file given with --config
  - Linux: ~/.config/codesubmit/config.cue
    macOS: ~/Library/Application Support/codesubmit/config.cue
    Windows: %APPDATA%\codesubmit\config.cue
  - ./codesubmit.cue

Environment variables such as CODESUBMIT_EXECUTION_TIMEOUT override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, rootFlags)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app.stdout, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app.stdout, rootFlags)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, rootFlags *rootFlagValues) error {
	cfg, err := app.loadConfig(ctx, rootFlags)
	if err != nil {
		return err
	}
	w := app.stdout

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	kv := func(key string, value any) {
		fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}
	list := func(key string, items []string) {
		if len(items) == 0 {
			fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render(key), SubtitleStyle.Render("(none)"))
			return
		}
		kv(key, strings.Join(items, ", "))
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	path, findErr := config.FindConfigFile(config.LoadOptions{ConfigFilePath: rootFlags.configPath})
	if findErr != nil || path == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("execution"))
	kv("enabled", cfg.Execution.Enabled)
	kv("timeout", cfg.Execution.Timeout)
	kv("stdin", fmt.Sprintf("%q", cfg.Execution.Stdin))
	kv("input_file", cfg.Execution.InputFile)
	kv("interactive", cfg.Execution.Interactive)
	kv("drain_grace", cfg.Execution.DrainGrace)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("scan"))
	list("include", cfg.Scan.Include)
	list("exclude", cfg.Scan.Exclude)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("report"))
	kv("format", cfg.Report.Format)
	kv("output", cfg.Report.Output)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	kv("color_scheme", cfg.UI.ColorScheme)
	kv("verbose", cfg.UI.Verbose)

	return nil
}

func initConfig(w io.Writer, force bool) error {
	path, err := config.DefaultConfigPath(config.LoadOptions{})
	if err != nil {
		return err
	}

	written, err := config.WriteDefaultConfig(path, force)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("create configuration file").
			WithResource(path).
			WithSuggestion("Check that the configuration directory is writable").
			Wrap(err).
			BuildError()
	}
	if !written {
		fmt.Fprintf(w, "%s Configuration already exists at %s (use --force to overwrite)\n", WarningStyle.Render("!"), path)
		return nil
	}

	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(w io.Writer, rootFlags *rootFlagValues) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	userPath, err := config.DefaultConfigPath(config.LoadOptions{})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Config directory: %s\n", dir)
	fmt.Fprintf(w, "Config file: %s\n", userPath)
	fmt.Fprintf(w, "Project file: %s\n", config.LocalConfigFileName)

	active, err := config.FindConfigFile(config.LoadOptions{ConfigFilePath: rootFlags.configPath})
	switch {
	case err != nil:
		fmt.Fprintf(w, "Active: %s\n", ErrorStyle.Render(err.Error()))
	case active == "":
		fmt.Fprintf(w, "Active: %s\n", SubtitleStyle.Render("(none, using defaults)"))
	default:
		fmt.Fprintf(w, "Active: %s\n", active)
	}
	return nil
}
