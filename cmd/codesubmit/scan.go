// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codesubmit/codesubmit/internal/discovery"
)

type (
	scanFlagValues struct {
		include []string
		exclude []string
		json    bool
	}

	// scanEntry is one discovered file with its resolved runner.
	scanEntry struct {
		Path      string `json:"path"`
		RelPath   string `json:"rel_path"`
		Language  string `json:"language"`
		Command   string `json:"command"`
		Available bool   `json:"available"`
	}
)

// newScanCommand creates the `codesubmit scan` command.
func newScanCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &scanFlagValues{}

	scanCmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "List discovered source files and how they would run",
		Long: `List every source file under the given paths with its detected language,
the command it would run with, and whether that command is installed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("include") {
				cfg.Scan.Include = flags.include
			}
			if cmd.Flags().Changed("exclude") {
				cfg.Scan.Exclude = flags.exclude
			}

			scanner, err := newScanner(cfg.Scan)
			if err != nil {
				return err
			}
			logger := app.newLogger(rootFlags.verbose || cfg.UI.Verbose)
			files, err := discoverFiles(cmd.Context(), scanner, scanRoots(args), logger)
			if err != nil {
				return err
			}

			entries := app.scanEntries(files)
			if flags.json {
				enc := json.NewEncoder(app.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			renderScan(app.stdout, entries)
			return nil
		},
	}

	scanCmd.Flags().StringSliceVar(&flags.include, "include", nil, "only list files matching these globs")
	scanCmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "skip files matching these globs")
	scanCmd.Flags().BoolVar(&flags.json, "json", false, "print the listing as JSON")

	return scanCmd
}

// scanEntries resolves each file's command and checks that its program is on PATH.
func (a *App) scanEntries(files []discovery.SourceFile) []scanEntry {
	entries := make([]scanEntry, 0, len(files))
	for _, f := range files {
		e := scanEntry{Path: f.Path, RelPath: f.RelPath, Language: f.Language.String()}
		if c := a.Resolver.Resolve(f.Path, f.Language); !c.IsEmpty() {
			e.Command = c.String()
			_, err := a.lookPath(c.Program())
			e.Available = err == nil
		}
		entries = append(entries, e)
	}
	return entries
}

func renderScan(w io.Writer, entries []scanEntry) {
	pathWidth, langWidth := len("FILE"), len("LANGUAGE")
	for _, e := range entries {
		pathWidth = max(pathWidth, len(e.RelPath))
		langWidth = max(langWidth, len(e.Language))
	}

	header := fmt.Sprintf("%-*s  %-*s  %s", pathWidth, "FILE", langWidth, "LANGUAGE", "COMMAND")
	fmt.Fprintln(w, TitleStyle.Render(header))
	for _, e := range entries {
		var command string
		switch {
		case e.Command == "":
			command = WarningStyle.Render("no runner defined")
		case !e.Available:
			command = CmdStyle.Render(e.Command) + " " + ErrorStyle.Render("(not installed)")
		default:
			command = CmdStyle.Render(e.Command)
		}
		fmt.Fprintf(w, "%-*s  %s  %s\n", pathWidth, e.RelPath,
			SubtitleStyle.Render(e.Language+strings.Repeat(" ", langWidth-len(e.Language))), command)
	}
	fmt.Fprintf(w, "\n%s\n", SubtitleStyle.Render(fmt.Sprintf("%d files", len(entries))))
}
