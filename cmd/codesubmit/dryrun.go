// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/codesubmit/codesubmit/internal/config"
	"github.com/codesubmit/codesubmit/internal/discovery"
	"github.com/codesubmit/codesubmit/internal/runtime"
)

// renderDryRun prints the run settings and the command each file would run with.
func renderDryRun(w io.Writer, files []discovery.SourceFile, resolver runtime.CommandResolver, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)

	execCfg := cfg.Execution
	if !execCfg.Enabled {
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Execution:"), WarningStyle.Render("disabled"))
	}

	mode := "batch"
	if execCfg.Interactive {
		mode = "interactive"
	}
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Mode:"), mode)

	timeout := "none"
	if execCfg.Timeout > 0 {
		timeout = execCfg.Timeout.String()
	}
	fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Timeout:"), timeout)

	if !execCfg.Interactive {
		input := fmt.Sprintf("inline (%d bytes)", len(execCfg.Stdin))
		if execCfg.InputFile != "" {
			input = fmt.Sprintf("file %s, falling back to inline (%d bytes)", execCfg.InputFile, len(execCfg.Stdin))
		}
		fmt.Fprintf(w, "  %s %s\n", VerboseHighlightStyle.Render("Input:"), input)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, VerboseHighlightStyle.Render("  Files:"))
	for _, f := range files {
		fmt.Fprintf(w, "    %s %s\n", f.RelPath, SubtitleStyle.Render("("+f.Language.String()+")"))
		cmdline := resolver.Resolve(f.Path, f.Language)
		if cmdline.IsEmpty() {
			fmt.Fprintf(w, "      %s\n", WarningStyle.Render("no runner defined"))
			continue
		}
		fmt.Fprintf(w, "      %s\n", CmdStyle.Render("$ "+cmdline.String()))
	}
}
