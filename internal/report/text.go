// SPDX-License-Identifier: MPL-2.0

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/codesubmit/codesubmit/internal/runtime"
)

const (
	iconPass    = "✓"
	iconFail    = "✗"
	iconTimeout = "⏱"
	iconSkip    = "–"
)

// writeText renders a human-readable report. Captured output is always
// shown; Verbose adds the command line and execution context.
func writeText(w io.Writer, b Batch, opts Options) error {
	st := newTextStyles(w)
	var sb strings.Builder

	sum := b.Summary()
	sb.WriteString(st.title.Render("codesubmit report"))
	sb.WriteString(" ")
	sb.WriteString(st.muted.Render(fmt.Sprintf("batch %s · %s", b.ID, pluralFiles(sum.Total))))
	sb.WriteString("\n\n")

	for _, fr := range b.Results {
		writeTextEntry(&sb, st, fr, opts.Verbose)
	}

	if len(b.Results) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(summaryLine(st, sum))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTextEntry(sb *strings.Builder, st textStyles, fr runtime.FileResult, verbose bool) {
	lang := st.muted.Render(fr.File.Language.String())
	res := fr.Result
	if res == nil {
		fmt.Fprintf(sb, "%s %s  %s  %s\n", st.skip.Render(iconSkip), st.path.Render(fr.File.RelPath), lang, st.skip.Render("not executed"))
		return
	}

	var icon, status string
	switch {
	case res.TimedOut():
		icon = st.timeout.Render(iconTimeout)
		status = st.timeout.Render("timed out")
	case res.Succeeded():
		icon = st.pass.Render(iconPass)
		status = st.pass.Render("exit " + res.ExitCode().String())
	default:
		icon = st.fail.Render(iconFail)
		status = st.fail.Render("exit " + res.ExitCode().String())
	}
	fmt.Fprintf(sb, "%s %s  %s  %s  %s\n", icon, st.path.Render(fr.File.RelPath), lang, status,
		st.muted.Render(fmt.Sprintf("%.2fs", res.Duration().Seconds())))

	if verbose {
		if res.Command() != "" {
			fmt.Fprintf(sb, "    %s\n", st.command.Render("$ "+res.Command()))
		}
		ctx := res.Context()
		fmt.Fprintf(sb, "    %s\n", st.muted.Render(fmt.Sprintf("cwd=%s user=%s platform=%s", ctx.WorkDir, ctx.User, ctx.Platform)))
	}
	writeTextStream(sb, st, "stdout", res.Stdout())
	writeTextStream(sb, st, "stderr", res.Stderr())
}

func writeTextStream(sb *strings.Builder, st textStyles, label, text string) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return
	}
	fmt.Fprintf(sb, "    %s\n", st.label.Render(label+":"))
	sb.WriteString(st.body.Render(text))
	sb.WriteString("\n")
}

func summaryLine(st textStyles, s Summary) string {
	parts := []string{
		pluralFiles(s.Total),
		st.pass.Render(fmt.Sprintf("%d passed", s.Passed)),
		st.fail.Render(fmt.Sprintf("%d failed", s.Failed)),
	}
	if s.TimedOut > 0 {
		parts = append(parts, st.timeout.Render(fmt.Sprintf("%d timed out", s.TimedOut)))
	}
	if s.Skipped > 0 {
		parts = append(parts, st.skip.Render(fmt.Sprintf("%d skipped", s.Skipped)))
	}
	return strings.Join(parts, " · ")
}

func pluralFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
