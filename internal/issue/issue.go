// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Issue identifiers. Zero means "no issue".
const (
	ConfigLoadFailedId Id = iota + 1
	NoSourceFilesId
	RunnerNotInstalledId
	InputFileNotFoundId
	InteractiveNeedsTerminalId
	InvalidGlobPatternId
	ReportWriteFailedId
)

type (
	// Id identifies an Issue.
	Id int

	// MarkdownMsg is Markdown guidance rendered to the terminal.
	MarkdownMsg string

	// HttpLink is a documentation or reference URL.
	HttpLink string

	// Issue is a known failure mode with Markdown guidance.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

codesubmit reads CUE configuration from, in order:
1. the file given with ` + "`--config`" + `
2. ` + "`$XDG_CONFIG_HOME/codesubmit/config.cue`" + ` (or the platform equivalent)
3. ` + "`./codesubmit.cue`" + `

## Things you can try:
- Print the defaults as a starting point:
~~~
$ codesubmit config dump
~~~
- Durations are strings such as ` + "`\"10s\"`" + ` or ` + "`\"1m30s\"`" + `.
- Unknown keys are rejected; check the spelling against ` + "`codesubmit config dump`" + `.`,
		extLinks: []HttpLink{"https://cuelang.org/docs/tour/"},
	}

	noSourceFilesIssue = &Issue{
		id: NoSourceFilesId,
		mdMsg: `
# No source files found

Nothing under the given paths matched a known source extension.

## Things you can try:
- List what discovery sees:
~~~
$ codesubmit scan ./submissions
~~~
- Check ` + "`scan.include`" + ` and ` + "`scan.exclude`" + ` in your configuration.`,
	}

	runnerNotInstalledIssue = &Issue{
		id: RunnerNotInstalledId,
		mdMsg: `
# Interpreter not installed

A result reports ` + "`Execution Failed`" + ` because the interpreter for that language
could not be started.

## Things you can try:
- Python files need ` + "`python3`" + ` (or ` + "`python`" + `) on PATH.
- Java files use the single-file launcher and need ` + "`java`" + ` 11 or newer.
- Run ` + "`codesubmit run --dry-run`" + ` to see the exact commands.`,
	}

	inputFileNotFoundIssue = &Issue{
		id: InputFileNotFoundId,
		mdMsg: `
# Input file not found

` + "`execution.input_file`" + ` names a file that does not exist, so the inline
` + "`execution.stdin`" + ` text is used instead.

## Things you can try:
- Use a path relative to the directory you run codesubmit from.
- Remove ` + "`input_file`" + ` if inline input is intended.`,
	}

	interactiveNeedsTerminalIssue = &Issue{
		id: InteractiveNeedsTerminalId,
		mdMsg: `
# Interactive mode needs a terminal

Interactive runs forward what you type to each program, but standard input is
not a terminal.

## Things you can try:
- Run without ` + "`--interactive`" + ` and provide input with ` + "`--stdin`" + ` or ` + "`--input-file`" + `.
- Pass ` + "`--force`" + ` to read piped input line by line anyway.`,
	}

	invalidGlobPatternIssue = &Issue{
		id: InvalidGlobPatternId,
		mdMsg: `
# Invalid glob pattern

Include and exclude patterns use doublestar syntax: ` + "`**`" + ` matches any number
of directories, ` + "`*`" + ` matches within one path segment, and ` + "`{a,b}`" + ` matches
alternatives.

## Things you can try:
- Close every ` + "`[`" + ` and ` + "`{`" + `.
- Quote patterns on the command line so the shell does not expand them.`,
		extLinks: []HttpLink{"https://github.com/bmatcuk/doublestar#patterns"},
	}

	reportWriteFailedIssue = &Issue{
		id: ReportWriteFailedId,
		mdMsg: `
# Report could not be written

## Things you can try:
- Check that the directory of ` + "`--output`" + ` exists and is writable.
- Omit ` + "`--output`" + ` to print the report to standard output.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		noSourceFilesIssue.Id():            noSourceFilesIssue,
		runnerNotInstalledIssue.Id():       runnerNotInstalledIssue,
		inputFileNotFoundIssue.Id():        inputFileNotFoundIssue,
		interactiveNeedsTerminalIssue.Id(): interactiveNeedsTerminalIssue,
		invalidGlobPatternIssue.Id():       invalidGlobPatternIssue,
		reportWriteFailedIssue.Id():        reportWriteFailedIssue,
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// ExtLinks returns a copy of the reference links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guidance for the terminal using the glamour style at
// stylePath ("dark", "light", "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range i.extLinks {
			md.WriteString("- " + string(link) + "\n")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns all known issues ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int { return int(a.id - b.id) })
}

// Get returns the issue for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
