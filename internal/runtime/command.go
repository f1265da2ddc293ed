// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// Command is the program name followed by its arguments. The empty Command is
// the sentinel for "no runner available".
type Command []string

// IsEmpty reports whether the command is the "no runner" sentinel.
func (c Command) IsEmpty() bool { return len(c) == 0 }

// Program returns the executable name, or "" for the empty Command.
func (c Command) Program() string {
	if c.IsEmpty() {
		return ""
	}
	return c[0]
}

// Args returns the arguments after the program name.
func (c Command) Args() []string {
	if len(c) < 2 {
		return nil
	}
	return c[1:]
}

// String renders the command as a single shell-escaped line. Words that need
// no quoting are emitted verbatim, so "python3 -u main.py" stays readable.
// ParseCommand(c.String()) reproduces c.
func (c Command) String() string {
	words := make([]string, len(c))
	for i, w := range c {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			// Only NUL bytes are unquotable; no real argv can contain one.
			q = strconv.Quote(w)
		}
		words[i] = q
	}
	return strings.Join(words, " ")
}

// ParseCommand tokenizes a line produced by Command.String back into words.
// Parameter references are not expanded.
func ParseCommand(line string) (Command, error) {
	fields, err := shell.Fields(line, func(string) string { return "" })
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", line, err)
	}
	return Command(fields), nil
}
