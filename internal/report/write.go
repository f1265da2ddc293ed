// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options tunes human-oriented formats. Machine formats ignore it.
type Options struct {
	// Verbose adds command lines and execution context to the text report.
	Verbose bool
	// GlamourStyle, when set, renders the Markdown report for a terminal
	// using the named glamour style ("dark", "light", "notty", ...).
	GlamourStyle string
}

// Write encodes the batch to w in the given format.
func Write(w io.Writer, format Format, b Batch, opts Options) error {
	var err error
	switch format {
	case FormatText:
		err = writeText(w, b, opts)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(b.Document())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(b.Document()); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(b.Document())
	case FormatMarkdown:
		err = writeMarkdown(w, b, opts)
	default:
		return &UnknownFormatError{Value: string(format)}
	}
	if err != nil {
		return fmt.Errorf("write %s report: %w", format, err)
	}
	return nil
}
