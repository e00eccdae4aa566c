// Package output renders command results as a table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Align is the alignment of one table column.
type Align int

// Column alignments. AlignDefault leaves the column to tablewriter.
const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

var twAlign = map[Align]tw.Align{
	AlignDefault: tw.Skip,
	AlignLeft:    tw.AlignLeft,
	AlignCenter:  tw.AlignCenter,
	AlignRight:   tw.AlignRight,
}

// Data is a value already laid out as table rows.
type Data struct {
	Headers         []string   `json:"headers" yaml:"headers"`
	Rows            [][]string `json:"rows" yaml:"rows"`
	ColumnAlignment []Align    `json:"-" yaml:"-"`
}

// Formatter writes a value to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

type formatterFunc func(io.Writer, any) error

func (f formatterFunc) Format(w io.Writer, data any) error { return f(w, data) }

// NewFormatter returns the formatter for format. Unknown formats render as
// a table, and the table formatter writes JSON for anything but Data.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return formatterFunc(writeJSON)
	case FormatYAML:
		return formatterFunc(writeYAML)
	default:
		return formatterFunc(writeTable)
	}
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func writeYAML(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func writeTable(w io.Writer, data any) error {
	var d Data
	switch v := data.(type) {
	case Data:
		d = v
	case *Data:
		d = *v
	default:
		return writeJSON(w, data)
	}

	var config tablewriter.Config
	if len(d.ColumnAlignment) > 0 {
		perColumn := make([]tw.Align, len(d.ColumnAlignment))
		for i, a := range d.ColumnAlignment {
			perColumn[i] = twAlign[a]
		}
		config.Header.Alignment = tw.CellAlignment{PerColumn: perColumn}
		config.Row.Alignment = tw.CellAlignment{PerColumn: perColumn}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))
	if len(d.Headers) > 0 {
		table.Header(cells(d.Headers)...)
	}
	for _, row := range d.Rows {
		if err := table.Append(cells(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func cells(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

// DetectFormat returns explicit when set, otherwise table when stdout is a
// terminal and JSON when it is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	if fd := os.Stdout.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat validates a --format value. The empty string is allowed and
// means detect.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, "":
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json or yaml)", s)
}
