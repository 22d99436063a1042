// Package annotfmt renders scan results for the command line: a colored
// human format, a grep-like short format, and machine formats (JSON, YAML,
// MessagePack, SARIF) sharing one report model.
package annotfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"todohl/internal/driver"
	"todohl/internal/source"
)

// Format is an output format name.
type Format string

const (
	FormatPretty  Format = "pretty"
	FormatShort   Format = "short"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
	FormatSARIF   Format = "sarif"
)

// ErrUnknownFormat is wrapped by ParseFormat.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the supported formats in help order.
var Formats = []Format{FormatPretty, FormatShort, FormatJSON, FormatYAML, FormatMsgpack, FormatSARIF}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q (expected %s)", ErrUnknownFormat, s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}

// ToolInfo identifies the producer in machine formats.
type ToolInfo struct {
	Name    string
	Version string
}

// Options tunes rendering.
type Options struct {
	Color bool
	Width int // truncation width for source context, 0 = 120
	Tool  ToolInfo
}

func (o Options) width() int {
	if o.Width <= 0 {
		return 120
	}
	return o.Width
}

// Write renders results in format f.
func Write(w io.Writer, f Format, fs *source.FileSet, results []driver.FileResult, opts Options) error {
	switch f {
	case FormatPretty:
		return Pretty(w, fs, results, opts)
	case FormatShort:
		return Short(w, fs, results)
	case FormatJSON:
		return JSON(w, BuildReport(fs, results))
	case FormatYAML:
		return YAML(w, BuildReport(fs, results))
	case FormatMsgpack:
		return Msgpack(w, BuildReport(fs, results))
	case FormatSARIF:
		return Sarif(w, fs, results, opts.Tool)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
}
