// Package output provides unified output formatting for the one-shot CLI.
// Commands render human-readable text on a terminal and machine-readable
// JSON or YAML when piped or asked explicitly.
package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format int

const (
	// FormatText is human-readable formatted text (default)
	FormatText Format = iota
	// FormatJSON is machine-readable JSON output
	FormatJSON
	// FormatYAML is machine-readable YAML output
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

// Formatter handles output formatting for commands
type Formatter struct {
	format Format
	writer io.Writer
	pretty bool // For JSON: whether to indent
}

// New creates a new Formatter with the given options
func New(opts ...Option) *Formatter {
	f := &Formatter{
		format: FormatText,
		writer: os.Stdout,
		pretty: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Option is a functional option for Formatter
type Option func(*Formatter)

// WithFormat sets the output format
func WithFormat(format Format) Option {
	return func(f *Formatter) {
		f.format = format
	}
}

// WithWriter sets the output writer
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.writer = w
	}
}

// WithPretty sets whether JSON should be indented
func WithPretty(pretty bool) Option {
	return func(f *Formatter) {
		f.pretty = pretty
	}
}

// Format returns the current output format
func (f *Formatter) Format() Format {
	return f.format
}

// Writer returns the output writer
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// JSON writes v as JSON to the formatter's writer
func (f *Formatter) JSON(v interface{}) error {
	encoder := json.NewEncoder(f.writer)
	if f.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// YAML writes v as YAML to the formatter's writer
func (f *Formatter) YAML(v interface{}) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		encoder.Close()
		return err
	}
	return encoder.Close()
}

// DetectFormat determines the output format based on environment
// Priority: explicit flag > env var > pipe detection > default text
func DetectFormat(jsonFlag, yamlFlag bool) Format {
	if yamlFlag {
		return FormatYAML
	}
	if jsonFlag {
		return FormatJSON
	}

	switch os.Getenv("LAZYVERDI_OUTPUT_FORMAT") {
	case "json", "JSON":
		return FormatJSON
	case "yaml", "YAML":
		return FormatYAML
	case "text", "TEXT":
		return FormatText
	}

	// If stdout is not a terminal, use JSON so piping works:
	// lazyverdi show process | jq .
	if !IsTerminal() {
		return FormatJSON
	}
	return FormatText
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalWidth returns the stdout width, or fallback when unknown.
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}
