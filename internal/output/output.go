package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat converts a --format flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatYAML, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use text, yaml, or json)", s)
	}
}

// Structured reports whether f encodes a document rather than text lines.
func (f Format) Structured() bool {
	return f == FormatYAML || f == FormatJSON
}

const rule = "======================================="

// PrintHeader writes the banner that precedes a text listing.
func PrintHeader(w io.Writer, subject string) {
	fmt.Fprintf(w, "\n%s\n %s\n%s\n", rule, subject, rule)
}

// Warnf writes a "[!]"-prefixed line for a non-fatal failure.
func Warnf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "[!] "+format+"\n", args...)
}

// Encode serializes v to w in a structured format.
func Encode(w io.Writer, f Format, v interface{}) error {
	switch f {
	case FormatJSON:
		return PrintJSON(w, v)
	case FormatYAML:
		return PrintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}

// PrintJSON serializes v to w as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v to w as YAML.
func PrintYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
