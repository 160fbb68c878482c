// Package output prints CLI results in the format selected by the root
// command's --format flag.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Stdout is where Print writes. Tests swap it.
var Stdout io.Writer = os.Stdout

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
	}
}

// Print serializes v to stdout in the current output format.
func Print(v any) error {
	return Fprint(Stdout, OutputFormat, v)
}

// PrintStreamItem writes one item of an unbounded stream: a single JSON
// line, or a YAML document with its separator.
func PrintStreamItem(v any) error {
	if OutputFormat == FormatJSON {
		return PrintJSON(Stdout, v, false)
	}
	if _, err := io.WriteString(Stdout, "---\n"); err != nil {
		return err
	}
	return PrintYAML(Stdout, v)
}

// Fprint serializes v to w in format f. Raw JSON (as received over IPC)
// is decoded first so that YAML output shows its structure.
func Fprint(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		return PrintJSON(w, v, PrettyOutput)
	case FormatYAML:
		return PrintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}

// PrintJSON serializes v to w as JSON, indented when pretty is set.
func PrintJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v to w as YAML.
func PrintYAML(w io.Writer, v any) error {
	if raw, ok := v.(json.RawMessage); ok {
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
		v = decoded
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
