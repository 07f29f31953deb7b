// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/chefkit/chef/internal/config"
)

const (
	formatHuman outputFormat = "human"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
	formatTOML  outputFormat = "toml"
)

var outputFormats = []outputFormat{formatHuman, formatJSON, formatYAML, formatTOML}

type (
	// outputFormat is the value of a --format flag. It implements
	// pflag.Value so cobra rejects unknown formats while parsing.
	outputFormat string

	// InvalidFormatError is returned for an unknown --format value.
	InvalidFormatError struct {
		Value string
	}
)

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	names := make([]string, len(outputFormats))
	for i, f := range outputFormats {
		names[i] = string(f)
	}
	return fmt.Sprintf("invalid format %q (expected one of: %s)", e.Value, strings.Join(names, ", "))
}

// String implements pflag.Value.
func (f *outputFormat) String() string { return string(*f) }

// Set implements pflag.Value.
func (f *outputFormat) Set(s string) error {
	if !slices.Contains(outputFormats, outputFormat(s)) {
		return &InvalidFormatError{Value: s}
	}
	*f = outputFormat(s)
	return nil
}

// Type implements pflag.Value.
func (f *outputFormat) Type() string { return "format" }

// writeStructured encodes v in one of the machine readable formats.
func writeStructured(w io.Writer, format outputFormat, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTOML:
		return toml.NewEncoder(w).Encode(v)
	default:
		return &InvalidFormatError{Value: string(format)}
	}
}

// renderMarkdown renders md for the terminal with the configured color scheme.
func renderMarkdown(md string, scheme config.ColorScheme) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(80)}
	switch scheme {
	case config.ColorSchemeDark, config.ColorSchemeLight:
		opts = append(opts, glamour.WithStandardStyle(string(scheme)))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return renderer.Render(md)
}
