// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
)

// ParseResult contains the result of a successful parse.
type ParseResult[T any] struct {
	// Value is the decoded Go struct.
	Value *T

	// Raw is the document as a generic map, for callers that merge it into
	// another configuration source.
	Raw map[string]any
}

// ParseTOML validates a TOML document against the schema definition at
// schemaPath (e.g. "#Config") and decodes it into T using toml struct tags.
func ParseTOML[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return nil, err
	}

	raw := map[string]any{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	if err := Validate(schema, raw, schemaPath, opts...); err != nil {
		return nil, err
	}

	var result T
	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	return &ParseResult[T]{Value: &result, Raw: raw}, nil
}

// Validate checks an already decoded document against the schema definition
// at schemaPath.
func Validate(schema string, doc map[string]any, schemaPath string, opts ...Option) error {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	userValue := ctx.Encode(doc)
	if userValue.Err() != nil {
		return FormatError(userValue.Err(), filename)
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return FormatError(err, filename)
	}

	return nil
}
