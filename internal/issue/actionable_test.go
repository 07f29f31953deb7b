// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "find recipe"},
			expected: "failed to find recipe",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "find recipe", Resource: "Pancakes"},
			expected: "failed to find recipe: Pancakes",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "parse recipe", Cause: errors.New("line 5: unclosed '{'")},
			expected: "failed to parse recipe: line 5: unclosed '{'",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "/home/cook/.config/chef/config.toml",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load configuration: /home/cook/.config/chef/config.toml: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "test", Cause: fmt.Errorf("wrapped: %w", cause)}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	errNoCause := &ActionableError{Operation: "test"}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("recipe not found")
	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "simple error non-verbose",
			err:      &ActionableError{Operation: "load configuration"},
			contains: []string{"failed to load configuration"},
			excludes: []string{"•", "Error chain"},
		},
		{
			name: "error with suggestions",
			err: &ActionableError{
				Operation:   "find recipe",
				Resource:    "Soup",
				Suggestions: []string{"Run 'chef list'", "Check --collection"},
			},
			contains: []string{"failed to find recipe: Soup", "• Run 'chef list'", "• Check --collection"},
		},
		{
			name: "non-verbose hides chain",
			err: &ActionableError{
				Operation: "find recipe",
				Cause:     fmt.Errorf("lookup: %w", sentinel),
			},
			contains: []string{"lookup: recipe not found"},
			excludes: []string{"Error chain"},
		},
		{
			name: "verbose shows chain",
			err: &ActionableError{
				Operation: "find recipe",
				Cause:     fmt.Errorf("lookup: %w", sentinel),
			},
			verbose:  true,
			contains: []string{"Error chain:", "1. lookup: recipe not found", "2. recipe not found"},
		},
		{
			name: "verbose shows joined causes",
			err: &ActionableError{
				Operation: "check collection",
				Cause:     errors.Join(errors.New("image A"), errors.New("image B")),
			},
			verbose:  true,
			contains: []string{"2. image A", "2. image B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format() = %q, should contain %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Format() = %q, should not contain %q", got, unwanted)
				}
			}
		})
	}
}

func TestActionableError_HasSuggestions(t *testing.T) {
	t.Parallel()

	if (&ActionableError{Operation: "x"}).HasSuggestions() {
		t.Error("HasSuggestions() = true without suggestions")
	}
	if !(&ActionableError{Operation: "x", Suggestions: []string{"y"}}).HasSuggestions() {
		t.Error("HasSuggestions() = false with suggestions")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := NewErrorContext().
		WithOperation("scale recipe").
		WithResource("Stew").
		WithSuggestion("Pick 2 or 4 servings").
		WithSuggestions("Use --scale", "Edit the recipe").
		WithIssue(InvalidServingsId).
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil")
	}
	if err.Operation != "scale recipe" || err.Resource != "Stew" {
		t.Errorf("Build() = %+v", err)
	}
	if len(err.Suggestions) != 3 || err.Suggestions[2] != "Edit the recipe" {
		t.Errorf("Suggestions = %v", err.Suggestions)
	}
	if err.Issue != InvalidServingsId {
		t.Errorf("Issue = %d, want %d", err.Issue, InvalidServingsId)
	}
	if !errors.Is(err, cause) {
		t.Error("built error should wrap the cause")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want untyped nil", err)
	}

	err := NewErrorContext().WithOperation("list recipes").BuildError()
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() = %T, want *ActionableError", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "read recipe", "Soup") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}

	cause := errors.New("permission denied")
	err := WrapWithContext(cause, "read recipe", "Soup.cook")
	if err.Error() != "failed to read recipe: Soup.cook: permission denied" {
		t.Errorf("Error() = %q", err.Error())
	}
}
