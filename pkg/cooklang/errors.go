// SPDX-License-Identifier: MPL-2.0

package cooklang

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrSyntax is the sentinel wrapped by every ParseError.
	ErrSyntax = errors.New("recipe syntax error")

	// ErrInvalidServings is returned when a recipe cannot be scaled to the
	// requested servings.
	ErrInvalidServings = errors.New("invalid servings")
)

type (
	// ParseError is a syntax error at a 1-based line.
	ParseError struct {
		Line int
		Msg  string
	}

	// ServingsError is returned when the servings metadata is missing or
	// invalid, or does not list the requested tier.
	ServingsError struct {
		Servings  int
		Available []int
		Reason    string
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Unwrap returns ErrSyntax for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrSyntax }

// Error implements the error interface.
func (e *ServingsError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot scale to %d servings: %s", e.Servings, e.Reason)
	}
	tiers := make([]string, len(e.Available))
	for i, s := range e.Available {
		tiers[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("cannot scale to %d servings: recipe only defines %s", e.Servings, strings.Join(tiers, ", "))
}

// Unwrap returns ErrInvalidServings for errors.Is() compatibility.
func (e *ServingsError) Unwrap() error { return ErrInvalidServings }
