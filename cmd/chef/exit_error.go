// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/chefkit/chef/internal/issue"
	"github.com/chefkit/chef/pkg/recipefs"
	"github.com/chefkit/chef/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d (%s)", e.Code, e.Code.Describe())
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps a command error to the process exit status.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Code.Validate() != nil {
			return types.ExitFailure
		}
		return exitErr.Code
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		switch ae.Issue {
		case issue.RecipeNotFoundId, issue.CollectionNotFoundId:
			return types.ExitNotFound
		case issue.ConfigLoadFailedId, issue.UnitFileInvalidId:
			return types.ExitConfig
		case issue.InvalidServingsId:
			return types.ExitUsage
		}
	}

	switch {
	case errors.Is(err, recipefs.ErrNotFound):
		return types.ExitNotFound
	case errors.Is(err, recipefs.ErrInvalidName):
		return types.ExitUsage
	default:
		return types.ExitFailure
	}
}
