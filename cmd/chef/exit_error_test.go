// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chefkit/chef/internal/issue"
	"github.com/chefkit/chef/pkg/recipefs"
	"github.com/chefkit/chef/pkg/types"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	withIssue := func(id issue.Id) error {
		return issue.NewErrorContext().WithOperation("test").WithIssue(id).Wrap(errors.New("boom")).BuildError()
	}

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{"nil", nil, types.ExitOK},
		{"plain error", errors.New("boom"), types.ExitFailure},
		{"exit error", &ExitError{Code: types.ExitCheckFailed}, types.ExitCheckFailed},
		{"wrapped exit error", fmt.Errorf("outer: %w", &ExitError{Code: 42}), 42},
		{"out of range exit error", &ExitError{Code: 300}, types.ExitFailure},
		{"recipe not found guide", withIssue(issue.RecipeNotFoundId), types.ExitNotFound},
		{"collection not found guide", withIssue(issue.CollectionNotFoundId), types.ExitNotFound},
		{"config guide", withIssue(issue.ConfigLoadFailedId), types.ExitConfig},
		{"unit file guide", withIssue(issue.UnitFileInvalidId), types.ExitConfig},
		{"servings guide", withIssue(issue.InvalidServingsId), types.ExitUsage},
		{"parse guide", withIssue(issue.RecipeParseErrorId), types.ExitFailure},
		{"bare not found", &recipefs.NotFoundError{Name: "Soup"}, types.ExitNotFound},
		{"invalid name", &recipefs.InvalidNameError{Name: ".."}, types.ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("3 problems")
	err := &ExitError{Code: types.ExitCheckFailed, Err: cause}
	if err.Error() != "3 problems" {
		t.Errorf("Error() = %q, want the cause message", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ExitError does not unwrap to its cause")
	}

	bare := &ExitError{Code: types.ExitUsage}
	if got, want := bare.Error(), "exit status 2 (usage error)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
