// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chefkit/chef/internal/issue"
	"github.com/chefkit/chef/pkg/recipefs"
	"github.com/chefkit/chef/pkg/types"
)

type (
	// recipeProblem is a failure found while checking one recipe. Path is
	// empty for directories that could not be read.
	recipeProblem struct {
		Path string
		Err  error
	}

	// checkReport is the outcome of a collection check.
	checkReport struct {
		Checked  int
		Problems []recipeProblem
	}
)

func newCheckCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "check [name...]",
		Short: "Check recipes and their images",
		Long: `Parse recipes and check that every step image ("Soup.1.png",
"Soup.0.2.jpg") refers to an existing section and step.

Without names the whole collection is checked. Recipes are checked
concurrently, check.max_workers at a time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			report, err := runCheck(cmd.Context(), s, args)
			if err != nil {
				return err
			}
			return printCheckReport(app.stdout, s.collection, report)
		},
	}
}

// runCheck checks the named recipes, or every recipe of the collection.
func runCheck(ctx context.Context, s *session, names []string) (checkReport, error) {
	var (
		report  checkReport
		entries []recipefs.RecipeEntry
	)

	if len(names) > 0 {
		idx, err := s.newIndex()
		if err != nil {
			return report, err
		}
		for _, name := range names {
			entry, err := idx.Get(name)
			if err != nil {
				report.Problems = append(report.Problems, recipeProblem{Path: filepath.Join(s.collection, name), Err: err})
				continue
			}
			entries = append(entries, entry)
		}
	} else {
		for dirEntry, err := range recipefs.AllRecipes(s.collection, s.cfg.MaxDepth) {
			if err != nil {
				report.Problems = append(report.Problems, recipeProblem{Err: err})
				continue
			}
			if dirEntry.IsDir() {
				continue
			}
			entry, err := recipefs.NewRecipeEntry(dirEntry)
			if err != nil {
				return report, err
			}
			entries = append(entries, entry)
		}
	}

	results, err := checkEntries(ctx, s, entries)
	if err != nil {
		return report, err
	}
	for i, errs := range results {
		for _, err := range errs {
			report.Problems = append(report.Problems, recipeProblem{Path: entries[i].Path(), Err: err})
		}
	}
	report.Checked = len(entries)
	return report, nil
}

// checkEntries checks the recipes concurrently. Every worker writes only its
// own slot of the result.
func checkEntries(ctx context.Context, s *session, entries []recipefs.RecipeEntry) ([][]error, error) {
	results := make([][]error, len(entries))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Check.MaxWorkers)
	for i, entry := range entries {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = checkRecipe(s, entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("check canceled: %w", err)
	}
	return results, nil
}

// checkRecipe parses the recipe and checks its images.
func checkRecipe(s *session, entry recipefs.RecipeEntry) []error {
	content, err := entry.Read()
	if err != nil {
		return []error{err}
	}
	recipe, err := content.Parse(s.parser)
	if err != nil {
		return []error{err}
	}
	images, err := entry.Images()
	if err != nil {
		return []error{err}
	}
	return recipefs.CheckRecipeImages(images, recipe)
}

func printCheckReport(w io.Writer, collection string, report checkReport) error {
	for _, p := range report.Problems {
		if p.Path == "" {
			fmt.Fprintf(w, "%s %v\n", ErrorStyle.Render("✗"), p.Err)
			continue
		}
		fmt.Fprintf(w, "%s %s: %v\n", ErrorStyle.Render("✗"), RecipeStyle.Render(relPath(collection, p.Path)), p.Err)
	}

	if len(report.Problems) == 0 {
		fmt.Fprintf(w, "%s %d recipe%s OK\n", SuccessStyle.Render("✓"), report.Checked, plural(report.Checked, "", "s"))
		return nil
	}

	return &ExitError{
		Code: types.ExitCheckFailed,
		Err: issue.NewErrorContext().
			WithOperation("check recipes").
			WithResource(collection).
			WithIssue(issue.ImageReferenceId).
			Wrap(fmt.Errorf("%d problem%s in %d recipe%s", len(report.Problems), plural(len(report.Problems), "", "s"),
				report.Checked, plural(report.Checked, "", "s"))).
			BuildError(),
	}
}
