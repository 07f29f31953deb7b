// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chefkit/chef/pkg/recipefs"
	"github.com/chefkit/chef/pkg/types"
)

func newListCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the recipes of the collection",
		Long: `List the recipes and directories of the collection as a tree, sorted
by name. Directories deeper than --depth (max_depth by default) are not
shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.loadSession(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("depth") {
				depth = s.cfg.MaxDepth
			}
			if depth < 0 {
				return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf("--depth must not be negative, got %d", depth)}
			}
			return listRecipes(app, s.collection, depth)
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum directory depth (default is max_depth)")

	return cmd
}

func listRecipes(app *App, collection string, depth int) error {
	var (
		recipes int
		failed  int
	)
	for entry, err := range recipefs.AllRecipes(collection, depth) {
		if err != nil {
			failed++
			slog.Warn("skipping unreadable directory", "error", err)
			continue
		}

		indent := strings.Repeat("  ", entry.Depth()-1)
		if entry.IsDir() {
			fmt.Fprintf(app.stdout, "%s%s\n", indent, SubtitleStyle.Render(entry.FileName()+"/"))
			continue
		}
		recipes++
		fmt.Fprintf(app.stdout, "%s%s\n", indent, RecipeStyle.Render(entry.FileStem()))
	}

	if recipes == 0 {
		fmt.Fprintln(app.stderr, WarningStyle.Render("No recipes found in "+collection))
	}
	if failed > 0 {
		return &ExitError{Code: types.ExitFailure, Err: fmt.Errorf("%d director%s could not be read", failed, plural(failed, "y", "ies"))}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
