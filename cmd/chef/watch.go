// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/chefkit/chef/internal/watch"
)

func newWatchCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	var (
		debounce time.Duration
		ignore   []string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Check the collection whenever it changes",
		Long: `Run "chef check" once, then again every time a recipe, an image or the
collection configuration changes. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), app, rootFlags, debounce, ignore)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before re-checking (default 500ms)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "extra glob patterns to ignore, relative to the collection")

	return cmd
}

func runWatch(ctx context.Context, app *App, rootFlags *rootFlagValues, debounce time.Duration, ignore []string) error {
	s, err := app.loadSession(ctx, rootFlags)
	if err != nil {
		return err
	}

	// check reports problems without stopping the watch.
	check := func(ctx context.Context) {
		report, err := runCheck(ctx, s, nil)
		if err != nil {
			fmt.Fprintf(app.stderr, "%s %v\n", WarningStyle.Render("!"), err)
			return
		}
		if err := printCheckReport(app.stdout, s.collection, report); err != nil {
			fmt.Fprintf(app.stderr, "%s %v\n", WarningStyle.Render("!"), err)
		}
	}

	check(ctx)
	fmt.Fprintf(app.stdout, "\n%s Watching %s for changes (Ctrl+C to stop)...\n\n", RecipeStyle.Render("→"), s.collection)

	w, err := watch.New(watch.Config{
		Collection: s.collection,
		MaxDepth:   s.cfg.MaxDepth,
		Ignore:     ignore,
		Debounce:   debounce,
		OnChange: func(ctx context.Context, changes []watch.Change) error {
			fmt.Fprintf(app.stdout, "%s %d change%s detected\n", RecipeStyle.Render("→"), len(changes), plural(len(changes), "", "s"))

			if slices.ContainsFunc(changes, func(c watch.Change) bool { return c.Kind == watch.ChangeConfig }) {
				reloaded, err := app.loadSession(ctx, rootFlags)
				if err != nil {
					return fmt.Errorf("reload configuration: %w", err)
				}
				s = reloaded
			}

			check(ctx)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	return w.Run(ctx)
}
