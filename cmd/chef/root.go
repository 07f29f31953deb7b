// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for chef.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chefkit/chef/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every command.
type rootFlagValues struct {
	configPath string
	collection string
	verbose    bool
}

// newRootCommand creates the chef command tree.
func newRootCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chef",
		Short: "Cook from a collection of Cooklang recipes",
		Long: TitleStyle.Render("chef") + SubtitleStyle.Render(" - cook from a collection of Cooklang recipes") + `

chef finds recipes by name in a directory tree of .cook files, scales
them, builds shopping lists and checks the images stored next to them.

` + SubtitleStyle.Render("Examples:") + `
  chef list                       List the recipes of the collection
  chef recipe Pancakes            Show a recipe
  chef recipe Stew --servings 4   Show a recipe for four
  chef shopping-list Stew*4 Pancakes
  chef check                      Check recipe images
  chef config show                Show current configuration`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(app.stderr, flags.verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file merged over every other configuration source")
	rootCmd.PersistentFlags().StringVarP(&flags.collection, "collection", "C", "", "recipe collection directory (default is the configured default_collection)")

	rootCmd.AddCommand(newRecipeCommand(app, flags))
	rootCmd.AddCommand(newListCommand(app, flags))
	rootCmd.AddCommand(newShoppingListCommand(app, flags))
	rootCmd.AddCommand(newCheckCommand(app, flags))
	rootCmd.AddCommand(newWatchCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:]))
}

// Run executes the CLI with args and returns the process exit status.
func Run(ctx context.Context, args []string) int {
	app := NewApp(Dependencies{})
	flags := &rootFlagValues{}

	rootCmd := newRootCommand(app, flags)
	rootCmd.SetArgs(args)

	// fang.WithVersion because fang overrides rootCmd.Version.
	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		reportError(app.stderr, err, flags.verbose)
	}
	return int(exitCodeFor(err))
}

// configureLogging routes slog records through a charmbracelet/log
// handler writing to w.
func configureLogging(w io.Writer, verbose bool) {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "chef",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	slog.SetDefault(slog.New(logger))
}

// reportError adds the hints of an ActionableError below the error fang
// already printed, followed by the matching guide in verbose mode.
func reportError(w io.Writer, err error, verbose bool) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}

	for _, suggestion := range ae.Suggestions {
		fmt.Fprintf(w, "  %s %s\n", WarningStyle.Render("•"), suggestion)
	}
	if !verbose {
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ae.Format(true))
	if ae.Issue == 0 {
		return
	}
	if guide := issue.Get(ae.Issue); guide != nil {
		rendered, renderErr := guide.Render("auto")
		if renderErr != nil {
			slog.Warn("failed to render issue guide", "issueID", ae.Issue, "error", renderErr)
			return
		}
		fmt.Fprint(w, rendered)
	}
}
