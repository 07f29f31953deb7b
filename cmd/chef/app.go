// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/chefkit/chef/internal/config"
	"github.com/chefkit/chef/internal/issue"
	"github.com/chefkit/chef/pkg/convert"
	"github.com/chefkit/chef/pkg/cooklang"
	"github.com/chefkit/chef/pkg/recipefs"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and reaches configuration and output through it.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// session is the configuration-derived state of one invocation.
	session struct {
		cfg        *config.Config
		collection string
		converter  *convert.Converter
		parser     *cooklang.Parser
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadSession loads the configuration selected by the root flags, then
// checks the collection directory and builds the unit converter.
func (app *App) loadSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		CollectionDir:  flags.collection,
	})
	if err != nil {
		return nil, err
	}

	if cfg.UI.Verbose && !flags.verbose {
		flags.verbose = true
		configureLogging(app.stderr, true)
	}
	slog.Debug("configuration loaded", "sources", cfg.Sources)

	collection := cfg.DefaultCollection
	if collection == "" {
		collection = "."
	}
	if err := checkCollection(collection); err != nil {
		return nil, err
	}

	converter, err := convert.New(cfg.Units...)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load unit files").
			WithSuggestion("Check the files listed under 'units' in your configuration").
			WithIssue(issue.UnitFileInvalidId).
			Wrap(err).
			BuildError()
	}

	return &session{
		cfg:        cfg,
		collection: collection,
		converter:  converter,
		parser:     cooklang.NewParser(cooklang.WithConverter(converter)),
	}, nil
}

func checkCollection(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", dir)
	}
	if err == nil {
		return nil
	}

	ctx := issue.NewErrorContext().
		WithOperation("open recipe collection").
		WithResource(dir)
	if errors.Is(err, fs.ErrPermission) {
		ctx = ctx.WithIssue(issue.PermissionDeniedId)
	} else {
		ctx = ctx.
			WithSuggestion("Pass the collection directory with --collection").
			WithSuggestion("Set 'default_collection' in your configuration").
			WithIssue(issue.CollectionNotFoundId)
	}
	return ctx.Wrap(err).BuildError()
}

// newIndex opens a fresh index over the collection. An index never
// forgets what it found, so long running commands open one per pass.
func (s *session) newIndex() (*recipefs.Index, error) {
	idx, err := recipefs.NewIndex(s.collection, s.cfg.MaxDepth)
	if err != nil {
		return nil, issue.WrapWithContext(err, "open recipe collection", s.collection)
	}
	return idx, nil
}

// parseRecipe reads and parses entry.
func (s *session) parseRecipe(entry recipefs.RecipeEntry) (*cooklang.Recipe, error) {
	content, err := entry.Read()
	if err != nil {
		return nil, issue.WrapWithContext(err, "read recipe", entry.Path())
	}
	recipe, err := content.Parse(s.parser)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse recipe").
			WithResource(entry.Path()).
			WithIssue(issue.RecipeParseErrorId).
			Wrap(err).
			BuildError()
	}
	return recipe, nil
}

// findRecipe resolves name in idx and parses the recipe.
func (s *session) findRecipe(idx *recipefs.Index, name string) (recipefs.RecipeEntry, *cooklang.Recipe, error) {
	entry, err := idx.Get(name)
	switch {
	case errors.Is(err, recipefs.ErrNotFound):
		return recipefs.RecipeEntry{}, nil, issue.NewErrorContext().
			WithOperation("find recipe").
			WithResource(name).
			WithSuggestions(
				"Run 'chef list' to see the recipes of the collection",
				fmt.Sprintf("Recipes are searched at most %d directories deep (max_depth)", s.cfg.MaxDepth),
			).
			WithIssue(issue.RecipeNotFoundId).
			Wrap(err).
			BuildError()
	case err != nil:
		return recipefs.RecipeEntry{}, nil, issue.WrapWithContext(err, "find recipe", name)
	}

	recipe, err := s.parseRecipe(entry)
	if err != nil {
		return recipefs.RecipeEntry{}, nil, err
	}
	return entry, recipe, nil
}
