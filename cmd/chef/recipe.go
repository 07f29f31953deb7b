// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chefkit/chef/internal/issue"
	"github.com/chefkit/chef/pkg/cooklang"
	"github.com/chefkit/chef/pkg/cooklang/ast"
	"github.com/chefkit/chef/pkg/quantity"
	"github.com/chefkit/chef/pkg/recipefs"
	"github.com/chefkit/chef/pkg/types"
)

type (
	recipeFlagValues struct {
		servings int
		scale    float64
		format   outputFormat
	}

	recipeView struct {
		Name        string            `json:"name" yaml:"name" toml:"name"`
		Title       string            `json:"title" yaml:"title" toml:"title"`
		Path        string            `json:"path" yaml:"path" toml:"path"`
		Servings    int               `json:"servings,omitempty" yaml:"servings,omitempty" toml:"servings,omitempty"`
		Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
		Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
		Ingredients []componentView   `json:"ingredients" yaml:"ingredients" toml:"ingredients"`
		Cookware    []componentView   `json:"cookware" yaml:"cookware" toml:"cookware"`
		Timers      []componentView   `json:"timers,omitempty" yaml:"timers,omitempty" toml:"timers,omitempty"`
		Sections    []sectionView     `json:"sections" yaml:"sections" toml:"sections"`
		Images      []imageView       `json:"images,omitempty" yaml:"images,omitempty" toml:"images,omitempty"`
	}

	componentView struct {
		Name     string `json:"name" yaml:"name" toml:"name"`
		Quantity string `json:"quantity,omitempty" yaml:"quantity,omitempty" toml:"quantity,omitempty"`
		Note     string `json:"note,omitempty" yaml:"note,omitempty" toml:"note,omitempty"`
	}

	sectionView struct {
		Name  string   `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
		Steps []string `json:"steps" yaml:"steps" toml:"steps"`
	}

	imageView struct {
		Path    string `json:"path" yaml:"path" toml:"path"`
		Section *int   `json:"section,omitempty" yaml:"section,omitempty" toml:"section,omitempty"`
		Step    *int   `json:"step,omitempty" yaml:"step,omitempty" toml:"step,omitempty"`
	}
)

func newRecipeCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &recipeFlagValues{scale: 1, format: formatHuman}

	cmd := &cobra.Command{
		Use:   "recipe <name>",
		Short: "Show a recipe",
		Long: `Show a recipe of the collection.

The name is a recipe file name with or without the .cook extension, or a
path relative to the collection ("dinner/Stew"). Recipes are always scaled:
--servings picks one of the serving tiers the recipe declares, --scale
multiplies every scalable amount.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipe(cmd, app, rootFlags, flags, args[0])
		},
	}

	cmd.Flags().IntVarP(&flags.servings, "servings", "s", 0, "scale the recipe to this many servings")
	cmd.Flags().Float64Var(&flags.scale, "scale", 1, "multiply scalable amounts by this factor")
	cmd.Flags().VarP(&flags.format, "format", "f", "output format: human, json, yaml or toml")
	cmd.MarkFlagsMutuallyExclusive("servings", "scale")

	return cmd
}

func runRecipe(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *recipeFlagValues, name string) error {
	if flags.scale <= 0 {
		return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf("--scale must be positive, got %g", flags.scale)}
	}

	s, err := app.loadSession(cmd.Context(), rootFlags)
	if err != nil {
		return err
	}
	idx, err := s.newIndex()
	if err != nil {
		return err
	}
	entry, recipe, err := s.findRecipe(idx, name)
	if err != nil {
		return err
	}

	servings := 0
	if cmd.Flags().Changed("servings") {
		servings = flags.servings
		recipe, err = scaleToServings(recipe, servings)
	} else {
		if tiers, _ := recipe.Metadata.Servings(); len(tiers) > 0 && flags.scale == 1 {
			servings = tiers[0]
		}
		recipe, err = recipe.ScaleBy(flags.scale)
	}
	if err != nil {
		return err
	}

	images, err := entry.Images()
	if err != nil {
		return issue.WrapWithContext(err, "list recipe images", entry.Path())
	}

	view := newRecipeView(s.collection, entry, recipe, servings, images)
	if flags.format != formatHuman {
		return writeStructured(app.stdout, flags.format, view)
	}

	rendered, err := renderMarkdown(recipeMarkdown(view), s.cfg.UI.ColorScheme)
	if err != nil {
		return err
	}
	_, err = io.WriteString(app.stdout, rendered)
	return err
}

// scaleToServings wraps the scaling failures in actionable errors.
func scaleToServings(recipe *cooklang.Recipe, servings int) (*cooklang.Recipe, error) {
	scaled, err := recipe.Scale(servings)
	if err == nil {
		return scaled, nil
	}

	ctx := issue.NewErrorContext().
		WithOperation("scale recipe").
		WithResource(recipe.Name).
		WithIssue(issue.InvalidServingsId)
	var servingsErr *cooklang.ServingsError
	if errors.As(err, &servingsErr) && len(servingsErr.Available) > 0 {
		ctx = ctx.WithSuggestion(fmt.Sprintf("Use one of the declared servings: %s", joinInts(servingsErr.Available)))
	} else {
		ctx = ctx.WithSuggestion("Use --scale to multiply the amounts instead")
	}
	return nil, ctx.Wrap(err).BuildError()
}

func newRecipeView(collection string, entry recipefs.RecipeEntry, r *cooklang.Recipe, servings int, images []recipefs.Image) recipeView {
	view := recipeView{
		Name:        r.Name,
		Title:       r.Title(),
		Path:        relPath(collection, entry.Path()),
		Servings:    servings,
		Tags:        r.Metadata.Tags(),
		Ingredients: []componentView{},
		Cookware:    []componentView{},
	}
	if r.Metadata.Len() > 0 {
		view.Metadata = r.Metadata.Map()
	}

	for _, ing := range r.Ingredients {
		view.Ingredients = append(view.Ingredients, componentView{Name: ing.Name, Quantity: quantityText(ing.Quantity), Note: ing.Note})
	}
	for _, cw := range r.Cookware {
		view.Cookware = append(view.Cookware, componentView{Name: cw.Name, Quantity: quantityText(cw.Quantity)})
	}
	for _, tm := range r.Timers {
		view.Timers = append(view.Timers, componentView{Name: tm.Name, Quantity: quantityText(tm.Quantity)})
	}

	view.Sections = make([]sectionView, 0, len(r.Sections))
	for _, sec := range r.Sections {
		sv := sectionView{Name: sec.Name, Steps: make([]string, 0, len(sec.Steps))}
		for _, step := range sec.Steps {
			sv.Steps = append(sv.Steps, stepText(r, step))
		}
		view.Sections = append(view.Sections, sv)
	}

	for _, img := range images {
		iv := imageView{Path: relPath(collection, img.Path)}
		if img.Indexes != nil {
			section, step := img.Indexes.Section, img.Indexes.Step
			iv.Section, iv.Step = &section, &step
		}
		view.Images = append(view.Images, iv)
	}

	return view
}

// stepText renders a step as plain text, naming the components it uses.
func stepText(r *cooklang.Recipe, step ast.Step) string {
	var sb strings.Builder
	for _, item := range step.Items {
		switch item.Kind {
		case ast.ItemIngredient:
			sb.WriteString(r.Ingredients[item.Index].Name)
		case ast.ItemCookware:
			sb.WriteString(r.Cookware[item.Index].Name)
		case ast.ItemTimer:
			timer := r.Timers[item.Index]
			if timer.Quantity != nil {
				sb.WriteString(timer.Quantity.String())
			} else {
				sb.WriteString(timer.Name)
			}
		default:
			sb.WriteString(item.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// recipeMarkdown lays out a recipe for glamour.
func recipeMarkdown(v recipeView) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", v.Title)
	if v.Servings > 0 {
		fmt.Fprintf(&sb, "Servings: %d\n\n", v.Servings)
	}
	if len(v.Tags) > 0 {
		fmt.Fprintf(&sb, "Tags: %s\n\n", strings.Join(v.Tags, ", "))
	}

	if len(v.Ingredients) > 0 {
		sb.WriteString("## Ingredients\n\n")
		for _, ing := range v.Ingredients {
			sb.WriteString(componentLine(ing))
		}
		sb.WriteString("\n")
	}
	if len(v.Cookware) > 0 {
		sb.WriteString("## Cookware\n\n")
		for _, cw := range v.Cookware {
			sb.WriteString(componentLine(cw))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Steps\n\n")
	for _, sec := range v.Sections {
		if sec.Name != "" {
			fmt.Fprintf(&sb, "### %s\n\n", sec.Name)
		}
		for i, step := range sec.Steps {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func componentLine(c componentView) string {
	line := "- " + c.Name
	if c.Quantity != "" {
		line += ": " + c.Quantity
	}
	if c.Note != "" {
		line += " (" + c.Note + ")"
	}
	return line + "\n"
}

func quantityText(q *quantity.Quantity) string {
	if q == nil {
		return ""
	}
	return q.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// relPath shows path relative to the collection when possible.
func relPath(collection, path string) string {
	rel, err := filepath.Rel(collection, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
