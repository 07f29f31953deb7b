// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chefkit/chef/pkg/cooklang"
	"github.com/chefkit/chef/pkg/quantity"
)

type (
	// shoppingList sums the ingredients of several recipes. Quantities of
	// one ingredient that cannot be added are kept side by side.
	shoppingList struct {
		converter quantity.Converter
		items     map[string]*shoppingItem
	}

	shoppingItem struct {
		name       string
		quantities []quantity.Quantity
	}

	// recipeRequest is a shopping-list argument: a recipe name with
	// optional servings, written "Stew*4".
	recipeRequest struct {
		name     string
		servings int
	}

	shoppingListView struct {
		Recipes []string           `json:"recipes" yaml:"recipes" toml:"recipes"`
		Items   []shoppingItemView `json:"items" yaml:"items" toml:"items"`
	}

	shoppingItemView struct {
		Name       string   `json:"name" yaml:"name" toml:"name"`
		Quantities []string `json:"quantities,omitempty" yaml:"quantities,omitempty" toml:"quantities,omitempty"`
	}
)

func newShoppingList(c quantity.Converter) *shoppingList {
	return &shoppingList{converter: c, items: map[string]*shoppingItem{}}
}

// AddRecipe adds every ingredient of r. r must be scaled.
func (l *shoppingList) AddRecipe(r *cooklang.Recipe) {
	for _, ing := range r.Ingredients {
		l.Add(ing.Name, ing.Quantity)
	}
}

// Add adds q to the ingredient name. A nil q only records the name.
func (l *shoppingList) Add(name string, q *quantity.Quantity) {
	item, ok := l.items[name]
	if !ok {
		item = &shoppingItem{name: name}
		l.items[name] = item
	}
	if q == nil {
		return
	}

	for i, existing := range item.quantities {
		sum, err := existing.TryAdd(*q, l.converter)
		if err != nil {
			continue
		}
		item.quantities[i] = sum
		return
	}
	item.quantities = append(item.quantities, *q)
}

// Items returns the ingredients sorted by name, with every quantity
// converted to its best fitting unit.
func (l *shoppingList) Items() []shoppingItemView {
	out := make([]shoppingItemView, 0, len(l.items))
	for _, item := range l.items {
		view := shoppingItemView{Name: item.name}
		for _, q := range item.quantities {
			q.Fit(l.converter)
			view.Quantities = append(view.Quantities, q.String())
		}
		out = append(out, view)
	}
	slices.SortFunc(out, func(a, b shoppingItemView) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// parseRecipeRequest splits "name*servings". A suffix that is not a
// positive number is part of the name.
func parseRecipeRequest(arg string) recipeRequest {
	i := strings.LastIndexByte(arg, '*')
	if i <= 0 {
		return recipeRequest{name: arg}
	}
	n, err := strconv.Atoi(arg[i+1:])
	if err != nil || n <= 0 {
		return recipeRequest{name: arg}
	}
	return recipeRequest{name: arg[:i], servings: n}
}

func newShoppingListCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	format := formatHuman

	cmd := &cobra.Command{
		Use:     "shopping-list <name>...",
		Aliases: []string{"sl"},
		Short:   "Build a shopping list from recipes",
		Long: `Build a shopping list from one or more recipes.

Append "*N" to a name to scale that recipe to N servings ("Stew*4").
Amounts of the same ingredient are added up when their units allow it;
otherwise they are listed side by side.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShoppingList(cmd, app, rootFlags, format, args)
		},
	}

	cmd.Flags().VarP(&format, "format", "f", "output format: human, json, yaml or toml")

	return cmd
}

func runShoppingList(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, format outputFormat, args []string) error {
	s, err := app.loadSession(cmd.Context(), rootFlags)
	if err != nil {
		return err
	}
	idx, err := s.newIndex()
	if err != nil {
		return err
	}

	list := newShoppingList(s.converter)
	view := shoppingListView{Recipes: make([]string, 0, len(args))}
	for _, arg := range args {
		req := parseRecipeRequest(arg)
		_, recipe, err := s.findRecipe(idx, req.name)
		if err != nil {
			return err
		}

		if req.servings > 0 {
			recipe, err = scaleToServings(recipe, req.servings)
		} else {
			recipe, err = recipe.ScaleBy(1)
		}
		if err != nil {
			return err
		}

		list.AddRecipe(recipe)
		view.Recipes = append(view.Recipes, recipe.Title())
	}
	view.Items = list.Items()

	if format != formatHuman {
		return writeStructured(app.stdout, format, view)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Shopping list"))
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("for "+strings.Join(view.Recipes, ", ")))
	fmt.Fprintln(app.stdout)
	for _, item := range view.Items {
		if len(item.Quantities) == 0 {
			fmt.Fprintf(app.stdout, "  %s\n", item.Name)
			continue
		}
		fmt.Fprintf(app.stdout, "  %s: %s\n", item.Name, QuantityStyle.Render(strings.Join(item.Quantities, ", ")))
	}
	return nil
}
