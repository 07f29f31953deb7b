// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"testing"
)

// Recipe fixtures. Pancakes has two sections; Stew scales by servings tiers.
const (
	PancakesRecipe = `>> title: Fluffy pancakes
>> servings: 2
>> tags: breakfast, sweet

= Batter

Whisk @eggs{2} with @milk{250%ml} and @flour{200*%g}.

Rest the batter for ~{10%minutes}.

= Frying

Melt @butter{1%tbsp} in a #frying pan{} and fry.
`

	StewRecipe = `>> servings: 2|4

Brown @beef{500|1000%g} in a #pot{}.

Add @onions{1|2}, @stock{0.5|1%l} and @salt{a pinch}.

Simmer for ~{2%hours}.
`

	OmeletteRecipe = `>> servings: 1

Beat @eggs{3} and cook in a #frying pan{} with @butter{10%g}.
`
)

// NewCollection writes a small recipe collection into a temporary
// directory and returns its path:
//
//	Pancakes.cook
//	Pancakes.jpg
//	Pancakes.0.1.png
//	dinner/Stew.cook
//	dinner/Stew.4.jpg       (refers to a missing step)
//	breakfast/Omelette.cook
//	notes.txt
func NewCollection(t testing.TB) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "recipes")
	WriteTree(t, root, map[string]string{
		"Pancakes.cook":           PancakesRecipe,
		"Pancakes.jpg":            "",
		"Pancakes.0.1.png":        "",
		"dinner/Stew.cook":        StewRecipe,
		"dinner/Stew.4.jpg":       "",
		"breakfast/Omelette.cook": OmeletteRecipe,
		"notes.txt":               "not a recipe",
	})
	return root
}
