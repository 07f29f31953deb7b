// SPDX-License-Identifier: MPL-2.0

// Package ast holds the syntax tree produced by the recipe parser.
package ast

import "github.com/chefkit/chef/pkg/quantity"

const (
	// ItemText is plain step text.
	ItemText ItemKind = iota
	// ItemIngredient references Recipe.Ingredients[Index].
	ItemIngredient
	// ItemCookware references Recipe.Cookware[Index].
	ItemCookware
	// ItemTimer references Recipe.Timers[Index].
	ItemTimer
)

var _ quantity.ASTQuantity = QuantityValue{}

type (
	// ItemKind discriminates the pieces of a step.
	ItemKind int

	// QuantityValue is the amount written in a component body: a single
	// value, optionally marked for auto scaling with '*', or a '|' separated
	// list with one value per serving tier.
	QuantityValue struct {
		Values    []quantity.Value
		AutoScale bool
	}

	// Quantity is an amount plus the unit text written after '%'.
	Quantity struct {
		Value QuantityValue
		Unit  string
	}

	// Component is an ingredient, cookware or timer as written in a step.
	Component struct {
		Name     string
		Quantity *Quantity
		Note     string
		Line     int
	}

	// Item is a piece of a step: text, or a reference to a component.
	Item struct {
		Kind  ItemKind
		Text  string
		Index int
	}

	// Step is a paragraph of the recipe.
	Step struct {
		Items []Item
		Line  int
	}

	// Section groups steps under an optional name.
	Section struct {
		Name  string
		Steps []Step
	}

	// MetadataEntry is a key/value pair from a '>>' line or the front matter.
	MetadataEntry struct {
		Key   string
		Value string
	}

	// Recipe is the parsed syntax tree of a recipe file.
	Recipe struct {
		Metadata    []MetadataEntry
		Sections    []Section
		Ingredients []Component
		Cookware    []Component
		Timers      []Component
	}
)

// Many returns the per-serving values when more than one was written.
func (q QuantityValue) Many() ([]quantity.Value, bool) {
	return q.Values, len(q.Values) > 1
}

// Single returns the only value and whether it carries the auto-scale marker.
func (q QuantityValue) Single() (quantity.Value, bool) {
	if len(q.Values) == 0 {
		return quantity.Value{}, false
	}
	return q.Values[0], q.AutoScale
}

func (k ItemKind) String() string {
	switch k {
	case ItemIngredient:
		return "ingredient"
	case ItemCookware:
		return "cookware"
	case ItemTimer:
		return "timer"
	default:
		return "text"
	}
}
