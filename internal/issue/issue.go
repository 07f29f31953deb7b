// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Issue ids start at 1; the zero Id means "no guide".
const (
	RecipeNotFoundId Id = iota + 1
	CollectionNotFoundId
	RecipeParseErrorId
	ConfigLoadFailedId
	UnitFileInvalidId
	InvalidServingsId
	ImageReferenceId
	PermissionDeniedId
)

type (
	// Id identifies a guide.
	Id int

	// MarkdownMsg is the Markdown body of a guide.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a Markdown guide for a class of failures.
	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink  // documentation of the failing feature
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

// Id returns the issue id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the guide body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guide with the glamour style at stylePath ("dark",
// "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, links := range [][]HttpLink{i.docLinks, i.extLinks} {
			for _, link := range links {
				md.WriteString("- <" + string(link) + ">\n")
			}
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	cooklangSpec HttpLink = "https://cooklang.org/docs/spec/"

	recipeNotFoundIssue = &Issue{
		id: RecipeNotFoundId,
		mdMsg: `
# Recipe not found!

No recipe file matched the name you gave.

## How recipes are found
1. A path relative to the collection, like ` + "`dinner/Soup`" + `
2. Any ` + "`.cook`" + ` file with that name, searching the collection
   top-down with files before sub-directories

## Things you can try:
- List the recipes of the collection:
~~~
$ chef list
~~~

- Point chef at another collection:
~~~
$ chef --collection ~/recipes recipe Soup
~~~

- Raise ` + "`max_depth`" + ` if the recipe is nested deeply`,
		docLinks: []HttpLink{cooklangSpec},
	}

	collectionNotFoundIssue = &Issue{
		id: CollectionNotFoundId,
		mdMsg: `
# Recipe collection not found!

The collection directory does not exist or is not a directory.

## Things you can try:
- Pass it explicitly with ` + "`--collection`" + `
- Set a default in your config file:
~~~toml
default_collection = "~/recipes"
~~~`,
	}

	recipeParseErrorIssue = &Issue{
		id: RecipeParseErrorId,
		mdMsg: `
# Failed to parse recipe!

The recipe file contains a syntax error at the line shown above.

## Common mistakes:
- An unclosed ` + "`{`" + ` after an ingredient, cookware or timer
- A unit without an amount, like ` + "`@salt{%g}`" + `
- Mixing the ` + "`*`" + ` auto-scale marker with ` + "`|`" + ` serving tiers

## Example:
~~~
>> servings: 2|4

Whisk @eggs{2|4} with @milk{250%ml}*.
~~~`,
		docLinks: []HttpLink{cooklangSpec},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

A config file could not be read or does not match the expected schema.

## Things you can try:
- Show where chef looks for configuration:
~~~
$ chef config path
~~~

- Write a fresh default file:
~~~
$ chef config init
~~~

## Valid keys:
~~~toml
default_collection = "~/recipes"
max_depth = 10
units = []

[ui]
color_scheme = "auto" # auto, dark or light
verbose = false

[check]
max_workers = 8
~~~`,
		extLinks: []HttpLink{"https://toml.io/en/v1.0.0"},
	}

	unitFileInvalidIssue = &Issue{
		id: UnitFileInvalidId,
		mdMsg: `
# Invalid unit file!

A unit file listed in ` + "`units`" + ` could not be loaded.

## Example unit file:
~~~toml
[[units]]
names = ["stick"]
symbols = ["stick"]
ratio = 113.4
physical_quantity = "mass"
system = "imperial"

[best.mass]
imperial = ["oz", "stick", "lb"]
~~~

Ratios are relative to the base unit of the physical quantity
(ml, g, cm, °C or s).`,
	}

	invalidServingsIssue = &Issue{
		id: InvalidServingsId,
		mdMsg: `
# Recipe cannot be scaled to these servings!

The recipe lists fixed amounts per serving count, so it can only be
made for the servings in its ` + "`servings`" + ` metadata.

## Things you can try:
- Pick one of the servings shown above
- Use ` + "`--scale`" + ` for a free factor; tiered amounts use their first tier`,
	}

	imageReferenceIssue = &Issue{
		id: ImageReferenceId,
		mdMsg: `
# Image refers to a missing step!

Images named ` + "`Recipe.step.ext`" + ` or ` + "`Recipe.section.step.ext`" + `
must point at an existing step. Numbers start at 0.

## Things you can try:
- Rename the image to the step it shows
- Remove the numbers to attach it to the whole recipe`,
		docLinks: []HttpLink{cooklangSpec},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

chef could not read a file or directory of the collection.

## Things you can try:
- Check file/directory permissions
- Run chef as the user owning the collection`,
	}

	issues = map[Id]*Issue{
		recipeNotFoundIssue.Id():     recipeNotFoundIssue,
		collectionNotFoundIssue.Id(): collectionNotFoundIssue,
		recipeParseErrorIssue.Id():   recipeParseErrorIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		unitFileInvalidIssue.Id():    unitFileInvalidIssue,
		invalidServingsIssue.Id():    invalidServingsIssue,
		imageReferenceIssue.Id():     imageReferenceIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
	}
)

// Values returns every issue, ordered by id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

// Get returns the issue with id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
