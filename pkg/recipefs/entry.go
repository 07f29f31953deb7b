// SPDX-License-Identifier: MPL-2.0

package recipefs

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/chefkit/chef/pkg/cooklang"
)

type (
	// Parser turns recipe text into metadata or a full recipe.
	// *cooklang.Parser implements it.
	Parser interface {
		ParseMetadata(text string) (cooklang.Metadata, error)
		Parse(text, name string) (*cooklang.Recipe, error)
	}

	// RecipeEntry is a path known to be a recipe file.
	RecipeEntry struct {
		fs   afero.Fs
		path string
	}

	// RecipeContent is the text of a recipe file.
	RecipeContent struct {
		name string
		text string
	}
)

// NewRecipeEntry converts a walked entry into a RecipeEntry.
func NewRecipeEntry(e DirEntry) (RecipeEntry, error) {
	if !e.IsRecipe() {
		return RecipeEntry{}, &NotRecipeError{Path: e.path}
	}
	return RecipeEntry{fs: e.fs, path: e.path}, nil
}

// Path returns the recipe file path.
func (e RecipeEntry) Path() string { return e.path }

// Name returns the recipe name, the file stem.
func (e RecipeEntry) Name() string { return fileStem(baseName(e.path)) }

// Read reads the recipe file.
func (e RecipeEntry) Read() (*RecipeContent, error) {
	data, err := afero.ReadFile(e.fs, e.path)
	if err != nil {
		return nil, fmt.Errorf("read recipe %s: %w", e.path, err)
	}
	return &RecipeContent{name: e.Name(), text: string(data)}, nil
}

// Images returns the images next to the recipe.
func (e RecipeEntry) Images() ([]Image, error) {
	return RecipeImages(e.path, WithFs(e.fs))
}

// Name returns the name of the recipe the content was read from.
func (c *RecipeContent) Name() string { return c.name }

// Text returns the raw recipe text.
func (c *RecipeContent) Text() string { return c.text }

// Metadata parses only the metadata.
func (c *RecipeContent) Metadata(p Parser) (cooklang.Metadata, error) {
	return p.ParseMetadata(c.text)
}

// Parse parses the whole recipe, named after its file.
func (c *RecipeContent) Parse(p Parser) (*cooklang.Recipe, error) {
	return p.Parse(c.text, c.name)
}
