// SPDX-License-Identifier: MPL-2.0

package recipefs

import (
	"cmp"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// imageExtensions are matched case-sensitively.
var imageExtensions = []string{"jpeg", "jpg", "png", "heic", "gif", "webp"}

type (
	// Image is an image file of a recipe. Indexes is nil when the image
	// shows the whole recipe.
	Image struct {
		Indexes *ImageIndexes
		Path    string
	}

	// ImageIndexes are the zero-based section and step an image shows.
	ImageIndexes struct {
		Section int
		Step    int
	}

	// RecipeStructure is the shape of a parsed recipe that images are
	// checked against. *cooklang.Recipe implements it.
	RecipeStructure interface {
		SectionCount() int
		StepCount(section int) int
	}
)

// ImageExtensions returns the extensions, without the dot, of the files
// RecipeImages considers.
func ImageExtensions() []string { return slices.Clone(imageExtensions) }

// RecipeImages returns the images next to the recipe at recipePath, sorted
// with whole-recipe images first, then by section, step and path.
func RecipeImages(recipePath string, opts ...Option) ([]Image, error) {
	o := newOptions(opts)

	recipeName, _, _ := strings.Cut(baseName(recipePath), ".")
	dir := filepath.Dir(recipePath)

	infos, err := readDir(o, dir)
	if err != nil {
		return nil, err
	}

	var images []Image
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		indexes, ok := parseImageName(info.Name(), recipeName)
		if !ok {
			continue
		}
		images = append(images, Image{Indexes: indexes, Path: filepath.Join(dir, info.Name())})
	}

	slices.SortFunc(images, compareImages)
	return images, nil
}

// parseImageName decodes "name.ext", "name.step.ext" and
// "name.section.step.ext".
func parseImageName(fileName, recipeName string) (*ImageIndexes, bool) {
	parts := strings.Split(fileName, ".")
	if len(parts) < 2 {
		return nil, false
	}
	if len(parts) > 4 {
		parts = append([]string{strings.Join(parts[:len(parts)-3], ".")}, parts[len(parts)-3:]...)
	}

	name, ext := parts[0], parts[len(parts)-1]
	if name != recipeName || !slices.Contains(imageExtensions, ext) {
		return nil, false
	}

	switch len(parts) {
	case 2:
		return nil, true
	case 3:
		step, ok := parseIndex(parts[1])
		if !ok {
			return nil, false
		}
		return &ImageIndexes{Section: 0, Step: step}, true
	default:
		section, ok := parseIndex(parts[1])
		if !ok {
			return nil, false
		}
		step, ok := parseIndex(parts[2])
		if !ok {
			return nil, false
		}
		return &ImageIndexes{Section: section, Step: step}, true
	}
}

// parseIndex accepts unsigned decimal indexes only.
func parseIndex(s string) (int, bool) {
	if s == "" || s[0] == '-' || s[0] == '+' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func compareImages(a, b Image) int {
	switch {
	case a.Indexes == nil && b.Indexes != nil:
		return -1
	case a.Indexes != nil && b.Indexes == nil:
		return 1
	case a.Indexes != nil:
		if c := cmp.Compare(a.Indexes.Section, b.Indexes.Section); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Indexes.Step, b.Indexes.Step); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.Path, b.Path)
}

// CheckRecipeImages checks every indexed image against the sections and
// steps of recipe. It returns all violations in image order, or nil.
func CheckRecipeImages(images []Image, recipe RecipeStructure) []error {
	var errs []error
	for _, img := range images {
		if img.Indexes == nil {
			continue
		}
		section, step := img.Indexes.Section, img.Indexes.Step
		if section >= recipe.SectionCount() {
			errs = append(errs, &MissingSectionError{Image: img.Path, Section: section})
			continue
		}
		if step >= recipe.StepCount(section) {
			errs = append(errs, &MissingStepError{Image: img.Path, Section: section, Step: step})
		}
	}
	return errs
}
