// SPDX-License-Identifier: MPL-2.0

package recipefs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no recipe matches a name.
	ErrNotFound = errors.New("recipe not found")

	// ErrInvalidName is returned for names without a stem.
	ErrInvalidName = errors.New("invalid recipe name")

	// ErrNonUTF8Path is returned for paths that are not valid UTF-8.
	ErrNonUTF8Path = errors.New("path is not valid UTF-8")

	// ErrWalk is returned when the collection cannot be read.
	ErrWalk = errors.New("cannot read recipe collection")

	// ErrNotRecipe is returned when a directory entry is not a recipe file.
	ErrNotRecipe = errors.New("not a recipe file")

	// ErrImageReference is returned for images pointing at a section or
	// step the recipe does not have.
	ErrImageReference = errors.New("image references a missing section or step")
)

type (
	// NotFoundError is returned by Index.Get when no recipe matches Name.
	NotFoundError struct {
		Name string
	}

	// InvalidNameError is returned for names without a stem, such as "" or ".cook".
	InvalidNameError struct {
		Name string
	}

	// NonUTF8PathError is returned when the walk meets a path that is not
	// valid UTF-8. The entry is skipped.
	NonUTF8PathError struct {
		Path string
	}

	// WalkError wraps a filesystem failure while reading Path.
	WalkError struct {
		Path string
		Err  error
	}

	// NotRecipeError is returned by NewRecipeEntry for entries that are not
	// .cook files.
	NotRecipeError struct {
		Path string
	}

	// MissingSectionError is returned when an image names a section the
	// recipe does not have.
	MissingSectionError struct {
		Image   string
		Section int
	}

	// MissingStepError is returned when an image names a step its section
	// does not have.
	MissingStepError struct {
		Image   string
		Section int
		Step    int
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("recipe %q not found", e.Name)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid recipe name %q", e.Name)
}

// Unwrap returns ErrInvalidName for errors.Is() compatibility.
func (e *InvalidNameError) Unwrap() error { return ErrInvalidName }

// Error implements the error interface.
func (e *NonUTF8PathError) Error() string {
	return fmt.Sprintf("path %q is not valid UTF-8", e.Path)
}

// Unwrap returns ErrNonUTF8Path for errors.Is() compatibility.
func (e *NonUTF8PathError) Unwrap() error { return ErrNonUTF8Path }

// Error implements the error interface.
func (e *WalkError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrWalk and the underlying cause.
func (e *WalkError) Unwrap() []error { return []error{ErrWalk, e.Err} }

// Error implements the error interface.
func (e *NotRecipeError) Error() string {
	return fmt.Sprintf("%s is not a %s file", e.Path, RecipeExt)
}

// Unwrap returns ErrNotRecipe for errors.Is() compatibility.
func (e *NotRecipeError) Unwrap() error { return ErrNotRecipe }

// Error implements the error interface.
func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("image %s: recipe has no section %d", e.Image, e.Section)
}

// Unwrap returns ErrImageReference for errors.Is() compatibility.
func (e *MissingSectionError) Unwrap() error { return ErrImageReference }

// Error implements the error interface.
func (e *MissingStepError) Error() string {
	return fmt.Sprintf("image %s: section %d has no step %d", e.Image, e.Section, e.Step)
}

// Unwrap returns ErrImageReference for errors.Is() compatibility.
func (e *MissingStepError) Unwrap() error { return ErrImageReference }
