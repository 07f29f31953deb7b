// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"errors"
	"fmt"

	"github.com/chefkit/chef/pkg/units"
)

var (
	// ErrUnknownUnit is returned when a unit text is not in the table.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrMixedPhysicalQuantity is returned when converting between units
	// that measure different physical quantities.
	ErrMixedPhysicalQuantity = errors.New("mixed physical quantities")

	// ErrNoBestUnit is returned when no best-fit ladder exists for a
	// physical quantity in the requested system.
	ErrNoBestUnit = errors.New("no best unit")

	// ErrInvalidUnitFile is returned when a unit file cannot be loaded.
	ErrInvalidUnitFile = errors.New("invalid unit file")
)

type (
	// UnknownUnitError is returned when a unit text is not in the table. An
	// empty Unit means the quantity had no unit at all.
	UnknownUnitError struct {
		Unit string
	}

	// MixedPhysicalQuantityError is returned when the source and target
	// units measure different physical quantities.
	MixedPhysicalQuantityError struct {
		From units.PhysicalQuantity
		To   units.PhysicalQuantity
	}

	// NoBestUnitError is returned when no best-fit ladder covers the
	// requested physical quantity and system.
	NoBestUnitError struct {
		PhysicalQuantity units.PhysicalQuantity
		System           units.System
	}

	// InvalidUnitFileError wraps a failure to load a unit file.
	InvalidUnitFileError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *UnknownUnitError) Error() string {
	if e.Unit == "" {
		return "quantity has no unit"
	}
	return fmt.Sprintf("unknown unit %q", e.Unit)
}

// Unwrap returns ErrUnknownUnit for errors.Is() compatibility.
func (e *UnknownUnitError) Unwrap() error { return ErrUnknownUnit }

// Error implements the error interface.
func (e *MixedPhysicalQuantityError) Error() string {
	return fmt.Sprintf("cannot convert %s into %s", e.From, e.To)
}

// Unwrap returns ErrMixedPhysicalQuantity for errors.Is() compatibility.
func (e *MixedPhysicalQuantityError) Unwrap() error { return ErrMixedPhysicalQuantity }

// Error implements the error interface.
func (e *NoBestUnitError) Error() string {
	return fmt.Sprintf("no %s unit to fit %s into", e.System, e.PhysicalQuantity)
}

// Unwrap returns ErrNoBestUnit for errors.Is() compatibility.
func (e *NoBestUnitError) Unwrap() error { return ErrNoBestUnit }

// Error implements the error interface.
func (e *InvalidUnitFileError) Error() string {
	return fmt.Sprintf("load units from %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrInvalidUnitFile and the underlying cause.
func (e *InvalidUnitFileError) Unwrap() []error { return []error{ErrInvalidUnitFile, e.Err} }
