// SPDX-License-Identifier: MPL-2.0

package quantity

import (
	"errors"
	"fmt"

	"github.com/chefkit/chef/pkg/units"
)

const (
	// Left is the receiver of a binary operation.
	Left Side = iota
	// Right is the argument of a binary operation.
	Right
)

var (
	// ErrNotScaled is the sentinel error wrapped by NotScaledError.
	ErrNotScaled = errors.New("quantities must be scaled before operating on them")
	// ErrTextValue is the sentinel error wrapped by TextValueError.
	ErrTextValue = errors.New("cannot operate on a text value")
	// ErrIncompatibleUnits is the sentinel error wrapped by MissingUnitError,
	// DifferentPhysicalQuantitiesError and UnknownDifferentUnitsError.
	ErrIncompatibleUnits = errors.New("incompatible units")
	// ErrServingsOutOfRange is the sentinel error wrapped by ServingsOutOfRangeError.
	ErrServingsOutOfRange = errors.New("servings out of range")
)

type (
	// Side identifies an operand of a binary operation.
	Side int

	// NotScaledError is returned when a scalable value is used where a single
	// concrete amount is needed.
	NotScaledError struct {
		Value ScalableValue
	}

	// TextValueError is returned when a text value is used in arithmetic.
	TextValueError struct {
		Value Value
	}

	// MissingUnitError is returned when only one of two quantities has a unit.
	// Side tells which operand had the unit, and Found is that unit.
	MissingUnitError struct {
		Side  Side
		Found *QuantityUnit
	}

	// DifferentPhysicalQuantitiesError is returned when two known units measure
	// different things (e.g. mass and volume).
	DifferentPhysicalQuantitiesError struct {
		A units.PhysicalQuantity
		B units.PhysicalQuantity
	}

	// UnknownDifferentUnitsError is returned when at least one unit is unknown
	// and the unit texts differ.
	UnknownDifferentUnitsError struct {
		A string
		B string
	}

	// ServingsOutOfRangeError is returned when scaling a servings-tiered value
	// to a tier it does not define.
	ServingsOutOfRangeError struct {
		Index int
		Len   int
	}
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Error implements the error interface.
func (e *NotScaledError) Error() string {
	return fmt.Sprintf("tried to operate on a non scaled value: %s", e.Value)
}

// Unwrap returns ErrNotScaled for errors.Is() compatibility.
func (e *NotScaledError) Unwrap() error { return ErrNotScaled }

// Error implements the error interface.
func (e *TextValueError) Error() string {
	return fmt.Sprintf("cannot operate on a text value: %q", e.Value.String())
}

// Unwrap returns ErrTextValue for errors.Is() compatibility.
func (e *TextValueError) Unwrap() error { return ErrTextValue }

// Error implements the error interface.
func (e *MissingUnitError) Error() string {
	return fmt.Sprintf("missing unit: the %s quantity has unit '%s' but the other quantity has no unit", e.Side, e.Found)
}

// Unwrap returns ErrIncompatibleUnits for errors.Is() compatibility.
func (e *MissingUnitError) Unwrap() error { return ErrIncompatibleUnits }

// Error implements the error interface.
func (e *DifferentPhysicalQuantitiesError) Error() string {
	return fmt.Sprintf("different physical quantities: '%s' and '%s'", e.A, e.B)
}

// Unwrap returns ErrIncompatibleUnits for errors.Is() compatibility.
func (e *DifferentPhysicalQuantitiesError) Unwrap() error { return ErrIncompatibleUnits }

// Error implements the error interface.
func (e *UnknownDifferentUnitsError) Error() string {
	return fmt.Sprintf("unknown units differ: '%s' and '%s'", e.A, e.B)
}

// Unwrap returns ErrIncompatibleUnits for errors.Is() compatibility.
func (e *UnknownDifferentUnitsError) Unwrap() error { return ErrIncompatibleUnits }

// Error implements the error interface.
func (e *ServingsOutOfRangeError) Error() string {
	return fmt.Sprintf("servings tier %d out of range: value defines %d tiers", e.Index, e.Len)
}

// Unwrap returns ErrServingsOutOfRange for errors.Is() compatibility.
func (e *ServingsOutOfRangeError) Unwrap() error { return ErrServingsOutOfRange }
