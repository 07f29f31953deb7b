// SPDX-License-Identifier: MPL-2.0

// Package units defines the resolved unit handle shared by the quantity model
// and the converter. A *Unit is owned by the converter's registry; quantities
// only hold references to it and never mutate it.
package units

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Volume covers liquid and dry measures (ml, cup, tbsp...).
	Volume PhysicalQuantity = iota + 1
	// Mass covers weights (g, kg, oz, lb...).
	Mass
	// Length covers distances (cm, in...).
	Length
	// Temperature covers affine scales (C, F, K).
	Temperature
	// Time covers durations (s, min, h...).
	Time
)

const (
	// SystemNone marks units that belong to no measurement system.
	SystemNone System = iota
	// SystemMetric is the metric (SI) system.
	SystemMetric
	// SystemImperial is the imperial / US customary system.
	SystemImperial
)

// ErrInvalidPhysicalQuantity is returned when a physical quantity name is not recognized.
var ErrInvalidPhysicalQuantity = errors.New("invalid physical quantity")

type (
	// PhysicalQuantity is a unit's dimensional category. Two units can only be
	// converted into each other when their physical quantities are equal.
	PhysicalQuantity int

	// System is the measurement system a unit belongs to.
	System int

	// Unit is a resolved unit. A value v expressed in this unit equals
	// v*Ratio + Difference in the base unit of its physical quantity.
	Unit struct {
		Names            []string
		Symbols          []string
		Aliases          []string
		Ratio            float64
		Difference       float64
		PhysicalQuantity PhysicalQuantity
		System           System
	}

	// InvalidPhysicalQuantityError is returned by ParsePhysicalQuantity.
	InvalidPhysicalQuantityError struct {
		Value string
	}
)

// String returns the lowercase name of the physical quantity.
func (p PhysicalQuantity) String() string {
	switch p {
	case Volume:
		return "volume"
	case Mass:
		return "mass"
	case Length:
		return "length"
	case Temperature:
		return "temperature"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// ParsePhysicalQuantity converts a lowercase name into a PhysicalQuantity.
func ParsePhysicalQuantity(s string) (PhysicalQuantity, error) {
	for _, p := range []PhysicalQuantity{Volume, Mass, Length, Temperature, Time} {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return 0, &InvalidPhysicalQuantityError{Value: s}
}

// Error implements the error interface.
func (e *InvalidPhysicalQuantityError) Error() string {
	return fmt.Sprintf("invalid physical quantity %q (valid: volume, mass, length, temperature, time)", e.Value)
}

// Unwrap returns ErrInvalidPhysicalQuantity for errors.Is() compatibility.
func (e *InvalidPhysicalQuantityError) Unwrap() error { return ErrInvalidPhysicalQuantity }

// String returns the lowercase name of the system.
func (s System) String() string {
	switch s {
	case SystemMetric:
		return "metric"
	case SystemImperial:
		return "imperial"
	default:
		return "none"
	}
}

// ParseSystem converts a system name into a System. Empty means SystemNone.
func ParseSystem(s string) System {
	switch strings.ToLower(s) {
	case "metric":
		return SystemMetric
	case "imperial":
		return SystemImperial
	default:
		return SystemNone
	}
}

// Symbol returns the preferred short form of the unit: the first symbol, or
// the first name when the unit has no symbol.
func (u *Unit) Symbol() string {
	if len(u.Symbols) > 0 {
		return u.Symbols[0]
	}
	if len(u.Names) > 0 {
		return u.Names[0]
	}
	return ""
}

// Keys returns every text form the unit can be looked up by.
func (u *Unit) Keys() []string {
	keys := make([]string, 0, len(u.Names)+len(u.Symbols)+len(u.Aliases))
	keys = append(keys, u.Names...)
	keys = append(keys, u.Symbols...)
	keys = append(keys, u.Aliases...)
	return keys
}

// ToBase converts v, expressed in u, to the base unit of u's physical quantity.
func (u *Unit) ToBase(v float64) float64 {
	return v*u.Ratio + u.Difference
}

// FromBase converts v, expressed in the base unit, into u.
func (u *Unit) FromBase(v float64) float64 {
	return (v - u.Difference) / u.Ratio
}

// String returns the unit symbol.
func (u *Unit) String() string { return u.Symbol() }
