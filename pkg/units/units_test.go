// SPDX-License-Identifier: MPL-2.0

package units

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestParsePhysicalQuantity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  PhysicalQuantity
	}{
		{"volume", Volume},
		{"mass", Mass},
		{"Length", Length},
		{"TEMPERATURE", Temperature},
		{"time", Time},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePhysicalQuantity(tt.input)
			if err != nil {
				t.Fatalf("ParsePhysicalQuantity(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePhysicalQuantity(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	_, err := ParsePhysicalQuantity("weight")
	if !errors.Is(err, ErrInvalidPhysicalQuantity) {
		t.Fatalf("ParsePhysicalQuantity(weight) error = %v, want ErrInvalidPhysicalQuantity", err)
	}
	var pqErr *InvalidPhysicalQuantityError
	if !errors.As(err, &pqErr) || pqErr.Value != "weight" {
		t.Errorf("error = %#v, want *InvalidPhysicalQuantityError for weight", err)
	}
}

func TestParseSystem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  System
	}{
		{"metric", SystemMetric},
		{"Imperial", SystemImperial},
		{"", SystemNone},
		{"nautical", SystemNone},
	}

	for _, tt := range tests {
		if got := ParseSystem(tt.input); got != tt.want {
			t.Errorf("ParseSystem(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestUnitSymbol(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		unit Unit
		want string
	}{
		{"symbol first", Unit{Names: []string{"gram"}, Symbols: []string{"g"}}, "g"},
		{"name fallback", Unit{Names: []string{"pinch"}}, "pinch"},
		{"empty", Unit{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.unit.Symbol(); got != tt.want {
				t.Errorf("Symbol() = %q, want %q", got, tt.want)
			}
			if got := tt.unit.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnitKeys(t *testing.T) {
	t.Parallel()

	u := &Unit{Names: []string{"liter", "litre"}, Symbols: []string{"l"}, Aliases: []string{"L"}}
	want := []string{"liter", "litre", "l", "L"}
	if got := u.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %q, want %q", got, want)
	}
}

func TestUnitBaseConversion(t *testing.T) {
	t.Parallel()

	fahrenheit := &Unit{Ratio: 5.0 / 9.0, Difference: -160.0 / 9.0}
	if got := fahrenheit.ToBase(212); math.Abs(got-100) > 1e-9 {
		t.Errorf("ToBase(212 F) = %v, want 100", got)
	}
	if got := fahrenheit.FromBase(0); math.Abs(got-32) > 1e-9 {
		t.Errorf("FromBase(0 C) = %v, want 32", got)
	}

	kg := &Unit{Ratio: 1000}
	if got := kg.FromBase(kg.ToBase(1.5)); got != 1.5 {
		t.Errorf("round trip through base = %v, want 1.5", got)
	}
}

func TestStringers(t *testing.T) {
	t.Parallel()

	if Mass.String() != "mass" || PhysicalQuantity(99).String() != "unknown" {
		t.Errorf("PhysicalQuantity.String() = %q/%q", Mass.String(), PhysicalQuantity(99).String())
	}
	if SystemMetric.String() != "metric" || SystemNone.String() != "none" {
		t.Errorf("System.String() = %q/%q", SystemMetric.String(), SystemNone.String())
	}
}
