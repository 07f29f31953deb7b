// SPDX-License-Identifier: MPL-2.0

package quantity

import (
	"fmt"

	"github.com/chefkit/chef/pkg/units"
)

// Quantity is a QuantityValue plus an optional unit. A quantity without a
// unit is dimensionless. Copies of a Quantity share the same unit cell.
type Quantity struct {
	Value QuantityValue
	unit  *QuantityUnit
}

// New creates a quantity whose unit is resolved lazily. An empty unit text
// creates a unitless quantity.
func New(value QuantityValue, unit string) Quantity {
	if unit == "" {
		return Unitless(value)
	}
	return Quantity{Value: value, unit: newUnit(unit)}
}

// NewAndParse creates a quantity and resolves its unit immediately.
func NewAndParse(value QuantityValue, unit string, c Converter) Quantity {
	if unit == "" {
		return Unitless(value)
	}
	return Quantity{Value: value, unit: newResolvedUnit(unit, lookupUnit(unit, c))}
}

// WithKnownUnit creates a quantity whose unit is already resolved. A nil
// unit records the text as Unknown.
func WithKnownUnit(value QuantityValue, unitText string, unit *units.Unit) Quantity {
	return Quantity{Value: value, unit: newResolvedUnit(unitText, Known(unit))}
}

// Unitless creates a dimensionless quantity.
func Unitless(value QuantityValue) Quantity {
	return Quantity{Value: value}
}

// Unit returns the unit, or nil for unitless quantities.
func (q Quantity) Unit() *QuantityUnit { return q.unit }

// UnitText returns the unit text.
func (q Quantity) UnitText() (string, bool) {
	if q.unit == nil {
		return "", false
	}
	return q.unit.text, true
}

// UnitInfo returns the unit info if the unit was already resolved. It never
// triggers a lookup; use ResolveUnit for that.
func (q Quantity) UnitInfo() (UnitInfo, bool) {
	if q.unit == nil {
		return UnitInfo{}, false
	}
	return q.unit.Info()
}

// ResolveUnit resolves the unit through c. Unitless quantities report false.
func (q Quantity) ResolveUnit(c Converter) (UnitInfo, bool) {
	if q.unit == nil {
		return UnitInfo{}, false
	}
	return q.unit.Resolve(c), true
}

// IsCompatible checks whether q and rhs can be added. Two unitless quantities
// are compatible with no common unit. When both units are known they must
// measure the same physical quantity, and q's unit is returned as the common
// unit. Otherwise the unit texts must be equal and no common unit is returned.
func (q Quantity) IsCompatible(rhs Quantity, c Converter) (*units.Unit, error) {
	switch {
	case q.unit == nil && rhs.unit == nil:
		return nil, nil
	case q.unit == nil:
		return nil, &MissingUnitError{Side: Right, Found: rhs.unit}
	case rhs.unit == nil:
		return nil, &MissingUnitError{Side: Left, Found: q.unit}
	}

	a, aKnown := q.unit.Resolve(c).Unit()
	b, bKnown := rhs.unit.Resolve(c).Unit()
	if aKnown && bKnown {
		if a.PhysicalQuantity != b.PhysicalQuantity {
			return nil, &DifferentPhysicalQuantitiesError{A: a.PhysicalQuantity, B: b.PhysicalQuantity}
		}
		return a, nil
	}

	if q.unit.text != rhs.unit.text {
		return nil, &UnknownDifferentUnitsError{A: q.unit.text, B: rhs.unit.text}
	}
	return nil, nil
}

// TryAdd adds rhs to q. When the units share a common unit, rhs is first
// converted into it. The result keeps q's unit.
func (q Quantity) TryAdd(rhs Quantity, c Converter) (Quantity, error) {
	common, err := q.IsCompatible(rhs, c)
	if err != nil {
		return Quantity{}, err
	}

	if common != nil {
		converted, err := c.Convert(rhs, ToUnit(common))
		if err != nil {
			return Quantity{}, fmt.Errorf("convert %s to %s: %w", rhs, common.Symbol(), err)
		}
		rhs = converted
	}

	value, err := q.Value.TryAdd(rhs.Value)
	if err != nil {
		return Quantity{}, err
	}

	return Quantity{Value: value, unit: q.unit}, nil
}

// Fit replaces q with the converter's best fitting unit of the same system
// (e.g. 1500 g becomes 1.5 kg). Unitless quantities, unknown units and text
// values are left untouched. A conversion failure for a known unit is a bug
// in the converter and panics.
func (q *Quantity) Fit(c Converter) {
	info, ok := q.ResolveUnit(c)
	if !ok || !info.IsKnown() || q.Value.ContainsTextValue() {
		return
	}

	fitted, err := c.Convert(*q, ToSameSystem())
	if err != nil {
		panic(fmt.Sprintf("quantity: fit %s to its own unit system: %v", q, err))
	}
	*q = fitted
}

// Scale resolves the value of q with t, keeping the unit.
func (q Quantity) Scale(t ScaleTarget) (Quantity, error) {
	value, err := q.Value.Scale(t)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: value, unit: q.unit}, nil
}

// String renders "value unit", or just the value for unitless quantities.
func (q Quantity) String() string {
	if q.unit == nil {
		return q.Value.String()
	}
	return q.Value.String() + " " + q.unit.text
}
