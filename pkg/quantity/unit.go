// SPDX-License-Identifier: MPL-2.0

package quantity

import (
	"sync"
	"sync/atomic"

	"github.com/chefkit/chef/pkg/units"
)

const (
	convertToUnit convertKind = iota
	convertToSameSystem
	convertToSystem
)

type (
	// Converter resolves unit text and converts quantities between units.
	Converter interface {
		// Unit returns the unit known by text, or an error when there is none.
		Unit(text string) (*units.Unit, error)
		// Convert converts q into the target unit or system.
		Convert(q Quantity, to ConvertTo) (Quantity, error)
	}

	convertKind int

	// ConvertTo is the target of a conversion: a specific unit, the best unit
	// in the quantity's own system, or the best unit in a given system.
	ConvertTo struct {
		kind   convertKind
		unit   *units.Unit
		system units.System
	}

	// UnitInfo is the resolution of a unit text. The zero value is Unknown.
	UnitInfo struct {
		unit *units.Unit
	}

	// QuantityUnit is a unit text plus its lazily resolved UnitInfo.
	// Resolution happens at most once, even under concurrent access, and the
	// result is kept for the lifetime of the unit. A QuantityUnit must not be
	// copied; quantities share it by pointer.
	QuantityUnit struct {
		text string
		once sync.Once
		info atomic.Pointer[UnitInfo]
	}
)

// ToUnit targets a specific unit.
func ToUnit(u *units.Unit) ConvertTo {
	return ConvertTo{kind: convertToUnit, unit: u}
}

// ToSameSystem targets the best fitting unit of the quantity's own system.
func ToSameSystem() ConvertTo {
	return ConvertTo{kind: convertToSameSystem}
}

// ToSystem targets the best fitting unit of system s.
func ToSystem(s units.System) ConvertTo {
	return ConvertTo{kind: convertToSystem, system: s}
}

// Unit returns the target unit for ToUnit targets.
func (t ConvertTo) Unit() (*units.Unit, bool) {
	return t.unit, t.kind == convertToUnit
}

// System returns the target system for ToSystem targets.
func (t ConvertTo) System() (units.System, bool) {
	return t.system, t.kind == convertToSystem
}

// IsSameSystem reports whether t is a ToSameSystem target.
func (t ConvertTo) IsSameSystem() bool { return t.kind == convertToSameSystem }

// Known creates the info of a resolved unit. A nil unit is Unknown.
func Known(u *units.Unit) UnitInfo {
	return UnitInfo{unit: u}
}

// Unit returns the resolved unit, if known.
func (i UnitInfo) Unit() (*units.Unit, bool) {
	return i.unit, i.unit != nil
}

// IsKnown reports whether the unit was resolved.
func (i UnitInfo) IsKnown() bool { return i.unit != nil }

// String returns the unit symbol or "unknown".
func (i UnitInfo) String() string {
	if i.unit == nil {
		return "unknown"
	}
	return i.unit.Symbol()
}

func newUnit(text string) *QuantityUnit {
	return &QuantityUnit{text: text}
}

func newResolvedUnit(text string, info UnitInfo) *QuantityUnit {
	u := &QuantityUnit{text: text}
	u.info.Store(&info)
	return u
}

func lookupUnit(text string, c Converter) UnitInfo {
	u, err := c.Unit(text)
	if err != nil {
		return UnitInfo{}
	}
	return Known(u)
}

// Text returns the unit text as written.
func (u *QuantityUnit) Text() string { return u.text }

// Info returns the resolved info without resolving it.
func (u *QuantityUnit) Info() (UnitInfo, bool) {
	info := u.info.Load()
	if info == nil {
		return UnitInfo{}, false
	}
	return *info, true
}

// Resolve returns the unit info, looking it up through c on first use.
// Every caller observes the same result.
func (u *QuantityUnit) Resolve(c Converter) UnitInfo {
	if info := u.info.Load(); info != nil {
		return *info
	}
	u.once.Do(func() {
		if u.info.Load() != nil {
			return
		}
		info := lookupUnit(u.text, c)
		u.info.Store(&info)
	})
	return *u.info.Load()
}

// Equal compares unit texts; resolution state is ignored.
func (u *QuantityUnit) Equal(other *QuantityUnit) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.text == other.text
}

// String returns the unit text.
func (u *QuantityUnit) String() string {
	if u == nil {
		return ""
	}
	return u.text
}
