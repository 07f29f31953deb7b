// SPDX-License-Identifier: MPL-2.0

package convert

import (
	_ "embed"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/chefkit/chef/internal/cueutil"
	"github.com/chefkit/chef/pkg/quantity"
	"github.com/chefkit/chef/pkg/units"
)

var (
	//go:embed units.toml
	builtinUnits []byte

	//go:embed units_schema.cue
	unitsSchema string

	builtin = sync.OnceValues(func() (*Converter, error) {
		c := &Converter{
			byKey:    map[string]*units.Unit{},
			byFolded: map[string]*units.Unit{},
			best:     map[units.PhysicalQuantity]map[units.System][]*units.Unit{},
		}
		return c, c.Load(builtinUnits, "units.toml")
	})
)

var _ quantity.Converter = (*Converter)(nil)

type (
	// Converter resolves unit text and converts quantities. It is safe for
	// concurrent use once loading is done; Load and LoadFile must not run
	// concurrently with lookups.
	Converter struct {
		units    []*units.Unit
		byKey    map[string]*units.Unit
		byFolded map[string]*units.Unit
		best     map[units.PhysicalQuantity]map[units.System][]*units.Unit
	}

	unitFile struct {
		Best  map[string]map[string][]string `toml:"best"`
		Units []unitDef                      `toml:"units"`
	}

	unitDef struct {
		Names            []string `toml:"names"`
		Symbols          []string `toml:"symbols"`
		Aliases          []string `toml:"aliases"`
		Ratio            float64  `toml:"ratio"`
		Difference       float64  `toml:"difference"`
		PhysicalQuantity string   `toml:"physical_quantity"`
		System           string   `toml:"system"`
	}
)

// Default returns a converter holding the built-in unit table. Every call
// returns an independent copy that can be extended with Load.
func Default() *Converter {
	c, err := builtin()
	if err != nil {
		panic(fmt.Sprintf("convert: built-in unit table: %v", err))
	}
	return c.clone()
}

// New returns the built-in converter extended with the given unit files, in
// order.
func New(unitFiles ...string) (*Converter, error) {
	c := Default()
	for _, path := range unitFiles {
		if err := c.LoadFile(path); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Converter) clone() *Converter {
	best := make(map[units.PhysicalQuantity]map[units.System][]*units.Unit, len(c.best))
	for pq, ladders := range c.best {
		best[pq] = maps.Clone(ladders)
	}
	return &Converter{
		units:    slices.Clone(c.units),
		byKey:    maps.Clone(c.byKey),
		byFolded: maps.Clone(c.byFolded),
		best:     best,
	}
}

// LoadFile reads a unit file from disk and layers it on top of the table.
func (c *Converter) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &InvalidUnitFileError{Path: path, Err: err}
	}
	return c.Load(data, path)
}

// Load layers a TOML unit document on top of the table. Units are added
// before the best-fit ladders are read, so a ladder may name units from the
// same document.
func (c *Converter) Load(data []byte, filename string) error {
	result, err := cueutil.ParseTOML[unitFile](unitsSchema, data, "#UnitFile", cueutil.WithFilename(filename))
	if err != nil {
		return &InvalidUnitFileError{Path: filename, Err: err}
	}

	for _, def := range result.Value.Units {
		pq, err := units.ParsePhysicalQuantity(def.PhysicalQuantity)
		if err != nil {
			return &InvalidUnitFileError{Path: filename, Err: err}
		}
		c.add(&units.Unit{
			Names:            def.Names,
			Symbols:          def.Symbols,
			Aliases:          def.Aliases,
			Ratio:            def.Ratio,
			Difference:       def.Difference,
			PhysicalQuantity: pq,
			System:           units.ParseSystem(def.System),
		})
	}

	for pqName, ladders := range result.Value.Best {
		pq, err := units.ParsePhysicalQuantity(pqName)
		if err != nil {
			return &InvalidUnitFileError{Path: filename, Err: err}
		}
		for systemName, keys := range ladders {
			ladder, err := c.ladder(pq, keys)
			if err != nil {
				return &InvalidUnitFileError{Path: filename, Err: err}
			}
			if c.best[pq] == nil {
				c.best[pq] = map[units.System][]*units.Unit{}
			}
			c.best[pq][units.ParseSystem(systemName)] = ladder
		}
	}

	slog.Debug("loaded unit table", "file", filename, "units", len(result.Value.Units))
	return nil
}

// add registers u under every key. Exact keys from later documents replace
// earlier ones; case-folded keys keep their first registration.
func (c *Converter) add(u *units.Unit) {
	c.units = append(c.units, u)
	for _, key := range u.Keys() {
		c.byKey[key] = u
		folded := strings.ToLower(key)
		if _, ok := c.byFolded[folded]; !ok {
			c.byFolded[folded] = u
		}
	}
}

// ladder resolves a best-fit ladder and sorts it from the smallest unit up.
func (c *Converter) ladder(pq units.PhysicalQuantity, keys []string) ([]*units.Unit, error) {
	ladder := make([]*units.Unit, 0, len(keys))
	for _, key := range keys {
		u, ok := c.byKey[key]
		if !ok {
			return nil, &UnknownUnitError{Unit: key}
		}
		if u.PhysicalQuantity != pq {
			return nil, &MixedPhysicalQuantityError{From: u.PhysicalQuantity, To: pq}
		}
		ladder = append(ladder, u)
	}
	slices.SortStableFunc(ladder, func(a, b *units.Unit) int {
		switch {
		case a.Ratio < b.Ratio:
			return -1
		case a.Ratio > b.Ratio:
			return 1
		default:
			return 0
		}
	})
	return ladder, nil
}

// Units returns every registered unit in registration order.
func (c *Converter) Units() []*units.Unit {
	return slices.Clone(c.units)
}

// Unit looks up a unit by name, symbol or alias. An exact match wins over a
// case-insensitive one.
func (c *Converter) Unit(text string) (*units.Unit, error) {
	text = strings.TrimSpace(text)
	if u, ok := c.byKey[text]; ok {
		return u, nil
	}
	if u, ok := c.byFolded[strings.ToLower(text)]; ok {
		return u, nil
	}
	return nil, &UnknownUnitError{Unit: text}
}

// Convert converts q into the target unit or the best fitting unit of a
// system. Every value reachable from q is converted; text values fail with
// *quantity.TextValueError.
func (c *Converter) Convert(q quantity.Quantity, to quantity.ConvertTo) (quantity.Quantity, error) {
	text, hasUnit := q.UnitText()
	if !hasUnit {
		return quantity.Quantity{}, &UnknownUnitError{}
	}
	info, _ := q.ResolveUnit(c)
	from, known := info.Unit()
	if !known {
		return quantity.Quantity{}, &UnknownUnitError{Unit: text}
	}

	var target *units.Unit
	if u, ok := to.Unit(); ok {
		if u.PhysicalQuantity != from.PhysicalQuantity {
			return quantity.Quantity{}, &MixedPhysicalQuantityError{From: from.PhysicalQuantity, To: u.PhysicalQuantity}
		}
		target = u
	} else {
		system := from.System
		if s, ok := to.System(); ok {
			system = s
		}
		var err error
		if target, err = c.bestFit(q.Value, from, system); err != nil {
			return quantity.Quantity{}, err
		}
	}

	value, err := q.Value.MapValues(func(v quantity.Value) (quantity.Value, error) {
		if v.IsText() {
			return quantity.Value{}, &quantity.TextValueError{Value: v}
		}
		return v.Map(func(n float64) float64 { return target.FromBase(from.ToBase(n)) }), nil
	})
	if err != nil {
		return quantity.Quantity{}, err
	}

	return quantity.WithKnownUnit(value, target.Symbol(), target), nil
}

// bestFit picks the largest unit of the ladder in which the first value of
// v is at least 1, or the smallest unit when none qualifies.
func (c *Converter) bestFit(v quantity.QuantityValue, from *units.Unit, system units.System) (*units.Unit, error) {
	ladder := c.best[from.PhysicalQuantity][system]
	if len(ladder) == 0 {
		ladder = c.best[from.PhysicalQuantity][units.SystemNone]
	}
	if len(ladder) == 0 {
		if system == from.System {
			return from, nil
		}
		return nil, &NoBestUnitError{PhysicalQuantity: from.PhysicalQuantity, System: system}
	}

	sample, err := firstNumber(v)
	if err != nil {
		return nil, err
	}

	base := from.ToBase(sample)
	best := ladder[0]
	for _, u := range ladder[1:] {
		if math.Abs(u.FromBase(base)) >= 1 {
			best = u
		}
	}
	return best, nil
}

// firstNumber returns the first number of v, using the start of a range.
func firstNumber(v quantity.QuantityValue) (float64, error) {
	var (
		sample float64
		found  bool
	)
	_, err := v.MapValues(func(val quantity.Value) (quantity.Value, error) {
		if val.IsText() {
			return val, &quantity.TextValueError{Value: val}
		}
		if found {
			return val, nil
		}
		if n, ok := val.AsNumber(); ok {
			sample = n
		} else if start, _, ok := val.AsRange(); ok {
			sample = start
		}
		found = true
		return val, nil
	})
	return sample, err
}
