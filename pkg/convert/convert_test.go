// SPDX-License-Identifier: MPL-2.0

package convert

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chefkit/chef/pkg/quantity"
	"github.com/chefkit/chef/pkg/units"
)

func mustUnit(t *testing.T, c *Converter, text string) *units.Unit {
	t.Helper()
	u, err := c.Unit(text)
	if err != nil {
		t.Fatalf("Unit(%q) error: %v", text, err)
	}
	return u
}

func TestUnitLookup(t *testing.T) {
	t.Parallel()

	c := Default()

	tests := []struct {
		text   string
		symbol string
		pq     units.PhysicalQuantity
	}{
		{"g", "g", units.Mass},
		{"grams", "g", units.Mass},
		{"kilos", "kg", units.Mass},
		{"Cups", "c", units.Volume},
		{"c", "c", units.Volume},
		{"C", "C", units.Temperature},
		{"tbsp", "tbsp", units.Volume},
		{" min ", "min", units.Time},
		{"fl oz", "fl oz", units.Volume},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			u := mustUnit(t, c, tt.text)
			if u.Symbol() != tt.symbol || u.PhysicalQuantity != tt.pq {
				t.Errorf("Unit(%q) = %s (%s), want %s (%s)", tt.text, u.Symbol(), u.PhysicalQuantity, tt.symbol, tt.pq)
			}
		})
	}

	_, err := c.Unit("handful")
	var unknown *UnknownUnitError
	if !errors.As(err, &unknown) || unknown.Unit != "handful" {
		t.Errorf("Unit(handful) error = %v, want *UnknownUnitError", err)
	}
	if !errors.Is(err, ErrUnknownUnit) {
		t.Error("error should wrap ErrUnknownUnit")
	}
}

func TestConvert_ToUnit(t *testing.T) {
	t.Parallel()

	c := Default()

	tests := []struct {
		name  string
		value quantity.QuantityValue
		from  string
		to    string
		want  string
	}{
		{"grams to kilograms", quantity.Fixed(quantity.Number(1500)), "g", "kg", "1.5 kg"},
		{"range", quantity.Fixed(quantity.Range(1, 2)), "kg", "g", "1000-2000 g"},
		{"affine temperature", quantity.Fixed(quantity.Number(212)), "F", "C", "100 C"},
		{"temperature back", quantity.Fixed(quantity.Number(180)), "C", "F", "356 F"},
		{"kelvin", quantity.Fixed(quantity.Number(0)), "C", "K", "273.15 K"},
		{"tablespoons to teaspoons", quantity.Fixed(quantity.Number(1)), "tbsp", "tsp", "3 tsp"},
		{"servings keep their shape", quantity.Scalable(quantity.ByServings(quantity.Number(1), quantity.Number(2))), "l", "ml", "1000|2000 ml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.Convert(quantity.New(tt.value, tt.from), quantity.ToUnit(mustUnit(t, c, tt.to)))
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Convert() = %q, want %q", got.String(), tt.want)
			}
			if info, ok := got.UnitInfo(); !ok || !info.IsKnown() {
				t.Error("converted quantity should carry a resolved unit")
			}
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	c := Default()
	kg := mustUnit(t, c, "kg")

	_, err := c.Convert(quantity.New(quantity.Fixed(quantity.Number(1)), "ml"), quantity.ToUnit(kg))
	var mixed *MixedPhysicalQuantityError
	if !errors.As(err, &mixed) || mixed.From != units.Volume || mixed.To != units.Mass {
		t.Errorf("Convert(ml to kg) error = %v, want volume to mass mismatch", err)
	}

	_, err = c.Convert(quantity.New(quantity.Fixed(quantity.Text("some")), "g"), quantity.ToUnit(kg))
	if !errors.Is(err, quantity.ErrTextValue) {
		t.Errorf("Convert(text) error = %v, want ErrTextValue", err)
	}

	_, err = c.Convert(quantity.New(quantity.Fixed(quantity.Number(1)), "handful"), quantity.ToUnit(kg))
	if !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("Convert(unknown) error = %v, want ErrUnknownUnit", err)
	}

	_, err = c.Convert(quantity.Unitless(quantity.Fixed(quantity.Number(1))), quantity.ToUnit(kg))
	if !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("Convert(unitless) error = %v, want ErrUnknownUnit", err)
	}
}

func TestConvert_BestFit(t *testing.T) {
	t.Parallel()

	c := Default()

	tests := []struct {
		name string
		q    quantity.Quantity
		to   quantity.ConvertTo
		want string
	}{
		{"grams grow into kilograms", quantity.New(quantity.Fixed(quantity.Number(1500)), "g"), quantity.ToSameSystem(), "1.5 kg"},
		{"kilograms shrink into grams", quantity.New(quantity.Fixed(quantity.Number(0.25)), "kg"), quantity.ToSameSystem(), "250 g"},
		{"exact boundary", quantity.New(quantity.Fixed(quantity.Number(1000)), "ml"), quantity.ToSameSystem(), "1 l"},
		{"small stays smallest", quantity.New(quantity.Fixed(quantity.Number(0.5)), "ml"), quantity.ToSameSystem(), "0.5 ml"},
		{"centiliters into the metric ladder", quantity.New(quantity.Fixed(quantity.Number(5)), "cl"), quantity.ToSameSystem(), "50 ml"},
		{"range uses its start", quantity.New(quantity.Fixed(quantity.Range(900, 1200)), "g"), quantity.ToSameSystem(), "900-1200 g"},
		{"time without system", quantity.New(quantity.Fixed(quantity.Number(90)), "min"), quantity.ToSameSystem(), "1.5 h"},
		{"metric into imperial", quantity.New(quantity.Fixed(quantity.Number(1)), "kg"), quantity.ToSystem(units.SystemImperial), "2.205 lb"},
		{"imperial into metric", quantity.New(quantity.Fixed(quantity.Number(2)), "cup"), quantity.ToSystem(units.SystemMetric), "473.176 ml"},
		{"temperature ladder", quantity.New(quantity.Fixed(quantity.Number(350)), "F"), quantity.ToSystem(units.SystemMetric), "176.667 C"},
		{"time falls back to none", quantity.New(quantity.Fixed(quantity.Number(7200)), "s"), quantity.ToSystem(units.SystemMetric), "2 h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := c.Convert(tt.q, tt.to)
			if err != nil {
				t.Fatalf("Convert() error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("Convert() = %q, want %q", got.String(), tt.want)
			}
		})
	}
}

func TestFitWithDefaultTable(t *testing.T) {
	t.Parallel()

	c := Default()

	q := quantity.New(quantity.Fixed(quantity.Number(2500)), "ml")
	q.Fit(c)
	if q.String() != "2.5 l" {
		t.Errorf("Fit() = %q, want %q", q.String(), "2.5 l")
	}

	sum, err := quantity.New(quantity.Fixed(quantity.Number(1)), "kg").
		TryAdd(quantity.New(quantity.Fixed(quantity.Number(250)), "g"), c)
	if err != nil {
		t.Fatalf("TryAdd() error: %v", err)
	}
	if sum.String() != "1.25 kg" {
		t.Errorf("TryAdd() = %q, want %q", sum.String(), "1.25 kg")
	}
}

func TestLoad_UserUnits(t *testing.T) {
	t.Parallel()

	c := Default()
	doc := []byte(`
[[units]]
names = ["stick", "sticks"]
ratio = 113.4
physical_quantity = "mass"
system = "imperial"

[[units]]
names = ["gram override"]
symbols = ["g"]
ratio = 1
physical_quantity = "mass"
system = "metric"

[best.mass]
imperial = ["oz", "stick", "lb"]
`)
	if err := c.Load(doc, "user.toml"); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	stick := mustUnit(t, c, "sticks")
	if stick.Ratio != 113.4 || stick.System != units.SystemImperial {
		t.Errorf("stick = %+v", stick)
	}
	if got := mustUnit(t, c, "g").Names[0]; got != "gram override" {
		t.Errorf("Unit(g) name = %q, want the user override", got)
	}

	got, err := c.Convert(quantity.New(quantity.Fixed(quantity.Number(8)), "oz"), quantity.ToSameSystem())
	if err != nil {
		t.Fatalf("Convert() error: %v", err)
	}
	if got.String() != "2 stick" {
		t.Errorf("Convert() = %q, want %q", got.String(), "2 stick")
	}

	if _, err := Default().Unit("stick"); err == nil {
		t.Error("loading into one converter must not change the built-in table")
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"bad physical quantity", "[[units]]\nnames = [\"x\"]\nratio = 1\nphysical_quantity = \"speed\"\n"},
		{"zero ratio", "[[units]]\nnames = [\"x\"]\nratio = 0\nphysical_quantity = \"mass\"\n"},
		{"missing names", "[[units]]\nratio = 1\nphysical_quantity = \"mass\"\n"},
		{"unknown ladder unit", "[best.mass]\nmetric = [\"g\", \"nope\"]\n"},
		{"ladder mixes quantities", "[best.mass]\nmetric = [\"g\", \"ml\"]\n"},
		{"syntax", "[[units]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Default().Load([]byte(tt.doc), "bad.toml")
			if !errors.Is(err, ErrInvalidUnitFile) {
				t.Fatalf("Load() error = %v, want ErrInvalidUnitFile", err)
			}
			var fileErr *InvalidUnitFileError
			if !errors.As(err, &fileErr) || fileErr.Path != "bad.toml" {
				t.Errorf("error should name the file, got %v", err)
			}
		})
	}
}

func TestNew_UnitFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "units.toml")
	doc := "[[units]]\nnames = [\"pinch\", \"pinches\"]\nratio = 0.3\nphysical_quantity = \"volume\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := New(path)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := c.Unit("pinches"); err != nil {
		t.Errorf("Unit(pinches) error: %v", err)
	}

	if _, err := New(filepath.Join(dir, "missing.toml")); !errors.Is(err, ErrInvalidUnitFile) {
		t.Errorf("New(missing) error = %v, want ErrInvalidUnitFile", err)
	}
}
