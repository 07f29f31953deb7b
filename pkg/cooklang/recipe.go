// SPDX-License-Identifier: MPL-2.0

package cooklang

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/chefkit/chef/pkg/cooklang/ast"
	"github.com/chefkit/chef/pkg/quantity"
)

const (
	// ServingsKey is the metadata key listing the serving tiers, e.g. "2|4|6".
	ServingsKey = "servings"
	// TitleKey is the metadata key holding the display title.
	TitleKey = "title"
	// TagsKey is the metadata key holding comma separated tags.
	TagsKey = "tags"
)

type (
	// Metadata is the ordered list of key/value pairs of a recipe. When a
	// key repeats, the last value wins on lookup.
	Metadata struct {
		entries []ast.MetadataEntry
	}

	// Ingredient is an ingredient with its amount converted into the
	// quantity model. Quantity is nil when no amount was written.
	Ingredient struct {
		Name     string
		Quantity *quantity.Quantity
		Note     string
	}

	// Cookware is a piece of equipment referenced by a step.
	Cookware struct {
		Name     string
		Quantity *quantity.Quantity
	}

	// Timer is a duration referenced by a step. Name may be empty.
	Timer struct {
		Name     string
		Quantity *quantity.Quantity
	}

	// Recipe is a parsed recipe. Step items index into Ingredients,
	// Cookware and Timers.
	Recipe struct {
		Name        string
		Metadata    Metadata
		Sections    []ast.Section
		Ingredients []Ingredient
		Cookware    []Cookware
		Timers      []Timer
	}

	// Parser turns recipe text into a Recipe. The zero value is ready to use
	// and resolves units lazily.
	Parser struct {
		converter quantity.Converter
	}

	// ParserOption configures a Parser.
	ParserOption func(*Parser)
)

// NewParser creates a parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithConverter makes the parser resolve every unit while parsing.
func WithConverter(c quantity.Converter) ParserOption {
	return func(p *Parser) {
		p.converter = c
	}
}

// Parse parses a full recipe. name is the recipe name, usually the file stem.
func Parse(text, name string) (*Recipe, error) {
	return NewParser().Parse(text, name)
}

// ParseMetadata reads only the metadata of a recipe.
func ParseMetadata(text string) (Metadata, error) {
	return NewParser().ParseMetadata(text)
}

// Parse parses a full recipe.
func (p *Parser) Parse(text, name string) (*Recipe, error) {
	tree, err := parseAST(text, false)
	if err != nil {
		return nil, err
	}

	r := &Recipe{
		Name:     name,
		Metadata: Metadata{entries: tree.Metadata},
		Sections: tree.Sections,
	}
	for _, c := range tree.Ingredients {
		r.Ingredients = append(r.Ingredients, Ingredient{Name: c.Name, Quantity: p.quantity(c.Quantity), Note: c.Note})
	}
	for _, c := range tree.Cookware {
		r.Cookware = append(r.Cookware, Cookware{Name: c.Name, Quantity: p.quantity(c.Quantity)})
	}
	for _, c := range tree.Timers {
		r.Timers = append(r.Timers, Timer{Name: c.Name, Quantity: p.quantity(c.Quantity)})
	}
	return r, nil
}

// ParseMetadata reads only the metadata of a recipe.
func (p *Parser) ParseMetadata(text string) (Metadata, error) {
	tree, err := parseAST(text, true)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{entries: tree.Metadata}, nil
}

func (p *Parser) quantity(q *ast.Quantity) *quantity.Quantity {
	if q == nil {
		return nil
	}
	value := quantity.FromAST(q.Value)
	var out quantity.Quantity
	if p.converter != nil {
		out = quantity.NewAndParse(value, q.Unit, p.converter)
	} else {
		out = quantity.New(value, q.Unit)
	}
	return &out
}

// Get returns the value of key.
func (m Metadata) Get(key string) (string, bool) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].Key == key {
			return m.entries[i].Value, true
		}
	}
	return "", false
}

// Entries returns the entries in file order.
func (m Metadata) Entries() []ast.MetadataEntry {
	return slices.Clone(m.entries)
}

// Len returns the number of entries.
func (m Metadata) Len() int { return len(m.entries) }

// Map returns the entries as a map.
func (m Metadata) Map() map[string]string {
	out := make(map[string]string, len(m.entries))
	for _, e := range m.entries {
		out[e.Key] = e.Value
	}
	return out
}

// Title returns the title entry, if any.
func (m Metadata) Title() string {
	title, _ := m.Get(TitleKey)
	return title
}

// Tags returns the comma separated tags entry.
func (m Metadata) Tags() []string {
	raw, ok := m.Get(TagsKey)
	if !ok {
		return nil
	}
	var tags []string
	for tag := range strings.SplitSeq(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Servings returns the serving tiers. A recipe without the entry has none.
func (m Metadata) Servings() ([]int, error) {
	raw, ok := m.Get(ServingsKey)
	if !ok {
		return nil, nil
	}
	var tiers []int
	for part := range strings.SplitSeq(raw, "|") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %q is not a list of positive servings", ErrInvalidServings, raw)
		}
		tiers = append(tiers, n)
	}
	return tiers, nil
}

// SectionCount returns the number of sections.
func (r *Recipe) SectionCount() int { return len(r.Sections) }

// StepCount returns the number of steps in section i.
func (r *Recipe) StepCount(section int) int {
	if section < 0 || section >= len(r.Sections) {
		return 0
	}
	return len(r.Sections[section].Steps)
}

// Title returns the metadata title, falling back to the recipe name.
func (r *Recipe) Title() string {
	if title := r.Metadata.Title(); title != "" {
		return title
	}
	return r.Name
}

// Scale returns a copy of r scaled to servings. Linear amounts are
// multiplied by servings over the first tier, and per-serving amounts pick
// the tier matching servings.
func (r *Recipe) Scale(servings int) (*Recipe, error) {
	tiers, err := r.Metadata.Servings()
	if err != nil {
		return nil, &ServingsError{Servings: servings, Reason: err.Error()}
	}
	if len(tiers) == 0 {
		return nil, &ServingsError{Servings: servings, Reason: "the recipe does not declare its servings"}
	}
	if servings <= 0 {
		return nil, &ServingsError{Servings: servings, Reason: "servings must be positive"}
	}

	target := quantity.ScaleTarget{
		Factor: float64(servings) / float64(tiers[0]),
		Index:  slices.Index(tiers, servings),
	}
	scaled, err := r.scaled(target)
	if errors.Is(err, quantity.ErrServingsOutOfRange) {
		return nil, &ServingsError{Servings: servings, Available: tiers}
	}
	return scaled, err
}

// ScaleBy returns a copy of r with linear amounts multiplied by factor.
// Per-serving amounts keep their first tier.
func (r *Recipe) ScaleBy(factor float64) (*Recipe, error) {
	return r.scaled(quantity.ScaleTarget{Factor: factor})
}

func (r *Recipe) scaled(t quantity.ScaleTarget) (*Recipe, error) {
	out := *r
	out.Ingredients = slices.Clone(r.Ingredients)
	out.Cookware = slices.Clone(r.Cookware)
	out.Timers = slices.Clone(r.Timers)

	for i := range out.Ingredients {
		q, err := scaleQuantity(out.Ingredients[i].Quantity, t)
		if err != nil {
			return nil, fmt.Errorf("ingredient %q: %w", out.Ingredients[i].Name, err)
		}
		out.Ingredients[i].Quantity = q
	}
	for i := range out.Cookware {
		q, err := scaleQuantity(out.Cookware[i].Quantity, t)
		if err != nil {
			return nil, fmt.Errorf("cookware %q: %w", out.Cookware[i].Name, err)
		}
		out.Cookware[i].Quantity = q
	}
	for i := range out.Timers {
		q, err := scaleQuantity(out.Timers[i].Quantity, t)
		if err != nil {
			return nil, fmt.Errorf("timer %q: %w", out.Timers[i].Name, err)
		}
		out.Timers[i].Quantity = q
	}
	return &out, nil
}

func scaleQuantity(q *quantity.Quantity, t quantity.ScaleTarget) (*quantity.Quantity, error) {
	if q == nil {
		return nil, nil
	}
	scaled, err := q.Scale(t)
	if err != nil {
		return nil, err
	}
	return &scaled, nil
}
