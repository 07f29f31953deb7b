// SPDX-License-Identifier: MPL-2.0

package quantity

import (
	"math"
	"strconv"
	"strings"
)

const (
	// KindNumber is a single number.
	KindNumber ValueKind = iota
	// KindRange is an inclusive numeric range.
	KindRange
	// KindText is free text. Text values cannot take part in arithmetic.
	KindText
)

type (
	// ValueKind discriminates the shapes a Value can take.
	ValueKind int

	// Value is a single measured amount: a number, an inclusive range or free text.
	// The zero value is the number 0. A range's start is assumed to be <= its end.
	Value struct {
		kind  ValueKind
		start float64 // the number, or the range start
		end   float64
		text  string
	}

	// ScalableValue is an amount that depends on the number of servings.
	// It is either a single value scaled linearly, or one explicit value per
	// serving tier. The zero value is Linear(Number(0)).
	ScalableValue struct {
		linear   Value
		servings []Value // non-nil for ByServings, never empty
	}

	// QuantityValue is either a Fixed value or a Scalable one. Only fixed values
	// take part in arithmetic.
	QuantityValue struct {
		fixed      Value
		scalable   ScalableValue
		isScalable bool
	}

	// ScaleTarget selects how scalable values are resolved to fixed ones.
	// Linear values are multiplied by Factor; servings-tiered values pick the
	// tier at Index.
	ScaleTarget struct {
		Factor float64
		Index  int
	}

	// ASTQuantity is the parser's quantity node. A node is either a list of
	// per-serving values or a single value with an optional auto-scale marker.
	ASTQuantity interface {
		// Many returns the per-serving values when the node is a list.
		Many() ([]Value, bool)
		// Single returns the value of a single-value node and whether it
		// carries the auto-scale marker.
		Single() (value Value, autoScale bool)
	}
)

// Number creates a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, start: n}
}

// Range creates an inclusive range value.
func Range(start, end float64) Value {
	return Value{kind: KindRange, start: start, end: end}
}

// Text creates a free text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind returns the shape of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsText reports whether the value is free text.
func (v Value) IsText() bool { return v.kind == KindText }

// AsNumber returns the number when the value is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.start, v.kind == KindNumber
}

// AsRange returns the range bounds when the value is a range.
func (v Value) AsRange() (start, end float64, ok bool) {
	return v.start, v.end, v.kind == KindRange
}

// AsText returns the text when the value is free text.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// TryAdd adds two values. Numbers add, a number shifts both ends of a range,
// and ranges add component-wise. Text on either side fails with a
// *TextValueError carrying the text operand (the left one if both are text).
func (v Value) TryAdd(rhs Value) (Value, error) {
	switch {
	case v.kind == KindText:
		return Value{}, &TextValueError{Value: v}
	case rhs.kind == KindText:
		return Value{}, &TextValueError{Value: rhs}
	case v.kind == KindNumber && rhs.kind == KindNumber:
		return Number(v.start + rhs.start), nil
	case v.kind == KindNumber && rhs.kind == KindRange:
		return Range(rhs.start+v.start, rhs.end+v.start), nil
	case v.kind == KindRange && rhs.kind == KindNumber:
		return Range(v.start+rhs.start, v.end+rhs.start), nil
	default:
		return Range(v.start+rhs.start, v.end+rhs.end), nil
	}
}

// Map applies f to every number in the value. Text is returned unchanged.
func (v Value) Map(f func(float64) float64) Value {
	switch v.kind {
	case KindNumber:
		return Number(f(v.start))
	case KindRange:
		return Range(f(v.start), f(v.end))
	default:
		return v
	}
}

// String renders the value. Numbers are rounded to 3 decimals for display
// only; ranges render as start-end.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatFloat(v.start)
	case KindRange:
		return formatFloat(v.start) + "-" + formatFloat(v.end)
	default:
		return v.text
	}
}

func formatFloat(n float64) string {
	r := math.Round(n*1000) / 1000
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Linear creates a scalable value that is scaled proportionally to servings.
func Linear(v Value) ScalableValue {
	return ScalableValue{linear: v}
}

// ByServings creates a scalable value with one explicit value per serving tier.
func ByServings(first Value, rest ...Value) ScalableValue {
	servings := make([]Value, 0, 1+len(rest))
	servings = append(servings, first)
	servings = append(servings, rest...)
	return ScalableValue{servings: servings}
}

// IsLinear reports whether the value is scaled linearly.
func (s ScalableValue) IsLinear() bool { return s.servings == nil }

// LinearValue returns the value of a linear scalable value.
func (s ScalableValue) LinearValue() (Value, bool) {
	return s.linear, s.servings == nil
}

// Servings returns a copy of the per-serving values of a ByServings value.
func (s ScalableValue) Servings() ([]Value, bool) {
	if s.servings == nil {
		return nil, false
	}
	out := make([]Value, len(s.servings))
	copy(out, s.servings)
	return out, true
}

// String renders linear values as their value and servings tiers separated by '|'.
func (s ScalableValue) String() string {
	if s.servings == nil {
		return s.linear.String()
	}
	parts := make([]string, len(s.servings))
	for i, v := range s.servings {
		parts[i] = v.String()
	}
	return strings.Join(parts, "|")
}

func (s ScalableValue) containsText() bool {
	if s.servings == nil {
		return s.linear.IsText()
	}
	for _, v := range s.servings {
		if v.IsText() {
			return true
		}
	}
	return false
}

// Fixed creates an unscaled quantity value.
func Fixed(v Value) QuantityValue {
	return QuantityValue{fixed: v}
}

// Scalable creates a quantity value that depends on servings.
func Scalable(s ScalableValue) QuantityValue {
	return QuantityValue{scalable: s, isScalable: true}
}

// FromAST converts the parser's quantity node. A list becomes
// Scalable(ByServings), a single value with the auto-scale marker becomes
// Scalable(Linear), and any other single value becomes Fixed.
func FromAST(node ASTQuantity) QuantityValue {
	if values, ok := node.Many(); ok && len(values) > 0 {
		return Scalable(ByServings(values[0], values[1:]...))
	}
	value, autoScale := node.Single()
	if autoScale {
		return Scalable(Linear(value))
	}
	return Fixed(value)
}

// IsFixed reports whether the value is fixed.
func (q QuantityValue) IsFixed() bool { return !q.isScalable }

// ScalableValue returns the scalable value when q is scalable.
func (q QuantityValue) ScalableValue() (ScalableValue, bool) {
	return q.scalable, q.isScalable
}

// ContainsTextValue reports whether any reachable value is text.
func (q QuantityValue) ContainsTextValue() bool {
	if q.isScalable {
		return q.scalable.containsText()
	}
	return q.fixed.IsText()
}

// ExtractValue returns the single concrete value of a fixed quantity value.
// Scalable values fail with a *NotScaledError.
func (q QuantityValue) ExtractValue() (Value, error) {
	if q.isScalable {
		return Value{}, &NotScaledError{Value: q.scalable}
	}
	return q.fixed, nil
}

// TryAdd adds two fixed quantity values. The result is always fixed.
func (q QuantityValue) TryAdd(rhs QuantityValue) (QuantityValue, error) {
	a, err := q.ExtractValue()
	if err != nil {
		return QuantityValue{}, err
	}
	b, err := rhs.ExtractValue()
	if err != nil {
		return QuantityValue{}, err
	}
	sum, err := a.TryAdd(b)
	if err != nil {
		return QuantityValue{}, err
	}
	return Fixed(sum), nil
}

// MapValues applies f to every value while keeping the shape of q.
// The first error returned by f is returned unchanged.
func (q QuantityValue) MapValues(f func(Value) (Value, error)) (QuantityValue, error) {
	if !q.isScalable {
		v, err := f(q.fixed)
		if err != nil {
			return QuantityValue{}, err
		}
		return Fixed(v), nil
	}
	if q.scalable.servings == nil {
		v, err := f(q.scalable.linear)
		if err != nil {
			return QuantityValue{}, err
		}
		return Scalable(Linear(v)), nil
	}
	mapped := make([]Value, len(q.scalable.servings))
	for i, v := range q.scalable.servings {
		m, err := f(v)
		if err != nil {
			return QuantityValue{}, err
		}
		mapped[i] = m
	}
	return Scalable(ScalableValue{servings: mapped}), nil
}

// Scale resolves q into a fixed value. Fixed values are returned unchanged,
// linear values are multiplied by t.Factor (text stays as it is) and
// servings-tiered values pick tier t.Index.
func (q QuantityValue) Scale(t ScaleTarget) (QuantityValue, error) {
	if !q.isScalable {
		return q, nil
	}
	if q.scalable.servings == nil {
		return Fixed(q.scalable.linear.Map(func(n float64) float64 { return n * t.Factor })), nil
	}
	if t.Index < 0 || t.Index >= len(q.scalable.servings) {
		return QuantityValue{}, &ServingsOutOfRangeError{Index: t.Index, Len: len(q.scalable.servings)}
	}
	return Fixed(q.scalable.servings[t.Index]), nil
}

// String renders the fixed value or the scalable value.
func (q QuantityValue) String() string {
	if q.isScalable {
		return q.scalable.String()
	}
	return q.fixed.String()
}
