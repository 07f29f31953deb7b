// SPDX-License-Identifier: MPL-2.0

package cooklang

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chefkit/chef/pkg/cooklang/ast"
	"github.com/chefkit/chef/pkg/quantity"
)

// parseAmount parses a component body such as "1/2%cup", "2|4*" or
// "a pinch". An empty body has no quantity.
func parseAmount(body string) (*ast.Quantity, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}

	valueText, unit, hasUnit := strings.Cut(body, "%")
	valueText = strings.TrimSpace(valueText)
	unit = strings.TrimSpace(unit)
	if valueText == "" {
		if hasUnit {
			return nil, fmt.Errorf("unit %q without a quantity", unit)
		}
		return nil, nil
	}

	autoScale := false
	if strings.HasSuffix(valueText, "*") {
		autoScale = true
		valueText = strings.TrimSpace(strings.TrimSuffix(valueText, "*"))
		if valueText == "" {
			return nil, errors.New("auto-scale marker without a quantity")
		}
	}

	tiers := strings.Split(valueText, "|")
	if len(tiers) > 1 && autoScale {
		return nil, errors.New("auto-scale marker on a servings list")
	}

	values := make([]quantity.Value, 0, len(tiers))
	for _, tier := range tiers {
		tier = strings.TrimSpace(tier)
		if tier == "" {
			return nil, fmt.Errorf("empty servings tier in %q", valueText)
		}
		values = append(values, parseValue(tier))
	}

	return &ast.Quantity{
		Value: ast.QuantityValue{Values: values, AutoScale: autoScale},
		Unit:  unit,
	}, nil
}

// parseValue reads a number, a range or falls back to text.
func parseValue(s string) quantity.Value {
	if n, ok := parseNumber(s); ok {
		return quantity.Number(n)
	}
	if i := strings.IndexByte(s[1:], '-'); i >= 0 {
		start, okStart := parseNumber(s[:i+1])
		end, okEnd := parseNumber(s[i+2:])
		if okStart && okEnd {
			return quantity.Range(start, end)
		}
	}
	return quantity.Text(s)
}

// parseNumber accepts decimals, fractions and mixed numbers ("1 1/2").
func parseNumber(s string) (float64, bool) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return parseSimpleNumber(fields[0])
	case 2:
		if strings.Contains(fields[0], "/") || !strings.Contains(fields[1], "/") {
			return 0, false
		}
		whole, ok := parseSimpleNumber(fields[0])
		if !ok {
			return 0, false
		}
		frac, ok := parseSimpleNumber(fields[1])
		if !ok {
			return 0, false
		}
		return whole + frac, true
	default:
		return 0, false
	}
}

func parseSimpleNumber(s string) (float64, bool) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		a, okA := parseDecimal(num)
		b, okB := parseDecimal(den)
		if !okA || !okB || b == 0 {
			return 0, false
		}
		return a / b, true
	}
	return parseDecimal(s)
}

// parseDecimal only accepts plain decimal notation; strconv alone would
// also take "inf", "nan" and hex floats.
func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			return 0, false
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
