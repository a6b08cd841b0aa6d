// Package money holds the fixed-point helpers shared by every priced field.
//
// All amounts carry exactly two fractional digits and are rounded half-up at
// every arithmetic step, never only at output.
package money

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

var hundred = decimal.NewFromInt(100)

// Round2 rounds d half-up to two fractional digits.
//
// decimal.Round rounds half away from zero, which equals half-up for the
// non-negative amounts used here.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Percent converts a percentage such as 4.45 into a rounded fraction (0.04).
func Percent(rate decimal.Decimal) decimal.Decimal {
	return Round2(rate.Div(hundred))
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Parse reads a decimal amount and normalizes it to two fractional digits.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse amount %q", s)
	}
	return Round2(d), nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}
