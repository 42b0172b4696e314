// Package money holds the precision rules shared by prices, percentages and
// amounts. Every stored money column has two decimal places.
package money

import (
	"github.com/shopspring/decimal"

	"salon/internal/domain/errs"
)

const Scale = 2

// FitsScale reports whether d has no significant digits past Scale.
// Trailing zeros do not count: 10.500 fits, 10.005 does not.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(Scale))
}

// CheckScale returns a validation error naming field when d does not fit
// Scale, and d normalized to Scale otherwise.
func CheckScale(field string, d decimal.Decimal) (decimal.Decimal, error) {
	if !FitsScale(d) {
		return decimal.Zero, errs.Invalid(field, "must have at most 2 decimal places")
	}
	return d.Round(Scale), nil
}
