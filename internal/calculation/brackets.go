package calculation

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent returns rate% of base
func Percent(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred)
}

// EvaluateBrackets computes the cumulative fee of value over a progressive schedule.
//
// Each band whose lower bound is strictly below value contributes the slice
// min(value, upper) - lower at its marginal rate, or its flat amount once when
// the band is flagged flat. A value equal to a band's lower bound does not
// reach that band. Brackets are sorted by lower bound on a copy; the caller's
// slice is left untouched.
func EvaluateBrackets(value decimal.Decimal, brackets []domain.Bracket) decimal.Decimal {
	if value.LessThanOrEqual(decimal.Zero) || len(brackets) == 0 {
		return decimal.Zero
	}

	sorted := make([]domain.Bracket, len(brackets))
	copy(sorted, brackets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Lower.LessThan(sorted[j].Lower)
	})

	total := decimal.Zero
	for _, b := range sorted {
		if !b.Lower.LessThan(value) {
			break
		}
		if b.IsFlatAmount {
			total = total.Add(b.Rate)
			continue
		}
		top := value
		if !b.IsUnbounded() && b.Upper.LessThan(value) {
			top = *b.Upper
		}
		span := top.Sub(b.Lower)
		if span.GreaterThan(decimal.Zero) {
			total = total.Add(Percent(span, b.Rate))
		}
	}

	return total
}

// ValidateSchedule checks that brackets are contiguous from zero, do not
// overlap, carry non-negative rates, and that only the last band is unbounded.
// Brackets must be supplied in ascending order.
func ValidateSchedule(id string, brackets []domain.Bracket) error {
	malformed := func(format string, args ...any) error {
		return domain.NewCalcError(domain.KindMalformedBracketSchedule, id, fmt.Sprintf(format, args...), nil)
	}

	if len(brackets) == 0 {
		return malformed("schedule has no brackets")
	}
	if !brackets[0].Lower.IsZero() {
		return malformed("first bracket must start at 0, got %s", brackets[0].Lower)
	}

	for i, b := range brackets {
		if b.Rate.IsNegative() {
			return malformed("bracket %d has negative rate %s", i, b.Rate)
		}
		if b.IsUnbounded() {
			if i != len(brackets)-1 {
				return malformed("bracket %d is unbounded but is not the last bracket", i)
			}
			continue
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return malformed("bracket %d upper bound %s must be above lower bound %s", i, b.Upper, b.Lower)
		}
		if i+1 < len(brackets) {
			next := brackets[i+1].Lower
			if next.LessThan(*b.Upper) {
				return malformed("bracket %d overlaps bracket %d", i, i+1)
			}
			if next.GreaterThan(*b.Upper) {
				return malformed("gap between bracket %d (ends %s) and bracket %d (starts %s)", i, b.Upper, i+1, next)
			}
		}
	}

	return nil
}

// MarginalRate returns the rate of the band that contains value. A value on a
// boundary belongs to the lower band.
func MarginalRate(value decimal.Decimal, brackets []domain.Bracket) decimal.Decimal {
	for _, b := range brackets {
		if b.IsUnbounded() || value.LessThanOrEqual(*b.Upper) {
			return b.Rate
		}
	}
	return decimal.Zero
}
