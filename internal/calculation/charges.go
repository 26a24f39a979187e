package calculation

import (
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// EvaluateStepDuty returns the flat amount of the first step whose threshold
// covers value (inclusive), or the Above amount past the last step. This is a
// step function: crossing a threshold jumps, nothing is blended.
func EvaluateStepDuty(duty domain.StepDuty, value decimal.Decimal) decimal.Decimal {
	for _, s := range duty.Steps {
		if value.LessThanOrEqual(s.UpTo) {
			return s.Amount
		}
	}
	return duty.Above
}

// EvaluateLandRegistryFee applies a conservation foncière formula.
// OffsetBeforeRate charges rate% × (value + offset); OffsetAfterRate charges
// rate% × value + offset. Each act keeps its own mode.
func EvaluateLandRegistryFee(fee domain.LandRegistryFee, value decimal.Decimal) decimal.Decimal {
	if fee.Mode == domain.OffsetBeforeRate {
		return Percent(value.Add(fee.Offset), fee.Rate)
	}
	return Percent(value, fee.Rate).Add(fee.Offset)
}

// EvaluateUnitCharge prices count units at Amount per Per units, unrounded
func EvaluateUnitCharge(cost domain.UnitCost, count int64) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	per := cost.Per
	if per <= 0 {
		per = 1
	}
	return cost.Amount.Mul(decimal.NewFromInt(count)).Div(decimal.NewFromInt(per))
}

// MonthsBetween counts calendar months from one date to another:
// (y2-y1)*12 - m1 + m2, floored at zero. Days are ignored.
func MonthsBetween(from, to domain.Date) int {
	months := (to.Year()-from.Year())*12 - int(from.Month()) + int(to.Month())
	if months < 0 {
		return 0
	}
	return months
}

// EvaluateLatePenalty returns the penalty amount for a delay of months.
// It is due only when months is strictly greater than the grace period.
func EvaluateLatePenalty(penalty domain.LatePenalty, months int) decimal.Decimal {
	if months > penalty.GraceMonths {
		return penalty.Amount
	}
	return decimal.Zero
}
