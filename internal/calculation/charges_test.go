package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateStepDuty(t *testing.T) {
	duty := domain.StepDuty{
		ID: "droits_mutation",
		Steps: []domain.Step{
			{UpTo: decimal.NewFromInt(1500000), Amount: decimal.Zero},
			{UpTo: decimal.NewFromInt(2500000), Amount: decimal.Zero},
		},
		Above: decimal.NewFromInt(20000),
	}

	tests := []struct {
		value int64
		want  int64
	}{
		{0, 0},
		{1500000, 0},
		{1500001, 0},
		{2500000, 0},
		{2500001, 20000},
		{900000000, 20000},
	}
	for _, tt := range tests {
		got := EvaluateStepDuty(duty, decimal.NewFromInt(tt.value))
		assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "value %d: got %s", tt.value, got)
	}
}

func TestEvaluateLandRegistryFee(t *testing.T) {
	value := decimal.NewFromInt(30000000)

	before := domain.LandRegistryFee{Rate: decimal.NewFromInt(1), Offset: decimal.NewFromInt(14000), Mode: domain.OffsetBeforeRate}
	assert.Equal(t, "300140", EvaluateLandRegistryFee(before, value).String())

	after := domain.LandRegistryFee{Rate: decimal.NewFromInt(1), Offset: decimal.NewFromInt(6500), Mode: domain.OffsetAfterRate}
	assert.Equal(t, "306500", EvaluateLandRegistryFee(after, value).String())
}

func TestEvaluateUnitCharge(t *testing.T) {
	annex := domain.UnitCost{ID: "annexe", Amount: decimal.NewFromInt(8000), Per: 12}
	assert.Equal(t, "8000", EvaluateUnitCharge(annex, 12).String())
	assert.Equal(t, "3333.33", EvaluateUnitCharge(annex, 5).Round(2).String(), "unrounded until the builder rounds it")
	assert.True(t, EvaluateUnitCharge(annex, 0).IsZero())
	assert.True(t, EvaluateUnitCharge(annex, -3).IsZero())

	parcel := domain.UnitCost{ID: "parcelle", Amount: decimal.NewFromInt(20000)}
	assert.Equal(t, "100000", EvaluateUnitCharge(parcel, 5).String(), "Per defaults to 1")
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to domain.Date
		want     int
	}{
		{"same month", domain.NewDate(2024, time.January, 1), domain.NewDate(2024, time.January, 31), 0},
		{"days are ignored", domain.NewDate(2024, time.January, 31), domain.NewDate(2024, time.February, 1), 1},
		{"year boundary", domain.NewDate(2023, time.November, 15), domain.NewDate(2024, time.February, 1), 3},
		{"depot example", domain.NewDate(2008, time.January, 1), domain.NewDate(2008, time.December, 31), 11},
		{"backwards floors at zero", domain.NewDate(2024, time.May, 1), domain.NewDate(2024, time.January, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsBetween(tt.from, tt.to))
		})
	}
}

func TestEvaluateLatePenalty(t *testing.T) {
	penalty := domain.LatePenalty{GraceMonths: 1, Amount: decimal.NewFromInt(5000)}

	assert.True(t, EvaluateLatePenalty(penalty, 0).IsZero())
	assert.True(t, EvaluateLatePenalty(penalty, 1).IsZero(), "grace month is not penalized")
	assert.Equal(t, "5000", EvaluateLatePenalty(penalty, 2).String())
	assert.Equal(t, "5000", EvaluateLatePenalty(penalty, 24).String(), "flat, not per month")
}
