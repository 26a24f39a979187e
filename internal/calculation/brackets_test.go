package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func band(lower int64, upper *decimal.Decimal, rate string) domain.Bracket {
	return domain.Bracket{Lower: decimal.NewFromInt(lower), Upper: upper, Rate: decimal.RequireFromString(rate)}
}

// immobilier is the property-act honoraria schedule
func immobilier() []domain.Bracket {
	return []domain.Bracket{
		band(0, dec(20000000), "4.5"),
		band(20000000, dec(80000000), "3"),
		band(80000000, dec(300000000), "1.5"),
		band(300000000, nil, "0.75"),
	}
}

func TestEvaluateBrackets_WorkedExample(t *testing.T) {
	fee := EvaluateBrackets(decimal.NewFromInt(25000000), immobilier())
	assert.True(t, decimal.NewFromInt(1050000).Equal(fee), "got %s", fee)
}

func TestEvaluateBrackets_Boundaries(t *testing.T) {
	tests := []struct {
		value int64
		want  string
	}{
		{0, "0"},
		{-5, "0"},
		{1, "0.045"},
		{20000000, "900000"},
		{20000001, "900000.03"},
		{80000000, "2700000"},
		{300000000, "6000000"},
		{400000000, "6750000"},
	}

	for _, tt := range tests {
		got := EvaluateBrackets(decimal.NewFromInt(tt.value), immobilier())
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "value %d: want %s, got %s", tt.value, tt.want, got)
	}
}

func TestEvaluateBrackets_MonotonicAndNonNegative(t *testing.T) {
	prev := decimal.Zero
	for v := int64(0); v <= 500000000; v += 3333333 {
		fee := EvaluateBrackets(decimal.NewFromInt(v), immobilier())
		assert.False(t, fee.IsNegative(), "fee at %d", v)
		assert.True(t, fee.GreaterThanOrEqual(prev), "fee decreased at %d", v)
		prev = fee
	}
}

func TestEvaluateBrackets_SortsACopy(t *testing.T) {
	shuffled := immobilier()
	shuffled[0], shuffled[3] = shuffled[3], shuffled[0]
	first := shuffled[0]

	fee := EvaluateBrackets(decimal.NewFromInt(25000000), shuffled)

	assert.True(t, decimal.NewFromInt(1050000).Equal(fee))
	assert.Equal(t, first, shuffled[0], "caller slice must not be reordered")
}

func TestEvaluateBrackets_FlatBand(t *testing.T) {
	brackets := []domain.Bracket{
		{Lower: decimal.Zero, Upper: dec(1000), Rate: decimal.NewFromInt(50), IsFlatAmount: true},
		{Lower: decimal.NewFromInt(1000), Rate: decimal.NewFromInt(10)},
	}

	assert.True(t, decimal.NewFromInt(50).Equal(EvaluateBrackets(decimal.NewFromInt(1), brackets)), "flat amount charged once")
	assert.True(t, decimal.NewFromInt(50).Equal(EvaluateBrackets(decimal.NewFromInt(1000), brackets)))
	assert.True(t, decimal.NewFromInt(150).Equal(EvaluateBrackets(decimal.NewFromInt(2000), brackets)))
}

func TestEvaluateBrackets_Empty(t *testing.T) {
	assert.True(t, EvaluateBrackets(decimal.NewFromInt(100), nil).IsZero())
}

func TestValidateSchedule(t *testing.T) {
	require.NoError(t, ValidateSchedule("immobilier", immobilier()))

	tests := []struct {
		name     string
		brackets []domain.Bracket
	}{
		{"empty", nil},
		{"not from zero", []domain.Bracket{band(10, nil, "1")}},
		{"negative rate", []domain.Bracket{band(0, nil, "-1")}},
		{"unbounded before last", []domain.Bracket{band(0, nil, "1"), band(100, nil, "1")}},
		{"inverted band", []domain.Bracket{band(0, dec(0), "1")}},
		{"overlap", []domain.Bracket{band(0, dec(100), "1"), band(50, nil, "1")}},
		{"gap", []domain.Bracket{band(0, dec(100), "1"), band(150, nil, "1")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule("s", tt.brackets)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedBracketSchedule))
			assert.True(t, domain.IsDefinitionError(err))
		})
	}
}

func TestMarginalRate(t *testing.T) {
	assert.Equal(t, "4.5", MarginalRate(decimal.NewFromInt(20000000), immobilier()).String())
	assert.Equal(t, "3", MarginalRate(decimal.NewFromInt(20000001), immobilier()).String())
	assert.Equal(t, "0.75", MarginalRate(decimal.NewFromInt(900000000), immobilier()).String())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "2700", Percent(decimal.NewFromInt(15000), decimal.NewFromInt(18)).String())
}
