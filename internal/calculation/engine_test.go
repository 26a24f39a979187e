package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func testTaxes() []domain.TaxDefinition {
	return []domain.TaxDefinition{
		{ID: "tva", Code: "TVA", Label: "TVA", Rate: decimal.NewFromInt(18), Kind: domain.TaxPercentage},
		{ID: "timbre", Code: "TMB", Label: "Timbre", Rate: decimal.NewFromInt(2000), Kind: domain.TaxFlat},
	}
}

func testTemplate() *domain.TariffTemplate {
	return &domain.TariffTemplate{
		ID:    "vente",
		Label: "Vente",
		Sections: []domain.TariffSection{
			{
				ID:    "emoluments",
				Label: "Émoluments",
				Rules: []domain.TariffRule{
					{ID: "honoraires", Label: "Honoraires", Kind: domain.RuleBracketSchedule, Schedule: immobilier(), LinkedTaxIDs: []string{"tva"}},
					{ID: "expeditions", Label: "Expéditions", Kind: domain.RuleFlat, Value: dec(15000), LinkedTaxIDs: []string{"tva", "timbre"}},
				},
			},
			{
				ID:    "debours",
				Label: "Débours",
				Rules: []domain.TariffRule{
					{ID: "enregistrement", Label: "Enregistrement", Kind: domain.RulePercentage, Value: dec(10), IsPassthrough: true},
					{ID: "geometre", Label: "Géomètre", Kind: domain.RuleCallerSupplied, InputKey: "geometre", IsPassthrough: true},
				},
			},
		},
	}
}

func TestNewSimulationEngine(t *testing.T) {
	engine := NewSimulationEngine(testTaxes())

	assert.NotNil(t, engine, "Should create engine")
	assert.Len(t, engine.Taxes, 2, "Should index taxes")
	assert.NotNil(t, engine.Logger, "Should initialize logger")
}

func TestSimulationEngine_SetLogger(t *testing.T) {
	engine := NewSimulationEngine(nil)

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestSimulationEngine_Run(t *testing.T) {
	engine := NewSimulationEngine(testTaxes())

	result, err := engine.Run(testTemplate(), decimal.NewFromInt(25000000))
	require.NoError(t, err)

	require.Len(t, result.Sections, 2)
	emol := result.Sections[0]
	require.Len(t, emol.Items, 2)

	// honoraires 1,050,000 + 18% VAT
	assert.True(t, decimal.NewFromInt(1050000).Equal(emol.Items[0].BaseAmount))
	assert.True(t, decimal.NewFromInt(1239000).Equal(emol.Items[0].TotalWithTax))

	// expeditions 15,000 + VAT 2,700 + flat stamp 2,000, taxes in linked order
	exp := emol.Items[1]
	require.Len(t, exp.Taxes, 2)
	assert.Equal(t, "tva", exp.Taxes[0].TaxID)
	assert.Equal(t, "timbre", exp.Taxes[1].TaxID)
	assert.True(t, decimal.NewFromInt(19700).Equal(exp.TotalWithTax))

	// section totals are pre-tax
	assert.True(t, decimal.NewFromInt(1065000).Equal(emol.SectionTotal))

	debours := result.Sections[1]
	assert.True(t, decimal.NewFromInt(2500000).Equal(debours.Items[0].BaseAmount))
	assert.True(t, debours.Items[0].IsPassthrough)
	assert.True(t, debours.Items[1].BaseAmount.IsZero(), "caller-supplied contributes zero on Run")

	assert.True(t, decimal.NewFromInt(3565000).Equal(result.Total))
	assert.True(t, decimal.NewFromInt(3758700).Equal(result.GrandTotal))
}

func TestSimulationEngine_GrandTotalIsExactSum(t *testing.T) {
	engine := NewSimulationEngine(testTaxes())

	for _, v := range []int64{0, 1, 999, 1234567, 20000000, 80000001, 987654321} {
		result, err := engine.Run(testTemplate(), decimal.NewFromInt(v))
		require.NoError(t, err)

		sum := decimal.Zero
		base := decimal.Zero
		for _, s := range result.Sections {
			sectionSum := decimal.Zero
			for _, it := range s.Items {
				sum = sum.Add(it.TotalWithTax)
				sectionSum = sectionSum.Add(it.BaseAmount)
			}
			assert.True(t, sectionSum.Equal(s.SectionTotal))
			base = base.Add(sectionSum)
		}
		assert.True(t, sum.Equal(result.GrandTotal), "grand total for %d", v)
		assert.True(t, base.Equal(result.Total), "total for %d", v)
	}
}

func TestSimulationEngine_RunWithInputs(t *testing.T) {
	engine := NewSimulationEngine(testTaxes())
	tmpl := testTemplate()

	result, err := engine.RunWithInputs(tmpl, decimal.NewFromInt(25000000), map[string]decimal.Decimal{"geometre": decimal.NewFromInt(150000)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150000).Equal(result.Sections[1].Items[1].BaseAmount))
	assert.True(t, decimal.NewFromInt(3908700).Equal(result.GrandTotal))

	_, err = engine.RunWithInputs(tmpl, decimal.NewFromInt(25000000), nil)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	_, err = engine.RunWithInputs(tmpl, decimal.NewFromInt(25000000), map[string]decimal.Decimal{"geometre": decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidNumericInput)
}

func TestSimulationEngine_RunWithInputs_UnknownKey(t *testing.T) {
	engine := NewSimulationEngine(testTaxes())

	result, err := engine.RunWithInputs(testTemplate(), decimal.NewFromInt(25000000), map[string]decimal.Decimal{
		"geometre": decimal.NewFromInt(150000),
		"geometr":  decimal.NewFromInt(150000),
	})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidNumericInput)
	ce, ok := domain.AsCalcError(err)
	require.True(t, ok)
	assert.Equal(t, "geometr", ce.Field)
	assert.Contains(t, ce.Message, "geometre")
}

func TestSimulationEngine_Errors(t *testing.T) {
	engine := NewSimulationEngine(testTaxes())

	_, err := engine.Run(nil, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrUnknownTemplate)

	_, err = engine.Run(testTemplate(), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidNumericInput)

	tmpl := testTemplate()
	tmpl.Sections[0].Rules[1].LinkedTaxIDs = []string{"vat"}
	result, err := engine.Run(tmpl, decimal.NewFromInt(1000))
	assert.Nil(t, result, "no partial result")
	assert.ErrorIs(t, err, domain.ErrUnknownTaxID)
	assert.Contains(t, err.Error(), "rule expeditions")
}

func TestSimulationEngine_DebugLogging(t *testing.T) {
	engine := NewSimulationEngine(testTaxes())
	logger := &TestLogger{}
	engine.SetLogger(logger)
	engine.Debug = true

	_, err := engine.Run(testTemplate(), decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Len(t, logger.messages, 5, "one header plus one line per rule")
}

func TestValidateTemplate(t *testing.T) {
	catalog := NewTaxCatalog(testTaxes())
	require.NoError(t, ValidateTemplate(testTemplate(), catalog))

	tests := []struct {
		name    string
		mutate  func(tmpl *domain.TariffTemplate)
		wantErr error
	}{
		{"duplicate rule id", func(tmpl *domain.TariffTemplate) { tmpl.Sections[1].Rules[0].ID = "honoraires" }, domain.ErrUnknownRuleReference},
		{"flat without value", func(tmpl *domain.TariffTemplate) { tmpl.Sections[0].Rules[1].Value = nil }, domain.ErrUnknownRuleReference},
		{"negative percentage", func(tmpl *domain.TariffTemplate) { tmpl.Sections[1].Rules[0].Value = dec(-1) }, domain.ErrUnknownRuleReference},
		{"caller supplied without key", func(tmpl *domain.TariffTemplate) { tmpl.Sections[1].Rules[1].InputKey = "" }, domain.ErrUnknownRuleReference},
		{"unknown kind", func(tmpl *domain.TariffTemplate) { tmpl.Sections[1].Rules[0].Kind = "tiered" }, domain.ErrUnknownRuleReference},
		{"empty schedule", func(tmpl *domain.TariffTemplate) { tmpl.Sections[0].Rules[0].Schedule = nil }, domain.ErrMalformedBracketSchedule},
		{"unknown tax", func(tmpl *domain.TariffTemplate) { tmpl.Sections[1].Rules[0].LinkedTaxIDs = []string{"vat"} }, domain.ErrUnknownTaxID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := testTemplate()
			tt.mutate(tmpl)
			err := ValidateTemplate(tmpl, catalog)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
		})
	}
}

// TestLogger is a simple logger for testing
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
