package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRulebookLoader(t *testing.T) {
	loader := NewRulebookLoader()
	assert.NotNil(t, loader, "Should create rulebook loader")
}

func TestRulebookLoader_LoadDefault(t *testing.T) {
	rb, err := NewRulebookLoader().LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "XOF", rb.Currency)
	assert.Equal(t, int32(0), rb.RoundingPlaces)
	assert.Len(t, rb.Acts, len(domain.AllActTypes), "Every act type should have a tariff")

	tva, ok := calculation.NewTaxCatalog(rb.Taxes)["tva"]
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(18).Equal(tva.Rate))
	assert.Equal(t, "4431", tva.AccountTag)

	immo, ok := rb.Schedule("honoraires_immobilier")
	require.True(t, ok)
	require.Len(t, immo.Brackets, 4)
	assert.Nil(t, immo.Brackets[3].Upper, "Last band should be unbounded")

	annex, ok := rb.UnitCost("annexe")
	require.True(t, ok)
	assert.Equal(t, int64(12), annex.Per)
}

func TestRulebookLoader_ResolvesTemplateScheduleRefs(t *testing.T) {
	rb, err := NewRulebookLoader().LoadDefault()
	require.NoError(t, err)

	tmpl, ok := rb.Template("vente_standard")
	require.True(t, ok)
	rule := tmpl.Sections[0].Rules[0]
	assert.Equal(t, domain.RuleBracketSchedule, rule.Kind)
	assert.Len(t, rule.Schedule, 4, "schedule_ref should be copied into the rule")
	assert.Equal(t, []string{"frais_geometre"}, tmpl.InputKeys())
}

func TestRulebookLoader_LoadFromFile_FileNotFound(t *testing.T) {
	rb, err := NewRulebookLoader().LoadFromFile("nonexistent.yaml")

	assert.Error(t, err)
	assert.Nil(t, rb)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestRulebookLoader_LoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644))

	rb, err := NewRulebookLoader().LoadFromFile(invalidFile)

	assert.Error(t, err)
	assert.Nil(t, rb)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestRulebookLoader_LoadFromFile_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "rules.toml")
	content := `
currency = "XOF"
rounding_places = 0

[metadata]
version = "test"

[[taxes]]
id = "tva"
label = "TVA"
rate = 18
kind = "percentage"

[[schedules]]
id = "simple"
label = "Simple"

[[schedules.brackets]]
lower = 0
upper = 1000
rate = 10

[[schedules.brackets]]
lower = 1000
rate = 5
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	rb, err := NewRulebookLoader().LoadFromFile(file)
	require.NoError(t, err)

	assert.Equal(t, "test", rb.Metadata.Version)
	s, ok := rb.Schedule("simple")
	require.True(t, ok)
	require.Len(t, s.Brackets, 2)
	assert.True(t, decimal.NewFromInt(1000).Equal(*s.Brackets[0].Upper))
	assert.True(t, decimal.NewFromInt(5).Equal(s.Brackets[1].Rate))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatTOML, FormatFromPath("rules.TOML"))
	assert.Equal(t, FormatYAML, FormatFromPath("rules.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("rules"))
}

func TestRulebookLoader_ValidateRulebook(t *testing.T) {
	base := func() string {
		return `
currency: XOF
taxes:
  - { id: tva, label: TVA, rate: 18, kind: percentage }
schedules:
  - id: s
    label: S
    brackets:
      - { lower: 0, upper: 100, rate: 10 }
      - { lower: 100, rate: 5 }
`
	}

	tests := []struct {
		name    string
		extra   string
		wantErr error
		wantMsg string
	}{
		{
			name: "gap in schedule",
			extra: `
  - id: gap
    label: Gap
    brackets:
      - { lower: 0, upper: 100, rate: 10 }
      - { lower: 200, rate: 5 }
`,
			wantErr: domain.ErrMalformedBracketSchedule,
		},
		{
			name: "unknown tax on act",
			extra: `
acts:
  vente:
    label: Vente
    honoraires: { schedule: s }
    taxes: [vat]
`,
			wantErr: domain.ErrUnknownTaxID,
		},
		{
			name: "unknown act key",
			extra: `
acts:
  hypotheque:
    label: X
    honoraires: { flat: 1 }
`,
			wantErr: domain.ErrUnknownRuleReference,
		},
		{
			name: "template references missing schedule",
			extra: `
templates:
  - id: t
    label: T
    sections:
      - id: a
        label: A
        rules:
          - { id: h, label: H, kind: bracket_schedule, schedule_ref: missing }
`,
			wantErr: domain.ErrUnknownRuleReference,
		},
		{
			name: "template rule with schedule_ref and inline schedule",
			extra: `
templates:
  - id: t
    label: T
    sections:
      - id: a
        label: A
        rules:
          - id: h
            label: H
            kind: bracket_schedule
            schedule_ref: s
            schedule:
              - { lower: 0, rate: 1 }
`,
			wantErr: domain.ErrUnknownRuleReference,
			wantMsg: "inline schedule",
		},
		{
			name: "template links unknown tax",
			extra: `
templates:
  - id: t
    label: T
    sections:
      - id: a
        label: A
        rules:
          - { id: f, label: F, kind: flat, value: 10, taxes: [vat] }
`,
			wantErr: domain.ErrUnknownTaxID,
		},
		{
			name: "step thresholds out of order",
			extra: `
step_duties:
  - id: d
    steps:
      - { up_to: 200, amount: 0 }
      - { up_to: 100, amount: 0 }
    above: 10
`,
			wantMsg: "must be above",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRulebookLoader().Parse([]byte(base()+tt.extra), FormatYAML)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRulebookLoader_MissingCurrency(t *testing.T) {
	_, err := NewRulebookLoader().Parse([]byte("rounding_places: 0\n"), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency is required")
}
