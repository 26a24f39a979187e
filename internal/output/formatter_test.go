package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleBreakdownReport() *Report {
	b := calculation.NewBreakdownBuilder(domain.ActProcuration, "Procuration", 0)
	b.Add("honoraires", "Honoraires", "forfait", decimal.NewFromInt(15000))
	b.Add("tva", "TVA", "18%", decimal.NewFromInt(2700))
	b.AddPassthrough("enregistrement", "Enregistrement", "", decimal.NewFromInt(4000))
	return &Report{Currency: "XOF", Breakdown: b.Build()}
}

func sampleSimulationReport() *Report {
	return &Report{
		Currency: "XOF",
		Simulation: &domain.SimulationResult{
			TemplateID:     "vente_standard",
			Label:          "Vente standard",
			PrincipalValue: decimal.NewFromInt(1000000),
			Sections: []domain.SimulationSection{{
				ID:    "emoluments",
				Label: "Emoluments",
				Items: []domain.SimulationItem{{
					RuleID:       "honoraires",
					Label:        "Honoraires",
					BaseAmount:   decimal.NewFromInt(50000),
					Taxes:        []domain.TaxResult{{TaxID: "tva", Label: "TVA", Amount: decimal.NewFromInt(9000)}},
					TotalWithTax: decimal.NewFromInt(59000),
				}},
				SectionTotal: decimal.NewFromInt(50000),
			}},
			Total:      decimal.NewFromInt(50000),
			GrandTotal: decimal.NewFromInt(59000),
		},
	}
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console", "console"},
		{"table", "console"},
		{" JSON ", "json"},
		{"csv", "csv"},
		{"yml", "yaml"},
		{"html", "html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("pdf"))
	assert.Equal(t, []string{"console", "csv", "html", "json", "yaml"}, FormatNames())
}

func TestConsoleFormatter_Breakdown(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleBreakdownReport())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "PROCURATION (procuration)")
	assert.Contains(t, s, "Enregistrement *")
	assert.Contains(t, s, "21700 XOF")
	assert.Contains(t, s, "débours: 4000 XOF")
	assert.Less(t, strings.Index(s, "Honoraires"), strings.Index(s, "TOTAL"))
}

func TestConsoleFormatter_Simulation(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(sampleSimulationReport())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "VENTE STANDARD (vente_standard)")
	assert.Contains(t, s, "HT 50000 + TVA 9000")
	assert.Contains(t, s, "59000 XOF")
}

func TestFormatters_EmptyReport(t *testing.T) {
	for _, f := range []Formatter{ConsoleFormatter{}, CSVFormatter{}} {
		_, err := f.Format(&Report{})
		assert.Error(t, err, f.Name())
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{Pretty: false}.Format(sampleBreakdownReport())
	require.NoError(t, err)

	var decoded struct {
		Currency  string `json:"currency"`
		Breakdown struct {
			Act   string `json:"act"`
			Total string `json:"total"`
			Items []struct {
				Key string `json:"key"`
			} `json:"lineItems"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "XOF", decoded.Currency)
	assert.Equal(t, "procuration", decoded.Breakdown.Act)
	assert.Equal(t, "21700", decoded.Breakdown.Total)
	require.Len(t, decoded.Breakdown.Items, 4)
	assert.Equal(t, domain.TotalLineKey, decoded.Breakdown.Items[3].Key)

	pretty, err := JSONFormatter{Pretty: true}.Format(sampleBreakdownReport())
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  ")
}

func TestYAMLFormatter(t *testing.T) {
	out, err := YAMLFormatter{}.Format(sampleSimulationReport())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	sim, ok := decoded["simulation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "vente_standard", sim["template_id"])
	assert.Contains(t, string(out), "grand_total")
}

func TestCSVFormatter(t *testing.T) {
	out, err := CSVFormatter{}.Format(sampleBreakdownReport())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "Act", records[0][0])
	assert.Equal(t, []string{"procuration", "enregistrement", "Enregistrement", "", "4000", "true", "false"}, records[3])
	assert.Equal(t, "true", records[4][6])

	out, err = CSVFormatter{}.Format(sampleSimulationReport())
	require.NoError(t, err)
	records, err = csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "9000", records[1][5])
}

func TestWriteFormatted(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	name, err := WriteFormatted(JSONFormatter{}, sampleBreakdownReport(), "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "notarycalc_procuration_"))
	assert.True(t, strings.HasSuffix(name, ".json"))

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"procuration"`)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1050000 XOF", FormatCurrency(decimal.NewFromInt(1050000), "XOF", 0))
	assert.Equal(t, "12.50", FormatCurrency(decimal.RequireFromString("12.5"), "", 2))
	assert.Equal(t, "4.5%", FormatRate(decimal.RequireFromString("4.5")))
}

func TestHTMLFormatter(t *testing.T) {
	out, err := HTMLFormatter{}.Format(sampleBreakdownReport())
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "<title>Procuration</title>")
	assert.Contains(t, s, `<tr class="passthrough">`)
	assert.Contains(t, s, "21700 XOF")
	assert.Contains(t, s, "débours reversés à des tiers (4000 XOF)")

	out, err = HTMLFormatter{}.Format(sampleSimulationReport())
	require.NoError(t, err)
	s = string(out)
	assert.Contains(t, s, "Vente standard <small>(vente_standard)</small>")
	assert.Contains(t, s, "TVA 9000")
	assert.Contains(t, s, "59000 XOF")

	_, err = HTMLFormatter{}.Format(&Report{})
	assert.Error(t, err)
}

func TestReportNotes(t *testing.T) {
	notes := ReportNotes(sampleBreakdownReport())
	require.Len(t, notes, 3)
	assert.Contains(t, notes[0], "XOF")

	notes = ReportNotes(sampleSimulationReport())
	assert.Len(t, notes, 2)
}
