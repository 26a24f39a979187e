package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is what a formatter renders: one act breakdown or one template simulation
type Report struct {
	Currency       string                   `json:"currency" yaml:"currency"`
	RoundingPlaces int32                    `json:"-" yaml:"-"`
	CalculationID  string                   `json:"calculationId,omitempty" yaml:"calculation_id,omitempty"`
	Breakdown      *domain.Breakdown        `json:"breakdown,omitempty" yaml:"breakdown,omitempty"`
	Simulation     *domain.SimulationResult `json:"simulation,omitempty" yaml:"simulation,omitempty"`
}

// Subject names the act or template the report is about
func (r *Report) Subject() string {
	switch {
	case r.Breakdown != nil:
		return string(r.Breakdown.Act)
	case r.Simulation != nil:
		return r.Simulation.TemplateID
	}
	return "report"
}

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

var formatters = map[string]Formatter{
	"console": ConsoleFormatter{},
	"json":    JSONFormatter{Pretty: true},
	"csv":     CSVFormatter{},
	"yaml":    YAMLFormatter{},
	"html":    HTMLFormatter{},
}

var aliases = map[string]string{
	"table": "console",
	"text":  "console",
	"yml":   "yaml",
}

// GetFormatterByName returns the named formatter, or nil when the name is unknown
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	return formatters[name]
}

// FormatNames lists the registered formatter names
func FormatNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders r and writes it to a timestamped file in the working directory
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", fmt.Errorf("failed to format %s report: %w", f.Name(), err)
	}
	filename := fmt.Sprintf("notarycalc_%s_%s.%s", r.Subject(), time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// FormatCurrency formats an amount with the currency code
func FormatCurrency(amount decimal.Decimal, currency string, places int32) string {
	s := amount.StringFixed(places)
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// FormatRate formats a percentage rate
func FormatRate(rate decimal.Decimal) string {
	return rate.String() + "%"
}
