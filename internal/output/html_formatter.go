package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML page for a report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"fixed": func(d decimal.Decimal, places int32) string {
		return d.StringFixed(places)
	},
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	if r.Breakdown == nil && r.Simulation == nil {
		return nil, fmt.Errorf("report is empty")
	}
	var buf bytes.Buffer
	data := struct {
		*Report
		Notes []string
	}{r, ReportNotes(r)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
