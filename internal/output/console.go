package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	labelWidth  = 34
	detailWidth = 38
	amountWidth = 18
	ruleWidth   = labelWidth + detailWidth + amountWidth + 2
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	sectionStyle     = lipgloss.NewStyle().Bold(true)
	detailStyle      = lipgloss.NewStyle().Faint(true)
	passthroughStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	totalStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
)

// ConsoleFormatter renders an itemized table for the terminal
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	switch {
	case r.Breakdown != nil:
		c.writeBreakdown(&buf, r)
	case r.Simulation != nil:
		c.writeSimulation(&buf, r)
	default:
		return nil, fmt.Errorf("report is empty")
	}
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeBreakdown(buf *bytes.Buffer, r *Report) {
	b := r.Breakdown
	fmt.Fprintln(buf, titleStyle.Render(strings.ToUpper(b.Label)+" ("+string(b.Act)+")"))
	fmt.Fprintln(buf, strings.Repeat("=", ruleWidth))

	for _, it := range b.Items {
		amount := FormatCurrency(it.Amount, r.Currency, r.RoundingPlaces)
		if it.IsEmphasized {
			fmt.Fprintln(buf, strings.Repeat("-", ruleWidth))
			fmt.Fprintln(buf, totalStyle.Render(row(strings.ToUpper(it.Label), "", amount)))
			continue
		}
		label := it.Label
		if it.IsPassthrough {
			label += " *"
		}
		line := row(label, it.Detail, amount)
		if it.IsPassthrough {
			line = passthroughStyle.Render(line)
		}
		fmt.Fprintln(buf, line)
	}

	if pt := b.PassthroughTotal(); pt.IsPositive() {
		fmt.Fprintln(buf)
		fmt.Fprintln(buf, detailStyle.Render("* débours: "+FormatCurrency(pt, r.Currency, r.RoundingPlaces)))
	}
	if r.CalculationID != "" {
		fmt.Fprintln(buf, detailStyle.Render("ref "+r.CalculationID))
	}
}

func (c ConsoleFormatter) writeSimulation(buf *bytes.Buffer, r *Report) {
	s := r.Simulation
	fmt.Fprintln(buf, titleStyle.Render(strings.ToUpper(s.Label)+" ("+s.TemplateID+")"))
	fmt.Fprintf(buf, "Valeur: %s\n", FormatCurrency(s.PrincipalValue, r.Currency, r.RoundingPlaces))
	fmt.Fprintln(buf, strings.Repeat("=", ruleWidth))

	for _, sec := range s.Sections {
		fmt.Fprintln(buf, sectionStyle.Render(sec.Label))
		for _, it := range sec.Items {
			detail := ""
			if len(it.Taxes) > 0 {
				parts := make([]string, 0, len(it.Taxes))
				for _, tax := range it.Taxes {
					parts = append(parts, tax.Label+" "+tax.Amount.StringFixed(r.RoundingPlaces))
				}
				detail = "HT " + it.BaseAmount.StringFixed(r.RoundingPlaces) + " + " + strings.Join(parts, " + ")
			}
			line := row("  "+it.Label, detail, FormatCurrency(it.TotalWithTax, r.Currency, r.RoundingPlaces))
			if it.IsPassthrough {
				line = passthroughStyle.Render(line)
			}
			fmt.Fprintln(buf, line)
		}
		fmt.Fprintln(buf, detailStyle.Render(row("  Sous-total HT", "", FormatCurrency(sec.SectionTotal, r.Currency, r.RoundingPlaces))))
	}

	fmt.Fprintln(buf, strings.Repeat("-", ruleWidth))
	fmt.Fprintln(buf, row("TOTAL HT", "", FormatCurrency(s.Total, r.Currency, r.RoundingPlaces)))
	fmt.Fprintln(buf, totalStyle.Render(row("TOTAL TTC", "", FormatCurrency(s.GrandTotal, r.Currency, r.RoundingPlaces))))
}

func row(label, detail, amount string) string {
	return fmt.Sprintf("%-*s %-*s %*s", labelWidth, truncate(label, labelWidth), detailWidth, truncate(detail, detailWidth), amountWidth, amount)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
