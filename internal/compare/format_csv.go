package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats comparison results as CSV, one row per variant line
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Variant",
		"Type",
		"Line",
		"Label",
		"Base",
		"Amount",
		"Delta",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	base := compSet.BaseResult
	for _, it := range base.Breakdown.Items {
		row := []string{base.Name, "base", it.Key, it.Label, it.Amount.String(), it.Amount.String(), "0"}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		for _, line := range alt.Lines {
			if err := writer.Write(cf.formatRow(alt.Name, line)); err != nil {
				return "", err
			}
		}
		total := LineDelta{Key: "total", Label: "Total", Base: base.Total, Variant: alt.Total, Delta: alt.DiffFromBase}
		if err := writer.Write(cf.formatRow(alt.Name, total)); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats one line delta as a CSV row
func (cf *CSVFormatter) formatRow(variant string, line LineDelta) []string {
	return []string{
		variant,
		"alternative",
		line.Key,
		line.Label,
		line.Base.String(),
		line.Variant.String(),
		line.Delta.String(),
	}
}
