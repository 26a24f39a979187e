package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a table of totals followed by the per-line deltas of each variant
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("ACT COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Act: %s\n", compSet.Act))
	if compSet.BaseResult.Breakdown != nil {
		sb.WriteString(fmt.Sprintf("Label: %s\n", compSet.BaseResult.Breakdown.Label))
	}
	sb.WriteString("\n")

	nameWidth := 25
	numWidth := 17

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Variant",
		numWidth, "Total",
		numWidth, "Débours",
		numWidth, "Diff"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nLINE CHANGES\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s (%s%s%%):\n", alt.Name, tf.deltaSymbol(alt.DiffFromBase), alt.PctFromBase.StringFixed(2)))
			changed := 0
			for _, line := range alt.Lines {
				if line.Delta.IsZero() {
					continue
				}
				changed++
				sb.WriteString(fmt.Sprintf("  %-*s %*s -> %*s  %s%s\n",
					30, tf.truncate(line.Label, 30),
					14, line.Base.String(),
					14, line.Variant.String(),
					tf.deltaSymbol(line.Delta), line.Delta.String()))
			}
			if changed == 0 {
				sb.WriteString("  no line changes\n")
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single variant row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.Name
	diff := tf.deltaSymbol(result.DiffFromBase) + result.DiffFromBase.String()
	if isBase {
		name += " *"
		diff = "-"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.Total.String(),
		numWidth, result.Passthrough.String(),
		numWidth, diff)
}

// deltaSymbol returns the sign prefix for a delta; negatives carry their own
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen runes
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// FormatCompact creates a compact single-line summary for each variant
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: %s | ", compSet.BaseResult.Name, compSet.BaseResult.Total.String()))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.DiffFromBase.IsZero() {
			change = tf.deltaSymbol(alt.DiffFromBase) + alt.DiffFromBase.String()
		}
		sb.WriteString(fmt.Sprintf("%s: %s", alt.Name, change))
	}

	return sb.String()
}
