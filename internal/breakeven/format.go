package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TableFormatter formats solver results as a console table
type TableFormatter struct{}

// Format generates a formatted table for one budget result
func (tf *TableFormatter) Format(result *BudgetResult) string {
	var sb strings.Builder

	sb.WriteString("BUDGET SOLVER RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Act:          %s\n", result.Request.Act))
	sb.WriteString(fmt.Sprintf("Goal:         %s\n", result.Request.Goal))
	sb.WriteString(fmt.Sprintf("Budget:       %s\n", result.Request.Budget))
	sb.WriteString(fmt.Sprintf("Status:       %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:   %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:  %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	if !result.Success {
		return sb.String()
	}

	sb.WriteString("SOLUTION\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-14s%s\n", result.PrincipalField+":", result.Principal))
	sb.WriteString(fmt.Sprintf("%-14s%s\n", "Charges:", result.Charges))
	sb.WriteString(fmt.Sprintf("%-14s%s\n", "Outlay:", result.Outlay))
	sb.WriteString(fmt.Sprintf("%-14s%s\n", "Remaining:", result.Remaining))
	sb.WriteString("\n")

	if result.Breakdown != nil {
		sb.WriteString("CHARGES AT SOLUTION\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, it := range result.Breakdown.Items {
			sb.WriteString(fmt.Sprintf("%-40s %20s\n", tf.truncate(it.Label, 40), it.Amount))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiGoal formats one result per goal side by side
func (tf *TableFormatter) FormatMultiGoal(result *MultiGoalResult) string {
	var sb strings.Builder

	sb.WriteString("BUDGET SOLVER BY GOAL\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-16s %18s %18s %18s\n", "Goal", "Principal", "Charges", "Remaining"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		principal := res.Principal.String()
		if !res.Success {
			principal = "-"
		}
		sb.WriteString(fmt.Sprintf("%-16s %18s %18s %18s\n",
			tf.truncate(string(res.Request.Goal), 16),
			principal,
			res.Charges,
			res.Remaining))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for any solver result
func (jf *JSONFormatter) Format(result any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "converged"
	}
	return "no solution"
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
