package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// JSONFormatter renders the report as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}

// YAMLFormatter renders the report as YAML
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVFormatter renders one row per line item
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	switch {
	case r.Breakdown != nil:
		if err := w.Write([]string{"Act", "Key", "Label", "Detail", "Amount", "Passthrough", "Total"}); err != nil {
			return nil, err
		}
		for _, it := range r.Breakdown.Items {
			row := []string{
				string(r.Breakdown.Act),
				it.Key,
				it.Label,
				it.Detail,
				it.Amount.StringFixed(r.RoundingPlaces),
				strconv.FormatBool(it.IsPassthrough),
				strconv.FormatBool(it.IsEmphasized),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	case r.Simulation != nil:
		if err := w.Write([]string{"Template", "Section", "Rule", "Label", "Base", "Tax", "TotalWithTax", "Passthrough"}); err != nil {
			return nil, err
		}
		for _, sec := range r.Simulation.Sections {
			for _, it := range sec.Items {
				tax := it.TotalWithTax.Sub(it.BaseAmount)
				row := []string{
					r.Simulation.TemplateID,
					sec.ID,
					it.RuleID,
					it.Label,
					it.BaseAmount.String(),
					tax.String(),
					it.TotalWithTax.String(),
					strconv.FormatBool(it.IsPassthrough),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	default:
		return nil, fmt.Errorf("report is empty")
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
