package compare

import (
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation
	// Summary drops the full breakdowns and keeps totals and line deltas.
	Summary bool
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var v any = compSet
	if jf.Summary {
		v = summarize(compSet)
	}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

func summarize(compSet *ComparisonSet) *ComparisonSet {
	out := *compSet
	base := *compSet.BaseResult
	base.Breakdown = nil
	out.BaseResult = &base
	out.AlternativeResults = make([]ComparisonResult, len(compSet.AlternativeResults))
	for i, alt := range compSet.AlternativeResults {
		alt.Breakdown = nil
		out.AlternativeResults[i] = alt
	}
	return &out
}
