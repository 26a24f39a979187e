package compare

import (
	"context"
	"fmt"
	"maps"

	"github.com/rgehrsitz/notarycalc/internal/acts"
	"github.com/rgehrsitz/notarycalc/internal/domain"
)

// BaseName labels the unmodified params in a comparison
const BaseName = "base"

// CompareEngine runs one act over a base input and its variants
type CompareEngine struct {
	Registry *acts.Registry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(registry *acts.Registry) *CompareEngine {
	return &CompareEngine{Registry: registry}
}

// Compare calculates the base params and every variant, then the deltas against base
func (ce *CompareEngine) Compare(
	ctx context.Context,
	act domain.ActType,
	base map[string]string,
	variants []Variant,
) (*ComparisonSet, error) {

	baseBreakdown, err := ce.Registry.CalculateParams(act, base)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base: %w", err)
	}
	baseResult := newResult(BaseName, base, baseBreakdown)

	alternatives := []ComparisonResult{}
	seen := map[string]bool{BaseName: true}

	for _, v := range variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if seen[v.Name] {
			return nil, fmt.Errorf("duplicate variant name %s", v.Name)
		}
		seen[v.Name] = true

		params := maps.Clone(base)
		if params == nil {
			params = make(map[string]string)
		}
		maps.Copy(params, v.Overrides)

		b, err := ce.Registry.CalculateParams(act, params)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate variant %s: %w", v.Name, err)
		}

		alt := newResult(v.Name, params, b)
		alt.compareTo(&baseResult)
		alternatives = append(alternatives, alt)
	}

	compSet := &ComparisonSet{
		Act:                act,
		Currency:           ce.Registry.Rulebook().Currency,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
