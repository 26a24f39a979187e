package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Variant is a named set of param overrides applied on top of the base params
type Variant struct {
	Name      string            `json:"name"`
	Overrides map[string]string `json:"overrides"`
}

// ParseVariant parses "name:key=value,key=value"
func ParseVariant(s string) (Variant, error) {
	name, rest, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Variant{}, fmt.Errorf("variant %q: expected name:key=value[,key=value]", s)
	}

	v := Variant{Name: name, Overrides: make(map[string]string)}
	for _, pair := range strings.Split(rest, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return Variant{}, fmt.Errorf("variant %s: malformed override %q", name, pair)
		}
		v.Overrides[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if len(v.Overrides) == 0 {
		return Variant{}, fmt.Errorf("variant %s: no overrides", name)
	}
	return v, nil
}

// VariantsFromMap builds variants from a name -> overrides map, sorted by name
func VariantsFromMap(m map[string]map[string]string) []Variant {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	variants := make([]Variant, 0, len(names))
	for _, name := range names {
		variants = append(variants, Variant{Name: name, Overrides: m[name]})
	}
	return variants
}

// LineDelta is the change of one breakdown line against the base
type LineDelta struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Base    decimal.Decimal `json:"base"`
	Variant decimal.Decimal `json:"variant"`
	Delta   decimal.Decimal `json:"delta"`
}

// ComparisonResult is one evaluated variant (or the base)
type ComparisonResult struct {
	Name      string            `json:"name"`
	Params    map[string]string `json:"params"`
	Breakdown *domain.Breakdown `json:"breakdown,omitempty"`

	Total       decimal.Decimal `json:"total"`
	Passthrough decimal.Decimal `json:"passthrough"`

	// Comparison to base
	DiffFromBase decimal.Decimal `json:"diffFromBase"`
	PctFromBase  decimal.Decimal `json:"pctFromBase"`
	Lines        []LineDelta     `json:"lines,omitempty"`
}

// ComparisonSet is the base result and every variant of one act
type ComparisonSet struct {
	Act                domain.ActType     `json:"act"`
	Currency           string             `json:"currency"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
}

// Cheapest returns the result with the lowest total, base included
func (cs *ComparisonSet) Cheapest() *ComparisonResult {
	best := cs.BaseResult
	for i := range cs.AlternativeResults {
		if cs.AlternativeResults[i].Total.LessThan(best.Total) {
			best = &cs.AlternativeResults[i]
		}
	}
	return best
}

func newResult(name string, params map[string]string, b *domain.Breakdown) ComparisonResult {
	return ComparisonResult{
		Name:        name,
		Params:      params,
		Breakdown:   b,
		Total:       b.Total,
		Passthrough: b.PassthroughTotal(),
	}
}

// compareTo fills the deltas of r against base. Lines present on only one
// side count as zero on the other; the total line is left out.
func (r *ComparisonResult) compareTo(base *ComparisonResult) {
	r.DiffFromBase = r.Total.Sub(base.Total)
	if !base.Total.IsZero() {
		r.PctFromBase = r.DiffFromBase.Div(base.Total).Mul(decimal.NewFromInt(100)).Round(2)
	}

	r.Lines = nil
	seen := make(map[string]bool)
	add := func(key, label string) {
		if key == domain.TotalLineKey || seen[key] {
			return
		}
		seen[key] = true
		b := lineAmount(base.Breakdown, key)
		v := lineAmount(r.Breakdown, key)
		r.Lines = append(r.Lines, LineDelta{Key: key, Label: label, Base: b, Variant: v, Delta: v.Sub(b)})
	}
	for _, it := range base.Breakdown.Items {
		add(it.Key, it.Label)
	}
	for _, it := range r.Breakdown.Items {
		add(it.Key, it.Label)
	}
}

func lineAmount(b *domain.Breakdown, key string) decimal.Decimal {
	if it, ok := b.Item(key); ok {
		return it.Amount
	}
	return decimal.Zero
}

// GenerateRecommendations names the cheapest variant and the one with the lowest débours
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	cheapest := compSet.Cheapest()
	if cheapest != compSet.BaseResult {
		savings := compSet.BaseResult.Total.Sub(cheapest.Total)
		recommendations = append(recommendations,
			"Cheapest: "+cheapest.Name+" saves "+savings.String()+" "+compSet.Currency+" against base")
	} else {
		recommendations = append(recommendations, "Base is already the cheapest option")
	}

	lowest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].Passthrough.LessThan(lowest.Passthrough) {
			lowest = &compSet.AlternativeResults[i]
		}
	}
	if lowest != compSet.BaseResult {
		diff := compSet.BaseResult.Passthrough.Sub(lowest.Passthrough)
		recommendations = append(recommendations,
			"Lowest débours: "+lowest.Name+" ("+diff.String()+" "+compSet.Currency+" less collected for third parties)")
	}

	return recommendations
}
