package domain

import (
	"github.com/shopspring/decimal"
)

// TotalLineKey is the key of the grand-total line that closes every breakdown
const TotalLineKey = "total"

// LineItem is one displayable row of an act breakdown
type LineItem struct {
	Key           string          `json:"key" yaml:"key"`
	Label         string          `json:"label" yaml:"label"`
	Detail        string          `json:"detail,omitempty" yaml:"detail,omitempty"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount"`
	IsEmphasized  bool            `json:"isEmphasized" yaml:"is_emphasized"`
	IsPassthrough bool            `json:"isPassthrough,omitempty" yaml:"is_passthrough,omitempty"`
}

// Breakdown is the itemized result of an act calculator.
// Fields exposes the named intermediate values so accounting can post to
// specific ledger lines; Items is the ordered display list whose last entry
// is the emphasized grand total.
type Breakdown struct {
	Act    ActType                    `json:"act" yaml:"act"`
	Label  string                     `json:"label" yaml:"label"`
	Fields map[string]decimal.Decimal `json:"fields" yaml:"fields"`
	Items  []LineItem                 `json:"lineItems" yaml:"line_items"`
	Total  decimal.Decimal            `json:"total" yaml:"total"`
}

// Field returns a named field or zero when absent
func (b *Breakdown) Field(key string) decimal.Decimal {
	if b == nil || b.Fields == nil {
		return decimal.Zero
	}
	return b.Fields[key]
}

// Item returns the line with the given key
func (b *Breakdown) Item(key string) (LineItem, bool) {
	for _, it := range b.Items {
		if it.Key == key {
			return it, true
		}
	}
	return LineItem{}, false
}

// PassthroughTotal sums the débours lines (collected for third parties)
func (b *Breakdown) PassthroughTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range b.Items {
		if it.IsPassthrough {
			sum = sum.Add(it.Amount)
		}
	}
	return sum
}

// TaxResult is one tax applied to a base amount
type TaxResult struct {
	TaxID  string          `json:"taxId" yaml:"tax_id"`
	Label  string          `json:"label" yaml:"label"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// TaxOverlay is the outcome of applying a list of taxes to one base
type TaxOverlay struct {
	Taxes    []TaxResult     `json:"taxes" yaml:"taxes"`
	TotalTax decimal.Decimal `json:"totalTax" yaml:"total_tax"`
}

// SimulationItem is the evaluation of one TariffRule
type SimulationItem struct {
	RuleID        string          `json:"ruleId" yaml:"rule_id"`
	Label         string          `json:"label" yaml:"label"`
	BaseAmount    decimal.Decimal `json:"baseAmount" yaml:"base_amount"`
	Taxes         []TaxResult     `json:"taxes" yaml:"taxes"`
	TotalWithTax  decimal.Decimal `json:"totalWithTax" yaml:"total_with_tax"`
	IsPassthrough bool            `json:"isPassthrough,omitempty" yaml:"is_passthrough,omitempty"`
}

// SimulationSection groups the items of one TariffSection.
// SectionTotal sums base amounts only, taxes excluded.
type SimulationSection struct {
	ID           string           `json:"id" yaml:"id"`
	Label        string           `json:"label" yaml:"label"`
	Items        []SimulationItem `json:"items" yaml:"items"`
	SectionTotal decimal.Decimal  `json:"sectionTotal" yaml:"section_total"`
}

// SimulationResult is the generic engine output.
// Total sums every base amount (pre-tax); GrandTotal sums every item's
// TotalWithTax (fees and taxes).
type SimulationResult struct {
	TemplateID     string              `json:"templateId" yaml:"template_id"`
	Label          string              `json:"label" yaml:"label"`
	PrincipalValue decimal.Decimal     `json:"principalValue" yaml:"principal_value"`
	Sections       []SimulationSection `json:"sections" yaml:"sections"`
	Total          decimal.Decimal     `json:"total" yaml:"total"`
	GrandTotal     decimal.Decimal     `json:"grandTotal" yaml:"grand_total"`
}
