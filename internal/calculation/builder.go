package calculation

import (
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TotalLabel is the label of the closing grand-total line
const TotalLabel = "Total"

// BreakdownBuilder accumulates the line items of one act calculation.
//
// Every amount is rounded to the configured number of places (half away from
// zero) when it is added, and the total is the sum of the rounded lines, so
// the displayed lines always add up to the displayed total.
type BreakdownBuilder struct {
	act    domain.ActType
	label  string
	places int32
	items  []domain.LineItem
	fields map[string]decimal.Decimal
}

// NewBreakdownBuilder creates a builder rounding to places decimals
func NewBreakdownBuilder(act domain.ActType, label string, places int32) *BreakdownBuilder {
	return &BreakdownBuilder{
		act:    act,
		label:  label,
		places: places,
		fields: make(map[string]decimal.Decimal),
	}
}

// Round applies the builder's rounding rule
func (b *BreakdownBuilder) Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(b.places)
}

// Add records a professional-revenue line and returns the rounded amount
func (b *BreakdownBuilder) Add(key, label, detail string, amount decimal.Decimal) decimal.Decimal {
	return b.add(key, label, detail, amount, false)
}

// AddPassthrough records a line collected on behalf of a third party
func (b *BreakdownBuilder) AddPassthrough(key, label, detail string, amount decimal.Decimal) decimal.Decimal {
	return b.add(key, label, detail, amount, true)
}

func (b *BreakdownBuilder) add(key, label, detail string, amount decimal.Decimal, passthrough bool) decimal.Decimal {
	rounded := b.Round(amount)
	b.items = append(b.items, domain.LineItem{
		Key:           key,
		Label:         label,
		Detail:        detail,
		Amount:        rounded,
		IsPassthrough: passthrough,
	})
	b.fields[key] = b.fields[key].Add(rounded)
	return rounded
}

// SetField records a named value that is not a line (a base, a month count)
func (b *BreakdownBuilder) SetField(key string, v decimal.Decimal) {
	b.fields[key] = v
}

// Build closes the breakdown with the emphasized total line
func (b *BreakdownBuilder) Build() *domain.Breakdown {
	total := decimal.Zero
	for _, it := range b.items {
		total = total.Add(it.Amount)
	}

	items := make([]domain.LineItem, 0, len(b.items)+1)
	items = append(items, b.items...)
	items = append(items, domain.LineItem{
		Key:          domain.TotalLineKey,
		Label:        TotalLabel,
		Amount:       total,
		IsEmphasized: true,
	})

	fields := make(map[string]decimal.Decimal, len(b.fields)+1)
	for k, v := range b.fields {
		fields[k] = v
	}
	fields[domain.TotalLineKey] = total

	return &domain.Breakdown{
		Act:    b.act,
		Label:  b.label,
		Fields: fields,
		Items:  items,
		Total:  total,
	}
}
