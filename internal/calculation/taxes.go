package calculation

import (
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxCatalog indexes tax definitions by id
type TaxCatalog map[string]domain.TaxDefinition

// NewTaxCatalog builds a catalog from a list of definitions; later ids win
func NewTaxCatalog(defs []domain.TaxDefinition) TaxCatalog {
	catalog := make(TaxCatalog, len(defs))
	for _, d := range defs {
		catalog[d.ID] = d
	}
	return catalog
}

// ApplyTaxes computes each tax of taxIDs on baseAmount, in taxIDs order.
// An id missing from the catalog fails the whole overlay.
func ApplyTaxes(baseAmount decimal.Decimal, taxIDs []string, catalog TaxCatalog) (domain.TaxOverlay, error) {
	overlay := domain.TaxOverlay{
		Taxes:    make([]domain.TaxResult, 0, len(taxIDs)),
		TotalTax: decimal.Zero,
	}

	for _, id := range taxIDs {
		def, ok := catalog[id]
		if !ok {
			return domain.TaxOverlay{}, domain.NewCalcError(domain.KindUnknownTaxID, id, "tax is not defined in the catalog", nil)
		}

		var amount decimal.Decimal
		switch def.Kind {
		case domain.TaxFlat:
			amount = def.Rate
		default:
			amount = Percent(baseAmount, def.Rate)
		}

		overlay.Taxes = append(overlay.Taxes, domain.TaxResult{
			TaxID:  def.ID,
			Label:  def.Label,
			Amount: amount,
		})
		overlay.TotalTax = overlay.TotalTax.Add(amount)
	}

	return overlay, nil
}
