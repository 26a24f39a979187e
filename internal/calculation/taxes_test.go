package calculation

import (
	"testing"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTaxes(t *testing.T) {
	catalog := NewTaxCatalog(testTaxes())

	overlay, err := ApplyTaxes(decimal.NewFromInt(1050000), []string{"tva"}, catalog)
	require.NoError(t, err)
	require.Len(t, overlay.Taxes, 1)
	assert.Equal(t, "189000", overlay.Taxes[0].Amount.String())
	assert.Equal(t, "TVA", overlay.Taxes[0].Label)
	assert.True(t, overlay.TotalTax.Equal(overlay.Taxes[0].Amount))
}

func TestApplyTaxes_OrderDoesNotChangeTotal(t *testing.T) {
	catalog := NewTaxCatalog(testTaxes())
	base := decimal.NewFromInt(15000)

	a, err := ApplyTaxes(base, []string{"tva", "timbre"}, catalog)
	require.NoError(t, err)
	b, err := ApplyTaxes(base, []string{"timbre", "tva"}, catalog)
	require.NoError(t, err)

	assert.True(t, a.TotalTax.Equal(b.TotalTax))
	assert.Equal(t, "4700", a.TotalTax.String())
	assert.Equal(t, "timbre", b.Taxes[0].TaxID, "results follow the caller order")
}

func TestApplyTaxes_UnknownID(t *testing.T) {
	catalog := NewTaxCatalog(testTaxes())

	overlay, err := ApplyTaxes(decimal.NewFromInt(100), []string{"tva", "vat"}, catalog)
	assert.ErrorIs(t, err, domain.ErrUnknownTaxID)
	assert.Empty(t, overlay.Taxes, "no partial overlay")
}

func TestApplyTaxes_NoTaxes(t *testing.T) {
	overlay, err := ApplyTaxes(decimal.NewFromInt(100), nil, nil)
	require.NoError(t, err)
	assert.True(t, overlay.TotalTax.IsZero())
}
