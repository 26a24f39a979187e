package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`
act: Pret-Hypothecaire
params:
  montant: 15000000
  engagement_conservation: true
variants:
  sans_inscription:
    engagement_conservation: false
  avec_apport:
    montant: 12000000
`))
	require.NoError(t, err)

	act, err := req.ActType()
	require.NoError(t, err)
	assert.Equal(t, domain.ActPretHypothecaire, act)
	assert.Equal(t, "15000000", req.Params["montant"], "numbers are kept as text")
	assert.Equal(t, "true", req.Params["engagement_conservation"])
	assert.Len(t, req.Variants, 2)
	assert.Contains(t, req.Variants, "avec_apport")
	assert.Contains(t, req.Variants, "sans_inscription")
}

func TestParseRequest_JSON(t *testing.T) {
	req, err := ParseRequest([]byte(`{"act": "depot", "params": {"nombre_annexes": "5"}}`))
	require.NoError(t, err)
	assert.Equal(t, "5", req.Params["nombre_annexes"])
}

func TestParseRequest_Errors(t *testing.T) {
	_, err := ParseRequest([]byte("params: {}\n"))
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	_, err = ParseRequest([]byte("act: hypotheque\n"))
	assert.ErrorIs(t, err, domain.ErrUnknownActType)
}

func TestLoadRequest(t *testing.T) {
	file := filepath.Join(t.TempDir(), "req.yaml")
	require.NoError(t, os.WriteFile(file, []byte("act: notoriete\n"), 0644))

	req, err := LoadRequest(file)
	require.NoError(t, err)
	assert.NotNil(t, req.Params, "Params should never be nil")

	_, err = LoadRequest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
