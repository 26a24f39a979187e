package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rgehrsitz/notarycalc/internal/acts"
	"github.com/rgehrsitz/notarycalc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	rb, err := config.NewRulebookLoader().LoadDefault()
	require.NoError(t, err)
	registry, err := acts.NewRegistry(rb)
	require.NoError(t, err)

	s := NewServer(registry)
	s.SetVersion("test")
	s.EnableMetrics()
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	h := setupServer(t)

	w := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "test", resp["version"])
	assert.Equal(t, "2024.1", resp["rulebook"])
}

func TestListActs(t *testing.T) {
	h := setupServer(t)

	w := do(t, h, http.MethodGet, "/api/acts", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Acts []actInfo `json:"acts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Acts, 15)
	assert.Equal(t, "vente", string(resp.Acts[0].Act))
	assert.Equal(t, "prix", resp.Acts[0].Principal)
	assert.NotEmpty(t, resp.Acts[0].Fields)

	w = do(t, h, http.MethodGet, "/api/acts/cession-parts", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cession_parts"`)
}

func TestCalculate(t *testing.T) {
	h := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/acts/vente/calculate", `{"prix": 25000000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp struct {
		CalculationID string `json:"calculationId"`
		Currency      string `json:"currency"`
		Breakdown     struct {
			Act   string `json:"act"`
			Total string `json:"total"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.CalculationID, 36)
	assert.Equal(t, resp.CalculationID, w.Header().Get("X-Calculation-Id"))
	assert.Equal(t, "XOF", resp.Currency)
	assert.Equal(t, "vente", resp.Breakdown.Act)
	assert.Equal(t, "3789000", resp.Breakdown.Total)

	second := do(t, h, http.MethodPost, "/api/acts/vente/calculate", `{"prix": 25000000}`)
	assert.NotEqual(t, resp.CalculationID, second.Header().Get("X-Calculation-Id"))
}

func TestCalculate_Formats(t *testing.T) {
	h := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/acts/procuration/calculate?format=csv", `{}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "Act,Key,Label"))

	w = do(t, h, http.MethodPost, "/api/acts/procuration/calculate?format=yaml", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "act: procuration")

	w = do(t, h, http.MethodPost, "/api/acts/procuration/calculate?format=pdf", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "format", decodeError(t, w).Field)
}

func TestCalculate_Errors(t *testing.T) {
	h := setupServer(t)

	tests := []struct {
		name     string
		path     string
		body     string
		status   int
		kind     string
		field    string
		category string
	}{
		{"unknown act", "/api/acts/hypotheque/calculate", `{}`, http.StatusNotFound, "UnknownActType", "act", "input"},
		{"missing field", "/api/acts/vente/calculate", `{}`, http.StatusBadRequest, "MissingRequiredField", "prix", "input"},
		{"negative amount", "/api/acts/vente/calculate", `{"prix": -5}`, http.StatusBadRequest, "InvalidNumericInput", "prix", "input"},
		{"wrong type", "/api/acts/procuration/calculate", `{"nombre_expeditions": "two"}`, http.StatusBadRequest, "InvalidNumericInput", "nombre_expeditions", "input"},
		{"unknown field", "/api/acts/vente/calculate", `{"prix": 1, "surface": 3}`, http.StatusBadRequest, "InvalidNumericInput", "surface", "input"},
		{"bad choice", "/api/acts/donation/calculate", `{"valeur": 1000, "lien": "cousin"}`, http.StatusBadRequest, "InvalidChoice", "lien", "input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			e := decodeError(t, w)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.field, e.Field)
			assert.Equal(t, tt.category, e.Category)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestTemplates(t *testing.T) {
	h := setupServer(t)

	w := do(t, h, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Templates []templateInfo `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Templates)
	assert.Equal(t, "vente_standard", resp.Templates[0].ID)
	assert.Equal(t, 6, resp.Templates[0].Rules)
	assert.Equal(t, []string{"frais_geometre"}, resp.Templates[0].Inputs)
}

func TestSimulate(t *testing.T) {
	h := setupServer(t)

	var resp struct {
		Simulation struct {
			Total      string `json:"total"`
			GrandTotal string `json:"grandTotal"`
		} `json:"simulation"`
	}

	w := do(t, h, http.MethodPost, "/api/templates/vente_standard/simulate", `{"value": "25000000"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "3820000", resp.Simulation.Total)
	assert.Equal(t, "4011700", resp.Simulation.GrandTotal)

	w = do(t, h, http.MethodPost, "/api/templates/vente_standard/simulate",
		`{"value": 25000000, "inputs": {"frais_geometre": 150000}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "4161700", resp.Simulation.GrandTotal)
}

func TestSimulate_Errors(t *testing.T) {
	h := setupServer(t)

	w := do(t, h, http.MethodPost, "/api/templates/nope/simulate", `{"value": 1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UnknownTemplate", decodeError(t, w).Kind)

	w = do(t, h, http.MethodPost, "/api/templates/vente_standard/simulate", `{"value": -1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/templates/vente_standard/simulate", `{"value": 1, "inputs": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "caller-supplied rule without its input")

	w = do(t, h, http.MethodPost, "/api/templates/vente_standard/simulate", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "body", decodeError(t, w).Field)
}

func TestMetrics(t *testing.T) {
	h := setupServer(t)

	do(t, h, http.MethodPost, "/api/acts/vente/calculate", `{"prix": 1000000}`)
	do(t, h, http.MethodPost, "/api/acts/vente/calculate", `{}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `notarycalc_acts_calculations_total{act="vente",outcome="ok"}`)
	assert.Contains(t, body, `notarycalc_acts_calculations_total{act="vente",outcome="input_error"}`)
	assert.Contains(t, body, "notarycalc_acts_calculation_duration_seconds")
}
