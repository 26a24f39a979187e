package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/notarycalc/internal/acts"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/rgehrsitz/notarycalc/internal/output"
)

type actInfo struct {
	Act       domain.ActType   `json:"act"`
	Label     string           `json:"label"`
	Principal string           `json:"principal,omitempty"`
	Fields    []acts.FieldSpec `json:"fields"`
}

type templateInfo struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Sections int      `json:"sections"`
	Rules    int      `json:"rules"`
	Inputs   []string `json:"inputs,omitempty"`
}

// simulateRequest is the body of POST /api/templates/{id}/simulate
type simulateRequest struct {
	Value  decimal.Decimal            `json:"value"`
	Inputs map[string]decimal.Decimal `json:"inputs,omitempty"`
}

func newActInfo(c *acts.Calculator) actInfo {
	return actInfo{Act: c.Act, Label: c.Label, Principal: c.Principal, Fields: c.Fields}
}

func (s *Server) handleListActs(w http.ResponseWriter, r *http.Request) {
	list := s.registry.Acts()
	out := make([]actInfo, 0, len(list))
	for _, c := range list {
		out = append(out, newActInfo(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"acts": out})
}

func (s *Server) handleGetAct(w http.ResponseWriter, r *http.Request) {
	act, err := domain.ParseActType(chi.URLParam(r, "act"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.registry.Calculator(act)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newActInfo(c))
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	act, err := domain.ParseActType(chi.URLParam(r, "act"))
	if err != nil {
		CalculationsTotal.WithLabelValues("unknown", outcome(err)).Inc()
		s.writeError(w, r, err)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		CalculationsTotal.WithLabelValues(string(act), outcome(err)).Inc()
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	b, err := s.registry.CalculateJSON(act, body)
	CalculationDuration.WithLabelValues(string(act)).Observe(time.Since(start).Seconds())
	CalculationsTotal.WithLabelValues(string(act), outcome(err)).Inc()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report := s.report()
	report.Breakdown = b
	s.logger.Infof("calculation %s: %s total %s", report.CalculationID, act, b.Total)
	s.writeReport(w, r, report)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates := s.registry.Rulebook().Templates
	out := make([]templateInfo, 0, len(templates))
	for i := range templates {
		t := &templates[i]
		out = append(out, templateInfo{
			ID:       t.ID,
			Label:    t.Label,
			Sections: len(t.Sections),
			Rules:    t.RuleCount(),
			Inputs:   t.InputKeys(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": out})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, ok := s.registry.Rulebook().Template(id)
	if !ok {
		err := domain.NewCalcError(domain.KindUnknownTemplate, "id", "unknown template: "+id, nil)
		SimulationsTotal.WithLabelValues("unknown", outcome(err)).Inc()
		s.writeError(w, r, err)
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		SimulationsTotal.WithLabelValues(id, outcome(err)).Inc()
		s.writeError(w, r, err)
		return
	}

	var req simulateRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		err = domain.NewCalcError(domain.KindInvalidNumericInput, "body", "cannot decode simulation request", err)
		SimulationsTotal.WithLabelValues(id, outcome(err)).Inc()
		s.writeError(w, r, err)
		return
	}

	var res *domain.SimulationResult
	if req.Inputs != nil {
		res, err = s.engine.RunWithInputs(t, req.Value, req.Inputs)
	} else {
		res, err = s.engine.Run(t, req.Value)
	}
	SimulationsTotal.WithLabelValues(id, outcome(err)).Inc()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report := s.report()
	report.Simulation = res
	s.writeReport(w, r, report)
}

func (s *Server) report() *output.Report {
	rb := s.registry.Rulebook()
	return &output.Report{
		Currency:       rb.Currency,
		RoundingPlaces: rb.RoundingPlaces,
		CalculationID:  uuid.NewString(),
	}
}

// writeReport renders the report as JSON, or with the formatter named by ?format=
func (s *Server) writeReport(w http.ResponseWriter, r *http.Request, report *output.Report) {
	name := r.URL.Query().Get("format")
	if name == "" || name == "json" {
		w.Header().Set("X-Calculation-Id", report.CalculationID)
		writeJSON(w, http.StatusOK, report)
		return
	}

	f := output.GetFormatterByName(name)
	if f == nil {
		s.writeError(w, r, domain.NewCalcError(domain.KindInvalidChoice, "format", fmt.Sprintf("unknown format %q", name), nil))
		return
	}
	data, err := f.Format(report)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contentType := "text/plain; charset=utf-8"
	switch f.Name() {
	case "csv":
		contentType = "text/csv; charset=utf-8"
	case "yaml":
		contentType = "application/yaml"
	case "html":
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Calculation-Id", report.CalculationID)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.NewCalcError(domain.KindInvalidNumericInput, "body", "request body too large", err)
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return body, nil
}
