package acts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Input is the typed request of one act calculator
type Input interface {
	// Validate rejects missing, negative or inconsistent fields before any arithmetic runs.
	Validate() error
}

// FieldKind tells forms and decoders how to read a field
type FieldKind string

const (
	FieldAmount FieldKind = "amount"
	FieldCount  FieldKind = "count"
	FieldFlag   FieldKind = "flag"
	FieldDate   FieldKind = "date"
	FieldChoice FieldKind = "choice"
)

// FieldSpec describes one input field of an act
type FieldSpec struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Default  string    `json:"default,omitempty"`
	Choices  []string  `json:"choices,omitempty"`
}

// Calculator is one entry of the act catalog
type Calculator struct {
	Act   domain.ActType
	Label string
	// Fields lists the inputs in form order.
	Fields []FieldSpec
	// Principal names the monetary field the budget solver may vary; empty when the act has none.
	Principal string

	needs    requirements
	newInput func() Input
	check    func(Input) error
	compute  func(*tariff, Input) (*domain.Breakdown, error)
}

// requirements lists the rulebook names a calculator reads
type requirements struct {
	Rates        []string
	Amounts      []string
	UnitCosts    []string
	LandRegistry bool
	StepDuty     bool
	LatePenalty  bool
}

// define builds a Calculator around a typed compute function
func define[T any, P interface {
	*T
	Input
}](act domain.ActType, principal string, fields []FieldSpec, needs requirements, fn func(*tariff, P) (*domain.Breakdown, error)) Calculator {
	return Calculator{
		Act:       act,
		Fields:    fields,
		Principal: principal,
		needs:     needs,
		newInput:  func() Input { return P(new(T)) },
		check: func(in Input) error {
			typed, ok := in.(P)
			if !ok {
				return fmt.Errorf("act %s: unexpected input type %T", act, in)
			}
			if typed == nil {
				return domain.Missing("input")
			}
			return nil
		},
		compute: func(t *tariff, in Input) (*domain.Breakdown, error) {
			typed, ok := in.(P)
			if !ok {
				return nil, fmt.Errorf("act %s: unexpected input type %T", act, in)
			}
			return fn(t, typed)
		},
	}
}

// NewInput returns an empty input for this calculator
func (c *Calculator) NewInput() Input {
	return c.newInput()
}

// Field finds a field spec by key
func (c *Calculator) Field(key string) (FieldSpec, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Defaults returns the default value of every field that has one
func (c *Calculator) Defaults() map[string]string {
	defaults := make(map[string]string)
	for _, f := range c.Fields {
		if f.Default != "" {
			defaults[f.Key] = f.Default
		}
	}
	return defaults
}

// Registry dispatches act tags to calculators bound to one rulebook.
// It is immutable after NewRegistry and safe for concurrent use.
type Registry struct {
	rulebook    *domain.Rulebook
	calculators map[domain.ActType]*Calculator
	tariffs     map[domain.ActType]*tariff
	logger      calculation.Logger
}

// NewRegistry binds the whole catalog to a rulebook. Any rule name a
// calculator reads but the rulebook lacks fails here, not per request.
func NewRegistry(rb *domain.Rulebook) (*Registry, error) {
	if rb == nil {
		return nil, fmt.Errorf("rulebook cannot be nil")
	}

	r := &Registry{
		rulebook:    rb,
		calculators: make(map[domain.ActType]*Calculator),
		tariffs:     make(map[domain.ActType]*tariff),
		logger:      calculation.NopLogger{},
	}
	taxes := calculation.NewTaxCatalog(rb.Taxes)

	for _, c := range catalog() {
		calc := c
		t, err := bind(rb, taxes, &calc)
		if err != nil {
			return nil, fmt.Errorf("act %s: %w", calc.Act, err)
		}
		calc.Label = t.t.Label
		r.calculators[calc.Act] = &calc
		r.tariffs[calc.Act] = t
	}

	return r, nil
}

// SetLogger sets the registry logger; nil installs a no-op logger
func (r *Registry) SetLogger(l calculation.Logger) {
	r.logger = calculation.OrNop(l)
}

// Rulebook returns the bound rulebook
func (r *Registry) Rulebook() *domain.Rulebook {
	return r.rulebook
}

// Acts lists the calculators in catalog order
func (r *Registry) Acts() []*Calculator {
	list := make([]*Calculator, 0, len(r.calculators))
	for _, act := range domain.AllActTypes {
		if c, ok := r.calculators[act]; ok {
			list = append(list, c)
		}
	}
	return list
}

// Calculator returns the calculator of an act
func (r *Registry) Calculator(act domain.ActType) (*Calculator, error) {
	c, ok := r.calculators[act]
	if !ok {
		return nil, domain.NewCalcError(domain.KindUnknownActType, "act", fmt.Sprintf("unknown act type: %s", act), nil)
	}
	return c, nil
}

// Calculate validates in and computes the breakdown of act
func (r *Registry) Calculate(act domain.ActType, in Input) (*domain.Breakdown, error) {
	c, err := r.Calculator(act)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, domain.Missing("input")
	}
	if err := c.check(in); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		r.logger.Debugf("act %s: rejected input: %v", act, err)
		return nil, err
	}

	b, err := c.compute(r.tariffs[act], in)
	if err != nil {
		r.logger.Errorf("act %s: calculation failed: %v", act, err)
		return nil, err
	}
	r.logger.Debugf("act %s: total %s over %d lines", act, b.Total, len(b.Items))
	return b, nil
}

// CalculateParams decodes key=value params and computes the breakdown
func (r *Registry) CalculateParams(act domain.ActType, params map[string]string) (*domain.Breakdown, error) {
	in, err := r.DecodeParams(act, params)
	if err != nil {
		return nil, err
	}
	return r.Calculate(act, in)
}

// CalculateJSON decodes a JSON object and computes the breakdown
func (r *Registry) CalculateJSON(act domain.ActType, body []byte) (*domain.Breakdown, error) {
	in, err := r.DecodeJSON(act, body)
	if err != nil {
		return nil, err
	}
	return r.Calculate(act, in)
}

// DecodeJSON decodes a single JSON object into the typed input of act.
// Unknown fields and trailing values are rejected.
func (r *Registry) DecodeJSON(act domain.ActType, body []byte) (Input, error) {
	c, err := r.Calculator(act)
	if err != nil {
		return nil, err
	}
	in := c.NewInput()
	if len(bytes.TrimSpace(body)) == 0 {
		return in, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(in); err != nil {
		return nil, domain.NewCalcError(domain.KindInvalidNumericInput, c.jsonErrorField(body, err), "cannot decode input", err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, domain.NewCalcError(domain.KindInvalidNumericInput, "body", "expected a single JSON object", err)
	}
	return in, nil
}

// jsonErrorField names the key of body whose value failed to decode.
// Value errors raised by UnmarshalJSON carry no key, so each key is
// decoded on its own until one fails.
func (c *Calculator) jsonErrorField(body []byte, err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return typeErr.Field
	}

	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) != nil {
		return "body"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := c.Field(key); !ok {
			return key
		}
		one, err := json.Marshal(map[string]json.RawMessage{key: fields[key]})
		if err != nil {
			continue
		}
		if json.Unmarshal(one, c.NewInput()) != nil {
			return key
		}
	}
	return "body"
}

// DecodeParams decodes string params into the typed input of act.
// Each value is checked against its field kind first so errors name the field.
func (r *Registry) DecodeParams(act domain.ActType, params map[string]string) (Input, error) {
	c, err := r.Calculator(act)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range keys {
		raw := strings.TrimSpace(params[key])
		spec, ok := c.Field(key)
		if !ok {
			return nil, domain.NewCalcError(domain.KindInvalidNumericInput, key, fmt.Sprintf("unknown field for act %s", act), nil)
		}
		if raw == "" {
			continue
		}
		value, err := checkValue(spec, raw)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: scalarTag(spec.Kind), Value: value},
		)
	}

	in := c.NewInput()
	if err := node.Decode(in); err != nil {
		return nil, domain.NewCalcError(domain.KindInvalidNumericInput, "input", "cannot decode params", err)
	}
	return in, nil
}

// checkValue validates raw against the field kind and returns its canonical text
func checkValue(spec FieldSpec, raw string) (string, error) {
	switch spec.Kind {
	case FieldAmount:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return "", domain.Invalid(spec.Key, "not a number: %q", raw)
		}
		return d.String(), nil
	case FieldCount:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "", domain.Invalid(spec.Key, "not a whole number: %q", raw)
		}
		return strconv.FormatInt(n, 10), nil
	case FieldFlag:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "", domain.Invalid(spec.Key, "not a boolean: %q", raw)
		}
		return strconv.FormatBool(b), nil
	case FieldDate:
		d, err := domain.ParseDate(raw)
		if err != nil {
			return "", domain.Invalid(spec.Key, "not an ISO date (YYYY-MM-DD): %q", raw)
		}
		return d.String(), nil
	case FieldChoice:
		for _, choice := range spec.Choices {
			if raw == choice {
				return raw, nil
			}
		}
		return "", domain.NewCalcError(domain.KindInvalidChoice, spec.Key, fmt.Sprintf("%q is not one of %s", raw, strings.Join(spec.Choices, ", ")), nil)
	}
	return raw, nil
}

// scalarTag pins the YAML tag so a value is never re-resolved to another type
func scalarTag(kind FieldKind) string {
	switch kind {
	case FieldCount:
		return "!!int"
	case FieldFlag:
		return "!!bool"
	default:
		return "!!str"
	}
}
