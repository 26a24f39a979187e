package calculation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// SimulationEngine evaluates a TariffTemplate against one principal value.
// It holds no per-run state and is safe for concurrent use.
type SimulationEngine struct {
	Taxes  TaxCatalog
	Logger Logger
	Debug  bool
}

// NewSimulationEngine creates an engine over a tax catalog
func NewSimulationEngine(taxes []domain.TaxDefinition) *SimulationEngine {
	return &SimulationEngine{
		Taxes:  NewTaxCatalog(taxes),
		Logger: NopLogger{},
	}
}

// SetLogger sets the engine logger; nil installs a no-op logger
func (e *SimulationEngine) SetLogger(l Logger) {
	e.Logger = OrNop(l)
}

// Run evaluates every rule of every section.
//
// Caller-supplied rules contribute zero on this path; use RunWithInputs to
// resolve them. Section totals are pre-tax base amounts; the grand total is
// the sum of every item's total including tax.
func (e *SimulationEngine) Run(t *domain.TariffTemplate, principal decimal.Decimal) (*domain.SimulationResult, error) {
	return e.run(t, principal, nil, false)
}

// RunWithInputs is Run with a side-channel of named caller values. Every
// caller-supplied rule must find its InputKey in inputs, and every key of
// inputs must be read by one of them.
func (e *SimulationEngine) RunWithInputs(t *domain.TariffTemplate, principal decimal.Decimal, inputs map[string]decimal.Decimal) (*domain.SimulationResult, error) {
	return e.run(t, principal, inputs, true)
}

func (e *SimulationEngine) run(t *domain.TariffTemplate, principal decimal.Decimal, inputs map[string]decimal.Decimal, resolveInputs bool) (*domain.SimulationResult, error) {
	if t == nil {
		return nil, domain.NewCalcError(domain.KindUnknownTemplate, "template", "no template supplied", nil)
	}
	if principal.IsNegative() {
		return nil, domain.Invalid("principal", "principal value cannot be negative, got %s", principal)
	}
	if resolveInputs {
		if err := checkInputs(t, inputs); err != nil {
			return nil, err
		}
	}

	logger := OrNop(e.Logger)
	if e.Debug {
		logger.Debugf("simulating template %s on principal %s", t.ID, principal)
	}

	result := &domain.SimulationResult{
		TemplateID:     t.ID,
		Label:          t.Label,
		PrincipalValue: principal,
		Sections:       make([]domain.SimulationSection, 0, len(t.Sections)),
		Total:          decimal.Zero,
		GrandTotal:     decimal.Zero,
	}

	for _, section := range t.Sections {
		sr := domain.SimulationSection{
			ID:           section.ID,
			Label:        section.Label,
			Items:        make([]domain.SimulationItem, 0, len(section.Rules)),
			SectionTotal: decimal.Zero,
		}

		for _, rule := range section.Rules {
			base, err := e.baseAmount(rule, principal, inputs, resolveInputs)
			if err != nil {
				return nil, fmt.Errorf("template %s rule %s: %w", t.ID, rule.ID, err)
			}

			overlay, err := ApplyTaxes(base, rule.LinkedTaxIDs, e.Taxes)
			if err != nil {
				return nil, fmt.Errorf("template %s rule %s: %w", t.ID, rule.ID, err)
			}

			item := domain.SimulationItem{
				RuleID:        rule.ID,
				Label:         rule.Label,
				BaseAmount:    base,
				Taxes:         overlay.Taxes,
				TotalWithTax:  base.Add(overlay.TotalTax),
				IsPassthrough: rule.IsPassthrough,
			}
			if e.Debug {
				logger.Debugf("  %s/%s: base=%s tax=%s", section.ID, rule.ID, base, overlay.TotalTax)
			}

			sr.Items = append(sr.Items, item)
			sr.SectionTotal = sr.SectionTotal.Add(base)
			result.GrandTotal = result.GrandTotal.Add(item.TotalWithTax)
		}

		result.Total = result.Total.Add(sr.SectionTotal)
		result.Sections = append(result.Sections, sr)
	}

	return result, nil
}

// checkInputs rejects negative caller values and keys no rule of t reads
func checkInputs(t *domain.TariffTemplate, inputs map[string]decimal.Decimal) error {
	known := make(map[string]bool)
	for _, key := range t.InputKeys() {
		known[key] = true
	}

	keys := make([]string, 0, len(inputs))
	for key := range inputs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !known[key] {
			return domain.Invalid(key, "template %s has no rule reading this input (expected one of: %s)", t.ID, strings.Join(t.InputKeys(), ", "))
		}
		if v := inputs[key]; v.IsNegative() {
			return domain.Invalid(key, "caller value cannot be negative, got %s", v)
		}
	}
	return nil
}

func (e *SimulationEngine) baseAmount(rule domain.TariffRule, principal decimal.Decimal, inputs map[string]decimal.Decimal, resolveInputs bool) (decimal.Decimal, error) {
	switch rule.Kind {
	case domain.RuleFlat:
		if rule.Value == nil {
			return decimal.Zero, domain.NewCalcError(domain.KindUnknownRuleReference, rule.ID, "flat rule has no value", nil)
		}
		return *rule.Value, nil
	case domain.RulePercentage:
		if rule.Value == nil {
			return decimal.Zero, domain.NewCalcError(domain.KindUnknownRuleReference, rule.ID, "percentage rule has no value", nil)
		}
		return Percent(principal, *rule.Value), nil
	case domain.RuleBracketSchedule:
		return EvaluateBrackets(principal, rule.Schedule), nil
	case domain.RuleCallerSupplied:
		if !resolveInputs {
			return decimal.Zero, nil
		}
		v, ok := inputs[rule.InputKey]
		if !ok {
			return decimal.Zero, domain.Missing(rule.InputKey)
		}
		return v, nil
	default:
		return decimal.Zero, domain.NewCalcError(domain.KindUnknownRuleReference, rule.ID, fmt.Sprintf("unknown rule kind %q", rule.Kind), nil)
	}
}

// ValidateTemplate checks a template against a tax catalog: rule kinds and
// parameters, schedules, caller input keys and linked tax ids. Run it once
// when the template is loaded.
func ValidateTemplate(t *domain.TariffTemplate, catalog TaxCatalog) error {
	if t.ID == "" {
		return domain.NewCalcError(domain.KindUnknownRuleReference, "template", "template id is required", nil)
	}
	seen := make(map[string]bool)
	for _, section := range t.Sections {
		for _, rule := range section.Rules {
			ref := t.ID + "/" + rule.ID
			if rule.ID == "" {
				return domain.NewCalcError(domain.KindUnknownRuleReference, t.ID+"/"+section.ID, "rule id is required", nil)
			}
			if seen[rule.ID] {
				return domain.NewCalcError(domain.KindUnknownRuleReference, ref, "duplicate rule id", nil)
			}
			seen[rule.ID] = true
			if !rule.Kind.Valid() {
				return domain.NewCalcError(domain.KindUnknownRuleReference, ref, fmt.Sprintf("unknown rule kind %q", rule.Kind), nil)
			}

			switch rule.Kind {
			case domain.RuleFlat, domain.RulePercentage:
				if rule.Value == nil {
					return domain.NewCalcError(domain.KindUnknownRuleReference, ref, "rule requires a value", nil)
				}
				if rule.Value.IsNegative() {
					return domain.NewCalcError(domain.KindUnknownRuleReference, ref, "rule value cannot be negative", nil)
				}
			case domain.RuleBracketSchedule:
				if err := ValidateSchedule(ref, rule.Schedule); err != nil {
					return err
				}
			case domain.RuleCallerSupplied:
				if rule.InputKey == "" {
					return domain.NewCalcError(domain.KindUnknownRuleReference, ref, "caller-supplied rule requires an input key", nil)
				}
			}

			for _, id := range rule.LinkedTaxIDs {
				if _, ok := catalog[id]; !ok {
					return domain.NewCalcError(domain.KindUnknownTaxID, id, "referenced by "+ref, nil)
				}
			}
		}
	}
	return nil
}
