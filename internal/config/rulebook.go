package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed rulebook.yaml
var defaultRulebook []byte

// Format is a rulebook file format
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension; anything that is not .toml is read as YAML
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// RulebookLoader handles parsing and validation of rulebook files
type RulebookLoader struct {
	logger calculation.Logger
}

// NewRulebookLoader creates a new rulebook loader
func NewRulebookLoader() *RulebookLoader {
	return &RulebookLoader{logger: calculation.NopLogger{}}
}

// SetLogger sets the loader logger; nil installs a no-op logger
func (rl *RulebookLoader) SetLogger(l calculation.Logger) {
	rl.logger = calculation.OrNop(l)
}

// LoadDefault parses and validates the embedded rulebook
func (rl *RulebookLoader) LoadDefault() (*domain.Rulebook, error) {
	rb, err := rl.Parse(defaultRulebook, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded rulebook: %w", err)
	}
	return rb, nil
}

// Load returns the rulebook at path, or the embedded one when path is empty
func (rl *RulebookLoader) Load(path string) (*domain.Rulebook, error) {
	if path == "" {
		return rl.LoadDefault()
	}
	return rl.LoadFromFile(path)
}

// LoadFromFile loads a rulebook from a YAML or TOML file
func (rl *RulebookLoader) LoadFromFile(filename string) (*domain.Rulebook, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	rb, err := rl.Parse(data, FormatFromPath(filename))
	if err != nil {
		return nil, fmt.Errorf("rulebook %s: %w", filename, err)
	}
	rl.logger.Infof("loaded rulebook %s (version %s)", filename, rb.Metadata.Version)
	return rb, nil
}

// Parse decodes and validates rulebook data
func (rl *RulebookLoader) Parse(data []byte, format Format) (*domain.Rulebook, error) {
	var rb domain.Rulebook
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &rb); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &rb); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := rl.ValidateRulebook(&rb); err != nil {
		return nil, fmt.Errorf("rulebook validation failed: %w", err)
	}
	return &rb, nil
}

// ValidateRulebook checks every definition and resolves template schedule
// references in place. A rulebook that passes is safe to share.
func (rl *RulebookLoader) ValidateRulebook(rb *domain.Rulebook) error {
	if rb.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if rb.RoundingPlaces < 0 || rb.RoundingPlaces > 8 {
		return fmt.Errorf("rounding_places must be between 0 and 8, got %d", rb.RoundingPlaces)
	}

	if err := rl.validateTaxes(rb.Taxes); err != nil {
		return fmt.Errorf("taxes: %w", err)
	}
	if err := rl.validateSchedules(rb.Schedules); err != nil {
		return fmt.Errorf("schedules: %w", err)
	}
	if err := rl.validateCharges(rb); err != nil {
		return err
	}

	catalog := calculation.NewTaxCatalog(rb.Taxes)
	for act, t := range rb.Acts {
		if err := rl.validateAct(catalog, act, t); err != nil {
			return fmt.Errorf("act %s: %w", act, err)
		}
	}

	seen := make(map[string]bool)
	for i := range rb.Templates {
		tmpl := &rb.Templates[i]
		if seen[tmpl.ID] {
			return fmt.Errorf("duplicate template id %q", tmpl.ID)
		}
		seen[tmpl.ID] = true
		if err := rl.resolveScheduleRefs(rb, tmpl); err != nil {
			return fmt.Errorf("template %s: %w", tmpl.ID, err)
		}
		if err := calculation.ValidateTemplate(tmpl, catalog); err != nil {
			return fmt.Errorf("template %s: %w", tmpl.ID, err)
		}
	}

	rl.logger.Debugf("rulebook %s: %d taxes, %d schedules, %d acts, %d templates",
		rb.Metadata.Version, len(rb.Taxes), len(rb.Schedules), len(rb.Acts), len(rb.Templates))
	return nil
}

func (rl *RulebookLoader) validateTaxes(taxes []domain.TaxDefinition) error {
	seen := make(map[string]bool)
	for i := range taxes {
		t := &taxes[i]
		if t.ID == "" {
			return fmt.Errorf("tax %d: id is required", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate tax id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Kind == "" {
			t.Kind = domain.TaxPercentage
		}
		if t.Kind != domain.TaxPercentage && t.Kind != domain.TaxFlat {
			return fmt.Errorf("tax %s: unknown kind %q", t.ID, t.Kind)
		}
		if t.Rate.IsNegative() {
			return fmt.Errorf("tax %s: rate cannot be negative", t.ID)
		}
	}
	return nil
}

func (rl *RulebookLoader) validateSchedules(schedules []domain.BracketSchedule) error {
	seen := make(map[string]bool)
	for _, s := range schedules {
		if s.ID == "" {
			return fmt.Errorf("schedule id is required")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate schedule id %q", s.ID)
		}
		seen[s.ID] = true
		if err := calculation.ValidateSchedule(s.ID, s.Brackets); err != nil {
			return err
		}
	}
	return nil
}

func (rl *RulebookLoader) validateCharges(rb *domain.Rulebook) error {
	for _, d := range rb.StepDuties {
		for i, s := range d.Steps {
			if s.Amount.IsNegative() {
				return fmt.Errorf("step duty %s: step %d amount cannot be negative", d.ID, i)
			}
			if i > 0 && !s.UpTo.GreaterThan(d.Steps[i-1].UpTo) {
				return fmt.Errorf("step duty %s: step %d threshold %s must be above %s", d.ID, i, s.UpTo, d.Steps[i-1].UpTo)
			}
		}
		if d.Above.IsNegative() {
			return fmt.Errorf("step duty %s: above amount cannot be negative", d.ID)
		}
	}
	for _, u := range rb.UnitCosts {
		if u.Amount.IsNegative() || u.Per < 0 {
			return fmt.Errorf("unit cost %s: amount and per cannot be negative", u.ID)
		}
	}
	for _, p := range rb.LatePenalties {
		if p.GraceMonths < 0 || p.Amount.IsNegative() {
			return fmt.Errorf("late penalty %s: grace and amount cannot be negative", p.ID)
		}
	}
	return nil
}

func (rl *RulebookLoader) validateAct(catalog calculation.TaxCatalog, act domain.ActType, t *domain.ActTariff) error {
	if !act.Valid() {
		return domain.NewCalcError(domain.KindUnknownRuleReference, string(act), "not a known act type", nil)
	}
	if t == nil {
		return fmt.Errorf("tariff is empty")
	}
	if t.Label == "" {
		return fmt.Errorf("label is required")
	}
	for _, id := range t.Taxes {
		if _, ok := catalog[id]; !ok {
			return domain.NewCalcError(domain.KindUnknownTaxID, id, "referenced by act "+string(act), nil)
		}
	}
	for key, v := range t.Rates {
		if v.IsNegative() {
			return fmt.Errorf("rate %s cannot be negative", key)
		}
	}
	for key, v := range t.Amounts {
		if v.IsNegative() {
			return fmt.Errorf("amount %s cannot be negative", key)
		}
	}
	for _, f := range t.Fees {
		if f.Key == "" || f.Amount.IsNegative() {
			return fmt.Errorf("fee %q needs a key and a non-negative amount", f.Label)
		}
	}
	return nil
}

// resolveScheduleRefs copies shared schedules into the rules that name them
func (rl *RulebookLoader) resolveScheduleRefs(rb *domain.Rulebook, t *domain.TariffTemplate) error {
	for si := range t.Sections {
		rules := t.Sections[si].Rules
		for ri := range rules {
			r := &rules[ri]
			if r.Kind != domain.RuleBracketSchedule || r.ScheduleRef == "" {
				continue
			}
			if len(r.Schedule) > 0 {
				return domain.NewCalcError(domain.KindUnknownRuleReference, r.ID, "rule sets both schedule_ref and an inline schedule", nil)
			}
			s, ok := rb.Schedule(r.ScheduleRef)
			if !ok {
				return domain.NewCalcError(domain.KindUnknownRuleReference, r.ScheduleRef, "schedule referenced by rule "+r.ID+" is not defined", nil)
			}
			r.Schedule = append([]domain.Bracket(nil), s.Brackets...)
		}
	}
	return nil
}
