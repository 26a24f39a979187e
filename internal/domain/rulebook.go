package domain

import (
	"github.com/shopspring/decimal"
)

// Rulebook holds the whole tariff regime of one jurisdiction.
// It is loaded once (embedded default or override file), validated, and then
// shared read-only by every calculation.
type Rulebook struct {
	Metadata       RulebookMetadata       `yaml:"metadata" json:"metadata" toml:"metadata"`
	Currency       string                 `yaml:"currency" json:"currency" toml:"currency"`
	RoundingPlaces int32                  `yaml:"rounding_places" json:"roundingPlaces" toml:"rounding_places"`
	Taxes          []TaxDefinition        `yaml:"taxes" json:"taxes" toml:"taxes"`
	Schedules      []BracketSchedule      `yaml:"schedules" json:"schedules" toml:"schedules"`
	StepDuties     []StepDuty             `yaml:"step_duties" json:"stepDuties" toml:"step_duties"`
	UnitCosts      []UnitCost             `yaml:"unit_costs" json:"unitCosts" toml:"unit_costs"`
	LatePenalties  []LatePenalty          `yaml:"late_penalties" json:"latePenalties" toml:"late_penalties"`
	Acts           map[ActType]*ActTariff `yaml:"acts" json:"acts" toml:"acts"`
	Templates      []TariffTemplate       `yaml:"templates" json:"templates" toml:"templates"`
}

// RulebookMetadata identifies the rule set version
type RulebookMetadata struct {
	Version      string `yaml:"version" json:"version" toml:"version"`
	Jurisdiction string `yaml:"jurisdiction" json:"jurisdiction" toml:"jurisdiction"`
	EffectiveOn  string `yaml:"effective_on" json:"effectiveOn" toml:"effective_on"`
	Description  string `yaml:"description" json:"description" toml:"description"`
}

// Step is one threshold of a step-threshold duty: values up to UpTo (inclusive) cost Amount
type Step struct {
	UpTo   decimal.Decimal `yaml:"up_to" json:"upTo" toml:"up_to"`
	Amount decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
}

// StepDuty is a charge that jumps between flat values at thresholds, with no
// blending between them. Values above the last step cost Above.
type StepDuty struct {
	ID    string          `yaml:"id" json:"id" toml:"id"`
	Label string          `yaml:"label" json:"label" toml:"label"`
	Steps []Step          `yaml:"steps" json:"steps" toml:"steps"`
	Above decimal.Decimal `yaml:"above" json:"above" toml:"above"`
}

// UnitCost prices countable items: Amount per Per units (Per defaults to 1)
type UnitCost struct {
	ID     string          `yaml:"id" json:"id" toml:"id"`
	Label  string          `yaml:"label" json:"label" toml:"label"`
	Amount decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
	Per    int64           `yaml:"per,omitempty" json:"per,omitempty" toml:"per,omitempty"`
}

// LatePenalty is a flat charge due when the filing delay in whole calendar
// months is strictly greater than GraceMonths
type LatePenalty struct {
	ID          string          `yaml:"id" json:"id" toml:"id"`
	Label       string          `yaml:"label" json:"label" toml:"label"`
	GraceMonths int             `yaml:"grace_months" json:"graceMonths" toml:"grace_months"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
}

// OffsetMode says where a land-registry fixed offset enters the formula
type OffsetMode string

const (
	// OffsetBeforeRate: rate% × (value + offset)
	OffsetBeforeRate OffsetMode = "before_rate"
	// OffsetAfterRate: rate% × value + offset
	OffsetAfterRate OffsetMode = "after_rate"
)

// LandRegistryFee is the conservation foncière formula of one act
type LandRegistryFee struct {
	Rate   decimal.Decimal `yaml:"rate" json:"rate" toml:"rate"`
	Offset decimal.Decimal `yaml:"offset" json:"offset" toml:"offset"`
	Mode   OffsetMode      `yaml:"mode" json:"mode" toml:"mode"`
}

// HonorariaRule selects either a shared schedule or a flat professional fee
type HonorariaRule struct {
	Schedule string           `yaml:"schedule,omitempty" json:"schedule,omitempty" toml:"schedule,omitempty"`
	Flat     *decimal.Decimal `yaml:"flat,omitempty" json:"flat,omitempty" toml:"flat,omitempty"`
}

// FixedFee is a table-driven ancillary fee of one act
type FixedFee struct {
	Key         string          `yaml:"key" json:"key" toml:"key"`
	Label       string          `yaml:"label" json:"label" toml:"label"`
	Amount      decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
	Passthrough bool            `yaml:"passthrough,omitempty" json:"passthrough,omitempty" toml:"passthrough,omitempty"`
}

// ActTariff holds the constants one act calculator reads. Calculators refer
// to rates, amounts and unit costs by name; the registry checks every name
// exists when it is built.
type ActTariff struct {
	Label        string                     `yaml:"label" json:"label" toml:"label"`
	Honoraria    HonorariaRule              `yaml:"honoraires" json:"honoraires" toml:"honoraires"`
	Taxes        []string                   `yaml:"taxes" json:"taxes" toml:"taxes"`
	Rates        map[string]decimal.Decimal `yaml:"rates,omitempty" json:"rates,omitempty" toml:"rates,omitempty"`
	Amounts      map[string]decimal.Decimal `yaml:"amounts,omitempty" json:"amounts,omitempty" toml:"amounts,omitempty"`
	UnitCosts    map[string]string          `yaml:"unit_costs,omitempty" json:"unitCosts,omitempty" toml:"unit_costs,omitempty"`
	LandRegistry *LandRegistryFee           `yaml:"conservation,omitempty" json:"conservation,omitempty" toml:"conservation,omitempty"`
	StepDuty     string                     `yaml:"step_duty,omitempty" json:"stepDuty,omitempty" toml:"step_duty,omitempty"`
	LatePenalty  string                     `yaml:"late_penalty,omitempty" json:"latePenalty,omitempty" toml:"late_penalty,omitempty"`
	Fees         []FixedFee                 `yaml:"fees,omitempty" json:"fees,omitempty" toml:"fees,omitempty"`
}

// Schedule finds a shared bracket schedule by id
func (rb *Rulebook) Schedule(id string) (*BracketSchedule, bool) {
	for i := range rb.Schedules {
		if rb.Schedules[i].ID == id {
			return &rb.Schedules[i], true
		}
	}
	return nil, false
}

// StepDuty finds a step-threshold duty by id
func (rb *Rulebook) StepDuty(id string) (*StepDuty, bool) {
	for i := range rb.StepDuties {
		if rb.StepDuties[i].ID == id {
			return &rb.StepDuties[i], true
		}
	}
	return nil, false
}

// UnitCost finds a unit cost by id
func (rb *Rulebook) UnitCost(id string) (*UnitCost, bool) {
	for i := range rb.UnitCosts {
		if rb.UnitCosts[i].ID == id {
			return &rb.UnitCosts[i], true
		}
	}
	return nil, false
}

// LatePenalty finds a late-penalty rule by id
func (rb *Rulebook) LatePenalty(id string) (*LatePenalty, bool) {
	for i := range rb.LatePenalties {
		if rb.LatePenalties[i].ID == id {
			return &rb.LatePenalties[i], true
		}
	}
	return nil, false
}

// Act returns the tariff of one act type
func (rb *Rulebook) Act(act ActType) (*ActTariff, bool) {
	t, ok := rb.Acts[act]
	return t, ok && t != nil
}

// Template finds a tariff template by id
func (rb *Rulebook) Template(id string) (*TariffTemplate, bool) {
	for i := range rb.Templates {
		if rb.Templates[i].ID == id {
			return &rb.Templates[i], true
		}
	}
	return nil, false
}
