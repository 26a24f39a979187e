package domain

import (
	"github.com/shopspring/decimal"
)

// Bracket is one band of a progressive schedule.
//
// Rate is a percentage of the slice of the base that falls inside the band,
// unless IsFlatAmount is set: then Rate is an absolute amount charged once for
// any base that reaches into the band (flat per-segment semantics). Flat bands
// are meant for single-band flat items; genuine progressive schedules should
// use marginal percentages only.
//
// A nil Upper means the band is unbounded; only the last band may be.
type Bracket struct {
	Lower        decimal.Decimal  `yaml:"lower" json:"lower" toml:"lower"`
	Upper        *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty" toml:"upper,omitempty"`
	Rate         decimal.Decimal  `yaml:"rate" json:"rate" toml:"rate"`
	IsFlatAmount bool             `yaml:"flat,omitempty" json:"flat,omitempty" toml:"flat,omitempty"`
}

// IsUnbounded reports whether the band has no upper bound
func (b Bracket) IsUnbounded() bool {
	return b.Upper == nil
}

// BracketSchedule is a named, shared progressive schedule referenced by id
type BracketSchedule struct {
	ID       string    `yaml:"id" json:"id" toml:"id"`
	Label    string    `yaml:"label" json:"label" toml:"label"`
	Brackets []Bracket `yaml:"brackets" json:"brackets" toml:"brackets"`
}

// TaxKind selects how a TaxDefinition is applied to its base
type TaxKind string

const (
	TaxPercentage TaxKind = "percentage"
	TaxFlat       TaxKind = "flat"
)

// TaxDefinition is one overlay charge (VAT, a specific duty) independent of any rule
type TaxDefinition struct {
	ID         string          `yaml:"id" json:"id" toml:"id"`
	Code       string          `yaml:"code" json:"code" toml:"code"`
	Label      string          `yaml:"label" json:"label" toml:"label"`
	Rate       decimal.Decimal `yaml:"rate" json:"rate" toml:"rate"`
	Kind       TaxKind         `yaml:"kind" json:"kind" toml:"kind"`
	AccountTag string          `yaml:"account_tag" json:"accountTag" toml:"account_tag"`
}

// RuleKind tags how a TariffRule derives its base amount
type RuleKind string

const (
	RuleFlat            RuleKind = "flat"
	RulePercentage      RuleKind = "percentage"
	RuleBracketSchedule RuleKind = "bracket_schedule"
	RuleCallerSupplied  RuleKind = "caller_supplied"
)

// Valid reports whether k is one of the known rule kinds
func (k RuleKind) Valid() bool {
	switch k {
	case RuleFlat, RulePercentage, RuleBracketSchedule, RuleCallerSupplied:
		return true
	}
	return false
}

// TariffRule is one atomic charge definition.
//
// ScheduleRef names a shared BracketSchedule; the loader resolves it into
// Schedule. InputKey names the caller-supplied value for RuleCallerSupplied.
// IsPassthrough marks charges collected for a third party; it only matters
// to downstream accounting.
type TariffRule struct {
	ID            string           `yaml:"id" json:"id" toml:"id"`
	Label         string           `yaml:"label" json:"label" toml:"label"`
	Kind          RuleKind         `yaml:"kind" json:"kind" toml:"kind"`
	Value         *decimal.Decimal `yaml:"value,omitempty" json:"value,omitempty" toml:"value,omitempty"`
	ScheduleRef   string           `yaml:"schedule_ref,omitempty" json:"scheduleRef,omitempty" toml:"schedule_ref,omitempty"`
	Schedule      []Bracket        `yaml:"schedule,omitempty" json:"schedule,omitempty" toml:"schedule,omitempty"`
	InputKey      string           `yaml:"input,omitempty" json:"input,omitempty" toml:"input,omitempty"`
	LinkedTaxIDs  []string         `yaml:"taxes,omitempty" json:"taxes,omitempty" toml:"taxes,omitempty"`
	IsPassthrough bool             `yaml:"passthrough,omitempty" json:"passthrough,omitempty" toml:"passthrough,omitempty"`
}

// TariffSection is an ordered group of rules
type TariffSection struct {
	ID    string       `yaml:"id" json:"id" toml:"id"`
	Label string       `yaml:"label" json:"label" toml:"label"`
	Rules []TariffRule `yaml:"rules" json:"rules" toml:"rules"`
}

// TariffTemplate is one act type's full fee schedule as data
type TariffTemplate struct {
	ID       string          `yaml:"id" json:"id" toml:"id"`
	Label    string          `yaml:"label" json:"label" toml:"label"`
	Sections []TariffSection `yaml:"sections" json:"sections" toml:"sections"`
}

// RuleCount returns the number of rules across all sections
func (t *TariffTemplate) RuleCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Rules)
	}
	return n
}

// InputKeys returns the caller-supplied input keys referenced by the template, in order
func (t *TariffTemplate) InputKeys() []string {
	var keys []string
	for _, s := range t.Sections {
		for _, r := range s.Rules {
			if r.Kind == RuleCallerSupplied && r.InputKey != "" {
				keys = append(keys, r.InputKey)
			}
		}
	}
	return keys
}
