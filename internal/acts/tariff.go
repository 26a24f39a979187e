package acts

import (
	"fmt"

	"github.com/rgehrsitz/notarycalc/internal/calculation"
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/rgehrsitz/notarycalc/internal/output"
	"github.com/shopspring/decimal"
)

// tariff is an act tariff resolved against its rulebook: every name the
// calculator reads has been checked to exist.
type tariff struct {
	act      domain.ActType
	places   int32
	t        *domain.ActTariff
	taxes    calculation.TaxCatalog
	schedule *domain.BracketSchedule
	step     *domain.StepDuty
	penalty  *domain.LatePenalty
	units    map[string]domain.UnitCost
}

func unknownRef(name, format string, args ...any) error {
	return domain.NewCalcError(domain.KindUnknownRuleReference, name, fmt.Sprintf(format, args...), nil)
}

// bind resolves the act tariff of c against rb
func bind(rb *domain.Rulebook, taxes calculation.TaxCatalog, c *Calculator) (*tariff, error) {
	at, ok := rb.Act(c.Act)
	if !ok {
		return nil, unknownRef(string(c.Act), "rulebook has no tariff for this act")
	}

	t := &tariff{
		act:    c.Act,
		places: rb.RoundingPlaces,
		t:      at,
		taxes:  taxes,
		units:  make(map[string]domain.UnitCost),
	}

	switch {
	case at.Honoraria.Schedule != "" && at.Honoraria.Flat != nil:
		return nil, unknownRef("honoraires", "set either a schedule or a flat amount, not both")
	case at.Honoraria.Schedule != "":
		s, ok := rb.Schedule(at.Honoraria.Schedule)
		if !ok {
			return nil, unknownRef(at.Honoraria.Schedule, "schedule is not defined")
		}
		if err := calculation.ValidateSchedule(s.ID, s.Brackets); err != nil {
			return nil, err
		}
		t.schedule = s
	case at.Honoraria.Flat == nil:
		return nil, unknownRef("honoraires", "a schedule or a flat amount is required")
	}

	for _, id := range at.Taxes {
		if _, ok := taxes[id]; !ok {
			return nil, domain.NewCalcError(domain.KindUnknownTaxID, id, "referenced by act "+string(c.Act), nil)
		}
	}

	for _, key := range c.needs.Rates {
		if _, ok := at.Rates[key]; !ok {
			return nil, unknownRef(key, "rate is not defined")
		}
	}
	for _, key := range c.needs.Amounts {
		if _, ok := at.Amounts[key]; !ok {
			return nil, unknownRef(key, "amount is not defined")
		}
	}
	for _, key := range c.needs.UnitCosts {
		id, ok := at.UnitCosts[key]
		if !ok {
			return nil, unknownRef(key, "unit cost is not mapped")
		}
		u, ok := rb.UnitCost(id)
		if !ok {
			return nil, unknownRef(id, "unit cost is not defined")
		}
		t.units[key] = *u
	}
	if c.needs.LandRegistry {
		if at.LandRegistry == nil {
			return nil, unknownRef("conservation", "land-registry formula is not defined")
		}
		if at.LandRegistry.Mode != domain.OffsetBeforeRate && at.LandRegistry.Mode != domain.OffsetAfterRate {
			return nil, unknownRef("conservation", "unknown offset mode %q", at.LandRegistry.Mode)
		}
	}
	if c.needs.StepDuty {
		s, ok := rb.StepDuty(at.StepDuty)
		if !ok {
			return nil, unknownRef(at.StepDuty, "step duty is not defined")
		}
		t.step = s
	}
	if c.needs.LatePenalty {
		p, ok := rb.LatePenalty(at.LatePenalty)
		if !ok {
			return nil, unknownRef(at.LatePenalty, "late penalty is not defined")
		}
		t.penalty = p
	}

	return t, nil
}

func (t *tariff) builder() *calculation.BreakdownBuilder {
	return calculation.NewBreakdownBuilder(t.act, t.t.Label, t.places)
}

func (t *tariff) rate(key string) decimal.Decimal {
	return t.t.Rates[key]
}

func (t *tariff) amount(key string) decimal.Decimal {
	return t.t.Amounts[key]
}

// honoraria adds the professional fee on base and the taxes linked to it.
// Taxes are computed on the rounded fee so the VAT line matches what is shown.
func (t *tariff) honoraria(b *calculation.BreakdownBuilder, base decimal.Decimal) error {
	var fee decimal.Decimal
	var detail string
	if t.schedule != nil {
		fee = calculation.EvaluateBrackets(base, t.schedule.Brackets)
		detail = fmt.Sprintf("%s sur %s (taux marginal %s)", t.schedule.Label, base.String(),
			output.FormatRate(calculation.MarginalRate(base, t.schedule.Brackets)))
		b.SetField("baseHonoraires", base)
	} else {
		fee = *t.t.Honoraria.Flat
		detail = "forfait"
	}
	fee = b.Add("honoraires", "Honoraires", detail, fee)

	overlay, err := calculation.ApplyTaxes(fee, t.t.Taxes, t.taxes)
	if err != nil {
		return err
	}
	for _, tax := range overlay.Taxes {
		def := t.taxes[tax.TaxID]
		detail := ""
		if def.Kind != domain.TaxFlat {
			detail = output.FormatRate(def.Rate) + " des honoraires"
		}
		b.Add(tax.TaxID, tax.Label, detail, tax.Amount)
	}
	return nil
}

// percentDuty adds a passthrough duty of rate key on base
func (t *tariff) percentDuty(b *calculation.BreakdownBuilder, lineKey, label, rateKey string, base decimal.Decimal) decimal.Decimal {
	rate := t.rate(rateKey)
	return b.AddPassthrough(lineKey, label, fmt.Sprintf("%s de %s", output.FormatRate(rate), base.String()), calculation.Percent(base, rate))
}

// flatDuty adds a passthrough duty of a fixed amount
func (t *tariff) flatDuty(b *calculation.BreakdownBuilder, lineKey, label, amountKey string) decimal.Decimal {
	return b.AddPassthrough(lineKey, label, "forfait", t.amount(amountKey))
}

// landRegistry adds the conservation foncière line when requested
func (t *tariff) landRegistry(b *calculation.BreakdownBuilder, requested bool, value decimal.Decimal) {
	if !requested {
		b.SetField("conservationFonciere", decimal.Zero)
		return
	}
	fee := *t.t.LandRegistry
	var detail string
	if fee.Mode == domain.OffsetBeforeRate {
		detail = fmt.Sprintf("%s de (%s + %s)", output.FormatRate(fee.Rate), value.String(), fee.Offset.String())
	} else {
		detail = fmt.Sprintf("%s de %s + %s", output.FormatRate(fee.Rate), value.String(), fee.Offset.String())
	}
	b.AddPassthrough("conservationFonciere", "Conservation foncière", detail, calculation.EvaluateLandRegistryFee(fee, value))
}

// stepDuty adds the step-threshold duty on value
func (t *tariff) stepDuty(b *calculation.BreakdownBuilder, value decimal.Decimal) {
	b.AddPassthrough("droitsMutation", t.step.Label, "", calculation.EvaluateStepDuty(*t.step, value))
}

// unitCharge adds count units of the unit cost mapped under key
func (t *tariff) unitCharge(b *calculation.BreakdownBuilder, key, lineKey, label string, count int64, passthrough bool) {
	cost := t.units[key]
	detail := fmt.Sprintf("%d × %s", count, cost.Amount.String())
	if cost.Per > 1 {
		detail = fmt.Sprintf("%d × %s / %d", count, cost.Amount.String(), cost.Per)
	}
	amount := calculation.EvaluateUnitCharge(cost, count)
	if passthrough {
		b.AddPassthrough(lineKey, label, detail, amount)
		return
	}
	b.Add(lineKey, label, detail, amount)
}

// latePenalty records the month delay and adds the penalty line
func (t *tariff) latePenalty(b *calculation.BreakdownBuilder, from, to domain.Date) {
	months := calculation.MonthsBetween(from, to)
	b.SetField("moisRetard", decimal.NewFromInt(int64(months)))
	b.AddPassthrough("penalites", t.penalty.Label, fmt.Sprintf("%d mois de retard", months), calculation.EvaluateLatePenalty(*t.penalty, months))
}

// fixedFees adds the act's table-driven ancillary fees in rulebook order
func (t *tariff) fixedFees(b *calculation.BreakdownBuilder) {
	for _, f := range t.t.Fees {
		if f.Passthrough {
			b.AddPassthrough(f.Key, f.Label, "", f.Amount)
			continue
		}
		b.Add(f.Key, f.Label, "", f.Amount)
	}
}
