package acts

import (
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

func successionCalculator() Calculator {
	fields := []FieldSpec{
		amountField("actif_brut", "Actif brut successoral", true),
		countField("nombre_titres", "Titres à muter", false),
	}
	needs := requirements{
		Amounts:   []string{"enregistrement"},
		UnitCosts: []string{"titres"},
	}
	return define[SuccessionInput](domain.ActSuccession, "actif_brut", fields, needs, func(t *tariff, in *SuccessionInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.ActifBrut); err != nil {
			return nil, err
		}
		t.flatDuty(b, "enregistrement", "Droit fixe d'enregistrement", "enregistrement")
		if in.NombreTitres > 0 {
			t.unitCharge(b, "titres", "mutationTitres", "Mutation des titres fonciers", in.NombreTitres, true)
		}
		t.fixedFees(b)
		return b.Build(), nil
	})
}

// depotCalculator prices the filing of minutes. The penalty line is always
// shown, at zero when the filing is on time.
func depotCalculator() Calculator {
	fields := []FieldSpec{
		withDefault(dateField("date_pv", "Date du procès-verbal"), "2008-01-01"),
		withDefault(dateField("date_enregistrement", "Date d'enregistrement"), "2008-12-31"),
		withDefault(countField("nombre_annexes", "Nombre d'annexes", false), "12"),
	}
	needs := requirements{
		Amounts:     []string{"enregistrement"},
		UnitCosts:   []string{"annexes"},
		LatePenalty: true,
	}
	return define[DepotInput](domain.ActDepot, "", fields, needs, func(t *tariff, in *DepotInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, decimal.Zero); err != nil {
			return nil, err
		}
		t.flatDuty(b, "enregistrement", "Enregistrement", "enregistrement")
		t.unitCharge(b, "annexes", "fraisAnnexes", "Frais d'annexes", in.NombreAnnexes, false)
		t.latePenalty(b, in.DatePV, in.DateEnregistrement)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func procurationCalculator() Calculator {
	fields := []FieldSpec{
		withDefault(countField("nombre_expeditions", "Nombre d'expéditions", false), "1"),
	}
	needs := requirements{
		Amounts:   []string{"enregistrement"},
		UnitCosts: []string{"expeditions"},
	}
	return define[ProcurationInput](domain.ActProcuration, "", fields, needs, func(t *tariff, in *ProcurationInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, decimal.Zero); err != nil {
			return nil, err
		}
		t.flatDuty(b, "enregistrement", "Enregistrement", "enregistrement")
		t.unitCharge(b, "expeditions", "expeditions", "Expéditions", in.NombreExpeditions, false)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func notorieteCalculator() Calculator {
	fields := []FieldSpec{
		countField("nombre_heritiers", "Nombre d'héritiers", true),
	}
	needs := requirements{
		Amounts:   []string{"enregistrement"},
		UnitCosts: []string{"heritiers"},
	}
	return define[NotorieteInput](domain.ActNotoriete, "", fields, needs, func(t *tariff, in *NotorieteInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, decimal.Zero); err != nil {
			return nil, err
		}
		t.flatDuty(b, "enregistrement", "Enregistrement", "enregistrement")
		t.unitCharge(b, "heritiers", "mentionsHeritiers", "Mentions d'héritiers", in.NombreHeritiers, false)
		t.fixedFees(b)
		return b.Build(), nil
	})
}
