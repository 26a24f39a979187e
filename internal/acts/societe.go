package acts

import (
	"github.com/rgehrsitz/notarycalc/internal/domain"
)

func constitutionSocieteCalculator() Calculator {
	fields := []FieldSpec{
		amountField("capital_numeraire", "Capital en numéraire", false),
		amountField("capital_nature", "Apports en nature", false),
	}
	needs := requirements{
		Rates:   []string{"apports_nature"},
		Amounts: []string{"enregistrement"},
	}
	return define[ConstitutionSocieteInput](domain.ActConstitutionSociete, "capital_numeraire", fields, needs, func(t *tariff, in *ConstitutionSocieteInput) (*domain.Breakdown, error) {
		b := t.builder()
		capital := in.Capital()
		b.SetField("capitalSocial", capital)
		if err := t.honoraria(b, capital); err != nil {
			return nil, err
		}
		t.flatDuty(b, "enregistrement", "Droit fixe d'enregistrement", "enregistrement")
		if in.CapitalNature.IsPositive() {
			t.percentDuty(b, "apportsNature", "Droits sur apports en nature", "apports_nature", in.CapitalNature)
		}
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func augmentationCapitalCalculator() Calculator {
	fields := []FieldSpec{
		amountField("ancien_capital", "Capital actuel", true),
		amountField("nouveau_capital", "Nouveau capital", true),
	}
	needs := requirements{Rates: []string{"enregistrement"}}
	return define[AugmentationCapitalInput](domain.ActAugmentationCapital, "", fields, needs, func(t *tariff, in *AugmentationCapitalInput) (*domain.Breakdown, error) {
		b := t.builder()
		increase := in.Increase()
		b.SetField("augmentation", increase)
		if err := t.honoraria(b, increase); err != nil {
			return nil, err
		}
		t.percentDuty(b, "enregistrement", "Droits d'enregistrement", "enregistrement", increase)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func cessionPartsCalculator() Calculator {
	fields := []FieldSpec{
		amountField("prix", "Prix de cession", true),
		dateField("date_acte", "Date de l'acte"),
		dateField("date_enregistrement", "Date d'enregistrement"),
	}
	needs := requirements{
		Rates:       []string{"enregistrement"},
		LatePenalty: true,
	}
	return define[CessionPartsInput](domain.ActCessionParts, "prix", fields, needs, func(t *tariff, in *CessionPartsInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.Prix); err != nil {
			return nil, err
		}
		t.percentDuty(b, "enregistrement", "Droits d'enregistrement", "enregistrement", in.Prix)
		t.latePenalty(b, in.DateActe, in.DateEnregistrement)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func dissolutionCalculator() Calculator {
	fields := []FieldSpec{
		amountField("actif_net", "Actif net", true),
	}
	needs := requirements{Amounts: []string{"enregistrement"}}
	return define[DissolutionInput](domain.ActDissolution, "actif_net", fields, needs, func(t *tariff, in *DissolutionInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.ActifNet); err != nil {
			return nil, err
		}
		t.flatDuty(b, "enregistrement", "Droit fixe d'enregistrement", "enregistrement")
		t.fixedFees(b)
		return b.Build(), nil
	})
}
