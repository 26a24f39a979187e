package acts

import (
	"github.com/rgehrsitz/notarycalc/internal/domain"
)

func venteCalculator() Calculator {
	fields := []FieldSpec{
		amountField("prix", "Prix de vente", true),
		flagField("morcellement", "Morcellement"),
		flagField("conservation_fonciere", "Conservation foncière"),
	}
	needs := requirements{
		Rates:        []string{"enregistrement"},
		UnitCosts:    []string{"morcellement"},
		LandRegistry: true,
		StepDuty:     true,
	}
	return define[VenteInput](domain.ActVente, "prix", fields, needs, func(t *tariff, in *VenteInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.Prix); err != nil {
			return nil, err
		}
		t.percentDuty(b, "enregistrement", "Droits d'enregistrement", "enregistrement", in.Prix)
		t.stepDuty(b, in.Prix)
		t.landRegistry(b, in.ConservationFonciere, in.Prix)
		if in.Morcellement {
			t.unitCharge(b, "morcellement", "morcellement", "Morcellement", 1, true)
		}
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func donationCalculator() Calculator {
	fields := []FieldSpec{
		amountField("valeur", "Valeur du bien", true),
		choiceField("lien", "Lien de parenté", LienDirect, lienChoices...),
		flagField("conservation_fonciere", "Conservation foncière"),
	}
	needs := requirements{
		Rates:        []string{"enregistrement_direct", "enregistrement_collateral", "enregistrement_tiers"},
		LandRegistry: true,
	}
	return define[DonationInput](domain.ActDonation, "valeur", fields, needs, func(t *tariff, in *DonationInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.Valeur); err != nil {
			return nil, err
		}
		lien := in.lien()
		t.percentDuty(b, "enregistrement", "Droits d'enregistrement ("+lien+")", "enregistrement_"+lien, in.Valeur)
		t.landRegistry(b, in.ConservationFonciere, in.Valeur)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func echangeCalculator() Calculator {
	fields := []FieldSpec{
		amountField("valeur", "Valeur des biens échangés", true),
		amountField("soulte", "Soulte", false),
		flagField("conservation_fonciere", "Conservation foncière"),
	}
	needs := requirements{
		Rates:        []string{"enregistrement", "soulte"},
		LandRegistry: true,
		StepDuty:     true,
	}
	return define[EchangeInput](domain.ActEchange, "valeur", fields, needs, func(t *tariff, in *EchangeInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.Valeur); err != nil {
			return nil, err
		}
		t.percentDuty(b, "enregistrement", "Droits d'enregistrement", "enregistrement", in.Valeur)
		if in.Soulte.IsPositive() {
			t.percentDuty(b, "enregistrementSoulte", "Droits sur soulte", "soulte", in.Soulte)
		}
		t.stepDuty(b, in.Valeur)
		t.landRegistry(b, in.ConservationFonciere, in.Valeur)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func partageCalculator() Calculator {
	fields := []FieldSpec{
		amountField("masse", "Masse partageable", true),
		amountField("soulte", "Soulte", false),
		flagField("conservation_fonciere", "Conservation foncière"),
	}
	needs := requirements{
		Rates:        []string{"enregistrement", "soulte"},
		LandRegistry: true,
	}
	return define[PartageInput](domain.ActPartage, "masse", fields, needs, func(t *tariff, in *PartageInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.Masse); err != nil {
			return nil, err
		}
		t.percentDuty(b, "enregistrement", "Droit de partage", "enregistrement", in.Masse)
		if in.Soulte.IsPositive() {
			t.percentDuty(b, "enregistrementSoulte", "Droits sur soulte", "soulte", in.Soulte)
		}
		t.landRegistry(b, in.ConservationFonciere, in.Masse)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func pretHypothecaireCalculator() Calculator {
	fields := []FieldSpec{
		amountField("montant", "Montant du prêt", true),
		flagField("engagement_conservation", "Inscription hypothécaire"),
	}
	needs := requirements{
		Rates:        []string{"enregistrement"},
		LandRegistry: true,
	}
	return define[PretHypothecaireInput](domain.ActPretHypothecaire, "montant", fields, needs, func(t *tariff, in *PretHypothecaireInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.Montant); err != nil {
			return nil, err
		}
		t.percentDuty(b, "enregistrement", "Droits d'enregistrement", "enregistrement", in.Montant)
		t.landRegistry(b, in.EngagementConservation, in.Montant)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func bailCalculator() Calculator {
	fields := []FieldSpec{
		amountField("loyer_mensuel", "Loyer mensuel", true),
		countField("duree_mois", "Durée (mois)", true),
	}
	needs := requirements{Rates: []string{"enregistrement"}}
	return define[BailInput](domain.ActBail, "", fields, needs, func(t *tariff, in *BailInput) (*domain.Breakdown, error) {
		b := t.builder()
		base := in.Base()
		b.SetField("loyersCumules", base)
		if err := t.honoraria(b, base); err != nil {
			return nil, err
		}
		t.percentDuty(b, "enregistrement", "Droits d'enregistrement", "enregistrement", base)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

func lotissementCalculator() Calculator {
	fields := []FieldSpec{
		amountField("valeur_terrain", "Valeur du terrain", true),
		countField("nombre_parcelles", "Nombre de parcelles", true),
		flagField("conservation_fonciere", "Conservation foncière"),
	}
	needs := requirements{
		UnitCosts:    []string{"morcellement"},
		LandRegistry: true,
	}
	return define[LotissementInput](domain.ActLotissement, "valeur_terrain", fields, needs, func(t *tariff, in *LotissementInput) (*domain.Breakdown, error) {
		b := t.builder()
		if err := t.honoraria(b, in.ValeurTerrain); err != nil {
			return nil, err
		}
		t.landRegistry(b, in.ConservationFonciere, in.ValeurTerrain)
		t.unitCharge(b, "morcellement", "morcellement", "Morcellement", in.NombreParcelles, true)
		t.fixedFees(b)
		return b.Build(), nil
	})
}

