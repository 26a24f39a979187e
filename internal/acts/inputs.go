package acts

import (
	"github.com/rgehrsitz/notarycalc/internal/domain"
	"github.com/shopspring/decimal"
)

// Donation relationship choices
const (
	LienDirect     = "direct"
	LienCollateral = "collateral"
	LienTiers      = "tiers"
)

var lienChoices = []string{LienDirect, LienCollateral, LienTiers}

// requireAmount rejects a missing, zero or negative amount
func requireAmount(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.Invalid(field, "must not be negative, got %s", v)
	}
	if v.IsZero() {
		return domain.Missing(field)
	}
	return nil
}

// optionalAmount rejects a negative amount; zero means absent
func optionalAmount(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.Invalid(field, "must not be negative, got %s", v)
	}
	return nil
}

func requireCount(field string, n int64) error {
	if n < 0 {
		return domain.Invalid(field, "must not be negative, got %d", n)
	}
	if n == 0 {
		return domain.Missing(field)
	}
	return nil
}

func optionalCount(field string, n int64) error {
	if n < 0 {
		return domain.Invalid(field, "must not be negative, got %d", n)
	}
	return nil
}

func requireDate(field string, d domain.Date) error {
	if d.IsZero() {
		return domain.Missing(field)
	}
	return nil
}

// firstError returns the first non-nil error
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// VenteInput is a property sale
type VenteInput struct {
	Prix                 decimal.Decimal `json:"prix" yaml:"prix"`
	Morcellement         bool            `json:"morcellement" yaml:"morcellement"`
	ConservationFonciere bool            `json:"conservation_fonciere" yaml:"conservation_fonciere"`
}

func (in *VenteInput) Validate() error {
	return requireAmount("prix", in.Prix)
}

// DonationInput is a gift of property; Lien selects the registration rate
// and defaults to the direct line
type DonationInput struct {
	Valeur               decimal.Decimal `json:"valeur" yaml:"valeur"`
	Lien                 string          `json:"lien" yaml:"lien"`
	ConservationFonciere bool            `json:"conservation_fonciere" yaml:"conservation_fonciere"`
}

func (in *DonationInput) Validate() error {
	if err := requireAmount("valeur", in.Valeur); err != nil {
		return err
	}
	if in.Lien == "" {
		return nil
	}
	for _, c := range lienChoices {
		if in.Lien == c {
			return nil
		}
	}
	return domain.NewCalcError(domain.KindInvalidChoice, "lien", "expected direct, collateral or tiers, got "+in.Lien, nil)
}

// lien returns the relationship, direct line when unset
func (in *DonationInput) lien() string {
	if in.Lien == "" {
		return LienDirect
	}
	return in.Lien
}

// EchangeInput is a property exchange with an optional balancing payment
type EchangeInput struct {
	Valeur               decimal.Decimal `json:"valeur" yaml:"valeur"`
	Soulte               decimal.Decimal `json:"soulte" yaml:"soulte"`
	ConservationFonciere bool            `json:"conservation_fonciere" yaml:"conservation_fonciere"`
}

func (in *EchangeInput) Validate() error {
	return firstError(requireAmount("valeur", in.Valeur), optionalAmount("soulte", in.Soulte))
}

// PartageInput is the partition of a joint estate
type PartageInput struct {
	Masse                decimal.Decimal `json:"masse" yaml:"masse"`
	Soulte               decimal.Decimal `json:"soulte" yaml:"soulte"`
	ConservationFonciere bool            `json:"conservation_fonciere" yaml:"conservation_fonciere"`
}

func (in *PartageInput) Validate() error {
	return firstError(requireAmount("masse", in.Masse), optionalAmount("soulte", in.Soulte))
}

// SuccessionInput is the settlement of an estate
type SuccessionInput struct {
	ActifBrut    decimal.Decimal `json:"actif_brut" yaml:"actif_brut"`
	NombreTitres int64           `json:"nombre_titres" yaml:"nombre_titres"`
}

func (in *SuccessionInput) Validate() error {
	return firstError(requireAmount("actif_brut", in.ActifBrut), optionalCount("nombre_titres", in.NombreTitres))
}

// PretHypothecaireInput is a mortgage-backed loan
type PretHypothecaireInput struct {
	Montant                decimal.Decimal `json:"montant" yaml:"montant"`
	EngagementConservation bool            `json:"engagement_conservation" yaml:"engagement_conservation"`
}

func (in *PretHypothecaireInput) Validate() error {
	return requireAmount("montant", in.Montant)
}

// BailInput is a lease; the taxable base is rent times duration
type BailInput struct {
	LoyerMensuel decimal.Decimal `json:"loyer_mensuel" yaml:"loyer_mensuel"`
	DureeMois    int64           `json:"duree_mois" yaml:"duree_mois"`
}

func (in *BailInput) Validate() error {
	return firstError(requireAmount("loyer_mensuel", in.LoyerMensuel), requireCount("duree_mois", in.DureeMois))
}

// Base is the cumulated rent over the lease
func (in *BailInput) Base() decimal.Decimal {
	return in.LoyerMensuel.Mul(decimal.NewFromInt(in.DureeMois))
}

// LotissementInput is the subdivision of a plot
type LotissementInput struct {
	ValeurTerrain        decimal.Decimal `json:"valeur_terrain" yaml:"valeur_terrain"`
	NombreParcelles      int64           `json:"nombre_parcelles" yaml:"nombre_parcelles"`
	ConservationFonciere bool            `json:"conservation_fonciere" yaml:"conservation_fonciere"`
}

func (in *LotissementInput) Validate() error {
	return firstError(requireAmount("valeur_terrain", in.ValeurTerrain), requireCount("nombre_parcelles", in.NombreParcelles))
}

// ConstitutionSocieteInput is a company formation; capital is cash plus in-kind contributions
type ConstitutionSocieteInput struct {
	CapitalNumeraire decimal.Decimal `json:"capital_numeraire" yaml:"capital_numeraire"`
	CapitalNature    decimal.Decimal `json:"capital_nature" yaml:"capital_nature"`
}

func (in *ConstitutionSocieteInput) Validate() error {
	if err := firstError(optionalAmount("capital_numeraire", in.CapitalNumeraire), optionalAmount("capital_nature", in.CapitalNature)); err != nil {
		return err
	}
	if in.Capital().IsZero() {
		return domain.Missing("capital_numeraire")
	}
	return nil
}

// Capital is the total share capital
func (in *ConstitutionSocieteInput) Capital() decimal.Decimal {
	return in.CapitalNumeraire.Add(in.CapitalNature)
}

// AugmentationCapitalInput is a capital increase
type AugmentationCapitalInput struct {
	AncienCapital  decimal.Decimal `json:"ancien_capital" yaml:"ancien_capital"`
	NouveauCapital decimal.Decimal `json:"nouveau_capital" yaml:"nouveau_capital"`
}

func (in *AugmentationCapitalInput) Validate() error {
	if err := firstError(requireAmount("ancien_capital", in.AncienCapital), requireAmount("nouveau_capital", in.NouveauCapital)); err != nil {
		return err
	}
	if !in.NouveauCapital.GreaterThan(in.AncienCapital) {
		return domain.Invalid("nouveau_capital", "must exceed ancien_capital (%s), got %s", in.AncienCapital, in.NouveauCapital)
	}
	return nil
}

// Increase is the amount of new capital
func (in *AugmentationCapitalInput) Increase() decimal.Decimal {
	return in.NouveauCapital.Sub(in.AncienCapital)
}

// CessionPartsInput is a transfer of company shares
type CessionPartsInput struct {
	Prix               decimal.Decimal `json:"prix" yaml:"prix"`
	DateActe           domain.Date     `json:"date_acte" yaml:"date_acte"`
	DateEnregistrement domain.Date     `json:"date_enregistrement" yaml:"date_enregistrement"`
}

func (in *CessionPartsInput) Validate() error {
	return firstError(
		requireAmount("prix", in.Prix),
		requireDate("date_acte", in.DateActe),
		requireDate("date_enregistrement", in.DateEnregistrement),
	)
}

// DissolutionInput is the winding up of a company
type DissolutionInput struct {
	ActifNet decimal.Decimal `json:"actif_net" yaml:"actif_net"`
}

func (in *DissolutionInput) Validate() error {
	return requireAmount("actif_net", in.ActifNet)
}

// DepotInput is the filing of minutes with the notary
type DepotInput struct {
	DatePV             domain.Date `json:"date_pv" yaml:"date_pv"`
	DateEnregistrement domain.Date `json:"date_enregistrement" yaml:"date_enregistrement"`
	NombreAnnexes      int64       `json:"nombre_annexes" yaml:"nombre_annexes"`
}

func (in *DepotInput) Validate() error {
	return firstError(
		requireDate("date_pv", in.DatePV),
		requireDate("date_enregistrement", in.DateEnregistrement),
		optionalCount("nombre_annexes", in.NombreAnnexes),
	)
}

// ProcurationInput is a power of attorney
type ProcurationInput struct {
	NombreExpeditions int64 `json:"nombre_expeditions" yaml:"nombre_expeditions"`
}

func (in *ProcurationInput) Validate() error {
	return optionalCount("nombre_expeditions", in.NombreExpeditions)
}

// NotorieteInput is an affidavit of heirship
type NotorieteInput struct {
	NombreHeritiers int64 `json:"nombre_heritiers" yaml:"nombre_heritiers"`
}

func (in *NotorieteInput) Validate() error {
	return requireCount("nombre_heritiers", in.NombreHeritiers)
}
