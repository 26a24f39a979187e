package output

import "fmt"

// ReportNotes lists the reading notes printed under detailed outputs
func ReportNotes(r *Report) []string {
	notes := []string{
		fmt.Sprintf("Montants en %s, arrondis à %d décimale(s) ligne par ligne.", r.Currency, r.RoundingPlaces),
	}
	switch {
	case r.Breakdown != nil:
		notes = append(notes, "Le total est la somme des lignes arrondies.")
		if pt := r.Breakdown.PassthroughTotal(); pt.IsPositive() {
			notes = append(notes, "Les lignes marquées * sont des débours reversés à des tiers ("+
				FormatCurrency(pt, r.Currency, r.RoundingPlaces)+").")
		}
	case r.Simulation != nil:
		notes = append(notes, "Le total TTC ajoute aux montants HT les taxes de chaque ligne.")
	}
	return notes
}
