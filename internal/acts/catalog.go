package acts

// catalog lists every act calculator in display order
func catalog() []Calculator {
	return []Calculator{
		venteCalculator(),
		donationCalculator(),
		echangeCalculator(),
		partageCalculator(),
		successionCalculator(),
		pretHypothecaireCalculator(),
		bailCalculator(),
		lotissementCalculator(),
		constitutionSocieteCalculator(),
		augmentationCapitalCalculator(),
		cessionPartsCalculator(),
		dissolutionCalculator(),
		depotCalculator(),
		procurationCalculator(),
		notorieteCalculator(),
	}
}

func amountField(key, label string, required bool) FieldSpec {
	return FieldSpec{Key: key, Label: label, Kind: FieldAmount, Required: required}
}

func countField(key, label string, required bool) FieldSpec {
	return FieldSpec{Key: key, Label: label, Kind: FieldCount, Required: required}
}

func flagField(key, label string) FieldSpec {
	return FieldSpec{Key: key, Label: label, Kind: FieldFlag, Default: "false"}
}

func dateField(key, label string) FieldSpec {
	return FieldSpec{Key: key, Label: label, Kind: FieldDate, Required: true}
}

func choiceField(key, label, def string, choices ...string) FieldSpec {
	return FieldSpec{Key: key, Label: label, Kind: FieldChoice, Default: def, Choices: choices}
}

func withDefault(f FieldSpec, def string) FieldSpec {
	f.Default = def
	return f
}
