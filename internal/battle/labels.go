package battle

// Labels carries the display vocabulary for one locale. The dashboard shipped
// with several near-identical processor variants differing only in these
// strings; collapsing them into a value keeps a single implementation.
type Labels struct {
	Victory  string
	Defeat   string
	Draw     string
	NoResult string
	Unknown  string
}

func EnglishLabels() Labels {
	return Labels{
		Victory:  "Victory",
		Defeat:   "Defeat",
		Draw:     "Draw",
		NoResult: "No Result",
		Unknown:  "Unknown",
	}
}

func GermanLabels() Labels {
	return Labels{
		Victory:  "Sieg",
		Defeat:   "Niederlage",
		Draw:     "Unentschieden",
		NoResult: "Kein Ergebnis",
		Unknown:  "Unbekannt",
	}
}

func LabelsForLocale(locale string) Labels {
	if locale == "de" {
		return GermanLabels()
	}
	return EnglishLabels()
}
