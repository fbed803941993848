package settings

// Selector values with special meaning.
const (
	SelectionNone   = "0"
	SelectionCustom = "-1"
)

// Preset is a named transponder configuration.
type Preset struct {
	ID       string
	Label    string
	Coverage string
	Values   map[string]string
}

// DefaultValues are filled in when no preset is selected.
func DefaultValues() map[string]string {
	return map[string]string{
		"frequency":    "",
		"symbolrate":   "",
		"delivery":     "1",
		"modulation":   "qp",
		"polarization": "0",
	}
}

// DefaultPresets is used when the form markup carries no preset options.
func DefaultPresets() []Preset {
	return []Preset{
		transponder("1", "Galaxy 19 (97.0W)", "North America", "11929", "22000", "v"),
		transponder("2", "Hotbird 13 (13.0E)", "Europe, North Africa", "11471", "27500", "v"),
		transponder("3", "Intelsat 20 (68.5E)", "North and West Europe, Subsaharan Africa", "12522", "27500", "v"),
		transponder("4", "AsiaSat 5 C-band (100.5E)", "Middle East, Asia, Australia", "3960", "30000", "h"),
		transponder("5", "Eutelsat (113.0W)", "North, Middle, and South America", "12089", "11719", "h"),
		transponder("6", "ABS-2 (74.9E)", "India", "11734", "44000", "h"),
	}
}

func transponder(id, label, coverage, frequency, symbolrate, polarization string) Preset {
	return Preset{
		ID:       id,
		Label:    label,
		Coverage: coverage,
		Values: map[string]string{
			"frequency":    frequency,
			"symbolrate":   symbolrate,
			"polarization": polarization,
			"delivery":     "DVB-S",
			"modulation":   "QPSK",
		},
	}
}

// matches reports whether every preset value equals the saved value of the
// same field, compared as trimmed strings. Fields the preset does not set
// are ignored.
func matches(preset, saved map[string]string) bool {
	if len(preset) == 0 {
		return false
	}
	for k, pv := range preset {
		sv, ok := saved[k]
		if !ok || trim(pv) != trim(sv) {
			return false
		}
	}
	return true
}
