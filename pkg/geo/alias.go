package geo

import "strings"

// Source identifies an input table whose country spellings need reconciling.
type Source string

const (
	SourceCoordinates Source = "coordinates"
	SourceWorldBank   Source = "worldbank"
	SourcePopulation  Source = "population"
)

// aliases maps source spellings to the canonical (seizure-source) names.
var aliases = map[Source]map[string]string{
	SourceCoordinates: {
		"Moldova":               "Moldova, Republic of",
		"R?union":               "Réunion",
		"Bolivia":               "Bolivia, Plurinational State of",
		"Taiwan":                "Taiwan, Province of China",
		"Iran":                  "Iran, Islamic Republic of",
		"S?o Tom? and Pr?ncipe": "Sao Tome and Principe",
		"Laos":                  "Lao People's Democratic Republic",
		"Macedonia [FYROM]":     "North Macedonia",
		"North Korea":           "Korea, Democratic People's Republic of",
		"Swaziland":             "Eswatini",
		"Saint Lucia":           "St. Lucia",
		"Venezuela":             "Venezuela, Bolivarian Republic of",
		"Tanzania":              "Tanzania, United Republic of",
		"Vietnam":               "Viet Nam",
		"C?te d'Ivoire":         "Côte d'Ivoire",
		"Kosovo":                "Kosovo under UNSCR 1244",
		"Syria":                 "Syrian Arab Republic",
		"Libya":                 "Libyan Arab Jamahiriya",
		"Myanmar [Burma]":       "Myanmar",
		"Russia":                "Russian Federation",
		"South Korea":           "Korea, Republic of",
		"Congo [Republic]":      "Congo",
		"Congo [DRC]":           "Congo, the Democratic Republic of the",
	},
	SourceWorldBank: {
		"Bahamas, The":              "Bahamas",
		"Bolivia":                   "Bolivia, Plurinational State of",
		"Congo, Dem. Rep.":          "Congo, the Democratic Republic of the",
		"Congo, Rep.":               "Congo",
		"Egypt, Arab Rep.":          "Egypt",
		"Gambia, The":               "Gambia",
		"Hong Kong SAR, China":      "Hong Kong",
		"Iran, Islamic Rep.":        "Iran, Islamic Republic of",
		"Korea, Dem. People's Rep.": "Korea, Democratic People's Republic of",
		"Korea, Rep.":               "Korea, Republic of",
		"Kosovo":                    "Kosovo under UNSCR 1244",
		"Kyrgyz Republic":           "Kyrgyzstan",
		"Lao PDR":                   "Lao People's Democratic Republic",
		"Moldova":                   "Moldova, Republic of",
		"Slovak Republic":           "Slovakia",
		"Tanzania":                  "Tanzania, United Republic of",
		"Venezuela, RB":             "Venezuela, Bolivarian Republic of",
		"Vietnam":                   "Viet Nam",
		"Yemen, Rep.":               "Yemen",
	},
	SourcePopulation: {
		"Bolivia (Plurinational State of)":   "Bolivia, Plurinational State of",
		"China, Hong Kong SAR":               "Hong Kong",
		"China, Taiwan Province of China":    "Taiwan, Province of China",
		"Dem. People's Republic of Korea":    "Korea, Democratic People's Republic of",
		"Democratic Republic of the Congo":   "Congo, the Democratic Republic of the",
		"Iran (Islamic Republic of)":         "Iran, Islamic Republic of",
		"Republic of Korea":                  "Korea, Republic of",
		"Republic of Moldova":                "Moldova, Republic of",
		"United Republic of Tanzania":        "Tanzania, United Republic of",
		"Venezuela (Bolivarian Republic of)": "Venezuela, Bolivarian Republic of",
		"Kosovo (under UNSC res. 1244)":      "Kosovo under UNSCR 1244",
		"Saint Lucia":                        "St. Lucia",
		"Curacao":                            "Curaçao",
	},
}

// Canonical returns the canonical spelling of name as reported by source.
func Canonical(source Source, name string) string {
	name = strings.TrimSpace(name)
	if c, ok := aliases[source][name]; ok {
		return c
	}
	return name
}

// Aliases returns a copy of source's alias table.
func Aliases(source Source) map[string]string {
	out := make(map[string]string, len(aliases[source]))
	for k, v := range aliases[source] {
		out[k] = v
	}
	return out
}
