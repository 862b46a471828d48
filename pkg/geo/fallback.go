package geo

// missingSubRegion overrides the seizure source's sub-region per country.
var missingSubRegion = map[string]string{
	"Albania":                                "East Europe",
	"Antigua and Barbuda":                    "Caribbean",
	"Aruba":                                  "Caribbean",
	"Australia":                              "Oceania",
	"Bahrain":                                "Near and Middle East /South-West Asia",
	"Barbados":                               "Caribbean",
	"Bermuda":                                "Caribbean",
	"Burundi":                                "East Africa",
	"Cameroon":                               "West and Central Africa",
	"Congo, the Democratic Republic of the":  "West and Central Africa",
	"Cook Islands":                           "Oceania",
	"Costa Rica":                             "Central America",
	"Curaçao":                                "Caribbean",
	"Dominica":                               "Caribbean",
	"Equatorial Guinea":                      "West and Central Africa",
	"Eritrea":                                "East Africa",
	"Estonia":                                "East Europe",
	"Faroe Islands":                          "West & Central Europe",
	"Fiji":                                   "Oceania",
	"Gabon":                                  "West and Central Africa",
	"Grenada":                                "Caribbean",
	"Guadeloupe":                             "Caribbean",
	"Guernsey":                               "West & Central Europe",
	"Guyana":                                 "South America",
	"Haiti":                                  "Caribbean",
	"Hong Kong":                              "South Asia",
	"Iraq":                                   "Near and Middle East /South-West Asia",
	"Isle of Man":                            "West & Central Europe",
	"Israel":                                 "Near and Middle East /South-West Asia",
	"Jamaica":                                "Caribbean",
	"Jordan":                                 "Near and Middle East /South-West Asia",
	"Korea, Democratic People's Republic of": "East and South-East Asia",
	"Kosovo under UNSCR 1244":                "East Europe",
	"Kuwait":                                 "Near and Middle East /South-West Asia",
	"Liberia":                                "West and Central Africa",
	"Madagascar":                             "East Africa",
	"Mongolia":                               "East and South-East Asia",
	"Namibia":                                "Southern Africa",
	"Netherlands Antilles":                   "Caribbean",
	"Nicaragua":                              "Central America",
	"Niger":                                  "West and Central Africa",
	"Oman":                                   "Near and Middle East /South-West Asia",
	"Panama":                                 "Central America",
	"Papua New Guinea":                       "Oceania",
	"Puerto Rico":                            "Caribbean",
	"Qatar":                                  "Near and Middle East /South-West Asia",
	"Rwanda":                                 "East Africa",
	"Réunion":                                "South Asia",
	"Saint Pierre and Miquelon":              "North America",
	"Samoa":                                  "Oceania",
	"Sao Tome and Principe":                  "West and Central Africa",
	"Seychelles":                             "East Africa",
	"St. Lucia":                              "Caribbean",
	"Suriname":                               "South America",
	"Taiwan, Province of China":              "East and South-East Asia",
	"Turks and Caicos Islands":               "North America",
	"Viet Nam":                               "East and South-East Asia",
	"Yemen":                                  "Near and Middle East /South-West Asia",
}

// missingRegion overrides the seizure source's region per country.
var missingRegion = map[string]string{
	"Albania":                                "Europe",
	"Antigua and Barbuda":                    "Americas",
	"Aruba":                                  "Americas",
	"Australia":                              "Oceania",
	"Bahrain":                                "Asia",
	"Barbados":                               "Americas",
	"Bermuda":                                "Americas",
	"Burundi":                                "Africa",
	"Cameroon":                               "Africa",
	"Congo, the Democratic Republic of the":  "Africa",
	"Cook Islands":                           "Oceania",
	"Costa Rica":                             "Americas",
	"Curaçao":                                "Americas",
	"Dominica":                               "Americas",
	"Equatorial Guinea":                      "Africa",
	"Eritrea":                                "Africa",
	"Estonia":                                "Europe",
	"Faroe Islands":                          "Europe",
	"Fiji":                                   "Oceania",
	"Gabon":                                  "Africa",
	"Grenada":                                "Americas",
	"Guadeloupe":                             "Americas",
	"Guernsey":                               "Europe",
	"Guyana":                                 "Americas",
	"Haiti":                                  "Americas",
	"Hong Kong":                              "Asia",
	"Iraq":                                   "Asia",
	"Isle of Man":                            "Europe",
	"Israel":                                 "Asia",
	"Jamaica":                                "Americas",
	"Jordan":                                 "Asia",
	"Korea, Democratic People's Republic of": "Asia",
	"Kosovo under UNSCR 1244":                "Europe",
	"Kuwait":                                 "Asia",
	"Liberia":                                "Africa",
	"Madagascar":                             "Africa",
	"Mongolia":                               "Asia",
	"Namibia":                                "Africa",
	"Netherlands Antilles":                   "Americas",
	"Nicaragua":                              "Americas",
	"Niger":                                  "Africa",
	"Oman":                                   "Asia",
	"Panama":                                 "Americas",
	"Papua New Guinea":                       "Oceania",
	"Puerto Rico":                            "Americas",
	"Qatar":                                  "Asia",
	"Rwanda":                                 "Africa",
	"Réunion":                                "Asia",
	"Saint Pierre and Miquelon":              "Americas",
	"Samoa":                                  "Oceania",
	"Sao Tome and Principe":                  "Africa",
	"Seychelles":                             "Africa",
	"St. Lucia":                              "Americas",
	"Suriname":                               "Americas",
	"Taiwan, Province of China":              "Asia",
	"Turks and Caicos Islands":               "Americas",
	"Viet Nam":                               "Asia",
	"Yemen":                                  "Asia",
}

// Fallback returns the literal location for country, if it has one.
func Fallback(country string) (Location, bool) {
	sr, okSub := missingSubRegion[country]
	r, okReg := missingRegion[country]
	if !okSub && !okReg {
		return Location{}, false
	}
	return Location{SubRegion: sr, Region: r}, true
}
