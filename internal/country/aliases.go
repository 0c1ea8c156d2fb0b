package country

// aliases maps lower-case alternate spellings to a registry name.
// "kosovo" deliberately points at a name the registry does not carry; the
// alias strategy special-cases it to XK.
var aliases = map[string]string{
	"uk":             "United Kingdom",
	"u.k.":           "United Kingdom",
	"gb":             "United Kingdom",
	"great britain":  "United Kingdom",
	"britain":        "United Kingdom",
	"uae":            "United Arab Emirates",
	"u.a.e.":         "United Arab Emirates",
	"usa":            "United States of America",
	"u.s.a.":         "United States of America",
	"united states":  "United States of America",
	"us":             "United States of America",
	"russia":         "Russian Federation",
	"kyrgyzstan":     "Kyrgyz Republic",
	"czech republic": "Czechia",

	"ivory coast":   "Côte d'Ivoire",
	"cote d'ivoire": "Côte d'Ivoire",
	"côte d'ivoire": "Côte d'Ivoire",

	"dr congo":                         "Congo, Democratic Republic of the",
	"democratic republic of the congo": "Congo, Democratic Republic of the",
	"republic of the congo":            "Congo",

	"swaziland":   "Eswatini",
	"cape verde":  "Cabo Verde",
	"palestine":   "Palestine, State of",
	"iran":        "Iran, Islamic Republic of",
	"syria":       "Syrian Arab Republic",
	"moldova":     "Moldova, Republic of",
	"venezuela":   "Venezuela, Bolivarian Republic of",
	"bolivia":     "Bolivia, Plurinational State of",
	"laos":        "Lao People's Democratic Republic",
	"brunei":      "Brunei Darussalam",
	"vietnam":     "Viet Nam",
	"south korea": "Korea, Republic of",
	"north korea": "Korea, Democratic People's Republic of",

	"macau":                 "Macao",
	"hong kong":             "Hong Kong",
	"burma":                 "Myanmar",
	"myanmar":               "Myanmar",
	"north macedonia":       "North Macedonia",
	"são tomé and príncipe": "Sao Tome and Principe",
	"sao tome and principe": "Sao Tome and Principe",

	"micronesia":                       "Micronesia, Federated States of",
	"st kitts and nevis":               "Saint Kitts and Nevis",
	"saint kitts and nevis":            "Saint Kitts and Nevis",
	"st lucia":                         "Saint Lucia",
	"saint lucia":                      "Saint Lucia",
	"st vincent and the grenadines":    "Saint Vincent and the Grenadines",
	"saint vincent and the grenadines": "Saint Vincent and the Grenadines",

	"antigua":             "Antigua and Barbuda",
	"bahamas":             "Bahamas",
	"gambia":              "Gambia",
	"bahrein":             "Bahrain",
	"netherlands the":     "Netherlands",
	"republic of ireland": "Ireland",
	"eswatini":            "Eswatini",
	"kosovo":              "Kosovo",
}

// Aliases returns a copy of the built-in alias table.
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}
