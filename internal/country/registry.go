package country

import (
	"strings"

	"golang.org/x/text/cases"
)

// Registry maps English country names to ISO-2 codes.
// Lookups are case-insensitive and otherwise exact.
type Registry struct {
	byName map[string]string // folded name -> upper-case code
	names  map[string]string // upper-case code -> primary name
}

// NewRegistry builds a registry from code -> names. The first name of each
// entry is the primary (display) name; the rest are accepted alternates.
func NewRegistry(entries map[string][]string) *Registry {
	r := &Registry{
		byName: make(map[string]string),
		names:  make(map[string]string, len(entries)),
	}
	for code, names := range entries {
		code = strings.ToUpper(code)
		if len(names) == 0 {
			continue
		}
		r.names[code] = names[0]
		for _, name := range names {
			r.byName[r.key(name)] = code
		}
	}
	return r
}

// key folds case. Casers are stateful, so one is built per call.
func (r *Registry) key(name string) string {
	return cases.Fold().String(name)
}

// Lookup returns the upper-case ISO-2 code registered for name.
func (r *Registry) Lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	code, ok := r.byName[r.key(name)]
	return code, ok
}

// Name returns the primary English name for an ISO-2 code.
func (r *Registry) Name(code string) (string, bool) {
	name, ok := r.names[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// Codes returns every registered ISO-2 code.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.names))
	for code := range r.names {
		codes = append(codes, code)
	}
	return codes
}

// englishNames follows the ISO 3166-1 English short names together with the
// common alternates data sources tend to use.
var englishNames = map[string][]string{
	"AD": {"Andorra"},
	"AE": {"United Arab Emirates", "UAE"},
	"AF": {"Afghanistan"},
	"AG": {"Antigua and Barbuda"},
	"AI": {"Anguilla"},
	"AL": {"Albania"},
	"AM": {"Armenia"},
	"AO": {"Angola"},
	"AQ": {"Antarctica"},
	"AR": {"Argentina"},
	"AS": {"American Samoa"},
	"AT": {"Austria"},
	"AU": {"Australia"},
	"AW": {"Aruba"},
	"AX": {"Åland Islands", "Aland Islands"},
	"AZ": {"Azerbaijan"},
	"BA": {"Bosnia and Herzegovina"},
	"BB": {"Barbados"},
	"BD": {"Bangladesh"},
	"BE": {"Belgium"},
	"BF": {"Burkina Faso"},
	"BG": {"Bulgaria"},
	"BH": {"Bahrain"},
	"BI": {"Burundi"},
	"BJ": {"Benin"},
	"BL": {"Saint Barthélemy", "Saint Barthelemy"},
	"BM": {"Bermuda"},
	"BN": {"Brunei Darussalam"},
	"BO": {"Bolivia", "Plurinational State of Bolivia", "Bolivia, Plurinational State of"},
	"BQ": {"Bonaire, Sint Eustatius and Saba"},
	"BR": {"Brazil"},
	"BS": {"Bahamas", "The Bahamas"},
	"BT": {"Bhutan"},
	"BV": {"Bouvet Island"},
	"BW": {"Botswana"},
	"BY": {"Belarus"},
	"BZ": {"Belize"},
	"CA": {"Canada"},
	"CC": {"Cocos (Keeling) Islands"},
	"CD": {"Democratic Republic of the Congo", "Congo, Democratic Republic of the"},
	"CF": {"Central African Republic"},
	"CG": {"Republic of the Congo", "Congo"},
	"CH": {"Switzerland"},
	"CI": {"Côte d'Ivoire", "Cote d'Ivoire"},
	"CK": {"Cook Islands"},
	"CL": {"Chile"},
	"CM": {"Cameroon"},
	"CN": {"China", "People's Republic of China"},
	"CO": {"Colombia"},
	"CR": {"Costa Rica"},
	"CU": {"Cuba"},
	"CV": {"Cabo Verde"},
	"CW": {"Curaçao", "Curacao"},
	"CX": {"Christmas Island"},
	"CY": {"Cyprus"},
	"CZ": {"Czechia"},
	"DE": {"Germany"},
	"DJ": {"Djibouti"},
	"DK": {"Denmark"},
	"DM": {"Dominica"},
	"DO": {"Dominican Republic"},
	"DZ": {"Algeria"},
	"EC": {"Ecuador"},
	"EE": {"Estonia"},
	"EG": {"Egypt"},
	"EH": {"Western Sahara"},
	"ER": {"Eritrea"},
	"ES": {"Spain"},
	"ET": {"Ethiopia"},
	"FI": {"Finland"},
	"FJ": {"Fiji"},
	"FK": {"Falkland Islands (Malvinas)", "Falkland Islands"},
	"FM": {"Micronesia, Federated States of", "Federated States of Micronesia"},
	"FO": {"Faroe Islands"},
	"FR": {"France"},
	"GA": {"Gabon"},
	"GB": {"United Kingdom", "United Kingdom of Great Britain and Northern Ireland"},
	"GD": {"Grenada"},
	"GE": {"Georgia"},
	"GF": {"French Guiana"},
	"GG": {"Guernsey"},
	"GH": {"Ghana"},
	"GI": {"Gibraltar"},
	"GL": {"Greenland"},
	"GM": {"Gambia", "The Gambia", "Republic of The Gambia"},
	"GN": {"Guinea"},
	"GP": {"Guadeloupe"},
	"GQ": {"Equatorial Guinea"},
	"GR": {"Greece"},
	"GS": {"South Georgia and the South Sandwich Islands"},
	"GT": {"Guatemala"},
	"GU": {"Guam"},
	"GW": {"Guinea-Bissau"},
	"GY": {"Guyana"},
	"HK": {"Hong Kong"},
	"HM": {"Heard Island and McDonald Islands"},
	"HN": {"Honduras"},
	"HR": {"Croatia"},
	"HT": {"Haiti"},
	"HU": {"Hungary"},
	"ID": {"Indonesia"},
	"IE": {"Ireland"},
	"IL": {"Israel"},
	"IM": {"Isle of Man"},
	"IN": {"India"},
	"IO": {"British Indian Ocean Territory"},
	"IQ": {"Iraq"},
	"IR": {"Iran, Islamic Republic of", "Islamic Republic of Iran"},
	"IS": {"Iceland"},
	"IT": {"Italy"},
	"JE": {"Jersey"},
	"JM": {"Jamaica"},
	"JO": {"Jordan"},
	"JP": {"Japan"},
	"KE": {"Kenya"},
	"KG": {"Kyrgyz Republic"},
	"KH": {"Cambodia"},
	"KI": {"Kiribati"},
	"KM": {"Comoros"},
	"KN": {"Saint Kitts and Nevis"},
	"KP": {"Korea, Democratic People's Republic of"},
	"KR": {"Korea, Republic of", "Republic of Korea"},
	"KW": {"Kuwait"},
	"KY": {"Cayman Islands"},
	"KZ": {"Kazakhstan"},
	"LA": {"Lao People's Democratic Republic"},
	"LB": {"Lebanon"},
	"LC": {"Saint Lucia"},
	"LI": {"Liechtenstein"},
	"LK": {"Sri Lanka"},
	"LR": {"Liberia"},
	"LS": {"Lesotho"},
	"LT": {"Lithuania"},
	"LU": {"Luxembourg"},
	"LV": {"Latvia"},
	"LY": {"Libya"},
	"MA": {"Morocco"},
	"MC": {"Monaco"},
	"MD": {"Moldova, Republic of", "Republic of Moldova"},
	"ME": {"Montenegro"},
	"MF": {"Saint Martin (French part)"},
	"MG": {"Madagascar"},
	"MH": {"Marshall Islands"},
	"MK": {"North Macedonia", "The Republic of North Macedonia"},
	"ML": {"Mali"},
	"MM": {"Myanmar"},
	"MN": {"Mongolia"},
	"MO": {"Macao"},
	"MP": {"Northern Mariana Islands"},
	"MQ": {"Martinique"},
	"MR": {"Mauritania"},
	"MS": {"Montserrat"},
	"MT": {"Malta"},
	"MU": {"Mauritius"},
	"MV": {"Maldives"},
	"MW": {"Malawi"},
	"MX": {"Mexico"},
	"MY": {"Malaysia"},
	"MZ": {"Mozambique"},
	"NA": {"Namibia"},
	"NC": {"New Caledonia"},
	"NE": {"Niger"},
	"NF": {"Norfolk Island"},
	"NG": {"Nigeria"},
	"NI": {"Nicaragua"},
	"NL": {"Netherlands", "The Netherlands"},
	"NO": {"Norway"},
	"NP": {"Nepal"},
	"NR": {"Nauru"},
	"NU": {"Niue"},
	"NZ": {"New Zealand"},
	"OM": {"Oman"},
	"PA": {"Panama"},
	"PE": {"Peru"},
	"PF": {"French Polynesia"},
	"PG": {"Papua New Guinea"},
	"PH": {"Philippines"},
	"PK": {"Pakistan"},
	"PL": {"Poland"},
	"PM": {"Saint Pierre and Miquelon"},
	"PN": {"Pitcairn", "Pitcairn Islands"},
	"PR": {"Puerto Rico"},
	"PS": {"Palestine, State of", "State of Palestine"},
	"PT": {"Portugal"},
	"PW": {"Palau"},
	"PY": {"Paraguay"},
	"QA": {"Qatar"},
	"RE": {"Réunion", "Reunion"},
	"RO": {"Romania"},
	"RS": {"Serbia"},
	"RU": {"Russian Federation"},
	"RW": {"Rwanda"},
	"SA": {"Saudi Arabia"},
	"SB": {"Solomon Islands"},
	"SC": {"Seychelles"},
	"SD": {"Sudan"},
	"SE": {"Sweden"},
	"SG": {"Singapore"},
	"SH": {"Saint Helena, Ascension and Tristan da Cunha", "Saint Helena"},
	"SI": {"Slovenia"},
	"SJ": {"Svalbard and Jan Mayen"},
	"SK": {"Slovakia"},
	"SL": {"Sierra Leone"},
	"SM": {"San Marino"},
	"SN": {"Senegal"},
	"SO": {"Somalia"},
	"SR": {"Suriname"},
	"SS": {"South Sudan"},
	"ST": {"Sao Tome and Principe"},
	"SV": {"El Salvador"},
	"SX": {"Sint Maarten (Dutch part)"},
	"SY": {"Syrian Arab Republic"},
	"SZ": {"Eswatini", "Kingdom of Eswatini"},
	"TC": {"Turks and Caicos Islands"},
	"TD": {"Chad"},
	"TF": {"French Southern Territories"},
	"TG": {"Togo"},
	"TH": {"Thailand"},
	"TJ": {"Tajikistan"},
	"TK": {"Tokelau"},
	"TL": {"Timor-Leste"},
	"TM": {"Turkmenistan"},
	"TN": {"Tunisia"},
	"TO": {"Tonga"},
	"TR": {"Türkiye", "Turkey"},
	"TT": {"Trinidad and Tobago"},
	"TV": {"Tuvalu"},
	"TW": {"Taiwan, Province of China", "Taiwan"},
	"TZ": {"Tanzania, United Republic of", "United Republic of Tanzania", "Tanzania"},
	"UA": {"Ukraine"},
	"UG": {"Uganda"},
	"UM": {"United States Minor Outlying Islands"},
	"US": {"United States of America", "United States", "USA", "US", "U.S."},
	"UY": {"Uruguay"},
	"UZ": {"Uzbekistan"},
	"VA": {"Holy See (Vatican City State)", "Holy See", "Vatican City"},
	"VC": {"Saint Vincent and the Grenadines"},
	"VE": {"Venezuela, Bolivarian Republic of"},
	"VG": {"Virgin Islands, British", "British Virgin Islands"},
	"VI": {"Virgin Islands, U.S.", "United States Virgin Islands"},
	"VN": {"Viet Nam"},
	"VU": {"Vanuatu"},
	"WF": {"Wallis and Futuna"},
	"WS": {"Samoa"},
	"YE": {"Yemen"},
	"YT": {"Mayotte"},
	"ZA": {"South Africa"},
	"ZM": {"Zambia"},
	"ZW": {"Zimbabwe"},
}
