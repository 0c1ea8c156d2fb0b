package country

import (
	"strings"
)

// DefaultFlagBaseURL serves 40px-wide PNG flags keyed by lower-case ISO-2 code.
const DefaultFlagBaseURL = "https://flagcdn.com/w40"

// CountryInfo contains country code, name and flag emoji
type CountryInfo struct {
	Code string // ISO-2 country code (e.g., "DE")
	Name string // Registry name (e.g., "Germany")
	Flag string // Unicode flag emoji (e.g., "🇩🇪")
}

// Info converts an ISO-2 country code to CountryInfo.
// Returns fallback values for unknown or invalid codes.
func Info(isoCode string) CountryInfo {
	code := strings.ToUpper(strings.TrimSpace(isoCode))

	if len(code) != 2 {
		return CountryInfo{
			Code: "UN",
			Name: "Unknown",
			Flag: "🌐",
		}
	}

	name, ok := defaultResolver.registry.Name(code)
	if !ok {
		if code != "XK" {
			return CountryInfo{Code: code, Name: "Unknown", Flag: "🌐"}
		}
		name = "Kosovo"
	}

	return CountryInfo{
		Code: code,
		Name: name,
		Flag: FlagEmoji(code),
	}
}

// FlagEmoji converts an ISO-2 country code to its Unicode flag emoji.
// Each flag is composed of two Regional Indicator Symbol letters.
func FlagEmoji(isoCode string) string {
	code := strings.ToUpper(strings.TrimSpace(isoCode))
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "🌐"
	}

	// A = U+1F1E6, B = U+1F1E7, ..., Z = U+1F1FF
	first := rune(0x1F1E6 + int32(code[0]-'A'))
	second := rune(0x1F1E6 + int32(code[1]-'A'))

	return string([]rune{first, second})
}

// FlagURL returns the flag image URL for a lower-case ISO-2 code, or "" when
// code is empty.
func FlagURL(baseURL, code string) string {
	if code == "" {
		return ""
	}
	if baseURL == "" {
		baseURL = DefaultFlagBaseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.ToLower(code) + ".png"
}

// FormatCountryDisplay formats a country for chat output. With showFlag set
// the name is prefixed by the flag of code, or a globe when code is unknown.
func FormatCountryDisplay(name, code string, showFlag bool) string {
	display := strings.TrimSpace(name)
	if display == "" {
		display = "Unknown"
	}
	if !showFlag {
		return display
	}
	return Info(code).Flag + " " + display
}
