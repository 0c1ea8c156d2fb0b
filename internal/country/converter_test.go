package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlagEmoji(t *testing.T) {
	assert.Equal(t, "🇬🇧", FlagEmoji("gb"))
	assert.Equal(t, "🇩🇪", FlagEmoji("DE"))
	assert.Equal(t, "🌐", FlagEmoji(""))
	assert.Equal(t, "🌐", FlagEmoji("1x"))
	assert.Equal(t, "🌐", FlagEmoji("deu"))
}

func TestFlagURL(t *testing.T) {
	assert.Equal(t, "https://flagcdn.com/w40/gb.png", FlagURL("", "gb"))
	assert.Equal(t, "https://cdn.example/flags/de.png", FlagURL("https://cdn.example/flags/", "DE"))
	assert.Empty(t, FlagURL(DefaultFlagBaseURL, ""))
}

func TestInfo(t *testing.T) {
	assert.Equal(t, CountryInfo{Code: "GB", Name: "United Kingdom", Flag: "🇬🇧"}, Info("gb"))
	assert.Equal(t, CountryInfo{Code: "XK", Name: "Kosovo", Flag: "🇽🇰"}, Info("xk"))
	assert.Equal(t, "Unknown", Info("QQ").Name)
	assert.Equal(t, "UN", Info("").Code)
}

func TestFormatCountryDisplay(t *testing.T) {
	assert.Equal(t, "🇬🇧 UK", FormatCountryDisplay("UK", "gb", true))
	assert.Equal(t, "UK", FormatCountryDisplay("UK", "gb", false))
	assert.Equal(t, "🇽🇰 Kosovo", FormatCountryDisplay("Kosovo", "xk", true))
	assert.Equal(t, "🌐 Atlantis", FormatCountryDisplay("Atlantis", "", true))
	assert.Equal(t, "🌐 Atlantis", FormatCountryDisplay("Atlantis", "qq", true))
	assert.Equal(t, "Unknown", FormatCountryDisplay("  ", "", false))
}
