package country

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestResolve_StandardNames(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Germany", "de"},
		{"germany", "de"},
		{"GERMANY", "de"},
		{"  France  ", "fr"},
		{"United Kingdom", "gb"},
		{"Russian Federation", "ru"},
		{"Côte d'Ivoire", "ci"},
		{"Korea, Republic of", "kr"},
		{"Falkland Islands (Malvinas)", "fk"},
		{"Türkiye", "tr"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, ok := Resolve(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestResolve_EveryRegistryNameRoundTrips(t *testing.T) {
	for code, names := range englishNames {
		for _, name := range names {
			got, ok := Resolve(name)
			require.True(t, ok, "name %q", name)
			assert.Equal(t, strings.ToLower(code), got, "name %q", name)
		}
	}
}

func TestResolve_AliasesMatchTheirTargets(t *testing.T) {
	for alias, target := range Aliases() {
		t.Run(alias, func(t *testing.T) {
			got, ok := Resolve(alias)
			require.True(t, ok)

			want, ok := Resolve(target)
			require.True(t, ok)
			assert.Equal(t, want, got)

			upper, ok := Resolve(strings.ToUpper(alias))
			require.True(t, ok)
			assert.Equal(t, want, upper)
		})
	}
}

func TestResolve_UnitedStatesVariants(t *testing.T) {
	for _, input := range []string{"United States of America", "United States", "USA", "US", "U.S.", "u.s.", "U.S.A.", "us"} {
		code, ok := Resolve(input)
		require.True(t, ok, input)
		assert.Equal(t, "us", code, input)
	}
}

func TestResolve_Kosovo(t *testing.T) {
	for _, input := range []string{"kosovo", "Kosovo", " KOSOVO "} {
		code, ok := Resolve(input)
		require.True(t, ok, input)
		assert.Equal(t, "xk", code, input)
	}
}

func TestResolve_Unresolved(t *testing.T) {
	for _, input := range []string{"", "   ", "Atlantis", "Narnia", "Republic of Nowhere"} {
		code, ok := Resolve(input)
		assert.False(t, ok, input)
		assert.Empty(t, code, input)
	}
}

func TestResolveWith_StrategyOrder(t *testing.T) {
	tests := []struct {
		input    string
		code     string
		strategy string
	}{
		{"Germany", "de", "exact"},
		{"UK", "gb", "alias"},
		{"U.K.", "gb", "alias"},
		{"russia", "ru", "alias"},
		{"Viet. Nam", "vn", "normalized"},
		{"(Germany)", "de", "normalized"},
		{"United   Kingdom", "gb", "normalized"},
	}

	r := Default()
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			code, strategy, ok := r.ResolveWith(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.strategy, strategy)
		})
	}
}

func TestAliasTargetsAreRegistered(t *testing.T) {
	reg := Default().Registry()
	for alias, target := range aliases {
		if alias == "kosovo" {
			_, ok := reg.Lookup(target)
			assert.False(t, ok, "Kosovo must stay out of the registry")
			continue
		}
		_, ok := reg.Lookup(target)
		assert.True(t, ok, "alias %q points at unknown name %q", alias, target)
		assert.Equal(t, strings.ToLower(alias), alias, "alias keys are lower-case")
	}
}

func TestRegistryCodesAreISORegions(t *testing.T) {
	for _, code := range Default().Registry().Codes() {
		_, err := language.ParseRegion(code)
		assert.NoError(t, err, code)
	}
}

func TestNewResolver_CustomTables(t *testing.T) {
	reg := NewRegistry(map[string][]string{
		"de": {"Germany", "Deutschland"},
	})
	r := NewResolver(reg, map[string]string{"brd": "Germany", "kosovo": "Kosovo"})

	code, ok := r.Resolve("deutschland")
	require.True(t, ok)
	assert.Equal(t, "de", code)

	code, ok = r.Resolve("BRD")
	require.True(t, ok)
	assert.Equal(t, "de", code)

	code, ok = r.Resolve("Kosovo")
	require.True(t, ok)
	assert.Equal(t, "xk", code)

	_, ok = r.Resolve("France")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Cocos Keeling Islands", Normalize(" Cocos (Keeling)  Islands. "))
	assert.Equal(t, "US", Normalize("U.S."))
	assert.Equal(t, "", Normalize("( . )"))
}
