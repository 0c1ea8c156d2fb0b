// Package filter provides per-webhook content filtering for allocation rows.
//
// Filter Logic:
//   - nil filters → accept everything
//   - Include rules (whitelist): if set, row MUST match at least one value
//   - Exclude rules (blacklist): if matched, row is dropped
//   - Field groups are AND-combined; values within a group are OR-combined
//   - Exclude is evaluated after include (exclude wins on conflict)
//
// Country values match case-insensitively by name, by alias or by alpha-2
// code, so "UK", "United Kingdom" and "gb" select the same row.
package filter

import (
	"strings"

	"allocation-board/internal/config"
	"allocation-board/internal/view"
)

// Apply returns the rows that pass the filter rules, in their original order.
func Apply(filters *config.WebhookFilters, rows []view.Row, resolver view.CountryResolver) []view.Row {
	if filters == nil {
		return rows
	}

	out := make([]view.Row, 0, len(rows))
	for _, row := range rows {
		if MatchesRow(filters, row, resolver) {
			out = append(out, row)
		}
	}
	return out
}

// MatchesRow returns true if the row passes the webhook's filter rules.
// Returns true when filters is nil (no filtering configured).
func MatchesRow(filters *config.WebhookFilters, row view.Row, resolver view.CountryResolver) bool {
	if filters == nil {
		return true
	}

	countryEquals := func(value string) bool {
		return countryMatches(value, row, resolver)
	}
	if !matchesField(filters.IncludeCountries, filters.ExcludeCountries, countryEquals) {
		return false
	}

	statusEquals := func(value string) bool {
		return strings.EqualFold(strings.TrimSpace(value), row.Badge)
	}
	if !matchesField(filters.IncludeStatuses, filters.ExcludeStatuses, statusEquals) {
		return false
	}

	return filters.MinPercent <= 0 || row.Percent >= filters.MinPercent
}

// matchesField checks a single-value field against include/exclude lists.
func matchesField(include, exclude []string, equals func(string) bool) bool {
	// Include check: value must be in the include list
	if len(include) > 0 {
		found := false
		for _, inc := range include {
			if equals(inc) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	// Exclude check: value must NOT be in the exclude list
	for _, exc := range exclude {
		if equals(exc) {
			return false
		}
	}

	return true
}

// countryMatches compares a filter value against a row's country.
func countryMatches(value string, row view.Row, resolver view.CountryResolver) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.EqualFold(value, strings.TrimSpace(row.Country)) {
		return true
	}
	if row.FlagCode == "" {
		return false
	}
	if len(value) == 2 && strings.EqualFold(value, row.FlagCode) {
		return true
	}
	if resolver != nil {
		if code, ok := resolver.Resolve(value); ok {
			return code == row.FlagCode
		}
	}
	return false
}
