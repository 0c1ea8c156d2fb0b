package view

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"allocation-board/internal/api"
	"allocation-board/internal/country"
)

const (
	BadgeQualified = "Qualified"
	BadgePending   = "Pending"
	UnknownCountry = "Unknown"
)

// CountryResolver maps a free-text country name to a lowercase alpha-2 code.
type CountryResolver interface {
	Resolve(name string) (string, bool)
}

// Row is the rendered form of one allocation record.
type Row struct {
	Country   string  `json:"country"`    // Raw name from the source
	Name      string  `json:"name"`       // Display name
	FlagCode  string  `json:"flag_code"`  // Empty when unresolved
	FlagURL   string  `json:"flag_url"`   // Empty when unresolved
	FlagEmoji string  `json:"flag_emoji"` // Empty when unresolved
	Percent   float64 `json:"pct_goal"`   // Floored at zero, not capped
	Width     float64 `json:"bar_width"`  // Percent clamped to [0,100]
	PctText   string  `json:"pct_text"`
	Qualified bool    `json:"is_qualified"`
	Badge     string  `json:"badge"`
}

// WidthCSS returns the bar width as a CSS percentage.
func (r Row) WidthCSS() string {
	return strconv.FormatFloat(r.Width, 'f', -1, 64) + "%"
}

// BuildRow converts a record into its view model. An absent percentage
// renders as 0.0%; a non-numeric one renders with no text and an empty bar.
func BuildRow(rec api.AllocationRecord, resolver CountryResolver, flagBaseURL string) Row {
	pct := math.Max(0, rec.PctGoal.Float())

	row := Row{
		Country:   rec.Country,
		Name:      rec.Country,
		Percent:   pct,
		Width:     Clamp(pct, 0, 100),
		PctText:   FormatPct(pct),
		Qualified: rec.IsQualified,
		Badge:     BadgePending,
	}
	if rec.PctGoal.Invalid {
		row.PctText = ""
	}
	if row.Name == "" {
		row.Name = UnknownCountry
	}
	if row.Qualified {
		row.Badge = BadgeQualified
	}

	if resolver != nil {
		if code, ok := resolver.Resolve(rec.Country); ok {
			row.FlagCode = code
			row.FlagURL = country.FlagURL(flagBaseURL, code)
			row.FlagEmoji = country.FlagEmoji(code)
		}
	}

	return row
}

// BuildRows converts records in order. The result is never nil.
func BuildRows(records []api.AllocationRecord, resolver CountryResolver, flagBaseURL string) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, BuildRow(rec, resolver, flagBaseURL))
	}
	return rows
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatPct renders a percentage with one decimal and a "%" suffix.
// Nil, non-numeric strings, NaN and infinities render as "".
// Blank strings count as zero.
func FormatPct(v any) string {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 1, 64) + "%"
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		return parseNumeric(string(n))
	case string:
		return parseNumeric(n)
	case api.Percent:
		return n.Value, n.Valid
	case *api.Percent:
		if n == nil {
			return 0, false
		}
		return n.Value, n.Valid
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
