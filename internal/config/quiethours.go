package config

import (
	"strings"
	"time"

	// Embed IANA timezone database for cross-platform support (Windows, minimal Docker images).
	_ "time/tzdata"
)

// IsActive returns true when the current time falls within the quiet hours window.
func (q *QuietHours) IsActive() bool {
	return q.IsActiveAt(time.Now())
}

// IsActiveAt returns true when the given time falls within the quiet hours window.
// Returns false if the receiver is nil or Enabled is false.
// Fail-open: returns false on an invalid timezone or bound, so the digest is
// posted rather than silently held.
func (q *QuietHours) IsActiveAt(now time.Time) bool {
	if q == nil || !q.Enabled {
		return false
	}

	tz := q.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return false
	}

	startMinutes := parseTimeString(q.Start)
	endMinutes := parseTimeString(q.End)
	if startMinutes < 0 || endMinutes < 0 {
		return false
	}

	local := now.In(loc)
	current := local.Hour()*60 + local.Minute()

	if startMinutes <= endMinutes {
		// Same-day window, e.g. 08:00-17:00
		return current >= startMinutes && current < endMinutes
	}
	// Midnight-crossing window, e.g. 22:00-07:00
	return current >= startMinutes || current < endMinutes
}

// parseTimeString converts a time string to minutes-of-day.
// Supports 24h format ("22:00", "07:00") and 12h format ("10pm", "10PM",
// "10:30pm", "10:30 PM", "7am", "7:00 AM").
// Returns -1 on invalid input.
func parseTimeString(s string) int {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	if strings.HasSuffix(lower, "am") || strings.HasSuffix(lower, "pm") {
		isPM := strings.HasSuffix(lower, "pm")
		timePart := strings.TrimSpace(lower[:len(lower)-2])

		h, m := 0, 0
		if idx := strings.IndexByte(timePart, ':'); idx >= 0 {
			h = parseDigits(timePart[:idx])
			m = parseDigits(timePart[idx+1:])
		} else {
			h = parseDigits(timePart)
		}

		if h < 1 || h > 12 || m < 0 || m > 59 {
			return -1
		}

		// 12am = 0, 12pm = 12
		if h == 12 {
			h = 0
		}
		if isPM {
			h += 12
		}
		return h*60 + m
	}

	if len(s) == 5 && s[2] == ':' {
		h := parseDigits(s[:2])
		m := parseDigits(s[3:])
		if h < 0 || h > 23 || m < 0 || m > 59 {
			return -1
		}
		return h*60 + m
	}

	return -1
}

// parseDigits parses a string of digits into an integer.
// Returns -1 if the string is empty or contains non-digit characters.
func parseDigits(s string) int {
	if len(s) == 0 {
		return -1
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	return n
}
