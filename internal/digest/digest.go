// Package digest assembles the periodic allocation summary posted to chat
// webhooks.
package digest

import (
	"fmt"
	"time"

	"allocation-board/internal/country"
	"allocation-board/internal/view"
)

// Digest is one webhook's view of a digest run.
type Digest struct {
	RunID          string
	Title          string
	GoalText       string
	GeneratedAt    time.Time
	Rows           []view.Row // Top rows after filtering
	Total          int        // Rows that passed filtering
	QualifiedCount int        // Qualified rows among Total
	NewlyQualified []string   // Display names, limited to rows that passed filtering
}

// Build caps rows at topN (0 means no cap) and keeps only the newly
// qualified names that belong to rows.
func Build(runID, title, goalText string, rows []view.Row, topN int, newlyQualified []string, now time.Time) Digest {
	d := Digest{
		RunID:       runID,
		Title:       title,
		GoalText:    goalText,
		GeneratedAt: now,
		Total:       len(rows),
	}

	present := make(map[string]bool, len(rows))
	for _, row := range rows {
		present[row.Name] = true
		if row.Qualified {
			d.QualifiedCount++
		}
	}
	for _, name := range newlyQualified {
		if present[name] {
			d.NewlyQualified = append(d.NewlyQualified, name)
		}
	}

	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	d.Rows = rows
	return d
}

// Empty reports whether there is nothing to post.
func (d Digest) Empty() bool {
	return d.Total == 0
}

// Summary is a one-line plain-text description of the digest.
func (d Digest) Summary() string {
	return fmt.Sprintf("%d of %d countries qualified towards %s", d.QualifiedCount, d.Total, d.GoalText)
}

// Line renders one row for chat output, e.g. "🇬🇧 United Kingdom · 55.5% · Qualified".
func Line(row view.Row, showFlags bool) string {
	return country.FormatCountryDisplay(row.Name, row.FlagCode, showFlags) +
		" · " + row.PctText + " · " + row.Badge
}
