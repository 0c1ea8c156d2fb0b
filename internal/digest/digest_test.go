package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allocation-board/internal/api"
	"allocation-board/internal/country"
	"allocation-board/internal/view"
)

func rows() []view.Row {
	return view.BuildRows([]api.AllocationRecord{
		{Country: "UK", PctGoal: api.NewPercent(120), IsQualified: true},
		{Country: "Germany", PctGoal: api.NewPercent(64.2), IsQualified: true},
		{Country: "Atlantis", PctGoal: api.NewPercent(8)},
	}, country.Default(), "")
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	d := Build("run-1", "Progress", "US$1,000,000", rows(), 2, []string{"Germany", "France"}, now)

	assert.Equal(t, "run-1", d.RunID)
	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 2, d.QualifiedCount)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, "UK", d.Rows[0].Name)
	assert.Equal(t, []string{"Germany"}, d.NewlyQualified)
	assert.Equal(t, now, d.GeneratedAt)
	assert.False(t, d.Empty())
	assert.Equal(t, "2 of 3 countries qualified towards US$1,000,000", d.Summary())
}

func TestBuild_NoCap(t *testing.T) {
	d := Build("r", "", "", rows(), 0, nil, time.Now())
	assert.Len(t, d.Rows, 3)
	assert.Nil(t, d.NewlyQualified)
}

func TestBuild_Empty(t *testing.T) {
	d := Build("r", "", "", nil, 10, []string{"Germany"}, time.Now())
	assert.True(t, d.Empty())
	assert.Empty(t, d.NewlyQualified)
}

func TestLine(t *testing.T) {
	r := rows()
	assert.Equal(t, "🇬🇧 UK · 120.0% · Qualified", Line(r[0], true))
	assert.Equal(t, "UK · 120.0% · Qualified", Line(r[0], false))
	assert.Equal(t, "🌐 Atlantis · 8.0% · Pending", Line(r[2], true))
}
