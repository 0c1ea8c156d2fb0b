package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeString(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"22:00", 22 * 60},
		{"07:30", 7*60 + 30},
		{"00:00", 0},
		{"10pm", 22 * 60},
		{"10PM", 22 * 60},
		{"10:30 pm", 22*60 + 30},
		{"7am", 7 * 60},
		{"12am", 0},
		{"12pm", 12 * 60},
		{"24:00", -1},
		{"13pm", -1},
		{"7", -1},
		{"", -1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTimeString(tt.in))
		})
	}
}

func TestQuietHours_IsActiveAt(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
	}

	overnight := &QuietHours{Enabled: true, Start: "22:00", End: "07:00"}
	assert.True(t, overnight.IsActiveAt(at(23, 0)))
	assert.True(t, overnight.IsActiveAt(at(3, 0)))
	assert.False(t, overnight.IsActiveAt(at(7, 0)))
	assert.False(t, overnight.IsActiveAt(at(12, 0)))

	office := &QuietHours{Enabled: true, Start: "9am", End: "5pm"}
	assert.True(t, office.IsActiveAt(at(9, 0)))
	assert.False(t, office.IsActiveAt(at(17, 0)))

	disabled := &QuietHours{Enabled: false, Start: "00:00", End: "23:59"}
	assert.False(t, disabled.IsActiveAt(at(12, 0)))

	var none *QuietHours
	assert.False(t, none.IsActiveAt(at(12, 0)))

	badZone := &QuietHours{Enabled: true, Start: "00:00", End: "23:59", Timezone: "Nowhere/Land"}
	assert.False(t, badZone.IsActiveAt(at(12, 0)))

	badBound := &QuietHours{Enabled: true, Start: "soon", End: "23:59"}
	assert.False(t, badBound.IsActiveAt(at(12, 0)))
}

func TestQuietHours_Timezone(t *testing.T) {
	// 23:30 UTC is 00:30 in London during BST
	q := &QuietHours{Enabled: true, Start: "00:00", End: "01:00", Timezone: "Europe/London"}
	assert.True(t, q.IsActiveAt(time.Date(2026, 7, 1, 23, 30, 0, 0, time.UTC)))
	assert.False(t, q.IsActiveAt(time.Date(2026, 1, 1, 23, 30, 0, 0, time.UTC)))
}
