package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/config"
)

// TestCalculateNextOccurrence covers year boundaries and leap days.
func TestCalculateNextOccurrence(t *testing.T) {
	// June 15th, 2025 (common year)
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		birthDate    time.Time
		yearKnown    bool
		expectedDate time.Time
		expectedAge  int
	}{
		{
			name:         "PassedThisYear",
			birthDate:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			yearKnown:    true,
			expectedDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			expectedAge:  36,
		},
		{
			name:         "LaterThisYear",
			birthDate:    time.Date(1990, 12, 31, 0, 0, 0, 0, time.UTC),
			yearKnown:    true,
			expectedDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
			expectedAge:  35,
		},
		{
			name:         "Today",
			birthDate:    time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
			yearKnown:    true,
			expectedDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			expectedAge:  35,
		},
		{
			name:         "YearUnknown",
			birthDate:    time.Date(config.DefaultLeapYear, 1, 1, 0, 0, 0, 0, time.UTC),
			yearKnown:    false,
			expectedDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			expectedAge:  0,
		},
		{
			name:         "LeapDayInCommonYear",
			birthDate:    time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC),
			yearKnown:    true,
			expectedDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			expectedAge:  26,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, age := calculateNextOccurrence(now, tt.birthDate, tt.yearKnown)
			assert.Equal(t, tt.expectedDate, next)
			assert.Equal(t, tt.expectedAge, age)
		})
	}
}

func TestCalculateNextOccurrence_LeapYearContext(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	birthDate := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)

	next, _ := calculateNextOccurrence(now, birthDate, true)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), next)
}

func TestParseDate_YearlessFallsBackToLeapYear(t *testing.T) {
	got, yearKnown, err := parseDate("--02-29")

	require.NoError(t, err)
	assert.False(t, yearKnown)
	assert.Equal(t, config.DefaultLeapYear, got.Year())
	assert.Equal(t, time.February, got.Month())
	assert.Equal(t, 29, got.Day())
}

func TestStableUID(t *testing.T) {
	e := Event{Title: "Christmas", Date: "2025-12-25"}

	assert.Equal(t, stableUID(e, 0), stableUID(e, 0))
	assert.NotEqual(t, stableUID(e, 0), stableUID(e, 1), "salt separates same-day duplicates")
	assert.NotEqual(t, stableUID(e, 0), stableUID(Event{Title: "Christmas", Date: "2026-12-25"}, 0))
}

func TestPaletteColorCycles(t *testing.T) {
	n := len(config.EventPalette)
	for i := 0; i < 2*n; i++ {
		assert.Equal(t, config.EventPalette[i%n], paletteColor(i))
	}
}
