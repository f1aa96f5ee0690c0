package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

// fakeSource serves a fixed map of events per date.
type fakeSource map[string][]engine.Event

func (f fakeSource) EventsOn(date string) []engine.Event {
	return f[date]
}

// TestMonth_WholeWeeks checks every month of two years for both week starts.
func TestMonth_WholeWeeks(t *testing.T) {
	for _, ws := range []time.Weekday{time.Sunday, time.Monday} {
		g := engine.NewGrid(clockAt(2025, 5, 28))
		g.WeekStart = ws

		for m := 0; m < 24; m++ {
			ref := day(2025, time.January, 15).AddDate(0, m, 0)
			grid := g.Month(ref, nil)
			cells := grid.Cells()

			require.GreaterOrEqual(t, len(cells), 28, ref.Format("2006-01"))
			assert.Zero(t, len(cells)%config.DaysPerWeek)
			assert.LessOrEqual(t, len(grid.Rows), 6)
			assert.Equal(t, ws, cells[0].Date.Weekday())

			seen := map[int]int{}
			for i, c := range cells {
				if i > 0 {
					assert.Equal(t, engine.AddDays(cells[i-1].Date, 1), c.Date, "cells are consecutive days")
				}
				assert.Equal(t, engine.SameMonth(c.Date, ref), c.InCurrentMonth)
				if c.InCurrentMonth {
					seen[c.Date.Day()]++
				}
			}
			last := engine.EndOfMonth(ref).Day()
			assert.Len(t, seen, last)
			for d := 1; d <= last; d++ {
				assert.Equal(t, 1, seen[d], "day %d of %s", d, ref.Format("2006-01"))
			}
		}
	}
}

func TestMonth_RowCounts(t *testing.T) {
	g := engine.NewGrid(clockAt(2025, 5, 28))

	tests := []struct {
		name string
		ref  time.Time
		rows int
	}{
		{"FebruaryStartingSunday", day(2026, time.February, 10), 4},
		{"MaySpansFiveWeeks", day(2025, time.May, 28), 5},
		{"AugustSpansSixWeeks", day(2025, time.August, 1), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, g.Month(tt.ref, nil).Rows, tt.rows)
		})
	}
}

// TestWeek_SundayStart pins the week of 2025-05-28.
func TestWeek_SundayStart(t *testing.T) {
	g := engine.NewGrid(clockAt(2025, 5, 28))

	cells := g.Week(day(2025, time.May, 28), nil)

	require.Len(t, cells, 7)
	assert.Equal(t, "2025-05-25", cells[0].Key())
	assert.Equal(t, "2025-05-31", cells[6].Key())

	todays := 0
	for i, c := range cells {
		assert.Equal(t, i == 0, c.IsSunday, c.Key())
		if c.IsToday {
			todays++
			assert.Equal(t, "2025-05-28", c.Key())
		}
	}
	assert.Equal(t, 1, todays)
}

func TestWeek_MondayStart(t *testing.T) {
	g := engine.NewGrid(clockAt(2025, 5, 28))
	g.WeekStart = engine.ParseWeekStart(config.WeekStartMonday)

	cells := g.Week(day(2025, time.May, 28), nil)

	assert.Equal(t, "2025-05-26", cells[0].Key())
	assert.Equal(t, "2025-06-01", cells[6].Key())
	assert.True(t, cells[6].IsSunday)
	assert.False(t, cells[6].InCurrentMonth)
}

func TestGrid_EventCaps(t *testing.T) {
	src := fakeSource{
		"2025-05-28": {
			{Title: "Team Meeting", Date: "2025-05-28"},
			{Title: "Standup", Date: "2025-05-28"},
			{Title: "Retro", Date: "2025-05-28"},
		},
		"2025-05-29": {{Title: "Lunch", Date: "2025-05-29"}},
	}
	g := engine.NewGrid(clockAt(2025, 5, 28))

	byKey := map[string]engine.DayCell{}
	for _, c := range g.Month(day(2025, time.May, 1), src).Cells() {
		byKey[c.Key()] = c
	}
	busy := byKey["2025-05-28"]
	assert.Equal(t, []string{"Team Meeting", "Standup"}, titles(busy.Events))
	assert.Equal(t, 1, busy.Hidden)
	assert.Len(t, byKey["2025-05-29"].Events, 1)
	assert.Zero(t, byKey["2025-05-29"].Hidden)
	assert.Empty(t, byKey["2025-05-30"].Events)

	week := g.Week(day(2025, time.May, 28), src)
	assert.Len(t, week[3].Events, 3, "week cells are uncapped")
	assert.Zero(t, week[3].Hidden)
}

func TestGrid_WithStore(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Add(engine.Event{Title: "Standup", Date: "2025-05-28"})
	require.NoError(t, err)

	g := engine.NewGrid(clockAt(2025, 5, 28))
	week := g.Week(day(2025, time.May, 28), store)

	assert.Equal(t, []string{"Team Meeting", "Standup"}, titles(week[3].Events))
	assert.True(t, week[3].IsToday)
}

func TestYear(t *testing.T) {
	g := engine.NewGrid(clockAt(2025, 5, 28))

	months := g.Year(day(2025, time.July, 31))

	require.Len(t, months, config.MonthsPerYear)
	for i, m := range months {
		assert.Equal(t, time.Month(i+1), m.Month.Month())
		assert.Equal(t, 2025, m.Month.Year())
		for _, c := range m.Cells() {
			assert.Empty(t, c.Events)
		}
	}
}

func TestAddMonths_ClampsDay(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"IntoCommonFebruary", day(2025, time.January, 31), 1, day(2025, time.February, 28)},
		{"IntoLeapFebruary", day(2024, time.January, 31), 1, day(2024, time.February, 29)},
		{"Backwards", day(2025, time.March, 31), -1, day(2025, time.February, 28)},
		{"AcrossYear", day(2025, time.December, 15), 1, day(2026, time.January, 15)},
		{"TwelveFromLeapDay", day(2024, time.February, 29), 12, day(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.AddMonths(tt.from, tt.n))
		})
	}
}

func TestWeekdays(t *testing.T) {
	g := engine.NewGrid(nil)
	assert.Equal(t, time.Sunday, g.Weekdays()[0])

	g.WeekStart = time.Monday
	wd := g.Weekdays()
	assert.Equal(t, time.Monday, wd[0])
	assert.Equal(t, time.Sunday, wd[6])
}

func TestParseWeekStart(t *testing.T) {
	assert.Equal(t, time.Monday, engine.ParseWeekStart("Monday"))
	assert.Equal(t, time.Sunday, engine.ParseWeekStart(config.WeekStartSunday))
	assert.Equal(t, time.Sunday, engine.ParseWeekStart("wednesday"))
	assert.Equal(t, time.Sunday, engine.ParseWeekStart(""))
}
