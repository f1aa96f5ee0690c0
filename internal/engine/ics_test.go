package engine_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-calendar/internal/config"
	"github.com/tartampluch/go-calendar/internal/engine"
)

var exportNow = time.Date(2025, 5, 28, 8, 0, 0, 0, time.UTC)

// TestExport_ParsesWithIndependentReader round-trips the feed through a second iCalendar library.
func TestExport_ParsesWithIndependentReader(t *testing.T) {
	events := []engine.Event{
		{UID: "meeting-1", Title: "Team Meeting", Date: "2025-05-28", Time: "10:00", Duration: "1 hour", Color: "#1E90FF"},
		{UID: "xmas-1", Title: "Christmas", Date: "2025-12-25", Description: "Christmas Day celebration", Color: "#FF0000"},
	}

	data, err := engine.Export(events, exportNow, engine.ExportOptions{})
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	require.NoError(t, err)

	parsed := cal.Events()
	require.Len(t, parsed, 2)

	assert.Equal(t, "meeting-1", parsed[0].Id())
	assert.Equal(t, "Team Meeting", parsed[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Contains(t, parsed[0].GetProperty(ics.ComponentPropertyDtStart).Value, "20250528T100000")
	assert.NotNil(t, parsed[0].GetProperty(ics.ComponentPropertyDuration))

	assert.Equal(t, "xmas-1", parsed[1].Id())
	assert.Equal(t, "Christmas Day celebration", parsed[1].GetProperty(ics.ComponentPropertyDescription).Value)
	start, err := parsed[1].GetAllDayStartAt()
	require.NoError(t, err)
	assert.Equal(t, time.December, start.Month())
	assert.Equal(t, 25, start.Day())
	assert.Nil(t, parsed[1].GetProperty(ics.ComponentPropertyDuration), "all-day events carry no duration")

	text := string(data)
	assert.Contains(t, text, "DTSTART;VALUE=DATE:20251225")
	assert.Contains(t, text, config.PropXColor+":#FF0000")
	assert.Contains(t, text, config.ICalProdid)
}

func TestExport_EmptyListIsStub(t *testing.T) {
	data, err := engine.Export(nil, exportNow, engine.ExportOptions{})

	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))

	_, err = ics.ParseCalendar(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestExport_SkipsMalformedDates(t *testing.T) {
	events := []engine.Event{
		{Title: "Broken", Date: "28/05/2025"},
		{Title: "Fine", Date: "2025-05-28"},
	}

	data, err := engine.Export(events, exportNow, engine.ExportOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "BEGIN:VEVENT"))
	assert.NotContains(t, string(data), "Broken")
}

// TestExport_StableUIDs checks that events without a UID still export the same UID every time.
func TestExport_StableUIDs(t *testing.T) {
	events := []engine.Event{{Title: "Legacy", Date: "2025-02-01"}}

	first, err := engine.Export(events, exportNow, engine.ExportOptions{})
	require.NoError(t, err)
	second, err := engine.Export(events, exportNow.Add(time.Hour), engine.ExportOptions{})
	require.NoError(t, err)

	uid := func(data []byte) string {
		cal, err := ics.ParseCalendar(bytes.NewReader(data))
		require.NoError(t, err)
		require.Len(t, cal.Events(), 1)
		return cal.Events()[0].Id()
	}
	assert.NotEmpty(t, uid(first))
	assert.Equal(t, uid(first), uid(second))
}

func TestExport_WithReminder(t *testing.T) {
	events := []engine.Event{{UID: "a", Title: "Workshop", Date: "2025-06-05"}}

	data, err := engine.Export(events, exportNow, engine.ExportOptions{ReminderTrigger: "-P1D"})
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "BEGIN:VALARM")
	assert.Contains(t, text, "TRIGGER:-P1D")
	assert.Contains(t, text, "ACTION:DISPLAY")

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	assert.Len(t, cal.Events()[0].Alarms(), 1)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"1 hour", time.Hour, true},
		{"3 hours", 3 * time.Hour, true},
		{"30 min", 30 * time.Minute, true},
		{"45 minutes", 45 * time.Minute, true},
		{"2 days", 48 * time.Hour, true},
		{"1h30m", 90 * time.Minute, true},
		{"", 0, false},
		{"a while", 0, false},
		{"0 hours", 0, false},
		{"-2h", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := engine.ParseDuration(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReminderTrigger(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		value   int
		unit    string
		dir     string
		want    string
	}{
		{"Disabled", false, 1, config.UnitDays, config.DirBefore, ""},
		{"Zero", true, 0, config.UnitDays, config.DirBefore, ""},
		{"DayBefore", true, 1, config.UnitDays, config.DirBefore, "-P1D"},
		{"HoursBefore", true, 2, config.UnitHours, config.DirBefore, "-PT2H"},
		{"MinutesAfter", true, 15, config.UnitMinutes, config.DirAfter, "PT15M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ReminderTrigger(tt.enabled, tt.value, tt.unit, tt.dir))
		})
	}
}
