package engine

import (
	"strings"
	"time"

	"github.com/tartampluch/go-calendar/internal/config"
)

// EventSource supplies the events attached to a day cell.
// *EventStore implements it.
type EventSource interface {
	EventsOn(date string) []Event
}

// DayCell is one rendered day. Cells are derived on every render and never stored.
type DayCell struct {
	Date           time.Time
	InCurrentMonth bool
	IsToday        bool
	IsSunday       bool

	// Events holds the visible events, at most the view's cap.
	Events []Event
	// Hidden counts the events left out of Events by the cap.
	Hidden int
}

// Key returns the cell date in event date form.
func (c DayCell) Key() string {
	return FormatDate(c.Date)
}

// MonthGrid is a month laid out in whole weeks.
type MonthGrid struct {
	// Month is the first day of the month.
	Month time.Time
	Rows  [][]DayCell
}

// Cells returns the rows flattened in display order.
func (m MonthGrid) Cells() []DayCell {
	out := make([]DayCell, 0, len(m.Rows)*config.DaysPerWeek)
	for _, row := range m.Rows {
		out = append(out, row...)
	}
	return out
}

// Grid computes the visible day cells for the year, month and week views.
type Grid struct {
	WeekStart time.Weekday
	Clock     Clock

	// MonthCap and WeekCap bound the events attached per cell. Zero means unbounded.
	MonthCap int
	WeekCap  int
}

// NewGrid returns a grid with Sunday-first weeks and the default caps.
func NewGrid(clock Clock) *Grid {
	if clock == nil {
		clock = RealClock{}
	}
	return &Grid{
		WeekStart: time.Sunday,
		Clock:     clock,
		MonthCap:  config.MonthEventCap,
		WeekCap:   config.WeekEventCap,
	}
}

// ParseWeekStart maps a preference value to a weekday. Anything but "monday" is Sunday.
func ParseWeekStart(s string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(s), config.WeekStartMonday) {
		return time.Monday
	}
	return time.Sunday
}

// Month returns the grid of the month containing ref, from the start of the
// week holding the 1st to the end of the week holding the last day.
func (g *Grid) Month(ref time.Time, src EventSource) MonthGrid {
	first := StartOfMonth(ref)
	last := EndOfMonth(ref)
	start := StartOfWeek(first, g.WeekStart)
	end := EndOfWeek(last, g.WeekStart)
	today := Today(g.Clock)

	grid := MonthGrid{Month: first}
	for weekStart := start; !weekStart.After(end); weekStart = AddDays(weekStart, config.DaysPerWeek) {
		row := make([]DayCell, 0, config.DaysPerWeek)
		for i := 0; i < config.DaysPerWeek; i++ {
			day := AddDays(weekStart, i)
			cell := g.cell(day, today, SameMonth(day, first))
			attach(&cell, src, g.MonthCap)
			row = append(row, cell)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}

// Week returns the seven days of the week containing ref.
func (g *Grid) Week(ref time.Time, src EventSource) []DayCell {
	start := StartOfWeek(ref, g.WeekStart)
	today := Today(g.Clock)

	cells := make([]DayCell, 0, config.DaysPerWeek)
	for i := 0; i < config.DaysPerWeek; i++ {
		day := AddDays(start, i)
		cell := g.cell(day, today, SameMonth(day, ref))
		attach(&cell, src, g.WeekCap)
		cells = append(cells, cell)
	}
	return cells
}

// Year returns the twelve month grids of ref's year. Year cells carry no events.
func (g *Grid) Year(ref time.Time) []MonthGrid {
	first := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, ref.Location())
	months := make([]MonthGrid, 0, config.MonthsPerYear)
	for i := 0; i < config.MonthsPerYear; i++ {
		months = append(months, g.Month(AddMonths(first, i), nil))
	}
	return months
}

// Weekdays returns the seven weekdays in display order.
func (g *Grid) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, config.DaysPerWeek)
	for i := 0; i < config.DaysPerWeek; i++ {
		out = append(out, time.Weekday((int(g.WeekStart)+i)%config.DaysPerWeek))
	}
	return out
}

func (g *Grid) cell(day, today time.Time, inMonth bool) DayCell {
	return DayCell{
		Date:           day,
		InCurrentMonth: inMonth,
		IsToday:        SameDay(day, today),
		IsSunday:       day.Weekday() == time.Sunday,
	}
}

func attach(cell *DayCell, src EventSource, limit int) {
	if src == nil {
		return
	}
	all := src.EventsOn(cell.Key())
	if limit > 0 && len(all) > limit {
		cell.Events = all[:limit]
		cell.Hidden = len(all) - limit
		return
	}
	cell.Events = all
}

// -----------------------------------------------------------------------------
// Date arithmetic on local calendar dates (midnight in the value's location)
// -----------------------------------------------------------------------------

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves by whole calendar days, independent of DST shifts.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// AddMonths moves by whole months, clamping the day to the target month's
// length (Jan 31 + 1 month is Feb 28 or 29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns the first day of the week containing t.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(weekStart) + config.DaysPerWeek) % config.DaysPerWeek
	return AddDays(day, -offset)
}

// EndOfWeek returns the last day of the week containing t.
func EndOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	return AddDays(StartOfWeek(t, weekStart), config.DaysPerWeek-1)
}

// StartOfMonth returns the 1st of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	first := StartOfMonth(t)
	return AddDays(first, daysIn(first)-1)
}

// SameDay compares calendar dates, ignoring the clock time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMonth compares year and month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
