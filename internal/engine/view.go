package engine

import (
	"strings"
	"time"

	"github.com/samber/mo"
	"github.com/tartampluch/go-calendar/internal/config"
)

// Mode is the calendar granularity shown in the main window.
type Mode int

const (
	ModeMonth Mode = iota
	ModeWeek
	ModeYear
)

// Modes lists the modes in selector order.
var Modes = []Mode{ModeYear, ModeMonth, ModeWeek}

func (m Mode) String() string {
	switch m {
	case ModeYear:
		return config.ViewYear
	case ModeWeek:
		return config.ViewWeek
	default:
		return config.ViewMonth
	}
}

// ParseMode maps a view name back to its Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case config.ViewYear:
		return ModeYear, true
	case config.ViewMonth:
		return ModeMonth, true
	case config.ViewWeek:
		return ModeWeek, true
	}
	return ModeMonth, false
}

// ViewState is the navigation state of the main window.
// Transitions return a new value and never mutate the receiver.
type ViewState struct {
	Mode      Mode
	Reference time.Time

	// ReturnToYear is set while a month reached from the year view is shown.
	// It holds the year-view reference the drill-down started from.
	ReturnToYear mo.Option[time.Time]
}

// NewViewState opens the default view on ref.
func NewViewState(ref time.Time) ViewState {
	mode, _ := ParseMode(config.DefaultView)
	return ViewState{
		Mode:         mode,
		Reference:    StartOfDay(ref),
		ReturnToYear: mo.None[time.Time](),
	}
}

// Navigate moves the reference by delta periods of the current mode:
// years and months keep the day clamped to the target month, weeks move by 7 days.
func (v ViewState) Navigate(delta int) ViewState {
	switch v.Mode {
	case ModeYear:
		v.Reference = AddMonths(v.Reference, delta*config.MonthsPerYear)
	case ModeWeek:
		v.Reference = AddDays(v.Reference, delta*config.DaysPerWeek)
	default:
		v.Reference = AddMonths(v.Reference, delta)
	}
	return v
}

// DrillDown opens the month containing month, remembering the year view.
// Outside the year view it returns v unchanged.
func (v ViewState) DrillDown(month time.Time) ViewState {
	if v.Mode != ModeYear {
		return v
	}
	return ViewState{
		Mode:         ModeMonth,
		Reference:    StartOfMonth(month),
		ReturnToYear: mo.Some(v.Reference),
	}
}

// CanGoBack reports whether Back leads anywhere.
func (v ViewState) CanGoBack() bool {
	return v.Mode == ModeMonth && v.ReturnToYear.IsPresent()
}

// Back returns to the year view of the month being shown.
// Without a pending drill-down it is a no-op.
func (v ViewState) Back() ViewState {
	if !v.CanGoBack() {
		return v
	}
	return ViewState{
		Mode:         ModeYear,
		Reference:    v.Reference,
		ReturnToYear: mo.None[time.Time](),
	}
}

// SwitchView changes the mode and keeps the reference date.
func (v ViewState) SwitchView(mode Mode) ViewState {
	return ViewState{
		Mode:         mode,
		Reference:    v.Reference,
		ReturnToYear: mo.None[time.Time](),
	}
}

// Dialog identifies the modal currently open over the calendar.
type Dialog int

const (
	DialogNone Dialog = iota
	DialogAddEvent
	DialogDayEvents
)

// EventAdder is the part of the store Submit needs.
type EventAdder interface {
	Add(e Event) ([]Event, error)
}

// AppState is the whole interactive state of the calendar window.
type AppState struct {
	View     ViewState
	Selected mo.Option[time.Time]
	Dialog   Dialog
}

// NewAppState returns the initial state for today.
func NewAppState(today time.Time) AppState {
	return AppState{
		View:     NewViewState(today),
		Selected: mo.None[time.Time](),
		Dialog:   DialogNone,
	}
}

// SelectDate opens the add-event dialog for d.
func (s AppState) SelectDate(d time.Time) AppState {
	s.Selected = mo.Some(StartOfDay(d))
	s.Dialog = DialogAddEvent
	return s
}

// ExpandOverflow opens the full event list of d.
func (s AppState) ExpandOverflow(d time.Time) AppState {
	s.Selected = mo.Some(StartOfDay(d))
	s.Dialog = DialogDayEvents
	return s
}

// CloseDialog dismisses any open dialog and clears the selection.
func (s AppState) CloseDialog() AppState {
	s.Selected = mo.None[time.Time]()
	s.Dialog = DialogNone
	return s
}

// FocusDate moves the calendar to d without changing the mode.
func (s AppState) FocusDate(d time.Time) AppState {
	s.View.Reference = StartOfDay(d)
	return s
}

// Submit adds an event on the selected date, keeping the title as typed.
// A blank title, or no open add dialog, leaves the state untouched and adds nothing.
// Once the store accepted the event the dialog closes, even when persisting failed;
// that error is returned for the caller to report.
func (s AppState) Submit(store EventAdder, title, description string) (AppState, []Event, error) {
	selected, ok := s.Selected.Get()
	if !ok || s.Dialog != DialogAddEvent {
		return s, nil, nil
	}
	if strings.TrimSpace(title) == "" {
		return s, nil, nil
	}

	events, err := store.Add(Event{
		Title:       title,
		Date:        FormatDate(selected),
		Description: description,
	})
	return s.CloseDialog(), events, err
}
