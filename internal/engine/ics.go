package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-calendar/internal/config"
)

// ExportOptions tunes the iCalendar feed.
type ExportOptions struct {
	// ReminderTrigger is an ISO 8601 duration ("-P1D"). Empty disables alarms.
	ReminderTrigger string
}

// Export renders events as an iCalendar feed, one VEVENT per event in list order.
// Events with a malformed date are skipped. An empty list yields a minimal calendar.
func Export(events []Event, now time.Time, opts ExportOptions) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986 refresh hint
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for i, e := range events {
		event, ok := toVEvent(e, i, opts.ReminderTrigger)
		if !ok {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, e.Date)
			continue
		}
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgExportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(cal.Children),
		config.LogKeySizeBytes, buf.Len())
	return buf.Bytes(), nil
}

// toVEvent maps one event. Timed events get a floating DTSTART and, when the
// duration text is understood, a DURATION; the others are all-day.
func toVEvent(e Event, index int, reminderTrigger string) (*ical.Event, bool) {
	date, ok := e.Day(time.Local)
	if !ok {
		return nil, false
	}

	uid := e.UID
	if uid == "" {
		uid = stableUID(e, index)
	}

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, uid)
	event.Props.SetText(config.PropSummary, e.Title)
	if e.Description != "" {
		event.Props.SetText(config.PropDescription, e.Description)
	}
	if e.Color != "" {
		event.Props.SetText(config.PropXColor, e.Color)
	}

	dtStartProp := ical.NewProp(config.PropDTStart)
	if clock, err := time.Parse(config.TimeFormatClock, strings.TrimSpace(e.Time)); err == nil {
		// Floating local time: no TZID, no UTC suffix.
		dtStartProp.Value = time.Date(date.Year(), date.Month(), date.Day(),
			clock.Hour(), clock.Minute(), 0, 0, time.Local).Format(config.ICalFloatingFormat)
		if d, ok := ParseDuration(e.Duration); ok {
			durationProp := ical.NewProp(config.PropDuration)
			durationProp.SetDuration(d)
			event.Props.Set(durationProp)
		}
	} else {
		dtStartProp.SetDate(date)
	}
	event.Props.Set(dtStartProp)

	if reminderTrigger != "" {
		addAlarm(event, reminderTrigger, e.Title)
	}
	return event, true
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value: SetText would add VALUE=TEXT.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// ParseDuration understands the free-form event durations ("1 hour",
// "3 hours", "30 min", "2 days") as well as Go durations ("1h30m").
func ParseDuration(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, false
	}
	switch unit := fields[1]; {
	case strings.HasPrefix(unit, "min"):
		return time.Duration(n) * time.Minute, true
	case strings.HasPrefix(unit, "h"):
		return time.Duration(n) * time.Hour, true
	case strings.HasPrefix(unit, "day"):
		return time.Duration(n) * 24 * time.Hour, true
	}
	return 0, false
}

// ReminderTrigger builds the ISO 8601 alarm trigger for the reminder settings.
// A disabled or non-positive reminder yields "".
func ReminderTrigger(enabled bool, value int, unit, direction string) string {
	if !enabled || value <= 0 {
		return ""
	}
	prefix := config.ISONegativePrefix
	if direction == config.DirAfter {
		prefix = config.ISOPeriodPrefix
	}
	switch unit {
	case config.UnitHours:
		return fmt.Sprintf("%sT%d%s", prefix, value, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%sT%d%s", prefix, value, config.ISOMinute)
	default:
		return fmt.Sprintf("%s%d%s", prefix, value, config.ISODay)
	}
}
