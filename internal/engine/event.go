package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-calendar/internal/config"
)

// Event is a single dated calendar entry.
// The JSON field names match the persisted blob format and must not change.
type Event struct {
	// UID identifies the event in exported feeds. Older blobs may lack it.
	UID string `json:"uid,omitempty" yaml:"uid,omitempty"`

	// Title is the only mandatory text field.
	Title string `json:"title" yaml:"title"`

	// Date is the local calendar date in yyyy-MM-dd form.
	Date string `json:"date" yaml:"date"`

	// Time and Duration are free-form display hints ("10:00", "1 hour").
	Time     string `json:"time,omitempty" yaml:"time,omitempty"`
	Duration string `json:"duration,omitempty" yaml:"duration,omitempty"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Color is assigned once, when the event is created, and stored with it.
	Color string `json:"color" yaml:"color,omitempty"`
}

// sameIdentity reports whether two events share the (date, title) pair used for de-duplication.
func (e Event) sameIdentity(o Event) bool {
	return e.Date == o.Date && e.Title == o.Title
}

// Day parses the event date. The second result is false when Date is malformed.
func (e Event) Day(loc *time.Location) (time.Time, bool) {
	t, err := ParseDate(e.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as a yyyy-MM-dd event date.
func FormatDate(t time.Time) string {
	return t.Format(config.DateFormatISO)
}

// ParseDate parses a yyyy-MM-dd event date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(config.DateFormatISO, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	return t, nil
}

// uidNamespace scopes the name-based UUIDs of seeded and legacy events.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte(config.UIDNamespace))

// stableUID derives a deterministic UID so that reloading the same data yields the same feed.
func stableUID(e Event, salt int) string {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprintf("%s|%s|%d", e.Date, e.Title, salt))).String()
}

// paletteColor returns the palette entry for a list of length n.
func paletteColor(n int) string {
	return config.EventPalette[n%len(config.EventPalette)]
}

// DefaultEvents returns the built-in seed set, in seeding order.
func DefaultEvents() []Event {
	events := []Event{
		{Title: "Team Meeting", Date: "2025-05-28", Time: "10:00", Duration: "1 hour", Color: "#1E90FF"},
		{Title: "Workshop", Date: "2025-06-05", Time: "14:00", Duration: "3 hours", Color: "#6A5ACD"},
		{Title: "project Expo", Date: "2025-07-06", Time: "14:00", Duration: "3 hours", Color: "#FF69B4"},
		{Title: "New Year Celebration", Date: "2025-01-01", Description: "Celebrate the new year!", Color: "#FFD700"},
		{Title: "Republic Day", Date: "2025-01-26", Description: "National holiday", Color: "#FF4500"},
		{Title: "Valentine's Day", Date: "2025-02-14", Description: "Celebrate love", Color: "#FF1493"},
		{Title: "Holi", Date: "2025-03-10", Description: "Festival of colors", Color: "#8A2BE2"},
		{Title: "Good Friday", Date: "2025-04-18", Description: "Christian holiday", Color: "#A52A2A"},
		{Title: "Labour Day", Date: "2025-05-01", Description: "International Workers' Day", Color: "#808080"},
		{Title: "Independence Day", Date: "2025-08-15", Description: "National holiday", Color: "#228B22"},
		{Title: "Ganesh Chaturthi", Date: "2025-09-02", Description: "Festival of Lord Ganesha", Color: "#DAA520"},
		{Title: "Dussehra", Date: "2025-10-10", Description: "Victory of good over evil", Color: "#B22222"},
		{Title: "Diwali", Date: "2025-11-01", Description: "Festival of lights", Color: "#FFD700"},
		{Title: "Christmas", Date: "2025-12-25", Description: "Christmas Day celebration", Color: "#FF0000"},
	}
	for i := range events {
		events[i].UID = stableUID(events[i], 0)
	}
	return events
}
