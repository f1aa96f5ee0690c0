package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The grid uses it to flag "today" and the store to filter upcoming events.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the local calendar date of c.Now() at midnight.
func Today(c Clock) time.Time {
	return StartOfDay(c.Now())
}
