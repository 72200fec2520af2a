// Package grid materializes calendar views into cells, places events into
// those cells, and computes navigation between views.
//
// All functions are pure. Dates are treated as civil dates: only the
// year, month and day (and hour for hourly cells) of a time.Time matter,
// interpreted in that value's own location.
package grid

import (
	"fmt"
	"strings"
	"time"
)

// View is the display mode of the calendar.
type View int

const (
	Month View = iota
	Week
	Day
)

// String returns the lower-case name of the view.
func (v View) String() string {
	switch v {
	case Week:
		return "week"
	case Day:
		return "day"
	default:
		return "month"
	}
}

// ParseView parses "month", "week" or "day" (case-insensitive).
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month", "":
		return Month, nil
	case "week":
		return Week, nil
	case "day":
		return Day, nil
	default:
		return Month, fmt.Errorf("unknown view %q (use month, week, or day)", s)
	}
}

// HoursPerDay is the number of hour rows in week and day views.
const HoursPerDay = 24

// Layout holds the conventions shared by grid building and navigation.
type Layout struct {
	// WeekStart is the first day of every week: it decides month padding,
	// week view columns and week header labels.
	WeekStart time.Weekday

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Default is the layout used by the package-level helpers. Weeks start on Sunday.
var Default = Layout{WeekStart: time.Sunday}

func (l Layout) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// startOfDay returns midnight of t's civil day in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns midnight of the first day of the week containing t.
func (l Layout) startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) - int(l.WeekStart) + 7) % 7
	return addDays(day, -offset)
}

// addDays returns midnight of the civil day n days after t. Where midnight
// does not exist (DST starting at 00:00) the result is the first instant
// of that day.
func addDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// dayNumber maps a civil date to a monotonically increasing integer so
// dates from different locations compare by their wall-clock day.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// sameDay reports whether a and b fall on the same civil day.
func sameDay(a, b time.Time) bool {
	return dayNumber(a) == dayNumber(b)
}
