package grid

import (
	"fmt"
	"time"
)

// Next moves date forward by one view stride.
func (l Layout) Next(v View, date time.Time) time.Time {
	return step(v, date, 1)
}

// Previous moves date back by one view stride.
func (l Layout) Previous(v View, date time.Time) time.Time {
	return step(v, date, -1)
}

// Step moves date by n view strides; negative n moves backwards.
func (l Layout) Step(v View, date time.Time, n int) time.Time {
	return step(v, date, n)
}

// Today returns midnight of the current day.
func (l Layout) Today() time.Time {
	return startOfDay(l.now())
}

// IsToday reports whether t falls on the current day.
func (l Layout) IsToday(t time.Time) bool {
	return sameDay(t, l.now())
}

func step(v View, date time.Time, n int) time.Time {
	switch v {
	case Week:
		return date.AddDate(0, 0, 7*n)
	case Day:
		return date.AddDate(0, 0, n)
	default:
		return addMonths(date, n)
	}
}

// addMonths adds n calendar months, clamping the day to the last day of
// the target month (Jan 31 + 1 month = Feb 28/29). time.AddDate would
// roll the overflow into the following month instead.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// HeaderLabel formats the title shown above view v for date. Labels are
// always in English.
//
//	month: "June 2024"
//	week:  "Jun 9 - Jun 15, 2024" (the week containing date)
//	day:   "June 10, 2024"
func (l Layout) HeaderLabel(v View, date time.Time) string {
	switch v {
	case Week:
		start := l.startOfWeek(date)
		end := addDays(start, 6)
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
	case Day:
		return date.Format("January 2, 2006")
	default:
		return date.Format("January 2006")
	}
}

// Next moves date forward by one stride using the default layout.
func Next(v View, date time.Time) time.Time { return Default.Next(v, date) }

// Previous moves date back by one stride using the default layout.
func Previous(v View, date time.Time) time.Time { return Default.Previous(v, date) }

// Today returns midnight of the current day.
func Today() time.Time { return Default.Today() }

// HeaderLabel formats the view title using the default layout.
func HeaderLabel(v View, date time.Time) string { return Default.HeaderLabel(v, date) }
