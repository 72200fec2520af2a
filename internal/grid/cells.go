package grid

import (
	"fmt"
	"time"
)

// Cell is one schedulable grid unit: a day in month view, or a day and
// hour in week and day views.
type Cell struct {
	// Date is the start of the cell's day in the anchor's location. That is
	// midnight except on days where DST skips it.
	Date time.Time

	// Hour is the hour row (0-23). Only meaningful when Hourly is set.
	Hour int

	// Hourly marks week and day view cells.
	Hourly bool

	// Outside marks month view days that belong to the neighbouring months.
	Outside bool
}

// Key identifies the cell within a placement: "2006-01-02" for day cells
// and "2006-01-02T15" for hour cells.
func (c Cell) Key() string {
	if c.Hourly {
		return fmt.Sprintf("%sT%02d", c.Date.Format(time.DateOnly), c.Hour)
	}
	return c.Date.Format(time.DateOnly)
}

// Time returns the start of the cell: midnight for day cells, the top of
// the hour for hour cells.
func (c Cell) Time() time.Time {
	if c.Hourly {
		y, m, d := c.Date.Date()
		return time.Date(y, m, d, c.Hour, 0, 0, 0, c.Date.Location())
	}
	return c.Date
}

// Build returns the cells of the given view around anchor using the
// default layout.
func Build(v View, anchor time.Time) []Cell {
	return Default.Build(v, anchor)
}

// Build returns the ordered cells of view v around anchor.
//
// Month views cover whole weeks from the week containing the 1st through
// the week containing the last day of the month. Week views are 7 days by
// 24 hours, ordered hour by hour with the 7 days of each hour in column
// order. Day views are the 24 hours of the anchor day.
func (l Layout) Build(v View, anchor time.Time) []Cell {
	switch v {
	case Week:
		return l.buildWeek(anchor)
	case Day:
		return buildDay(anchor)
	default:
		return l.buildMonth(anchor)
	}
}

func (l Layout) buildMonth(anchor time.Time) []Cell {
	y, m, _ := anchor.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, anchor.Location())
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, anchor.Location())

	start := l.startOfWeek(first)
	n := int(dayNumber(l.startOfWeek(last))-dayNumber(start)) + 7

	cells := make([]Cell, 0, n)
	for i := 0; i < n; i++ {
		d := addDays(start, i)
		cells = append(cells, Cell{
			Date:    d,
			Outside: d.Month() != m,
		})
	}
	return cells
}

func (l Layout) buildWeek(anchor time.Time) []Cell {
	start := l.startOfWeek(anchor)

	var days [7]time.Time
	for i := range days {
		days[i] = addDays(start, i)
	}

	cells := make([]Cell, 0, len(days)*HoursPerDay)
	for h := 0; h < HoursPerDay; h++ {
		for _, d := range days {
			cells = append(cells, Cell{Date: d, Hour: h, Hourly: true})
		}
	}
	return cells
}

func buildDay(anchor time.Time) []Cell {
	day := startOfDay(anchor)
	cells := make([]Cell, 0, HoursPerDay)
	for h := 0; h < HoursPerDay; h++ {
		cells = append(cells, Cell{Date: day, Hour: h, Hourly: true})
	}
	return cells
}

// Days returns the distinct days covered by cells in first-seen order.
func Days(cells []Cell) []time.Time {
	var out []time.Time
	seen := make(map[int64]bool)
	for _, c := range cells {
		n := dayNumber(c.Date)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, c.Date)
	}
	return out
}
