package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/grid"
	"github.com/cpuguy83/calgrid/internal/links"
)

// Event renders the detail view of a single event.
func (r *Renderer) Event(e calendar.Event) string {
	title := e.Title
	if title == "" {
		title = untitled
	}

	bullet := r.lg.NewStyle().Foreground(lipgloss.Color(e.Color.Hex())).Render("●")
	lines := []string{
		bullet + " " + r.styles.title.Render(title),
		"  " + r.timeRange(e),
		"  " + r.styles.muted.Render("Calendar: ") + r.calendarName(e.CalendarID),
		"  " + r.styles.muted.Render("Color: ") + e.Color.Name(),
	}

	if link := links.FromEvent(e); link != "" {
		lines = append(lines, "  "+r.styles.muted.Render(links.Service(link)+": ")+link)
	}
	if e.Description != "" {
		lines = append(lines, "")
		for _, l := range strings.Split(e.Description, "\n") {
			lines = append(lines, "  "+l)
		}
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) timeRange(e calendar.Event) string {
	today := r.cfg.Layout.Today()

	var s string
	if sameDate(e.Start, e.End) {
		s = fmt.Sprintf("%s, %s - %s", dayLabel(e.Start, today), e.Start.Format("15:04"), e.End.Format("15:04"))
	} else {
		s = fmt.Sprintf("%s %s - %s %s",
			dayLabel(e.Start, today), e.Start.Format("15:04"),
			dayLabel(e.End, today), e.End.Format("15:04"))
	}

	if e.Inverted() {
		s += " (ends before it starts)"
	} else {
		s += " (" + formatDuration(e.Duration()) + ")"
	}
	if zone := r.cfg.Settings.TimeZoneLabel(); zone != "" {
		s += " " + r.styles.muted.Render(zone)
	}
	return s
}

func (r *Renderer) calendarName(id string) string {
	for _, c := range r.cfg.Calendars {
		if c.ID == id {
			return c.Name
		}
	}
	return r.styles.muted.Render(id + " (deleted)")
}

// Calendars renders the calendar list with per-calendar event counts and
// the number of events whose calendar no longer exists.
func (r *Renderer) Calendars(snap calendar.Snapshot) string {
	counts := make(map[string]int)
	for _, e := range snap.Events() {
		counts[e.CalendarID]++
	}

	var lines []string
	for _, c := range snap.Calendars() {
		bullet := r.lg.NewStyle().Foreground(lipgloss.Color(c.Color.Hex())).Render("●")
		lines = append(lines, fmt.Sprintf("%s %-4s %-16s %-10s %d events",
			bullet, c.ID, c.Name, c.Color.Name(), counts[c.ID]))
	}
	if len(lines) == 0 {
		lines = append(lines, r.styles.muted.Render("No calendars"))
	}
	if n := len(snap.Orphans()); n > 0 {
		lines = append(lines, r.styles.muted.Render(fmt.Sprintf("%d events reference deleted calendars", n)))
	}
	return strings.Join(lines, "\n")
}

// Agenda lists the events placed on the days of cells, one section per day
// that has events.
func (r *Renderer) Agenda(cells []grid.Cell, events []calendar.Event) string {
	today := r.cfg.Layout.Today()

	var lines []string
	for _, d := range grid.Days(cells) {
		on := grid.EventsOn(d, events)
		if len(on) == 0 {
			continue
		}
		lines = append(lines, r.styles.title.Render(dayLabel(d, today)))
		for _, e := range on {
			lines = append(lines, fmt.Sprintf("  %s - %s  %s",
				e.Start.Format("15:04"), e.End.Format("15:04"), r.eventLine(e, 4*r.cfg.CellWidth)))
		}
	}
	if len(lines) == 0 {
		return r.styles.muted.Render("No events")
	}
	return strings.Join(lines, "\n")
}

// dayLabel names t relative to today, falling back to the short date.
func dayLabel(t, today time.Time) string {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location())
	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return t.Format("Mon, Jan 2")
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	hours := d.Hours()
	if hours == float64(int(hours)) {
		return fmt.Sprintf("%dh", int(hours))
	}
	return fmt.Sprintf("%.1fh", hours)
}
