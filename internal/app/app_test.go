package app

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/config"
	"github.com/cpuguy83/calgrid/internal/filter"
	"github.com/cpuguy83/calgrid/internal/grid"
	"github.com/cpuguy83/calgrid/internal/settings"
)

var testNow = time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return "id" + strconv.Itoa(n)
	}
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return New(Options{
		Layout: grid.Layout{WeekStart: time.Sunday, Now: func() time.Time { return testNow }},
		Store: calendar.NewStore(
			calendar.WithIDGenerator(seqIDs()),
			calendar.WithCalendars(calendar.DefaultCalendars()),
		),
	})
}

func TestNewDefaults(t *testing.T) {
	c := newTestController(t)

	if c.View() != grid.Month {
		t.Errorf("View() = %v, want month", c.View())
	}
	if got := c.Anchor(); !got.Equal(date(2024, 6, 10)) {
		t.Errorf("Anchor() = %v, want today", got)
	}
	if c.Settings() != settings.Default() {
		t.Errorf("Settings() = %+v", c.Settings())
	}
	if got := len(c.Snapshot().Calendars()); got != 3 {
		t.Errorf("calendars = %d, want 3", got)
	}
	if got := c.Header(); got != "June 2024" {
		t.Errorf("Header() = %q", got)
	}
}

func TestNavigation(t *testing.T) {
	c := newTestController(t)
	c.SetAnchor(date(2024, 1, 31))

	if got := c.Next(); !got.Equal(date(2024, 2, 29)) {
		t.Errorf("Next() = %v", got)
	}
	if got := c.Previous(); !got.Equal(date(2024, 1, 29)) {
		t.Errorf("Previous() = %v", got)
	}

	c.SetView(grid.Week)
	if got := c.Step(2); !got.Equal(date(2024, 2, 12)) {
		t.Errorf("Step(2) = %v", got)
	}
	if got := c.Header(); got != "Feb 11 - Feb 17, 2024" {
		t.Errorf("Header() = %q", got)
	}
	if got := len(c.Cells()); got != 7*grid.HoursPerDay {
		t.Errorf("week cells = %d", got)
	}

	c.SetView(grid.Day)
	if got := c.Previous(); !got.Equal(date(2024, 2, 11)) {
		t.Errorf("Previous() = %v", got)
	}

	if got := c.Today(); !got.Equal(date(2024, 6, 10)) {
		t.Errorf("Today() = %v", got)
	}
	if c.View() != grid.Day {
		t.Errorf("Today() changed the view to %v", c.View())
	}
}

func TestDraftAt(t *testing.T) {
	c := newTestController(t)

	tests := []struct {
		name string
		cell grid.Cell
		want time.Time
	}{
		{"day cell", grid.Cell{Date: date(2024, 6, 12)}, date(2024, 6, 12)},
		{"hour cell", grid.Cell{Date: date(2024, 6, 12), Hour: 14, Hourly: true}, time.Date(2024, 6, 12, 14, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.DraftAt(tt.cell)
			if !d.Start.Equal(tt.want) || !d.End.Equal(tt.want) {
				t.Errorf("DraftAt() = %v - %v, want %v", d.Start, d.End, tt.want)
			}
			if d.ID != "" || d.Color != calendar.DefaultColor || d.CalendarID != calendar.DefaultCalendarID {
				t.Errorf("DraftAt() = %+v", d)
			}
		})
	}
}

func TestEventLifecycle(t *testing.T) {
	c := newTestController(t)

	e, snap := c.CreateEvent(calendar.Event{Title: "Standup", Start: date(2024, 6, 10), End: date(2024, 6, 10)})
	if e.ID != "id1" || e.CalendarID != calendar.DefaultCalendarID || e.Color != calendar.DefaultColor {
		t.Fatalf("CreateEvent() = %+v", e)
	}
	if len(snap.Events()) != 1 {
		t.Fatalf("snapshot has %d events", len(snap.Events()))
	}

	kept, _ := c.CreateEvent(calendar.Event{CalendarID: "2", Color: calendar.ColorCoral})
	if kept.CalendarID != "2" || kept.Color != calendar.ColorCoral {
		t.Errorf("CreateEvent() overrode explicit fields: %+v", kept)
	}

	e.Title = "Daily standup"
	snap = c.UpdateEvent(e)
	if got, _ := snap.Event(e.ID); got.Title != "Daily standup" {
		t.Errorf("updated title = %q", got.Title)
	}

	snap = c.DeleteEvent(e.ID)
	if _, ok := snap.Event(e.ID); ok {
		t.Error("event still present after delete")
	}

	// Missing ids are silently ignored.
	before := c.Snapshot()
	if got := c.UpdateEvent(calendar.Event{ID: "nope"}); len(got.Events()) != len(before.Events()) {
		t.Errorf("update of missing id changed the store")
	}
	if got := c.DeleteEvent("nope"); len(got.Events()) != len(before.Events()) {
		t.Errorf("delete of missing id changed the store")
	}
}

func TestCalendarLifecycle(t *testing.T) {
	c := newTestController(t)

	cal, snap := c.CreateCalendar(calendar.Calendar{Name: "Gym"})
	if cal.ID == "" || cal.Color != calendar.DefaultColor || len(snap.Calendars()) != 4 {
		t.Fatalf("CreateCalendar() = %+v, %d calendars", cal, len(snap.Calendars()))
	}

	cal.Name = "Climbing"
	snap = c.UpdateCalendar(cal)
	if got, _ := snap.Calendar(cal.ID); got.Name != "Climbing" {
		t.Errorf("renamed calendar = %+v", got)
	}

	e, _ := c.CreateEvent(calendar.Event{Title: "Bouldering", CalendarID: cal.ID})
	snap = c.DeleteCalendar(cal.ID)
	if _, ok := snap.Event(e.ID); !ok {
		t.Error("deleting a calendar removed its event")
	}
	if orphans := snap.Orphans(); len(orphans) != 1 || orphans[0].ID != e.ID {
		t.Errorf("Orphans() = %+v", orphans)
	}

	if got := c.DeleteCalendar(cal.ID); len(got.Calendars()) != 3 {
		t.Errorf("second delete changed calendars: %d", len(got.Calendars()))
	}
}

func TestPlacementUsesFilter(t *testing.T) {
	f, err := filter.New(config.FilterConfig{Rules: []config.FilterRule{{Field: "calendar", Exact: "2"}}})
	if err != nil {
		t.Fatal(err)
	}
	c := New(Options{
		Layout: grid.Layout{Now: func() time.Time { return testNow }},
		Filter: f,
	})
	c.CreateEvent(calendar.Event{Title: "Personal", Start: date(2024, 6, 10), End: date(2024, 6, 10)})
	c.CreateEvent(calendar.Event{Title: "Work", Start: date(2024, 6, 10), End: date(2024, 6, 11), CalendarID: "2"})

	cells := c.Cells()
	p := c.Placement(cells)
	if got := p.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	for _, cell := range cells {
		for _, e := range p.For(cell) {
			if e.Title != "Work" {
				t.Errorf("filtered event placed: %+v", e)
			}
		}
	}
	if got := len(c.Visible()); got != 1 {
		t.Errorf("Visible() = %d events", got)
	}
}

func TestSaveSettings(t *testing.T) {
	c := newTestController(t)

	s := c.Settings()
	s.TimeZone = "Asia/Tokyo"
	s.Notifications.Desktop = false
	if err := c.SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if c.Settings() != s {
		t.Errorf("Settings() = %+v, want %+v", c.Settings(), s)
	}

	bad := s
	bad.Language = "xx"
	if err := c.SaveSettings(bad); !errors.Is(err, settings.ErrInvalid) {
		t.Errorf("SaveSettings(bad) = %v, want ErrInvalid", err)
	}
	if c.Settings() != s {
		t.Error("rejected settings were applied")
	}
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	ics := filepath.Join(dir, "events.ics")
	seed := []calendar.Event{
		{ID: "a", Title: "Seeded", Start: date(2024, 6, 3), End: date(2024, 6, 3).Add(time.Hour), Color: calendar.ColorSky, CalendarID: "work"},
	}
	if err := calendar.WriteICS(ics, seed); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Parse([]byte(`
calendar:
  week_start: monday
  view: week
  default_calendar: work
  events_file: ` + ics + `
  calendars:
    - id: work
      name: Work
      color: sage
`))
	if err != nil {
		t.Fatal(err)
	}

	c, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if c.View() != grid.Week || c.Layout().WeekStart != time.Monday {
		t.Errorf("view %v, week start %v", c.View(), c.Layout().WeekStart)
	}
	snap := c.Snapshot()
	if got, ok := snap.Event("a"); !ok || got.Title != "Seeded" {
		t.Errorf("seeded event = %+v, %v", got, ok)
	}
	if cals := snap.Calendars(); len(cals) != 1 || cals[0].ID != "work" {
		t.Errorf("calendars = %+v", cals)
	}
	if d := c.DraftAt(grid.Cell{Date: date(2024, 6, 3)}); d.CalendarID != "work" {
		t.Errorf("draft calendar = %q", d.CalendarID)
	}
}

func TestFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad view", func(c *config.Config) { c.Calendar.View = "year" }},
		{"bad filter", func(c *config.Config) { c.Filters.Mode = "xor" }},
		{"bad settings", func(c *config.Config) { c.Settings.Language = "xx" }},
		{"missing events file", func(c *config.Config) {
			c.Calendar.EventsFile = filepath.Join(os.TempDir(), "calgrid-does-not-exist.ics")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			if _, err := FromConfig(cfg); err == nil {
				t.Error("FromConfig() succeeded, want error")
			}
		})
	}
}

func TestFromConfig_SeedFile(t *testing.T) {
	ics := filepath.Join(t.TempDir(), "events.ics")
	data := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:dup
DTSTAMP:20240601T000000Z
SUMMARY:Holiday
DTSTART;VALUE=DATE:20240610
DTEND;VALUE=DATE:20240611
END:VEVENT
BEGIN:VEVENT
UID:dup
DTSTAMP:20240601T000000Z
SUMMARY:Moved
DTSTART:20240612T090000
DTEND:20240612T100000
END:VEVENT
END:VCALENDAR
`
	if err := os.WriteFile(ics, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Calendar.EventsFile = ics
	c, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	c.SetAnchor(date(2024, 6, 10))

	cells := c.Cells()
	p := c.Placement(cells)
	for _, cell := range cells {
		for _, e := range p.For(cell) {
			if e.Title == "Holiday" && cell.Key() != "2024-06-10" {
				t.Errorf("all-day event placed on %s", cell.Key())
			}
		}
	}

	events := c.Snapshot().Events()
	if len(events) != 2 || events[0].ID == events[1].ID {
		t.Fatalf("seeded events = %+v", events)
	}
	snap := c.DeleteEvent("dup")
	if got := snap.Events(); len(got) != 1 || got[0].Title != "Moved" {
		t.Errorf("after delete = %+v", got)
	}
}
