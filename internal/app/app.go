// Package app holds the controller that owns the view state, the store and
// the settings, and dispatches navigation and mutations.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/config"
	"github.com/cpuguy83/calgrid/internal/filter"
	"github.com/cpuguy83/calgrid/internal/grid"
	"github.com/cpuguy83/calgrid/internal/settings"
)

// Options configures a Controller. Zero fields take defaults.
type Options struct {
	Layout          grid.Layout
	View            grid.View
	Anchor          time.Time
	Store           *calendar.Store
	Settings        settings.Settings
	Filter          *filter.Filter
	DefaultCalendar string
}

// Controller is the single owner of the calendar state.
type Controller struct {
	mu              sync.Mutex
	layout          grid.Layout
	view            grid.View
	anchor          time.Time
	settings        settings.Settings
	filter          *filter.Filter
	defaultCalendar string

	store *calendar.Store
}

// New creates a controller. The anchor defaults to today, the store to an
// empty store with the default calendars, and the settings to
// settings.Default().
func New(opts Options) *Controller {
	c := &Controller{
		layout:          opts.Layout,
		view:            opts.View,
		anchor:          opts.Anchor,
		store:           opts.Store,
		settings:        opts.Settings,
		filter:          opts.Filter,
		defaultCalendar: opts.DefaultCalendar,
	}
	if c.anchor.IsZero() {
		c.anchor = c.layout.Today()
	}
	if c.store == nil {
		c.store = calendar.NewStore(calendar.WithCalendars(calendar.DefaultCalendars()))
	}
	if c.settings == (settings.Settings{}) {
		c.settings = settings.Default()
	}
	if c.defaultCalendar == "" {
		c.defaultCalendar = calendar.DefaultCalendarID
	}
	return c
}

// FromConfig builds a controller from the startup configuration, seeding
// the store from the configured events file if one is set.
func FromConfig(cfg *config.Config) (*Controller, error) {
	view, err := grid.ParseView(cfg.Calendar.View)
	if err != nil {
		return nil, fmt.Errorf("parse view: %w", err)
	}

	f, err := filter.New(cfg.Filters)
	if err != nil {
		return nil, fmt.Errorf("create filter: %w", err)
	}

	s := cfg.Settings.Startup()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	storeOpts := []calendar.StoreOption{calendar.WithCalendars(cfg.Calendar.CalendarList())}
	if path := cfg.Calendar.EventsFile; path != "" {
		events, err := calendar.ReadICS(path)
		if err != nil {
			return nil, fmt.Errorf("load events: %w", err)
		}
		slog.Debug("loaded events", "path", path, "count", len(events))
		storeOpts = append(storeOpts, calendar.WithEvents(events))
	}

	return New(Options{
		Layout:          grid.Layout{WeekStart: cfg.Calendar.WeekStart},
		View:            view,
		Store:           calendar.NewStore(storeOpts...),
		Settings:        s,
		Filter:          f,
		DefaultCalendar: cfg.Calendar.DefaultCalendar,
	}), nil
}

// Layout returns the grid layout (week start and clock).
func (c *Controller) Layout() grid.Layout {
	return c.layout
}

// View returns the current view mode.
func (c *Controller) View() grid.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Anchor returns the current anchor date.
func (c *Controller) Anchor() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anchor
}

// SetView switches the view mode, keeping the anchor.
func (c *Controller) SetView(v grid.View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
}

// SetAnchor jumps to t.
func (c *Controller) SetAnchor(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = t
}

// Next advances the anchor by one period of the current view.
func (c *Controller) Next() time.Time {
	return c.Step(1)
}

// Previous moves the anchor back one period of the current view.
func (c *Controller) Previous() time.Time {
	return c.Step(-1)
}

// Step moves the anchor n periods of the current view and returns it.
func (c *Controller) Step(n int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = c.layout.Step(c.view, c.anchor, n)
	return c.anchor
}

// Today resets the anchor to the start of the current day.
func (c *Controller) Today() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.anchor = c.layout.Today()
	return c.anchor
}

// Header returns the label for the current view and anchor.
func (c *Controller) Header() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout.HeaderLabel(c.view, c.anchor)
}

// Cells builds the grid for the current view and anchor.
func (c *Controller) Cells() []grid.Cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout.Build(c.view, c.anchor)
}

// Visible returns the store's events that pass the filter, in insertion order.
func (c *Controller) Visible() []calendar.Event {
	return c.filter.Apply(c.store.Snapshot().Events())
}

// Placement places the visible events into cells.
func (c *Controller) Placement(cells []grid.Cell) grid.Placement {
	return grid.Place(cells, c.Visible())
}

// Snapshot returns the store's current snapshot.
func (c *Controller) Snapshot() calendar.Snapshot {
	return c.store.Snapshot()
}

// DraftAt returns an unsaved event starting and ending at the cell's time,
// in the default calendar with the default color.
func (c *Controller) DraftAt(cell grid.Cell) calendar.Event {
	t := cell.Time()
	return calendar.Event{
		Start:      t,
		End:        t,
		Color:      calendar.DefaultColor,
		CalendarID: c.defaultCalendar,
	}
}

// CreateEvent stores e under a new ID. Missing calendar and color fall
// back to the defaults. Empty titles are accepted.
func (c *Controller) CreateEvent(e calendar.Event) (calendar.Event, calendar.Snapshot) {
	if e.CalendarID == "" {
		e.CalendarID = c.defaultCalendar
	}
	if e.Color == "" {
		e.Color = calendar.DefaultColor
	}
	created, snap := c.store.CreateEvent(e)
	slog.Debug("created event", "id", created.ID, "title", created.Title)
	return created, snap
}

// UpdateEvent replaces the event with e's ID. Updating an event that no
// longer exists is a no-op.
func (c *Controller) UpdateEvent(e calendar.Event) calendar.Snapshot {
	snap, err := c.store.UpdateEvent(e)
	ignoreNotFound(err, "update event", e.ID)
	return snap
}

// DeleteEvent removes the event with the given ID. Deleting an event that
// no longer exists is a no-op.
func (c *Controller) DeleteEvent(id string) calendar.Snapshot {
	snap, err := c.store.DeleteEvent(id)
	ignoreNotFound(err, "delete event", id)
	return snap
}

// CreateCalendar stores cal under a new ID.
func (c *Controller) CreateCalendar(cal calendar.Calendar) (calendar.Calendar, calendar.Snapshot) {
	if cal.Color == "" {
		cal.Color = calendar.DefaultColor
	}
	return c.store.CreateCalendar(cal)
}

// UpdateCalendar replaces the calendar with cal's ID.
func (c *Controller) UpdateCalendar(cal calendar.Calendar) calendar.Snapshot {
	snap, err := c.store.UpdateCalendar(cal)
	ignoreNotFound(err, "update calendar", cal.ID)
	return snap
}

// DeleteCalendar removes a calendar. Its events are kept and keep
// referencing the deleted ID.
func (c *Controller) DeleteCalendar(id string) calendar.Snapshot {
	snap, err := c.store.DeleteCalendar(id)
	ignoreNotFound(err, "delete calendar", id)
	return snap
}

// Settings returns the current settings.
func (c *Controller) Settings() settings.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// SaveSettings validates s and replaces the current settings wholesale.
func (c *Controller) SaveSettings(s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = s
	return nil
}

func ignoreNotFound(err error, op, id string) {
	switch {
	case err == nil:
	case errors.Is(err, calendar.ErrNotFound):
		slog.Debug("ignoring missing id", "op", op, "id", id)
	default:
		slog.Error(op+" failed", "id", id, "error", err)
	}
}
