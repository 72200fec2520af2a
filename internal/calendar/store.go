package calendar

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an update or delete references an ID that
// is not in the store.
var ErrNotFound = errors.New("not found")

// Snapshot is an immutable view of the store's collections. Snapshots are
// never modified once issued; accessors hand out copies.
type Snapshot struct {
	events    []Event
	calendars []Calendar
}

// NewSnapshot builds a snapshot from the given collections. The slices are copied.
func NewSnapshot(events []Event, calendars []Calendar) Snapshot {
	return Snapshot{
		events:    slices.Clone(events),
		calendars: slices.Clone(calendars),
	}
}

// Events returns the events in insertion order.
func (s Snapshot) Events() []Event {
	return slices.Clone(s.events)
}

// Calendars returns the calendars in insertion order.
func (s Snapshot) Calendars() []Calendar {
	return slices.Clone(s.calendars)
}

// Event looks up an event by ID.
func (s Snapshot) Event(id string) (Event, bool) {
	i := slices.IndexFunc(s.events, func(e Event) bool { return e.ID == id })
	if i < 0 {
		return Event{}, false
	}
	return s.events[i], true
}

// Calendar looks up a calendar by ID.
func (s Snapshot) Calendar(id string) (Calendar, bool) {
	i := slices.IndexFunc(s.calendars, func(c Calendar) bool { return c.ID == id })
	if i < 0 {
		return Calendar{}, false
	}
	return s.calendars[i], true
}

// Orphans returns the events whose CalendarID matches no calendar.
func (s Snapshot) Orphans() []Event {
	var out []Event
	for _, e := range s.events {
		if _, ok := s.Calendar(e.CalendarID); !ok {
			out = append(out, e)
		}
	}
	return out
}

// Store owns the event and calendar collections. Every mutation replaces
// the current snapshot and returns the new one.
type Store struct {
	mu    sync.Mutex
	snap  Snapshot
	newID func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDGenerator overrides the ID generator (uuid.NewString by default).
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithCalendars seeds the store with calendars.
func WithCalendars(cals []Calendar) StoreOption {
	return func(s *Store) {
		s.snap.calendars = slices.Clone(cals)
	}
}

// WithEvents seeds the store with events. Their IDs are kept as given
// unless empty or already taken by an earlier event, in which case the
// store assigns a fresh one.
func WithEvents(events []Event) StoreOption {
	return func(s *Store) {
		s.snap.events = slices.Clone(events)
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	s.dedupeSeedIDs()
	return s
}

// dedupeSeedIDs gives seeded events and calendars with an empty or
// repeated ID a fresh one. The first holder of an ID keeps it.
func (s *Store) dedupeSeedIDs() {
	ids := make([]*string, 0, len(s.snap.events))
	for i := range s.snap.events {
		ids = append(ids, &s.snap.events[i].ID)
	}
	s.dedupe(ids)

	ids = ids[:0]
	for i := range s.snap.calendars {
		ids = append(ids, &s.snap.calendars[i].ID)
	}
	s.dedupe(ids)
}

func (s *Store) dedupe(ids []*string) {
	taken := make(map[string]bool, len(ids))
	for _, id := range ids {
		taken[*id] = true
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if *id == "" || seen[*id] {
			fresh := s.newID()
			for taken[fresh] {
				fresh = s.newID()
			}
			taken[fresh] = true
			*id = fresh
		}
		seen[*id] = true
	}
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// CreateEvent adds e with a freshly assigned ID. Any ID on e is ignored.
func (s *Store) CreateEvent(e Event) (Event, Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.newID()
	events := make([]Event, 0, len(s.snap.events)+1)
	events = append(events, s.snap.events...)
	events = append(events, e)
	s.snap = Snapshot{events: events, calendars: s.snap.calendars}
	return e, s.snap
}

// UpdateEvent replaces the event with the same ID, keeping its position.
// If no event has that ID the snapshot is unchanged and ErrNotFound is returned.
func (s *Store) UpdateEvent(e Event) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.snap.events, func(x Event) bool { return x.ID == e.ID })
	if i < 0 {
		return s.snap, ErrNotFound
	}
	events := slices.Clone(s.snap.events)
	events[i] = e
	s.snap = Snapshot{events: events, calendars: s.snap.calendars}
	return s.snap, nil
}

// DeleteEvent removes the event with the given ID.
func (s *Store) DeleteEvent(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snap.Event(id); !ok {
		return s.snap, ErrNotFound
	}
	events := slices.DeleteFunc(slices.Clone(s.snap.events), func(x Event) bool { return x.ID == id })
	s.snap = Snapshot{events: events, calendars: s.snap.calendars}
	return s.snap, nil
}

// CreateCalendar adds c with a freshly assigned ID.
func (s *Store) CreateCalendar(c Calendar) (Calendar, Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.newID()
	cals := make([]Calendar, 0, len(s.snap.calendars)+1)
	cals = append(cals, s.snap.calendars...)
	cals = append(cals, c)
	s.snap = Snapshot{events: s.snap.events, calendars: cals}
	return c, s.snap
}

// UpdateCalendar replaces the calendar with the same ID.
func (s *Store) UpdateCalendar(c Calendar) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.snap.calendars, func(x Calendar) bool { return x.ID == c.ID })
	if i < 0 {
		return s.snap, ErrNotFound
	}
	cals := slices.Clone(s.snap.calendars)
	cals[i] = c
	s.snap = Snapshot{events: s.snap.events, calendars: cals}
	return s.snap, nil
}

// DeleteCalendar removes the calendar with the given ID. Events that
// reference it are left untouched.
func (s *Store) DeleteCalendar(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snap.Calendar(id); !ok {
		return s.snap, ErrNotFound
	}
	cals := slices.DeleteFunc(slices.Clone(s.snap.calendars), func(x Calendar) bool { return x.ID == id })
	s.snap = Snapshot{events: s.snap.events, calendars: cals}
	return s.snap, nil
}
