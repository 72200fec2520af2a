package calendar

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestStore_CreateEventAssignsDistinctIDs(t *testing.T) {
	s := NewStore()

	e := Event{
		Title:      "Standup",
		Start:      time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC),
		Color:      ColorSky,
		CalendarID: "2",
	}

	first, _ := s.CreateEvent(e)
	second, snap := s.CreateEvent(e)

	if first.ID == "" || second.ID == "" {
		t.Fatalf("expected non-empty IDs, got %q and %q", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct IDs, both were %q", first.ID)
	}
	if got := len(snap.Events()); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
}

func TestStore_CreateEventIgnoresCallerID(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))

	created, _ := s.CreateEvent(Event{ID: "mine", Title: "x"})
	if created.ID != "id-1" {
		t.Errorf("CreateEvent ID = %q, want %q", created.ID, "id-1")
	}
}

func TestStore_EmptyTitleAccepted(t *testing.T) {
	s := NewStore()
	created, snap := s.CreateEvent(Event{})
	if _, ok := snap.Event(created.ID); !ok {
		t.Errorf("expected untitled event %q to be stored", created.ID)
	}
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))

	_, before := s.CreateEvent(Event{Title: "one"})
	_, after := s.CreateEvent(Event{Title: "two"})

	if got := len(before.Events()); got != 1 {
		t.Errorf("earlier snapshot changed: %d events, want 1", got)
	}
	if got := len(after.Events()); got != 2 {
		t.Errorf("later snapshot: %d events, want 2", got)
	}

	// Mutating an accessor result must not leak into the snapshot.
	evs := after.Events()
	evs[0].Title = "mutated"
	if e, _ := after.Event("id-1"); e.Title != "one" {
		t.Errorf("snapshot mutated through accessor: title %q", e.Title)
	}

	// Updating replaces rather than mutates.
	if _, err := s.UpdateEvent(Event{ID: "id-1", Title: "uno"}); err != nil {
		t.Fatal(err)
	}
	if e, _ := after.Event("id-1"); e.Title != "one" {
		t.Errorf("snapshot mutated by update: title %q", e.Title)
	}
}

func TestStore_UpdateEvent(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	s.CreateEvent(Event{Title: "a"})
	s.CreateEvent(Event{Title: "b"})
	s.CreateEvent(Event{Title: "c"})

	snap, err := s.UpdateEvent(Event{ID: "id-2", Title: "B"})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}

	var titles []string
	for _, e := range snap.Events() {
		titles = append(titles, e.Title)
	}
	want := []string{"a", "B", "c"}
	if fmt.Sprint(titles) != fmt.Sprint(want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestStore_MissingIDIsNotFound(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	_, before := s.CreateEvent(Event{Title: "a"})

	tests := []struct {
		name string
		op   func() (Snapshot, error)
	}{
		{"update event", func() (Snapshot, error) { return s.UpdateEvent(Event{ID: "nope"}) }},
		{"delete event", func() (Snapshot, error) { return s.DeleteEvent("nope") }},
		{"update calendar", func() (Snapshot, error) { return s.UpdateCalendar(Calendar{ID: "nope"}) }},
		{"delete calendar", func() (Snapshot, error) { return s.DeleteCalendar("nope") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := tt.op()
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
			if len(snap.Events()) != len(before.Events()) {
				t.Errorf("snapshot changed on missing id")
			}
		})
	}
}

func TestStore_DeleteEvent(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))
	s.CreateEvent(Event{Title: "a"})
	s.CreateEvent(Event{Title: "b"})

	snap, err := s.DeleteEvent("id-1")
	if err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if _, ok := snap.Event("id-1"); ok {
		t.Errorf("deleted event still present")
	}
	if _, ok := snap.Event("id-2"); !ok {
		t.Errorf("unrelated event removed")
	}
}

func TestStore_DeleteCalendarLeavesEvents(t *testing.T) {
	s := NewStore(WithCalendars(DefaultCalendars()), WithIDGenerator(sequentialIDs()))

	ev, _ := s.CreateEvent(Event{Title: "Dentist", CalendarID: "3"})

	snap, err := s.DeleteCalendar("3")
	if err != nil {
		t.Fatalf("DeleteCalendar: %v", err)
	}

	got, ok := snap.Event(ev.ID)
	if !ok {
		t.Fatalf("event %q removed with its calendar", ev.ID)
	}
	if got.CalendarID != "3" {
		t.Errorf("CalendarID = %q, want %q", got.CalendarID, "3")
	}
	if _, ok := snap.Calendar("3"); ok {
		t.Errorf("calendar 3 still present")
	}

	orphans := snap.Orphans()
	if len(orphans) != 1 || orphans[0].ID != ev.ID {
		t.Errorf("Orphans() = %v, want [%s]", orphans, ev.ID)
	}
}

func TestStore_CalendarLifecycle(t *testing.T) {
	s := NewStore(WithIDGenerator(sequentialIDs()))

	c, snap := s.CreateCalendar(Calendar{Name: "Work", Color: ColorSage})
	if c.ID != "id-1" {
		t.Fatalf("CreateCalendar ID = %q, want id-1", c.ID)
	}
	// Names are not required to be unique.
	_, snap = s.CreateCalendar(Calendar{Name: "Work", Color: ColorSlate})
	if got := len(snap.Calendars()); got != 2 {
		t.Fatalf("expected 2 calendars, got %d", got)
	}

	snap, err := s.UpdateCalendar(Calendar{ID: "id-1", Name: "Office", Color: ColorCoral})
	if err != nil {
		t.Fatalf("UpdateCalendar: %v", err)
	}
	got, _ := snap.Calendar("id-1")
	if got.Name != "Office" || got.Color != ColorCoral {
		t.Errorf("UpdateCalendar result = %+v", got)
	}
}

func TestColor(t *testing.T) {
	tests := []struct {
		color Color
		valid bool
		name  string
	}{
		{ColorLavender, true, "Lavender"},
		{ColorSlate, true, "Slate"},
		{Color("bg-purple-500"), false, "bg-purple-500"},
		{Color(""), false, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.color), func(t *testing.T) {
			if got := tt.color.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
			if got := tt.color.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
		})
	}

	if got := Color("unknown").Hex(); got != DefaultColor.Hex() {
		t.Errorf("unknown Hex() = %q, want default %q", got, DefaultColor.Hex())
	}
}

func TestStore_SeededIDsAreUnique(t *testing.T) {
	s := NewStore(
		WithEvents([]Event{{ID: "dup", Title: "a"}, {ID: "dup", Title: "b"}, {Title: "c"}, {ID: "id-1", Title: "d"}}),
		WithCalendars([]Calendar{{ID: "1", Name: "Personal"}, {ID: "1", Name: "Work"}}),
		WithIDGenerator(sequentialIDs()),
	)

	events := s.Snapshot().Events()
	seen := make(map[string]bool)
	for _, e := range events {
		if e.ID == "" || seen[e.ID] {
			t.Fatalf("event %q has empty or repeated ID %q", e.Title, e.ID)
		}
		seen[e.ID] = true
	}
	if events[0].ID != "dup" {
		t.Errorf("first seeded ID changed to %q", events[0].ID)
	}
	if events[3].ID != "id-1" {
		t.Errorf("unique seeded ID changed to %q", events[3].ID)
	}

	snap, err := s.DeleteEvent("dup")
	if err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if got := len(snap.Events()); got != 3 {
		t.Errorf("DeleteEvent removed %d events, want 1", 4-got)
	}

	cals := s.Snapshot().Calendars()
	if cals[0].ID != "1" || cals[1].ID == "1" || cals[1].ID == "" {
		t.Errorf("calendar IDs = %q, %q", cals[0].ID, cals[1].ID)
	}
}
