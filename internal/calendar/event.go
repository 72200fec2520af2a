// Package calendar provides the event and calendar model and the in-memory store.
package calendar

import (
	"time"
)

// DefaultCalendarID is the calendar new events belong to when none is chosen.
const DefaultCalendarID = "1"

// Event represents a calendar event.
type Event struct {
	// ID is the unique identifier for this event, assigned by the Store.
	ID string

	// Title is the display title. It may be empty.
	Title string

	// Description is the full event description/body.
	Description string

	// Start is when the event begins. Times are calendar-naive: only the
	// wall clock fields are meaningful.
	Start time.Time

	// End is when the event ends. It is not required to be after Start.
	End time.Time

	// Color is the palette tag used to paint the event.
	Color Color

	// CalendarID references the owning Calendar. It is not validated and
	// may point at a calendar that no longer exists.
	CalendarID string
}

// Duration returns the duration of the event. It is negative when End
// precedes Start.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Inverted reports whether the event ends before it starts.
func (e *Event) Inverted() bool {
	return e.End.Before(e.Start)
}

// IsOngoing returns true if the event is currently happening.
func (e *Event) IsOngoing(now time.Time) bool {
	return now.After(e.Start) && now.Before(e.End)
}

// IsUpcoming returns true if the event starts within the given duration.
func (e *Event) IsUpcoming(now time.Time, within time.Duration) bool {
	until := e.Start.Sub(now)
	return until > 0 && until <= within
}

// StartsIn returns how long until the event starts (negative if already started).
func (e *Event) StartsIn(now time.Time) time.Duration {
	return e.Start.Sub(now)
}

// Calendar is a named collection that events reference by ID.
type Calendar struct {
	ID    string
	Name  string
	Color Color
}

// DefaultCalendars returns the calendars a fresh store is seeded with.
func DefaultCalendars() []Calendar {
	return []Calendar{
		{ID: "1", Name: "Personal", Color: ColorSky},
		{ID: "2", Name: "Work", Color: ColorSage},
		{ID: "3", Name: "Family", Color: ColorMarigold},
	}
}
