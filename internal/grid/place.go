package grid

import (
	"time"

	"github.com/cpuguy83/calgrid/internal/calendar"
)

// Placement maps Cell.Key to the events shown in that cell.
type Placement map[string][]calendar.Event

// For returns the events placed in c.
func (p Placement) For(c Cell) []calendar.Event {
	return p[c.Key()]
}

// Count returns the number of (cell, event) pairs in the placement.
func (p Placement) Count() int {
	n := 0
	for _, evs := range p {
		n += len(evs)
	}
	return n
}

// Place assigns events to cells. An event is shown in a cell when the
// cell's day lies between the day of the event's start and the day of its
// end, inclusive. Hour cells use the same day-level rule, so an event
// fills every hour of every day it spans.
//
// Within a cell events keep their order in events. An event whose end day
// precedes its start day matches no cell; one that ends earlier on the
// same day matches that day.
func Place(cells []Cell, events []calendar.Event) Placement {
	p := make(Placement)
	for _, c := range cells {
		if _, ok := p[c.Key()]; ok {
			continue
		}
		if in := EventsOn(c.Date, events); len(in) > 0 {
			p[c.Key()] = in
		}
	}
	return p
}

func covers(e calendar.Event, day int64) bool {
	return dayNumber(e.Start) <= day && day <= dayNumber(e.End)
}

// EventsOn returns the events that cover the civil day of t, in order.
func EventsOn(t time.Time, events []calendar.Event) []calendar.Event {
	day := dayNumber(t)
	var out []calendar.Event
	for _, e := range events {
		if covers(e, day) {
			out = append(out, e)
		}
	}
	return out
}
