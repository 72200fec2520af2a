package calendar

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	ics "github.com/emersion/go-ical"
)

const (
	propCalendar = "X-CALGRID-CALENDAR"
	propColor    = "X-CALGRID-COLOR"

	floatingFormat = "20060102T150405"
	dateFormat     = "20060102"
)

// EncodeICS writes events as a VCALENDAR to w. Start and end are written
// as floating times since events carry no time zone.
func EncodeICS(w io.Writer, events []Event) error {
	cal := ics.NewCalendar()
	cal.Props.SetText(ics.PropVersion, "2.0")
	cal.Props.SetText(ics.PropProductID, "-//calgrid//calgrid//EN")

	stamp := time.Now()
	for _, event := range events {
		comp := ics.NewComponent(ics.CompEvent)

		comp.Props.SetText(ics.PropUID, event.ID)
		comp.Props.SetText(ics.PropSummary, event.Title)

		// DTSTAMP is required by RFC 5545
		comp.Props.SetDateTime(ics.PropDateTimeStamp, stamp.UTC())

		if event.Description != "" {
			comp.Props.SetText(ics.PropDescription, event.Description)
		}

		comp.Props.Set(floatingProp(ics.PropDateTimeStart, event.Start))
		comp.Props.Set(floatingProp(ics.PropDateTimeEnd, event.End))

		if event.CalendarID != "" {
			comp.Props.SetText(propCalendar, event.CalendarID)
		}
		if event.Color != "" {
			comp.Props.SetText(propColor, string(event.Color))
		}

		cal.Children = append(cal.Children, comp)
	}

	if err := ics.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode ICS: %w", err)
	}
	return nil
}

func floatingProp(name string, t time.Time) *ics.Prop {
	prop := ics.NewProp(name)
	prop.Value = t.Format(floatingFormat)
	return prop
}

// WriteICS writes events to an ICS file atomically.
// It writes to a temp file first, then renames to the final path.
func WriteICS(path string, events []Event) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	var buf bytes.Buffer
	if err := EncodeICS(&buf, events); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// ReadICS reads events from an ICS file.
func ReadICS(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ICS file: %w", err)
	}
	defer f.Close()

	return ParseICS(f)
}

// ParseICS parses events from an ICS reader. Events are returned in the
// order they appear in the input.
func ParseICS(r io.Reader) ([]Event, error) {
	dec := ics.NewDecoder(r)

	var events []Event

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode ICS: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ics.CompEvent {
				continue
			}

			event, err := parseEventComponent(comp)
			if err != nil {
				slog.Debug("skipping event", "uid", event.ID, "error", err)
				continue
			}

			events = append(events, event)
		}
	}

	return events, nil
}

// parseEventComponent converts an ICS VEVENT component to our Event type.
func parseEventComponent(comp *ics.Component) (Event, error) {
	event := Event{
		Color:      DefaultColor,
		CalendarID: DefaultCalendarID,
	}

	if prop := comp.Props.Get(ics.PropUID); prop != nil {
		event.ID = prop.Value
	}
	if prop := comp.Props.Get(ics.PropSummary); prop != nil {
		event.Title = prop.Value
	}
	if prop := comp.Props.Get(ics.PropDescription); prop != nil {
		event.Description = prop.Value
	}
	if prop := comp.Props.Get(propCalendar); prop != nil {
		event.CalendarID = prop.Value
	}
	if prop := comp.Props.Get(propColor); prop != nil {
		if c := Color(strings.TrimSpace(prop.Value)); c.Valid() {
			event.Color = c
		}
	}

	prop := comp.Props.Get(ics.PropDateTimeStart)
	if prop == nil {
		return event, fmt.Errorf("missing %s", ics.PropDateTimeStart)
	}
	start, err := parseTimeProp(prop)
	if err != nil {
		return event, fmt.Errorf("parse start time: %w", err)
	}
	event.Start = start

	prop = comp.Props.Get(ics.PropDateTimeEnd)
	switch {
	case prop != nil:
		end, err := parseTimeProp(prop)
		if err != nil {
			return event, fmt.Errorf("parse end time: %w", err)
		}
		// A date-valued DTEND is exclusive. Events cover whole days up to
		// and including their end, so end at the last instant of the day
		// before it.
		if isDateValue(prop) && end.After(start) {
			end = end.Add(-time.Nanosecond)
		}
		event.End = end
	case isDateValue(comp.Props.Get(ics.PropDateTimeStart)):
		// All-day events without DTEND last one day
		event.End = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	default:
		event.End = start.Add(time.Hour)
	}

	return event, nil
}

// isDateValue reports whether prop holds a DATE rather than a DATE-TIME.
func isDateValue(prop *ics.Prop) bool {
	return prop.ValueType() == ics.ValueDate || len(strings.TrimSpace(prop.Value)) == len(dateFormat)
}

// parseTimeProp parses a DTSTART/DTEND value, falling back to floating
// datetime and date-only layouts.
func parseTimeProp(prop *ics.Prop) (time.Time, error) {
	if t, err := prop.DateTime(time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(floatingFormat, prop.Value, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateFormat, prop.Value, time.Local)
}
