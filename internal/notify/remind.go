package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/links"
	"github.com/cpuguy83/calgrid/internal/settings"
)

// Due returns the events starting within lead of now, in input order.
// Events that already started are not due.
func Due(events []calendar.Event, now time.Time, lead time.Duration) []calendar.Event {
	var out []calendar.Event
	for _, e := range events {
		if e.IsUpcoming(now, lead) {
			out = append(out, e)
		}
	}
	return out
}

// Reminder builds the notification for an event starting soon.
func Reminder(e calendar.Event, now time.Time) Notification {
	title := e.Title
	if title == "" {
		title = "(untitled)"
	}

	in := e.StartsIn(now).Round(time.Minute)
	n := Notification{
		Summary: title,
		Body:    fmt.Sprintf("Starts at %s (in %s)", e.Start.Format("15:04"), formatLead(in)),
		Urgency: UrgencyNormal,
		EventID: e.ID,
	}
	if link := links.FromEvent(e); link != "" {
		n.Body += "\n" + link
		n.Actions = append(n.Actions, Action{Key: "join", Label: "Join " + links.Service(link)})
	}
	return n
}

// Remind sends a reminder for every due event when desktop notifications
// are enabled. It returns the number of notifications handed to s.
func Remind(s Sender, events []calendar.Event, now time.Time, cfg settings.Notifications) (int, error) {
	if !cfg.Desktop {
		slog.Debug("desktop notifications disabled")
		return 0, nil
	}

	lead := cfg.Reminder()
	if lead == 0 {
		lead = settings.Default().Notifications.Reminder()
	}

	var (
		sent int
		errs []error
	)
	for _, e := range Due(events, now, lead) {
		if _, err := s.Send(Reminder(e, now)); err != nil {
			errs = append(errs, fmt.Errorf("remind %s: %w", e.ID, err))
			continue
		}
		sent++
	}
	return sent, errors.Join(errs...)
}

func formatLead(d time.Duration) string {
	if d < time.Minute {
		return "less than a minute"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}
