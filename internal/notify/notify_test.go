package notify

import (
	"errors"
	"testing"
	"time"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/settings"
)

type fakeSender struct {
	sent []Notification
	err  error
}

func (f *fakeSender) Send(n Notification) (uint32, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sent = append(f.sent, n)
	return uint32(len(f.sent)), nil
}

var now = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2024, 6, 10, h, m, 0, 0, time.UTC)
}

func testEvents() []calendar.Event {
	return []calendar.Event{
		{ID: "started", Title: "Early", Start: at(8, 30), End: at(9, 30)},
		{ID: "soon", Title: "Standup", Start: at(9, 15), End: at(9, 30)},
		{ID: "edge", Title: "", Start: at(9, 30), End: at(10, 0)},
		{ID: "later", Title: "Lunch", Start: at(12, 0), End: at(13, 0)},
	}
}

func TestDue(t *testing.T) {
	got := Due(testEvents(), now, 30*time.Minute)
	if len(got) != 2 || got[0].ID != "soon" || got[1].ID != "edge" {
		t.Errorf("Due() = %+v, want [soon edge]", got)
	}
	if got := Due(testEvents(), now, 0); len(got) != 0 {
		t.Errorf("Due(lead 0) = %+v, want none", got)
	}
}

func TestReminder(t *testing.T) {
	e := calendar.Event{
		ID:          "x",
		Title:       "Planning",
		Description: "https://meet.google.com/abc-defg-hij",
		Start:       at(10, 30),
	}
	n := Reminder(e, now)
	if n.Summary != "Planning" || n.EventID != "x" {
		t.Errorf("Reminder() = %+v", n)
	}
	want := "Starts at 10:30 (in 1h30m)\nhttps://meet.google.com/abc-defg-hij"
	if n.Body != want {
		t.Errorf("Body = %q, want %q", n.Body, want)
	}
	if len(n.Actions) != 1 || n.Actions[0].Label != "Join Meet" {
		t.Errorf("Actions = %+v", n.Actions)
	}

	if got := Reminder(calendar.Event{Start: at(9, 0)}, now); got.Summary != "(untitled)" {
		t.Errorf("untitled Summary = %q", got.Summary)
	}
}

func TestRemind(t *testing.T) {
	cfg := settings.Default().Notifications

	t.Run("sends due", func(t *testing.T) {
		s := &fakeSender{}
		n, err := Remind(s, testEvents(), now, cfg)
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 || len(s.sent) != 2 {
			t.Fatalf("sent %d (%d recorded), want 2", n, len(s.sent))
		}
		if s.sent[1].Summary != "(untitled)" {
			t.Errorf("second Summary = %q", s.sent[1].Summary)
		}
	})

	t.Run("desktop disabled", func(t *testing.T) {
		s := &fakeSender{}
		off := cfg
		off.Desktop = false
		n, err := Remind(s, testEvents(), now, off)
		if err != nil || n != 0 || len(s.sent) != 0 {
			t.Errorf("Remind() = %d, %v; sent %d", n, err, len(s.sent))
		}
	})

	t.Run("short lead", func(t *testing.T) {
		s := &fakeSender{}
		short := cfg
		short.ReminderDefault = 20
		n, _ := Remind(s, testEvents(), now, short)
		if n != 1 || s.sent[0].EventID != "soon" {
			t.Errorf("Remind() = %d, sent %+v", n, s.sent)
		}
	})

	t.Run("send errors", func(t *testing.T) {
		boom := errors.New("boom")
		n, err := Remind(&fakeSender{err: boom}, testEvents(), now, cfg)
		if n != 0 || !errors.Is(err, boom) {
			t.Errorf("Remind() = %d, %v", n, err)
		}
	})
}

func TestDedup(t *testing.T) {
	clock := now
	inner := &fakeSender{}
	d := &Dedup{Sender: inner, Window: time.Minute, Now: func() time.Time { return clock }}

	for i := 0; i < 3; i++ {
		if _, err := d.Send(Notification{EventID: "a"}); err != nil {
			t.Fatal(err)
		}
	}
	if len(inner.sent) != 1 {
		t.Fatalf("sent %d, want 1", len(inner.sent))
	}

	clock = clock.Add(2 * time.Minute)
	d.Send(Notification{EventID: "a"})
	d.Send(Notification{})
	d.Send(Notification{})
	if len(inner.sent) != 4 {
		t.Fatalf("sent %d, want 4", len(inner.sent))
	}

	clock = clock.Add(time.Hour)
	d.Cleanup(30 * time.Minute)
	if len(d.sent) != 0 {
		t.Errorf("Cleanup left %d entries", len(d.sent))
	}
}

func TestFormatLead(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "less than a minute"},
		{15 * time.Minute, "15m"},
		{2 * time.Hour, "2h"},
		{90 * time.Minute, "1h30m"},
	}
	for _, tt := range tests {
		if got := formatLead(tt.in); got != tt.want {
			t.Errorf("formatLead(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
