// Package notify provides desktop reminders via D-Bus.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	notifyInterface = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
)

// Sender delivers a notification and returns its server-assigned ID.
type Sender interface {
	Send(Notification) (uint32, error)
}

// Notifier sends desktop notifications via D-Bus.
type Notifier struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	appName string
}

// New connects to the session bus.
func New(appName string) (*Notifier, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	return &Notifier{
		conn:    conn,
		obj:     conn.Object(notifyInterface, notifyPath),
		appName: appName,
	}, nil
}

// Close closes the D-Bus connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}

// Notification represents a desktop notification.
type Notification struct {
	Summary string
	Body    string
	Icon    string
	Timeout time.Duration // 0 = default, -1 = persistent
	Actions []Action
	Urgency Urgency

	// EventID identifies the event the notification is about.
	EventID string
}

// Action represents a notification action button.
type Action struct {
	Key   string
	Label string
}

// Urgency levels for notifications.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Send sends a notification and returns the notification ID.
func (n *Notifier) Send(notif Notification) (uint32, error) {
	// [key1, label1, key2, label2, ...]
	var actions []string
	for _, a := range notif.Actions {
		actions = append(actions, a.Key, a.Label)
	}

	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(notif.Urgency)),
	}

	timeout := int32(-1)
	if notif.Timeout > 0 {
		timeout = int32(notif.Timeout.Milliseconds())
	} else if notif.Timeout < 0 {
		timeout = 0
	}

	icon := notif.Icon
	if icon == "" {
		icon = "x-office-calendar"
	}

	call := n.obj.Call(
		notifyInterface+".Notify",
		0,
		n.appName,     // app_name
		uint32(0),     // replaces_id
		icon,          // app_icon
		notif.Summary, // summary
		notif.Body,    // body
		actions,       // actions
		hints,         // hints
		timeout,       // expire_timeout
	)
	if call.Err != nil {
		return 0, fmt.Errorf("send notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("get notification id: %w", err)
	}

	slog.Debug("sent notification", "id", id, "summary", notif.Summary)
	return id, nil
}

// Dedup wraps a Sender and drops repeat notifications for the same event
// within a window.
type Dedup struct {
	Sender Sender
	Window time.Duration
	Now    func() time.Time

	mu   sync.Mutex
	sent map[string]time.Time
}

func (d *Dedup) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Send forwards notif unless one for the same event went out within the
// window. A skipped notification returns ID 0 and no error.
func (d *Dedup) Send(notif Notification) (uint32, error) {
	if notif.EventID != "" {
		d.mu.Lock()
		if d.sent == nil {
			d.sent = make(map[string]time.Time)
		}
		now := d.now()
		if last, ok := d.sent[notif.EventID]; ok && now.Sub(last) < d.Window {
			d.mu.Unlock()
			return 0, nil
		}
		d.sent[notif.EventID] = now
		d.mu.Unlock()
	}
	return d.Sender.Send(notif)
}

// Cleanup removes tracking entries older than maxAge.
func (d *Dedup) Cleanup(maxAge time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := d.now().Add(-maxAge)
	for id, t := range d.sent {
		if t.Before(cutoff) {
			delete(d.sent, id)
		}
	}
}
