// Package settings holds the user's display settings and the fixed catalogs
// they are chosen from.
//
// Language and region are recorded but nothing formats dates with them yet;
// grid labels are always English.
package settings

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalid is returned by Validate for settings outside the catalogs.
var ErrInvalid = errors.New("invalid settings")

// Option is one catalog entry.
type Option struct {
	Label string
	Tag   string
}

// Languages is the language catalog.
var Languages = []Option{
	{"English (US)", "en-US"},
	{"English (UK)", "en-GB"},
	{"Spanish", "es"},
	{"French", "fr"},
	{"German", "de"},
	{"Italian", "it"},
	{"Japanese", "ja"},
	{"Korean", "ko"},
	{"Chinese (Simplified)", "zh-CN"},
	{"Chinese (Traditional)", "zh-TW"},
}

// Regions is the region catalog.
var Regions = []Option{
	{"United States", "US"},
	{"United Kingdom", "GB"},
	{"European Union", "EU"},
	{"Canada", "CA"},
	{"Australia", "AU"},
	{"Japan", "JP"},
	{"India", "IN"},
	{"Brazil", "BR"},
}

// TimeZones is the time zone catalog. Tags are IANA names.
var TimeZones = []Option{
	{"(GMT-08:00) Pacific Time", "America/Los_Angeles"},
	{"(GMT-07:00) Mountain Time", "America/Denver"},
	{"(GMT-06:00) Central Time", "America/Chicago"},
	{"(GMT-05:00) Eastern Time", "America/New_York"},
	{"(GMT+00:00) UTC", "UTC"},
	{"(GMT+01:00) Central European Time", "Europe/Paris"},
	{"(GMT+02:00) Eastern European Time", "Europe/Helsinki"},
	{"(GMT+05:30) India Standard Time", "Asia/Kolkata"},
	{"(GMT+08:00) China Standard Time", "Asia/Shanghai"},
	{"(GMT+09:00) Japan Standard Time", "Asia/Tokyo"},
}

// Label returns the display label for tag in catalog.
func Label(catalog []Option, tag string) (string, bool) {
	for _, o := range catalog {
		if o.Tag == tag {
			return o.Label, true
		}
	}
	return "", false
}

// Notifications configures reminders.
type Notifications struct {
	Email   bool
	Desktop bool

	// ReminderDefault is the default reminder lead time in minutes.
	ReminderDefault int
}

// Reminder returns the reminder lead as a duration.
func (n Notifications) Reminder() time.Duration {
	return time.Duration(n.ReminderDefault) * time.Minute
}

// Settings is the process-wide display configuration. It is replaced
// wholesale on save and never persisted.
type Settings struct {
	Language      string
	Region        string
	TimeZone      string
	Notifications Notifications
}

// Default returns the settings used on startup.
func Default() Settings {
	return Settings{
		Language: "en-US",
		Region:   "US",
		TimeZone: "America/New_York",
		Notifications: Notifications{
			Email:           true,
			Desktop:         true,
			ReminderDefault: 30,
		},
	}
}

// Validate checks every tag against its catalog.
func (s Settings) Validate() error {
	if _, ok := Label(Languages, s.Language); !ok {
		return fmt.Errorf("%w: unknown language %q", ErrInvalid, s.Language)
	}
	if _, ok := Label(Regions, s.Region); !ok {
		return fmt.Errorf("%w: unknown region %q", ErrInvalid, s.Region)
	}
	if _, ok := Label(TimeZones, s.TimeZone); !ok {
		return fmt.Errorf("%w: unknown time zone %q", ErrInvalid, s.TimeZone)
	}
	if s.Notifications.ReminderDefault < 0 {
		return fmt.Errorf("%w: negative reminder %d", ErrInvalid, s.Notifications.ReminderDefault)
	}
	return nil
}

// Location loads the time zone. It is only used to label times; events
// are never converted between zones.
func (s Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone: %w", err)
	}
	return loc, nil
}

// TimeZoneLabel returns the catalog label for the configured zone, or the
// raw tag.
func (s Settings) TimeZoneLabel() string {
	if l, ok := Label(TimeZones, s.TimeZone); ok {
		return l
	}
	return s.TimeZone
}
