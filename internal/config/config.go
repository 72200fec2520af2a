// Package config provides configuration loading for calgrid.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/settings"
)

// Config is the root configuration structure.
type Config struct {
	Calendar CalendarConfig `yaml:"calendar"`
	Settings SettingsConfig `yaml:"settings"`
	Filters  FilterConfig   `yaml:"filters"`
	UI       UIConfig       `yaml:"ui"`
}

// CalendarConfig configures the grid and the initial store contents.
type CalendarConfig struct {
	WeekStart       time.Weekday     `yaml:"week_start"` // "sunday" (default) or any weekday name
	View            string           `yaml:"view"`       // "month", "week", "day"
	DefaultCalendar string           `yaml:"default_calendar"`
	Calendars       []CalendarSource `yaml:"calendars"`
	EventsFile      string           `yaml:"events_file,omitempty"` // ICS file to seed events from
}

// CalendarSource declares a named calendar.
type CalendarSource struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// SettingsConfig supplies the startup settings.
type SettingsConfig struct {
	Language      string             `yaml:"language"`
	Region        string             `yaml:"region"`
	TimeZone      string             `yaml:"time_zone"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// NotificationConfig configures reminders.
type NotificationConfig struct {
	Email    *bool         `yaml:"email"`
	Desktop  *bool         `yaml:"desktop"`
	Reminder time.Duration `yaml:"reminder_default"`
}

// FilterConfig configures event filtering.
type FilterConfig struct {
	Mode  string       `yaml:"mode"` // "or" or "and"
	Rules []FilterRule `yaml:"rules"`
}

// FilterRule defines a single filter rule.
// Use exactly one of: Contains, Exact, Prefix, Suffix, or Regex.
type FilterRule struct {
	Field           string `yaml:"field"`              // "title", "description", "calendar", "color"
	Contains        string `yaml:"contains,omitempty"` // Substring match
	Exact           string `yaml:"exact,omitempty"`    // Exact string match
	Prefix          string `yaml:"prefix,omitempty"`   // Starts with
	Suffix          string `yaml:"suffix,omitempty"`   // Ends with
	Regex           string `yaml:"regex,omitempty"`    // Regular expression
	CaseInsensitive bool   `yaml:"case_insensitive"`
}

// UIConfig configures the text renderer.
type UIConfig struct {
	Theme            string `yaml:"theme"`               // "system", "light", "dark"
	CellWidth        int    `yaml:"cell_width"`          // Columns per day cell (default: 14)
	MaxEventsPerCell int    `yaml:"max_events_per_cell"` // Titles listed per month cell (default: 3)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Path returns the default config location (~/.config/calgrid/config.yaml).
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(configDir, "calgrid", "config.yaml"), nil
}

// Load reads configuration from the default location. A missing file is
// not an error: the defaults are returned.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return cfg, err
}

// LoadFrom reads configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOverrides are environment variables that take precedence over the file.
type envOverrides struct {
	WeekStart  string `env:"CALGRID_WEEK_START"`
	View       string `env:"CALGRID_VIEW"`
	EventsFile string `env:"CALGRID_EVENTS_FILE"`
	TimeZone   string `env:"CALGRID_TIME_ZONE"`
	Theme      string `env:"CALGRID_THEME"`
}

// ApplyEnv applies CALGRID_* environment overrides.
func (c *Config) ApplyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if o.WeekStart != "" {
		wd, err := parseWeekday(o.WeekStart)
		if err != nil {
			return fmt.Errorf("parse CALGRID_WEEK_START: %w", err)
		}
		c.Calendar.WeekStart = wd
	}
	if o.View != "" {
		c.Calendar.View = o.View
	}
	if o.EventsFile != "" {
		c.Calendar.EventsFile = expandPath(o.EventsFile)
	}
	if o.TimeZone != "" {
		c.Settings.TimeZone = o.TimeZone
	}
	if o.Theme != "" {
		c.UI.Theme = o.Theme
	}
	return nil
}

// Parse decodes YAML configuration and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.Calendar.EventsFile = expandPath(cfg.Calendar.EventsFile)

	return &cfg, nil
}

// applyDefaults sets default values for unspecified config options.
func (c *Config) applyDefaults() {
	if c.Calendar.View == "" {
		c.Calendar.View = "month"
	}
	if c.Calendar.DefaultCalendar == "" {
		c.Calendar.DefaultCalendar = calendar.DefaultCalendarID
	}
	if c.Calendar.Calendars == nil {
		for _, cal := range calendar.DefaultCalendars() {
			c.Calendar.Calendars = append(c.Calendar.Calendars, CalendarSource{
				ID:    cal.ID,
				Name:  cal.Name,
				Color: string(cal.Color),
			})
		}
	}

	def := settings.Default()
	if c.Settings.Language == "" {
		c.Settings.Language = def.Language
	}
	if c.Settings.Region == "" {
		c.Settings.Region = def.Region
	}
	if c.Settings.TimeZone == "" {
		c.Settings.TimeZone = def.TimeZone
	}
	if c.Settings.Notifications.Email == nil {
		c.Settings.Notifications.Email = &def.Notifications.Email
	}
	if c.Settings.Notifications.Desktop == nil {
		c.Settings.Notifications.Desktop = &def.Notifications.Desktop
	}
	if c.Settings.Notifications.Reminder == 0 {
		c.Settings.Notifications.Reminder = def.Notifications.Reminder()
	}

	if c.Filters.Mode == "" {
		c.Filters.Mode = "or"
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "system"
	}
	if c.UI.CellWidth == 0 {
		c.UI.CellWidth = 14
	}
	if c.UI.MaxEventsPerCell == 0 {
		c.UI.MaxEventsPerCell = 3
	}
}

// CalendarList converts the configured calendars. Unknown colors fall back to
// the default palette entry.
func (c *CalendarConfig) CalendarList() []calendar.Calendar {
	out := make([]calendar.Calendar, 0, len(c.Calendars))
	for _, src := range c.Calendars {
		color := calendar.Color(strings.ToLower(src.Color))
		if !color.Valid() {
			color = calendar.DefaultColor
		}
		out = append(out, calendar.Calendar{ID: src.ID, Name: src.Name, Color: color})
	}
	return out
}

// Startup returns the settings the application starts with.
func (s *SettingsConfig) Startup() settings.Settings {
	out := settings.Settings{
		Language: s.Language,
		Region:   s.Region,
		TimeZone: s.TimeZone,
		Notifications: settings.Notifications{
			ReminderDefault: int((s.Notifications.Reminder + time.Minute - 1) / time.Minute),
		},
	}
	if s.Notifications.Email != nil {
		out.Notifications.Email = *s.Notifications.Email
	}
	if s.Notifications.Desktop != nil {
		out.Notifications.Desktop = *s.Notifications.Desktop
	}
	return out
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// UnmarshalYAML implements custom unmarshaling for the week start.
func (c *CalendarConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		WeekStart       string           `yaml:"week_start"`
		View            string           `yaml:"view"`
		DefaultCalendar string           `yaml:"default_calendar"`
		Calendars       []CalendarSource `yaml:"calendars"`
		EventsFile      string           `yaml:"events_file"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	wd, err := parseWeekday(raw.WeekStart)
	if err != nil {
		return fmt.Errorf("parse week_start: %w", err)
	}
	c.WeekStart = wd
	c.View = raw.View
	c.DefaultCalendar = raw.DefaultCalendar
	c.Calendars = raw.Calendars
	c.EventsFile = raw.EventsFile
	return nil
}

// UnmarshalYAML implements custom unmarshaling for notification config.
func (c *NotificationConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Email    *bool  `yaml:"email"`
		Desktop  *bool  `yaml:"desktop"`
		Reminder string `yaml:"reminder_default"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.Email = raw.Email
	c.Desktop = raw.Desktop

	// Bare integers are minutes.
	if n, err := strconv.Atoi(strings.TrimSpace(raw.Reminder)); err == nil {
		if n < 0 {
			return fmt.Errorf("parse reminder_default: negative minutes %d", n)
		}
		c.Reminder = time.Duration(n) * time.Minute
		return nil
	}

	d, err := parseDuration(raw.Reminder)
	if err != nil {
		return fmt.Errorf("parse reminder_default: %w", err)
	}
	if d > 0 && d < time.Minute {
		return fmt.Errorf("parse reminder_default: %q is shorter than a minute", raw.Reminder)
	}
	c.Reminder = d
	return nil
}

// parseWeekday parses a weekday name or its three-letter abbreviation.
// The empty string means Sunday.
func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return time.Sunday, nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// parseDuration extends time.ParseDuration with day ("d") and week ("w")
// units. Negative durations are rejected.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var unit time.Duration
	switch {
	case strings.HasSuffix(s, "d"):
		unit = 24 * time.Hour
	case strings.HasSuffix(s, "w"):
		unit = 7 * 24 * time.Hour
	}

	if unit != 0 {
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		if n < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(n) * unit, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
