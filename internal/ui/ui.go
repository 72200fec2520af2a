// Package ui renders calendar grids and event details as styled text.
package ui

import (
	"fmt"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/grid"
	"github.com/cpuguy83/calgrid/internal/settings"
)

// Theme selects the light or dark palette.
type Theme string

const (
	ThemeSystem Theme = "system" // follow the terminal background
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ParseTheme parses a theme name. The empty string means ThemeSystem.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case "":
		return ThemeSystem, nil
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Toggle flips between dark and light. Any theme other than dark becomes dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Config holds renderer configuration. It is passed explicitly; the
// renderer reads no global state.
type Config struct {
	Theme  Theme
	Layout grid.Layout

	// CellWidth is the number of columns per day cell.
	CellWidth int

	// MaxEventsPerCell caps the titles listed in a month cell.
	MaxEventsPerCell int

	// Calendars resolves calendar names in the event detail view.
	Calendars []calendar.Calendar

	// Settings supplies the time zone label shown with event times.
	Settings settings.Settings
}

func (c Config) withDefaults() Config {
	if c.Theme == "" {
		c.Theme = ThemeSystem
	}
	if c.CellWidth < 6 {
		c.CellWidth = 14
	}
	if c.MaxEventsPerCell <= 0 {
		c.MaxEventsPerCell = 3
	}
	return c
}
