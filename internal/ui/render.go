package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/grid"
	"github.com/cpuguy83/calgrid/internal/settings"
)

const (
	gutterWidth = 6
	untitled    = "(untitled)"
	ellipsis    = "…"
)

var (
	colorText   = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#2563eb", Dark: "#60a5fa"}
)

type styles struct {
	header  lipgloss.Style
	weekday lipgloss.Style
	day     lipgloss.Style
	outside lipgloss.Style
	today   lipgloss.Style
	cursor  lipgloss.Style
	gutter  lipgloss.Style
	muted   lipgloss.Style
	title   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	base := r.NewStyle().Foreground(colorText)
	return styles{
		header:  base.Bold(true).Foreground(colorAccent),
		weekday: base.Foreground(colorMuted),
		day:     base,
		outside: base.Foreground(colorMuted).Faint(true),
		today:   base.Bold(true).Foreground(colorAccent),
		cursor:  base.Reverse(true),
		gutter:  base.Foreground(colorMuted).Width(gutterWidth),
		muted:   base.Foreground(colorMuted),
		title:   base.Bold(true),
	}
}

// Renderer draws grids and event details.
type Renderer struct {
	cfg      Config
	lg       *lipgloss.Renderer
	styles   styles
	selected string
}

// New creates a renderer targeting w. The theme decides whether the
// adaptive colors use their light or dark variant.
func New(w io.Writer, cfg Config) *Renderer {
	cfg = cfg.withDefaults()

	lg := lipgloss.NewRenderer(w)
	r := &Renderer{cfg: cfg, lg: lg, styles: newStyles(lg)}
	r.SetTheme(cfg.Theme)
	return r
}

// SetTheme switches the palette. ThemeSystem keeps whatever background was
// detected or set last.
func (r *Renderer) SetTheme(t Theme) {
	switch t {
	case ThemeDark:
		r.lg.SetHasDarkBackground(true)
	case ThemeLight:
		r.lg.SetHasDarkBackground(false)
	}
	r.cfg.Theme = t
}

// Theme returns the resolved theme, never ThemeSystem.
func (r *Renderer) Theme() Theme {
	if r.Dark() {
		return ThemeDark
	}
	return ThemeLight
}

// SetCalendars replaces the calendars used to resolve names.
func (r *Renderer) SetCalendars(cals []calendar.Calendar) {
	r.cfg.Calendars = cals
}

// SetSettings replaces the settings used for time zone labels.
func (r *Renderer) SetSettings(s settings.Settings) {
	r.cfg.Settings = s
}

// Select marks the cell with the given key (see grid.Cell.Key) with a ">"
// cursor in later Grid calls. The empty key clears the cursor.
func (r *Renderer) Select(key string) {
	r.selected = key
}

// SetColorProfile overrides the detected terminal color profile.
func (r *Renderer) SetColorProfile(p termenv.Profile) {
	r.lg.SetColorProfile(p)
}

// Dark reports whether the dark palette is in use.
func (r *Renderer) Dark() bool {
	return r.lg.HasDarkBackground()
}

// Grid renders the header label and the cells of view v around anchor.
// cells must come from r's layout for the same view and anchor.
func (r *Renderer) Grid(v grid.View, anchor time.Time, cells []grid.Cell, p grid.Placement) string {
	header := r.styles.header.Render(r.cfg.Layout.HeaderLabel(v, anchor))

	var body string
	switch v {
	case grid.Week:
		body = r.week(cells, p)
	case grid.Day:
		body = r.day(cells, p)
	default:
		body = r.month(cells, p)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

func (r *Renderer) month(cells []grid.Cell, p grid.Placement) string {
	w := r.cfg.CellWidth

	var head []string
	for _, c := range cells[:min(7, len(cells))] {
		head = append(head, r.styles.weekday.Width(w).Render(c.Date.Format("Mon")))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, head...)}

	for i := 0; i < len(cells); i += 7 {
		var week []string
		for _, c := range cells[i:min(i+7, len(cells))] {
			week = append(week, r.monthCell(c, p.For(c)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (r *Renderer) monthCell(c grid.Cell, events []calendar.Event) string {
	w := r.cfg.CellWidth
	maxEvents := r.cfg.MaxEventsPerCell

	label := strconv.Itoa(c.Date.Day())
	style := r.styles.day
	switch {
	case r.cfg.Layout.IsToday(c.Date):
		label = "*" + label
		style = r.styles.today
	case c.Outside:
		style = r.styles.outside
	}

	var lines []string
	if c.Key() == r.selected {
		lines = append(lines, r.styles.cursor.Render(">"+label))
	} else {
		lines = append(lines, style.Render(label))
	}
	// Overflowing cells give up one title row to the "+N more" line.
	shown := events
	if len(shown) > maxEvents {
		shown = shown[:maxEvents-1]
	}
	for _, e := range shown {
		lines = append(lines, r.eventLine(e, w-1))
	}
	if more := len(events) - len(shown); more > 0 {
		lines = append(lines, r.styles.muted.Render(fmt.Sprintf("+%d more", more)))
	}

	return r.lg.NewStyle().Width(w).Height(1 + maxEvents).Render(strings.Join(lines, "\n"))
}

// week renders the hour-major week cells as 24 rows of 7 columns.
func (r *Renderer) week(cells []grid.Cell, p grid.Placement) string {
	w := r.cfg.CellWidth
	days := grid.Days(cells)

	head := []string{r.styles.gutter.Render("")}
	for _, d := range days {
		label := d.Format("Mon 2")
		style := r.styles.weekday
		if r.cfg.Layout.IsToday(d) {
			label = "*" + label
			style = r.styles.today
		}
		head = append(head, style.Width(w).Render(label))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, head...)}

	cols := len(days)
	if cols == 0 {
		return rows[0]
	}
	for i := 0; i < len(cells); i += cols {
		row := cells[i:min(i+cols, len(cells))]
		parts := []string{r.styles.gutter.Render(hourLabel(row[0].Hour))}
		for _, c := range row {
			var cell string
			if c.Key() == r.selected {
				cell = r.styles.cursor.Render(">") + r.hourCell(p.For(c), w-2)
			} else {
				cell = r.hourCell(p.For(c), w-1)
			}
			parts = append(parts, r.lg.NewStyle().Width(w).Render(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, parts...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// day renders one row per hour listing every event in that hour.
func (r *Renderer) day(cells []grid.Cell, p grid.Placement) string {
	width := 4 * r.cfg.CellWidth

	var rows []string
	for _, c := range cells {
		var items []string
		for _, e := range p.For(c) {
			items = append(items, r.eventLine(e, r.cfg.CellWidth))
		}
		line := ansi.Truncate(strings.Join(items, "  "), width, ellipsis)
		label := hourLabel(c.Hour)
		if c.Key() == r.selected {
			label = r.styles.cursor.Render(">" + label)
		}
		rows = append(rows, r.styles.gutter.Render(label)+line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// hourCell shows the first event of a week cell and how many others share it.
func (r *Renderer) hourCell(events []calendar.Event, width int) string {
	switch len(events) {
	case 0:
		return ""
	case 1:
		return r.eventLine(events[0], width)
	}
	suffix := fmt.Sprintf(" +%d", len(events)-1)
	return r.eventLine(events[0], width-len(suffix)) + r.styles.muted.Render(suffix)
}

// eventLine is a colored bullet and the title, at most width columns wide.
func (r *Renderer) eventLine(e calendar.Event, width int) string {
	title := e.Title
	if title == "" {
		title = untitled
	}
	bullet := r.lg.NewStyle().Foreground(lipgloss.Color(e.Color.Hex())).Render("•")
	return bullet + " " + ansi.Truncate(title, max(width-2, 1), ellipsis)
}

func hourLabel(h int) string {
	return fmt.Sprintf("%02d:00", h)
}
