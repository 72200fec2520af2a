package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
)

const (
	browseHelp   = "←→↑↓ move  n/p next/prev  t today  m/w/d view  enter new  e edit  x delete  tab next event  c calendars  s settings  T theme  ctrl+s save  q quit"
	calendarHelp = "↑↓ move  a add  e edit  x delete  esc back"
	formHelp     = "tab/↑↓ field  ←→ choose  enter next  ctrl+s save  esc cancel"
)

func (m *Model) View() string {
	var body, help string
	switch m.mode {
	case modeEventForm, modeCalendarForm, modeSettingsForm:
		body, help = m.form.view(), formHelp
	case modeCalendars:
		body, help = m.calendarsView(), calendarHelp
	case modeConfirm:
		body, help = m.confirm.prompt+" [y/N]", ""
	default:
		body, help = m.browseView(), browseHelp
	}

	lines := []string{body, ""}
	switch {
	case m.err != nil:
		lines = append(lines, errStyle.Render("Error: "+m.err.Error()))
	case m.status != "":
		lines = append(lines, statusStyle.Render(m.status))
	}
	if help != "" {
		lines = append(lines, helpStyle.Render(help))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) browseView() string {
	cells := m.ctrl.Cells()
	out := m.r.Grid(m.ctrl.View(), m.ctrl.Anchor(), cells, m.ctrl.Placement(cells))

	events := m.selectedEvents()
	if len(events) == 0 {
		return out + "\n\n" + fmt.Sprintf("No events on %s", m.sel.Format("Mon, Jan 2"))
	}

	detail := m.r.Event(events[min(m.eventIdx, len(events)-1)])
	if len(events) > 1 {
		detail += "\n" + helpStyle.Render(fmt.Sprintf("  %d of %d on %s", m.eventIdx+1, len(events), m.sel.Format("Mon, Jan 2")))
	}
	return out + "\n\n" + detail
}

func (m *Model) calendarsView() string {
	snap := m.ctrl.Snapshot()
	cals := snap.Calendars()

	lines := []string{titleStyle.Render("Calendars"), ""}
	if len(cals) == 0 {
		lines = append(lines, "  No calendars")
	}
	for i, c := range cals {
		marker := "  "
		if i == m.calIdx {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s (%s)", marker, c.Name, c.Color.Name()))
	}
	if n := len(snap.Orphans()); n > 0 {
		lines = append(lines, "", helpStyle.Render(fmt.Sprintf("  %d events reference deleted calendars", n)))
	}
	return strings.Join(lines, "\n")
}
