// Package tui is the interactive calendar: a bubbletea model over the
// app controller that navigates the grid and edits events, calendars and
// settings.
package tui

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cpuguy83/calgrid/internal/app"
	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/grid"
	"github.com/cpuguy83/calgrid/internal/settings"
	"github.com/cpuguy83/calgrid/internal/ui"
)

// inputTime is the layout of start and end in the event form.
const inputTime = "2006-01-02 15:04"

type mode int

const (
	modeBrowse mode = iota
	modeEventForm
	modeCalendars
	modeCalendarForm
	modeSettingsForm
	modeConfirm
)

// Event form fields.
const (
	fieldTitle = iota
	fieldDescription
	fieldStart
	fieldEnd
	fieldColor
	fieldCalendar
)

// Calendar form fields.
const (
	fieldCalName = iota
	fieldCalColor
)

// Settings form fields.
const (
	fieldLanguage = iota
	fieldRegion
	fieldTimeZone
	fieldDesktop
	fieldEmail
	fieldReminder
)

type confirmation struct {
	prompt string
	yes    func()
	back   mode
}

// Options configures the model.
type Options struct {
	// Renderer draws the grid and details. Its theme should be resolved
	// (light or dark) before the program starts.
	Renderer *ui.Renderer

	// EventsFile is where ctrl+s writes the events. Empty disables saving.
	EventsFile string
}

// Model is the bubbletea model of the interactive calendar.
type Model struct {
	ctrl       *app.Controller
	r          *ui.Renderer
	eventsFile string

	mode mode
	sel  time.Time // selected day
	hour int       // selected hour in week and day views

	eventIdx int // selected event within the selected cell
	calIdx   int // cursor in the calendar list

	form    form
	editID  string // event or calendar being edited, empty when creating
	confirm confirmation

	status string
	err    error
}

// New creates the model with the selection on the controller's anchor.
func New(ctrl *app.Controller, opts Options) *Model {
	m := &Model{
		ctrl:       ctrl,
		r:          opts.Renderer,
		eventsFile: opts.EventsFile,
	}
	m.jump(ctrl.Anchor())
	m.hour = ctrl.Anchor().Hour()
	m.sync()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func (m *Model) Run() error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if k.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeEventForm, modeCalendarForm, modeSettingsForm:
		return m, m.handleFormKeys(k)
	case modeCalendars:
		m.handleCalendarKeys(k)
		return m, nil
	case modeConfirm:
		m.handleConfirmKeys(k)
		return m, nil
	}
	return m.handleBrowseKeys(k)
}

func (m *Model) handleBrowseKeys(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status, m.err = "", nil

	switch k.String() {
	case "q":
		return m, tea.Quit
	case "n", "pgdown":
		m.jump(m.ctrl.Next())
	case "p", "pgup":
		m.jump(m.ctrl.Previous())
	case "t":
		m.jump(m.ctrl.Today())
	case "m":
		m.setView(grid.Month)
	case "w":
		m.setView(grid.Week)
	case "d":
		m.setView(grid.Day)
	case "left", "h":
		m.moveDays(-1)
	case "right", "l":
		m.moveDays(1)
	case "up", "k":
		if m.ctrl.View() == grid.Month {
			m.moveDays(-7)
		} else {
			m.hour = max(m.hour-1, 0)
		}
	case "down", "j":
		if m.ctrl.View() == grid.Month {
			m.moveDays(7)
		} else {
			m.hour = min(m.hour+1, grid.HoursPerDay-1)
		}
	case "tab":
		m.cycleEvent(1)
	case "shift+tab":
		m.cycleEvent(-1)
	case "enter", "a":
		m.openEventForm(m.ctrl.DraftAt(m.selectedCell()))
	case "e":
		if e, ok := m.selectedEvent(); ok {
			m.openEventForm(e)
		}
	case "x", "delete":
		if e, ok := m.selectedEvent(); ok {
			m.ask(fmt.Sprintf("Delete event %q?", titleOf(e.Title)), func() {
				m.ctrl.DeleteEvent(e.ID)
				m.status = "Deleted event"
			})
		}
	case "c":
		m.mode = modeCalendars
	case "s":
		m.openSettingsForm()
	case "T":
		m.r.SetTheme(m.r.Theme().Toggle())
	case "ctrl+s":
		m.save()
	}

	m.sync()
	return m, nil
}

// jump selects t's day, keeping the selected hour.
func (m *Model) jump(t time.Time) {
	y, mo, d := t.Date()
	m.sel = time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}

func (m *Model) setView(v grid.View) {
	m.ctrl.SetView(v)
	m.ctrl.SetAnchor(m.sel)
}

// moveDays moves the selection and pages the grid when the selection
// leaves the current period.
func (m *Model) moveDays(n int) {
	y, mo, d := m.sel.Date()
	m.sel = time.Date(y, mo, d+n, 0, 0, 0, 0, m.sel.Location())

	key := m.sel.Format(time.DateOnly)
	for _, c := range m.ctrl.Cells() {
		if !c.Outside && c.Date.Format(time.DateOnly) == key {
			return
		}
	}
	m.ctrl.SetAnchor(m.sel)
}

func (m *Model) selectedCell() grid.Cell {
	return grid.Cell{Date: m.sel, Hour: m.hour, Hourly: m.ctrl.View() != grid.Month}
}

func (m *Model) selectedEvents() []calendar.Event {
	cell := m.selectedCell()
	return grid.EventsOn(cell.Date, m.ctrl.Visible())
}

func (m *Model) selectedEvent() (calendar.Event, bool) {
	events := m.selectedEvents()
	if len(events) == 0 {
		return calendar.Event{}, false
	}
	return events[min(m.eventIdx, len(events)-1)], true
}

func (m *Model) cycleEvent(n int) {
	if count := len(m.selectedEvents()); count > 0 {
		m.eventIdx = (m.eventIdx + n + count) % count
	}
}

// sync pushes the selection and store state into the renderer.
func (m *Model) sync() {
	if count := len(m.selectedEvents()); m.eventIdx >= count {
		m.eventIdx = 0
	}
	cals := m.ctrl.Snapshot().Calendars()
	if m.calIdx >= len(cals) {
		m.calIdx = max(len(cals)-1, 0)
	}
	m.r.SetCalendars(cals)
	m.r.SetSettings(m.ctrl.Settings())
	m.r.Select(m.selectedCell().Key())
}

func (m *Model) ask(prompt string, yes func()) {
	m.confirm = confirmation{prompt: prompt, yes: yes, back: m.mode}
	m.mode = modeConfirm
}

func (m *Model) handleConfirmKeys(k tea.KeyMsg) {
	switch k.String() {
	case "y", "Y":
		m.confirm.yes()
	case "n", "N", "esc", "q":
	default:
		return
	}
	m.mode = m.confirm.back
	m.sync()
}

func (m *Model) handleCalendarKeys(k tea.KeyMsg) {
	m.status, m.err = "", nil
	cals := m.ctrl.Snapshot().Calendars()

	switch k.String() {
	case "esc", "q", "c":
		m.mode = modeBrowse
	case "up", "k":
		m.calIdx = max(m.calIdx-1, 0)
	case "down", "j":
		m.calIdx = min(m.calIdx+1, max(len(cals)-1, 0))
	case "a":
		m.openCalendarForm(calendar.Calendar{Color: calendar.DefaultColor})
	case "e", "enter":
		if len(cals) > 0 {
			m.openCalendarForm(cals[m.calIdx])
		}
	case "x", "delete":
		if len(cals) > 0 {
			cal := cals[m.calIdx]
			m.ask(fmt.Sprintf("Delete calendar %q? Its events are kept.", cal.Name), func() {
				m.ctrl.DeleteCalendar(cal.ID)
				m.status = "Deleted calendar"
			})
		}
	}
	m.sync()
}

func (m *Model) openEventForm(e calendar.Event) {
	colorLabels, colorValues := palette()

	var calLabels, calValues []string
	for _, c := range m.ctrl.Snapshot().Calendars() {
		calLabels = append(calLabels, c.Name)
		calValues = append(calValues, c.ID)
	}
	if !slices.Contains(calValues, e.CalendarID) {
		calLabels = append(calLabels, e.CalendarID+" (deleted)")
		calValues = append(calValues, e.CalendarID)
	}

	title := "New event"
	if e.ID != "" {
		title = "Edit event"
	}
	m.editID = e.ID
	m.form = newForm(title,
		textField("Title", e.Title),
		textField("Description", e.Description),
		textField("Start", e.Start.Format(inputTime)),
		textField("End", e.End.Format(inputTime)),
		choiceField("Color", colorLabels, colorValues, string(e.Color)),
		choiceField("Calendar", calLabels, calValues, e.CalendarID),
	)
	m.mode = modeEventForm
}

func (m *Model) openCalendarForm(c calendar.Calendar) {
	colorLabels, colorValues := palette()

	title := "New calendar"
	if c.ID != "" {
		title = "Edit calendar"
	}
	m.editID = c.ID
	m.form = newForm(title,
		textField("Name", c.Name),
		choiceField("Color", colorLabels, colorValues, string(c.Color)),
	)
	m.mode = modeCalendarForm
}

func (m *Model) openSettingsForm() {
	s := m.ctrl.Settings()
	onOff := func(label string, on bool) field {
		current := "off"
		if on {
			current = "on"
		}
		return choiceField(label, []string{"On", "Off"}, []string{"on", "off"}, current)
	}

	m.form = newForm("Settings",
		catalogField("Language", settings.Languages, s.Language),
		catalogField("Region", settings.Regions, s.Region),
		catalogField("Time zone", settings.TimeZones, s.TimeZone),
		onOff("Desktop notifications", s.Notifications.Desktop),
		onOff("Email notifications", s.Notifications.Email),
		textField("Reminder (minutes)", strconv.Itoa(s.Notifications.ReminderDefault)),
	)
	m.mode = modeSettingsForm
}

func (m *Model) handleFormKeys(k tea.KeyMsg) tea.Cmd {
	res, cmd := m.form.update(k)
	switch res {
	case formCancel:
		m.err = nil
		m.leaveForm()
	case formSubmit:
		var err error
		switch m.mode {
		case modeEventForm:
			err = m.saveEvent()
		case modeCalendarForm:
			err = m.saveCalendar()
		case modeSettingsForm:
			err = m.saveSettings()
		}
		m.err = err
		if err == nil {
			m.leaveForm()
		}
	}
	return cmd
}

func (m *Model) leaveForm() {
	if m.mode == modeCalendarForm {
		m.mode = modeCalendars
	} else {
		m.mode = modeBrowse
	}
	m.editID = ""
	m.sync()
}

func (m *Model) saveEvent() error {
	loc := m.sel.Location()
	start, err := time.ParseInLocation(inputTime, m.form.value(fieldStart), loc)
	if err != nil {
		return fmt.Errorf("start: want YYYY-MM-DD HH:MM")
	}
	end, err := time.ParseInLocation(inputTime, m.form.value(fieldEnd), loc)
	if err != nil {
		return fmt.Errorf("end: want YYYY-MM-DD HH:MM")
	}

	e := calendar.Event{
		ID:          m.editID,
		Title:       m.form.value(fieldTitle),
		Description: m.form.value(fieldDescription),
		Start:       start,
		End:         end,
		Color:       calendar.Color(m.form.value(fieldColor)),
		CalendarID:  m.form.value(fieldCalendar),
	}
	if e.ID == "" {
		created, _ := m.ctrl.CreateEvent(e)
		slog.Debug("created event from form", "id", created.ID)
		m.status = "Created event"
	} else {
		m.ctrl.UpdateEvent(e)
		m.status = "Updated event"
	}
	return nil
}

func (m *Model) saveCalendar() error {
	c := calendar.Calendar{
		ID:    m.editID,
		Name:  m.form.value(fieldCalName),
		Color: calendar.Color(m.form.value(fieldCalColor)),
	}
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.ID == "" {
		m.ctrl.CreateCalendar(c)
		m.status = "Created calendar"
	} else {
		m.ctrl.UpdateCalendar(c)
		m.status = "Updated calendar"
	}
	return nil
}

func (m *Model) saveSettings() error {
	minutes, err := strconv.Atoi(m.form.value(fieldReminder))
	if err != nil || minutes < 0 {
		return fmt.Errorf("reminder: want a number of minutes")
	}

	s := settings.Settings{
		Language: m.form.value(fieldLanguage),
		Region:   m.form.value(fieldRegion),
		TimeZone: m.form.value(fieldTimeZone),
		Notifications: settings.Notifications{
			Desktop:         m.form.value(fieldDesktop) == "on",
			Email:           m.form.value(fieldEmail) == "on",
			ReminderDefault: minutes,
		},
	}
	if err := m.ctrl.SaveSettings(s); err != nil {
		return err
	}
	m.status = "Saved settings"
	return nil
}

// save writes the events to the events file.
func (m *Model) save() {
	if m.eventsFile == "" {
		m.err = fmt.Errorf("no events_file configured")
		return
	}
	events := m.ctrl.Snapshot().Events()
	if err := calendar.WriteICS(m.eventsFile, events); err != nil {
		m.err = err
		return
	}
	slog.Debug("saved events", "path", m.eventsFile, "count", len(events))
	m.status = fmt.Sprintf("Saved %d events to %s", len(events), m.eventsFile)
}

func palette() (labels, values []string) {
	for _, s := range calendar.Palette {
		labels = append(labels, s.Name)
		values = append(values, string(s.Tag))
	}
	return labels, values
}

func catalogField(label string, catalog []settings.Option, current string) field {
	var labels, values []string
	for _, o := range catalog {
		labels = append(labels, o.Label)
		values = append(values, o.Tag)
	}
	return choiceField(label, labels, values, current)
}

func titleOf(title string) string {
	if title == "" {
		return "(untitled)"
	}
	return title
}
