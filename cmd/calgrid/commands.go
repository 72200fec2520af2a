package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muesli/termenv"

	"github.com/cpuguy83/calgrid/internal/app"
	"github.com/cpuguy83/calgrid/internal/calendar"
	"github.com/cpuguy83/calgrid/internal/config"
	"github.com/cpuguy83/calgrid/internal/grid"
	"github.com/cpuguy83/calgrid/internal/notify"
	"github.com/cpuguy83/calgrid/internal/tui"
	"github.com/cpuguy83/calgrid/internal/ui"
)

type command func(ctrl *app.Controller, cfg *config.Config, args []string) error

var commands = map[string]command{
	"show":      runShow,
	"event":     runEvent,
	"calendars": runCalendars,
	"export":    runExport,
	"remind":    runRemind,
	"tui":       runTUI,
}

// displayFlags are shared by the commands that render.
type displayFlags struct {
	theme       string
	toggleTheme bool
	noColor     bool
}

func (d *displayFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&d.theme, "theme", "", "theme: system, light or dark (default from config)")
	fs.BoolVar(&d.toggleTheme, "toggle-theme", false, "flip between the light and dark theme")
	fs.BoolVar(&d.noColor, "no-color", false, "disable colors")
}

func (d *displayFlags) renderer(ctrl *app.Controller, cfg *config.Config) (*ui.Renderer, error) {
	name := cfg.UI.Theme
	if d.theme != "" {
		name = d.theme
	}
	theme, err := ui.ParseTheme(name)
	if err != nil {
		return nil, err
	}
	if d.toggleTheme {
		theme = theme.Toggle()
	}

	r := ui.New(os.Stdout, ui.Config{
		Theme:            theme,
		Layout:           ctrl.Layout(),
		CellWidth:        cfg.UI.CellWidth,
		MaxEventsPerCell: cfg.UI.MaxEventsPerCell,
		Calendars:        ctrl.Snapshot().Calendars(),
		Settings:         ctrl.Settings(),
	})
	if d.noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return r, nil
}

func runShow(ctrl *app.Controller, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var (
		view   = fs.String("view", "", "view: month, week or day (default from config)")
		date   = fs.String("date", "", "anchor date as YYYY-MM-DD (default: today)")
		step   = fs.Int("step", 0, "move the anchor N periods forward (negative: backward)")
		agenda = fs.Bool("agenda", false, "list the events below the grid")
		disp   displayFlags
	)
	disp.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *view != "" {
		v, err := grid.ParseView(*view)
		if err != nil {
			return err
		}
		ctrl.SetView(v)
	}
	if *date != "" {
		t, err := time.ParseInLocation(time.DateOnly, *date, time.Local)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		ctrl.SetAnchor(t)
	}
	if *step != 0 {
		ctrl.Step(*step)
	}

	r, err := disp.renderer(ctrl, cfg)
	if err != nil {
		return err
	}

	cells := ctrl.Cells()
	fmt.Println(r.Grid(ctrl.View(), ctrl.Anchor(), cells, ctrl.Placement(cells)))
	if *agenda {
		fmt.Println()
		fmt.Println(r.Agenda(cells, ctrl.Visible()))
	}
	return nil
}

func runTUI(ctrl *app.Controller, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	var (
		view = fs.String("view", "", "initial view: month, week or day (default from config)")
		disp displayFlags
	)
	disp.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *view != "" {
		v, err := grid.ParseView(*view)
		if err != nil {
			return err
		}
		ctrl.SetView(v)
	}

	r, err := disp.renderer(ctrl, cfg)
	if err != nil {
		return err
	}
	// Resolve the system theme before T toggles it.
	r.SetTheme(r.Theme())

	return tui.New(ctrl, tui.Options{Renderer: r, EventsFile: cfg.Calendar.EventsFile}).Run()
}

func runEvent(ctrl *app.Controller, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("event", flag.ContinueOnError)
	var disp displayFlags
	disp.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: calgrid event [flags] <id>")
	}

	id := fs.Arg(0)
	e, ok := ctrl.Snapshot().Event(id)
	if !ok {
		return fmt.Errorf("event %q: %w", id, calendar.ErrNotFound)
	}

	r, err := disp.renderer(ctrl, cfg)
	if err != nil {
		return err
	}
	fmt.Println(r.Event(e))
	return nil
}

func runCalendars(ctrl *app.Controller, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("calendars", flag.ContinueOnError)
	var disp displayFlags
	disp.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := disp.renderer(ctrl, cfg)
	if err != nil {
		return err
	}
	fmt.Println(r.Calendars(ctrl.Snapshot()))
	return nil
}

func runExport(ctrl *app.Controller, _ *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("o", "-", "output file (- for stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	events := ctrl.Snapshot().Events()
	if *out == "-" {
		return calendar.EncodeICS(os.Stdout, events)
	}
	if err := calendar.WriteICS(*out, events); err != nil {
		return err
	}
	slog.Info("exported events", "path", *out, "count", len(events))
	return nil
}

func runRemind(ctrl *app.Controller, _ *config.Config, args []string) error {
	fs := flag.NewFlagSet("remind", flag.ContinueOnError)
	var (
		watch    = fs.Bool("watch", false, "keep running and check periodically")
		interval = fs.Duration("interval", 30*time.Second, "check interval with -watch")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	prefs := ctrl.Settings().Notifications
	if !prefs.Desktop {
		slog.Info("desktop notifications disabled")
		return nil
	}

	notifier, err := notify.New("calgrid")
	if err != nil {
		return err
	}
	defer notifier.Close()

	if !*watch {
		n, err := notify.Remind(notifier, ctrl.Visible(), time.Now(), prefs)
		slog.Info("sent reminders", "count", n)
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// An event stays due for the whole lead time; send it once.
	dedup := &notify.Dedup{Sender: notifier, Window: prefs.Reminder() + *interval}
	return remindLoop(ctx, ctrl, dedup, *interval)
}

// remindLoop checks for due events until ctx is done.
func remindLoop(ctx context.Context, ctrl *app.Controller, dedup *notify.Dedup, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		prefs := ctrl.Settings().Notifications
		if n, err := notify.Remind(dedup, ctrl.Visible(), time.Now(), prefs); err != nil {
			slog.Warn("failed to send reminders", "error", err)
		} else if n > 0 {
			slog.Debug("sent reminders", "count", n)
		}
		dedup.Cleanup(2 * dedup.Window)
	}

	check()
	for {
		select {
		case <-ticker.C:
			check()
		case <-ctx.Done():
			slog.Info("received signal, shutting down")
			return nil
		}
	}
}
