// calgrid renders month, week and day calendar grids in the terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cpuguy83/calgrid/internal/app"
	"github.com/cpuguy83/calgrid/internal/config"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: calgrid [flags] <command> [args]

Commands:
  show       render the calendar grid
  event      show the details of one event
  calendars  list calendars
  export     write events to an ICS file
  remind     send desktop reminders for events starting soon
  tui        browse and edit the calendar interactively

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (default: ~/.config/calgrid/config.yaml)")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Usage = usage
	flag.Parse()

	// Setup logging
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctrl, err := app.FromConfig(cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	cmd, args := flag.Arg(0), flag.Args()[1:]
	run, ok := commands[cmd]
	if !ok {
		slog.Error("unknown command", "command", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if err := run(ctrl, cfg, args); err != nil {
		slog.Error(cmd+" failed", "error", err)
		os.Exit(1)
	}
}
