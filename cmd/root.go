// Package cmd implements the CLI command structure for streak.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/streak-go/internal/config"
	"github.com/nibzard/streak-go/internal/kv"
	"github.com/nibzard/streak-go/internal/logging"
	"github.com/nibzard/streak-go/internal/tracker"
	"github.com/nibzard/streak-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// now is the clock used for "today" and export file names.
var now = time.Now

// Run executes the streak CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("streak", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No args or a leading flag means the interactive UI.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "status":
		return statusCommand(cfg, remainingArgs)
	case "list", "ls":
		return listCommand(cfg, remainingArgs)
	case "toggle":
		return toggleCommand(cfg, remainingArgs)
	case "note":
		return noteCommand(cfg, remainingArgs)
	case "reset":
		return resetCommand(cfg, remainingArgs)
	case "export":
		return exportCommand(cfg, remainingArgs)
	case "import":
		return importCommand(cfg, remainingArgs)
	case "print":
		return printCommand(cfg, remainingArgs)
	case "prefs":
		return prefsCommand(cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "init":
		return initCommand(cfg, remainingArgs)
	case "completion":
		return completionCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the interactive tracker. It logs to a session file
// because the alternate screen owns the terminal.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	logger := logging.Discard()
	session, err := logging.NewSession(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: session log disabled: %v\n", err)
	} else {
		defer session.Close()
		logger = session.Logger(cfg.LogLevel, cfg.LogCaller)
	}

	store, tr, err := openTracker(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("session started", "driver", store.Driver(), "days", tr.Len(), "start", tr.StartDate())
	err = ui.RunTUI(ctx, ui.Options{
		Config: cfg,
		Store:  tr,
		KV:     store,
		Logger: logger,
		Now:    now,
	})
	logger.Info("session ended", "err", err)
	return err
}

// newLogger builds the stderr logger used by non-interactive commands.
func newLogger(cfg *config.Config) *log.Logger {
	return logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
}

// openTracker opens the configured key-value store and loads the tracker
// from it. Unusable stored state is logged and replaced by a fresh calendar.
func openTracker(cfg *config.Config, logger *log.Logger) (kv.Store, *tracker.Store, error) {
	store, err := kv.Open(cfg.StorageDriver, cfg.StorageDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	tr, err := tracker.New(tracker.Options{
		Days:      cfg.TotalDays,
		StartDate: cfg.StartDate,
		Key:       cfg.StorageKey,
		KV:        store,
		Logger:    logger,
		Now:       now,
		Location:  cfg.Loc(),
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if err := tr.Load(); err != nil {
		var readErr *tracker.StorageReadError
		if !errors.As(err, &readErr) {
			store.Close()
			return nil, nil, err
		}
		// The store already fell back to a fresh calendar and logged it.
	}
	return store, tr, nil
}

// parseDay resolves a 1-based day number, or "today", to a store index.
func parseDay(tr *tracker.Store, arg string) (int, error) {
	if strings.EqualFold(arg, "today") {
		idx, ok := tr.TodayIndex()
		if !ok {
			return 0, fmt.Errorf("today is outside the tracked range %s..%s", tr.StartDate(), lastDate(tr))
		}
		return idx, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid day %q: expected a day number or \"today\"", arg)
	}
	if n < 1 || n > tr.Len() {
		return 0, fmt.Errorf("day %d outside 1..%d", n, tr.Len())
	}
	return n - 1, nil
}

func lastDate(tr *tracker.Store) string {
	d, _ := tracker.AddDays(tr.StartDate(), tr.Len()-1)
	return d
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("streak version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Streak - A fixed-length habit streak tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  streak [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                    Launch the terminal UI (default command)")
	fmt.Fprintln(w, "  status                 Show completion, current and best streak")
	fmt.Fprintln(w, "  list                   List every day with its state and note")
	fmt.Fprintln(w, "  toggle <day>...        Flip the done state of days (number or \"today\")")
	fmt.Fprintln(w, "  note <day> [text]      Set or clear the note of a day")
	fmt.Fprintln(w, "  reset -confirm RESET   Clear every day and the best streak")
	fmt.Fprintln(w, "  export [path|-]        Write a snapshot file")
	fmt.Fprintln(w, "  import <path|->        Replace state from a snapshot file")
	fmt.Fprintln(w, "  print                  Render a printable calendar")
	fmt.Fprintln(w, "  prefs                  Show or set dark mode and high contrast")
	fmt.Fprintln(w, "  doctor                 Check config, storage and logs")
	fmt.Fprintln(w, "  tail                   Tail the latest TUI session log")
	fmt.Fprintln(w, "  init                   Write an example streak.toml")
	fmt.Fprintln(w, "  completion <shell>     Print a shell completion script")
	fmt.Fprintln(w, "  version                Show version information")
	fmt.Fprintln(w, "  help                   Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Status Options:")
	fmt.Fprintln(w, "  -json    Print statistics as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options:")
	fmt.Fprintln(w, "  -done    Only completed days")
	fmt.Fprintln(w, "  -pending Only days not yet completed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print Options:")
	fmt.Fprintln(w, "  -raw     Print the Markdown source instead of rendering it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Prefs Options:")
	fmt.Fprintln(w, "  -dark on|off, -contrast on|off")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, -follow  Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int       Number of lines to show (0 = all)")
}
