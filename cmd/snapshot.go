package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nibzard/streak-go/internal/config"
	"github.com/nibzard/streak-go/internal/prefs"
	"github.com/nibzard/streak-go/internal/tracker"
)

// exportCommand writes a snapshot file. "-" writes to stdout.
func exportCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak export", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 1 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args()[1:])
	}

	store, tr, err := openTracker(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	if fs.Arg(0) == "-" {
		data, err := tracker.Marshal(tr.ExportSnapshot())
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	path := fs.Arg(0)
	if path == "" {
		path = filepath.Join(cfg.ExportDir, tracker.ExportFileName(now()))
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, tracker.ExportFileName(now()))
	}
	if err := tr.WriteExport(path); err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// importCommand replaces the state from a snapshot file. "-" reads stdin.
func importCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak import", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) != 1 {
		return fmt.Errorf("import requires exactly one path")
	}

	logger := newLogger(cfg)
	store, tr, err := openTracker(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	path := fs.Arg(0)
	if path == "-" {
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return fmt.Errorf("reading stdin: %w", readErr)
		}
		err = tr.ImportJSON(data)
	} else {
		err = tr.ReadImportFile(path)
	}

	var invalid *tracker.ImportValidationError
	if errors.As(err, &invalid) {
		fmt.Fprintln(os.Stderr, "Import rejected; the tracker was not changed:")
		for _, problem := range invalid.Errors {
			fmt.Fprintf(os.Stderr, "  - %v\n", problem)
		}
		return fmt.Errorf("invalid import data in %s", path)
	}
	if err != nil {
		return err
	}

	// Snapshots carry the display preferences; keep their own keys in step.
	dark, contrast := tr.DisplayPrefs()
	if err := prefs.Save(store, prefs.Prefs{DarkMode: dark, HighContrast: contrast}); err != nil {
		logger.Warn("saving display preferences", "err", err)
	}

	stats := tr.ComputeStats()
	fmt.Printf("Imported %s: %d/%d completed, current streak %d, best %d\n",
		path, stats.TotalCompleted, tr.Len(), stats.CurrentStreak, stats.BestStreakEver)
	return nil
}

// prefsCommand shows or sets the display preferences.
func prefsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak prefs", flag.ContinueOnError)
	dark := fs.String("dark", "", "Dark mode (on|off)")
	contrast := fs.String("contrast", "", "High contrast (on|off)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, tr, err := openTracker(cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	current, err := prefs.Load(store)
	if err != nil {
		return err
	}
	changed := false
	if *dark != "" {
		v, err := parseOnOff(*dark)
		if err != nil {
			return fmt.Errorf("-dark: %w", err)
		}
		current.DarkMode = v
		changed = true
	}
	if *contrast != "" {
		v, err := parseOnOff(*contrast)
		if err != nil {
			return fmt.Errorf("-contrast: %w", err)
		}
		current.HighContrast = v
		changed = true
	}
	if changed {
		if err := prefs.Save(store, current); err != nil {
			return err
		}
		if err := tr.SetDisplayPrefs(current.DarkMode, current.HighContrast); err != nil {
			return err
		}
	}

	fmt.Printf("Dark mode:     %s\n", onOff(current.DarkMode))
	fmt.Printf("High contrast: %s\n", onOff(current.HighContrast))
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
