package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nibzard/streak-go/internal/config"
	"github.com/nibzard/streak-go/internal/kv"
	"github.com/nibzard/streak-go/internal/logging"
	"github.com/nibzard/streak-go/internal/tracker"
)

// doctorCommand checks config, storage and logs.
func doctorCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("streak doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Show where every setting came from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := cws.Config

	fmt.Println("Streak Doctor")
	fmt.Println("=============")
	fmt.Println()

	allOK := true

	fmt.Println("Config:")
	if file := cws.GetConfigFile(); file != "" {
		fmt.Printf("  ✅ File: %s\n", file)
	} else {
		fmt.Println("  ✅ File: none (defaults)")
	}
	fmt.Printf("  ✅ Calendar: %d days from %s (%s)\n", cfg.TotalDays, cfg.StartDate, cfg.Timezone)
	fmt.Printf("  ✅ Milestones: %v\n", cfg.Milestones)
	if *verbose {
		fields := make([]string, 0, len(cws.Sources))
		for field := range cws.Sources {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Printf("     %-15s %s\n", field, cws.Sources[field])
		}
	}
	fmt.Println()

	fmt.Println("Storage:")
	store, err := kv.Open(cfg.StorageDriver, cfg.StorageDir)
	if err != nil {
		fmt.Printf("  ❌ %s at %s: %v\n", cfg.StorageDriver, cfg.StorageDir, err)
		allOK = false
	} else {
		defer store.Close()
		fmt.Printf("  ✅ Driver: %s (%s)\n", store.Driver(), cfg.StorageDir)
		if !checkState(cfg, store) {
			allOK = false
		}
	}
	fmt.Println()

	fmt.Println("Schema:")
	v := tracker.NewValidator(cfg.TotalDays)
	fresh, _ := tracker.GenerateDays(cfg.StartDate, cfg.TotalDays)
	result := v.Validate(tracker.State{Start: cfg.StartDate, Days: fresh})
	switch {
	case !result.Valid:
		fmt.Printf("  ❌ Fresh state fails validation: %v\n", result.Errors)
		allOK = false
	case result.UsedSchema:
		fmt.Println("  ✅ JSON Schema validation available")
	default:
		fmt.Println("  ⚠️  JSON Schema unavailable, using minimal checks")
		for _, w := range result.Warnings {
			fmt.Printf("     %s\n", w)
		}
	}
	fmt.Println()

	fmt.Println("Logs:")
	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		sessions, err := logging.FindSessions(logDir)
		if err != nil {
			fmt.Printf("  ❌ %s: %v\n", logDir, err)
			allOK = false
		} else {
			fmt.Printf("  ✅ %s (%d sessions)\n", logDir, len(sessions))
		}
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed.")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Streak may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkState reports whether the stored tracker state loads cleanly.
func checkState(cfg *config.Config, store kv.Store) bool {
	keys, err := store.Keys()
	if err != nil {
		fmt.Printf("  ❌ Listing keys: %v\n", err)
		return false
	}
	fmt.Printf("  ✅ Keys: %d\n", len(keys))

	tr, err := tracker.New(tracker.Options{
		Days:      cfg.TotalDays,
		StartDate: cfg.StartDate,
		Key:       cfg.StorageKey,
		KV:        store,
		Location:  cfg.Loc(),
	})
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		return false
	}
	if err := tr.Load(); err != nil {
		var readErr *tracker.StorageReadError
		if errors.As(err, &readErr) {
			fmt.Printf("  ❌ Stored state under %q is unusable and would be replaced: %v\n", cfg.StorageKey, readErr.Err)
			return false
		}
		fmt.Printf("  ❌ %v\n", err)
		return false
	}
	stats := tr.ComputeStats()
	fmt.Printf("  ✅ State %q: %d/%d completed, best streak %d\n", cfg.StorageKey, stats.TotalCompleted, tr.Len(), stats.BestStreakEver)
	return true
}

// tailCommand tails the latest TUI session log.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	workDir := cfg.ProjectRoot
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		workDir = wd
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, workDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Println("No log files found.")
		return nil
	}

	fmt.Printf("Tailing: %s\n", logPath)
	if *follow {
		fmt.Println("(Ctrl+C to stop)")
	}
	fmt.Println()

	return logging.TailLog(ctx, os.Stdout, logPath, *n, *follow)
}

// initCommand writes an example project config file.
func initCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("streak init", flag.ContinueOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	root := cfg.ProjectRoot
	if root == "" {
		root = "."
	}
	path := filepath.Join(root, config.ConfigFileName)
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Printf("Skipping %s (already exists, use -force to overwrite)\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
