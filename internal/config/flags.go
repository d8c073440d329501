package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// flagFields maps global flag names to the config field they set.
var flagFields = map[string]string{
	"start":          "start_date",
	"days":           "total_days",
	"tz":             "timezone",
	"milestones":     "milestones",
	"storage":        "storage_driver",
	"storage-dir":    "storage_dir",
	"key":            "storage_key",
	"export-dir":     "export_dir",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// parseFlags defines the global flags on fs and parses args.
// If sources is non-nil, explicitly set flags are recorded with SourceFlag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("streak", flag.ContinueOnError)
	}

	// Calendar
	fs.StringVar(&cfg.StartDate, "start", cfg.StartDate, "First tracked day (YYYY-MM-DD)")
	fs.IntVar(&cfg.TotalDays, "days", cfg.TotalDays, "Number of tracked days")
	fs.StringVar(&cfg.Timezone, "tz", cfg.Timezone, "IANA time zone used for \"today\"")
	milestones := joinInts(cfg.Milestones)
	fs.StringVar(&milestones, "milestones", milestones, "Comma-separated milestone day numbers")

	// Storage
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "Storage driver (file|sqlite|memory)")
	fs.StringVar(&cfg.StorageDir, "storage-dir", cfg.StorageDir, "Storage directory")
	fs.StringVar(&cfg.StorageKey, "key", cfg.StorageKey, "Storage key for the tracker state")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "Directory for exported snapshots")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		field, ok := flagFields[f.Name]
		if !ok {
			return
		}
		if f.Name == "milestones" {
			ms, err := parseIntList(milestones)
			if err != nil {
				visitErr = fmt.Errorf("-milestones: %w", err)
				return
			}
			cfg.Milestones = ms
		}
		if sources != nil {
			sources[field] = SourceFlag
		}
	})
	return visitErr
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
