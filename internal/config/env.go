package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from STREAK_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("STREAK_START_DATE"); v != "" {
		cfg.StartDate = v
		mark("start_date")
	}
	if v := os.Getenv("STREAK_TOTAL_DAYS"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.TotalDays = i
			mark("total_days")
		}
	}
	if v := os.Getenv("STREAK_TIMEZONE"); v != "" {
		cfg.Timezone = v
		mark("timezone")
	}
	if v := os.Getenv("STREAK_MILESTONES"); v != "" {
		if ms, err := parseIntList(v); err == nil {
			cfg.Milestones = ms
			mark("milestones")
		}
	}
	if v := os.Getenv("STREAK_STORAGE"); v != "" {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(v))
		mark("storage_driver")
	}
	if v := os.Getenv("STREAK_STORAGE_DIR"); v != "" {
		cfg.StorageDir = v
		mark("storage_dir")
	}
	if v := os.Getenv("STREAK_STORAGE_KEY"); v != "" {
		cfg.StorageKey = v
		mark("storage_key")
	}
	if v := os.Getenv("STREAK_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
		mark("export_dir")
	}

	// Logging configuration
	if v := os.Getenv("STREAK_LOG_DIR"); v != "" {
		cfg.LogDir = v
		mark("log_dir")
	}
	if v := os.Getenv("STREAK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := os.Getenv("STREAK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := os.Getenv("STREAK_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v := os.Getenv("STREAK_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// splitAndTrim splits a string by sep and trims whitespace from each part.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseIntList parses "7, 14,21" into a slice of ints.
func parseIntList(s string) ([]int, error) {
	parts := splitAndTrim(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}
