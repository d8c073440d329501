package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // timezone database for hosts without zoneinfo

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.streak/streak.toml or OS-specific config dir)
// 3. Project config file (streak.toml or .streak.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := LoadWithSources(fs, args)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:      cfg,
		Sources:     sources,
		userFile:    userConfigFile,
		projectFile: projectConfigFile,
	}, nil
}

// GetConfigFile returns the active config file path (project or user).
func (cws *ConfigWithSources) GetConfigFile() string {
	if cws.projectFile != "" {
		return cws.projectFile
	}
	return cws.userFile
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"start_date",
		"total_days",
		"timezone",
		"milestones",
		"motivation",
		"storage_driver",
		"storage_dir",
		"storage_key",
		"export_dir",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.StartDate = DefaultStartDate
	cfg.TotalDays = DefaultTotalDays
	cfg.Timezone = DefaultTimezone
	cfg.Milestones = DefaultMilestones()
	cfg.Motivation = DefaultMotivation()
	cfg.StorageDriver = DefaultStorageDriver
	cfg.StorageDir = DefaultStorageDir
	cfg.StorageKey = DefaultStorageKey
	cfg.ExportDir = DefaultExportDir
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
}

// loadConfigFile decodes a TOML file over cfg and records the keys it defined.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if sources == nil {
		return nil
	}
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		if _, known := sources[key[0]]; known {
			sources[key[0]] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.StorageDir = expandPath(cfg.StorageDir)
	cfg.LogDir = expandPath(cfg.LogDir)
	cfg.ExportDir = expandPath(cfg.ExportDir)

	// Determine project root
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}
	if cfg.ExportDir != "" && !filepath.IsAbs(cfg.ExportDir) {
		cfg.ExportDir = filepath.Join(cfg.ProjectRoot, cfg.ExportDir)
	}

	return Validate(cfg)
}

// Validate checks calendar settings and resolves the display location.
func Validate(cfg *Config) error {
	if _, err := time.Parse(time.DateOnly, cfg.StartDate); err != nil {
		return fmt.Errorf("start_date %q: expected YYYY-MM-DD", cfg.StartDate)
	}
	if cfg.TotalDays < 1 || cfg.TotalDays > MaxTotalDays {
		return fmt.Errorf("total_days must be between 1 and %d, got %d", MaxTotalDays, cfg.TotalDays)
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc
	for _, m := range cfg.Milestones {
		if m < 1 || m > cfg.TotalDays {
			return fmt.Errorf("milestone %d outside 1..%d", m, cfg.TotalDays)
		}
	}
	switch cfg.StorageDriver {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("storage_driver %q: expected file, sqlite or memory", cfg.StorageDriver)
	}
	if cfg.StorageKey == "" {
		return fmt.Errorf("storage_key is empty")
	}
	return nil
}
