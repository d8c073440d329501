package config

import (
	"time"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	userFile    string
	projectFile string
}

// Default values.
const (
	DefaultStartDate     = "2025-08-17"
	DefaultTotalDays     = 40
	DefaultTimezone      = "Asia/Kolkata"
	DefaultStorageDriver = "file"
	DefaultStorageDir    = "~/.streak"
	DefaultStorageKey    = "streak40:v1"
	DefaultExportDir     = "."
	DefaultLogDir        = "~/.streak/logs"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"

	// MaxTotalDays bounds the calendar length.
	MaxTotalDays = 366
)

// DefaultMilestones returns the day numbers that trigger a celebration cue.
func DefaultMilestones() []int {
	return []int{7, 14, 21, 28, 35, 40}
}

// DefaultMotivation returns the rotating motivation lines shown in the TUI.
func DefaultMotivation() []string {
	return []string{
		"Show up today.",
		"Momentum beats motivation.",
		"Make it obvious. Make it easy.",
		"Protect your energy.",
		"Done > perfect.",
		"Keep the streak.",
	}
}

// Config holds the full configuration for streak.
type Config struct {
	// Calendar
	StartDate  string   `toml:"start_date"`
	TotalDays  int      `toml:"total_days"`
	Timezone   string   `toml:"timezone"`
	Milestones []int    `toml:"milestones"`
	Motivation []string `toml:"motivation"`

	// Storage
	StorageDriver string `toml:"storage_driver"` // file, sqlite or memory
	StorageDir    string `toml:"storage_dir"`
	StorageKey    string `toml:"storage_key"`

	// Export destination for the TUI export key and `streak export` without a path
	ExportDir string `toml:"export_dir"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Computed
	ProjectRoot string         `toml:"-"`
	Location    *time.Location `toml:"-"`
}

// IsMilestone reports whether the 1-based day number is a configured milestone.
func (c *Config) IsMilestone(dayNumber int) bool {
	for _, m := range c.Milestones {
		if m == dayNumber {
			return true
		}
	}
	return false
}

// Loc returns the configured display location, falling back to UTC.
func (c *Config) Loc() *time.Location {
	if c == nil || c.Location == nil {
		return time.UTC
	}
	return c.Location
}
