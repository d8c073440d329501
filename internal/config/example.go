package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# streak configuration file
# Values can be overridden by STREAK_* environment variables or CLI flags

# First tracked day and calendar length
start_date = "2025-08-17"
total_days = 40

# Time zone used to decide which day is "today"
timezone = "Asia/Kolkata"

# Day numbers that trigger a celebration when completed
milestones = [7, 14, 21, 28, 35, 40]

# Lines rotated in the terminal UI header
motivation = [
  "Show up today.",
  "Momentum beats motivation.",
  "Make it obvious. Make it easy.",
  "Protect your energy.",
  "Done > perfect.",
  "Keep the streak.",
]

# Storage driver: file, sqlite or memory
storage_driver = "file"

# Storage directory (supports ~ expansion)
storage_dir = "~/.streak"

# Key the tracker state is stored under
storage_key = "streak40:v1"

# Where exported snapshots are written (relative to the working directory)
export_dir = "."

# Logging
log_dir = "~/.streak/logs"
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = true
log_caller = false
`
}
