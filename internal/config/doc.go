// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.streak/streak.toml or OS-specific config directory)
// 3. Project config file (streak.toml or .streak.toml in the working directory)
// 4. Environment variables (STREAK_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.streak/streak.toml (preferred)
// - Windows: %APPDATA%\streak\streak.toml
// - macOS: ~/Library/Application Support/streak/streak.toml
// - Linux/BSD: $XDG_CONFIG_HOME/streak/streak.toml or ~/.config/streak/streak.toml
//
// Project-level config locations (overrides user config):
// - ./streak.toml (preferred)
// - ./.streak.toml
package config
