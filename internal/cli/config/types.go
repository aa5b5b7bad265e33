// Package config provides configuration management for the barrios CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	DatabasePath string          `koanf:"database"`
	Verbose      bool            `koanf:"verbose"`
	OutputFormat string          `koanf:"output"`
	OpenData     *OpenDataConfig `koanf:"opendata"`
	Tracker      *TrackerConfig  `koanf:"tracker"`
}

// OpenDataConfig holds settings for the Open Data BCN portal client.
type OpenDataConfig struct {
	BaseURL string `koanf:"base_url"`
}

// TrackerConfig holds settings for GitHub issue-tracker automation.
type TrackerConfig struct {
	Owner   string `koanf:"owner"`
	Repo    string `koanf:"repo"`
	Token   string `koanf:"token"` // supports ${VAR} expansion
	BaseURL string `koanf:"base_url"`
}

// Default configuration values.
const (
	// DefaultDatabasePath is where the upstream ETL pipeline writes the
	// analysis database.
	DefaultDatabasePath = "data/barrios.db"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultPortalURL    = "https://opendata-ajuntament.barcelona.cat/data/api/3/action"
	DefaultTrackerURL   = "https://api.github.com"
)
