// Package config loads runtime settings for the StudyBuddy CLI in layers:
// defaults, then a JSON file (-c/-config), then command-line flags. Later
// sources take precedence over earlier ones.
package config

import "time"

// Config holds runtime settings for the StudyBuddy CLI.
//
// Fields:
//   - ServerURL: base URL of the answering service, e.g. "http://localhost:8080".
//   - RequestTimeout: per-request deadline for remote calls.
//   - DataDir: directory holding the local identity database.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	DataDir        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.RequestTimeout = 60 * time.Second
	c.DataDir = "."
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
