// Package config holds runtime settings for the profilesync client. Values
// are resolved in three layers: built-in defaults, then a JSON file (when
// given via -c/-config), then command-line flags. Later layers win.
package config

import "time"

// Config holds runtime settings.
//
// Empty DatabaseDSN keeps profiles in memory; an empty S3Endpoint keeps
// avatar objects in memory. Both are the local-development defaults.
type Config struct {
	LogLevel  string
	LogFormat string
	LogFile   string

	DatabaseDSN string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string

	AuthSecret               string
	AccessTokenTTL           time.Duration
	RefreshTokenTTL          time.Duration
	RequireEmailConfirmation bool
}

// LoadDefaults populates c with local-development defaults.
func (c *Config) LoadDefaults() {
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
	c.S3Bucket = "avatars"
	c.AccessTokenTTL = time.Hour
	c.RefreshTokenTTL = 30 * 24 * time.Hour
	c.RequireEmailConfirmation = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
