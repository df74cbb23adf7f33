package config

import (
	"fmt"
	"time"
)

// Placeholders used when the required service settings are absent.
const (
	PlaceholderServiceURL = "missing-service-url.invalid:50051"
	PlaceholderServiceKey = "missing-service-key"
)

// Config holds runtime settings for the CLI.
type Config struct {
	ServiceURL         string
	ServiceKey         string
	PrefersColorScheme string
	ExportDir          string
	DatabasePath       string
	ResubscribeDelay   time.Duration
	RequestTimeout     time.Duration
	LogLevel           string

	// Warnings lists configuration problems found while loading.
	Warnings []string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.PrefersColorScheme = "light"
	c.ExportDir = "exports"
	c.DatabasePath = "moodiary.db"
	c.ResubscribeDelay = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	cfg.applyPlaceholders()
	return cfg
}

func (c *Config) applyPlaceholders() {
	if c.ServiceURL == "" {
		c.ServiceURL = PlaceholderServiceURL
		c.Warnings = append(c.Warnings, fmt.Sprintf("DIARY_SERVICE_URL is not set, using placeholder %q", PlaceholderServiceURL))
	}
	if c.ServiceKey == "" {
		c.ServiceKey = PlaceholderServiceKey
		c.Warnings = append(c.Warnings, "DIARY_SERVICE_KEY is not set, using placeholder key")
	}
}

// PrefersDark reports whether the OS color-scheme hint asks for a dark theme.
func (c *Config) PrefersDark() bool {
	return c.PrefersColorScheme == "dark"
}
