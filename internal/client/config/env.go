package config

import (
	"time"

	"github.com/dmitrijs2005/moodiary/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from DIARY_SERVICE_URL, DIARY_SERVICE_KEY,
// DIARY_PREFERS_COLOR_SCHEME, DIARY_EXPORT_DIR, DIARY_DB_PATH,
// DIARY_RESUBSCRIBE_DELAY, DIARY_REQUEST_TIMEOUT and DIARY_LOG_LEVEL.
// The dotenv file named by -env, or ./.env, is loaded first.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg.ServiceURL = flagx.EnvString("DIARY_SERVICE_URL", cfg.ServiceURL)
	cfg.ServiceKey = flagx.EnvString("DIARY_SERVICE_KEY", cfg.ServiceKey)
	cfg.PrefersColorScheme = flagx.EnvString("DIARY_PREFERS_COLOR_SCHEME", cfg.PrefersColorScheme)
	cfg.ExportDir = flagx.EnvString("DIARY_EXPORT_DIR", cfg.ExportDir)
	cfg.DatabasePath = flagx.EnvString("DIARY_DB_PATH", cfg.DatabasePath)
	cfg.LogLevel = flagx.EnvString("DIARY_LOG_LEVEL", cfg.LogLevel)

	if d, err := time.ParseDuration(flagx.EnvString("DIARY_RESUBSCRIBE_DELAY", "")); err == nil && d > 0 {
		cfg.ResubscribeDelay = d
	}
	if d, err := time.ParseDuration(flagx.EnvString("DIARY_REQUEST_TIMEOUT", "")); err == nil && d > 0 {
		cfg.RequestTimeout = d
	}
}
