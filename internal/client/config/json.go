package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/moodiary/internal/flagx"
	"github.com/dmitrijs2005/moodiary/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// may be strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServiceURL         string         `json:"service_url"`
	ServiceKey         string         `json:"service_key"`
	PrefersColorScheme string         `json:"prefers_color_scheme"`
	ExportDir          string         `json:"export_dir"`
	DatabasePath       string         `json:"database_path"`
	ResubscribeDelay   timex.Duration `json:"resubscribe_delay"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	LogLevel           string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c or -config. Only
// non-empty values override. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&cfg.ServiceURL:         jc.ServiceURL,
		&cfg.ServiceKey:         jc.ServiceKey,
		&cfg.PrefersColorScheme: jc.PrefersColorScheme,
		&cfg.ExportDir:          jc.ExportDir,
		&cfg.DatabasePath:       jc.DatabasePath,
		&cfg.LogLevel:           jc.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}
	if jc.ResubscribeDelay.Duration > 0 {
		cfg.ResubscribeDelay = jc.ResubscribeDelay.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
