package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "light", c.PrefersColorScheme)
	assert.Equal(t, "exports", c.ExportDir)
	assert.Equal(t, "moodiary.db", c.DatabasePath)
	assert.Equal(t, 3*time.Second, c.ResubscribeDelay)
	assert.Empty(t, c.ServiceURL)
}

func TestLoadConfig_MissingServiceSettingsUsePlaceholders(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv("DIARY_SERVICE_URL", "")
	t.Setenv("DIARY_SERVICE_KEY", "")

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, PlaceholderServiceURL, cfg.ServiceURL)
	assert.Equal(t, PlaceholderServiceKey, cfg.ServiceKey)
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoadConfig_EnvThenFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("DIARY_SERVICE_URL", "env:50051")
	t.Setenv("DIARY_SERVICE_KEY", "env-key")
	t.Setenv("DIARY_PREFERS_COLOR_SCHEME", "dark")
	t.Setenv("DIARY_RESUBSCRIBE_DELAY", "5s")

	os.Args = []string{"testbin", "-a", "flag:50051"}

	cfg := LoadConfig()

	assert.Equal(t, "flag:50051", cfg.ServiceURL)
	assert.Equal(t, "env-key", cfg.ServiceKey)
	assert.True(t, cfg.PrefersDark())
	assert.Equal(t, 5*time.Second, cfg.ResubscribeDelay)
	assert.Empty(t, cfg.Warnings)
}
