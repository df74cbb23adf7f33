package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "client.json", map[string]any{
		"service_url":       "www.example:9000",
		"service_key":       "json-key",
		"resubscribe_delay": "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{ExportDir: "keep"}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.ServiceURL)
		assert.Equal(t, "json-key", cfg.ServiceKey)
		assert.Equal(t, 10*time.Second, cfg.ResubscribeDelay)
		assert.Equal(t, "keep", cfg.ExportDir, "absent keys keep prior values")
	})

	t.Run("no flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ServiceURL: "defaults:1234", ResubscribeDelay: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ServiceURL)
		assert.Equal(t, 42*time.Second, cfg.ResubscribeDelay)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
