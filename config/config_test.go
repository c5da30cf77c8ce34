package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Setenv("AMADEUS_TOKEN_TTL", "")
		os.Unsetenv("AMADEUS_TOKEN_TTL")
		t.Setenv("LOG_LEVEL", "")
		os.Unsetenv("LOG_LEVEL")

		cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "amadeus-mcp-server", cfg.Server.Name)
		assert.Equal(t, "1.0.0", cfg.Server.Version)
		assert.Equal(t, "info", cfg.Server.LogLevel)
		assert.Equal(t, 25*time.Minute, cfg.Amadeus.TokenTTL)
		assert.Equal(t, 30*time.Second, cfg.Amadeus.Timeout)
		assert.False(t, cfg.Amadeus.Production)
		assert.Equal(t, "https://api.exchangerate-api.com/v4/latest/USD", cfg.Currency.RatesURL)
		assert.Equal(t, 24*time.Hour, cfg.Currency.RefreshInterval)
	})

	t.Run("EnvironmentVariables", func(t *testing.T) {
		t.Setenv("AMADEUS_TOKEN_TTL", "10m")
		t.Setenv("AMADEUS_PRODUCTION", "true")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, cfg.Amadeus.TokenTTL)
		assert.True(t, cfg.Amadeus.Production)
		assert.Equal(t, "debug", cfg.Server.LogLevel)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		os.Unsetenv("AMADEUS_BASE_URL")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("amadeus:\n  base_url: http://localhost:9999\ncurrency:\n  refresh_interval: 1h\n"), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9999", cfg.Amadeus.BaseURL)
		assert.Equal(t, time.Hour, cfg.Currency.RefreshInterval)
		assert.Equal(t, 25*time.Minute, cfg.Amadeus.TokenTTL)
	})
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("AMADEUS_API_KEY", "key")
	t.Setenv("AMADEUS_API_SECRET", "")

	creds, err := LoadCredentials()
	require.NoError(t, err)
	assert.Equal(t, "key", creds.APIKey)
	assert.False(t, creds.Complete())

	t.Setenv("AMADEUS_API_SECRET", "secret")
	creds, err = LoadCredentials()
	require.NoError(t, err)
	assert.True(t, creds.Complete())
}
