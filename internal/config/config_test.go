package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vidpulse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "KR", cfg.Provider.Region)
	assert.Equal(t, int64(10000), cfg.Provider.DailyQuota)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NotEmpty(t, cfg.Strategies.Keywords)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
provider:
  region: US
  daily_quota: 5000
server:
  port: 9090
strategies:
  keywords:
    - "cooking"
    - "travel"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "US", cfg.Provider.Region)
	assert.Equal(t, int64(5000), cfg.Provider.DailyQuota)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"cooking", "travel"}, cfg.Strategies.Keywords)

	// Untouched fields keep their defaults
	assert.Equal(t, float64(5), cfg.Provider.RPS)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/vidpulse.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "provider: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero rps", func(c *Config) { c.Provider.RPS = 0 }},
		{"zero burst", func(c *Config) { c.Provider.Burst = 0 }},
		{"negative quota", func(c *Config) { c.Provider.DailyQuota = -1 }},
		{"bad reset hour", func(c *Config) { c.Provider.QuotaResetHour = 24 }},
		{"zero keyword queries", func(c *Config) { c.Strategies.KeywordQueries = 0 }},
		{"zero gem queries", func(c *Config) { c.Strategies.GemQueries = 0 }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestAPIKey_EnvResolution(t *testing.T) {
	t.Setenv("VIDPULSE_TEST_KEY", "secret")

	p := ProviderConfig{APIKeyEnv: "VIDPULSE_TEST_KEY"}
	assert.Equal(t, "secret", p.APIKey())

	t.Setenv("YOUTUBE_API_KEY", "default-secret")
	assert.Equal(t, "default-secret", ProviderConfig{}.APIKey())
}

func TestEngineOptions_Overrides(t *testing.T) {
	s := StrategiesConfig{KeywordQueries: 2, GemQueries: 1, RisingQuery: "custom"}
	opts := s.EngineOptions()

	assert.Equal(t, 2, opts.KeywordQueries)
	assert.Equal(t, 1, opts.GemQueries)
	assert.Equal(t, "custom", opts.RisingQuery)
	// Untouched knobs keep production values
	assert.Equal(t, 10, opts.KeywordFetchSize)
	assert.Equal(t, 20, opts.GemTopN)

	defaults := StrategiesConfig{}.EngineOptions()
	assert.Equal(t, 4, defaults.KeywordQueries)
}
