// Package config loads the vidpulse YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vidpulse/vidpulse/internal/recommend"
)

// Config is the complete service configuration.
type Config struct {
	Provider   ProviderConfig   `yaml:"provider"`
	Strategies StrategiesConfig `yaml:"strategies"`
	Server     ServerConfig     `yaml:"server"`
	Redis      RedisConfig      `yaml:"redis"`
	Postgres   PostgresConfig   `yaml:"postgres"`
}

// ProviderConfig configures the video metadata provider client.
type ProviderConfig struct {
	APIKeyEnv      string  `yaml:"api_key_env"` // env var holding the API key
	BaseURL        string  `yaml:"base_url"`
	Region         string  `yaml:"region"`
	TimeoutSecs    int     `yaml:"timeout_secs"`
	RPS            float64 `yaml:"rps"`
	Burst          int     `yaml:"burst"`
	DailyQuota     int64   `yaml:"daily_quota"` // quota units per UTC day, 0 disables
	QuotaResetHour int     `yaml:"quota_reset_hour"`
	CacheTTLSecs   int     `yaml:"cache_ttl_secs"`

	BreakerFailures    int `yaml:"breaker_failures"`
	BreakerCooloffSecs int `yaml:"breaker_cooloff_secs"`
}

// StrategiesConfig tunes the recommendation strategy shortlists and call
// budgets without code changes.
type StrategiesConfig struct {
	Keywords       []string `yaml:"keywords"`
	GemTerms       []string `yaml:"gem_terms"`
	KeywordQueries int      `yaml:"keyword_queries"`
	GemQueries     int      `yaml:"gem_queries"`
	RisingQuery    string   `yaml:"rising_query"`
}

// ServerConfig configures the HTTP interface.
type ServerConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"`
	IdleTimeoutSecs  int    `yaml:"idle_timeout_secs"`
	LiveRefreshSecs  int    `yaml:"live_refresh_secs"`
}

// RedisConfig configures the optional search response cache.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// PostgresConfig configures the optional run history store.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// Default returns a runnable zero-config setup pointed at the public API.
func Default() Config {
	return Config{
		Provider: ProviderConfig{
			APIKeyEnv:          "YOUTUBE_API_KEY",
			BaseURL:            "https://www.googleapis.com/youtube/v3",
			Region:             "KR",
			TimeoutSecs:        15,
			RPS:                5,
			Burst:              5,
			DailyQuota:         10000,
			QuotaResetHour:     0,
			CacheTTLSecs:       300,
			BreakerFailures:    5,
			BreakerCooloffSecs: 30,
		},
		Strategies: StrategiesConfig{
			Keywords:       recommend.DefaultKeywords,
			GemTerms:       recommend.DefaultGemTerms,
			KeywordQueries: 4,
			GemQueries:     3,
			RisingQuery:    recommend.DefaultOptions().RisingQuery,
		},
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             8080,
			ReadTimeoutSecs:  10,
			WriteTimeoutSecs: 30,
			IdleTimeoutSecs:  60,
			LiveRefreshSecs:  300,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
	}
}

// Load reads configuration from the given YAML file, overlaying the
// defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate ensures the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Provider.RPS <= 0 {
		return fmt.Errorf("provider rps must be positive, got %v", c.Provider.RPS)
	}
	if c.Provider.Burst <= 0 {
		return fmt.Errorf("provider burst must be positive, got %d", c.Provider.Burst)
	}
	if c.Provider.DailyQuota < 0 {
		return fmt.Errorf("provider daily_quota must not be negative, got %d", c.Provider.DailyQuota)
	}
	if c.Provider.QuotaResetHour < 0 || c.Provider.QuotaResetHour > 23 {
		return fmt.Errorf("provider quota_reset_hour must be 0-23, got %d", c.Provider.QuotaResetHour)
	}
	if c.Strategies.KeywordQueries <= 0 {
		return fmt.Errorf("strategies keyword_queries must be positive, got %d", c.Strategies.KeywordQueries)
	}
	if c.Strategies.GemQueries <= 0 {
		return fmt.Errorf("strategies gem_queries must be positive, got %d", c.Strategies.GemQueries)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", c.Server.Port)
	}
	return nil
}

// APIKey resolves the provider API key from the environment.
func (p ProviderConfig) APIKey() string {
	env := p.APIKeyEnv
	if env == "" {
		env = "YOUTUBE_API_KEY"
	}
	return os.Getenv(env)
}

// CacheTTL returns the cache TTL as a duration.
func (p ProviderConfig) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLSecs) * time.Second
}

// EngineOptions converts the strategy config to engine options, starting
// from the production defaults.
func (s StrategiesConfig) EngineOptions() recommend.Options {
	opts := recommend.DefaultOptions()
	if s.KeywordQueries > 0 {
		opts.KeywordQueries = s.KeywordQueries
	}
	if s.GemQueries > 0 {
		opts.GemQueries = s.GemQueries
	}
	if s.RisingQuery != "" {
		opts.RisingQuery = s.RisingQuery
	}
	return opts
}
