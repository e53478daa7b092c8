package main

import (
	"fmt"
	"os"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vidpulse/vidpulse/internal/cache"
	"github.com/vidpulse/vidpulse/internal/config"
	"github.com/vidpulse/vidpulse/internal/provider/youtube"
	"github.com/vidpulse/vidpulse/internal/recommend"
	"github.com/vidpulse/vidpulse/internal/telemetry"
)

var (
	configPath string
	logLevel   string
)

// rootCmd is the base command for the vidpulse CLI
var rootCmd = &cobra.Command{
	Use:   "vidpulse",
	Short: "vidpulse video metadata ranking and recommendation engine",
	Long: `vidpulse searches and ranks externally-sourced video metadata to surface
interesting content: multi-field sorting over any derived metric, plus
time-of-day, keyword-combination, hidden-gem, and rising-velocity
recommendation strategies.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vidpulse - video metadata ranking & recommendation")
		fmt.Println("Use 'vidpulse search', 'vidpulse trending', 'vidpulse recommend', or 'vidpulse serve'")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace|debug|info|warn|error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging() {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Pretty console output when attached to a terminal, JSON otherwise
	if term.IsTerminal(int(os.Stdout.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// runtime bundles the wired collaborators shared by all subcommands.
type runtime struct {
	cfg      *config.Config
	provider *youtube.Client
	engine   *recommend.Engine
	metrics  *telemetry.Metrics
	cache    *cache.SearchCache
}

// buildRuntime loads configuration and wires the provider, cache, metrics,
// and strategy engine.
func buildRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	apiKey := cfg.Provider.APIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("provider API key not set (env %s)", cfg.Provider.APIKeyEnv)
	}

	metrics := telemetry.New()

	var searchCache *cache.SearchCache
	if cfg.Redis.Enabled {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		searchCache = cache.New(client, cfg.Provider.CacheTTL()).WithMetrics(metrics)
	}

	provider := youtube.NewClient(youtube.Config{
		APIKey:          apiKey,
		BaseURL:         cfg.Provider.BaseURL,
		Region:          cfg.Provider.Region,
		Timeout:         time.Duration(cfg.Provider.TimeoutSecs) * time.Second,
		RPS:             cfg.Provider.RPS,
		Burst:           cfg.Provider.Burst,
		DailyQuota:      cfg.Provider.DailyQuota,
		QuotaResetHour:  cfg.Provider.QuotaResetHour,
		BreakerFailures: uint32(cfg.Provider.BreakerFailures),
		BreakerCooloff:  time.Duration(cfg.Provider.BreakerCooloffSecs) * time.Second,
	}).WithMetrics(metrics)
	if searchCache != nil {
		provider = provider.WithCache(searchCache)
	}

	engine := recommend.NewEngine(provider, cfg.Strategies.EngineOptions()).
		WithMetrics(metrics)

	return &runtime{
		cfg:      cfg,
		provider: provider,
		engine:   engine,
		metrics:  metrics,
		cache:    searchCache,
	}, nil
}
