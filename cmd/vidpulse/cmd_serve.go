package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/vidpulse/vidpulse/internal/interfaces/http"
	"github.com/vidpulse/vidpulse/internal/persistence/postgres"
)

// serveCmd runs the JSON API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the ranking and recommendation engine as a read-only JSON API,
including Prometheus metrics and the /ws/rising live feed.

Examples:
  vidpulse serve
  vidpulse serve --config config/vidpulse.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional run history store
	if dsn := rt.cfg.Postgres.DSN; dsn != "" {
		db, err := postgres.Connect(dsn)
		if err != nil {
			log.Warn().Err(err).Msg("Run history store unavailable, continuing without it")
		} else {
			defer db.Close()
			repo := postgres.NewRunsRepo(db, 5*time.Second)
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Run history schema setup failed, continuing without it")
			} else {
				rt.engine.WithSink(repo)
				log.Info().Msg("Run history store enabled")
			}
		}
	}

	server := httpapi.NewServer(rt.cfg.Server, httpapi.Deps{
		Provider: rt.provider,
		Engine:   rt.engine,
		Keywords: rt.cfg.Strategies.Keywords,
		GemTerms: rt.cfg.Strategies.GemTerms,
		Metrics:  rt.metrics,
		Cache:    rt.cache,
	})

	liveRefresh := time.Duration(rt.cfg.Server.LiveRefreshSecs) * time.Second
	return server.Start(ctx, liveRefresh)
}
