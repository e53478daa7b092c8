// Package http exposes the read-only JSON API over the ranking and
// recommendation engine.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/vidpulse/vidpulse/internal/cache"
	"github.com/vidpulse/vidpulse/internal/config"
	"github.com/vidpulse/vidpulse/internal/provider/youtube"
	"github.com/vidpulse/vidpulse/internal/recommend"
	"github.com/vidpulse/vidpulse/internal/telemetry"
)

// Deps carries the collaborators the API serves.
type Deps struct {
	Provider *youtube.Client
	Engine   *recommend.Engine
	Keywords []string
	GemTerms []string
	Metrics  *telemetry.Metrics
	Cache    *cache.SearchCache // optional
}

// Server is the HTTP interface.
type Server struct {
	router *mux.Router
	server *http.Server
	deps   Deps
	live   *liveHub
}

// NewServer creates the API server with all routes and middleware
// configured.
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		router: mux.NewRouter(),
		deps:   deps,
		live:   newLiveHub(deps.Metrics),
	}

	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(
		deps.Metrics.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/trending", s.handleTrending).Methods(http.MethodGet)
	api.HandleFunc("/timeslot", s.handleTimeslot).Methods(http.MethodGet)
	api.HandleFunc("/recommend/keywords", s.handleKeywords).Methods(http.MethodGet)
	api.HandleFunc("/recommend/gems", s.handleGems).Methods(http.MethodGet)
	api.HandleFunc("/recommend/rising", s.handleRising).Methods(http.MethodGet)

	s.router.HandleFunc("/ws/rising", s.live.handleWS).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSecs) * time.Second,
	}

	return s
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the server and the live rising feed until the context is
// cancelled.
func (s *Server) Start(ctx context.Context, liveRefresh time.Duration) error {
	go s.live.run(ctx, liveRefresh, s.deps.Engine.Rising)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", w.Header().Get("X-Request-ID")).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
