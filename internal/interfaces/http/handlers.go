package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vidpulse/vidpulse/internal/metrics"
	"github.com/vidpulse/vidpulse/internal/rank"
	"github.com/vidpulse/vidpulse/internal/recommend"
	"github.com/vidpulse/vidpulse/internal/timeslot"
	"github.com/vidpulse/vidpulse/internal/video"
)

// rankedVideo is a record plus its derived display metrics.
type rankedVideo struct {
	video.Record
	ViewSubscriberRatio metrics.Metric `json:"view_subscriber_ratio"`
	EngagementLevel     metrics.Metric `json:"engagement_level"`
	IsShort             bool           `json:"is_short"`
}

func annotate(records []video.Record) []rankedVideo {
	out := make([]rankedVideo, 0, len(records))
	for _, r := range records {
		out = append(out, rankedVideo{
			Record:              r,
			ViewSubscriberRatio: metrics.ViewSubscriberRatio(r.ViewCount, subscriberArg(r)),
			EngagementLevel:     metrics.EngagementLevel(r.LikeCount, r.CommentCountOrZero()),
			IsShort:             r.IsShort(),
		})
	}
	return out
}

func subscriberArg(r video.Record) int64 {
	if !r.HasSubscriberCount {
		return 0
	}
	return r.SubscriberCount
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing q parameter")
		return
	}

	maxResults := intParam(r, "max", 50)
	records, err := s.deps.Provider.Search(r.Context(), recommend.Query{
		Query:      query,
		MaxResults: maxResults,
		Order:      recommend.OrderViewCount,
	})
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Search request failed")
		writeError(w, http.StatusBadGateway, "search failed")
		return
	}

	records = applySort(r, records)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query": query,
		"items": annotate(records),
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = "all"
	}

	records, err := s.deps.Provider.Trending(r.Context(), category, intParam(r, "max", 50))
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("Trending request failed")
		writeError(w, http.StatusBadGateway, "trending fetch failed")
		return
	}

	records = applySort(r, records)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"category":   category,
		"categories": timeslot.Categories,
		"items":      annotate(records),
	})
}

func (s *Server) handleTimeslot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, timeslot.Now(nil))
}

func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	digests := s.deps.Engine.Keywords(r.Context(), s.deps.Keywords)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"digests": digests,
	})
}

func (s *Server) handleGems(w http.ResponseWriter, r *http.Request) {
	records := s.deps.Engine.HiddenGems(r.Context(), s.deps.GemTerms)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": annotate(records),
	})
}

func (s *Server) handleRising(w http.ResponseWriter, r *http.Request) {
	records := s.deps.Engine.Rising(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": annotate(records),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":     "ok",
		"time":       time.Now().UTC(),
		"quota_used": s.deps.Provider.QuotaUsed(),
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(r.Context()); err != nil {
			health["cache"] = "unreachable"
		} else {
			health["cache"] = "ok"
		}
	}

	writeJSON(w, http.StatusOK, health)
}

// applySort applies the optional sort/dir query parameters.
func applySort(r *http.Request, records []video.Record) []video.Record {
	sortName := r.URL.Query().Get("sort")
	if sortName == "" {
		return records
	}
	field, ok := rank.ParseField(sortName)
	if !ok {
		return records
	}
	return rank.Sort(records, field, rank.ParseDirection(r.URL.Query().Get("dir")))
}

func intParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
