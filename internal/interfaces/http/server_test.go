package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidpulse/vidpulse/internal/config"
	"github.com/vidpulse/vidpulse/internal/provider/youtube"
	"github.com/vidpulse/vidpulse/internal/recommend"
	"github.com/vidpulse/vidpulse/internal/telemetry"
)

// upstream fakes the metadata API behind the provider client.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()

	const searchBody = `{"items": [{"id": {"videoId": "vid-1"}}, {"id": {"videoId": "vid-2"}}]}`
	const videosBody = `{
	  "items": [
		{
		  "id": "vid-1",
		  "snippet": {"title": "First", "channelTitle": "A", "channelId": "ch-a", "publishedAt": "2026-08-30T10:00:00Z"},
		  "statistics": {"viewCount": "500", "likeCount": "10"},
		  "contentDetails": {"duration": "PT45S"}
		},
		{
		  "id": "vid-2",
		  "snippet": {"title": "Second", "channelTitle": "B", "channelId": "ch-b", "publishedAt": "2026-08-29T10:00:00Z"},
		  "statistics": {"viewCount": "90000", "likeCount": "4000", "commentCount": "300"},
		  "contentDetails": {"duration": "PT12M30S"}
		}
	  ]
	}`
	const channelsBody = `{
	  "items": [
		{"id": "ch-a", "statistics": {"subscriberCount": "1200"}},
		{"id": "ch-b", "statistics": {"subscriberCount": "250000"}}
	  ]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.Write([]byte(searchBody))
		case "/videos":
			w.Write([]byte(videosBody))
		case "/channels":
			w.Write([]byte(channelsBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	m := telemetry.New()
	provider := youtube.NewClient(youtube.Config{
		APIKey:  "test-key",
		BaseURL: upstream(t).URL,
		RPS:     1000,
		Burst:   1000,
	}).WithMetrics(m)
	engine := recommend.NewEngine(provider, recommend.DefaultOptions()).WithMetrics(m)

	return NewServer(config.Default().Server, Deps{
		Provider: provider,
		Engine:   engine,
		Keywords: []string{"요리"},
		GemTerms: []string{"숨은 맛집"},
		Metrics:  m,
	})
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/health")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "quota_used")
	assert.NotContains(t, body, "cache", "no cache configured, no cache status")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestTimeslot(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/timeslot")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body, "category_id")
	assert.Contains(t, body, "name")
}

func TestSearch(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/search?q=테스트")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "테스트", body["query"])

	items := body["items"].([]interface{})
	require.Len(t, items, 2)

	// Provider output arrives view count descending
	first := items[0].(map[string]interface{})
	assert.Equal(t, "vid-2", first["id"])
	assert.Equal(t, false, first["is_short"])

	second := items[1].(map[string]interface{})
	assert.Equal(t, "vid-1", second["id"])
	assert.Equal(t, true, second["is_short"])
}

func TestSearch_SortParameter(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/search?q=테스트&sort=viewCount&dir=asc")

	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "vid-1", items[0].(map[string]interface{})["id"])
}

func TestSearch_MissingQuery(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/search")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing q parameter", decode(t, rec)["error"])
}

func TestTrending(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/trending?category=10")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "10", body["category"])
	assert.NotEmpty(t, body["categories"])
	assert.Len(t, body["items"].([]interface{}), 2)
}

func TestRising(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/recommend/rising")

	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]interface{})
	assert.Len(t, items, 2)
}

func TestGems(t *testing.T) {
	// The fake upstream's channels sit inside the mid-tier band only for
	// ch-b; vid-1's channel is too small.
	rec := get(t, newTestServer(t), "/api/recommend/gems")

	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "vid-2", items[0].(map[string]interface{})["id"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/api/search?q=warmup")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vidpulse_provider_requests_total")
}

func TestRequestIDPassthrough(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
