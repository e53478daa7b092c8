package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidpulse/vidpulse/internal/net/budget"
	"github.com/vidpulse/vidpulse/internal/recommend"
)

// fakeAPI is a stand-in for the metadata API: one canned JSON body per
// endpoint, with every request's query parameters recorded.
type fakeAPI struct {
	t        *testing.T
	search   string
	videos   string
	channels string
	status   int
	requests map[string][]url.Values
}

func newFakeAPI(t *testing.T) *fakeAPI {
	return &fakeAPI{t: t, requests: make(map[string][]url.Values)}
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body string
		var endpoint string
		switch r.URL.Path {
		case "/search":
			endpoint, body = "search", f.search
		case "/videos":
			endpoint, body = "videos", f.videos
		case "/channels":
			endpoint, body = "channels", f.channels
		default:
			f.t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.requests[endpoint] = append(f.requests[endpoint], r.URL.Query())
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		w.Write([]byte(body))
	})
}

func newTestClient(baseURL string) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		RPS:     1000,
		Burst:   1000,
	})
}

const videosBody = `{
  "items": [
    {
      "id": "vid-small",
      "snippet": {
        "title": "Small",
        "channelTitle": "Channel A",
        "channelId": "ch-a",
        "publishedAt": "2026-08-30T10:00:00Z",
        "thumbnails": {"medium": {"url": "https://img/a.jpg"}}
      },
      "statistics": {"viewCount": "500", "likeCount": "10"},
      "contentDetails": {"duration": "PT45S"}
    },
    {
      "id": "vid-big",
      "snippet": {
        "title": "Big",
        "channelTitle": "Channel B",
        "channelId": "ch-b",
        "publishedAt": "2026-08-29T10:00:00Z",
        "thumbnails": {"medium": {"url": "https://img/b.jpg"}}
      },
      "statistics": {"viewCount": "90000", "likeCount": "4000", "commentCount": "300"},
      "contentDetails": {"duration": "PT12M30S"}
    }
  ]
}`

const channelsBody = `{
  "items": [
    {"id": "ch-a", "statistics": {"subscriberCount": "1200", "hiddenSubscriberCount": true}},
    {"id": "ch-b", "statistics": {"subscriberCount": "250000"}}
  ]
}`

func TestSearch_MergesThreeCalls(t *testing.T) {
	api := newFakeAPI(t)
	api.search = `{"items": [{"id": {"videoId": "vid-small"}}, {"id": {"videoId": "vid-big"}}]}`
	api.videos = videosBody
	api.channels = channelsBody

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	client := newTestClient(srv.URL)
	records, err := client.Search(context.Background(), recommend.Query{
		Query:      "테스트",
		MaxResults: 10,
		Order:      recommend.OrderViewCount,
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	// One call per endpoint, with the video and channel IDs threaded through
	require.Len(t, api.requests["search"], 1)
	require.Len(t, api.requests["videos"], 1)
	require.Len(t, api.requests["channels"], 1)
	assert.Equal(t, "테스트", api.requests["search"][0].Get("q"))
	assert.Equal(t, "viewCount", api.requests["search"][0].Get("order"))
	assert.Equal(t, "vid-small,vid-big", api.requests["videos"][0].Get("id"))
	assert.Equal(t, "ch-a,ch-b", api.requests["channels"][0].Get("id"))

	// Output sorted by view count descending
	big, small := records[0], records[1]
	assert.Equal(t, "vid-big", big.ID)
	assert.Equal(t, int64(90000), big.ViewCount)
	assert.Equal(t, int64(300), big.CommentCount)
	assert.True(t, big.HasCommentCount)
	assert.Equal(t, int64(250000), big.SubscriberCount)
	assert.True(t, big.HasSubscriberCount)
	assert.Equal(t, int64(750), big.DurationSeconds)
	assert.False(t, big.IsShort())

	// Omitted comment count and hidden subscribers stay absent
	assert.Equal(t, "vid-small", small.ID)
	assert.False(t, small.HasCommentCount)
	assert.False(t, small.HasSubscriberCount, "hidden subscriber counts must not leak")
	assert.Equal(t, int64(45), small.DurationSeconds)
	assert.True(t, small.IsShort())
}

func TestSearch_PublishedAfterOnWire(t *testing.T) {
	api := newFakeAPI(t)
	api.search = `{"items": []}`

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	after := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	client := newTestClient(srv.URL)
	records, err := client.Search(context.Background(), recommend.Query{
		Query:          "q",
		PublishedAfter: after,
	})
	require.NoError(t, err)
	assert.Empty(t, records)

	require.Len(t, api.requests["search"], 1)
	assert.Equal(t, "2026-08-25T09:00:00Z", api.requests["search"][0].Get("publishedAfter"))
	// Empty search result short-circuits the enrichment calls
	assert.Empty(t, api.requests["videos"])
}

func TestSearch_EmptyQueryRejected(t *testing.T) {
	client := newTestClient("http://unused.invalid")
	_, err := client.Search(context.Background(), recommend.Query{Query: "   "})
	assert.Error(t, err)
}

func TestSearch_APIErrorSurfaced(t *testing.T) {
	api := newFakeAPI(t)
	api.status = http.StatusForbidden
	api.search = `{"error": {"code": 403, "message": "quotaExceeded"}}`

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Search(context.Background(), recommend.Query{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quotaExceeded")
}

func TestTrending_CategoryFilter(t *testing.T) {
	api := newFakeAPI(t)
	api.videos = videosBody
	api.channels = channelsBody

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	client := newTestClient(srv.URL)
	records, err := client.Trending(context.Background(), "10", 25)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "vid-big", records[0].ID)

	q := api.requests["videos"][0]
	assert.Equal(t, "mostPopular", q.Get("chart"))
	assert.Equal(t, "KR", q.Get("regionCode"))
	assert.Equal(t, "10", q.Get("videoCategoryId"))
	assert.Equal(t, "25", q.Get("maxResults"))
}

func TestTrending_AllCategoryOmitsFilter(t *testing.T) {
	api := newFakeAPI(t)
	api.videos = `{"items": []}`

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Trending(context.Background(), "all", 10)
	require.NoError(t, err)
	assert.Empty(t, api.requests["videos"][0].Get("videoCategoryId"))
}

func TestSearch_QuotaBudgetExhaustion(t *testing.T) {
	client := newTestClient("http://unused.invalid")
	// A budget below one search's cost fails before any network I/O
	client.budget = budget.NewTracker(50, 0)

	_, err := client.Search(context.Background(), recommend.Query{Query: "q"})
	require.Error(t, err)
	assert.ErrorIs(t, err, budget.ErrBudgetExhausted)
}

func TestSearchCacheKey_HourBucketing(t *testing.T) {
	base := recommend.Query{Query: "q", MaxResults: 10, Order: recommend.OrderDate}

	a, b := base, base
	a.PublishedAfter = time.Date(2026, 9, 1, 10, 5, 0, 0, time.UTC)
	b.PublishedAfter = time.Date(2026, 9, 1, 10, 55, 0, 0, time.UTC)
	assert.Equal(t, searchCacheKey(a), searchCacheKey(b), "same hour shares a key")

	c := base
	c.PublishedAfter = time.Date(2026, 9, 1, 11, 5, 0, 0, time.UTC)
	assert.NotEqual(t, searchCacheKey(a), searchCacheKey(c))

	d := base
	d.MaxResults = 20
	assert.NotEqual(t, searchCacheKey(base), searchCacheKey(d))
}
