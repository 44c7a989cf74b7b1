package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"newshub/internal/core"

	"github.com/stretchr/testify/assert"
)

// capture records the path and query of the last request a test server saw.
func capture(t *testing.T, body string) (*httptest.Server, *string, *url.Values) {
	t.Helper()
	var path string
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		query = r.URL.Query()
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &path, &query
}

func TestNewsAPISelectsEverythingForKeyword(t *testing.T) {
	srv, path, query := capture(t, `{"articles":[]}`)

	client := NewNewsAPIClient("key", srv.URL)
	client.Fetch(context.Background(), core.Filters{Query: "climate"})

	assert.Equal(t, "/everything", *path)
	assert.Equal(t, "climate", query.Get("q"))
	assert.Equal(t, "key", query.Get("apiKey"))
	assert.Equal(t, "100", query.Get("pageSize"))
	assert.Equal(t, "en", query.Get("language"))
}

func TestNewsAPIDefaultsToTopHeadlines(t *testing.T) {
	srv, path, query := capture(t, `{"articles":[]}`)

	client := NewNewsAPIClient("key", srv.URL)
	client.Fetch(context.Background(), core.Filters{Category: "technology", Limit: 25})

	assert.Equal(t, "/top-headlines", *path)
	assert.Equal(t, "technology", query.Get("category"))
	assert.Equal(t, "25", query.Get("pageSize"))
}

func TestNewsAPIJoinsSourceSubset(t *testing.T) {
	srv, path, query := capture(t, `{"articles":[]}`)

	client := NewNewsAPIClient("key", srv.URL)
	client.Fetch(context.Background(), core.Filters{Sources: []string{"bbc-news", "reuters"}})

	assert.Equal(t, "/everything", *path)
	assert.Equal(t, "bbc-news,reuters", query.Get("sources"))
}

func TestGuardianQueryTranslation(t *testing.T) {
	srv, path, query := capture(t, `{"response":{"results":[]}}`)

	client := NewGuardianClient("key", srv.URL)
	client.Fetch(context.Background(), core.Filters{
		Query:    "economy",
		Category: "Business",
		From:     "2026-01-01",
		To:       "2026-01-31",
	})

	assert.Equal(t, "/search", *path)
	assert.Equal(t, "key", query.Get("api-key"))
	assert.Equal(t, "economy", query.Get("q"))
	assert.Equal(t, "business", query.Get("section"))
	assert.Equal(t, "2026-01-01", query.Get("from-date"))
	assert.Equal(t, "2026-01-31", query.Get("to-date"))
	assert.Equal(t, "newest", query.Get("order-by"))
	assert.Equal(t, "headline,trailText,body,byline,thumbnail", query.Get("show-fields"))
}

func TestNYTimesQueryTranslation(t *testing.T) {
	srv, path, query := capture(t, `{"response":{"docs":[]}}`)

	client := NewNYTimesClient("key", srv.URL)
	client.Fetch(context.Background(), core.Filters{
		Category: "World",
		From:     "2026-01-01",
		To:       "2026-01-31",
	})

	assert.Equal(t, "/articlesearch.json", *path)
	assert.Equal(t, "*", query.Get("q"))
	assert.Equal(t, `section_name:("World")`, query.Get("fq"))
	assert.Equal(t, "20260101", query.Get("begin_date"))
	assert.Equal(t, "20260131", query.Get("end_date"))
	assert.Equal(t, "newest", query.Get("sort"))
	assert.Equal(t, "0", query.Get("page"))
}
