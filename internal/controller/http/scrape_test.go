package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/httpx/upstream/nitter"
)

func TestScrapeHandler(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	h := NewScrapeHandler(nitter.New(nitter.WithInstances(down.URL), nitter.WithLogger(discard)))
	router := newRouter(func(r chi.Router) { h.RegisterRoutes(r) })

	var body errorBody
	rec := do(t, router, http.MethodPost, "/api/v1/tweets/scrape", "", map[string]any{"username": ""}, &body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username is required", body.Error)

	var out nitter.Result
	rec = do(t, router, http.MethodPost, "/api/v1/tweets/scrape", "", map[string]any{"username": "@gopher", "count": 3}, &out)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gopher", out.Username)
	assert.Equal(t, nitter.SourceDemo, out.Source)
	assert.Len(t, out.Tweets, 3)
	assert.NotEmpty(t, out.Error)
}
