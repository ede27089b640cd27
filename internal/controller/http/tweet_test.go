package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/domain/tweet/dao"
	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
	"github.com/vadim/tweetlab/internal/domain/tweet/policy"
	"github.com/vadim/tweetlab/internal/domain/tweet/service"
)

type tweetEnvelope struct {
	Tweet entity.Tweet `json:"tweet"`
}

func newTweetRouter(t *testing.T) (http.Handler, string, string) {
	t.Helper()
	issuer := testIssuer()
	svc := service.New(dao.NewMemoryTweetRepository()).WithNow(func() time.Time { return fixedTime })
	p := policy.New(svc, testEngine(), &stubAuthorProfiles{}, policy.NewLogPoster(discard), nil, discard)
	h := NewTweetHandler(p)
	return newRouter(func(r chi.Router) { h.RegisterRoutes(r, issuer) }), bearer(t, issuer, "owner"), bearer(t, issuer, "stranger")
}

func TestTweetHandler_RequiresSession(t *testing.T) {
	router, _, _ := newTweetRouter(t)

	var body errorBody
	rec := do(t, router, http.MethodGet, "/api/v1/tweets", "", nil, &body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", body.Error)
}

func TestTweetHandler_Lifecycle(t *testing.T) {
	router, owner, stranger := newTweetRouter(t)

	var created tweetEnvelope
	rec := do(t, router, http.MethodPost, "/api/v1/tweets", owner, map[string]any{
		"content": "Go ile ilk servisimi yazdım. Sizin ilk projeniz neydi?",
		"analyze": true,
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, entity.StatusDraft, created.Tweet.Status)
	require.NotNil(t, created.Tweet.Analysis)
	id := created.Tweet.ID

	var body errorBody
	rec = do(t, router, http.MethodGet, "/api/v1/tweets/"+id, stranger, nil, &body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Tweet not found", body.Error)

	rec = do(t, router, http.MethodPost, "/api/v1/tweets/"+id+"/schedule", owner, map[string]any{"scheduled_for": "tomorrow"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/tweets/"+id+"/schedule", owner, map[string]any{
		"scheduled_for": fixedTime.Add(-time.Hour).Format(time.RFC3339),
	}, &body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, entity.ErrScheduledTimeInPast.Error(), body.Error)

	var scheduled tweetEnvelope
	rec = do(t, router, http.MethodPost, "/api/v1/tweets/"+id+"/schedule", owner, map[string]any{
		"scheduled_for": fixedTime.Add(2 * time.Hour).Format(time.RFC3339),
	}, &scheduled)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.StatusScheduled, scheduled.Tweet.Status)

	var upcoming struct {
		Tweets []entity.Tweet `json:"tweets"`
		Total  int            `json:"total"`
	}
	rec = do(t, router, http.MethodGet, "/api/v1/tweets/upcoming", owner, nil, &upcoming)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, upcoming.Total)

	var stats entity.Statistics
	rec = do(t, router, http.MethodGet, "/api/v1/tweets/stats", owner, nil, &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stats.ScheduledCount)

	var edited tweetEnvelope
	rec = do(t, router, http.MethodPatch, "/api/v1/tweets/"+id, owner, map[string]any{"content": "yeni metin"}, &edited)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "yeni metin", edited.Tweet.Content)

	rec = do(t, router, http.MethodPost, "/api/v1/tweets/"+id+"/unschedule", owner, nil, &edited)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.StatusDraft, edited.Tweet.Status)

	rec = do(t, router, http.MethodDelete, "/api/v1/tweets/"+id, owner, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/tweets/"+id, owner, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTweetHandler_Validation(t *testing.T) {
	router, owner, _ := newTweetRouter(t)

	var body errorBody
	rec := do(t, router, http.MethodPost, "/api/v1/tweets", owner, map[string]any{"content": ""}, &body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Content is required", body.Error)

	rec = do(t, router, http.MethodGet, "/api/v1/tweets?status=archived", owner, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/tweets/export", owner, nil, &body)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, entity.ErrExportUnavailable.Error(), body.Error)
}

func TestTweetHandler_ListFilters(t *testing.T) {
	router, owner, _ := newTweetRouter(t)

	for _, content := range []string{"bir", "iki", "üç"} {
		rec := do(t, router, http.MethodPost, "/api/v1/tweets", owner, map[string]any{"content": content}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var list struct {
		Tweets []entity.Tweet `json:"tweets"`
		Total  int64          `json:"total"`
	}
	rec := do(t, router, http.MethodGet, "/api/v1/tweets?limit=2&status=draft", owner, nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, list.Tweets, 2)
	assert.Equal(t, int64(3), list.Total)
}
