package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/domain/style/entity"
	"github.com/vadim/tweetlab/internal/domain/style/policy"
	"github.com/vadim/tweetlab/internal/domain/style/service"
	"github.com/vadim/tweetlab/internal/scoring"
)

type memoryStyles struct {
	records []*entity.Record
}

func (m *memoryStyles) Save(_ context.Context, rec *entity.Record) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memoryStyles) GetLatest(_ context.Context, userID string) (*entity.Record, error) {
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].UserID == userID {
			return m.records[i], nil
		}
	}
	return nil, nil
}

func TestStyleHandler(t *testing.T) {
	issuer := testIssuer()
	repo := &memoryStyles{}
	p := policy.New(service.NewAnalyzer(scoring.Default()), repo, nil, discard)
	h := NewStyleHandler(p)
	router := newRouter(func(r chi.Router) { h.RegisterRoutes(r, issuer) })
	token := bearer(t, issuer, "u1")

	var body errorBody
	rec := do(t, router, http.MethodPost, "/api/v1/style/analyze", "", map[string]any{"tweets": []any{}}, &body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Tweets array is required", body.Error)

	rec = do(t, router, http.MethodGet, "/api/v1/style/latest", token, nil, &body)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	samples := []map[string]any{
		{"text": "Yazılım öğrenmek isteyenlere tavsiyem: her gün kod yazın 🚀", "likes": 10, "views": 100},
		{"text": "Bugün yeni bir kodlama dersi hazırladım. Sizce hangi konu?", "likes": 4, "views": 80},
	}

	var anon entity.Analysis
	rec = do(t, router, http.MethodPost, "/api/v1/style/analyze", "", map[string]any{"tweets": samples}, &anon)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.records)

	var analysis entity.Analysis
	rec = do(t, router, http.MethodPost, "/api/v1/style/analyze", token, map[string]any{"username": "ali", "tweets": samples}, &analysis)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, analysis.StylePromptAddition)
	require.Len(t, repo.records, 1)

	var latest entity.Record
	rec = do(t, router, http.MethodGet, "/api/v1/style/latest", token, nil, &latest)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ali", latest.Username)
	assert.Equal(t, 2, latest.TweetCount)
}
