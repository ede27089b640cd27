package http

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/domain/generation/entity"
	"github.com/vadim/tweetlab/internal/domain/generation/policy"
	"github.com/vadim/tweetlab/internal/scoring"
)

type stubGeneration struct {
	err     error
	userID  string
	compare entity.CompareRequest
}

func (s *stubGeneration) GenerateTweet(_ context.Context, userID string, req entity.TweetRequest) (*entity.TweetResult, error) {
	s.userID = userID
	if req.Topic == "" {
		return nil, entity.ErrEmptyTopic
	}
	if s.err != nil {
		return nil, s.err
	}
	return &entity.TweetResult{Content: "merhaba " + req.Topic}, nil
}

func (s *stubGeneration) GenerateThread(_ context.Context, _ string, req entity.ThreadRequest) (*entity.ThreadResult, error) {
	if req.TweetCount == 1 {
		return nil, entity.ErrInvalidTweetCount
	}
	return &entity.ThreadResult{Tweets: []string{"1/ a", "2/ b"}, TotalCharacters: 8}, nil
}

func (s *stubGeneration) Compare(_ context.Context, _ string, req entity.CompareRequest) (*entity.CompareResult, error) {
	s.compare = req
	return &entity.CompareResult{Winner: 0}, nil
}

func (s *stubGeneration) Usage(context.Context, string) (*policy.UsageSummary, error) {
	return &policy.UsageSummary{Tokens: 42}, nil
}

func newGenerationRouter(g *stubGeneration) http.Handler {
	h := NewGenerationHandler(g)
	return newRouter(func(r chi.Router) { h.RegisterRoutes(r, testIssuer()) })
}

func TestGenerationHandler_GenerateTweet(t *testing.T) {
	g := &stubGeneration{}
	router := newGenerationRouter(g)

	var out entity.TweetResult
	rec := do(t, router, http.MethodPost, "/api/v1/tweets/generate", bearer(t, testIssuer(), "u1"), map[string]any{"topic": "Go"}, &out)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "merhaba Go", out.Content)
	assert.Equal(t, "u1", g.userID)

	var body errorBody
	rec = do(t, router, http.MethodPost, "/api/v1/tweets/generate", "", map[string]any{}, &body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Topic is required", body.Error)
	assert.Empty(t, g.userID)
}

func TestGenerationHandler_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"disabled", entity.ErrGeneratorDisabled, entity.ErrGeneratorDisabled.Error()},
		{"circuit open", entity.ErrGeneratorUnhealthy, entity.ErrGeneratorUnhealthy.Error()},
		{"upstream failure", fmt.Errorf("%w: status 529", entity.ErrGenerationFailed), "AI generation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newGenerationRouter(&stubGeneration{err: tt.err})

			var body errorBody
			rec := do(t, router, http.MethodPost, "/api/v1/tweets/generate", "", map[string]any{"topic": "Go"}, &body)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.want, body.Error)
		})
	}
}

func TestGenerationHandler_Thread(t *testing.T) {
	router := newGenerationRouter(&stubGeneration{})

	var out entity.ThreadResult
	rec := do(t, router, http.MethodPost, "/api/v1/threads/generate", "", map[string]any{"topic": "Go"}, &out)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, out.TotalCharacters)

	rec = do(t, router, http.MethodPost, "/api/v1/threads/generate", "", map[string]any{"topic": "Go", "tweet_count": 1}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerationHandler_Compare(t *testing.T) {
	g := &stubGeneration{}
	router := newGenerationRouter(g)

	rec := do(t, router, http.MethodPost, "/api/v1/tweets/compare", "", map[string]any{
		"variants": []string{"a", "b"},
		"mode":     "generation",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, scoring.ModeGeneration, g.compare.Mode)

	rec = do(t, router, http.MethodPost, "/api/v1/tweets/compare", "", map[string]any{
		"variants": []string{"a", "b"},
		"mode":     "viral",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerationHandler_Usage(t *testing.T) {
	router := newGenerationRouter(&stubGeneration{})

	rec := do(t, router, http.MethodGet, "/api/v1/usage", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var out policy.UsageSummary
	rec = do(t, router, http.MethodGet, "/api/v1/usage", bearer(t, testIssuer(), "u1"), nil, &out)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), out.Tokens)
}
