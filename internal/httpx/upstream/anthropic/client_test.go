package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/domain/generation/entity"
)

type recordingObserver struct {
	outcomes []string
	tokens   int
}

func (o *recordingObserver) ObserveLLMCall(_, outcome string, _ time.Duration, tokens int) {
	o.outcomes = append(o.outcomes, outcome)
	o.tokens += tokens
}

func TestComplete(t *testing.T) {
	var got messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{
			"model": "test-model",
			"stop_reason": "end_turn",
			"content": [{"type": "text", "text": "  merhaba dünya \n"}],
			"usage": {"input_tokens": 12, "output_tokens": 30}
		}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(WithBaseURL(srv.URL+"/"), WithAPIKey("secret"), WithModel("test-model"), WithObserver(obs))

	temp := 0.9
	out, err := c.Complete(context.Background(), Request{
		System:      "sys",
		Messages:    []Message{{Role: "user", Content: "selam"}},
		MaxTokens:   1000,
		Temperature: &temp,
	})
	require.NoError(t, err)

	assert.Equal(t, "merhaba dünya", out.Text)
	assert.Equal(t, 42, out.Usage.Total())
	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	assert.Equal(t, "sys", got.System)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, []string{"ok"}, obs.outcomes)
	assert.Equal(t, 42, obs.tokens)
}

func TestComplete_NotConfigured(t *testing.T) {
	_, err := New().Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, New().Configured())
}

func TestComplete_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"max_tokens too large"}}`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAPIKey("k"))
	_, err := c.Complete(context.Background(), Request{MaxTokens: 1})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "invalid_request_error", apiErr.Type)
	assert.False(t, apiErr.Retryable())
}

func TestComplete_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	_, err := New(WithBaseURL(srv.URL), WithAPIKey("k")).Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestComplete_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(
		WithBaseURL(srv.URL),
		WithAPIKey("k"),
		WithCircuitBreaker(2, 2, time.Minute),
		WithObserver(obs),
	)

	for i := 0; i < 2; i++ {
		_, err := c.Complete(context.Background(), Request{})
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "overloaded", apiErr.Message)
		assert.True(t, apiErr.Retryable())
	}

	_, err := c.Complete(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.EqualValues(t, 2, calls.Load())
	assert.Equal(t, []string{"error", "error", "circuit_open"}, obs.outcomes)
}

func TestComplete_ClientErrorsDoNotTrip(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithAPIKey("k"), WithCircuitBreaker(1, 1, time.Minute))
	for i := 0; i < 3; i++ {
		_, err := c.Complete(context.Background(), Request{})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}
	assert.EqualValues(t, 3, calls.Load())
}

func TestGenerator_MapsErrors(t *testing.T) {
	_, err := NewGenerator(New()).Generate(context.Background(), entity.Prompt{User: "x"})
	assert.ErrorIs(t, err, entity.ErrGeneratorDisabled)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewGenerator(New(WithBaseURL(srv.URL), WithAPIKey("k"), WithCircuitBreaker(1, 1, time.Minute)))
	_, err = g.Generate(context.Background(), entity.Prompt{User: "x"})
	assert.ErrorIs(t, err, entity.ErrGenerationFailed)

	_, err = g.Generate(context.Background(), entity.Prompt{User: "x"})
	assert.ErrorIs(t, err, entity.ErrGeneratorUnhealthy)
}

func TestGenerator_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}],"usage":{"input_tokens":1,"output_tokens":2}}`))
	}))
	defer srv.Close()

	out, err := NewGenerator(New(WithBaseURL(srv.URL), WithAPIKey("k"))).Generate(context.Background(), entity.Prompt{User: "x", MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Text)
	assert.Equal(t, 3, out.TokensUsed)
}
