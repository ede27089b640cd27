package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/auth"
	"github.com/vadim/tweetlab/internal/scoring"
)

var (
	discard   = slog.New(slog.NewTextHandler(io.Discard, nil))
	fixedTime = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)
)

func testIssuer() *auth.Issuer {
	return auth.NewIssuer("test-secret", time.Hour)
}

func testEngine() *scoring.Engine {
	return scoring.New(scoring.Default(),
		scoring.WithClock(scoring.FixedClock(fixedTime)),
		scoring.WithLocation(time.UTC),
	)
}

func bearer(t *testing.T, issuer *auth.Issuer, userID string) string {
	t.Helper()
	token, _, err := issuer.Issue(userID, userID+"@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func newRouter(register func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1", register)
	return r
}

// do sends a JSON request and decodes the JSON reply into out when non-nil
func do(t *testing.T, h http.Handler, method, path, token string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

type errorBody struct {
	Error string `json:"error"`
}
