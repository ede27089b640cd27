package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/tweetlab/internal/auth"
	"github.com/vadim/tweetlab/internal/domain/style/entity"
	"github.com/vadim/tweetlab/internal/domain/style/policy"
	"github.com/vadim/tweetlab/internal/httpx/response"
)

// StylePolicy defines the interface for style analysis
type StylePolicy interface {
	Analyze(ctx context.Context, in policy.AnalyzeInput) (*entity.Analysis, error)
	Latest(ctx context.Context, userID string) (*entity.Record, error)
}

// StyleHandler handles writing-style analysis
type StyleHandler struct {
	policy StylePolicy
}

// NewStyleHandler creates a new style handler
func NewStyleHandler(p StylePolicy) *StyleHandler {
	return &StyleHandler{policy: p}
}

// RegisterRoutes registers style routes
func (h *StyleHandler) RegisterRoutes(r chi.Router, a Authenticator) {
	r.With(a.OptionalAuth).Post("/style/analyze", h.Analyze())
	r.With(a.RequireAuth).Get("/style/latest", h.Latest())
}

// StyleRequest is the body of POST /style/analyze
type StyleRequest struct {
	Username string          `json:"username,omitempty"`
	Tweets   []entity.Sample `json:"tweets"`
}

// Analyze handles POST /style/analyze. Results of signed-in callers are stored.
func (h *StyleHandler) Analyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StyleRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		out, err := h.policy.Analyze(r.Context(), policy.AnalyzeInput{
			UserID:   auth.UserID(r.Context()),
			Username: req.Username,
			Tweets:   req.Tweets,
		})
		if err != nil {
			handleStyleError(w, err)
			return
		}

		response.OK(w, out)
	}
}

// Latest handles GET /style/latest
func (h *StyleHandler) Latest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := h.policy.Latest(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			handleStyleError(w, err)
			return
		}

		response.OK(w, out)
	}
}
