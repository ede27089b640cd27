package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/tweetlab/internal/auth"
	"github.com/vadim/tweetlab/internal/domain/generation/entity"
	"github.com/vadim/tweetlab/internal/domain/generation/policy"
	"github.com/vadim/tweetlab/internal/httpx/response"
	"github.com/vadim/tweetlab/internal/scoring"
)

// GenerationPolicy defines the interface for generation operations
type GenerationPolicy interface {
	GenerateTweet(ctx context.Context, userID string, req entity.TweetRequest) (*entity.TweetResult, error)
	GenerateThread(ctx context.Context, userID string, req entity.ThreadRequest) (*entity.ThreadResult, error)
	Compare(ctx context.Context, userID string, req entity.CompareRequest) (*entity.CompareResult, error)
	Usage(ctx context.Context, userID string) (*policy.UsageSummary, error)
}

// GenerationHandler handles LLM-backed writing and variant comparison
type GenerationHandler struct {
	policy GenerationPolicy
}

// NewGenerationHandler creates a new generation handler
func NewGenerationHandler(p GenerationPolicy) *GenerationHandler {
	return &GenerationHandler{policy: p}
}

// RegisterRoutes registers generation routes
func (h *GenerationHandler) RegisterRoutes(r chi.Router, a Authenticator) {
	r.Group(func(r chi.Router) {
		r.Use(a.OptionalAuth)
		r.Post("/tweets/generate", h.GenerateTweet())
		r.Post("/tweets/compare", h.Compare())
		r.Post("/threads/generate", h.GenerateThread())
	})
	r.With(a.RequireAuth).Get("/usage", h.Usage())
}

// GenerateTweet handles POST /tweets/generate
func (h *GenerationHandler) GenerateTweet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entity.TweetRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		out, err := h.policy.GenerateTweet(r.Context(), auth.UserID(r.Context()), req)
		if err != nil {
			handleGenerationError(w, err)
			return
		}

		response.OK(w, out)
	}
}

// GenerateThread handles POST /threads/generate
func (h *GenerationHandler) GenerateThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entity.ThreadRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		out, err := h.policy.GenerateThread(r.Context(), auth.UserID(r.Context()), req)
		if err != nil {
			handleGenerationError(w, err)
			return
		}

		response.OK(w, out)
	}
}

// CompareRequest is the body of POST /tweets/compare
type CompareRequest struct {
	Variants    []string        `json:"variants"`
	Mode        string          `json:"mode,omitempty"`
	UserProfile *entity.Profile `json:"userProfile,omitempty"`
}

// Compare handles POST /tweets/compare
func (h *GenerationHandler) Compare() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompareRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		mode, err := scoring.ParseMode(req.Mode)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		out, err := h.policy.Compare(r.Context(), auth.UserID(r.Context()), entity.CompareRequest{
			Variants: req.Variants,
			Mode:     mode,
			Profile:  req.UserProfile,
		})
		if err != nil {
			handleGenerationError(w, err)
			return
		}

		response.OK(w, out)
	}
}

// Usage handles GET /usage
func (h *GenerationHandler) Usage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := h.policy.Usage(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			handleGenerationError(w, err)
			return
		}

		response.OK(w, out)
	}
}
