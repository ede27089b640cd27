package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/tweetlab/internal/auth"
	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
	"github.com/vadim/tweetlab/internal/domain/tweet/policy"
	"github.com/vadim/tweetlab/internal/httpx/response"
	"github.com/vadim/tweetlab/internal/scoring"
)

// TweetPolicy defines the interface for saved tweet operations
type TweetPolicy interface {
	Create(ctx context.Context, in policy.CreateInput) (*entity.Tweet, error)
	Get(ctx context.Context, id, userID string) (*entity.Tweet, error)
	Update(ctx context.Context, in policy.UpdateInput) (*entity.Tweet, error)
	Delete(ctx context.Context, id, userID string) error
	Schedule(ctx context.Context, id, userID string, at time.Time) (*entity.Tweet, error)
	Unschedule(ctx context.Context, id, userID string) (*entity.Tweet, error)
	List(ctx context.Context, in policy.ListInput) (*policy.ListOutput, error)
	Upcoming(ctx context.Context, userID string, limit int) ([]entity.Tweet, error)
	Statistics(ctx context.Context, userID string) (*entity.Statistics, error)
	Export(ctx context.Context, userID string) (*policy.ExportOutput, error)
}

// TweetHandler handles HTTP requests for saved tweets
type TweetHandler struct {
	policy TweetPolicy
}

// NewTweetHandler creates a new tweet handler
func NewTweetHandler(p TweetPolicy) *TweetHandler {
	return &TweetHandler{policy: p}
}

// RegisterRoutes registers tweet routes. Every route requires a session.
func (h *TweetHandler) RegisterRoutes(r chi.Router, a Authenticator) {
	r.Group(func(r chi.Router) {
		r.Use(a.RequireAuth)
		r.Post("/tweets", h.Create())
		r.Get("/tweets", h.List())
		r.Get("/tweets/upcoming", h.Upcoming())
		r.Get("/tweets/stats", h.Statistics())
		r.Post("/tweets/export", h.Export())
		r.Get("/tweets/{id}", h.Get())
		r.Patch("/tweets/{id}", h.Update())
		r.Delete("/tweets/{id}", h.Delete())
		r.Post("/tweets/{id}/schedule", h.Schedule())
		r.Post("/tweets/{id}/unschedule", h.Unschedule())
	})
}

// CreateTweetRequest is the body of POST /tweets
type CreateTweetRequest struct {
	Content      string          `json:"content"`
	Analysis     *scoring.Result `json:"analysis,omitempty"`
	Analyze      bool            `json:"analyze,omitempty"`
	Status       string          `json:"status,omitempty"` // draft, scheduled
	ScheduledFor *string         `json:"scheduled_for,omitempty"`
}

// Create handles POST /tweets
func (h *TweetHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTweetRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.Content == "" {
			response.BadRequest(w, "Content is required")
			return
		}

		scheduledFor, ok := parseTime(req.ScheduledFor)
		if !ok {
			response.BadRequest(w, "invalid scheduled_for format, use RFC3339")
			return
		}

		t, err := h.policy.Create(r.Context(), policy.CreateInput{
			UserID:       auth.UserID(r.Context()),
			Content:      req.Content,
			Analysis:     req.Analysis,
			Analyze:      req.Analyze,
			Status:       entity.Status(req.Status),
			ScheduledFor: scheduledFor,
		})
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.Created(w, map[string]any{"tweet": t})
	}
}

// List handles GET /tweets
func (h *TweetHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := policy.ListInput{
			UserID: auth.UserID(r.Context()),
			Limit:  queryInt(r, "limit", 0),
			Offset: queryInt(r, "offset", 0),
		}
		if s := r.URL.Query().Get("status"); s != "" {
			status := entity.Status(s)
			if !status.IsValid() {
				response.BadRequest(w, entity.ErrInvalidStatus.Error())
				return
			}
			in.Status = &status
		}

		out, err := h.policy.List(r.Context(), in)
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.OK(w, map[string]any{
			"tweets": out.Tweets,
			"total":  out.Total,
		})
	}
}

// Get handles GET /tweets/{id}
func (h *TweetHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.policy.Get(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()))
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.OK(w, map[string]any{"tweet": t})
	}
}

// UpdateTweetRequest is a partial tweet update
type UpdateTweetRequest struct {
	Content      *string         `json:"content,omitempty"`
	Analysis     *scoring.Result `json:"analysis,omitempty"`
	Reanalyze    bool            `json:"reanalyze,omitempty"`
	Status       *string         `json:"status,omitempty"`
	ScheduledFor *string         `json:"scheduled_for,omitempty"`
}

// Update handles PATCH /tweets/{id}
func (h *TweetHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateTweetRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		scheduledFor, ok := parseTime(req.ScheduledFor)
		if !ok {
			response.BadRequest(w, "invalid scheduled_for format, use RFC3339")
			return
		}

		in := policy.UpdateInput{
			ID:           chi.URLParam(r, "id"),
			UserID:       auth.UserID(r.Context()),
			Content:      req.Content,
			Analysis:     req.Analysis,
			Reanalyze:    req.Reanalyze,
			ScheduledFor: scheduledFor,
		}
		if req.Status != nil {
			status := entity.Status(*req.Status)
			in.Status = &status
		}

		t, err := h.policy.Update(r.Context(), in)
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.OK(w, map[string]any{"tweet": t})
	}
}

// Delete handles DELETE /tweets/{id}
func (h *TweetHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Delete(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context())); err != nil {
			handleTweetError(w, err)
			return
		}

		response.NoContent(w)
	}
}

// ScheduleRequest is the body of POST /tweets/{id}/schedule
type ScheduleRequest struct {
	ScheduledFor string `json:"scheduled_for"`
}

// Schedule handles POST /tweets/{id}/schedule
func (h *TweetHandler) Schedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ScheduleRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.ScheduledFor == "" {
			response.BadRequest(w, "scheduled_for is required")
			return
		}

		at, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			response.BadRequest(w, "invalid scheduled_for format, use RFC3339")
			return
		}

		t, err := h.policy.Schedule(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()), at)
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.OK(w, map[string]any{"tweet": t})
	}
}

// Unschedule handles POST /tweets/{id}/unschedule
func (h *TweetHandler) Unschedule() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := h.policy.Unschedule(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()))
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.OK(w, map[string]any{"tweet": t})
	}
}

// Upcoming handles GET /tweets/upcoming
func (h *TweetHandler) Upcoming() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tweets, err := h.policy.Upcoming(r.Context(), auth.UserID(r.Context()), queryInt(r, "limit", 20))
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.OK(w, map[string]any{
			"tweets": tweets,
			"total":  len(tweets),
		})
	}
}

// Statistics handles GET /tweets/stats
func (h *TweetHandler) Statistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.policy.Statistics(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.OK(w, stats)
	}
}

// Export handles POST /tweets/export
func (h *TweetHandler) Export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := h.policy.Export(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			handleTweetError(w, err)
			return
		}

		response.OK(w, out)
	}
}
