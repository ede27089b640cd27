package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/tweetlab/internal/auth"
	"github.com/vadim/tweetlab/internal/httpx/response"
	"github.com/vadim/tweetlab/internal/scoring"
)

// Scorer scores text and rates posting hours
type Scorer interface {
	Score(in scoring.Input) *scoring.Result
	OptimalTimes() scoring.PostingWindow
}

// AuthorProfiles resolves the stored scoring context of a user
type AuthorProfiles interface {
	AuthorProfile(ctx context.Context, userID string) (*scoring.AuthorProfile, error)
}

// ScoringHandler exposes the engine directly
type ScoringHandler struct {
	scorer   Scorer
	profiles AuthorProfiles
}

// NewScoringHandler creates a new scoring handler
func NewScoringHandler(s Scorer, profiles AuthorProfiles) *ScoringHandler {
	return &ScoringHandler{scorer: s, profiles: profiles}
}

// RegisterRoutes registers scoring routes
func (h *ScoringHandler) RegisterRoutes(r chi.Router, a Authenticator) {
	r.With(a.OptionalAuth).Post("/tweets/analyze", h.Analyze())
	r.Get("/schedule/optimal-times", h.OptimalTimes())
}

// AnalyzeRequest is the body of POST /tweets/analyze
type AnalyzeRequest struct {
	Content     string                 `json:"content"`
	Mode        string                 `json:"mode,omitempty"`
	UserProfile *scoring.AuthorProfile `json:"userProfile,omitempty"`
}

// Analyze handles POST /tweets/analyze. A signed-in caller without an
// explicit profile is scored with the stored one.
func (h *ScoringHandler) Analyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnalyzeRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			response.BadRequest(w, "Content is required")
			return
		}

		mode, err := scoring.ParseMode(req.Mode)
		if err != nil {
			response.BadRequest(w, err.Error())
			return
		}

		profile := req.UserProfile
		if profile == nil {
			if userID := auth.UserID(r.Context()); userID != "" {
				profile, err = h.profiles.AuthorProfile(r.Context(), userID)
				if err != nil {
					handleAccountError(w, err)
					return
				}
			}
		}

		response.OK(w, h.scorer.Score(scoring.Input{
			Text:    req.Content,
			Profile: profile,
			Mode:    mode,
		}))
	}
}

// OptimalTimes handles GET /schedule/optimal-times
func (h *ScoringHandler) OptimalTimes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.scorer.OptimalTimes())
	}
}
