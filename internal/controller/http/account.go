package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/tweetlab/internal/auth"
	"github.com/vadim/tweetlab/internal/domain/user/entity"
	"github.com/vadim/tweetlab/internal/domain/user/policy"
	"github.com/vadim/tweetlab/internal/httpx/response"
)

// AccountPolicy defines the interface for account operations
type AccountPolicy interface {
	Register(ctx context.Context, in policy.RegisterInput) (*policy.Session, error)
	Login(ctx context.Context, email, password string) (*policy.Session, error)
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, in policy.UpdateProfileInput) (*entity.Profile, error)
}

// AccountHandler handles registration, login and the author profile
type AccountHandler struct {
	policy AccountPolicy
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(p AccountPolicy) *AccountHandler {
	return &AccountHandler{policy: p}
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(r chi.Router, a Authenticator) {
	r.Post("/auth/register", h.Register())
	r.Post("/auth/login", h.Login())

	r.Group(func(r chi.Router) {
		r.Use(a.RequireAuth)
		r.Get("/profile", h.GetProfile())
		r.Put("/profile", h.UpdateProfile())
	})
}

// CredentialsRequest is the body of register and login
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// Register handles POST /auth/register
func (h *AccountHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		session, err := h.policy.Register(r.Context(), policy.RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			handleAccountError(w, err)
			return
		}

		response.Created(w, session)
	}
}

// Login handles POST /auth/login
func (h *AccountHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CredentialsRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.Email == "" || req.Password == "" {
			response.BadRequest(w, "email and password are required")
			return
		}

		session, err := h.policy.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			handleAccountError(w, err)
			return
		}

		response.OK(w, session)
	}
}

// GetProfile handles GET /profile
func (h *AccountHandler) GetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := h.policy.GetProfile(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			handleAccountError(w, err)
			return
		}

		response.OK(w, profile)
	}
}

// ProfileRequest is a partial profile update
type ProfileRequest struct {
	XUsername       *string  `json:"x_username,omitempty"`
	FollowersCount  *int     `json:"followers_count,omitempty"`
	FollowingCount  *int     `json:"following_count,omitempty"`
	Verified        *bool    `json:"verified,omitempty"`
	ReputationScore *float64 `json:"reputation_score,omitempty"`
	TotalPosts      *int     `json:"total_posts,omitempty"`
	RecentPostCount *int     `json:"recent_post_count,omitempty"`
}

// UpdateProfile handles PUT /profile
func (h *AccountHandler) UpdateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProfileRequest
		if err := decodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		profile, err := h.policy.UpdateProfile(r.Context(), policy.UpdateProfileInput{
			UserID:          auth.UserID(r.Context()),
			XUsername:       req.XUsername,
			FollowersCount:  req.FollowersCount,
			FollowingCount:  req.FollowingCount,
			Verified:        req.Verified,
			ReputationScore: req.ReputationScore,
			TotalPosts:      req.TotalPosts,
			RecentPostCount: req.RecentPostCount,
		})
		if err != nil {
			handleAccountError(w, err)
			return
		}

		response.OK(w, profile)
	}
}
