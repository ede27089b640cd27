package policy

import (
	"context"
	"time"

	"github.com/vadim/tweetlab/internal/domain/user/entity"
	"github.com/vadim/tweetlab/internal/domain/user/service"
	"github.com/vadim/tweetlab/internal/scoring"
)

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// Policy orchestrates account use-cases
type Policy struct {
	svc    *service.Service
	tokens TokenIssuer
}

// New creates a new user policy
func New(svc *service.Service, tokens TokenIssuer) *Policy {
	return &Policy{svc: svc, tokens: tokens}
}

// Session is an authenticated user with its token
type Session struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// RegisterInput represents input for registration
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates an account and opens a session
func (p *Policy) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	u, err := p.svc.Register(ctx, service.RegisterInput{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
	})
	if err != nil {
		return nil, err
	}
	return p.session(u)
}

// Login authenticates and opens a session
func (p *Policy) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := p.svc.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return p.session(u)
}

func (p *Policy) session(u *entity.User) (*Session, error) {
	token, expires, err := p.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: expires}, nil
}

// GetProfile returns the profile of a user
func (p *Policy) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	return p.svc.GetProfile(ctx, userID)
}

// UpdateProfileInput represents a partial profile update
type UpdateProfileInput = service.UpdateProfileInput

// UpdateProfile applies a partial profile update
func (p *Policy) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*entity.Profile, error) {
	return p.svc.UpdateProfile(ctx, in)
}

// AuthorProfile returns the scoring context of a user, or nil for anonymous callers
func (p *Policy) AuthorProfile(ctx context.Context, userID string) (*scoring.AuthorProfile, error) {
	if userID == "" {
		return nil, nil
	}
	profile, err := p.svc.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return profile.AuthorProfile(), nil
}
