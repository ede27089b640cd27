package entity

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/vadim/tweetlab/internal/scoring"
)

// Domain errors for users
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidEmail       = errors.New("email is invalid")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidProfile     = errors.New("profile counters cannot be negative")
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// User is a registered account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NormalizeEmail lowercases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks registration input
func ValidateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len([]rune(password)) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Profile is the author context stored for a user
type Profile struct {
	UserID          string    `json:"user_id"`
	XUsername       string    `json:"x_username"`
	FollowersCount  int       `json:"followers_count"`
	FollowingCount  int       `json:"following_count"`
	Verified        bool      `json:"verified"`
	ReputationScore *float64  `json:"reputation_score"`
	TotalPosts      int       `json:"total_posts"`
	RecentPostCount int       `json:"recent_post_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate checks profile counters
func (p *Profile) Validate() error {
	if p.FollowersCount < 0 || p.FollowingCount < 0 || p.TotalPosts < 0 || p.RecentPostCount < 0 {
		return ErrInvalidProfile
	}
	return nil
}

// AuthorProfile converts the stored profile into scoring context
func (p *Profile) AuthorProfile() *scoring.AuthorProfile {
	if p == nil {
		return nil
	}
	return &scoring.AuthorProfile{
		Reputation:      p.ReputationScore,
		Verified:        p.Verified,
		RecentPostCount: p.RecentPostCount,
		TotalPosts:      p.TotalPosts,
	}
}
