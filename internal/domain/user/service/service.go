package service

import (
	"context"
	"fmt"

	"github.com/vadim/tweetlab/internal/auth"
	"github.com/vadim/tweetlab/internal/domain/user/entity"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	UpsertProfile(ctx context.Context, p *entity.Profile) error
}

// Service handles user business logic
type Service struct {
	repo       UserRepository
	bcryptCost int
}

// New creates a new user service
func New(repo UserRepository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// RegisterInput represents input for registering a user
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates a new account
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := entity.NormalizeEmail(in.Email)
	if err := entity.ValidateCredentials(email, in.Password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if existing != nil {
		return nil, entity.ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &entity.User{
		Email:        email,
		Name:         in.Name,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if err == entity.ErrEmailTaken {
			return nil, err
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return u, nil
}

// Authenticate checks credentials and returns the matching user
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.repo.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if u == nil || !auth.CheckPassword(password, u.PasswordHash) {
		return nil, entity.ErrInvalidCredentials
	}
	return u, nil
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if u == nil {
		return nil, entity.ErrUserNotFound
	}
	return u, nil
}

// GetProfile retrieves a profile, returning an empty one when none is stored
func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	if p == nil {
		return &entity.Profile{UserID: userID}, nil
	}
	return p, nil
}

// UpdateProfileInput represents a partial profile update
type UpdateProfileInput struct {
	UserID          string
	XUsername       *string
	FollowersCount  *int
	FollowingCount  *int
	Verified        *bool
	ReputationScore *float64
	TotalPosts      *int
	RecentPostCount *int
}

// UpdateProfile applies a partial update
func (s *Service) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*entity.Profile, error) {
	p, err := s.GetProfile(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if in.XUsername != nil {
		p.XUsername = *in.XUsername
	}
	if in.FollowersCount != nil {
		p.FollowersCount = *in.FollowersCount
	}
	if in.FollowingCount != nil {
		p.FollowingCount = *in.FollowingCount
	}
	if in.Verified != nil {
		p.Verified = *in.Verified
	}
	if in.ReputationScore != nil {
		p.ReputationScore = in.ReputationScore
	}
	if in.TotalPosts != nil {
		p.TotalPosts = *in.TotalPosts
	}
	if in.RecentPostCount != nil {
		p.RecentPostCount = *in.RecentPostCount
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	return p, nil
}
