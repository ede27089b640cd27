package dao

import (
	"context"
	"time"

	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
)

// TweetFilter contains filters for listing tweets
type TweetFilter struct {
	UserID string
	Status *entity.Status
}

// ListOptions contains pagination options
type ListOptions struct {
	Limit  int
	Offset int
}

// TweetRepository defines the interface for tweet data access
type TweetRepository interface {
	// Create inserts a new tweet
	Create(ctx context.Context, t *entity.Tweet) error

	// GetByID retrieves a tweet by its ID, nil when absent
	GetByID(ctx context.Context, id string) (*entity.Tweet, error)

	// Update stores content, analysis, status and schedule
	Update(ctx context.Context, t *entity.Tweet) error

	// Delete removes a tweet by ID
	Delete(ctx context.Context, id string) error

	// List retrieves tweets newest first
	List(ctx context.Context, filter TweetFilter, opts ListOptions) ([]entity.Tweet, error)

	// Count returns the number of tweets matching the filter
	Count(ctx context.Context, filter TweetFilter) (int64, error)

	// GetUpcoming retrieves scheduled tweets of a user ordered by time
	GetUpcoming(ctx context.Context, userID string, limit int) ([]entity.Tweet, error)

	// GetDue retrieves scheduled tweets with scheduled_for <= now
	GetDue(ctx context.Context, now time.Time, limit int) ([]entity.Tweet, error)

	// SetPosted marks a tweet as posted
	SetPosted(ctx context.Context, id string, postedAt time.Time) error

	// GetStatistics aggregates counts per status
	GetStatistics(ctx context.Context, userID string) (*entity.Statistics, error)
}
