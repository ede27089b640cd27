package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vadim/tweetlab/internal/domain/tweet/dao"
	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
	"github.com/vadim/tweetlab/internal/scoring"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// Service handles business logic for stored tweets
type Service struct {
	tweets dao.TweetRepository
	now    func() time.Time
}

// New creates a new tweet service
func New(tweets dao.TweetRepository) *Service {
	return &Service{
		tweets: tweets,
		now:    time.Now,
	}
}

// WithNow overrides the clock used for schedule checks
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateInput represents input for creating a tweet
type CreateInput struct {
	UserID       string
	Content      string
	Analysis     *scoring.Result
	Status       entity.Status
	ScheduledFor *time.Time
}

// Create creates a new tweet
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Tweet, error) {
	now := s.now()

	status := in.Status
	if status == "" {
		status = entity.StatusDraft
		if in.ScheduledFor != nil {
			status = entity.StatusScheduled
		}
	}
	if status == entity.StatusScheduled {
		if in.ScheduledFor == nil || !in.ScheduledFor.After(now) {
			return nil, entity.ErrScheduledTimeInPast
		}
	}

	t := &entity.Tweet{
		ID:           uuid.New().String(),
		UserID:       in.UserID,
		Content:      in.Content,
		Analysis:     in.Analysis,
		Status:       status,
		ScheduledFor: in.ScheduledFor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if status == entity.StatusPosted {
		t.PostedAt = &now
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.tweets.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating tweet: %w", err)
	}

	return t, nil
}

// Get retrieves a tweet by ID
func (s *Service) Get(ctx context.Context, id string) (*entity.Tweet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrTweetNotFound
	}

	t, err := s.tweets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting tweet: %w", err)
	}
	if t == nil {
		return nil, entity.ErrTweetNotFound
	}
	return t, nil
}

// UpdateInput represents input for updating a tweet
type UpdateInput struct {
	ID           string
	Content      *string
	Analysis     *scoring.Result
	Status       *entity.Status
	ScheduledFor *time.Time
}

// Update applies changes to an editable tweet
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Tweet, error) {
	t, err := s.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if !t.IsEditable() {
		return nil, entity.ErrTweetNotEditable
	}

	// Update fields
	if in.Content != nil {
		t.Content = *in.Content
	}
	if in.Analysis != nil {
		t.Analysis = in.Analysis
	}
	if in.ScheduledFor != nil {
		if !in.ScheduledFor.After(s.now()) {
			return nil, entity.ErrScheduledTimeInPast
		}
		t.ScheduledFor = in.ScheduledFor
		t.Status = entity.StatusScheduled
	}
	if in.Status != nil {
		t.Status = *in.Status
		switch t.Status {
		case entity.StatusDraft:
			t.ScheduledFor = nil
		case entity.StatusScheduled:
			if t.ScheduledFor == nil {
				return nil, entity.ErrScheduledTimeInPast
			}
		case entity.StatusPosted:
			now := s.now()
			t.PostedAt = &now
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	if err := s.tweets.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("updating tweet: %w", err)
	}

	return t, nil
}

// Schedule sets a future posting time
func (s *Service) Schedule(ctx context.Context, id string, at time.Time) (*entity.Tweet, error) {
	return s.Update(ctx, UpdateInput{ID: id, ScheduledFor: &at})
}

// Unschedule moves a scheduled tweet back to draft
func (s *Service) Unschedule(ctx context.Context, id string) (*entity.Tweet, error) {
	draft := entity.StatusDraft
	return s.Update(ctx, UpdateInput{ID: id, Status: &draft})
}

// Delete removes a tweet
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.tweets.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting tweet: %w", err)
	}
	return nil
}

// ListInput represents input for listing tweets
type ListInput struct {
	UserID string
	Status *entity.Status
	Limit  int
	Offset int
}

// ListOutput represents output from listing tweets
type ListOutput struct {
	Tweets []entity.Tweet
	Total  int64
}

// List retrieves the tweets of a user newest first
func (s *Service) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := dao.TweetFilter{UserID: in.UserID, Status: in.Status}

	tweets, err := s.tweets.List(ctx, filter, dao.ListOptions{Limit: limit, Offset: in.Offset})
	if err != nil {
		return nil, fmt.Errorf("listing tweets: %w", err)
	}

	total, err := s.tweets.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("counting tweets: %w", err)
	}

	return &ListOutput{Tweets: tweets, Total: total}, nil
}

// Upcoming retrieves the scheduled tweets of a user
func (s *Service) Upcoming(ctx context.Context, userID string, limit int) ([]entity.Tweet, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	tweets, err := s.tweets.GetUpcoming(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("getting upcoming tweets: %w", err)
	}
	return tweets, nil
}

// Due retrieves tweets whose scheduled time has passed
func (s *Service) Due(ctx context.Context, limit int) ([]entity.Tweet, error) {
	tweets, err := s.tweets.GetDue(ctx, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("getting due tweets: %w", err)
	}
	return tweets, nil
}

// MarkPosted records that a tweet went out
func (s *Service) MarkPosted(ctx context.Context, id string) error {
	if err := s.tweets.SetPosted(ctx, id, s.now()); err != nil {
		return fmt.Errorf("marking posted: %w", err)
	}
	return nil
}

// Statistics aggregates counts for a user
func (s *Service) Statistics(ctx context.Context, userID string) (*entity.Statistics, error) {
	stats, err := s.tweets.GetStatistics(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting statistics: %w", err)
	}
	return stats, nil
}
