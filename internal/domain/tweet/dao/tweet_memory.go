package dao

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
)

// MemoryTweetRepository keeps tweets in process memory
// for tests and database-less local runs.
type MemoryTweetRepository struct {
	mu     sync.RWMutex
	tweets map[string]entity.Tweet
}

// NewMemoryTweetRepository creates an empty in-memory repository
func NewMemoryTweetRepository() *MemoryTweetRepository {
	return &MemoryTweetRepository{tweets: make(map[string]entity.Tweet)}
}

// Create inserts a new tweet
func (r *MemoryTweetRepository) Create(_ context.Context, t *entity.Tweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tweets[t.ID] = *t
	return nil
}

// GetByID retrieves a tweet by its ID
func (r *MemoryTweetRepository) GetByID(_ context.Context, id string) (*entity.Tweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tweets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Update stores a changed tweet
func (r *MemoryTweetRepository) Update(_ context.Context, t *entity.Tweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tweets[t.ID]; !ok {
		return entity.ErrTweetNotFound
	}
	t.UpdatedAt = time.Now()
	r.tweets[t.ID] = *t
	return nil
}

// Delete removes a tweet by ID
func (r *MemoryTweetRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tweets, id)
	return nil
}

// List retrieves tweets newest first
func (r *MemoryTweetRepository) List(_ context.Context, filter TweetFilter, opts ListOptions) ([]entity.Tweet, error) {
	matched := r.filter(func(t entity.Tweet) bool { return matches(t, filter) })
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if opts.Offset >= len(matched) {
		return []entity.Tweet{}, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

// Count returns the number of tweets matching the filter
func (r *MemoryTweetRepository) Count(_ context.Context, filter TweetFilter) (int64, error) {
	return int64(len(r.filter(func(t entity.Tweet) bool { return matches(t, filter) }))), nil
}

// GetUpcoming retrieves scheduled tweets of a user ordered by time
func (r *MemoryTweetRepository) GetUpcoming(_ context.Context, userID string, limit int) ([]entity.Tweet, error) {
	out := r.filter(func(t entity.Tweet) bool {
		return t.UserID == userID && t.Status == entity.StatusScheduled && t.ScheduledFor != nil
	})
	return byScheduleTime(out, limit), nil
}

// GetDue retrieves scheduled tweets with scheduled_for <= now
func (r *MemoryTweetRepository) GetDue(_ context.Context, now time.Time, limit int) ([]entity.Tweet, error) {
	out := r.filter(func(t entity.Tweet) bool { return t.IsDue(now) })
	return byScheduleTime(out, limit), nil
}

// SetPosted marks a tweet as posted
func (r *MemoryTweetRepository) SetPosted(_ context.Context, id string, postedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tweets[id]
	if !ok {
		return entity.ErrTweetNotFound
	}
	t.Status = entity.StatusPosted
	t.PostedAt = &postedAt
	t.UpdatedAt = postedAt
	r.tweets[id] = t
	return nil
}

// GetStatistics aggregates counts per status
func (r *MemoryTweetRepository) GetStatistics(_ context.Context, userID string) (*entity.Statistics, error) {
	stats := &entity.Statistics{}
	var (
		sum    float64
		scored int
	)
	for _, t := range r.filter(func(t entity.Tweet) bool { return t.UserID == userID }) {
		stats.Total++
		switch t.Status {
		case entity.StatusDraft:
			stats.DraftCount++
		case entity.StatusScheduled:
			stats.ScheduledCount++
		case entity.StatusPosted:
			stats.PostedCount++
		}
		if t.Analysis != nil {
			sum += float64(t.Analysis.Score)
			scored++
		}
	}
	if scored > 0 {
		stats.AverageScore = sum / float64(scored)
	}
	return stats, nil
}

func (r *MemoryTweetRepository) filter(keep func(entity.Tweet) bool) []entity.Tweet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Tweet, 0, len(r.tweets))
	for _, t := range r.tweets {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t entity.Tweet, f TweetFilter) bool {
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}

func byScheduleTime(tweets []entity.Tweet, limit int) []entity.Tweet {
	sort.SliceStable(tweets, func(i, j int) bool {
		return tweets[i].ScheduledFor.Before(*tweets[j].ScheduledFor)
	})
	if limit > 0 && len(tweets) > limit {
		tweets = tweets[:limit]
	}
	return tweets
}
