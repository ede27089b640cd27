package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
	"github.com/vadim/tweetlab/internal/domain/tweet/service"
	"github.com/vadim/tweetlab/internal/scoring"
	"github.com/vadim/tweetlab/internal/storage"
)

// Scorer scores post text
type Scorer interface {
	Score(in scoring.Input) *scoring.Result
}

// ProfileProvider resolves the scoring context of a user
type ProfileProvider interface {
	AuthorProfile(ctx context.Context, userID string) (*scoring.AuthorProfile, error)
}

// Poster delivers a due tweet to the network
type Poster interface {
	Post(ctx context.Context, t *entity.Tweet) error
}

// ObjectStore uploads export documents
type ObjectStore interface {
	Upload(ctx context.Context, in storage.UploadInput) (*storage.UploadOutput, error)
}

// Policy orchestrates stored-tweet use-cases
type Policy struct {
	svc      *service.Service
	scorer   Scorer
	profiles ProfileProvider
	poster   Poster
	store    ObjectStore
	batch    int
	logger   *slog.Logger
}

// New creates a new tweet policy. store may be nil when exports are disabled.
func New(svc *service.Service, scorer Scorer, profiles ProfileProvider, poster Poster, store ObjectStore, logger *slog.Logger) *Policy {
	return &Policy{
		svc:      svc,
		scorer:   scorer,
		profiles: profiles,
		poster:   poster,
		store:    store,
		batch:    50,
		logger:   logger,
	}
}

// WithBatch sets how many due tweets are handled per run
func (p *Policy) WithBatch(n int) *Policy {
	if n > 0 {
		p.batch = n
	}
	return p
}

// CreateInput represents input for saving a tweet
type CreateInput struct {
	UserID       string
	Content      string
	Analysis     *scoring.Result
	Analyze      bool // Score the content with the author profile when Analysis is nil
	Status       entity.Status
	ScheduledFor *time.Time
}

// Create saves a tweet for its owner
func (p *Policy) Create(ctx context.Context, in CreateInput) (*entity.Tweet, error) {
	analysis := in.Analysis
	if analysis == nil && in.Analyze && in.Content != "" {
		res, err := p.analyze(ctx, in.UserID, in.Content)
		if err != nil {
			return nil, err
		}
		analysis = res
	}

	return p.svc.Create(ctx, service.CreateInput{
		UserID:       in.UserID,
		Content:      in.Content,
		Analysis:     analysis,
		Status:       in.Status,
		ScheduledFor: in.ScheduledFor,
	})
}

func (p *Policy) analyze(ctx context.Context, userID, content string) (*scoring.Result, error) {
	profile, err := p.profiles.AuthorProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.scorer.Score(scoring.Input{Text: content, Profile: profile, Mode: scoring.ModeAnalysis}), nil
}

// Get returns a tweet when it belongs to userID
func (p *Policy) Get(ctx context.Context, id, userID string) (*entity.Tweet, error) {
	t, err := p.svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Check ownership
	if t.UserID != userID {
		return nil, entity.ErrTweetNotFound
	}

	return t, nil
}

// UpdateInput represents a partial tweet update
type UpdateInput struct {
	ID           string
	UserID       string
	Content      *string
	Analysis     *scoring.Result
	Reanalyze    bool
	Status       *entity.Status
	ScheduledFor *time.Time
}

// Update changes a tweet owned by the caller
func (p *Policy) Update(ctx context.Context, in UpdateInput) (*entity.Tweet, error) {
	current, err := p.Get(ctx, in.ID, in.UserID)
	if err != nil {
		return nil, err
	}

	analysis := in.Analysis
	if analysis == nil && in.Reanalyze {
		content := current.Content
		if in.Content != nil {
			content = *in.Content
		}
		if analysis, err = p.analyze(ctx, in.UserID, content); err != nil {
			return nil, err
		}
	}

	return p.svc.Update(ctx, service.UpdateInput{
		ID:           in.ID,
		Content:      in.Content,
		Analysis:     analysis,
		Status:       in.Status,
		ScheduledFor: in.ScheduledFor,
	})
}

// Delete removes a tweet owned by the caller
func (p *Policy) Delete(ctx context.Context, id, userID string) error {
	if _, err := p.Get(ctx, id, userID); err != nil {
		return err
	}
	return p.svc.Delete(ctx, id)
}

// Schedule sets the posting time of a tweet owned by the caller
func (p *Policy) Schedule(ctx context.Context, id, userID string, at time.Time) (*entity.Tweet, error) {
	if _, err := p.Get(ctx, id, userID); err != nil {
		return nil, err
	}
	return p.svc.Schedule(ctx, id, at)
}

// Unschedule moves a tweet owned by the caller back to draft
func (p *Policy) Unschedule(ctx context.Context, id, userID string) (*entity.Tweet, error) {
	if _, err := p.Get(ctx, id, userID); err != nil {
		return nil, err
	}
	return p.svc.Unschedule(ctx, id)
}

// ListInput represents input for listing tweets
type ListInput = service.ListInput

// ListOutput represents output from listing tweets
type ListOutput = service.ListOutput

// List retrieves the caller's tweets
func (p *Policy) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	return p.svc.List(ctx, in)
}

// Upcoming retrieves the caller's scheduled tweets
func (p *Policy) Upcoming(ctx context.Context, userID string, limit int) ([]entity.Tweet, error) {
	return p.svc.Upcoming(ctx, userID, limit)
}

// Statistics aggregates the caller's tweets
func (p *Policy) Statistics(ctx context.Context, userID string) (*entity.Statistics, error) {
	return p.svc.Statistics(ctx, userID)
}

// ProcessScheduledTweets posts every due tweet and returns how many went out.
// This is called by the scheduler.
func (p *Policy) ProcessScheduledTweets(ctx context.Context) (int, error) {
	due, err := p.svc.Due(ctx, p.batch)
	if err != nil {
		return 0, err
	}

	posted := 0
	for i := range due {
		t := &due[i]
		if err := p.poster.Post(ctx, t); err != nil {
			p.logger.Error("failed to post tweet", "tweet_id", t.ID, "error", err)
			continue
		}
		if err := p.svc.MarkPosted(ctx, t.ID); err != nil {
			p.logger.Error("failed to mark tweet posted", "tweet_id", t.ID, "error", err)
			continue
		}
		posted++
	}

	return posted, nil
}

// ExportOutput describes an uploaded export document
type ExportOutput struct {
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	Count      int       `json:"count"`
	ExportedAt time.Time `json:"exported_at"`
}

type exportDocument struct {
	UserID     string         `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Tweets     []entity.Tweet `json:"tweets"`
}

// Export uploads every tweet of a user as one JSON document
func (p *Policy) Export(ctx context.Context, userID string) (*ExportOutput, error) {
	if p.store == nil {
		return nil, entity.ErrExportUnavailable
	}

	var (
		tweets []entity.Tweet
		offset int
	)
	for {
		page, err := p.svc.List(ctx, service.ListInput{UserID: userID, Limit: 100, Offset: offset})
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, page.Tweets...)
		if len(page.Tweets) < 100 {
			break
		}
		offset += len(page.Tweets)
	}

	doc := exportDocument{UserID: userID, ExportedAt: time.Now().UTC(), Tweets: tweets}
	if doc.Tweets == nil {
		doc.Tweets = []entity.Tweet{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}

	out, err := p.store.Upload(ctx, storage.UploadInput{
		Reader:      bytes.NewReader(data),
		ContentType: "application/json",
		Size:        int64(len(data)),
		Filename:    "tweets.json",
		Prefix:      "exports/" + userID,
	})
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		URL:        out.URL,
		Key:        out.Key,
		Count:      len(tweets),
		ExportedAt: doc.ExportedAt,
	}, nil
}
