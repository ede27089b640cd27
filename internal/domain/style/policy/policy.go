package policy

import (
	"context"
	"log/slog"

	"github.com/vadim/tweetlab/internal/domain/style/entity"
)

// Analyzer summarizes historical posts
type Analyzer interface {
	Analyze(samples []entity.Sample) (*entity.Analysis, error)
}

// Repository persists analyses
type Repository interface {
	Save(ctx context.Context, rec *entity.Record) error
	GetLatest(ctx context.Context, userID string) (*entity.Record, error)
}

// PromptCache caches the latest prompt addition per user
type PromptCache interface {
	Get(ctx context.Context, userID string) (string, bool, error)
	Set(ctx context.Context, userID, prompt string) error
}

// Policy orchestrates style analysis use-cases
type Policy struct {
	analyzer Analyzer
	repo     Repository
	cache    PromptCache
	logger   *slog.Logger
}

// New creates a style policy. cache may be nil.
func New(analyzer Analyzer, repo Repository, cache PromptCache, logger *slog.Logger) *Policy {
	return &Policy{
		analyzer: analyzer,
		repo:     repo,
		cache:    cache,
		logger:   logger,
	}
}

// AnalyzeInput represents a batch of posts to learn from
type AnalyzeInput struct {
	UserID   string // Optional: persist the result for this user
	Username string
	Tweets   []entity.Sample
}

// Analyze computes the style of a batch. For signed-in callers the result is
// stored and cached; storage failures are logged and do not fail the request.
func (p *Policy) Analyze(ctx context.Context, in AnalyzeInput) (*entity.Analysis, error) {
	analysis, err := p.analyzer.Analyze(in.Tweets)
	if err != nil {
		return nil, err
	}

	if in.UserID == "" {
		return analysis, nil
	}

	rec := &entity.Record{
		UserID:     in.UserID,
		Username:   in.Username,
		TweetCount: len(in.Tweets),
		Analysis:   *analysis,
	}
	if err := p.repo.Save(ctx, rec); err != nil {
		p.logger.Error("failed to save style analysis", "user_id", in.UserID, "error", err)
	}
	p.cachePrompt(ctx, in.UserID, analysis.StylePromptAddition)

	return analysis, nil
}

// Latest returns the newest stored analysis of a user
func (p *Policy) Latest(ctx context.Context, userID string) (*entity.Record, error) {
	rec, err := p.repo.GetLatest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, entity.ErrAnalysisNotFound
	}
	return rec, nil
}

// PromptAddition returns the style block for generation prompts of a user.
// An empty string means nothing is known about the user.
func (p *Policy) PromptAddition(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}

	if p.cache != nil {
		prompt, ok, err := p.cache.Get(ctx, userID)
		if err != nil {
			p.logger.Warn("style cache unavailable", "error", err)
		} else if ok {
			return prompt, nil
		}
	}

	rec, err := p.repo.GetLatest(ctx, userID)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}

	p.cachePrompt(ctx, userID, rec.Analysis.StylePromptAddition)
	return rec.Analysis.StylePromptAddition, nil
}

func (p *Policy) cachePrompt(ctx context.Context, userID, prompt string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, userID, prompt); err != nil {
		p.logger.Warn("failed to cache style prompt", "user_id", userID, "error", err)
	}
}
