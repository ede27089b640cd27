package policy

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/vadim/tweetlab/internal/domain/generation/entity"
	"github.com/vadim/tweetlab/internal/domain/generation/service"
	userentity "github.com/vadim/tweetlab/internal/domain/user/entity"
	"github.com/vadim/tweetlab/internal/scoring"
)

// Usage endpoints
const (
	EndpointTweet  = "tweets/generate"
	EndpointThread = "threads/generate"
)

const usageWindow = 30 * 24 * time.Hour

// TextGenerator produces model completions
type TextGenerator interface {
	Generate(ctx context.Context, p entity.Prompt) (*entity.Completion, error)
}

// Scorer scores post text
type Scorer interface {
	Score(in scoring.Input) *scoring.Result
}

// ProfileProvider returns the stored profile of a user
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (*userentity.Profile, error)
}

// StyleProvider returns the learned style block of a user
type StyleProvider interface {
	PromptAddition(ctx context.Context, userID string) (string, error)
}

// UsageRepository records model usage
type UsageRepository interface {
	Record(ctx context.Context, u entity.Usage) error
	TokensSince(ctx context.Context, userID string, since time.Time) (int64, error)
}

// Policy orchestrates generation use-cases
type Policy struct {
	gen      TextGenerator
	prompts  *service.PromptBuilder
	scorer   Scorer
	profiles ProfileProvider
	styles   StyleProvider
	usage    UsageRepository
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a new generation policy
func New(
	gen TextGenerator,
	prompts *service.PromptBuilder,
	scorer Scorer,
	profiles ProfileProvider,
	styles StyleProvider,
	usage UsageRepository,
	logger *slog.Logger,
) *Policy {
	return &Policy{
		gen:      gen,
		prompts:  prompts,
		scorer:   scorer,
		profiles: profiles,
		styles:   styles,
		usage:    usage,
		logger:   logger,
		now:      time.Now,
	}
}

// GenerateTweet writes one post and scores it in generation mode
func (p *Policy) GenerateTweet(ctx context.Context, userID string, req entity.TweetRequest) (*entity.TweetResult, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, entity.ErrEmptyTopic
	}

	profile, err := p.resolveProfile(ctx, userID, req.Profile)
	if err != nil {
		return nil, err
	}
	req.Profile = profile

	prompt := p.prompts.Tweet(req, p.styleAddition(ctx, userID))
	out, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	p.recordUsage(ctx, userID, EndpointTweet, out.TokensUsed)

	content := service.CleanReply(out.Text)
	return &entity.TweetResult{
		Content: content,
		Analysis: p.scorer.Score(scoring.Input{
			Text:    content,
			Profile: profile.AuthorProfile(),
			Mode:    scoring.ModeGeneration,
		}),
	}, nil
}

// GenerateThread writes a numbered thread and scores each part
func (p *Policy) GenerateThread(ctx context.Context, userID string, req entity.ThreadRequest) (*entity.ThreadResult, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, entity.ErrEmptyTopic
	}
	req = req.WithDefaults()
	if req.TweetCount < entity.MinThreadLength || req.TweetCount > entity.MaxThreadLength {
		return nil, entity.ErrInvalidTweetCount
	}

	profile, err := p.resolveProfile(ctx, userID, req.Profile)
	if err != nil {
		return nil, err
	}

	out, err := p.gen.Generate(ctx, p.prompts.Thread(req, p.styleAddition(ctx, userID)))
	if err != nil {
		return nil, err
	}
	p.recordUsage(ctx, userID, EndpointThread, out.TokensUsed)

	parts := service.ParseThread(out.Text, req.TweetCount)
	res := &entity.ThreadResult{
		Tweets:          parts,
		TotalCharacters: service.TotalCharacters(parts),
		Analyses:        make([]*scoring.Result, 0, len(parts)),
	}
	for _, part := range parts {
		res.Analyses = append(res.Analyses, p.scorer.Score(scoring.Input{
			Text:    part,
			Profile: profile.AuthorProfile(),
			Mode:    scoring.ModeGeneration,
		}))
	}

	return res, nil
}

// Compare scores A/B variants and ranks them by raw score. Ties keep input order.
func (p *Policy) Compare(ctx context.Context, userID string, req entity.CompareRequest) (*entity.CompareResult, error) {
	if len(req.Variants) < entity.MinVariants || len(req.Variants) > entity.MaxVariants {
		return nil, entity.ErrInvalidVariants
	}
	for _, v := range req.Variants {
		if strings.TrimSpace(v) == "" {
			return nil, entity.ErrInvalidVariants
		}
	}

	profile, err := p.resolveProfile(ctx, userID, req.Profile)
	if err != nil {
		return nil, err
	}

	ranked := make([]entity.RankedVariant, len(req.Variants))
	for i, v := range req.Variants {
		ranked[i] = entity.RankedVariant{
			Index:   i,
			Content: v,
			Analysis: p.scorer.Score(scoring.Input{
				Text:    v,
				Profile: profile.AuthorProfile(),
				Mode:    req.Mode,
			}),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Analysis.RawScore > ranked[j].Analysis.RawScore
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return &entity.CompareResult{Winner: ranked[0].Index, Variants: ranked}, nil
}

// UsageSummary reports recent token consumption
type UsageSummary struct {
	Tokens int64     `json:"tokens"`
	Since  time.Time `json:"since"`
}

// Usage sums the tokens a user consumed over the last 30 days
func (p *Policy) Usage(ctx context.Context, userID string) (*UsageSummary, error) {
	since := p.now().Add(-usageWindow)
	total, err := p.usage.TokensSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	return &UsageSummary{Tokens: total, Since: since}, nil
}

// resolveProfile prefers the request profile and falls back to the stored one
func (p *Policy) resolveProfile(ctx context.Context, userID string, given *entity.Profile) (*entity.Profile, error) {
	if given != nil || userID == "" {
		return given, nil
	}

	stored, err := p.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}
	return &entity.Profile{
		Followers:       stored.FollowersCount,
		Following:       stored.FollowingCount,
		Verified:        stored.Verified,
		TotalPosts:      stored.TotalPosts,
		RecentPostCount: stored.RecentPostCount,
		ReputationScore: stored.ReputationScore,
	}, nil
}

func (p *Policy) styleAddition(ctx context.Context, userID string) string {
	if p.styles == nil || userID == "" {
		return ""
	}
	addition, err := p.styles.PromptAddition(ctx, userID)
	if err != nil {
		p.logger.Warn("style lookup failed", "user_id", userID, "error", err)
		return ""
	}
	return addition
}

func (p *Policy) recordUsage(ctx context.Context, userID, endpoint string, tokens int) {
	err := p.usage.Record(ctx, entity.Usage{
		UserID:     userID,
		Endpoint:   endpoint,
		TokensUsed: tokens,
		CreatedAt:  p.now(),
	})
	if err != nil {
		p.logger.Error("failed to record usage", "endpoint", endpoint, "error", err)
	}
}
