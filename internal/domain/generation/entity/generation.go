package entity

import (
	"errors"
	"time"

	"github.com/vadim/tweetlab/internal/scoring"
)

// Domain errors for generation
var (
	ErrEmptyTopic         = errors.New("topic is required")
	ErrInvalidTweetCount  = errors.New("tweet_count must be between 2 and 25")
	ErrInvalidVariants    = errors.New("between 2 and 5 non-empty variants are required")
	ErrGenerationFailed   = errors.New("AI generation failed")
	ErrGeneratorDisabled  = errors.New("Anthropic API key not configured")
	ErrGeneratorUnhealthy = errors.New("text generation is temporarily unavailable")
)

// Limits of the generation operations
const (
	DefaultThreadLength = 5
	MinThreadLength     = 2
	MaxThreadLength     = 25
	MinVariants         = 2
	MaxVariants         = 5
)

// Profile is the author context used to tailor prompts
type Profile struct {
	Followers       int      `json:"followers"`
	Following       int      `json:"following"`
	Verified        bool     `json:"verified"`
	TotalPosts      int      `json:"total_posts"`
	RecentPostCount int      `json:"recent_post_count"`
	ReputationScore *float64 `json:"reputation_score,omitempty"`
}

// AuthorProfile converts the prompt context into scoring context
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

// TweetRequest describes a tweet to generate
type TweetRequest struct {
	Topic      string   `json:"topic"`
	Style      string   `json:"style"`
	Tone       string   `json:"tone"`
	Length     string   `json:"length"`
	Language   string   `json:"language"`
	IncludeCTA *bool    `json:"include_cta"`
	Profile    *Profile `json:"userProfile,omitempty"`
}

// WithDefaults fills unset fields
func (r TweetRequest) WithDefaults() TweetRequest {
	if r.Style == "" {
		r.Style = "casual"
	}
	if r.Tone == "" {
		r.Tone = "engaging"
	}
	if r.Length == "" {
		r.Length = "medium"
	}
	if r.Language == "" {
		r.Language = "tr"
	}
	if r.IncludeCTA == nil {
		cta := true
		r.IncludeCTA = &cta
	}
	return r
}

// TweetResult is a generated tweet with its generation-mode score
type TweetResult struct {
	Content  string          `json:"content"`
	Analysis *scoring.Result `json:"analysis"`
}

// ThreadRequest describes a thread to generate
type ThreadRequest struct {
	Topic      string   `json:"topic"`
	TweetCount int      `json:"tweet_count"`
	Style      string   `json:"style"`
	Language   string   `json:"language"`
	Profile    *Profile `json:"userProfile,omitempty"`
}

// WithDefaults fills unset fields
func (r ThreadRequest) WithDefaults() ThreadRequest {
	if r.TweetCount == 0 {
		r.TweetCount = DefaultThreadLength
	}
	if r.Style == "" {
		r.Style = "educational"
	}
	if r.Language == "" {
		r.Language = "tr"
	}
	return r
}

// ThreadResult is a generated thread
type ThreadResult struct {
	Tweets          []string          `json:"tweets"`
	TotalCharacters int               `json:"total_characters"`
	Analyses        []*scoring.Result `json:"analyses"`
}

// CompareRequest holds A/B variants
type CompareRequest struct {
	Variants []string     `json:"variants"`
	Mode     scoring.Mode `json:"mode"`
	Profile  *Profile     `json:"userProfile,omitempty"`
}

// RankedVariant is one scored variant
type RankedVariant struct {
	Index    int             `json:"index"`
	Content  string          `json:"content"`
	Rank     int             `json:"rank"`
	Analysis *scoring.Result `json:"analysis"`
}

// CompareResult ranks variants by raw score
type CompareResult struct {
	Winner   int             `json:"winner"`
	Variants []RankedVariant `json:"variants"`
}

// Usage is one recorded LLM call
type Usage struct {
	UserID     string    `json:"user_id,omitempty"`
	Endpoint   string    `json:"endpoint"`
	TokensUsed int       `json:"tokens_used"`
	CreatedAt  time.Time `json:"created_at"`
}

// Prompt is one model call
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature *float64
}

// Completion is the trimmed model reply
type Completion struct {
	Text       string
	TokensUsed int
}
