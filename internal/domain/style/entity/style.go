package entity

import (
	"errors"
	"time"
)

// Domain errors for style analysis
var (
	ErrNoTweets         = errors.New("tweets array is required")
	ErrTooManyTweets    = errors.New("at most 200 tweets can be analyzed at once")
	ErrAnalysisNotFound = errors.New("no style analysis found, analyze your tweets first")
)

// MaxSamples caps one analysis batch
const MaxSamples = 200

// Sample is one historical post with its public counters
type Sample struct {
	Text     string `json:"text"`
	Likes    int    `json:"likes,omitempty"`
	Retweets int    `json:"retweets,omitempty"`
	Replies  int    `json:"replies,omitempty"`
	Views    int    `json:"views,omitempty"`
}

// EngagementRate weighs interactions against views. Zero when views are unknown.
func (s Sample) EngagementRate() float64 {
	if s.Views <= 0 {
		return 0
	}
	return (float64(s.Likes) + float64(s.Retweets)*2 + float64(s.Replies)*1.5) / float64(s.Views)
}

// Analysis summarizes the writing style of a batch of posts
type Analysis struct {
	AvgLength              int      `json:"avg_length"`
	AvgLineBreaks          float64  `json:"avg_line_breaks"`
	EmojiFrequency         float64  `json:"emoji_frequency"`
	QuestionFrequency      float64  `json:"question_frequency"`
	HashtagFrequency       float64  `json:"hashtag_frequency"`
	MentionFrequency       float64  `json:"mention_frequency"`
	LinkFrequency          float64  `json:"link_frequency"`
	CommonWords            []string `json:"common_words"`
	CommonEmojis           []string `json:"common_emojis"`
	Tone                   string   `json:"tone"`
	Topics                 []string `json:"topics"`
	AvgEngagementRate      float64  `json:"avg_engagement_rate"`
	BestPerformingPatterns []string `json:"best_performing_patterns"`
	Recommendations        []string `json:"recommendations"`
	StylePromptAddition    string   `json:"style_prompt_addition"`
}

// Record is a persisted analysis of a user
type Record struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	TweetCount int       `json:"tweet_count"`
	Analysis   Analysis  `json:"analysis"`
	CreatedAt  time.Time `json:"created_at"`
}
