package entity

import (
	"time"
	"unicode/utf16"

	"github.com/vadim/tweetlab/internal/scoring"
)

// Status represents the lifecycle state of a stored tweet
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPosted    Status = "posted"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPosted:
		return true
	}
	return false
}

// Tweet is a saved post with its latest analysis
type Tweet struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Content      string          `json:"content"`
	Analysis     *scoring.Result `json:"analysis"`
	Status       Status          `json:"status"`
	ScheduledFor *time.Time      `json:"scheduled_for,omitempty"`
	PostedAt     *time.Time      `json:"posted_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsEditable returns true if the tweet can still change
func (t *Tweet) IsEditable() bool {
	return t.Status != StatusPosted
}

// IsDue returns true if a scheduled tweet should be posted at now
func (t *Tweet) IsDue(now time.Time) bool {
	return t.Status == StatusScheduled && t.ScheduledFor != nil && !t.ScheduledFor.After(now)
}

// Validate validates the tweet fields
func (t *Tweet) Validate() error {
	if t.UserID == "" {
		return ErrEmptyUserID
	}
	if t.Content == "" {
		return ErrEmptyContent
	}
	if len(utf16.Encode([]rune(t.Content))) > scoring.MaxPostLength {
		return ErrContentTooLong
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
