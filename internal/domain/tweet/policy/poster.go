package policy

import (
	"context"
	"log/slog"

	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
)

// LogPoster records due tweets without contacting the network.
// Posting to X is not integrated; the tweet is marked posted after logging.
type LogPoster struct {
	logger *slog.Logger
}

// NewLogPoster creates a logging poster
func NewLogPoster(logger *slog.Logger) *LogPoster {
	return &LogPoster{logger: logger}
}

// Post logs the tweet
func (p *LogPoster) Post(_ context.Context, t *entity.Tweet) error {
	p.logger.Info("tweet due for posting",
		"tweet_id", t.ID,
		"user_id", t.UserID,
		"scheduled_for", t.ScheduledFor,
		"length", len([]rune(t.Content)),
	)
	return nil
}
