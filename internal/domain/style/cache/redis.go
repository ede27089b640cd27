package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tweetlab:style:prompt:"

// PromptCache keeps the latest style prompt addition per user
type PromptCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPromptCache creates a Redis-backed prompt cache
func NewPromptCache(client *redis.Client, ttl time.Duration) *PromptCache {
	return &PromptCache{client: client, ttl: ttl}
}

// Get returns the cached prompt; ok is false on a miss
func (c *PromptCache) Get(ctx context.Context, userID string) (string, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading style cache: %w", err)
	}
	return val, true, nil
}

// Set stores the prompt addition for ttl
func (c *PromptCache) Set(ctx context.Context, userID, prompt string) error {
	if err := c.client.Set(ctx, keyPrefix+userID, prompt, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing style cache: %w", err)
	}
	return nil
}

