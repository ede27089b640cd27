package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/tweetlab/internal/domain/generation/entity"
)

// UsagePostgres records LLM usage in PostgreSQL
type UsagePostgres struct {
	pool *pgxpool.Pool
}

// NewUsagePostgres creates a new PostgreSQL usage repository
func NewUsagePostgres(pool *pgxpool.Pool) *UsagePostgres {
	return &UsagePostgres{pool: pool}
}

// Record inserts one usage row. An empty user ID is stored as NULL.
func (r *UsagePostgres) Record(ctx context.Context, u entity.Usage) error {
	var userID *string
	if u.UserID != "" {
		userID = &u.UserID
	}
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO api_usage (user_id, endpoint, tokens_used, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.pool.Exec(ctx, query, userID, u.Endpoint, u.TokensUsed, createdAt); err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

// TokensSince sums tokens used by a user since a point in time
func (r *UsagePostgres) TokensSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(tokens_used), 0)
		FROM api_usage
		WHERE user_id = $1 AND created_at >= $2
	`
	var total int64
	if err := r.pool.QueryRow(ctx, query, userID, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing usage: %w", err)
	}
	return total, nil
}
