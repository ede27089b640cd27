package dao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/tweetlab/internal/domain/style/entity"
)

// StylePostgres stores style analyses in PostgreSQL
type StylePostgres struct {
	pool *pgxpool.Pool
}

// NewStylePostgres creates a new PostgreSQL style repository
func NewStylePostgres(pool *pgxpool.Pool) *StylePostgres {
	return &StylePostgres{pool: pool}
}

// Save inserts an analysis and fills its ID and creation time
func (r *StylePostgres) Save(ctx context.Context, rec *entity.Record) error {
	result, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("encoding style analysis: %w", err)
	}

	query := `
		INSERT INTO style_analyses (user_id, username, tweet_count, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err = r.pool.QueryRow(ctx, query, rec.UserID, rec.Username, rec.TweetCount, result).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving style analysis: %w", err)
	}

	return nil
}

// GetLatest retrieves the newest analysis of a user, nil when none exists
func (r *StylePostgres) GetLatest(ctx context.Context, userID string) (*entity.Record, error) {
	query := `
		SELECT id, user_id, username, tweet_count, result, created_at
		FROM style_analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		rec    entity.Record
		result []byte
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Username,
		&rec.TweetCount,
		&result,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting latest style analysis: %w", err)
	}

	if err := json.Unmarshal(result, &rec.Analysis); err != nil {
		return nil, fmt.Errorf("decoding style analysis: %w", err)
	}

	return &rec, nil
}
