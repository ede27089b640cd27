package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
	"github.com/vadim/tweetlab/internal/scoring"
)

const tweetColumns = `id, user_id, content, analysis, status, scheduled_for, posted_at, created_at, updated_at`

// TweetPostgres implements TweetRepository for PostgreSQL
type TweetPostgres struct {
	pool *pgxpool.Pool
}

// NewTweetPostgres creates a new PostgreSQL tweet repository
func NewTweetPostgres(pool *pgxpool.Pool) *TweetPostgres {
	return &TweetPostgres{pool: pool}
}

func encodeAnalysis(r *scoring.Result) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis: %w", err)
	}
	return data, nil
}

// Create inserts a new tweet
func (r *TweetPostgres) Create(ctx context.Context, t *entity.Tweet) error {
	analysis, err := encodeAnalysis(t.Analysis)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tweets (id, user_id, content, analysis, status, scheduled_for, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.pool.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Content,
		analysis,
		t.Status,
		t.ScheduledFor,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating tweet: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTweet(row rowScanner) (*entity.Tweet, error) {
	var (
		t        entity.Tweet
		analysis []byte
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Content,
		&analysis,
		&t.Status,
		&t.ScheduledFor,
		&t.PostedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(analysis) > 0 {
		var res scoring.Result
		if err := json.Unmarshal(analysis, &res); err != nil {
			return nil, fmt.Errorf("decoding analysis: %w", err)
		}
		t.Analysis = &res
	}

	return &t, nil
}

// GetByID retrieves a tweet by ID
func (r *TweetPostgres) GetByID(ctx context.Context, id string) (*entity.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets WHERE id = $1`

	t, err := scanTweet(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting tweet: %w", err)
	}

	return t, nil
}

// Update updates an existing tweet
func (r *TweetPostgres) Update(ctx context.Context, t *entity.Tweet) error {
	analysis, err := encodeAnalysis(t.Analysis)
	if err != nil {
		return err
	}

	query := `
		UPDATE tweets
		SET content = $2, analysis = $3, status = $4, scheduled_for = $5, updated_at = $6
		WHERE id = $1
	`

	now := time.Now()
	result, err := r.pool.Exec(ctx, query,
		t.ID,
		t.Content,
		analysis,
		t.Status,
		t.ScheduledFor,
		now,
	)
	if err != nil {
		return fmt.Errorf("updating tweet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrTweetNotFound
	}

	t.UpdatedAt = now
	return nil
}

// Delete removes a tweet
func (r *TweetPostgres) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, "DELETE FROM tweets WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting tweet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrTweetNotFound
	}

	return nil
}

// List retrieves tweets with filtering and pagination
func (r *TweetPostgres) List(ctx context.Context, filter TweetFilter, opts ListOptions) ([]entity.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets WHERE user_id = $1`
	args := []interface{}{filter.UserID}
	argNum := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}

	query += " ORDER BY created_at DESC"

	// Pagination
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, opts.Limit)
		argNum++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, opts.Offset)
	}

	return r.query(ctx, query, args...)
}

func (r *TweetPostgres) query(ctx context.Context, query string, args ...interface{}) ([]entity.Tweet, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tweets: %w", err)
	}
	defer rows.Close()

	tweets := []entity.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tweet: %w", err)
		}
		tweets = append(tweets, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tweets: %w", err)
	}

	return tweets, nil
}

// Count returns the total count of tweets for a user
func (r *TweetPostgres) Count(ctx context.Context, filter TweetFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM tweets WHERE user_id = $1"
	args := []interface{}{filter.UserID}

	if filter.Status != nil {
		query += " AND status = $2"
		args = append(args, *filter.Status)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tweets: %w", err)
	}

	return count, nil
}

// GetUpcoming retrieves scheduled tweets of a user
func (r *TweetPostgres) GetUpcoming(ctx context.Context, userID string, limit int) ([]entity.Tweet, error) {
	query := `
		SELECT ` + tweetColumns + `
		FROM tweets
		WHERE user_id = $1 AND status = 'scheduled'
		ORDER BY scheduled_for ASC
		LIMIT $2
	`
	return r.query(ctx, query, userID, limit)
}

// GetDue retrieves tweets due for posting
func (r *TweetPostgres) GetDue(ctx context.Context, now time.Time, limit int) ([]entity.Tweet, error) {
	query := `
		SELECT ` + tweetColumns + `
		FROM tweets
		WHERE status = 'scheduled' AND scheduled_for <= $1
		ORDER BY scheduled_for ASC
		LIMIT $2
	`
	return r.query(ctx, query, now, limit)
}

// SetPosted marks a tweet as posted
func (r *TweetPostgres) SetPosted(ctx context.Context, id string, postedAt time.Time) error {
	query := `
		UPDATE tweets
		SET status = 'posted', posted_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'scheduled'
	`

	result, err := r.pool.Exec(ctx, query, id, postedAt)
	if err != nil {
		return fmt.Errorf("marking tweet posted: %w", err)
	}

	if result.RowsAffected() == 0 {
		return entity.ErrTweetNotFound
	}

	return nil
}

// GetStatistics aggregates tweet counts per status
func (r *TweetPostgres) GetStatistics(ctx context.Context, userID string) (*entity.Statistics, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'draft'),
			COUNT(*) FILTER (WHERE status = 'scheduled'),
			COUNT(*) FILTER (WHERE status = 'posted'),
			COUNT(*),
			COALESCE(AVG((analysis->>'score')::float) FILTER (WHERE analysis IS NOT NULL), 0)
		FROM tweets
		WHERE user_id = $1
	`

	var stats entity.Statistics
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.DraftCount,
		&stats.ScheduledCount,
		&stats.PostedCount,
		&stats.Total,
		&stats.AverageScore,
	)
	if err != nil {
		return nil, fmt.Errorf("getting statistics: %w", err)
	}

	return &stats, nil
}
