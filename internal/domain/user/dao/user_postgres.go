package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/tweetlab/internal/domain/user/entity"
)

const uniqueViolation = "23505"

// UserPostgres implements user and profile storage for PostgreSQL
type UserPostgres struct {
	pool *pgxpool.Pool
}

// NewUserPostgres creates a new PostgreSQL user repository
func NewUserPostgres(pool *pgxpool.Pool) *UserPostgres {
	return &UserPostgres{pool: pool}
}

// Create inserts a user together with an empty profile
func (r *UserPostgres) Create(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at
	`, u.Email, u.PasswordHash, u.Name, now).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return entity.ErrEmailTaken
		}
		return fmt.Errorf("creating user: %w", err)
	}

	if _, err := tx.Exec(ctx, "INSERT INTO profiles (user_id, updated_at) VALUES ($1, $2)", u.ID, now); err != nil {
		return fmt.Errorf("creating profile: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByEmail retrieves a user by email
func (r *UserPostgres) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "WHERE email = $1", email)
}

// GetByID retrieves a user by ID
func (r *UserPostgres) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, "WHERE id = $1", id)
}

func (r *UserPostgres) getOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT id, email, name, password_hash, created_at, updated_at FROM users ` + where

	var u entity.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	return &u, nil
}

// GetProfile retrieves the profile of a user
func (r *UserPostgres) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	query := `
		SELECT user_id, x_username, followers_count, following_count, verified,
		       reputation_score, total_posts, recent_post_count, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p entity.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.XUsername,
		&p.FollowersCount,
		&p.FollowingCount,
		&p.Verified,
		&p.ReputationScore,
		&p.TotalPosts,
		&p.RecentPostCount,
		&p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	return &p, nil
}

// UpsertProfile stores a profile
func (r *UserPostgres) UpsertProfile(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (user_id, x_username, followers_count, following_count, verified,
		                      reputation_score, total_posts, recent_post_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			x_username = EXCLUDED.x_username,
			followers_count = EXCLUDED.followers_count,
			following_count = EXCLUDED.following_count,
			verified = EXCLUDED.verified,
			reputation_score = EXCLUDED.reputation_score,
			total_posts = EXCLUDED.total_posts,
			recent_post_count = EXCLUDED.recent_post_count,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	_, err := r.pool.Exec(ctx, query,
		p.UserID,
		p.XUsername,
		p.FollowersCount,
		p.FollowingCount,
		p.Verified,
		p.ReputationScore,
		p.TotalPosts,
		p.RecentPostCount,
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}

	p.UpdatedAt = now
	return nil
}
