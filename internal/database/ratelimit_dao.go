package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// RateLimitWindow is one fixed rate-limit window for a (user, endpoint)
// pair. The counter is only ever mutated through TryIncrement, which is
// a conditional compare-and-increment.
type RateLimitWindow struct {
	ID           types.ID  `json:"id"`
	UserID       string    `json:"user_id"`
	Endpoint     string    `json:"endpoint"`
	WindowStart  time.Time `json:"window_start"`
	RequestCount int       `json:"request_count"`
}

// RateLimitDAO provides database operations for rate limit windows.
type RateLimitDAO interface {
	// Latest returns the most recent window for a (user, endpoint)
	// pair, or nil when none exists.
	Latest(ctx context.Context, userID, endpoint string) (*RateLimitWindow, error)

	// Insert creates a new window with count=1. A UNIQUE constraint on
	// (user, endpoint, window_start) makes concurrent first calls
	// collide instead of double-creating.
	Insert(ctx context.Context, window *RateLimitWindow) error

	// TryIncrement atomically increments the counter only while it is
	// below max. Returns the post-increment count and whether the
	// increment happened. A plain read-then-write would race; the
	// conditional UPDATE is the compare-and-increment.
	TryIncrement(ctx context.Context, id types.ID, max int) (int, bool, error)

	// Get returns a window by ID.
	Get(ctx context.Context, id types.ID) (*RateLimitWindow, error)
}

// rateLimitDAO implements RateLimitDAO.
type rateLimitDAO struct {
	db *DB
}

// NewRateLimitDAO creates a new rate limit DAO.
func NewRateLimitDAO(db *DB) RateLimitDAO {
	return &rateLimitDAO{db: db}
}

// Latest returns the most recent window for a (user, endpoint) pair.
func (d *rateLimitDAO) Latest(ctx context.Context, userID, endpoint string) (*RateLimitWindow, error) {
	query := `
		SELECT id, user_id, endpoint, window_start, request_count
		FROM rate_limit_windows
		WHERE user_id = ? AND endpoint = ?
		ORDER BY window_start DESC
		LIMIT 1
	`

	var window RateLimitWindow
	err := d.db.QueryRowContext(ctx, query, userID, endpoint).Scan(
		&window.ID,
		&window.UserID,
		&window.Endpoint,
		&window.WindowStart,
		&window.RequestCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rate limit window: %w", err)
	}

	return &window, nil
}

// Insert creates a new window with count=1.
func (d *rateLimitDAO) Insert(ctx context.Context, window *RateLimitWindow) error {
	if window.ID == "" {
		window.ID = types.NewID()
	}
	if window.RequestCount == 0 {
		window.RequestCount = 1
	}

	query := `
		INSERT INTO rate_limit_windows (id, user_id, endpoint, window_start, request_count)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := d.db.ExecContext(ctx, query,
		window.ID, window.UserID, window.Endpoint,
		window.WindowStart.UTC(), window.RequestCount)
	if err != nil {
		return fmt.Errorf("failed to insert rate limit window: %w", err)
	}

	return nil
}

// TryIncrement atomically increments the counter only while below max.
func (d *rateLimitDAO) TryIncrement(ctx context.Context, id types.ID, max int) (int, bool, error) {
	query := `
		UPDATE rate_limit_windows
		SET request_count = request_count + 1
		WHERE id = ? AND request_count < ?
	`

	result, err := d.db.ExecContext(ctx, query, id, max)
	if err != nil {
		return 0, false, fmt.Errorf("failed to increment rate limit window: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	window, err := d.Get(ctx, id)
	if err != nil {
		return 0, false, err
	}

	return window.RequestCount, affected == 1, nil
}

// Get returns a window by ID.
func (d *rateLimitDAO) Get(ctx context.Context, id types.ID) (*RateLimitWindow, error) {
	query := `
		SELECT id, user_id, endpoint, window_start, request_count
		FROM rate_limit_windows
		WHERE id = ?
	`

	var window RateLimitWindow
	err := d.db.QueryRowContext(ctx, query, id).Scan(
		&window.ID,
		&window.UserID,
		&window.Endpoint,
		&window.WindowStart,
		&window.RequestCount,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rate limit window not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limit window: %w", err)
	}

	return &window, nil
}
