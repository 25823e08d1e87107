// Package ratelimit enforces per-(user, endpoint) fixed-window request
// limits backed by the persistence store. Window counters are only
// mutated through a conditional compare-and-increment, so concurrent
// callers can never both observe "allowed" past the limit.
package ratelimit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ChanduRT/recon-bot-ai-sub000/internal/database"
	"github.com/ChanduRT/recon-bot-ai-sub000/internal/types"
)

// EndpointLimit is the statically configured limit for one endpoint.
type EndpointLimit struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// Decision is the outcome of one gated call.
type Decision struct {
	Allowed       bool      `json:"allowed"`
	Remaining     int       `json:"remaining"`
	Limit         int       `json:"limit"`
	WindowMinutes int       `json:"window_minutes"`
	ResetAt       time.Time `json:"reset_at"`
}

// Limiter gates calls into the orchestrator and planner.
type Limiter struct {
	dao    database.RateLimitDAO
	limits map[string]EndpointLimit
	logger *slog.Logger
	now    func() time.Time
}

// NewLimiter creates a limiter over the given store and static limits.
func NewLimiter(dao database.RateLimitDAO, limits map[string]EndpointLimit, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Limiter{
		dao:    dao,
		limits: limits,
		logger: logger,
		now:    time.Now,
	}
}

// CheckAndIncrement records one request against the (user, endpoint)
// window and reports whether it is allowed. Endpoints with no
// configured limit always pass. When the backing store errors the
// limiter fails closed: the request is denied and the error surfaced.
func (l *Limiter) CheckAndIncrement(ctx context.Context, userID, endpoint string) (*Decision, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, types.NewError(types.VALIDATION_FAILED, "user id is required")
	}

	limit, configured := l.limits[endpoint]
	if !configured || limit.MaxRequests <= 0 {
		return &Decision{Allowed: true, Remaining: -1}, nil
	}

	window := time.Duration(limit.WindowMinutes) * time.Minute
	now := l.now().UTC()

	// Windows are aligned to the window boundary, not to the first
	// request. Concurrent first calls then compute the same
	// window_start and collide on the UNIQUE key instead of creating
	// sibling windows that each admit a full quota.
	windowStart := now.Truncate(window)

	current, err := l.dao.Latest(ctx, userID, endpoint)
	if err != nil {
		return l.denyOnStoreError(endpoint, err)
	}

	// No row for the current window yet: open it with this request
	// already counted.
	if current == nil || current.WindowStart.Before(windowStart) {
		fresh := &database.RateLimitWindow{
			UserID:       userID,
			Endpoint:     endpoint,
			WindowStart:  windowStart,
			RequestCount: 1,
		}
		insErr := l.dao.Insert(ctx, fresh)
		if insErr == nil {
			return &Decision{
				Allowed:       true,
				Remaining:     limit.MaxRequests - 1,
				Limit:         limit.MaxRequests,
				WindowMinutes: limit.WindowMinutes,
				ResetAt:       windowStart.Add(window),
			}, nil
		}

		// Either a concurrent caller created the window first, or the
		// store is down. Re-read; only a row for the current window can
		// absorb this request on the increment path.
		current, err = l.dao.Latest(ctx, userID, endpoint)
		if err != nil || current == nil || current.WindowStart.Before(windowStart) {
			if err == nil {
				err = insErr
			}
			return l.denyOnStoreError(endpoint, err)
		}
	}

	resetAt := current.WindowStart.Add(window)

	count, incremented, err := l.dao.TryIncrement(ctx, current.ID, limit.MaxRequests)
	if err != nil {
		return l.denyOnStoreError(endpoint, err)
	}

	if !incremented {
		return &Decision{
			Allowed:       false,
			Remaining:     0,
			Limit:         limit.MaxRequests,
			WindowMinutes: limit.WindowMinutes,
			ResetAt:       resetAt,
		}, types.NewError(types.RATE_LIMIT_EXCEEDED, "rate limit exceeded for "+endpoint)
	}

	remaining := limit.MaxRequests - count
	if remaining < 0 {
		remaining = 0
	}

	return &Decision{
		Allowed:       true,
		Remaining:     remaining,
		Limit:         limit.MaxRequests,
		WindowMinutes: limit.WindowMinutes,
		ResetAt:       resetAt,
	}, nil
}

// denyOnStoreError is the fail-closed path: store trouble denies the
// request rather than waving traffic through unmetered.
func (l *Limiter) denyOnStoreError(endpoint string, cause error) (*Decision, error) {
	l.logger.Error("rate limit store error, failing closed", "endpoint", endpoint, "error", cause)
	return &Decision{Allowed: false},
		types.WrapError(types.RATE_LIMIT_STORE_ERROR, "rate limit store unavailable", cause)
}
