package ratelimit

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bedrijfslens/kvk-intel-api/internal/cache"
	"github.com/bedrijfslens/kvk-intel-api/internal/logger"
)

// Config holds the budget for one upstream source
type Config struct {
	MaxRequests int
	Window      time.Duration
}

// Result is the outcome of a limit check
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter implements an exact sliding-window rate limiter per upstream
// source, on the shared store's sorted-set primitives. Scores are request
// timestamps in nanoseconds; each check purges entries older than the
// window before comparing cardinality against the budget. On store failure
// the limiter allows the request (fail-open) and logs a warning.
type Limiter struct {
	store cache.Store
	log   *logger.Logger
	now   func() time.Time
}

// New creates a limiter on the given store
func New(store cache.Store, log *logger.Logger) *Limiter {
	return &Limiter{store: store, log: log, now: time.Now}
}

// SetClock overrides the limiter clock, for tests
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}

// CheckAndReserve checks the source's sliding-window budget and, if allowed,
// reserves a slot for the current request.
func (l *Limiter) CheckAndReserve(ctx context.Context, source string, cfg Config) Result {
	now := l.now()
	key := "ratelimit:" + source
	windowStart := now.Add(-cfg.Window)

	allowAll := Result{Allowed: true, Remaining: cfg.MaxRequests, ResetAt: now.Add(cfg.Window)}

	if _, err := l.store.ZRemRangeByScore(ctx, key, 0, float64(windowStart.UnixNano())); err != nil {
		l.log.Warn().Err(err).Str("bron", source).Msg("rate limiter store onbereikbaar, verzoek toegestaan")
		return allowAll
	}

	count, err := l.store.ZCard(ctx, key)
	if err != nil {
		l.log.Warn().Err(err).Str("bron", source).Msg("rate limiter store onbereikbaar, verzoek toegestaan")
		return allowAll
	}

	if count >= int64(cfg.MaxRequests) {
		return Result{Allowed: false, Remaining: 0, ResetAt: l.resetAt(ctx, key, cfg, now)}
	}

	// Random suffix so two reservations in the same nanosecond stay
	// distinct sorted-set members.
	member := fmt.Sprintf("%d-%04d", now.UnixNano(), rand.Intn(10000))
	if err := l.store.ZAdd(ctx, key, float64(now.UnixNano()), member); err != nil {
		l.log.Warn().Err(err).Str("bron", source).Msg("rate limiter reservering mislukt, verzoek toegestaan")
		return allowAll
	}
	if err := l.store.Expire(ctx, key, cfg.Window+time.Minute); err != nil {
		l.log.Warn().Err(err).Str("bron", source).Msg("rate limiter expiry niet gezet")
	}

	return Result{
		Allowed:   true,
		Remaining: cfg.MaxRequests - int(count) - 1,
		ResetAt:   now.Add(cfg.Window),
	}
}

// resetAt derives when the oldest in-window reservation leaves the window
func (l *Limiter) resetAt(ctx context.Context, key string, cfg Config, now time.Time) time.Time {
	oldest, err := l.store.ZRangeWithScores(ctx, key, 0, 0)
	if err != nil || len(oldest) == 0 {
		return now.Add(cfg.Window)
	}
	return time.Unix(0, int64(oldest[0].Score)).Add(cfg.Window)
}

// RetryAfterSeconds converts a denied result into a whole-second retry hint
func (r Result) RetryAfterSeconds(now time.Time) int {
	seconds := int(r.ResetAt.Sub(now).Seconds()) + 1
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
