package ebay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached indicates the rolling 24-hour Browse API call
// budget is exhausted.
var ErrDailyLimitReached = errors.New("ebay daily api limit reached")

// RateLimiter gates Browse API calls with a token bucket and a rolling
// 24-hour call budget. The window opens on construction and rolls
// forward 24 hours after it expires.
type RateLimiter struct {
	limiter  *rate.Limiter
	maxDaily int64
	nowFunc  func() time.Time

	mu      sync.Mutex
	count   int64
	resetAt time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithLimiterNowFunc overrides the time source for testing.
func WithLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a limiter admitting perSecond calls with the
// given burst, capped at maxDaily calls per rolling 24-hour window.
func NewRateLimiter(
	perSecond float64,
	burst int,
	maxDaily int64,
	opts ...RateLimiterOption,
) *RateLimiter {
	r := &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Wait blocks until the token bucket admits a call or ctx is done. It
// fails fast with ErrDailyLimitReached once the daily budget is spent;
// the budget only counts calls the bucket actually admitted.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.count = 0
		r.resetAt = now.Add(24 * time.Hour)
	}
	if r.count >= r.maxDaily {
		count := r.count
		r.mu.Unlock()
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, count, r.maxDaily)
	}
	r.mu.Unlock()

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	r.mu.Lock()
	r.count++
	r.mu.Unlock()
	return nil
}

// Remaining reports the calls left in the current 24-hour window.
func (r *RateLimiter) Remaining() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if left := r.maxDaily - r.count; left > 0 {
		return left
	}
	return 0
}

// ResetAt reports when the current 24-hour window expires.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}
