package woodpecker

import (
	"fmt"
	"sync"
	"time"

	"github.com/mikey/lead-outreach/internal/core"
)

// DefaultMaxPerMinute is the platform's documented per-key request budget
const DefaultMaxPerMinute = 100

// RateLimiter tracks a rolling per-minute request budget with a fixed window
// that resets once a full minute has elapsed since the first request in it.
// CheckAndConsume never blocks or queues: when the budget is exhausted the
// caller gets a rate_limit APIError carrying the remaining wait, and decides
// what to do with it.
type RateLimiter struct {
	mu           sync.Mutex
	requestCount int
	windowStart  time.Time
	maxPerMinute int

	now func() time.Time
}

// NewRateLimiter creates a limiter with the given budget; zero or negative
// selects DefaultMaxPerMinute.
func NewRateLimiter(maxPerMinute int) *RateLimiter {
	if maxPerMinute <= 0 {
		maxPerMinute = DefaultMaxPerMinute
	}
	return &RateLimiter{
		maxPerMinute: maxPerMinute,
		now:          time.Now,
	}
}

// CheckAndConsume consumes one unit of the budget, or fails with a retryable
// rate_limit error when the window is exhausted.
func (r *RateLimiter) CheckAndConsume() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.windowStart.IsZero() || now.Sub(r.windowStart) >= time.Minute {
		r.requestCount = 0
		r.windowStart = now
	}

	if r.requestCount >= r.maxPerMinute {
		wait := time.Minute - now.Sub(r.windowStart)
		return &core.APIError{
			Message:   fmt.Sprintf("rate limit of %d requests/minute exceeded, retry in %s", r.maxPerMinute, wait.Round(time.Second)),
			Category:  core.ErrorCategoryRateLimit,
			Retryable: true,
		}
	}

	r.requestCount++
	return nil
}

// Count returns the number of requests consumed in the current window
func (r *RateLimiter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.windowStart.IsZero() && r.now().Sub(r.windowStart) >= time.Minute {
		return 0
	}
	return r.requestCount
}

// Remaining returns how much of the current window's budget is left
func (r *RateLimiter) Remaining() int {
	remaining := r.maxPerMinute - r.Count()
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Quota implements core.QuotaReporter
func (r *RateLimiter) Quota() core.QuotaInfo {
	count := r.Count()
	remaining := r.maxPerMinute - count
	if remaining < 0 {
		remaining = 0
	}
	return core.QuotaInfo{
		RequestCount:      count,
		RemainingRequests: remaining,
		MaxPerMinute:      r.maxPerMinute,
	}
}
