package githubapi

import (
	"net/http"
	"strconv"
	"time"
)

// RateLimit represents normalized GitHub quota signals.
type RateLimit struct {
	Limit     int
	Remaining int
	ResetAt   time.Time

	RetryAfter time.Duration
}

// Exhausted reports whether the anonymous quota is spent.
func (r *RateLimit) Exhausted() bool {
	return r != nil && r.Remaining == 0 && r.Limit > 0
}

// NextWait converts the quota signals to a suggested wait duration.
func (r *RateLimit) NextWait(now time.Time) time.Duration {
	if r == nil {
		return 0
	}
	if r.RetryAfter > 0 {
		return r.RetryAfter
	}
	if r.Remaining == 0 && r.ResetAt.After(now) {
		return r.ResetAt.Sub(now)
	}
	return 0
}

func parseRateLimit(h http.Header) *RateLimit {
	rl := &RateLimit{Remaining: -1}
	seen := false

	if v, err := strconv.Atoi(h.Get("X-RateLimit-Limit")); err == nil {
		rl.Limit = v
		seen = true
	}
	if v, err := strconv.Atoi(h.Get("X-RateLimit-Remaining")); err == nil {
		rl.Remaining = v
		seen = true
	}
	if v, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		rl.ResetAt = time.Unix(v, 0)
		seen = true
	}
	if v, err := strconv.Atoi(h.Get("Retry-After")); err == nil {
		rl.RetryAfter = time.Duration(v) * time.Second
		seen = true
	}
	if !seen {
		return nil
	}
	return rl
}
