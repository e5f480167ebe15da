package strava

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Strava enforces two limits per application: 100 requests per 15 minutes
// and 1000 per day. The server reports both in response headers.

// limitWindow is one rolling rate limit bucket.
type limitWindow struct {
	limit    int
	used     int
	span     time.Duration
	resetsAt time.Time
}

func (w *limitWindow) resetIfDue(now time.Time) {
	if now.After(w.resetsAt) {
		w.used = 0
		w.resetsAt = now.Add(w.span)
	}
}

// RateLimiter paces requests against both Strava rate limit windows and
// keeps a minimum spacing between consecutive calls.
type RateLimiter struct {
	mu          sync.Mutex
	short       limitWindow
	daily       limitWindow
	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter creates a limiter preloaded with Strava's documented
// limits. The actual limits from response headers override these.
func NewRateLimiter() *RateLimiter {
	now := time.Now()
	return &RateLimiter{
		short:       limitWindow{limit: 100, span: 15 * time.Minute, resetsAt: now.Add(15 * time.Minute)},
		daily:       limitWindow{limit: 1000, span: 24 * time.Hour, resetsAt: now.Truncate(24 * time.Hour).Add(24 * time.Hour)},
		minInterval: 150 * time.Millisecond,
	}
}

// Wait blocks until one request can be made without breaching a window.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.short.resetIfDue(now)
	r.daily.resetIfDue(now)

	for _, w := range []*limitWindow{&r.short, &r.daily} {
		if w.used < w.limit {
			continue
		}
		if err := r.sleepLocked(ctx, time.Until(w.resetsAt)); err != nil {
			return err
		}
		w.used = 0
		w.resetsAt = time.Now().Add(w.span)
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleepLocked(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.short.used++
	r.daily.used++
	r.lastRequest = time.Now()
	return nil
}

// sleepLocked releases the mutex while sleeping so header updates from
// in-flight responses still land.
func (r *RateLimiter) sleepLocked(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders syncs usage and limits from a Strava response.
// Headers look like X-RateLimit-Usage: "34,512" (15-minute, daily).
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if short, daily, ok := splitPair(h.Get("X-RateLimit-Usage")); ok {
		r.short.used = short
		r.daily.used = daily
	}
	if short, daily, ok := splitPair(h.Get("X-RateLimit-Limit")); ok {
		r.short.limit = short
		r.daily.limit = daily
	}
}

func splitPair(v string) (int, int, bool) {
	parts := strings.Split(v, ",")
	if len(parts) < 2 {
		return 0, 0, false
	}
	first, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	second, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return first, second, true
}

// Status returns the remaining requests in each window.
func (r *RateLimiter) Status() (shortRemaining, dailyRemaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.short.limit - r.short.used, r.daily.limit - r.daily.used
}
