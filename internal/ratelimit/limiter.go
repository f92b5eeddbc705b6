package ratelimit

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outbound requests against an exchange's published
// limits. It holds a global limiter for all calls and an optional stricter
// limiter for order placement and cancellation, which exchanges commonly
// cap separately.
type RateLimiter struct {
	global *rate.Limiter
	orders *rate.Limiter

	metrics *Metrics
}

// Metrics tracks statistics about rate limiter usage.
type Metrics struct {
	totalRequests   atomic.Int64
	allowedRequests atomic.Int64
	deniedRequests  atomic.Int64
}

// New creates a RateLimiter allowing the specified number of requests per
// period. Burst is the token bucket depth; a non-positive burst defaults to
// the request count.
func New(requests int, period time.Duration, burst int) *RateLimiter {
	if burst <= 0 {
		burst = requests
	}
	rps := float64(requests) / period.Seconds()
	return &RateLimiter{
		global:  rate.NewLimiter(rate.Limit(rps), burst),
		metrics: &Metrics{},
	}
}

// SetOrdersLimit installs a separate limiter for state-changing calls.
// Order traffic then consumes from both the orders bucket and the global one.
func (r *RateLimiter) SetOrdersLimit(requests int, period time.Duration, burst int) {
	if burst <= 0 {
		burst = requests
	}
	rps := float64(requests) / period.Seconds()
	r.orders = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until the global rate limiter allows a request or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.metrics.totalRequests.Add(1)
	err := r.global.Wait(ctx)
	if err != nil {
		r.metrics.deniedRequests.Add(1)
		return err
	}
	r.metrics.allowedRequests.Add(1)
	return nil
}

// WaitOrders blocks until both the orders limiter and the global limiter
// allow a request, or the context is cancelled. Without a configured orders
// limit it behaves exactly like Wait.
func (r *RateLimiter) WaitOrders(ctx context.Context) error {
	if r.orders == nil {
		return r.Wait(ctx)
	}
	r.metrics.totalRequests.Add(1)
	if err := r.orders.Wait(ctx); err != nil {
		r.metrics.deniedRequests.Add(1)
		return err
	}
	if err := r.global.Wait(ctx); err != nil {
		r.metrics.deniedRequests.Add(1)
		return err
	}
	r.metrics.allowedRequests.Add(1)
	return nil
}

// Allow returns true if the global rate limiter permits a request immediately.
func (r *RateLimiter) Allow() bool {
	r.metrics.totalRequests.Add(1)
	allowed := r.global.Allow()
	if allowed {
		r.metrics.allowedRequests.Add(1)
	} else {
		r.metrics.deniedRequests.Add(1)
	}
	return allowed
}

// SetLimit updates the global rate limit to the specified requests per period.
func (r *RateLimiter) SetLimit(requests int, period time.Duration) {
	rps := float64(requests) / period.Seconds()
	r.global.SetLimit(rate.Limit(rps))
}

// Metrics returns a snapshot of the current rate limiter statistics.
func (r *RateLimiter) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:   r.metrics.totalRequests.Load(),
		AllowedRequests: r.metrics.allowedRequests.Load(),
		DeniedRequests:  r.metrics.deniedRequests.Load(),
	}
}

// MetricsSnapshot is a point-in-time capture of rate limiter statistics.
type MetricsSnapshot struct {
	// TotalRequests is the total number of rate limit checks performed.
	TotalRequests int64
	// AllowedRequests is the number of requests that were allowed.
	AllowedRequests int64
	// DeniedRequests is the number of requests that were denied.
	DeniedRequests int64
}
