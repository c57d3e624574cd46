// Package ratelimit provides the default RateLimiter implementation, a
// token bucket backed by golang.org/x/time/rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/certen/evmscan/infra"
)

// Limiter is the default infra.RateLimiter. It enforces long-run throughput
// with token-bucket semantics: rate is the sustained requests-per-second
// budget, burst is the number of requests that may fire back-to-back before
// throttling kicks in.
type Limiter struct {
	limiter *rate.Limiter
}

var _ infra.RateLimiter = (*Limiter)(nil)

// New builds a Limiter with the given sustained rate (requests per second)
// and burst capacity.
func New(requestsPerSecond float64, burst int) *Limiter {
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Acquire blocks until a token is available or ctx is canceled.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
