// Package infra defines the injectable ports this module consumes — HTTP
// transport, rate limiting, retry policy, response caching, and telemetry —
// plus their production implementations in the infra/http, infra/ratelimit,
// infra/retry, infra/cache, and infra/telemetry subpackages. None of these
// interfaces know about providers or chains; they are generic collaborators.
package infra

import (
	"context"
	"time"
)

// HTTPDoer is the minimal HTTP transport port. It MUST surface transport
// errors (DNS, TCP, TLS, I/O) distinctly from HTTP error statuses: a non-nil
// err means the request never completed; a completed request with a 4xx/5xx
// status returns that status with err == nil.
type HTTPDoer interface {
	Do(ctx context.Context, method, url string, headers map[string]string, body []byte) (status int, respBody []byte, err error)
}

// RateLimiter blocks the caller until a token is available or ctx is
// canceled. Implementations enforce long-run throughput (token-bucket
// semantics with a configured rate and burst).
type RateLimiter interface {
	Acquire(ctx context.Context) error
}

// RetryPolicy wraps an outbound HTTP call with retry/backoff. The default
// classifier retries on HTTP 429, 5xx, and transport errors with exponential
// backoff plus jitter, and respects a max-attempts cap.
type RetryPolicy interface {
	Execute(ctx context.Context, op func(ctx context.Context) (status int, body []byte, err error)) (status int, body []byte, err error)
}

// Cache is a byte-oriented response cache. Absence and errors are both
// treated as a miss by callers; implementations MUST serialize writers per
// key while allowing concurrent readers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Event is one structured telemetry record emitted around a call.
type Event struct {
	Name       string
	Provider   string
	ChainID    uint64
	ChainName  string
	Method     string
	Outcome    string // "ok", "error", "canceled"
	DurationMS int64
	StatusCode int
	Err        error
}

// Telemetry emits structured events with a stable schema.
type Telemetry interface {
	Emit(ctx context.Context, evt Event)
}

// Ports bundles every port a Client needs. HTTP and Retry are required by
// the built-in adapters, which call them without a nil check. RateLimiter,
// Cache, and Telemetry are optional: a nil RateLimiter skips rate limiting,
// a nil Cache disables caching, and a nil Telemetry emits no events.
type Ports struct {
	HTTP        HTTPDoer
	RateLimiter RateLimiter
	Retry       RetryPolicy
	Cache       Cache // optional
	Telemetry   Telemetry
}
