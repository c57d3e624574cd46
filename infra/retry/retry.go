// Package retry provides the default RetryPolicy implementation, built on
// github.com/hashicorp/go-retryablehttp's backoff math. The teacher has no
// retry dependency of its own; this choice follows the rest of the
// retrieval pack's EVM-adjacent repos, which reach for retryablehttp.
package retry

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/certen/evmscan/infra"
)

// Classifier decides whether a (status, err) pair should be retried.
type Classifier func(status int, err error) bool

// DefaultClassify retries transport errors, HTTP 429, and 5xx responses
// (except 501, which is permanent), matching retryablehttp.DefaultRetryPolicy's
// own status classification.
func DefaultClassify(status int, err error) bool {
	if err != nil {
		return true
	}
	if status == http.StatusTooManyRequests {
		return true
	}
	if status >= 500 && status != http.StatusNotImplemented {
		return true
	}
	return false
}

// Policy is the default infra.RetryPolicy: exponential backoff (via
// retryablehttp.DefaultBackoff) plus jitter, bounded by MaxAttempts.
type Policy struct {
	MaxAttempts int
	MinWait     time.Duration
	MaxWait     time.Duration
	Classify    Classifier

	rng *rand.Rand
}

var _ infra.RetryPolicy = (*Policy)(nil)

// New builds a Policy with the given attempt cap and backoff bounds, using
// DefaultClassify.
func New(maxAttempts int, minWait, maxWait time.Duration) *Policy {
	return &Policy{
		MaxAttempts: maxAttempts,
		MinWait:     minWait,
		MaxWait:     maxWait,
		Classify:    DefaultClassify,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Execute runs op, retrying per Classify with exponential backoff and
// jitter until MaxAttempts is reached or ctx is canceled.
func (p *Policy) Execute(ctx context.Context, op func(ctx context.Context) (status int, body []byte, err error)) (int, []byte, error) {
	var status int
	var body []byte
	var err error

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return status, body, ctxErr
		}

		status, body, err = op(ctx)
		if !p.Classify(status, err) {
			return status, body, err
		}
		if attempt == p.MaxAttempts-1 {
			break
		}

		wait := retryablehttp.DefaultBackoff(p.MinWait, p.MaxWait, attempt, nil)
		wait += time.Duration(p.rng.Int63n(int64(wait/4 + 1)))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return status, body, ctx.Err()
		case <-timer.C:
		}
	}
	return status, body, err
}
