package query

import (
	"context"
	"time"

	"github.com/mmcdole/instrumenta/internal/observability/metrics"
)

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = 30 * time.Second
)

// RetryDelay is the wait before retry number attempt+1: base·2^attempt, capped.
func RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := baseRetryDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

// Attempt describes which try of a retried operation a context belongs to.
type Attempt struct {
	Number int
	Final  bool
}

type attemptKey struct{}

// WithAttempt tags ctx with the attempt being made.
func WithAttempt(ctx context.Context, a Attempt) context.Context {
	return context.WithValue(ctx, attemptKey{}, a)
}

// AttemptFrom returns the attempt ctx was tagged with, if any.
func AttemptFrom(ctx context.Context) (Attempt, bool) {
	a, ok := ctx.Value(attemptKey{}).(Attempt)
	return a, ok
}

// FinalAttempt reports whether a failure on ctx is the last one the caller
// will see. Untagged contexts are always final.
func FinalAttempt(ctx context.Context) bool {
	a, ok := AttemptFrom(ctx)
	return !ok || a.Final
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// retry runs fn until it succeeds or retries are used up. A failure while
// ctx is done is never retried.
func (c *Cache) retry(ctx context.Context, resource string, retries int, fn func(ctx context.Context) error, onFailure func(error)) error {
	if retries < 0 {
		retries = 0
	}
	for attempt := 0; ; attempt++ {
		final := attempt >= retries
		err := fn(WithAttempt(ctx, Attempt{Number: attempt, Final: final}))
		if err == nil {
			return nil
		}
		if final || ctx.Err() != nil {
			return err
		}
		if onFailure != nil {
			onFailure(err)
		}
		delay := c.retryDelay(attempt)
		c.logger.Debug("retrying", "resource", resource, "attempt", attempt+1, "delay", delay, "error", err)
		metrics.IncRetry(resource)
		if serr := c.sleep(ctx, delay); serr != nil {
			return err
		}
	}
}
