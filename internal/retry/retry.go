// internal/retry/retry.go
// Package retry provides the bounded retry combinator used for generation
// calls and bootstrap connections.
package retry

import (
	"context"
	"time"
)

// Policy bounds one retry loop. Backoff between attempts is pure
// exponential: base, 2*base, 4*base, ... with no jitter.
type Policy struct {
	MaxAttempts int
	BackoffBase time.Duration
	// Retryable decides whether a failed attempt is worth another try.
	// A nil predicate retries every error.
	Retryable func(error) bool
}

// BackoffFor returns the wait before the given retry (attempt is 1-based;
// the wait precedes attempt+1).
func (p Policy) BackoffFor(attempt int) time.Duration {
	return p.BackoffBase * time.Duration(1<<(attempt-1))
}

// Do runs fn up to MaxAttempts times, sleeping the exponential backoff
// between attempts and aborting early when ctx is done or the error is not
// retryable. It returns nil on the first success, otherwise the last error.
// The attempts callback, when set, observes every failed attempt.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error, onAttempt func(attempt int, elapsed time.Duration, err error)) error {
	var lastErr error
	start := time.Now()

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := fn(ctx)
		if onAttempt != nil {
			onAttempt(attempt, time.Since(start), err)
		}
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return lastErr
		}
		if attempt == p.MaxAttempts {
			break
		}

		select {
		case <-time.After(p.BackoffFor(attempt)):
		case <-ctx.Done():
			return lastErr
		}
	}

	return lastErr
}
