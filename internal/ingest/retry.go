package ingest

import (
	"context"
	"log"
	"time"
)

// RetryPolicy bounds how often a unit of work is retried.
type RetryPolicy struct {
	Attempts  int
	Delay     time.Duration
	Retryable func(error) bool
}

// Retry runs fn until it succeeds, fails with a non-retryable error, runs out of
// attempts or ctx is done. It returns the last error.
func Retry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return err
		}
		if attempt == attempts {
			log.Printf("Retry: failed after %d attempts: %v", attempts, err)
			return err
		}
		log.Printf("Retry: attempt %d failed, retrying in %s: %v", attempt, policy.Delay, err)

		timer := time.NewTimer(policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
