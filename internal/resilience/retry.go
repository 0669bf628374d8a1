package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrRetriesExhausted means every attempt either errored or produced a
// result the validator rejected. The caller must escalate; the data in
// hand is suspect.
var ErrRetriesExhausted = errors.New("consistency retries exhausted")

// RetryUntilConsistent invokes op up to maxRetries times and returns the
// first result accept approves. It waits delay between attempts, including
// after an error, as long as retries remain.
func RetryUntilConsistent[T any](ctx context.Context, op func(ctx context.Context) (T, error), accept func(T) bool, maxRetries int, delay time.Duration) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		value, err := op(ctx)
		if err == nil && accept(value) {
			return value, nil
		}
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Int("maxRetries", maxRetries).Msg("Retry attempt failed")
		} else {
			lastErr = fmt.Errorf("attempt %d rejected by validator", attempt)
		}

		if attempt == maxRetries {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, maxRetries, lastErr)
}
