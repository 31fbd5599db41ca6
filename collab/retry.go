package collab

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// WithRateLimitRetry runs operation and, if it fails with ErrRateLimited,
// waits delay and retries exactly once. Any other error returns immediately:
// rate limiting is the only failure kind worth a second attempt here, and
// the bound keeps a throttling collaborator from stalling a pipeline stage.
func WithRateLimitRetry(ctx context.Context, operation func() error, delay time.Duration) error {
	err := operation()
	if err == nil || !errors.Is(err, ErrRateLimited) {
		return err
	}

	slog.Debug("collaborator rate limited, retrying once", "delay", delay)

	timer := time.NewTimer(delay)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
	}
	return operation()
}
