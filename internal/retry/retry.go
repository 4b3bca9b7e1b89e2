// Package retry provides the bounded exponential backoff every outbound
// adapter uses: 3 attempts, base 250ms, cap 2s.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/saan-system/hos-trip-service/internal/apperr"
)

const (
	maxAttempts = 3
	baseDelay   = 250 * time.Millisecond
	capDelay    = 2 * time.Second
)

// Do runs fn up to maxAttempts times with exponential backoff, stopping
// early if fn returns a non-retryable error (an *apperr.Error of kind
// UPSTREAM_INVALID) or if ctx is cancelled.
func Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if ae, ok := apperr.As(err); ok && ae.Kind == apperr.KindUpstreamInvalid {
			return err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > capDelay {
			delay = capDelay
		}
	}
	return lastErr
}
