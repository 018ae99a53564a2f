package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/luminabooks/bookadmin/internal/metrics"
)

// retry calls fn up to opts.LoadAttempts times, doubling the delay between
// attempts. It stops early when ctx is done.
func retry[T any](ctx context.Context, opts Options, operation string, fn func(context.Context) (T, error)) (T, error) {
	backoff := opts.LoadBackoff
	var zero T
	var lastErr error
	for attempt := 1; attempt <= opts.LoadAttempts; attempt++ {
		began := time.Now()
		result, err := fn(ctx)
		metrics.ObserveStore(operation, began, err)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if attempt == opts.LoadAttempts || ctx.Err() != nil {
			break
		}

		slog.Warn("Catalog request failed, retrying", "operation", operation, "attempt", attempt, "backoff", backoff, "err", err)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
		backoff *= 2
	}
	return zero, lastErr
}
