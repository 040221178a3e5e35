// Package dbexec wraps store calls with the metrics the original's exec.rs attaches to
// every spawn_blocking dispatch: an inflight gauge, a duration histogram, and a total
// counter split between individual and grouped operations. Go's database/sql pool has
// no equivalent of that separate blocking thread pool — queries already run on the
// calling goroutine — so this package exists purely to preserve the observability
// surface, not to change how the call is scheduled.
package dbexec

import (
	"context"
	"time"

	"github.com/blade-bes/besd/internal/metrics"
)

// Run executes fn, recording it as a single ungrouped store operation.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	metrics.DBBlockingInflight.Inc()
	defer metrics.DBBlockingInflight.Dec()
	start := time.Now()

	result, err := fn(ctx)

	metrics.DBExecDuration.Observe(time.Since(start).Seconds())
	metrics.DBExecTotal.Inc()
	return result, err
}

// RunErr is Run for operations with no result value.
func RunErr(ctx context.Context, fn func(context.Context) error) error {
	_, err := Run(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Group executes fn, recording it as a grouped operation: several statements that
// logically belong to one caller-level unit of work, such as assembling a full
// invocation from several queries.
func Group[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	metrics.DBBlockingInflight.Inc()
	defer metrics.DBBlockingInflight.Dec()
	start := time.Now()

	result, err := fn(ctx)

	metrics.DBExecDuration.Observe(time.Since(start).Seconds())
	metrics.DBExecGroupedTotal.Inc()
	return result, err
}
