// Package retention implements the control-plane sweeper (§4.5) that deletes
// invocations older than a configured window, on a ticker sized relative to that
// window so a misconfigured long retention period does not sweep needlessly often.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/blade-bes/besd/internal/store"
)

// Sweeper periodically deletes invocations whose start time is at or before
// now-retention.
type Sweeper struct {
	Store     store.Store
	Retention time.Duration
	Logger    *slog.Logger
}

// interval returns the tick period: the lesser of 24h and one seventh of the
// retention window, so a week-long retention period gets swept about daily and a
// day-long one about every three and a half hours.
func (s *Sweeper) interval() time.Duration {
	candidate := s.Retention / 7
	if candidate <= 0 {
		candidate = time.Minute
	}
	if candidate > 24*time.Hour {
		return 24 * time.Hour
	}
	return candidate
}

// Run blocks, sweeping on each tick, until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.Retention)
	n, err := s.Store.DeleteInvocationsSince(ctx, cutoff)
	if err != nil {
		s.Logger.Error("retention sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.Logger.Info("retention sweep deleted invocations", "count", n, "cutoff", cutoff)
	}
}
