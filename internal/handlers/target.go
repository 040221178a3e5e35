package handlers

import (
	"context"
	"time"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/store"
)

// TargetHandler tracks target and test lifecycle: TargetConfigured opens a row,
// TargetCompleted closes it, TestSummary records the outcome — the same three id
// variants target.rs keys its dispatch off of.
type TargetHandler struct{}

func (TargetHandler) HandleEvent(ctx context.Context, st store.Store, invocationID string, event *buildeventstream.BuildEvent) error {
	if event.Id == nil || event.Payload == nil {
		return nil
	}

	switch {
	case event.Id.TargetConfigured != nil && event.Payload.Configured != nil:
		label := event.Id.TargetConfigured.Label
		return st.UpsertTarget(ctx, invocationID, &store.Target{
			Name:   label,
			Status: store.StatusInProgress,
			Kind:   event.Payload.Configured.TargetKind,
			Start:  time.Now().UTC(),
		})

	case event.Id.TargetCompleted != nil && event.Payload.Completed != nil:
		label := event.Id.TargetCompleted.Label
		status := store.StatusFail
		if event.Payload.Completed.Success {
			status = store.StatusSuccess
		}
		return st.UpdateTargetResult(ctx, invocationID, label, status, time.Now().UTC())

	case event.Id.TestSummary != nil && event.Payload.TestSummary != nil:
		label := event.Id.TestSummary.Label
		summary := event.Payload.TestSummary
		status := store.StatusFail
		if summary.OverallStatus == buildeventstream.TestStatusPassed {
			status = store.StatusSuccess
		}
		firstSec, firstNanos := summary.FirstStartSeconds()
		lastSec, lastNanos := summary.LastStopSeconds()
		first := protoTime(firstSec, firstNanos)
		last := protoTime(lastSec, lastNanos)

		var duration time.Duration
		if !first.IsZero() && !last.IsZero() && last.After(first) {
			duration = last.Sub(first)
		}

		_, err := st.UpsertTest(ctx, invocationID, &store.Test{
			Name:     label,
			Status:   status,
			Duration: duration,
			End:      last,
		})
		return err
	}

	return nil
}
