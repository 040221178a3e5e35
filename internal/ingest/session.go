// Package ingest implements the session state machine (§4.3) and the gRPC transport
// (§4.4) that drives it: one goroutine per PublishBuildToolEventStream call, reading
// OrderedBuildEvent messages and echoing an ack for each one it accepts.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/blade-bes/besd/internal/store"
)

// unexpectedCleanup closes out an invocation whose stream ended without a Finished
// payload: any invocation still Unknown or InProgress is marked Fail, preserving
// whatever terminal status a Finished payload already set. Named after and behaving
// exactly like the original's unexpected_cleanup_session.
func unexpectedCleanup(ctx context.Context, st store.Store, invocationID string, logger *slog.Logger) {
	now := time.Now().UTC()
	err := st.UpdateShallowInvocation(ctx, invocationID, func(inv *store.Invocation) {
		if inv.Status == store.StatusUnknown || inv.Status == store.StatusInProgress {
			inv.Status = store.StatusFail
		}
		inv.End = &now
	})
	if err != nil {
		logger.Error("error closing stream", "invocation_id", invocationID, "error", err)
	}
}

// sessionResult records the terminal outcome of a build signalled by a Finished
// payload.
func sessionResult(ctx context.Context, st store.Store, invocationID string, success bool, logger *slog.Logger) {
	now := time.Now().UTC()
	err := st.UpdateShallowInvocation(ctx, invocationID, func(inv *store.Invocation) {
		if success {
			inv.Status = store.StatusSuccess
		} else {
			inv.Status = store.StatusFail
		}
		inv.End = &now
	})
	if err != nil {
		logger.Error("error closing stream", "invocation_id", invocationID, "error", err)
	}
}

// sessionLocked reports whether invocationID has already been finalized long enough
// ago (per sessionLockTime) that a reconnecting client should be rejected rather than
// allowed to append more events to a session that is considered closed.
func sessionLocked(ctx context.Context, st store.Store, invocationID string, sessionLockTime time.Duration) (bool, error) {
	inv, err := st.GetShallowInvocation(ctx, invocationID)
	if err != nil {
		// A brand-new invocation has no row yet; that is not a locked session.
		return false, nil
	}
	if inv.End == nil {
		return false, nil
	}
	return time.Since(*inv.End) > sessionLockTime, nil
}

// markStarted marks the start of a session against invocationID: on a brand-new
// invocation it creates the shallow row; on a reconnect, it nudges the existing row
// back to InProgress without disturbing fields the BuildInfo handler has already
// filled in from the Started payload.
func markStarted(ctx context.Context, st store.Store, invocationID string, logger *slog.Logger) {
	_, err := st.GetShallowInvocation(ctx, invocationID)
	if err != nil {
		now := time.Now().UTC()
		if err := st.UpsertShallowInvocation(ctx, &store.Invocation{
			ID:     invocationID,
			Status: store.StatusInProgress,
			Start:  now,
		}); err != nil {
			logger.Error("failed to create invocation", "invocation_id", invocationID, "error", err)
		}
		return
	}

	err = st.UpdateShallowInvocation(ctx, invocationID, func(inv *store.Invocation) {
		inv.Status = store.StatusInProgress
	})
	if err != nil {
		logger.Error("failed to mark invocation in progress", "invocation_id", invocationID, "error", err)
	}
}
