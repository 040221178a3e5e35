// Package handlers implements the six-handler dispatch chain (§4.2): stateless
// translators from a decoded BuildEvent into store writes. None of them ever return an
// error to the stream — a handler failure is logged and counted, never aborts ingest,
// the same posture the original gives handle_event.
package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/metrics"
	"github.com/blade-bes/besd/internal/store"
)

// EventHandler is one stage of the dispatch chain.
type EventHandler interface {
	HandleEvent(ctx context.Context, st store.Store, invocationID string, event *buildeventstream.BuildEvent) error
}

// Chain returns the fixed handler list in dispatch order: buildinfo, progress,
// target, options, buildtoollogs, print_event — mirroring run_bes_grpc's handler
// construction order.
func Chain(logger *slog.Logger) []EventHandler {
	return []EventHandler{
		BuildInfoHandler{},
		ProgressHandler{},
		TargetHandler{},
		OptionsHandler{},
		BuildToolLogsHandler{},
		NewPrintEventHandler(logger),
	}
}

// Dispatch runs event through every handler in chain, logging and counting any error
// without stopping the chain or propagating to the caller.
func Dispatch(ctx context.Context, chain []EventHandler, st store.Store, invocationID string, event *buildeventstream.BuildEvent, logger *slog.Logger) {
	for _, h := range chain {
		if err := h.HandleEvent(ctx, st, invocationID, event); err != nil {
			metrics.MessageHandlerErrorsTotal.Inc()
			logger.Warn("event handler error", "handler", handlerName(h), "invocation_id", invocationID, "error", err)
		}
	}
}

func handlerName(h EventHandler) string {
	switch h.(type) {
	case BuildInfoHandler:
		return "buildinfo"
	case ProgressHandler:
		return "progress"
	case TargetHandler:
		return "target"
	case OptionsHandler:
		return "options"
	case BuildToolLogsHandler:
		return "buildtoollogs"
	case *PrintEventHandler:
		return "print_event"
	default:
		return "unknown"
	}
}

func protoTime(seconds int64, nanos int32) time.Time {
	if seconds == 0 && nanos == 0 {
		return time.Time{}
	}
	return time.Unix(seconds, int64(nanos)).UTC()
}
