package handlers

import (
	"encoding/json"
	"log/slog"
	"regexp"
	"sync/atomic"

	"context"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/store"
)

// PrintEventHandler logs the full JSON representation of any event whose payload type
// name matches a configured regex, the same gate print_event.rs applies before paying
// for a full reflective serialization. The regex is shared across every goroutine
// handling a stream, so it is held behind an atomic pointer rather than a mutex — the
// same structure the original's OnceLock<Regex> gives a value set once at startup and
// read on every event afterward.
type PrintEventHandler struct {
	pattern *atomic.Pointer[regexp.Regexp]
	logger  *slog.Logger
}

func NewPrintEventHandler(logger *slog.Logger) *PrintEventHandler {
	h := &PrintEventHandler{pattern: &atomic.Pointer[regexp.Regexp]{}, logger: logger}
	return h
}

// SetPattern installs the regex gating which payload type names get logged. An empty
// or nil pattern disables logging entirely.
func (h *PrintEventHandler) SetPattern(pattern *regexp.Regexp) {
	if pattern != nil && pattern.String() == "" {
		pattern = nil
	}
	h.pattern.Store(pattern)
}

func (h *PrintEventHandler) HandleEvent(ctx context.Context, st store.Store, invocationID string, event *buildeventstream.BuildEvent) error {
	pattern := h.pattern.Load()
	if pattern == nil || event.Payload == nil {
		return nil
	}

	typeName := payloadTypeName(event.Payload)
	if typeName == "" || !pattern.MatchString(typeName) {
		return nil
	}

	encoded, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.logger.Info("build event", "invocation_id", invocationID, "payload_type", typeName, "event", string(encoded))
	return nil
}

func payloadTypeName(p *buildeventstream.Payload) string {
	switch {
	case p.Started != nil:
		return "Started"
	case p.Progress != nil:
		return "Progress"
	case p.Configured != nil:
		return "Configured"
	case p.Completed != nil:
		return "Completed"
	case p.TestSummary != nil:
		return "TestSummary"
	case p.Finished != nil:
		return "Finished"
	case p.UnstructuredCommandLine != nil:
		return "UnstructuredCommandLine"
	case p.OptionsParsed != nil:
		return "OptionsParsed"
	case p.BuildMetadata != nil:
		return "BuildMetadata"
	case p.BuildToolLogs != nil:
		return "BuildToolLogs"
	default:
		return ""
	}
}
