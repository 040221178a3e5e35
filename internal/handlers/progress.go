package handlers

import (
	"context"
	"strings"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/store"
)

// ProgressHandler appends stdout/stderr chunks to the invocation's output, one stored
// row per non-empty line, normalizing "\n\r" pairs to "\n" the same way the original's
// progress.rs does before it appends to the in-memory output buffer.
type ProgressHandler struct{}

func (ProgressHandler) HandleEvent(ctx context.Context, st store.Store, invocationID string, event *buildeventstream.BuildEvent) error {
	if event.Payload == nil || event.Payload.Progress == nil {
		return nil
	}
	p := event.Payload.Progress

	var lines []string
	lines = append(lines, splitLines(p.Stdout)...)
	lines = append(lines, splitLines(p.Stderr)...)
	if len(lines) == 0 {
		return nil
	}
	return st.InsertOutputLines(ctx, invocationID, lines)
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	normalized := strings.ReplaceAll(s, "\n\r", "\n")
	parts := strings.Split(normalized, "\n")
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
