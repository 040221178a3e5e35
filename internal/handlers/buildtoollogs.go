package handlers

import (
	"context"
	"strings"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/store"
)

// BuildToolLogsHandler records the profile URI, a feature the distilled specification
// omits but the original's buildtoollogs.rs implements: it scans the BuildToolLogs
// payload for the "command.profile.gz" entry and stashes its URI on the invocation so
// callers can fetch the raw profile out-of-band.
type BuildToolLogsHandler struct{}

const profileLogName = "command.profile.gz"

func (BuildToolLogsHandler) HandleEvent(ctx context.Context, st store.Store, invocationID string, event *buildeventstream.BuildEvent) error {
	if event.Payload == nil || event.Payload.BuildToolLogs == nil {
		return nil
	}

	for _, f := range event.Payload.BuildToolLogs.Log {
		if f == nil || !strings.EqualFold(f.Name, profileLogName) {
			continue
		}
		uri := f.Uri
		return st.UpdateShallowInvocation(ctx, invocationID, func(inv *store.Invocation) {
			inv.ProfileURI = &uri
		})
	}
	return nil
}
