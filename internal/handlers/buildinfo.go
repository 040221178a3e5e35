package handlers

import (
	"context"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/store"
)

// BuildInfoHandler records the command line and the build's target pattern, the two
// identifying facts the original's buildinfo.rs pulls off the Started payload and the
// Pattern id variant.
type BuildInfoHandler struct{}

func (BuildInfoHandler) HandleEvent(ctx context.Context, st store.Store, invocationID string, event *buildeventstream.BuildEvent) error {
	if event.Payload != nil && event.Payload.Started != nil {
		started := event.Payload.Started
		startTime := protoTime(started.StartSeconds(), started.StartNanos())
		return st.UpdateShallowInvocation(ctx, invocationID, func(inv *store.Invocation) {
			inv.Command = started.Command
			if !startTime.IsZero() {
				inv.Start = startTime
			}
		})
	}

	if event.Id != nil && event.Id.Pattern != nil {
		pattern := event.Id.Pattern.Pattern
		return st.UpdateShallowInvocation(ctx, invocationID, func(inv *store.Invocation) {
			inv.Pattern = pattern
		})
	}

	return nil
}
