package handlers

import (
	"context"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/store"
)

// OptionsHandler records every option-carrying payload: unstructured command lines,
// parsed startup/command-line options, and build metadata — the three payloads
// options.rs dispatches to insert_options.
type OptionsHandler struct{}

func (OptionsHandler) HandleEvent(ctx context.Context, st store.Store, invocationID string, event *buildeventstream.BuildEvent) error {
	if event.Payload == nil {
		return nil
	}

	opts := store.NewBuildOptions()
	switch {
	case event.Payload.UnstructuredCommandLine != nil:
		opts.Unstructured = event.Payload.UnstructuredCommandLine.Args

	case event.Payload.OptionsParsed != nil:
		p := event.Payload.OptionsParsed
		opts.Startup = p.StartupOptions
		opts.ExplicitStartup = p.ExplicitStartupOptions
		opts.CmdLine = p.CmdLine
		opts.ExplicitCmdLine = p.ExplicitCmdLine

	case event.Payload.BuildMetadata != nil:
		opts.BuildMetadata = event.Payload.BuildMetadata.Metadata

	default:
		return nil
	}

	return st.InsertOptions(ctx, invocationID, opts)
}
