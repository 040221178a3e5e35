package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/store"
)

func TestChain_OrderAndComposition(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	chain := Chain(logger)
	require.Len(t, chain, 6)

	require.IsType(t, BuildInfoHandler{}, chain[0])
	require.IsType(t, ProgressHandler{}, chain[1])
	require.IsType(t, TargetHandler{}, chain[2])
	require.IsType(t, OptionsHandler{}, chain[3])
	require.IsType(t, BuildToolLogsHandler{}, chain[4])
	require.IsType(t, &PrintEventHandler{}, chain[5])
}

type erroringHandler struct{}

func (erroringHandler) HandleEvent(ctx context.Context, st store.Store, invocationID string, event *buildeventstream.BuildEvent) error {
	return errBoom
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }

func TestDispatch_ContinuesPastHandlerError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fs := newFakeStore()

	chain := []EventHandler{erroringHandler{}, BuildInfoHandler{}}
	require.NoError(t, fs.UpsertShallowInvocation(context.Background(), &store.Invocation{ID: "inv-1"}))

	event := &buildeventstream.BuildEvent{
		Payload: &buildeventstream.Payload{Started: &buildeventstream.Started{Command: "test"}},
	}

	require.NotPanics(t, func() {
		Dispatch(context.Background(), chain, fs, "inv-1", event, logger)
	})

	got, err := fs.GetShallowInvocation(context.Background(), "inv-1")
	require.NoError(t, err)
	require.Equal(t, "test", got.Command)
}

func TestHandlerName(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tests := []struct {
		h    EventHandler
		want string
	}{
		{BuildInfoHandler{}, "buildinfo"},
		{ProgressHandler{}, "progress"},
		{TargetHandler{}, "target"},
		{OptionsHandler{}, "options"},
		{BuildToolLogsHandler{}, "buildtoollogs"},
		{NewPrintEventHandler(logger), "print_event"},
		{erroringHandler{}, "unknown"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, handlerName(tt.h))
	}
}
