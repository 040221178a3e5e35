package eventmirror

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNoopPublisher_DoesNothing(t *testing.T) {
	var p Publisher = NoopPublisher{}
	event := &buildeventstream.BuildEvent{Payload: &buildeventstream.Payload{Started: &buildeventstream.Started{Command: "build"}}}

	require.NotPanics(t, func() {
		p.Publish(context.Background(), "inv-1", event)
	})
	require.NoError(t, p.Close())
}

func TestNewKafkaPublisher_DialsNothingUpFront(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "bes-events", discardLogger())
	require.NotNil(t, p)
	require.NotNil(t, p.writer)
	require.Equal(t, "bes-events", p.writer.Topic)
}

func TestKafkaPublisher_PublishSwallowsBrokerErrors(t *testing.T) {
	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "bes-events", discardLogger())
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	event := &buildeventstream.BuildEvent{Payload: &buildeventstream.Payload{Started: &buildeventstream.Started{Command: "build"}}}
	require.NotPanics(t, func() {
		p.Publish(ctx, "inv-1", event)
	})
}

var _ Publisher = (*KafkaPublisher)(nil)
