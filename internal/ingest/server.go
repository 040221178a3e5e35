package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/blade-bes/besd/internal/buildeventproto"
	"github.com/blade-bes/besd/internal/buildeventproto/buildeventstream"
	"github.com/blade-bes/besd/internal/eventmirror"
	"github.com/blade-bes/besd/internal/handlers"
	"github.com/blade-bes/besd/internal/metrics"
	"github.com/blade-bes/besd/internal/store"
)

// Server implements buildeventproto.PublishBuildEventServer, dispatching decoded
// BazelEvent payloads through the handler chain and driving the session lifecycle.
type Server struct {
	Store           store.Store
	Handlers        []handlers.EventHandler
	Mirror          eventmirror.Publisher
	SessionLockTime time.Duration
	Logger          *slog.Logger
}

var _ buildeventproto.PublishBuildEventServer = (*Server)(nil)

// PublishLifecycleEvent is intentionally a no-op: lifecycle events (BuildEnqueued,
// InvocationAttemptStarted, ...) carry no information this server persists, matching
// the original's unconditional Empty{} response.
func (s *Server) PublishLifecycleEvent(ctx context.Context, req *buildeventproto.PublishLifecycleEventRequest) (*buildeventproto.Empty, error) {
	return &buildeventproto.Empty{}, nil
}

func (s *Server) PublishBuildToolEventStream(stream buildeventproto.PublishBuildEvent_PublishBuildToolEventStreamServer) error {
	metrics.StreamsTotal.Inc()
	metrics.ActiveStreams.Inc()
	defer metrics.ActiveStreams.Dec()

	ctx := stream.Context()
	sessionUUID := ""

	recordErr := func(code codes.Code) {
		metrics.StreamErrorsTotal.WithLabelValues(code.String()).Inc()
	}

	for {
		req, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if sessionUUID != "" {
					unexpectedCleanup(ctx, s.Store, sessionUUID, s.Logger)
				}
				return nil
			}
			if sessionUUID != "" {
				if isBrokenPipe(err) {
					s.Logger.Warn("client closed stream, closing session", "invocation_id", sessionUUID)
					recordErr(codes.Aborted)
				} else {
					s.Logger.Error("stream recv error", "invocation_id", sessionUUID, "error", err)
					recordErr(status.Code(err))
				}
				unexpectedCleanup(ctx, s.Store, sessionUUID, s.Logger)
			}
			return err
		}

		obe := req.OrderedBuildEvent
		if obe == nil {
			recordErr(codes.InvalidArgument)
			return status.Error(codes.InvalidArgument, "empty OrderedBuildEvent")
		}
		if obe.StreamId == nil || obe.StreamId.InvocationId == "" {
			s.Logger.Warn("missing stream id")
			recordErr(codes.InvalidArgument)
			return status.Error(codes.InvalidArgument, "missing stream id")
		}
		invocationID := obe.StreamId.InvocationId

		if sessionUUID == "" {
			sessionUUID = invocationID
			s.Logger.Info("stream started", "invocation_id", sessionUUID)

			locked, err := sessionLocked(ctx, s.Store, sessionUUID, s.SessionLockTime)
			if err == nil && locked {
				s.Logger.Warn("session already ended", "invocation_id", sessionUUID)
				recordErr(codes.FailedPrecondition)
				return status.Error(codes.FailedPrecondition, "session already ended")
			}

			markStarted(ctx, s.Store, sessionUUID, s.Logger)
		}

		if err := s.Store.UpdateInvocationHeartbeat(ctx, invocationID); err != nil {
			s.Logger.Error("failed to update heartbeat", "invocation_id", invocationID, "error", err)
		}

		buildEnded := false
		if obe.Event != nil {
			switch {
			case obe.Event.BazelEvent != nil:
				be := &buildeventstream.BuildEvent{}
				if err := be.Unmarshal(obe.Event.BazelEvent.Value); err != nil {
					unexpectedCleanup(ctx, s.Store, invocationID, s.Logger)
					s.Logger.Error("invalid event", "invocation_id", invocationID, "error", err)
					recordErr(codes.InvalidArgument)
					return status.Errorf(codes.InvalidArgument, "invalid event: %v", err)
				}

				if be.Payload != nil && be.Payload.Finished != nil {
					success := be.Payload.Finished.ExitCode != nil && be.Payload.Finished.ExitCode.Code == 0
					sessionResult(ctx, s.Store, invocationID, success, s.Logger)
					if !success {
						recordErr(codes.Unknown)
					}
				} else {
					handlers.Dispatch(ctx, s.Handlers, s.Store, invocationID, be, s.Logger)
				}

				if s.Mirror != nil {
					s.Mirror.Publish(ctx, invocationID, be)
				}

			case obe.Event.ComponentStreamFinished:
				buildEnded = true
			}
		}

		sendErr := stream.Send(&buildeventproto.PublishBuildToolEventStreamResponse{
			StreamId:       obe.StreamId,
			SequenceNumber: obe.SequenceNumber,
		})
		if sendErr != nil {
			s.Logger.Warn("failed to send ack", "invocation_id", invocationID, "error", sendErr)
		}

		if buildEnded || sendErr != nil {
			s.Logger.Info("build over", "invocation_id", invocationID)
			return nil
		}
	}
}

func isBrokenPipe(err error) bool {
	return strings.Contains(err.Error(), "broken pipe") || strings.Contains(err.Error(), "stream closed")
}
