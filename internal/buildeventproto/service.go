package buildeventproto

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// serviceName mirrors the google.devtools.build.v1.PublishBuildEvent gRPC service.
const serviceName = "google.devtools.build.v1.PublishBuildEvent"

// wireMessage is satisfied by every message type in this package and its
// buildeventstream sibling. It replaces google.golang.org/protobuf's ProtoReflect-based
// codec with direct Marshal/Unmarshal methods, the same shape vtprotobuf and
// gogo/protobuf generate for high-throughput services.
type wireMessage interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

type grpcCodec struct{}

func (grpcCodec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("buildeventproto: %T does not implement wireMessage", v)
	}
	return m.Marshal()
}

func (grpcCodec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("buildeventproto: %T does not implement wireMessage", v)
	}
	return m.Unmarshal(data)
}

func (grpcCodec) Name() string { return "proto" }

func init() {
	encoding.RegisterCodec(grpcCodec{})
}

// PublishBuildEventServer is the server API for the PublishBuildEvent service.
type PublishBuildEventServer interface {
	PublishLifecycleEvent(context.Context, *PublishLifecycleEventRequest) (*Empty, error)
	PublishBuildToolEventStream(PublishBuildEvent_PublishBuildToolEventStreamServer) error
}

// PublishBuildEvent_PublishBuildToolEventStreamServer is the server-side stream handle
// for the bidirectional PublishBuildToolEventStream RPC.
type PublishBuildEvent_PublishBuildToolEventStreamServer interface {
	Send(*PublishBuildToolEventStreamResponse) error
	Recv() (*PublishBuildToolEventStreamRequest, error)
	grpc.ServerStream
}

type publishBuildToolEventStreamServer struct {
	grpc.ServerStream
}

func (x *publishBuildToolEventStreamServer) Send(m *PublishBuildToolEventStreamResponse) error {
	return x.ServerStream.SendMsg(m)
}

func (x *publishBuildToolEventStreamServer) Recv() (*PublishBuildToolEventStreamRequest, error) {
	m := new(PublishBuildToolEventStreamRequest)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func publishLifecycleEventHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PublishLifecycleEventRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PublishBuildEventServer).PublishLifecycleEvent(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/PublishLifecycleEvent"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PublishBuildEventServer).PublishLifecycleEvent(ctx, req.(*PublishLifecycleEventRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func publishBuildToolEventStreamHandler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(PublishBuildEventServer).PublishBuildToolEventStream(&publishBuildToolEventStreamServer{stream})
}

// ServiceDesc is the grpc.ServiceDesc for PublishBuildEvent.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PublishBuildEventServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PublishLifecycleEvent",
			Handler:    publishLifecycleEventHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "PublishBuildToolEventStream",
			Handler:       publishBuildToolEventStreamHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "google/devtools/build/v1/publish_build_event.proto",
}

// RegisterPublishBuildEventServer registers srv on s.
func RegisterPublishBuildEventServer(s grpc.ServiceRegistrar, srv PublishBuildEventServer) {
	s.RegisterService(&ServiceDesc, srv)
}
