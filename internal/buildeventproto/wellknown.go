// Package buildeventproto contains hand-maintained message and service types for the
// Build Event Service wire protocol (google.devtools.build.v1) and the nested Bazel
// build_event_stream payload it carries. No generated-code pipeline runs over this
// package; message shapes mirror the .proto definitions closely enough that porting to
// protoc-generated types later is a rename, not a rewrite.
package buildeventproto

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Empty mirrors google.protobuf.Empty.
type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return "{}" }
func (m *Empty) ProtoMessage()  {}

func (m *Empty) Marshal() ([]byte, error) { return nil, nil }
func (m *Empty) Unmarshal([]byte) error   { return nil }

// Any mirrors google.protobuf.Any: a type URL plus the serialized bytes of the
// message it identifies. Callers decode Value themselves once they know, from
// TypeUrl or context, which concrete message it holds.
type Any struct {
	TypeUrl string `protobuf:"bytes,1,opt,name=type_url,json=typeUrl,proto3"`
	Value   []byte `protobuf:"bytes,2,opt,name=value,proto3"`
}

func (m *Any) Reset()         { *m = Any{} }
func (m *Any) String() string { return m.TypeUrl }
func (m *Any) ProtoMessage()  {}

func (m *Any) Marshal() ([]byte, error) {
	var b []byte
	if m.TypeUrl != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.TypeUrl)
	}
	if len(m.Value) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Value)
	}
	return b, nil
}

func (m *Any) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.TypeUrl = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.Value = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

// Timestamp mirrors google.protobuf.Timestamp.
type Timestamp struct {
	Seconds int64 `protobuf:"varint,1,opt,name=seconds,proto3"`
	Nanos   int32 `protobuf:"varint,2,opt,name=nanos,proto3"`
}

func (m *Timestamp) Reset()         { *m = Timestamp{} }
func (m *Timestamp) String() string { return m.AsTime().String() }
func (m *Timestamp) ProtoMessage()  {}

// AsTime converts the timestamp to a time.Time, returning the Unix epoch for any
// negative or out-of-range component rather than propagating an error — this mirrors
// the original implementation's defensive conversion helper.
func (m *Timestamp) AsTime() time.Time {
	if m == nil || m.Seconds < 0 || m.Nanos < 0 {
		return time.Unix(0, 0).UTC()
	}
	return time.Unix(m.Seconds, int64(m.Nanos)).UTC()
}

func TimestampFromTime(t time.Time) *Timestamp {
	return &Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}
