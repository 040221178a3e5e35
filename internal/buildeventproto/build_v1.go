package buildeventproto

import "google.golang.org/protobuf/encoding/protowire"

// StreamId identifies one build event stream. BES clients set InvocationId on the
// first message of a stream; subsequent messages on the same stream repeat it.
type StreamId struct {
	InvocationId string `protobuf:"bytes,1,opt,name=invocation_id,json=invocationId,proto3"`
	BuildId      string `protobuf:"bytes,2,opt,name=build_id,json=buildId,proto3"`
}

// Event is the inner payload of an OrderedBuildEvent. Exactly one of BazelEvent or
// ComponentStreamFinished is set; all other upstream variants (InvocationAttemptStarted,
// BuildEnqueued, ...) are out of scope for this ingest server and are represented as the
// zero value when encountered, matching the original's "ignored" handling.
type Event struct {
	BazelEvent             *Any
	ComponentStreamFinished bool
}

// OrderedBuildEvent is the wire envelope carrying a sequence number and the event itself.
type OrderedBuildEvent struct {
	StreamId       *StreamId `protobuf:"bytes,1,opt,name=stream_id,json=streamId,proto3"`
	SequenceNumber int64     `protobuf:"varint,2,opt,name=sequence_number,json=sequenceNumber,proto3"`
	Event          *Event    `protobuf:"bytes,3,opt,name=event,proto3"`
}

type PublishLifecycleEventRequest struct {
	BuildEvent *OrderedBuildEvent `protobuf:"bytes,2,opt,name=build_event,json=buildEvent,proto3"`
}

func (m *PublishLifecycleEventRequest) Reset()         { *m = PublishLifecycleEventRequest{} }
func (m *PublishLifecycleEventRequest) String() string { return "PublishLifecycleEventRequest" }
func (m *PublishLifecycleEventRequest) ProtoMessage()  {}

type PublishBuildToolEventStreamRequest struct {
	OrderedBuildEvent *OrderedBuildEvent `protobuf:"bytes,4,opt,name=ordered_build_event,json=orderedBuildEvent,proto3"`
}

func (m *PublishBuildToolEventStreamRequest) Reset() {
	*m = PublishBuildToolEventStreamRequest{}
}
func (m *PublishBuildToolEventStreamRequest) String() string {
	return "PublishBuildToolEventStreamRequest"
}
func (m *PublishBuildToolEventStreamRequest) ProtoMessage() {}

type PublishBuildToolEventStreamResponse struct {
	StreamId       *StreamId `protobuf:"bytes,1,opt,name=stream_id,json=streamId,proto3"`
	SequenceNumber int64     `protobuf:"varint,2,opt,name=sequence_number,json=sequenceNumber,proto3"`
}

func (m *PublishBuildToolEventStreamResponse) Reset() {
	*m = PublishBuildToolEventStreamResponse{}
}
func (m *PublishBuildToolEventStreamResponse) String() string {
	return "PublishBuildToolEventStreamResponse"
}
func (m *PublishBuildToolEventStreamResponse) ProtoMessage() {}

// --- hand-rolled wire codec ---
//
// Field numbers below follow the public google.devtools.build.v1 proto. Unknown
// fields are skipped, not preserved, since this server never round-trips a message
// back to the client unmodified.

func (m *StreamId) Marshal() ([]byte, error) {
	var b []byte
	if m.InvocationId != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.InvocationId)
	}
	if m.BuildId != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, m.BuildId)
	}
	return b, nil
}

func (m *StreamId) Unmarshal(b []byte) error {
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
			m.InvocationId = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.BuildId = v
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

func marshalNested(fieldNum protowire.Number, msg interface{ Marshal() ([]byte, error) }, b []byte) ([]byte, error) {
	if msg == nil {
		return b, nil
	}
	nested, err := msg.Marshal()
	if err != nil {
		return nil, err
	}
	b = protowire.AppendTag(b, fieldNum, protowire.BytesType)
	b = protowire.AppendBytes(b, nested)
	return b, nil
}

func (m *Event) Marshal() ([]byte, error) {
	var b []byte
	if m.BazelEvent != nil {
		return marshalNested(1, m.BazelEvent, b)
	}
	if m.ComponentStreamFinished {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, nil)
	}
	return b, nil
}

func (m *Event) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			any := &Any{}
			if err := any.Unmarshal(v); err != nil {
				return err
			}
			m.BazelEvent = any
			b = b[n:]
		case 2:
			_, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.ComponentStreamFinished = true
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

func (m *OrderedBuildEvent) Marshal() ([]byte, error) {
	var b []byte
	var err error
	if m.StreamId != nil {
		if b, err = marshalNested(1, m.StreamId, b); err != nil {
			return nil, err
		}
	}
	if m.SequenceNumber != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.SequenceNumber))
	}
	if m.Event != nil {
		if b, err = marshalNested(3, m.Event, b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (m *OrderedBuildEvent) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			sid := &StreamId{}
			if err := sid.Unmarshal(v); err != nil {
				return err
			}
			m.StreamId = sid
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.SequenceNumber = int64(v)
			b = b[n:]
		case 3:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			ev := &Event{}
			if err := ev.Unmarshal(v); err != nil {
				return err
			}
			m.Event = ev
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

func (m *PublishLifecycleEventRequest) Marshal() ([]byte, error) {
	var b []byte
	return marshalNested(2, m.BuildEvent, b)
}

func (m *PublishLifecycleEventRequest) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if num == 2 {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			obe := &OrderedBuildEvent{}
			if err := obe.Unmarshal(v); err != nil {
				return err
			}
			m.BuildEvent = obe
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func (m *PublishBuildToolEventStreamRequest) Marshal() ([]byte, error) {
	var b []byte
	return marshalNested(4, m.OrderedBuildEvent, b)
}

func (m *PublishBuildToolEventStreamRequest) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if num == 4 {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			obe := &OrderedBuildEvent{}
			if err := obe.Unmarshal(v); err != nil {
				return err
			}
			m.OrderedBuildEvent = obe
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

func (m *PublishBuildToolEventStreamResponse) Marshal() ([]byte, error) {
	var b []byte
	var err error
	if m.StreamId != nil {
		if b, err = marshalNested(1, m.StreamId, b); err != nil {
			return nil, err
		}
	}
	if m.SequenceNumber != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.SequenceNumber))
	}
	return b, nil
}

func (m *PublishBuildToolEventStreamResponse) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			sid := &StreamId{}
			if err := sid.Unmarshal(v); err != nil {
				return err
			}
			m.StreamId = sid
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			m.SequenceNumber = int64(v)
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
