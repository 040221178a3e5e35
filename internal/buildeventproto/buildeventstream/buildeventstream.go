// Package buildeventstream is a hand-maintained rendering of the subset of Bazel's
// build_event_stream.proto that this ingest server actually interprets. Bazel's real
// schema carries dozens of payload and id variants; only the ones named in the handler
// chain (buildinfo, progress, target, options, buildtoollogs) and the session's
// Finished check are modeled here. Anything else decodes to a BuildEvent whose Id and
// Payload have none of their modeled fields set, which every handler treats as a
// no-op, mirroring the original's `_ => {}` catch-alls.
package buildeventstream

import "google.golang.org/protobuf/encoding/protowire"

// TestStatus mirrors the subset of build_event_stream.TestStatus this server cares about.
type TestStatus int32

const (
	TestStatusUnknown TestStatus = 0
	TestStatusPassed  TestStatus = 1
	TestStatusFailed  TestStatus = 3
)

// BuildEventId identifies which logical entity a BuildEvent describes. Only the three
// id variants the Target handler keys off of are modeled; Pattern is used by BuildInfo.
type BuildEventId struct {
	TargetConfigured *TargetConfiguredId
	TargetCompleted  *TargetCompletedId
	TestSummary      *TestSummaryId
	Pattern          *PatternId
}

type TargetConfiguredId struct{ Label string }
type TargetCompletedId struct{ Label string }
type TestSummaryId struct{ Label string }
type PatternId struct{ Pattern []string }

// Started corresponds to build_event_stream.BuildStarted.
type Started struct {
	Uuid      string
	StartTime *wireTimestamp
	Command   string
}

// Progress corresponds to build_event_stream.Progress.
type Progress struct {
	Stdout string
	Stderr string
}

// Configured corresponds to build_event_stream.TargetConfigured.
type Configured struct {
	TargetKind string
}

// Completed corresponds to build_event_stream.TargetComplete.
type Completed struct {
	Success bool
}

// TestSummary corresponds to build_event_stream.TestSummary.
type TestSummary struct {
	OverallStatus   TestStatus
	FirstStartTime  *wireTimestamp
	LastStopTime    *wireTimestamp
}

// ExitCode corresponds to build_event_stream.BuildFinished.ExitCode.
type ExitCode struct {
	Name string
	Code int32
}

// Finished corresponds to build_event_stream.BuildFinished.
type Finished struct {
	ExitCode *ExitCode
}

// UnstructuredCommandLine corresponds to build_event_stream.UnstructuredCommandLine.
type UnstructuredCommandLine struct {
	Args []string
}

// OptionsParsed corresponds to build_event_stream.OptionsParsed.
type OptionsParsed struct {
	StartupOptions         []string
	ExplicitStartupOptions []string
	CmdLine                []string
	ExplicitCmdLine        []string
}

// BuildMetadata corresponds to build_event_stream.BuildMetadata.
type BuildMetadata struct {
	Metadata map[string]string
}

// File corresponds to build_event_stream.File; only the Uri variant is modeled.
type File struct {
	Name string
	Uri  string
}

// BuildToolLogs corresponds to build_event_stream.BuildToolLogs.
type BuildToolLogs struct {
	Log []*File
}

// Payload is the sealed set of BuildEvent payload variants this server interprets.
// Exactly zero or one field is non-nil on any decoded BuildEvent.
type Payload struct {
	Started                 *Started
	Progress                *Progress
	Configured               *Configured
	Completed                *Completed
	TestSummary              *TestSummary
	Finished                 *Finished
	UnstructuredCommandLine  *UnstructuredCommandLine
	OptionsParsed            *OptionsParsed
	BuildMetadata            *BuildMetadata
	BuildToolLogs            *BuildToolLogs
}

// BuildEvent mirrors build_event_stream.BuildEvent: an id plus one payload variant.
// LastMessage is true on the final event of the stream when the client sets it
// explicitly (as opposed to signalling completion via ComponentStreamFinished at the
// v1 envelope level).
type BuildEvent struct {
	Id          *BuildEventId
	Payload     *Payload
	LastMessage bool
}

// wireTimestamp is a minimal local stand-in for google.protobuf.Timestamp so this
// package has no import-cycle dependency back on the outer buildeventproto package.
type wireTimestamp struct {
	Seconds int64
	Nanos   int32
}

func (t *wireTimestamp) marshal(fieldNum protowire.Number, b []byte) []byte {
	if t == nil {
		return b
	}
	var nested []byte
	if t.Seconds != 0 {
		nested = protowire.AppendTag(nested, 1, protowire.VarintType)
		nested = protowire.AppendVarint(nested, uint64(t.Seconds))
	}
	if t.Nanos != 0 {
		nested = protowire.AppendTag(nested, 2, protowire.VarintType)
		nested = protowire.AppendVarint(nested, uint64(t.Nanos))
	}
	b = protowire.AppendTag(b, fieldNum, protowire.BytesType)
	return protowire.AppendBytes(b, nested)
}

func unmarshalTimestamp(b []byte) (*wireTimestamp, error) {
	t := &wireTimestamp{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			t.Seconds = int64(v)
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			t.Nanos = int32(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return t, nil
}

// Seconds/Nanos accessors keep the handler packages from reaching into the unexported
// wireTimestamp type directly.
func (s *Started) StartSeconds() int64 {
	if s == nil || s.StartTime == nil {
		return 0
	}
	return s.StartTime.Seconds
}

func (s *Started) StartNanos() int32 {
	if s == nil || s.StartTime == nil {
		return 0
	}
	return s.StartTime.Nanos
}

func (t *TestSummary) FirstStartSeconds() (int64, int32) {
	if t == nil || t.FirstStartTime == nil {
		return 0, 0
	}
	return t.FirstStartTime.Seconds, t.FirstStartTime.Nanos
}

func (t *TestSummary) LastStopSeconds() (int64, int32) {
	if t == nil || t.LastStopTime == nil {
		return 0, 0
	}
	return t.LastStopTime.Seconds, t.LastStopTime.Nanos
}
