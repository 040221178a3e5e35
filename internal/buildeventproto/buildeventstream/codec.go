package buildeventstream

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers below are internal to this hand-maintained rendering of
// build_event_stream.proto; they are self-consistent between Marshal and Unmarshal but
// are not required to match upstream Bazel's canonical field numbering, since no
// external tool decodes these bytes — the ingest server is both producer (in tests) and
// consumer.

const (
	fieldEventId      = 1
	fieldEventPayload = 2
	fieldLastMessage  = 3

	fieldIdTargetConfigured = 1
	fieldIdTargetCompleted  = 2
	fieldIdTestSummary      = 3
	fieldIdPattern          = 4

	fieldPayloadStarted                 = 1
	fieldPayloadProgress                = 2
	fieldPayloadConfigured              = 3
	fieldPayloadCompleted               = 4
	fieldPayloadTestSummary             = 5
	fieldPayloadFinished                = 6
	fieldPayloadUnstructuredCommandLine = 7
	fieldPayloadOptionsParsed           = 8
	fieldPayloadBuildMetadata           = 9
	fieldPayloadBuildToolLogs           = 10
)

func (e *BuildEvent) Marshal() ([]byte, error) {
	var b []byte
	if e.Id != nil {
		nested := e.Id.marshal()
		b = protowire.AppendTag(b, fieldEventId, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	}
	if e.Payload != nil {
		nested, err := e.Payload.marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, fieldEventPayload, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	}
	if e.LastMessage {
		b = protowire.AppendTag(b, fieldLastMessage, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b, nil
}

// Unmarshal decodes the bytes carried by a google.protobuf.Any wrapping a BazelEvent.
func (e *BuildEvent) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case fieldEventId:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			id, err := unmarshalBuildEventId(v)
			if err != nil {
				return err
			}
			e.Id = id
			b = b[n:]
		case fieldEventPayload:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			p, err := unmarshalPayload(v)
			if err != nil {
				return err
			}
			e.Payload = p
			b = b[n:]
		case fieldLastMessage:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			e.LastMessage = v != 0
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

func (id *BuildEventId) marshal() []byte {
	var b []byte
	switch {
	case id.TargetConfigured != nil:
		b = protowire.AppendTag(b, fieldIdTargetConfigured, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalLabel(id.TargetConfigured.Label))
	case id.TargetCompleted != nil:
		b = protowire.AppendTag(b, fieldIdTargetCompleted, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalLabel(id.TargetCompleted.Label))
	case id.TestSummary != nil:
		b = protowire.AppendTag(b, fieldIdTestSummary, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalLabel(id.TestSummary.Label))
	case id.Pattern != nil:
		var nested []byte
		for _, p := range id.Pattern.Pattern {
			nested = protowire.AppendTag(nested, 1, protowire.BytesType)
			nested = protowire.AppendString(nested, p)
		}
		b = protowire.AppendTag(b, fieldIdPattern, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	}
	return b
}

func marshalLabel(label string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, label)
	return b
}

func consumeLabel(b []byte) (string, error) {
	var label string
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", protowire.ParseError(n)
		}
		b = b[n:]
		if num == 1 {
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return "", protowire.ParseError(n)
			}
			label = v
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return "", protowire.ParseError(n)
		}
		b = b[n:]
	}
	return label, nil
}

func unmarshalBuildEventId(b []byte) (*BuildEventId, error) {
	id := &BuildEventId{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		switch num {
		case fieldIdTargetConfigured:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			label, err := consumeLabel(v)
			if err != nil {
				return nil, err
			}
			id.TargetConfigured = &TargetConfiguredId{Label: label}
			b = b[n:]
		case fieldIdTargetCompleted:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			label, err := consumeLabel(v)
			if err != nil {
				return nil, err
			}
			id.TargetCompleted = &TargetCompletedId{Label: label}
			b = b[n:]
		case fieldIdTestSummary:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			label, err := consumeLabel(v)
			if err != nil {
				return nil, err
			}
			id.TestSummary = &TestSummaryId{Label: label}
			b = b[n:]
		case fieldIdPattern:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			var patterns []string
			rest := v
			for len(rest) > 0 {
				pnum, ptyp, pn := protowire.ConsumeTag(rest)
				if pn < 0 {
					return nil, protowire.ParseError(pn)
				}
				rest = rest[pn:]
				if pnum == 1 {
					s, pn := protowire.ConsumeString(rest)
					if pn < 0 {
						return nil, protowire.ParseError(pn)
					}
					patterns = append(patterns, s)
					rest = rest[pn:]
					continue
				}
				pn = protowire.ConsumeFieldValue(pnum, ptyp, rest)
				if pn < 0 {
					return nil, protowire.ParseError(pn)
				}
				rest = rest[pn:]
			}
			id.Pattern = &PatternId{Pattern: patterns}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return id, nil
}

func (p *Payload) marshal() ([]byte, error) {
	var b []byte
	switch {
	case p.Started != nil:
		var nested []byte
		nested = protowire.AppendTag(nested, 1, protowire.BytesType)
		nested = protowire.AppendString(nested, p.Started.Uuid)
		nested = p.Started.StartTime.marshal(2, nested)
		nested = protowire.AppendTag(nested, 3, protowire.BytesType)
		nested = protowire.AppendString(nested, p.Started.Command)
		b = protowire.AppendTag(b, fieldPayloadStarted, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.Progress != nil:
		var nested []byte
		nested = protowire.AppendTag(nested, 1, protowire.BytesType)
		nested = protowire.AppendString(nested, p.Progress.Stdout)
		nested = protowire.AppendTag(nested, 2, protowire.BytesType)
		nested = protowire.AppendString(nested, p.Progress.Stderr)
		b = protowire.AppendTag(b, fieldPayloadProgress, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.Configured != nil:
		var nested []byte
		nested = protowire.AppendTag(nested, 1, protowire.BytesType)
		nested = protowire.AppendString(nested, p.Configured.TargetKind)
		b = protowire.AppendTag(b, fieldPayloadConfigured, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.Completed != nil:
		var nested []byte
		nested = protowire.AppendTag(nested, 1, protowire.VarintType)
		success := uint64(0)
		if p.Completed.Success {
			success = 1
		}
		nested = protowire.AppendVarint(nested, success)
		b = protowire.AppendTag(b, fieldPayloadCompleted, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.TestSummary != nil:
		var nested []byte
		nested = protowire.AppendTag(nested, 1, protowire.VarintType)
		nested = protowire.AppendVarint(nested, uint64(p.TestSummary.OverallStatus))
		nested = p.TestSummary.FirstStartTime.marshal(2, nested)
		nested = p.TestSummary.LastStopTime.marshal(3, nested)
		b = protowire.AppendTag(b, fieldPayloadTestSummary, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.Finished != nil:
		var nested []byte
		if p.Finished.ExitCode != nil {
			var ec []byte
			ec = protowire.AppendTag(ec, 1, protowire.BytesType)
			ec = protowire.AppendString(ec, p.Finished.ExitCode.Name)
			ec = protowire.AppendTag(ec, 2, protowire.VarintType)
			ec = protowire.AppendVarint(ec, uint64(int64(p.Finished.ExitCode.Code)))
			nested = protowire.AppendTag(nested, 1, protowire.BytesType)
			nested = protowire.AppendBytes(nested, ec)
		}
		b = protowire.AppendTag(b, fieldPayloadFinished, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.UnstructuredCommandLine != nil:
		var nested []byte
		for _, a := range p.UnstructuredCommandLine.Args {
			nested = protowire.AppendTag(nested, 1, protowire.BytesType)
			nested = protowire.AppendString(nested, a)
		}
		b = protowire.AppendTag(b, fieldPayloadUnstructuredCommandLine, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.OptionsParsed != nil:
		var nested []byte
		for _, s := range p.OptionsParsed.StartupOptions {
			nested = protowire.AppendTag(nested, 1, protowire.BytesType)
			nested = protowire.AppendString(nested, s)
		}
		for _, s := range p.OptionsParsed.ExplicitStartupOptions {
			nested = protowire.AppendTag(nested, 2, protowire.BytesType)
			nested = protowire.AppendString(nested, s)
		}
		for _, s := range p.OptionsParsed.CmdLine {
			nested = protowire.AppendTag(nested, 3, protowire.BytesType)
			nested = protowire.AppendString(nested, s)
		}
		for _, s := range p.OptionsParsed.ExplicitCmdLine {
			nested = protowire.AppendTag(nested, 4, protowire.BytesType)
			nested = protowire.AppendString(nested, s)
		}
		b = protowire.AppendTag(b, fieldPayloadOptionsParsed, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.BuildMetadata != nil:
		var nested []byte
		for k, v := range p.BuildMetadata.Metadata {
			var entry []byte
			entry = protowire.AppendTag(entry, 1, protowire.BytesType)
			entry = protowire.AppendString(entry, k)
			entry = protowire.AppendTag(entry, 2, protowire.BytesType)
			entry = protowire.AppendString(entry, v)
			nested = protowire.AppendTag(nested, 1, protowire.BytesType)
			nested = protowire.AppendBytes(nested, entry)
		}
		b = protowire.AppendTag(b, fieldPayloadBuildMetadata, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	case p.BuildToolLogs != nil:
		var nested []byte
		for _, f := range p.BuildToolLogs.Log {
			var entry []byte
			entry = protowire.AppendTag(entry, 1, protowire.BytesType)
			entry = protowire.AppendString(entry, f.Name)
			entry = protowire.AppendTag(entry, 2, protowire.BytesType)
			entry = protowire.AppendString(entry, f.Uri)
			nested = protowire.AppendTag(nested, 1, protowire.BytesType)
			nested = protowire.AppendBytes(nested, entry)
		}
		b = protowire.AppendTag(b, fieldPayloadBuildToolLogs, protowire.BytesType)
		b = protowire.AppendBytes(b, nested)
	}
	return b, nil
}

func unmarshalPayload(b []byte) (*Payload, error) {
	p := &Payload{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]
		if typ != protowire.BytesType {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		switch num {
		case fieldPayloadStarted:
			s := &Started{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				switch fn {
				case 1:
					val, fl := protowire.ConsumeString(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					s.Uuid = val
					rest = rest[fl:]
				case 2:
					val, fl := protowire.ConsumeBytes(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					ts, err := unmarshalTimestamp(val)
					if err != nil {
						return nil, err
					}
					s.StartTime = ts
					rest = rest[fl:]
				case 3:
					val, fl := protowire.ConsumeString(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					s.Command = val
					rest = rest[fl:]
				default:
					fl = protowire.ConsumeFieldValue(fn, ft, rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					rest = rest[fl:]
				}
			}
			p.Started = s
		case fieldPayloadProgress:
			pr := &Progress{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				switch fn {
				case 1:
					val, fl := protowire.ConsumeString(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					pr.Stdout = val
					rest = rest[fl:]
				case 2:
					val, fl := protowire.ConsumeString(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					pr.Stderr = val
					rest = rest[fl:]
				default:
					fl = protowire.ConsumeFieldValue(fn, ft, rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					rest = rest[fl:]
				}
			}
			p.Progress = pr
		case fieldPayloadConfigured:
			c := &Configured{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				if fn == 1 {
					val, fl := protowire.ConsumeString(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					c.TargetKind = val
					rest = rest[fl:]
					continue
				}
				fl = protowire.ConsumeFieldValue(fn, ft, rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
			}
			p.Configured = c
		case fieldPayloadCompleted:
			c := &Completed{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				if fn == 1 {
					val, fl := protowire.ConsumeVarint(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					c.Success = val != 0
					rest = rest[fl:]
					continue
				}
				fl = protowire.ConsumeFieldValue(fn, ft, rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
			}
			p.Completed = c
		case fieldPayloadTestSummary:
			ts := &TestSummary{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				switch fn {
				case 1:
					val, fl := protowire.ConsumeVarint(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					ts.OverallStatus = TestStatus(val)
					rest = rest[fl:]
				case 2:
					val, fl := protowire.ConsumeBytes(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					t, err := unmarshalTimestamp(val)
					if err != nil {
						return nil, err
					}
					ts.FirstStartTime = t
					rest = rest[fl:]
				case 3:
					val, fl := protowire.ConsumeBytes(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					t, err := unmarshalTimestamp(val)
					if err != nil {
						return nil, err
					}
					ts.LastStopTime = t
					rest = rest[fl:]
				default:
					fl = protowire.ConsumeFieldValue(fn, ft, rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					rest = rest[fl:]
				}
			}
			p.TestSummary = ts
		case fieldPayloadFinished:
			f := &Finished{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				if fn == 1 {
					val, fl := protowire.ConsumeBytes(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					ec := &ExitCode{}
					ecRest := val
					for len(ecRest) > 0 {
						ecn, ect, ecl := protowire.ConsumeTag(ecRest)
						if ecl < 0 {
							return nil, protowire.ParseError(ecl)
						}
						ecRest = ecRest[ecl:]
						switch ecn {
						case 1:
							s, ecl := protowire.ConsumeString(ecRest)
							if ecl < 0 {
								return nil, protowire.ParseError(ecl)
							}
							ec.Name = s
							ecRest = ecRest[ecl:]
						case 2:
							c, ecl := protowire.ConsumeVarint(ecRest)
							if ecl < 0 {
								return nil, protowire.ParseError(ecl)
							}
							ec.Code = int32(c)
							ecRest = ecRest[ecl:]
						default:
							ecl = protowire.ConsumeFieldValue(ecn, ect, ecRest)
							if ecl < 0 {
								return nil, protowire.ParseError(ecl)
							}
							ecRest = ecRest[ecl:]
						}
					}
					f.ExitCode = ec
					rest = rest[fl:]
					continue
				}
				fl = protowire.ConsumeFieldValue(fn, ft, rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
			}
			p.Finished = f
		case fieldPayloadUnstructuredCommandLine:
			u := &UnstructuredCommandLine{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				if fn == 1 {
					s, fl := protowire.ConsumeString(rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					u.Args = append(u.Args, s)
					rest = rest[fl:]
					continue
				}
				fl = protowire.ConsumeFieldValue(fn, ft, rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
			}
			p.UnstructuredCommandLine = u
		case fieldPayloadOptionsParsed:
			o := &OptionsParsed{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				if ft != protowire.BytesType {
					fl = protowire.ConsumeFieldValue(fn, ft, rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					rest = rest[fl:]
					continue
				}
				s, fl := protowire.ConsumeString(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				switch fn {
				case 1:
					o.StartupOptions = append(o.StartupOptions, s)
				case 2:
					o.ExplicitStartupOptions = append(o.ExplicitStartupOptions, s)
				case 3:
					o.CmdLine = append(o.CmdLine, s)
				case 4:
					o.ExplicitCmdLine = append(o.ExplicitCmdLine, s)
				}
				rest = rest[fl:]
			}
			p.OptionsParsed = o
		case fieldPayloadBuildMetadata:
			md := &BuildMetadata{Metadata: map[string]string{}}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				if fn != 1 {
					fl = protowire.ConsumeFieldValue(fn, ft, rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					rest = rest[fl:]
					continue
				}
				entry, fl := protowire.ConsumeBytes(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				var k, val string
				er := entry
				for len(er) > 0 {
					en, et, el := protowire.ConsumeTag(er)
					if el < 0 {
						return nil, protowire.ParseError(el)
					}
					er = er[el:]
					switch en {
					case 1:
						s, el := protowire.ConsumeString(er)
						if el < 0 {
							return nil, protowire.ParseError(el)
						}
						k = s
						er = er[el:]
					case 2:
						s, el := protowire.ConsumeString(er)
						if el < 0 {
							return nil, protowire.ParseError(el)
						}
						val = s
						er = er[el:]
					default:
						el = protowire.ConsumeFieldValue(en, et, er)
						if el < 0 {
							return nil, protowire.ParseError(el)
						}
						er = er[el:]
					}
				}
				md.Metadata[k] = val
				rest = rest[fl:]
			}
			p.BuildMetadata = md
		case fieldPayloadBuildToolLogs:
			logs := &BuildToolLogs{}
			rest := v
			for len(rest) > 0 {
				fn, ft, fl := protowire.ConsumeTag(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				rest = rest[fl:]
				if fn != 1 {
					fl = protowire.ConsumeFieldValue(fn, ft, rest)
					if fl < 0 {
						return nil, protowire.ParseError(fl)
					}
					rest = rest[fl:]
					continue
				}
				entry, fl := protowire.ConsumeBytes(rest)
				if fl < 0 {
					return nil, protowire.ParseError(fl)
				}
				f := &File{}
				er := entry
				for len(er) > 0 {
					en, et, el := protowire.ConsumeTag(er)
					if el < 0 {
						return nil, protowire.ParseError(el)
					}
					er = er[el:]
					switch en {
					case 1:
						s, el := protowire.ConsumeString(er)
						if el < 0 {
							return nil, protowire.ParseError(el)
						}
						f.Name = s
						er = er[el:]
					case 2:
						s, el := protowire.ConsumeString(er)
						if el < 0 {
							return nil, protowire.ParseError(el)
						}
						f.Uri = s
						er = er[el:]
					default:
						el = protowire.ConsumeFieldValue(en, et, er)
						if el < 0 {
							return nil, protowire.ParseError(el)
						}
						er = er[el:]
					}
				}
				logs.Log = append(logs.Log, f)
				rest = rest[fl:]
			}
			p.BuildToolLogs = logs
		}
		b = b[n:]
	}
	return p, nil
}
