// Package wire implements the engine's wire format for Request,
// Response, and StreamMessage. Rather than generating full proto.Message
// types with protoc (unavailable in this build), it encodes and decodes
// directly against the protobuf wire format using the low-level
// google.golang.org/protobuf/encoding/protowire primitives — the same
// primitives generated code itself calls into, minus the reflection
// machinery this engine's handlers never need.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Request is an addressed call: a service name, a procedure name, and
// positional arguments as opaque encoded values. Immutable once built.
type Request struct {
	Service   string
	Procedure string
	Args      [][]byte
}

const (
	reqFieldService   protowire.Number = 1
	reqFieldProcedure protowire.Number = 2
	reqFieldArgs      protowire.Number = 3
)

// Encode appends the wire encoding of r to buf and returns the result.
func (r *Request) Encode(buf []byte) []byte {
	buf = protowire.AppendTag(buf, reqFieldService, protowire.BytesType)
	buf = protowire.AppendString(buf, r.Service)
	buf = protowire.AppendTag(buf, reqFieldProcedure, protowire.BytesType)
	buf = protowire.AppendString(buf, r.Procedure)
	for _, arg := range r.Args {
		buf = protowire.AppendTag(buf, reqFieldArgs, protowire.BytesType)
		buf = protowire.AppendBytes(buf, arg)
	}
	return buf
}

// DecodeRequest parses a Request from the front of data.
func DecodeRequest(data []byte) (*Request, error) {
	r := &Request{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: request: bad tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case reqFieldService:
			s, m := protowire.ConsumeString(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: request.service: %w", protowire.ParseError(m))
			}
			r.Service = s
			data = data[m:]
		case reqFieldProcedure:
			s, m := protowire.ConsumeString(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: request.procedure: %w", protowire.ParseError(m))
			}
			r.Procedure = s
			data = data[m:]
		case reqFieldArgs:
			b, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: request.args: %w", protowire.ParseError(m))
			}
			r.Args = append(r.Args, append([]byte{}, b...))
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, fmt.Errorf("wire: request: skip unknown field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return r, nil
}

// Response is either a successful return value plus a server timestamp,
// or an error carrying a human-readable message. Exactly one shape is
// populated; HasError discriminates.
type Response struct {
	HasError     bool
	ReturnValue  []byte
	ErrorMessage string
	Time         float64
}

const (
	respFieldHasError     protowire.Number = 1
	respFieldReturnValue  protowire.Number = 2
	respFieldErrorMessage protowire.Number = 3
	respFieldTime         protowire.Number = 4
)

// Encode appends the wire encoding of resp to buf and returns the result.
func (resp *Response) Encode(buf []byte) []byte {
	buf = protowire.AppendTag(buf, respFieldHasError, protowire.VarintType)
	buf = protowire.AppendVarint(buf, boolToVarint(resp.HasError))
	if resp.HasError {
		buf = protowire.AppendTag(buf, respFieldErrorMessage, protowire.BytesType)
		buf = protowire.AppendString(buf, resp.ErrorMessage)
	} else {
		buf = protowire.AppendTag(buf, respFieldReturnValue, protowire.BytesType)
		buf = protowire.AppendBytes(buf, resp.ReturnValue)
	}
	buf = protowire.AppendTag(buf, respFieldTime, protowire.Fixed64Type)
	buf = protowire.AppendFixed64(buf, doubleBits(resp.Time))
	return buf
}

// DecodeResponse parses a Response from the front of data.
func DecodeResponse(data []byte) (*Response, error) {
	resp := &Response{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: response: bad tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case respFieldHasError:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: response.has_error: %w", protowire.ParseError(m))
			}
			resp.HasError = v != 0
			data = data[m:]
		case respFieldReturnValue:
			b, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: response.return_value: %w", protowire.ParseError(m))
			}
			resp.ReturnValue = append([]byte(nil), b...)
			data = data[m:]
		case respFieldErrorMessage:
			s, m := protowire.ConsumeString(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: response.error_message: %w", protowire.ParseError(m))
			}
			resp.ErrorMessage = s
			data = data[m:]
		case respFieldTime:
			v, m := protowire.ConsumeFixed64(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: response.time: %w", protowire.ParseError(m))
			}
			resp.Time = bitsToDouble(v)
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, fmt.Errorf("wire: response: skip unknown field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return resp, nil
}

// StreamResponse pairs a stream id with the response produced for it on
// one tick, the unit a StreamMessage batches.
type StreamResponse struct {
	StreamID uint64
	Response Response
}

const (
	srFieldID       protowire.Number = 1
	srFieldResponse protowire.Number = 2
)

func (sr *StreamResponse) encode(buf []byte) []byte {
	buf = protowire.AppendTag(buf, srFieldID, protowire.VarintType)
	buf = protowire.AppendVarint(buf, sr.StreamID)
	inner := sr.Response.Encode(nil)
	buf = protowire.AppendTag(buf, srFieldResponse, protowire.BytesType)
	buf = protowire.AppendBytes(buf, inner)
	return buf
}

func decodeStreamResponse(data []byte) (*StreamResponse, error) {
	sr := &StreamResponse{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: stream_response: bad tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case srFieldID:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: stream_response.id: %w", protowire.ParseError(m))
			}
			sr.StreamID = v
			data = data[m:]
		case srFieldResponse:
			b, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: stream_response.response: %w", protowire.ParseError(m))
			}
			resp, err := DecodeResponse(b)
			if err != nil {
				return nil, fmt.Errorf("wire: stream_response.response: %w", err)
			}
			sr.Response = *resp
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, fmt.Errorf("wire: stream_response: skip unknown field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return sr, nil
}

// StreamMessage is a batch of stream responses for one stream client on
// one tick, in the insertion order of their StreamRequests.
type StreamMessage struct {
	Responses []StreamResponse
}

const smFieldResponses protowire.Number = 1

// Encode appends the wire encoding of sm to buf and returns the result.
func (sm *StreamMessage) Encode(buf []byte) []byte {
	for i := range sm.Responses {
		inner := sm.Responses[i].encode(nil)
		buf = protowire.AppendTag(buf, smFieldResponses, protowire.BytesType)
		buf = protowire.AppendBytes(buf, inner)
	}
	return buf
}

// DecodeStreamMessage parses a StreamMessage from the front of data.
func DecodeStreamMessage(data []byte) (*StreamMessage, error) {
	sm := &StreamMessage{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("wire: stream_message: bad tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case smFieldResponses:
			b, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return nil, fmt.Errorf("wire: stream_message.responses: %w", protowire.ParseError(m))
			}
			sr, err := decodeStreamResponse(b)
			if err != nil {
				return nil, fmt.Errorf("wire: stream_message.responses: %w", err)
			}
			sm.Responses = append(sm.Responses, *sr)
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, fmt.Errorf("wire: stream_message: skip unknown field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return sm, nil
}

func boolToVarint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
