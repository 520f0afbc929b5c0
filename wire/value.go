package wire

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Value kinds supported by the argument codec. Real kRPC encodes a much
// richer type system (protobuf messages, enums, collections); this
// engine's argument codec covers the primitives procedure signatures
// actually need to exercise the tick loop, scheduler, and stream
// dedup — the parts this spec is about.
const (
	KindBool byte = iota + 1
	KindInt64
	KindFloat64
	KindString
	KindBytes
)

// EncodeValue encodes v (one of bool, int64, float64, string, []byte)
// into an opaque argument value of the kind the Request/StreamRequest
// argument tuples carry.
func EncodeValue(v any) ([]byte, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool:
		return append([]byte{KindBool}, protowire.AppendVarint(nil, boolToVarint(x))...), nil
	case int64:
		return append([]byte{KindInt64}, protowire.AppendVarint(nil, uint64(x))...), nil
	case float64:
		return append([]byte{KindFloat64}, protowire.AppendFixed64(nil, doubleBits(x))...), nil
	case string:
		return append([]byte{KindString}, []byte(x)...), nil
	case []byte:
		return append([]byte{KindBytes}, x...), nil
	default:
		return nil, fmt.Errorf("wire: unsupported argument type %T", v)
	}
}

// DecodeValue decodes an opaque argument value produced by EncodeValue.
func DecodeValue(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("wire: empty value")
	}
	kind, payload := data[0], data[1:]
	switch kind {
	case KindBool:
		v, n := protowire.ConsumeVarint(payload)
		if n < 0 {
			return nil, fmt.Errorf("wire: value.bool: %w", protowire.ParseError(n))
		}
		return v != 0, nil
	case KindInt64:
		v, n := protowire.ConsumeVarint(payload)
		if n < 0 {
			return nil, fmt.Errorf("wire: value.int64: %w", protowire.ParseError(n))
		}
		return int64(v), nil
	case KindFloat64:
		v, n := protowire.ConsumeFixed64(payload)
		if n < 0 {
			return nil, fmt.Errorf("wire: value.float64: %w", protowire.ParseError(n))
		}
		return bitsToDouble(v), nil
	case KindString:
		return string(payload), nil
	case KindBytes:
		return append([]byte(nil), payload...), nil
	default:
		return nil, fmt.Errorf("wire: unknown value kind %d", kind)
	}
}

// ValuesEqual reports whether two decoded argument tuples are equal by
// value, not by the reference identity of any underlying object — the
// contract decoded-value equality requires for stream subscription
// dedup (§4.3) and stream result diffing (§4.5).
func ValuesEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !valueEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	ab, aIsBytes := a.([]byte)
	bb, bIsBytes := b.([]byte)
	if aIsBytes || bIsBytes {
		return aIsBytes && bIsBytes && bytes.Equal(ab, bb)
	}
	return a == b
}
