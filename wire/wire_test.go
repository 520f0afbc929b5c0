package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestRoundTrip(t *testing.T) {
	cases := []*Request{
		{Service: "Vessel", Procedure: "GetAltitude", Args: [][]byte{{1, 2, 3}, {}}},
		{Service: "", Procedure: "", Args: nil},
		{Service: "SpaceCenter", Procedure: "ActiveVessel", Args: [][]byte{}},
	}
	for _, r := range cases {
		buf := r.Encode(nil)
		got, err := DecodeRequest(buf)
		require.NoError(t, err)
		require.Equal(t, r.Service, got.Service)
		require.Equal(t, r.Procedure, got.Procedure)
		if len(r.Args) == 0 {
			require.Empty(t, got.Args)
		} else {
			require.Equal(t, r.Args, got.Args)
		}
	}
}

func TestResponseRoundTripSuccess(t *testing.T) {
	r := &Response{HasError: false, ReturnValue: []byte{9, 8, 7}, Time: 123.5}
	buf := r.Encode(nil)
	got, err := DecodeResponse(buf)
	require.NoError(t, err)
	require.False(t, got.HasError)
	require.Equal(t, r.ReturnValue, got.ReturnValue)
	require.Equal(t, r.Time, got.Time)
	require.Empty(t, got.ErrorMessage)
}

func TestResponseRoundTripError(t *testing.T) {
	r := &Response{HasError: true, ErrorMessage: "unknown target vessel", Time: 1.0}
	buf := r.Encode(nil)
	got, err := DecodeResponse(buf)
	require.NoError(t, err)
	require.True(t, got.HasError)
	require.Equal(t, "unknown target vessel", got.ErrorMessage)
	require.Empty(t, got.ReturnValue)
}

func TestResponseZeroReturnValueRoundTrips(t *testing.T) {
	r := &Response{HasError: false, ReturnValue: []byte{}, Time: 0}
	buf := r.Encode(nil)
	got, err := DecodeResponse(buf)
	require.NoError(t, err)
	require.Equal(t, 0.0, got.Time)
	require.Empty(t, got.ReturnValue)
}

func TestStreamMessageRoundTrip(t *testing.T) {
	sm := &StreamMessage{Responses: []StreamResponse{
		{StreamID: 1, Response: Response{ReturnValue: []byte{42}, Time: 1.0}},
		{StreamID: 2, Response: Response{HasError: true, ErrorMessage: "boom", Time: 2.0}},
	}}
	buf := sm.Encode(nil)
	got, err := DecodeStreamMessage(buf)
	require.NoError(t, err)
	require.Len(t, got.Responses, 2)
	require.Equal(t, uint64(1), got.Responses[0].StreamID)
	require.Equal(t, []byte{42}, got.Responses[0].Response.ReturnValue)
	require.Equal(t, uint64(2), got.Responses[1].StreamID)
	require.True(t, got.Responses[1].Response.HasError)
	require.Equal(t, "boom", got.Responses[1].Response.ErrorMessage)
}

func TestEmptyStreamMessageRoundTrips(t *testing.T) {
	sm := &StreamMessage{}
	buf := sm.Encode(nil)
	got, err := DecodeStreamMessage(buf)
	require.NoError(t, err)
	require.Empty(t, got.Responses)
}

func TestDecodeRequestTruncatedErrors(t *testing.T) {
	r := &Request{Service: "Vessel", Procedure: "GetAltitude"}
	buf := r.Encode(nil)
	_, err := DecodeRequest(buf[:len(buf)-1])
	require.Error(t, err)
}

func TestFrameRoundTrip(t *testing.T) {
	var b bytes.Buffer
	payload := []byte("hello frame")
	require.NoError(t, WriteFrame(&b, payload))
	got, err := ReadFrame(&b)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestReadFrameRejectsOversized(t *testing.T) {
	var b bytes.Buffer
	hdr := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	b.Write(hdr)
	_, err := ReadFrame(&b)
	require.Error(t, err)
}
