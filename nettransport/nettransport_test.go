package nettransport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhropo/krpc/transport"
	"github.com/dhropo/krpc/wire"
)

func TestRPCServerHandshakeReadWriteRoundTrip(t *testing.T) {
	srv, err := NewRPCServer("127.0.0.1:0")
	require.NoError(t, err)
	defer srv.Close()

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, writeHandshake(conn, "client-1"))

	var client *rpcConn
	require.Eventually(t, func() bool {
		srv.Update()
		for _, c := range srv.Clients() {
			if c.Guid() == "client-1" {
				client = c.(*rpcConn)
				return true
			}
		}
		return false
	}, time.Second, time.Millisecond)

	req := &wire.Request{Service: "Vessel", Procedure: "GetAltitude", Args: [][]byte{{1, 2, 3}}}
	require.NoError(t, wire.WriteFrame(conn, req.Encode(nil)))

	require.Eventually(t, func() bool {
		return client.Stream().DataAvailable()
	}, time.Second, time.Millisecond)

	got, err := client.Stream().Read()
	require.NoError(t, err)
	require.Equal(t, "Vessel", got.Service)
	require.Equal(t, "GetAltitude", got.Procedure)
	require.Equal(t, [][]byte{{1, 2, 3}}, got.Args)

	resp := &wire.Response{ReturnValue: []byte{9}, Time: 1.5}
	require.NoError(t, client.Stream().Write(resp))

	frame, err := wire.ReadFrame(conn)
	require.NoError(t, err)
	decoded, err := wire.DecodeResponse(frame)
	require.NoError(t, err)
	require.Equal(t, resp.ReturnValue, decoded.ReturnValue)
	require.Equal(t, resp.Time, decoded.Time)

	conn.Close()
	require.Eventually(t, func() bool {
		return !client.Connected()
	}, time.Second, time.Millisecond)
}

func TestStreamServerHandshakeAndPush(t *testing.T) {
	srv, err := NewStreamServer("127.0.0.1:0")
	require.NoError(t, err)
	defer srv.Close()

	conn, err := net.Dial("tcp", srv.Addr())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, writeHandshake(conn, "client-1"))

	var client transport.StreamClient
	require.Eventually(t, func() bool {
		srv.Update()
		c, ok := srv.ClientByGuid("client-1")
		if !ok {
			return false
		}
		client = c
		return true
	}, time.Second, time.Millisecond)

	msg := &wire.StreamMessage{Responses: []wire.StreamResponse{
		{StreamID: 7, Response: wire.Response{ReturnValue: []byte{4, 2}}},
	}}
	require.NoError(t, client.Stream().Write(msg))

	frame, err := wire.ReadFrame(conn)
	require.NoError(t, err)
	decoded, err := wire.DecodeStreamMessage(frame)
	require.NoError(t, err)
	require.Len(t, decoded.Responses, 1)
	require.Equal(t, uint64(7), decoded.Responses[0].StreamID)
	require.Equal(t, []byte{4, 2}, decoded.Responses[0].Response.ReturnValue)
}
