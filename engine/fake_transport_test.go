package engine

import (
	"github.com/dhropo/krpc/transport"
	"github.com/dhropo/krpc/wire"
)

// fakeStream is an in-memory transport.RPCStream double: requests are
// enqueued by the test, reads drain them in order, writes are captured
// for assertions.
type fakeStream struct {
	pending []*wire.Request
	sent    []*wire.Response
}

func (s *fakeStream) DataAvailable() bool { return len(s.pending) > 0 }

func (s *fakeStream) Read() (*wire.Request, error) {
	req := s.pending[0]
	s.pending = s.pending[1:]
	return req, nil
}

func (s *fakeStream) Write(resp *wire.Response) error {
	s.sent = append(s.sent, resp)
	return nil
}

func (s *fakeStream) enqueue(req *wire.Request) { s.pending = append(s.pending, req) }

// fakeClient is a transport.RPCClient double whose Connected flag the
// test can flip to simulate a mid-queue disconnect (§8 scenario 6).
type fakeClient struct {
	guid      string
	connected bool
	stream    *fakeStream
}

func newFakeClient(guid string) *fakeClient {
	return &fakeClient{guid: guid, connected: true, stream: &fakeStream{}}
}

func (c *fakeClient) Guid() string             { return c.guid }
func (c *fakeClient) Address() string          { return "127.0.0.1:0/" + c.guid }
func (c *fakeClient) Connected() bool          { return c.connected }
func (c *fakeClient) Stream() transport.RPCStream { return c.stream }

var _ transport.RPCClient = (*fakeClient)(nil)

// fakeRPCServer is a transport.RPCServer double over a fixed client set
// the test mutates directly (add/remove to simulate connect/disconnect).
type fakeRPCServer struct {
	clients      []*fakeClient
	bytesRead    uint64
	bytesWritten uint64
	updates      int
}

func (s *fakeRPCServer) Update() { s.updates++ }

func (s *fakeRPCServer) Clients() []transport.RPCClient {
	out := make([]transport.RPCClient, len(s.clients))
	for i, c := range s.clients {
		out[i] = c
	}
	return out
}

func (s *fakeRPCServer) BytesRead() uint64    { return s.bytesRead }
func (s *fakeRPCServer) BytesWritten() uint64 { return s.bytesWritten }

var _ transport.RPCServer = (*fakeRPCServer)(nil)

// fakeStreamStream captures batched stream writes.
type fakeStreamStream struct {
	sent []*wire.StreamMessage
}

func (s *fakeStreamStream) Write(msg *wire.StreamMessage) error {
	s.sent = append(s.sent, msg)
	return nil
}

// fakeStreamClient is a transport.StreamClient double.
type fakeStreamClient struct {
	guid      string
	connected bool
	stream    *fakeStreamStream
}

func newFakeStreamClient(guid string) *fakeStreamClient {
	return &fakeStreamClient{guid: guid, connected: true, stream: &fakeStreamStream{}}
}

func (c *fakeStreamClient) Guid() string                  { return c.guid }
func (c *fakeStreamClient) Address() string               { return "127.0.0.1:0/" + c.guid }
func (c *fakeStreamClient) Connected() bool                { return c.connected }
func (c *fakeStreamClient) Stream() transport.StreamStream { return c.stream }

var _ transport.StreamClient = (*fakeStreamClient)(nil)

// fakeStreamServer is a transport.StreamServer double.
type fakeStreamServer struct {
	clients []*fakeStreamClient
	updates int
}

func (s *fakeStreamServer) Update() { s.updates++ }

func (s *fakeStreamServer) Clients() []transport.StreamClient {
	out := make([]transport.StreamClient, len(s.clients))
	for i, c := range s.clients {
		out[i] = c
	}
	return out
}

func (s *fakeStreamServer) ClientByGuid(guid string) (transport.StreamClient, bool) {
	for _, c := range s.clients {
		if c.guid == guid {
			return c, true
		}
	}
	return nil, false
}

var _ transport.StreamServer = (*fakeStreamServer)(nil)
