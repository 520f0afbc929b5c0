package nettransport

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/dhropo/krpc/transport"
	"github.com/dhropo/krpc/wire"
)

// streamConn is one accepted stream connection. Streaming is push-only,
// so unlike rpcConn there is no reader goroutine decoding application
// frames — only the handshake is ever read from this connection; past
// that, a closed socket is detected the next time Write fails.
type streamConn struct {
	guid string
	addr string
	conn net.Conn

	connected atomic.Bool

	bytesWritten *atomic.Uint64
}

func (c *streamConn) Guid() string    { return c.guid }
func (c *streamConn) Address() string { return c.addr }
func (c *streamConn) Connected() bool { return c.connected.Load() }

func (c *streamConn) Stream() transport.StreamStream { return c }

func (c *streamConn) Write(msg *wire.StreamMessage) error {
	payload := msg.Encode(nil)
	if err := wire.WriteFrame(c.conn, payload); err != nil {
		c.connected.Store(false)
		return err
	}
	c.bytesWritten.Add(uint64(len(payload)))
	return nil
}

var _ transport.StreamClient = (*streamConn)(nil)
var _ transport.StreamStream = (*streamConn)(nil)

// StreamServer accepts stream connections on one TCP listener,
// correlating each to the RPC client of the same guid.
type StreamServer struct {
	listener net.Listener
	accepted chan *streamConn

	mu      sync.Mutex
	clients map[string]*streamConn

	bytesWritten atomic.Uint64
}

// NewStreamServer starts listening on addr and returns immediately.
func NewStreamServer(addr string) (*StreamServer, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &StreamServer{
		listener: l,
		accepted: make(chan *streamConn, 64),
		clients:  make(map[string]*streamConn),
	}
	go s.acceptLoop()
	return s, nil
}

// Addr returns the listener's bound address.
func (s *StreamServer) Addr() string { return s.listener.Addr().String() }

// Close stops accepting new connections.
func (s *StreamServer) Close() error { return s.listener.Close() }

func (s *StreamServer) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handshake(conn)
	}
}

func (s *StreamServer) handshake(conn net.Conn) {
	guid, err := readHandshake(conn)
	if err != nil {
		conn.Close()
		return
	}
	c := &streamConn{
		guid:         guid,
		addr:         conn.RemoteAddr().String(),
		conn:         conn,
		bytesWritten: &s.bytesWritten,
	}
	c.connected.Store(true)
	s.accepted <- c
}

// Update drains any connections that finished handshaking since the
// last call. Never blocks.
func (s *StreamServer) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		select {
		case c := <-s.accepted:
			s.clients[c.guid] = c
		default:
			return
		}
	}
}

// Clients enumerates every stream client accepted so far, pruning any
// that have since disconnected.
func (s *StreamServer) Clients() []transport.StreamClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]transport.StreamClient, 0, len(s.clients))
	for guid, c := range s.clients {
		if !c.Connected() {
			delete(s.clients, guid)
			continue
		}
		out = append(out, c)
	}
	return out
}

// ClientByGuid resolves the stream peer for guid, if one has
// handshaken.
func (s *StreamServer) ClientByGuid(guid string) (transport.StreamClient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[guid]
	if !ok || !c.Connected() {
		return nil, false
	}
	return c, true
}

var _ transport.StreamServer = (*StreamServer)(nil)
