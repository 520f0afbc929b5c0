package nettransport

import (
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/dhropo/krpc/transport"
	"github.com/dhropo/krpc/wire"
)

// rpcConn is one accepted RPC connection: a reader goroutine decodes
// inbound frames into requests and appends them to pending under mu; the
// tick thread drains pending via DataAvailable/Read and writes responses
// directly, since only one goroutine (the tick thread) ever calls Write.
type rpcConn struct {
	guid string
	addr string
	conn net.Conn

	connected atomic.Bool

	mu      sync.Mutex
	pending []*wire.Request

	bytesRead    *atomic.Uint64
	bytesWritten *atomic.Uint64
}

func (c *rpcConn) Guid() string    { return c.guid }
func (c *rpcConn) Address() string { return c.addr }
func (c *rpcConn) Connected() bool { return c.connected.Load() }

func (c *rpcConn) Stream() transport.RPCStream { return c }

func (c *rpcConn) DataAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending) > 0
}

func (c *rpcConn) Read() (*wire.Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return nil, io.EOF
	}
	req := c.pending[0]
	c.pending = c.pending[1:]
	return req, nil
}

func (c *rpcConn) Write(resp *wire.Response) error {
	payload := resp.Encode(nil)
	if err := wire.WriteFrame(c.conn, payload); err != nil {
		c.connected.Store(false)
		return err
	}
	c.bytesWritten.Add(uint64(len(payload)))
	return nil
}

// readLoop is the dedicated I/O goroutine: it blocks on the socket so
// the tick thread never has to, decoding each frame and appending the
// result to pending until the connection errors or closes.
func (c *rpcConn) readLoop() {
	defer c.conn.Close()
	defer c.connected.Store(false)
	for {
		frame, err := wire.ReadFrame(c.conn)
		if err != nil {
			return
		}
		c.bytesRead.Add(uint64(len(frame)))
		req, err := wire.DecodeRequest(frame)
		if err != nil {
			return
		}
		c.mu.Lock()
		c.pending = append(c.pending, req)
		c.mu.Unlock()
	}
}

var _ transport.RPCClient = (*rpcConn)(nil)
var _ transport.RPCStream = (*rpcConn)(nil)

// RPCServer accepts RPC connections on one TCP listener. Newly
// handshaken connections are handed off through a channel so Update,
// called from the tick thread, never blocks waiting for a peer's
// handshake frame.
type RPCServer struct {
	listener net.Listener
	accepted chan *rpcConn

	mu      sync.Mutex
	clients map[string]*rpcConn

	bytesRead    atomic.Uint64
	bytesWritten atomic.Uint64
}

// NewRPCServer starts listening on addr ("host:port"; port 0 picks a
// free one) and returns immediately — the accept loop runs in its own
// goroutine.
func NewRPCServer(addr string) (*RPCServer, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &RPCServer{
		listener: l,
		accepted: make(chan *rpcConn, 64),
		clients:  make(map[string]*rpcConn),
	}
	go s.acceptLoop()
	return s, nil
}

// Addr returns the listener's bound address, useful when addr was
// "host:0".
func (s *RPCServer) Addr() string { return s.listener.Addr().String() }

// Close stops accepting new connections. Already-accepted connections
// are left running until their own readLoop observes an error.
func (s *RPCServer) Close() error { return s.listener.Close() }

func (s *RPCServer) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handshake(conn)
	}
}

func (s *RPCServer) handshake(conn net.Conn) {
	guid, err := readHandshake(conn)
	if err != nil {
		conn.Close()
		return
	}
	c := &rpcConn{
		guid:         guid,
		addr:         conn.RemoteAddr().String(),
		conn:         conn,
		bytesRead:    &s.bytesRead,
		bytesWritten: &s.bytesWritten,
	}
	c.connected.Store(true)
	go c.readLoop()
	s.accepted <- c
}

// Update drains any connections that finished handshaking since the
// last call. Never blocks.
func (s *RPCServer) Update() {
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

// Clients enumerates every RPC client accepted so far, pruning any that
// have since disconnected.
func (s *RPCServer) Clients() []transport.RPCClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]transport.RPCClient, 0, len(s.clients))
	for guid, c := range s.clients {
		if !c.Connected() {
			delete(s.clients, guid)
			continue
		}
		out = append(out, c)
	}
	return out
}

func (s *RPCServer) BytesRead() uint64    { return s.bytesRead.Load() }
func (s *RPCServer) BytesWritten() uint64 { return s.bytesWritten.Load() }

var _ transport.RPCServer = (*RPCServer)(nil)
