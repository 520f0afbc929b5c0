// Package transport defines the narrow interfaces the engine consumes
// from its socket-acceptor collaborators (§6). The engine never opens a
// socket, frames a message, or authenticates a peer itself — it only
// calls these methods from the tick thread and trusts them to return
// promptly.
package transport

import "github.com/dhropo/krpc/wire"

// Client is a connected peer's identity and liveness, owned by whichever
// transport accepted it. The engine holds non-owning references and must
// tolerate Connected flipping to false at any time.
type Client interface {
	Guid() string
	Address() string
	Connected() bool
}

// RPCStream is the per-client inbound/outbound channel for request and
// response frames.
type RPCStream interface {
	// DataAvailable reports whether a complete request frame is ready to
	// be read without blocking.
	DataAvailable() bool
	// Read consumes one complete request frame. Only valid to call after
	// DataAvailable reports true.
	Read() (*wire.Request, error)
	// Write sends one response frame.
	Write(*wire.Response) error
}

// RPCClient is an RPC-side connected client together with its stream.
type RPCClient interface {
	Client
	Stream() RPCStream
}

// StreamStream is the per-client outbound channel for batched stream
// messages; streaming is push-only, so there is no Read.
type StreamStream interface {
	Write(*wire.StreamMessage) error
}

// StreamClient is a streaming-side connected client together with its
// stream.
type StreamClient interface {
	Client
	Stream() StreamStream
}

// RPCServer is the RPC-side transport acceptor.
type RPCServer interface {
	// Update drives one non-blocking maintenance pass: accept new
	// connections, progress handshakes. Must not block.
	Update()
	// Clients enumerates currently known RPC clients.
	Clients() []RPCClient
	// BytesRead and BytesWritten report cumulative byte counts across
	// every client this server has ever served, for the Statistics
	// Surface's EMA inputs.
	BytesRead() uint64
	BytesWritten() uint64
}

// StreamServer is the streaming-side transport acceptor, correlated to
// its RPC peer by shared client guid.
type StreamServer interface {
	Update()
	Clients() []StreamClient
	// ClientByGuid resolves the stream peer for an RPC client's guid, or
	// ok=false if that RPC client has no stream channel.
	ClientByGuid(guid string) (StreamClient, bool)
}
