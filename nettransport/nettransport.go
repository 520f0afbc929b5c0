// Package nettransport implements the §6 RPCServer/StreamServer
// collaborators over plain TCP, framing every message with the wire
// package's length-prefixed codec. Each accepted RPC connection gets its
// own reader goroutine draining frames into a mutex-guarded queue (stream
// connections are push-only and have none), mirroring
// mit-pdos/sigmaos's demux.DemuxSrv split between the goroutine that
// blocks on socket I/O and the tick thread that must never block on it.
//
// A connection identifies its owning client with a one-frame handshake:
// the very first frame carries the client's guid as raw bytes, sent
// before any Request or StreamMessage frame. The RPC and stream sides
// are separate TCP connections (typically to separate listeners),
// correlated after the fact by that shared guid — the same client
// handshakes twice, once per listener it dials.
package nettransport

import (
	"fmt"
	"net"

	"github.com/dhropo/krpc/wire"
)

// readHandshake blocks until the peer's first frame arrives and returns
// its payload decoded as a guid string.
func readHandshake(conn net.Conn) (string, error) {
	frame, err := wire.ReadFrame(conn)
	if err != nil {
		return "", fmt.Errorf("nettransport: handshake: %w", err)
	}
	return string(frame), nil
}

// writeHandshake sends guid as the connection's first frame.
func writeHandshake(conn net.Conn, guid string) error {
	return wire.WriteFrame(conn, []byte(guid))
}
