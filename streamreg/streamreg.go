// Package streamreg implements the Stream Registry: per-stream-client
// sets of active stream subscriptions, deduplicated by (procedure,
// argument tuple), plus the last-sent result cache the Stream Tick Loop
// diffs against.
package streamreg

import (
	"fmt"

	"github.com/dhropo/krpc/registry"
	"github.com/dhropo/krpc/wire"
)

// ErrNoStreamChannel is returned by AddStream when the RPC client
// issuing the request has no correlated stream client (§4.3).
var ErrNoStreamChannel = fmt.Errorf("streamreg: no stream channel for client")

// StreamRequest is one active subscription: a resolved procedure, its
// frozen argument tuple, and (per §3) a preformed response envelope
// reused every tick rather than reallocated.
type StreamRequest struct {
	ID       uint64
	Handle   *registry.ProcedureHandle
	Args     []any
	envelope wire.Response
}

type cacheEntry struct {
	value any
	sent  bool // false means "never sent" per §3's StreamResultCache
}

type clientState struct {
	requests []*StreamRequest // insertion order, per §4.5
	nextID   uint64
}

// StreamRegistry holds every stream client's active subscriptions and
// the global result cache. It is owned by the tick thread, like every
// other piece of engine state.
type StreamRegistry struct {
	clients map[string]*clientState  // keyed by stream-client guid
	cache   map[uint64]*cacheEntry   // keyed by stream id, global per §3
}

// New returns an empty StreamRegistry.
func New() *StreamRegistry {
	return &StreamRegistry{
		clients: make(map[string]*clientState),
		cache:   make(map[uint64]*cacheEntry),
	}
}

// EnsureClient registers clientGuid as having a stream channel, if not
// already known. Called by the engine once it has resolved the RPC
// client's stream peer via the transport.
func (sr *StreamRegistry) EnsureClient(clientGuid string) {
	if _, ok := sr.clients[clientGuid]; !ok {
		sr.clients[clientGuid] = &clientState{}
	}
}

// AddStream resolves handle and args via reg, deduplicates against
// clientGuid's existing subscriptions, and returns the (possibly
// pre-existing) stream id.
func (sr *StreamRegistry) AddStream(clientGuid string, req *wire.Request, reg registry.Registry) (uint64, error) {
	cs, ok := sr.clients[clientGuid]
	if !ok {
		return 0, ErrNoStreamChannel
	}

	handle, err := reg.GetProcedureSignature(req.Service, req.Procedure)
	if err != nil {
		return 0, err
	}
	args, err := reg.GetArguments(handle, req.Args)
	if err != nil {
		return 0, err
	}

	for _, existing := range cs.requests {
		if existing.Handle.Name() == handle.Name() && wire.ValuesEqual(existing.Args, args) {
			return existing.ID, nil
		}
	}

	cs.nextID++
	id := cs.nextID
	sreq := &StreamRequest{ID: id, Handle: handle, Args: args}
	cs.requests = append(cs.requests, sreq)
	sr.cache[id] = &cacheEntry{sent: false}
	return id, nil
}

// RemoveStream removes streamID from clientGuid's subscriptions and
// purges its cache entry. Unknown ids are a no-op (idempotent per §4.3).
func (sr *StreamRegistry) RemoveStream(clientGuid string, streamID uint64) {
	cs, ok := sr.clients[clientGuid]
	if !ok {
		return
	}
	for i, req := range cs.requests {
		if req.ID == streamID {
			cs.requests = append(cs.requests[:i], cs.requests[i+1:]...)
			delete(sr.cache, streamID)
			return
		}
	}
}

// HasClient reports whether clientGuid has been registered via
// EnsureClient and not yet removed, regardless of whether it currently
// has any active subscriptions.
func (sr *StreamRegistry) HasClient(clientGuid string) bool {
	_, ok := sr.clients[clientGuid]
	return ok
}

// RemoveClient purges every subscription and cache entry belonging to
// clientGuid, called on stream-client disconnect (§4.3 lifetime).
func (sr *StreamRegistry) RemoveClient(clientGuid string) {
	cs, ok := sr.clients[clientGuid]
	if !ok {
		return
	}
	for _, req := range cs.requests {
		delete(sr.cache, req.ID)
	}
	delete(sr.clients, clientGuid)
}

// ForEachClient visits every stream client that currently has at least
// one active subscription, in map order (the Stream Tick Loop's outer
// loop order is unspecified by §4.5; only per-client insertion order is
// guaranteed). requests is a defensive copy safe to range over even if
// the callback mutates the registry.
func (sr *StreamRegistry) ForEachClient(visit func(clientGuid string, requests []*StreamRequest)) {
	for guid, cs := range sr.clients {
		if len(cs.requests) == 0 {
			continue
		}
		reqs := make([]*StreamRequest, len(cs.requests))
		copy(reqs, cs.requests)
		visit(guid, reqs)
	}
}

// Diff compares newValue against the cached last-sent value for
// streamID using decoded-value equality, updates the cache, and reports
// whether the value should be sent (differs from the cache, including
// the "never sent" case).
func (sr *StreamRegistry) Diff(streamID uint64, newValue any) bool {
	entry, ok := sr.cache[streamID]
	if !ok {
		// Should not happen given the §3 invariant; treat defensively as
		// "always send" rather than panicking on inconsistent state.
		sr.cache[streamID] = &cacheEntry{value: newValue, sent: true}
		return true
	}
	if entry.sent && wire.ValuesEqual([]any{entry.value}, []any{newValue}) {
		return false
	}
	entry.value = newValue
	entry.sent = true
	return true
}

// Envelope returns req's reusable response envelope for the caller to
// populate this tick, per §3's "preformed response envelope reused each
// tick".
func (req *StreamRequest) Envelope() *wire.Response {
	req.envelope = wire.Response{}
	return &req.envelope
}

// CacheSize reports the number of live cache entries, exposed for tests
// asserting the §8 "dedup leaves cache size unchanged" property.
func (sr *StreamRegistry) CacheSize() int {
	return len(sr.cache)
}
