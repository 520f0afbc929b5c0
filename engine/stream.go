package engine

import (
	"github.com/dhropo/krpc/clock"
	"github.com/dhropo/krpc/logging"
	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/streamreg"
	"github.com/dhropo/krpc/transport"
	"github.com/dhropo/krpc/wire"
)

// runStreamTick implements §4.5: for every stream client with at least
// one active subscription, re-evaluate each StreamRequest in insertion
// order, diff the result against the cache, and write a batch only if
// it is non-empty. Streaming never suspends — a subscribed procedure is
// expected to be side-effect-free and fast, so this always calls
// HandleRequest directly rather than threading through the Suspendable
// extension poll.go uses for RPC requests.
func (e *Engine) runStreamTick() {
	streamSW := clock.NewStopwatch(e.clock)
	streamSW.Start()

	var streamCount int
	e.streams.ForEachClient(func(guid string, requests []*streamreg.StreamRequest) {
		batch := e.evaluateStreamClient(guid, requests)
		streamCount += len(requests)
		if len(batch.Responses) == 0 {
			return
		}
		for _, srv := range e.streamServers {
			sc, ok := srv.ClientByGuid(guid)
			if !ok {
				continue
			}
			if err := sc.Stream().Write(&batch); err != nil {
				e.log.DPrintf(logging.StreamSelector, "write %s: %v", guid, err)
			}
			break
		}
	})

	streamSW.Stop()
	e.stats.StreamTime.Update(float64(streamSW.Elapsed().Microseconds()))
	if streamCount > 0 {
		e.stats.StreamRPCRate.Update(float64(streamCount) / streamSW.Elapsed().Seconds())
	}
}

// evaluateStreamClient runs every request for one stream client and
// returns the batch of responses whose value changed, plus an error
// response for every request whose call failed this tick (errors are
// not diffed against the cache and are sent each time), in insertion
// order (§4.5, §5 "a stream batch's responses appear in the stream's
// insertion order").
func (e *Engine) evaluateStreamClient(guid string, requests []*streamreg.StreamRequest) wire.StreamMessage {
	var batch wire.StreamMessage
	ctx := rpcctx.New(streamClientView{guid}, e.scene)
	for _, req := range requests {
		e.stats.RecordStreamRPC()

		ret, err := e.reg.HandleRequest(req.Handle, ctx, req.Args)
		if err != nil {
			env := req.Envelope()
			*env = errorResponse(err)
			env.Time = e.universalTime()
			batch.Responses = append(batch.Responses, wire.StreamResponse{StreamID: req.ID, Response: *env})
			continue
		}

		if !e.streams.Diff(req.ID, ret) {
			continue
		}
		enc, err := wire.EncodeValue(ret)
		if err != nil {
			e.log.DPrintf(logging.StreamSelector, "%s: encode stream %d: %v", guid, req.ID, err)
			continue
		}
		env := req.Envelope()
		env.ReturnValue = enc
		env.Time = e.universalTime()
		batch.Responses = append(batch.Responses, wire.StreamResponse{StreamID: req.ID, Response: *env})
	}
	return batch
}

// streamClientView is the ambient rpcctx.Client seen by a procedure
// invoked from the Stream Tick Loop: only the stream guid is known here
// (there is no transport.Client — streaming has no per-call request
// frame to attribute to an address).
type streamClientView struct {
	guid string
}

func (s streamClientView) Guid() string    { return s.guid }
func (s streamClientView) Address() string { return "" }

// RemoveStreamClient purges c's stream subscriptions and fires the
// stream-disconnected event. Called by reconcileStreamClients when a
// previously seen guid drops out of every attached StreamServer's
// Clients(), mirroring how reconcileRPCClients retires RPC clients.
func (e *Engine) RemoveStreamClient(c transport.Client) {
	e.streams.RemoveClient(c.Guid())
	e.events.streamDisconnected(c)
}
