package engine

import (
	"github.com/dhropo/krpc/clock"
	"github.com/dhropo/krpc/continuation"
	"github.com/dhropo/krpc/logging"
	"github.com/dhropo/krpc/registry"
	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/transport"
	"github.com/dhropo/krpc/wire"
)

// pollPhase implements §4.4 step 2a: round-robin the scheduler once,
// enqueueing a fresh continuation for every client with a complete
// request frame ready and no continuation already outstanding. When
// BlockingRecv is set, it repeats until a continuation becomes
// available, RecvTimeout elapses, or the tick budget is exhausted; per
// §9's Open Question, non-blocking mode polls the scheduler exactly once
// per call and returns regardless of the budget.
func (e *Engine) pollPhase(budget *clock.Budget, pollSW *clock.Stopwatch) {
	pollSW.Start()
	defer pollSW.Stop()

	deadline := e.clock.Now().Add(e.cfg.Tick.RecvTimeout)
	for {
		e.pollOnce()
		if len(e.active) > 0 || !e.cfg.Tick.BlockingRecv {
			return
		}
		if budget.Exhausted() {
			return
		}
		if e.cfg.Tick.RecvTimeout > 0 && !e.clock.Now().Before(deadline) {
			return
		}
	}
}

// pollOnce walks the scheduler's current order exactly once. A client is
// skipped if it already has an outstanding continuation (§4.2's
// per-client-uniqueness rule, §9), is disconnected, or has no complete
// frame ready.
func (e *Engine) pollOnce() {
	e.sched.Iterate(func(c transport.RPCClient) {
		if e.known[c.Guid()] {
			return
		}
		if !c.Connected() {
			return
		}
		stream := c.Stream()
		if stream == nil || !stream.DataAvailable() {
			return
		}
		req, err := stream.Read()
		if err != nil {
			e.log.DPrintf(logging.EngineSelector, "poll: read %s: %v", c.Guid(), err)
			return
		}
		e.events.activity(c)
		cont := continuation.New(c, &requestRunner{req: req, reg: e.reg, client: c})
		e.known[c.Guid()] = true
		e.active = append(e.active, cont)
	})
}

// requestRunner is a continuation's Runner for one RPC request. It
// resolves the procedure and decodes arguments once (on the fresh
// attempt), then calls into the registry — via the optional
// registry.Suspendable.Attempt when available, falling back to
// HandleRequest otherwise — carrying forward whatever opaque resume
// state a prior suspended attempt produced.
type requestRunner struct {
	req    *wire.Request
	reg    registry.Registry
	client transport.Client
	handle *registry.ProcedureHandle
	args   []any
	state  any
}

func (r *requestRunner) resolve() error {
	if r.handle != nil {
		return nil
	}
	handle, err := r.reg.GetProcedureSignature(r.req.Service, r.req.Procedure)
	if err != nil {
		return err
	}
	args, err := r.reg.GetArguments(handle, r.req.Args)
	if err != nil {
		return err
	}
	r.handle, r.args = handle, args
	return nil
}

func (r *requestRunner) Run(ctx *rpcctx.Context) (continuation.Outcome, error) {
	if err := r.resolve(); err != nil {
		return continuation.Done(errorResponse(err)), nil
	}

	sus, ok := r.reg.(registry.Suspendable)
	if !ok {
		ret, err := r.reg.HandleRequest(r.handle, ctx, r.args)
		if err != nil {
			return continuation.Done(errorResponse(err)), nil
		}
		return successResponse(ret)
	}

	ret, next, ready, err := sus.Attempt(r.handle, ctx, r.args, r.state)
	if err != nil {
		return continuation.Done(errorResponse(err)), nil
	}
	if !ready {
		r.state = next
		return continuation.Suspended(continuation.New(r.client, r)), nil
	}
	return successResponse(ret)
}

func successResponse(ret any) (continuation.Outcome, error) {
	enc, err := wire.EncodeValue(ret)
	if err != nil {
		return continuation.Done(errorResponse(err)), nil
	}
	return continuation.Done(wire.Response{ReturnValue: enc}), nil
}
