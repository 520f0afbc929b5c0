package engine

import (
	"runtime/debug"
	"time"

	"github.com/dhropo/krpc/clock"
	"github.com/dhropo/krpc/continuation"
	"github.com/dhropo/krpc/logging"
	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/transport"
	"github.com/dhropo/krpc/wire"
)

// executePhase implements §4.4 step 2c: drain the active queue in
// order, dropping continuations for disconnected clients (§7 item 4),
// moving the rest into the yielded list once the budget is exhausted
// (or, with OneRPCPerUpdate set, once one continuation has run), and
// otherwise running them to completion or suspension. Returns the
// count of continuations actually executed this call and their
// cumulative run time, feeding the adaptive controller's
// execTimePerRPC input.
func (e *Engine) executePhase(budget *clock.Budget, execSW *clock.Stopwatch) (int, time.Duration) {
	var n int
	var total time.Duration
	for _, cont := range e.active {
		client := cont.Client()
		if !client.Connected() {
			delete(e.known, client.Guid())
			continue
		}
		if budget.Exhausted() || (e.cfg.Tick.OneRPCPerUpdate && n > 0) {
			e.yielded = append(e.yielded, cont)
			continue
		}

		execSW.Start()
		start := e.clock.Now()
		resp, suspended := e.runContinuation(cont)
		elapsed := e.clock.Now().Sub(start)
		execSW.Stop()
		total += elapsed
		n++

		if suspended != nil {
			e.yielded = append(e.yielded, suspended)
			continue
		}
		delete(e.known, client.Guid())
		e.stats.RecordRPCExecuted(elapsed)
		if rc, ok := client.(transport.RPCClient); ok {
			e.sendResponse(rc, resp)
		}
	}
	return n, total
}

// runContinuation runs cont against a freshly scoped Context (§4.6: set
// immediately before Run, cleared on every exit path — ctx is
// stack-local here, so "cleared" simply means it goes out of scope).
// A panic inside cont.Run is recovered and converted to an unexpected
// error Response rather than escaping to abort the tick.
func (e *Engine) runContinuation(cont *continuation.Continuation) (resp wire.Response, suspended *continuation.Continuation) {
	ctx := rpcctx.New(clientView{cont.Client()}, e.scene)

	defer func() {
		if p := recover(); p != nil {
			resp = panicResponse(p, debug.Stack())
			suspended = nil
		}
	}()

	outcome, err := cont.Run(ctx)
	if err != nil {
		return errorResponse(err), nil
	}
	if outcome.IsDone() {
		return outcome.Response(), nil
	}
	return wire.Response{}, outcome.Next()
}

// clientView narrows a transport.Client down to rpcctx.Client so
// handlers can't reach Connected()/Stream() through the ambient context.
type clientView struct {
	transport.Client
}

// sendResponse implements §4.4.1: stamp the server timestamp, write the
// frame, log if debug enabled.
func (e *Engine) sendResponse(client transport.RPCClient, resp wire.Response) {
	resp.Time = e.universalTime()
	if e.log.ShouldLog(logging.Debug) {
		e.log.DPrintf(logging.EngineSelector, "send %s hasError=%v", client.Guid(), resp.HasError)
	}
	if err := client.Stream().Write(&resp); err != nil {
		e.log.DPrintf(logging.EngineSelector, "send %s: %v", client.Guid(), err)
	}
}

// universalTime returns §6's UniversalTime reading, embedded into every
// outgoing Response. Falls back to wall-clock seconds when the host
// hasn't installed one via SetUniversalTimeFunc.
func (e *Engine) universalTime() float64 {
	if e.universalTimeFn != nil {
		return e.universalTimeFn()
	}
	return float64(e.clock.Now().UnixNano()) / 1e9
}
