// Package continuation implements RequestContinuation: a resumable unit
// of one request's execution that either completes with a Response or
// suspends, capturing whatever partial state it needs to resume on a
// later tick.
package continuation

import (
	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/transport"
	"github.com/dhropo/krpc/wire"
)

// Runner is the resumable handler state a Continuation wraps. Run
// attempts to complete the unit of work; it must not block and must not
// retain a reference to ctx past its own return, since ctx is reused
// across activations.
type Runner interface {
	Run(ctx *rpcctx.Context) (Outcome, error)
}

// Outcome is the tagged result of one Run call: either Done with a
// Response, or Suspended with a new Continuation capturing the paused
// state. This replaces the source's "throw a YieldException" idiom
// (§9) with data instead of control flow via panic/recover.
type Outcome struct {
	done      bool
	response  wire.Response
	suspended *Continuation
}

// Done reports a completed Run with resp as the result to send.
func Done(resp wire.Response) Outcome {
	return Outcome{done: true, response: resp}
}

// Suspended reports that next should be enqueued to resume on a later
// tick instead of resp being sent now.
func Suspended(next *Continuation) Outcome {
	return Outcome{done: false, suspended: next}
}

// IsDone reports whether this Outcome carries a final Response.
func (o Outcome) IsDone() bool { return o.done }

// Response returns the final Response. Only valid when IsDone is true.
func (o Outcome) Response() wire.Response { return o.response }

// Next returns the Continuation to enqueue for the next tick. Only valid
// when IsDone is false.
func (o Outcome) Next() *Continuation { return o.suspended }

// Continuation pairs the originating client with a Runner. It is
// "fresh" when constructed from a newly read wire request and "resumed"
// when it wraps state captured at a prior suspension; both cases use the
// same type, since a resumed Continuation no longer needs the original
// request bytes once its Runner has decoded them.
type Continuation struct {
	client transport.Client
	runner Runner
}

// New wraps runner for execution on behalf of client.
func New(client transport.Client, runner Runner) *Continuation {
	return &Continuation{client: client, runner: runner}
}

// Client returns the originating client. The engine checks Connected()
// on it before every execution attempt; a disconnected client causes the
// continuation to be dropped without running.
func (c *Continuation) Client() transport.Client {
	return c.client
}

// Run attempts to complete the wrapped Runner against ctx.
func (c *Continuation) Run(ctx *rpcctx.Context) (Outcome, error) {
	return c.runner.Run(ctx)
}
