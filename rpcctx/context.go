// Package rpcctx carries the ambient, per-activation scope a procedure
// handler sees while it runs: which RPC client issued the call, and the
// game scene the host set for this tick. It is a plain struct passed
// explicitly down the call chain — not a thread-local or package
// global — because the engine is single-threaded and cooperative, so
// there is exactly one "current activation" at a time, the way
// mit-pdos/sigmaos's ctx.Ctx threads session identity through its call
// stack instead of relying on goroutine-local state.
package rpcctx

// Client is the narrow view of an RPC client a handler is allowed to see:
// who is calling, without exposing the transport's read/write surface.
type Client interface {
	Guid() string
	Address() string
}

// Context is set immediately before invoking a continuation's Run and
// cleared on every exit path (completion, suspension, or error), so a
// handler can never observe a stale activation.
type Context struct {
	client Client
	scene  any
}

// New returns a Context for one activation of client against scene. scene
// is opaque to the engine — it is whatever value the host simulation
// loop set for this tick (e.g. a *Vessel, a save-game handle); only
// handlers know its concrete type.
func New(client Client, scene any) *Context {
	return &Context{client: client, scene: scene}
}

// Client returns the RPC client whose request is currently executing.
func (c *Context) Client() Client {
	if c == nil {
		return nil
	}
	return c.client
}

// Scene returns the current game scene, as set by the host for this
// tick. Handlers type-assert it to whatever concrete scene type their
// service expects.
func (c *Context) Scene() any {
	if c == nil {
		return nil
	}
	return c.scene
}
