// Package registry defines the service registry the engine consumes as
// an external collaborator (§6) — resolving a (service, procedure) name
// to an executable handler is explicitly delegated, never owned by the
// core — and ships one concrete, reflection-based implementation
// (StaticRegistry) so the engine is runnable standalone.
package registry

import (
	"github.com/dhropo/krpc/rpcctx"
)

// ProcedureHandle is an opaque, resolved reference to one procedure. The
// engine never inspects its fields; it only threads the handle back into
// GetArguments and HandleRequest.
type ProcedureHandle struct {
	Service   string
	Procedure string
}

// Name returns the dotted "Service.Procedure" this handle resolves.
func (h *ProcedureHandle) Name() string {
	return h.Service + "." + h.Procedure
}

// DomainError is a procedure's deliberate rejection of a call (§7 taxonomy
// item 1) — e.g. an unknown target or a stale handle — as opposed to an
// unexpected failure (item 2). It is a struct rather than a sentinel
// value because domain errors carry caller-specific messages.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// NewDomainError builds a DomainError with message.
func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Registry is the narrow interface the engine consumes. Implementations
// must return promptly — HandleRequest runs on the tick thread.
type Registry interface {
	// GetProcedureSignature resolves service.procedure to a handle, or an
	// error if no such procedure is registered.
	GetProcedureSignature(service, procedure string) (*ProcedureHandle, error)
	// GetArguments decodes encodedArgs against handle's declared argument
	// shape into a positional argument tuple.
	GetArguments(handle *ProcedureHandle, encodedArgs [][]byte) ([]any, error)
	// HandleRequest invokes the resolved procedure with decoded
	// arguments. A returned error that is (or wraps) a *DomainError is a
	// domain error; any other error is unexpected.
	HandleRequest(handle *ProcedureHandle, ctx *rpcctx.Context, args []any) (returnValue any, err error)
}

// Suspendable is an optional extension a Registry implements when at
// least one of its procedures cooperatively suspends (§4.2) instead of
// always completing within a single HandleRequest call. The engine
// prefers Attempt over HandleRequest whenever the registry implements
// this interface.
type Suspendable interface {
	Registry
	// Attempt tries to complete the call, given state captured by a prior
	// suspended Attempt (nil on the first try for a given request).
	// ready=false means "not ready yet"; next is opaque state the engine
	// threads back into the resumed Attempt unexamined.
	Attempt(handle *ProcedureHandle, ctx *rpcctx.Context, args []any, state any) (value any, next any, ready bool, err error)
}
