package engine

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/dhropo/krpc/registry"
	"github.com/dhropo/krpc/wire"
)

// errorResponse implements §7's error taxonomy items 1 and 2: a
// *registry.DomainError becomes a short message with no stack trace; any
// other error is treated as unexpected and gets the message plus a
// stack trace appended, matching the source's "message + stack" shape
// for bugs and corrupt state.
func errorResponse(err error) wire.Response {
	var de *registry.DomainError
	if errors.As(err, &de) {
		return wire.Response{HasError: true, ErrorMessage: de.Message}
	}
	return wire.Response{HasError: true, ErrorMessage: fmt.Sprintf("%v\n%s", err, debug.Stack())}
}

// panicResponse converts a recovered panic into an unexpected-error
// Response (§7 item 2); panics never propagate out of the execute phase
// and abort the tick (§7's closing rule: "no failure inside one
// continuation may abort the tick").
func panicResponse(p any, stack []byte) wire.Response {
	return wire.Response{HasError: true, ErrorMessage: fmt.Sprintf("panic: %v\n%s", p, stack)}
}
