package engine

import "github.com/dhropo/krpc/transport"

// Observer receives lifecycle and activity notifications from the tick
// thread (§4.8). Implementations must tolerate being invoked from the
// tick thread and must not call back into the engine's mutating
// operations (§5).
type Observer interface {
	OnRPCClientConnected(client transport.Client)
	OnRPCClientDisconnected(client transport.Client)
	OnStreamClientConnected(client transport.Client)
	OnStreamClientDisconnected(client transport.Client)
	OnClientActivity(client transport.Client)
}

// Events is a simple fan-out registry. Observers register once, before
// connections are accepted, and are invoked synchronously and in
// registration order.
type Events struct {
	observers []Observer
}

// NewEvents returns an empty event surface.
func NewEvents() *Events {
	return &Events{}
}

// Register adds o to the fan-out list.
func (e *Events) Register(o Observer) {
	e.observers = append(e.observers, o)
}

func (e *Events) rpcConnected(c transport.Client) {
	for _, o := range e.observers {
		o.OnRPCClientConnected(c)
	}
}

func (e *Events) rpcDisconnected(c transport.Client) {
	for _, o := range e.observers {
		o.OnRPCClientDisconnected(c)
	}
}

func (e *Events) streamConnected(c transport.Client) {
	for _, o := range e.observers {
		o.OnStreamClientConnected(c)
	}
}

func (e *Events) streamDisconnected(c transport.Client) {
	for _, o := range e.observers {
		o.OnStreamClientDisconnected(c)
	}
}

func (e *Events) activity(c transport.Client) {
	for _, o := range e.observers {
		o.OnClientActivity(c)
	}
}
