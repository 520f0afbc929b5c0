// Package engine implements the RPC Tick Loop and Stream Tick Loop: the
// single-threaded, cooperatively scheduled driver described in §4.4 and
// §4.5. Everything here is mutated only by the goroutine that calls
// Tick, mirroring mit-pdos/sigmaos's rpc/srv.RPCSrv dispatch loop
// generalized from "one call, run to completion" to "many calls, a hard
// per-tick wall-clock budget, and cooperative suspension."
package engine

import (
	"time"

	"github.com/dhropo/krpc/clock"
	"github.com/dhropo/krpc/config"
	"github.com/dhropo/krpc/continuation"
	"github.com/dhropo/krpc/logging"
	"github.com/dhropo/krpc/registry"
	"github.com/dhropo/krpc/sched"
	"github.com/dhropo/krpc/streamreg"
	"github.com/dhropo/krpc/transport"
)

// Engine is the explicit, host-constructed value that replaces the
// source's process-wide singleton (§9 "Singleton core"): one value per
// host simulation, threaded through transport wiring rather than reached
// via a package global.
type Engine struct {
	cfg    *config.Config
	clock  clock.Source
	log    *logging.Logger
	events *Events
	stats  *Stats
	reg    registry.Registry

	rpcServers    []transport.RPCServer
	streamServers []transport.StreamServer

	sched       *sched.RoundRobin[transport.RPCClient]
	known       map[string]bool // guid -> has an outstanding continuation (queued or yielded)
	active      []*continuation.Continuation
	yielded     []*continuation.Continuation
	streams     *streamreg.StreamRegistry
	rpcGuids    map[string]transport.RPCClient    // guid -> last-seen RPC client
	streamGuids map[string]transport.StreamClient // guid -> last-seen stream client

	scene           any
	universalTimeFn func() float64
}

// New returns an Engine with no transports attached yet. reg resolves
// (service, procedure) names to handlers; cfg is mutated in place by the
// adaptive controller after every tick.
func New(cfg *config.Config, src clock.Source, log *logging.Logger, reg registry.Registry) *Engine {
	return &Engine{
		cfg:         cfg,
		clock:       src,
		log:         log,
		events:      NewEvents(),
		stats:       NewStats(cfg.Stats.SmoothingFactor),
		reg:         reg,
		sched:       sched.New[transport.RPCClient](),
		known:       make(map[string]bool),
		streams:     streamreg.New(),
		rpcGuids:    make(map[string]transport.RPCClient),
		streamGuids: make(map[string]transport.StreamClient),
	}
}

// Events returns the lifecycle/activity event surface observers register
// against.
func (e *Engine) Events() *Events { return e.events }

// Stats returns the Statistics Surface.
func (e *Engine) Stats() *Stats { return e.stats }

// Streams returns the Stream Registry, exposed so an RPC procedure
// implementing AddStream/RemoveStream can reach it via whatever service
// the host registers (the engine itself never calls these — a procedure
// handler does, on the client's behalf, per §4.3).
func (e *Engine) Streams() *streamreg.StreamRegistry { return e.streams }

// Registry returns the service registry the engine resolves requests
// against, for the same reason as Streams: AddStream needs it too.
func (e *Engine) Registry() registry.Registry { return e.reg }

// SetUniversalTimeFunc installs the host simulation's authoritative
// clock (§6 UniversalTime), embedded into every outgoing Response.
// Without one, the engine falls back to wall-clock seconds.
func (e *Engine) SetUniversalTimeFunc(fn func() float64) { e.universalTimeFn = fn }

// AttachRPCServer registers an RPC-side transport. Per §9's "Servers
// list" note, attaching/detaching stands in for the source's plain-list
// wiring; the tick loop drives every currently-attached transport
// without owning it.
func (e *Engine) AttachRPCServer(s transport.RPCServer) {
	e.rpcServers = append(e.rpcServers, s)
}

// AttachStreamServer registers a stream-side transport.
func (e *Engine) AttachStreamServer(s transport.StreamServer) {
	e.streamServers = append(e.streamServers, s)
}

// SetScene installs the current game scene for the upcoming tick (§4.6);
// the host calls this once per tick before Tick.
func (e *Engine) SetScene(scene any) { e.scene = scene }

// Tick runs one bounded pass: transport maintenance, the RPC Tick Loop,
// the Stream Tick Loop, then updates the EMAs and adaptive controller
// from measured elapsed time, per §2's control-flow summary.
func (e *Engine) Tick() {
	tickSW := clock.NewStopwatch(e.clock)
	tickSW.Start()
	e.stats.resetTickCounters()

	for _, s := range e.rpcServers {
		s.Update()
	}
	for _, s := range e.streamServers {
		s.Update()
	}
	e.reconcileRPCClients()
	e.reconcileStreamClients()

	budget := clock.NewBudget(e.clock, e.cfg.Tick.MaxTimePerUpdate)
	pollSW := clock.NewStopwatch(e.clock)
	execSW := clock.NewStopwatch(e.clock)

	var executedThisTick int
	var execTotal time.Duration

	for {
		e.pollPhase(budget, pollSW)
		if len(e.active) == 0 {
			break
		}

		n, total := e.executePhase(budget, execSW)
		executedThisTick += n
		execTotal += total
		e.active = e.active[:0]

		if e.cfg.Tick.OneRPCPerUpdate || budget.Exhausted() {
			break
		}
	}

	e.active, e.yielded = e.yielded, e.active[:0]

	e.runStreamTick()

	tickSW.Stop()
	tickElapsed := tickSW.Elapsed()

	e.stats.TickTime.Update(float64(tickElapsed.Microseconds()))
	e.stats.PollTime.Update(float64(pollSW.Elapsed().Microseconds()))
	e.stats.ExecTime.Update(float64(execSW.Elapsed().Microseconds()))
	if executedThisTick > 0 {
		e.stats.RPCRate.Update(float64(executedThisTick) / tickElapsed.Seconds())
	}
	var bytesRead, bytesWritten uint64
	for _, s := range e.rpcServers {
		bytesRead += s.BytesRead()
		bytesWritten += s.BytesWritten()
	}
	e.stats.AddBytesRead(bytesRead - e.stats.TotalBytesRead())
	e.stats.AddBytesWritten(bytesWritten - e.stats.TotalBytesWritten())
	e.stats.BytesReadRate.Update(float64(e.stats.TotalBytesRead()))
	e.stats.BytesWrittenRate.Update(float64(e.stats.TotalBytesWritten()))

	var execPerRPC time.Duration
	if executedThisTick > 0 {
		execPerRPC = execTotal / time.Duration(executedThisTick)
	}
	AdjustBudget(e.cfg, tickElapsed, execPerRPC)
}

// reconcileRPCClients adds newly seen RPC clients to the scheduler and
// fires connect events, then removes clients the transport no longer
// reports (disconnects) and fires disconnect events (§4.8, §7 taxonomy
// item 4: "trust the transport to emit the disconnect event").
func (e *Engine) reconcileRPCClients() {
	seen := make(map[string]bool)
	for _, s := range e.rpcServers {
		for _, c := range s.Clients() {
			seen[c.Guid()] = true
			if _, known := e.rpcGuids[c.Guid()]; !known {
				e.rpcGuids[c.Guid()] = c
				e.sched.Add(c)
				e.events.rpcConnected(c)
			} else {
				e.rpcGuids[c.Guid()] = c
			}
		}
	}
	for guid, c := range e.rpcGuids {
		if !seen[guid] || !c.Connected() {
			delete(e.rpcGuids, guid)
			delete(e.known, guid)
			e.sched.Remove(c)
			e.events.rpcDisconnected(c)
		}
	}
}

// reconcileStreamClients adds newly seen stream clients to the
// StreamRegistry and fires connect events, then removes clients no
// longer reported by any attached transport (disconnects) and fires
// RemoveStreamClient for each, the same live-guid diff reconcileRPCClients
// runs for the RPC side.
func (e *Engine) reconcileStreamClients() {
	seen := make(map[string]bool)
	for _, s := range e.streamServers {
		for _, c := range s.Clients() {
			seen[c.Guid()] = true
			if _, known := e.streamGuids[c.Guid()]; !known {
				e.streamGuids[c.Guid()] = c
				e.streams.EnsureClient(c.Guid())
				e.events.streamConnected(c)
			} else {
				e.streamGuids[c.Guid()] = c
			}
		}
	}
	for guid, c := range e.streamGuids {
		if !seen[guid] || !c.Connected() {
			delete(e.streamGuids, guid)
			e.RemoveStreamClient(c)
		}
	}
}
