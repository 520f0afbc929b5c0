// Package sched implements the round-robin scheduler the RPC tick loop
// uses to poll connected clients in a fair order: across repeated
// iterations, no client can monopolize being visited first.
package sched

// Client is the minimal identity the scheduler orders; transport.Client
// satisfies it.
type Client interface {
	Guid() string
}

// RoundRobin holds an ordered set of clients and a rotating cursor. It is
// not safe for concurrent use — like every other piece of engine state,
// it is owned and mutated only by the tick thread.
type RoundRobin[C Client] struct {
	order  []C
	index  map[string]int
	cursor int
}

// New returns an empty RoundRobin.
func New[C Client]() *RoundRobin[C] {
	return &RoundRobin[C]{index: make(map[string]int)}
}

// Add appends c to the set. Adding a client already present is a no-op.
func (r *RoundRobin[C]) Add(c C) {
	if _, ok := r.index[c.Guid()]; ok {
		return
	}
	r.index[c.Guid()] = len(r.order)
	r.order = append(r.order, c)
}

// Remove deletes c from the set. If the cursor pointed at c's slot, it is
// left in place so it now points at whichever client slides into that
// slot (the "next surviving element"); if c was the last element, the
// cursor wraps to 0.
func (r *RoundRobin[C]) Remove(c C) {
	pos, ok := r.index[c.Guid()]
	if !ok {
		return
	}
	delete(r.index, c.Guid())
	r.order = append(r.order[:pos], r.order[pos+1:]...)
	for guid, idx := range r.index {
		if idx > pos {
			r.index[guid] = idx - 1
		}
	}
	if len(r.order) == 0 {
		r.cursor = 0
	} else if r.cursor >= len(r.order) {
		r.cursor = 0
	}
}

// Len reports the current set size.
func (r *RoundRobin[C]) Len() int {
	return len(r.order)
}

// Iterate produces every current member exactly once, starting at the
// cursor and wrapping around, then advances the cursor by one position
// (modulo the set size) so the next Iterate starts with the next client.
// forEach has no way to stop the walk early; Iterate always visits every
// member once per call.
func (r *RoundRobin[C]) Iterate(forEach func(C)) {
	n := len(r.order)
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		forEach(r.order[(r.cursor+i)%n])
	}
	r.cursor = (r.cursor + 1) % n
}

// Snapshot returns the members in the order the next Iterate would visit
// them, without advancing the cursor. Useful for tests asserting fairness
// without running a full Iterate.
func (r *RoundRobin[C]) Snapshot() []C {
	n := len(r.order)
	out := make([]C, n)
	for i := 0; i < n; i++ {
		out[i] = r.order[(r.cursor+i)%n]
	}
	return out
}
