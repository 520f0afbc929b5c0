package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhropo/krpc/registry"
	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/wire"
)

// suspendRegistry is a registry.Suspendable double: its "Suspend"
// procedure takes one Attempt to decide it isn't ready (consuming a
// fixed cost before saying so) and completes on the next, carrying
// forward opaque resume state; its "Quick" procedure always completes
// in one Attempt.
type suspendRegistry struct {
	clk          *fakeClockSrc
	suspendCost  time.Duration
	quickCost    time.Duration
	attemptOrder []string
}

func (r *suspendRegistry) GetProcedureSignature(service, procedure string) (*registry.ProcedureHandle, error) {
	return &registry.ProcedureHandle{Service: service, Procedure: procedure}, nil
}

func (r *suspendRegistry) GetArguments(handle *registry.ProcedureHandle, encodedArgs [][]byte) ([]any, error) {
	return nil, nil
}

func (r *suspendRegistry) HandleRequest(handle *registry.ProcedureHandle, ctx *rpcctx.Context, args []any) (any, error) {
	v, _, _, err := r.Attempt(handle, ctx, args, nil)
	return v, err
}

func (r *suspendRegistry) Attempt(handle *registry.ProcedureHandle, ctx *rpcctx.Context, args []any, state any) (any, any, bool, error) {
	r.attemptOrder = append(r.attemptOrder, handle.Name())
	switch handle.Procedure {
	case "Suspend":
		if state == nil {
			r.clk.advance(r.suspendCost)
			return nil, "resumed", false, nil
		}
		return int64(1), nil, true, nil
	default:
		r.clk.advance(r.quickCost)
		return int64(2), nil, true, nil
	}
}

var _ registry.Suspendable = (*suspendRegistry)(nil)

// §8 scenario 2: A's handler suspends after 3ms, B's request costs 2ms,
// budget is 4ms. Tick 1: A runs and suspends, B still runs because the
// budget wasn't exhausted when B started (the continuation in progress
// when the budget expires is allowed to finish, per §8's quantified
// budget property). Tick 2: A's resume runs first and completes.
func TestBudgetOverflowYieldsAndResumesNextTick(t *testing.T) {
	clk := &fakeClockSrc{t: time.Unix(0, 0)}
	reg := &suspendRegistry{clk: clk, suspendCost: 3 * time.Millisecond, quickCost: 2 * time.Millisecond}

	cfg := testConfig(t, 4*time.Millisecond, false)
	e := New(cfg, clk, testLogger(), reg)

	srv := &fakeRPCServer{}
	a, b := newFakeClient("a"), newFakeClient("b")
	a.stream.enqueue(reqFor("Vessel", "Suspend"))
	b.stream.enqueue(reqFor("Vessel", "Quick"))
	srv.clients = []*fakeClient{a, b}
	e.AttachRPCServer(srv)

	e.Tick()
	require.Empty(t, a.stream.sent, "A suspended, no response yet")
	require.Len(t, b.stream.sent, 1, "B still ran despite the budget being consumed by A")

	e.Tick()
	require.Len(t, a.stream.sent, 1, "A's resume completed on tick 2")
	v, err := wire.DecodeValue(a.stream.sent[0].ReturnValue)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}
