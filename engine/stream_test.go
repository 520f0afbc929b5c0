package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhropo/krpc/wire"
)

// §8 scenario 5: a stream subscription returns 42 on tick 1 (sent), 42
// again on tick 2 (suppressed), then 43 on tick 3 (sent) — exactly two
// wire messages, carrying {42} then {43}.
func TestStreamDiffingSendsOnlyOnChange(t *testing.T) {
	clk := &fakeClockSrc{t: time.Unix(0, 0)}
	reg := newCostRegistry(clk)
	reg.register("Vessel.GetAltitude", 0, int64(42))

	cfg := testConfig(t, 10*time.Millisecond, false)
	e := New(cfg, clk, testLogger(), reg)

	sc := newFakeStreamClient("p1")
	ssrv := &fakeStreamServer{clients: []*fakeStreamClient{sc}}
	e.AttachStreamServer(ssrv)

	// Prime the registry so the stream subscription can resolve without
	// going through the RPC poll/decode path.
	e.Tick() // registers the stream client via reconcileStreamClients

	id, err := e.Streams().AddStream("p1", &wire.Request{Service: "Vessel", Procedure: "GetAltitude"}, e.Registry())
	require.NoError(t, err)

	clk.advance(time.Second)
	e.Tick()
	require.Len(t, sc.stream.sent, 1)
	require.Len(t, sc.stream.sent[0].Responses, 1)
	require.Equal(t, id, sc.stream.sent[0].Responses[0].StreamID)

	clk.advance(time.Second)
	e.Tick() // same value: suppressed
	require.Len(t, sc.stream.sent, 1)

	reg.rets["Vessel.GetAltitude"] = int64(43)
	clk.advance(time.Second)
	e.Tick()
	require.Len(t, sc.stream.sent, 2)
	require.Len(t, sc.stream.sent[1].Responses, 1)

	v1, err := wire.DecodeValue(sc.stream.sent[0].Responses[0].Response.ReturnValue)
	require.NoError(t, err)
	require.Equal(t, int64(42), v1)

	v2, err := wire.DecodeValue(sc.stream.sent[1].Responses[0].Response.ReturnValue)
	require.NoError(t, err)
	require.Equal(t, int64(43), v2)

	require.NotEqual(t, sc.stream.sent[0].Responses[0].Response.Time, sc.stream.sent[1].Responses[0].Response.Time)
}
