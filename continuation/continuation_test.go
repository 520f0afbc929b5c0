package continuation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/wire"
)

type fakeClient struct {
	guid      string
	connected bool
}

func (f *fakeClient) Guid() string      { return f.guid }
func (f *fakeClient) Address() string   { return "127.0.0.1:0" }
func (f *fakeClient) Connected() bool   { return f.connected }

type runnerFunc func(ctx *rpcctx.Context) (Outcome, error)

func (f runnerFunc) Run(ctx *rpcctx.Context) (Outcome, error) { return f(ctx) }

func TestContinuationRunDone(t *testing.T) {
	cl := &fakeClient{guid: "a", connected: true}
	resp := wire.Response{ReturnValue: []byte{1}}
	cont := New(cl, runnerFunc(func(ctx *rpcctx.Context) (Outcome, error) {
		return Done(resp), nil
	}))

	out, err := cont.Run(rpcctx.New(cl, nil))
	require.NoError(t, err)
	require.True(t, out.IsDone())
	require.Equal(t, resp, out.Response())
	require.Equal(t, cl, cont.Client())
}

func TestContinuationRunSuspended(t *testing.T) {
	cl := &fakeClient{guid: "a", connected: true}
	var resumed *Continuation
	resumed = New(cl, runnerFunc(func(ctx *rpcctx.Context) (Outcome, error) {
		return Done(wire.Response{}), nil
	}))
	cont := New(cl, runnerFunc(func(ctx *rpcctx.Context) (Outcome, error) {
		return Suspended(resumed), nil
	}))

	out, err := cont.Run(rpcctx.New(cl, nil))
	require.NoError(t, err)
	require.False(t, out.IsDone())
	require.Same(t, resumed, out.Next())
}

func TestContinuationRunError(t *testing.T) {
	cl := &fakeClient{guid: "a", connected: true}
	boom := errors.New("boom")
	cont := New(cl, runnerFunc(func(ctx *rpcctx.Context) (Outcome, error) {
		return Outcome{}, boom
	}))

	_, err := cont.Run(rpcctx.New(cl, nil))
	require.ErrorIs(t, err, boom)
}
