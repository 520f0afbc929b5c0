package streamreg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dhropo/krpc/logging"
	"github.com/dhropo/krpc/registry"
	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/wire"
)

type altitudeArgs struct {
	VesselID int64
}

type altitudeService struct{ value int64 }

func (s *altitudeService) GetAltitude(ctx *rpcctx.Context, args altitudeArgs) (any, error) {
	return s.value, nil
}

func newTestReg() (*registry.StaticRegistry, *altitudeService) {
	svc := &altitudeService{}
	r := registry.NewStaticRegistry(16, logging.New(logging.Debug, nil))
	r.RegisterService("Vessel", svc)
	return r, svc
}

func encReq(t *testing.T, vesselID int64) *wire.Request {
	t.Helper()
	enc, err := wire.EncodeValue(vesselID)
	require.NoError(t, err)
	return &wire.Request{Service: "Vessel", Procedure: "GetAltitude", Args: [][]byte{enc}}
}

func TestAddStreamFailsWithoutStreamChannel(t *testing.T) {
	sr := New()
	reg, _ := newTestReg()
	_, err := sr.AddStream("client-1", encReq(t, 1), reg)
	require.ErrorIs(t, err, ErrNoStreamChannel)
}

func TestAddStreamDeduplicates(t *testing.T) {
	sr := New()
	reg, _ := newTestReg()
	sr.EnsureClient("client-1")

	id1, err := sr.AddStream("client-1", encReq(t, 42), reg)
	require.NoError(t, err)
	sizeBefore := sr.CacheSize()

	id2, err := sr.AddStream("client-1", encReq(t, 42), reg)
	require.NoError(t, err)

	require.Equal(t, id1, id2)
	require.Equal(t, sizeBefore, sr.CacheSize())
}

func TestAddStreamDistinctArgsGetDistinctIDs(t *testing.T) {
	sr := New()
	reg, _ := newTestReg()
	sr.EnsureClient("client-1")

	id1, err := sr.AddStream("client-1", encReq(t, 1), reg)
	require.NoError(t, err)
	id2, err := sr.AddStream("client-1", encReq(t, 2), reg)
	require.NoError(t, err)

	require.NotEqual(t, id1, id2)
}

func TestRemoveStreamPurgesRequestAndCache(t *testing.T) {
	sr := New()
	reg, _ := newTestReg()
	sr.EnsureClient("client-1")

	id, err := sr.AddStream("client-1", encReq(t, 1), reg)
	require.NoError(t, err)
	require.Equal(t, 1, sr.CacheSize())

	sr.RemoveStream("client-1", id)
	require.Equal(t, 0, sr.CacheSize())

	// A fresh add with identical (procedure, args) gets a new id.
	id2, err := sr.AddStream("client-1", encReq(t, 1), reg)
	require.NoError(t, err)
	require.NotEqual(t, id, id2)
}

func TestRemoveStreamUnknownIDIsNoop(t *testing.T) {
	sr := New()
	sr.EnsureClient("client-1")
	require.NotPanics(t, func() { sr.RemoveStream("client-1", 999) })
}

func TestHasClientTracksEnsureAndRemove(t *testing.T) {
	sr := New()
	require.False(t, sr.HasClient("client-1"))

	sr.EnsureClient("client-1")
	require.True(t, sr.HasClient("client-1"))

	sr.RemoveClient("client-1")
	require.False(t, sr.HasClient("client-1"))
}

func TestRemoveClientPurgesAll(t *testing.T) {
	sr := New()
	reg, _ := newTestReg()
	sr.EnsureClient("client-1")
	_, err := sr.AddStream("client-1", encReq(t, 1), reg)
	require.NoError(t, err)
	_, err = sr.AddStream("client-1", encReq(t, 2), reg)
	require.NoError(t, err)
	require.Equal(t, 2, sr.CacheSize())

	sr.RemoveClient("client-1")
	require.Equal(t, 0, sr.CacheSize())

	var visited int
	sr.ForEachClient(func(string, []*StreamRequest) { visited++ })
	require.Equal(t, 0, visited)
}

func TestDiffSendsOnFirstValueAndSuppressesRepeat(t *testing.T) {
	sr := New()
	reg, _ := newTestReg()
	sr.EnsureClient("client-1")
	id, err := sr.AddStream("client-1", encReq(t, 1), reg)
	require.NoError(t, err)

	require.True(t, sr.Diff(id, int64(42)))
	require.False(t, sr.Diff(id, int64(42)))
	require.True(t, sr.Diff(id, int64(43)))
}

func TestForEachClientPreservesInsertionOrder(t *testing.T) {
	sr := New()
	reg, _ := newTestReg()
	sr.EnsureClient("client-1")
	id1, err := sr.AddStream("client-1", encReq(t, 1), reg)
	require.NoError(t, err)
	id2, err := sr.AddStream("client-1", encReq(t, 2), reg)
	require.NoError(t, err)

	var ids []uint64
	sr.ForEachClient(func(guid string, reqs []*StreamRequest) {
		for _, r := range reqs {
			ids = append(ids, r.ID)
		}
	})
	require.Equal(t, []uint64{id1, id2}, ids)
}
