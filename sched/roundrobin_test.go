package sched

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testClient string

func (t testClient) Guid() string { return string(t) }

func TestIterateStartsFromCursorAndAdvances(t *testing.T) {
	r := New[testClient]()
	a, b, c := testClient("a"), testClient("b"), testClient("c")
	r.Add(a)
	r.Add(b)
	r.Add(c)

	var first []testClient
	r.Iterate(func(cl testClient) { first = append(first, cl) })
	require.Equal(t, []testClient{a, b, c}, first)

	var second []testClient
	r.Iterate(func(cl testClient) { second = append(second, cl) })
	require.Equal(t, []testClient{b, c, a}, second)

	var third []testClient
	r.Iterate(func(cl testClient) { third = append(third, cl) })
	require.Equal(t, []testClient{c, a, b}, third)
}

func TestFairnessAcrossManyIterations(t *testing.T) {
	r := New[testClient]()
	members := []testClient{"a", "b", "c"}
	for _, m := range members {
		r.Add(m)
	}

	const n = 100
	counts := map[testClient]int{}
	for i := 0; i < n; i++ {
		snap := r.Snapshot()
		counts[snap[0]]++
		r.Iterate(func(testClient) {})
	}
	k := len(members)
	for _, m := range members {
		got := counts[m]
		require.True(t, got == n/k || got == n/k+1 || got == (n+k-1)/k,
			"member %v started first %d times, want close to %d", m, got, n/k)
	}
}

func TestRemoveDropsMemberFromIteration(t *testing.T) {
	r := New[testClient]()
	a, b, c := testClient("a"), testClient("b"), testClient("c")
	r.Add(a)
	r.Add(b)
	r.Add(c)

	r.Remove(b)
	require.Equal(t, 2, r.Len())

	var order []testClient
	r.Iterate(func(cl testClient) { order = append(order, cl) })
	require.Equal(t, []testClient{a, c}, order)
}

func TestAddIsIdempotent(t *testing.T) {
	r := New[testClient]()
	r.Add(testClient("a"))
	r.Add(testClient("a"))
	require.Equal(t, 1, r.Len())
}

func TestDeterministicWithoutMutation(t *testing.T) {
	r := New[testClient]()
	r.Add(testClient("a"))
	r.Add(testClient("b"))
	require.Equal(t, r.Snapshot(), r.Snapshot())
}
