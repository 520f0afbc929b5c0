package ema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstUpdateSeeds(t *testing.T) {
	e := New(0.25)
	e.Update(100)
	require.Equal(t, 100.0, e.Value())
}

func TestUpdateBlends(t *testing.T) {
	e := New(0.25)
	e.Update(100)
	e.Update(0)
	// 0.25*0 + 0.75*100 = 75
	require.Equal(t, 75.0, e.Value())
}

func TestZeroValueBeforeUpdate(t *testing.T) {
	e := New(0.25)
	require.Equal(t, 0.0, e.Value())
}
