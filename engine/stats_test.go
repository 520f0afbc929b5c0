package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhropo/krpc/config"
)

// §8 scenario 4: driving 200 slow ticks (20ms, above the ~16.95ms
// target period of 1/59s) decreases MaxTimePerUpdate monotonically down
// to the 1,000us floor. A second batch of 100 idle ticks (exec < 1ms)
// then pins the budget to the 10,000us re-arm value.
func TestAdaptiveControllerConvergesToClampThenIdleRearm(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Tick.HostFrequencyHz = 60
	cfg.Tick.MaxTimePerUpdate = 10000 * time.Microsecond

	// Ticks slower than the ~16.95ms target push the budget down toward
	// the floor, monotonically, by fixed 100us steps.
	prev := cfg.Tick.MaxTimePerUpdate
	for i := 0; i < 200; i++ {
		AdjustBudget(cfg, 20*time.Millisecond, 5*time.Millisecond)
		require.LessOrEqual(t, cfg.Tick.MaxTimePerUpdate, prev)
		prev = cfg.Tick.MaxTimePerUpdate
	}
	require.Equal(t, time.Millisecond, cfg.Tick.MaxTimePerUpdate, "clamped at the floor")

	// Idle ticks (fast tick, sub-millisecond exec per RPC) re-arm the
	// budget to 10,000us and pin it there.
	for i := 0; i < 100; i++ {
		AdjustBudget(cfg, time.Millisecond, 500*time.Microsecond)
	}
	require.Equal(t, 10000*time.Microsecond, cfg.Tick.MaxTimePerUpdate)
}

// A budget below the target period with a busy exec time increases the
// budget monotonically toward the ceiling.
func TestAdaptiveControllerIncreasesTowardCeilingWhenBusyButUnderTarget(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Tick.HostFrequencyHz = 60
	cfg.Tick.MaxTimePerUpdate = 1000 * time.Microsecond

	prev := cfg.Tick.MaxTimePerUpdate
	for i := 0; i < 300; i++ {
		// Tick well under the ~16.95ms target, but each RPC takes >1ms to
		// execute, so the idle re-arm branch never triggers.
		AdjustBudget(cfg, 5*time.Millisecond, 2*time.Millisecond)
		require.GreaterOrEqual(t, cfg.Tick.MaxTimePerUpdate, prev)
		prev = cfg.Tick.MaxTimePerUpdate
	}
	require.Equal(t, 25000*time.Microsecond, cfg.Tick.MaxTimePerUpdate, "clamped at the ceiling")
}
