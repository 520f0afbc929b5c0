package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestStopwatchAccumulatesAcrossStartStop(t *testing.T) {
	fc := &fakeClock{t: time.Unix(0, 0)}
	sw := NewStopwatch(fc)

	sw.Start()
	fc.advance(3 * time.Millisecond)
	sw.Stop()

	fc.advance(50 * time.Millisecond) // should not count: stopped

	sw.Start()
	fc.advance(2 * time.Millisecond)
	sw.Stop()

	require.Equal(t, 5*time.Millisecond, sw.Elapsed())
}

func TestStopwatchRunningElapsedIncludesCurrentInterval(t *testing.T) {
	fc := &fakeClock{t: time.Unix(0, 0)}
	sw := NewStopwatch(fc)
	sw.Start()
	fc.advance(4 * time.Millisecond)
	require.Equal(t, 4*time.Millisecond, sw.Elapsed())
}

func TestStopwatchDoubleStartIsNoop(t *testing.T) {
	fc := &fakeClock{t: time.Unix(0, 0)}
	sw := NewStopwatch(fc)
	sw.Start()
	fc.advance(time.Millisecond)
	sw.Start() // no-op, must not reset started
	fc.advance(time.Millisecond)
	require.Equal(t, 2*time.Millisecond, sw.Elapsed())
}

func TestBudgetExhaustion(t *testing.T) {
	fc := &fakeClock{t: time.Unix(0, 0)}
	b := NewBudget(fc, 4*time.Millisecond)
	require.False(t, b.Exhausted())
	fc.advance(3 * time.Millisecond)
	require.False(t, b.Exhausted())
	require.Equal(t, time.Millisecond, b.Remaining())
	fc.advance(2 * time.Millisecond)
	require.True(t, b.Exhausted())
	require.Equal(t, time.Duration(0), b.Remaining())
}
