package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/dhropo/krpc/config"
	"github.com/dhropo/krpc/ema"
)

// latencyWindow is the ambient p50/p99/stddev ring buffer's capacity.
// Large enough to cover several seconds of RPCs at a typical tick rate
// without growing the underlying slice in the hot path.
const latencyWindow = 2048

// Stats is the §4.7 Statistics Surface: one EMA per tracked rate or
// latency, raw cumulative counters, and an ambient latency ring buffer
// used for distribution reporting (never consulted by the adaptive
// controller, which only looks at the EMAs and the current tick's raw
// counts).
type Stats struct {
	BytesReadRate    *ema.EMA
	BytesWrittenRate *ema.EMA
	RPCRate          *ema.EMA
	TickTime         *ema.EMA
	PollTime         *ema.EMA
	ExecTime         *ema.EMA
	StreamRPCRate    *ema.EMA
	StreamTime       *ema.EMA

	totalBytesRead     atomic.Uint64
	totalBytesWritten  atomic.Uint64
	rpcsExecuted       atomic.Uint64
	streamRPCsExecuted atomic.Uint64
	streamRPCsThisTick atomic.Uint64

	mu        sync.Mutex
	latencies []float64
	nextSlot  int
}

// NewStats builds a Stats surface with every EMA seeded at alpha.
func NewStats(alpha float64) *Stats {
	return &Stats{
		BytesReadRate:    ema.New(alpha),
		BytesWrittenRate: ema.New(alpha),
		RPCRate:          ema.New(alpha),
		TickTime:         ema.New(alpha),
		PollTime:         ema.New(alpha),
		ExecTime:         ema.New(alpha),
		StreamRPCRate:    ema.New(alpha),
		StreamTime:       ema.New(alpha),
	}
}

// AddBytesRead/AddBytesWritten add n to the running totals. Tick passes
// the growth, since the previous tick, of the summed cumulative counts
// that §6's BytesRead/BytesWritten report.
func (s *Stats) AddBytesRead(n uint64)    { s.totalBytesRead.Add(n) }
func (s *Stats) AddBytesWritten(n uint64) { s.totalBytesWritten.Add(n) }

// TotalBytesRead/TotalBytesWritten report the running totals.
func (s *Stats) TotalBytesRead() uint64    { return s.totalBytesRead.Load() }
func (s *Stats) TotalBytesWritten() uint64 { return s.totalBytesWritten.Load() }

// RecordRPCExecuted increments the lifetime RPC counter and records d in
// the ambient latency window.
func (s *Stats) RecordRPCExecuted(d time.Duration) {
	s.rpcsExecuted.Add(1)
	s.recordLatency(d)
}

// RPCsExecuted reports the lifetime count of executed RPCs.
func (s *Stats) RPCsExecuted() uint64 { return s.rpcsExecuted.Load() }

// RecordStreamRPC increments both the lifetime and per-tick stream RPC
// counters; called once per StreamRequest invocation regardless of
// whether the result was sent or suppressed (§4.5).
func (s *Stats) RecordStreamRPC() {
	s.streamRPCsExecuted.Add(1)
	s.streamRPCsThisTick.Add(1)
}

// StreamRPCsExecuted reports the lifetime count.
func (s *Stats) StreamRPCsExecuted() uint64 { return s.streamRPCsExecuted.Load() }

// StreamRPCs reports the stream RPC count of the most recent tick. The
// count is reset at the start of every Tick, not by this call.
func (s *Stats) StreamRPCs() uint64 { return s.streamRPCsThisTick.Load() }

func (s *Stats) resetTickCounters() { s.streamRPCsThisTick.Store(0) }

func (s *Stats) recordLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := float64(d.Microseconds())
	if len(s.latencies) < latencyWindow {
		s.latencies = append(s.latencies, v)
		return
	}
	s.latencies[s.nextSlot] = v
	s.nextSlot = (s.nextSlot + 1) % latencyWindow
}

// LatencyPercentile reports the p-th percentile (0-100) of recorded RPC
// execution latencies in microseconds over the current window.
func (s *Stats) LatencyPercentile(p float64) (float64, error) {
	s.mu.Lock()
	sample := append([]float64(nil), s.latencies...)
	s.mu.Unlock()
	if len(sample) == 0 {
		return 0, nil
	}
	return stats.Percentile(sample, p)
}

// LatencyStdDev reports the standard deviation of recorded RPC execution
// latencies in microseconds over the current window.
func (s *Stats) LatencyStdDev() float64 {
	s.mu.Lock()
	sample := append([]float64(nil), s.latencies...)
	s.mu.Unlock()
	if len(sample) == 0 {
		return 0
	}
	return stat.StdDev(sample, nil)
}

// AdjustBudget implements the §4.4.3 adaptive rate controller: it
// retunes cfg.Tick.MaxTimePerUpdate in place given the just-measured
// tick duration and this tick's mean exec time per executed RPC (zero
// when no RPCs ran, which deliberately falls into the idle re-arm case).
//
// Target tick period generalizes the source's "host frequency / 59"
// ratio (slightly below 60 Hz so the controller pushes against a 60-tick
// ceiling) to an arbitrary configured host frequency.
func AdjustBudget(cfg *config.Config, measuredTick, execTimePerRPC time.Duration) {
	const (
		step     = 100 * time.Microsecond
		floor    = 1000 * time.Microsecond
		ceiling  = 25000 * time.Microsecond
		idleCap  = time.Millisecond
		idleRearm = 10000 * time.Microsecond
	)

	target := time.Duration(float64(time.Second) / (cfg.Tick.HostFrequencyHz - 1))

	switch {
	case measuredTick > target:
		cfg.Tick.MaxTimePerUpdate -= step
		if cfg.Tick.MaxTimePerUpdate < floor {
			cfg.Tick.MaxTimePerUpdate = floor
		}
	case execTimePerRPC < idleCap:
		cfg.Tick.MaxTimePerUpdate = idleRearm
	default:
		cfg.Tick.MaxTimePerUpdate += step
		if cfg.Tick.MaxTimePerUpdate > ceiling {
			cfg.Tick.MaxTimePerUpdate = ceiling
		}
	}
}
