// Command tickrpcd hosts the RPC Tick Loop and Stream Tick Loop over the
// reference TCP transport, standing in for the host simulation loop that
// owns the engine in a real embedding (§16). It wires configuration,
// logging, nettransport, a minimal example registry, and the engine
// together, then drives Tick on a fixed-rate ticker derived from
// tick.host_frequency_hz.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dhropo/krpc/clock"
	"github.com/dhropo/krpc/config"
	"github.com/dhropo/krpc/engine"
	"github.com/dhropo/krpc/logging"
	"github.com/dhropo/krpc/nettransport"
	"github.com/dhropo/krpc/registry"
	"github.com/dhropo/krpc/rpcctx"
	"github.com/dhropo/krpc/transport"
)

// signatureCacheSize bounds the reference registry's resolved-procedure
// LRU; ample for a handful of registered services.
const signatureCacheSize = 256

func main() {
	var (
		rpcAddr    = flag.String("rpc-addr", "127.0.0.1:50000", "RPC listen address")
		streamAddr = flag.String("stream-addr", "127.0.0.1:50001", "stream listen address")
		configPath = flag.String("config", "", "path to a YAML config overriding the default tick profile")
		debugEnv   = flag.String("debug-env", "TICKRPCD_DEBUG", "environment variable holding ';'-separated debug selectors")
		statusEach = flag.Int("status-every", 300, "log a status line every N ticks (0 disables)")
	)
	flag.Parse()

	log := logging.FromEnv(logging.Debug, *debugEnv)
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("config: %v", err)
		os.Exit(1)
	}

	reg := registry.NewStaticRegistry(signatureCacheSize, log)
	reg.RegisterService("Echo", &echoService{})

	rpcSrv, err := nettransport.NewRPCServer(*rpcAddr)
	if err != nil {
		log.Errorf("rpc listen %s: %v", *rpcAddr, err)
		os.Exit(1)
	}
	defer rpcSrv.Close()

	streamSrv, err := nettransport.NewStreamServer(*streamAddr)
	if err != nil {
		log.Errorf("stream listen %s: %v", *streamAddr, err)
		os.Exit(1)
	}
	defer streamSrv.Close()

	e := engine.New(cfg, clock.Real{}, log, reg)
	e.AttachRPCServer(rpcSrv)
	e.AttachStreamServer(streamSrv)
	e.Events().Register(&logObserver{log: log})

	log.Infof("tickrpcd: rpc on %s, stream on %s, host_frequency_hz=%v", rpcSrv.Addr(), streamSrv.Addr(), cfg.Tick.HostFrequencyHz)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runTickLoop(ctx, e, cfg, log, *statusEach)
}

// runTickLoop drives Tick at tick.host_frequency_hz until ctx is
// cancelled. The period is recomputed from cfg each iteration since the
// adaptive controller doesn't touch HostFrequencyHz, but an operator
// reloading config between ticks might.
func runTickLoop(ctx context.Context, e *engine.Engine, cfg *config.Config, log *logging.Logger, statusEvery int) {
	var ticks uint64
	for {
		period := time.Duration(float64(time.Second) / cfg.Tick.HostFrequencyHz)
		timer := time.NewTimer(period)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Infof("tickrpcd: shutting down after %d ticks", ticks)
			return
		case <-timer.C:
		}

		e.Tick()
		ticks++

		if statusEvery > 0 && ticks%uint64(statusEvery) == 0 {
			s := e.Stats()
			log.Infof("tick=%d rpcs=%d streamRPCs=%d avgTick=%.0fus written=%s",
				ticks, s.RPCsExecuted(), s.StreamRPCsExecuted(),
				s.TickTime.Value(), logging.HumanizeRate(s.BytesWrittenRate.Value()))
		}
	}
}

// logObserver reports lifecycle events at info level, the host binary's
// only consumer of the §4.8 event surface.
type logObserver struct {
	log *logging.Logger
}

func (o *logObserver) OnRPCClientConnected(c transport.Client) {
	o.log.Infof("rpc client connected: %s (%s)", c.Guid(), c.Address())
}

func (o *logObserver) OnRPCClientDisconnected(c transport.Client) {
	o.log.Infof("rpc client disconnected: %s", c.Guid())
}

func (o *logObserver) OnStreamClientConnected(c transport.Client) {
	o.log.Infof("stream client connected: %s (%s)", c.Guid(), c.Address())
}

func (o *logObserver) OnStreamClientDisconnected(c transport.Client) {
	o.log.Infof("stream client disconnected: %s", c.Guid())
}

func (o *logObserver) OnClientActivity(c transport.Client) {}

var _ engine.Observer = (*logObserver)(nil)

// echoService is the reference binary's only registered service,
// exercising the registry end to end without depending on any
// host-specific domain model: Ping returns its argument incremented by
// one, and GetCaller returns the calling client's guid via the ambient
// Context.
type echoService struct{}

type pingArgs struct {
	N int64
}

func (s *echoService) Ping(ctx *rpcctx.Context, args pingArgs) (any, error) {
	return args.N + 1, nil
}

type noArgs struct{}

func (s *echoService) GetCaller(ctx *rpcctx.Context, args noArgs) (any, error) {
	if ctx == nil || ctx.Client() == nil {
		return "", fmt.Errorf("tickrpcd: no caller in context")
	}
	return ctx.Client().Guid(), nil
}
