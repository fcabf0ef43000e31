package simulation

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/lao-tseu-is-alive/go-boids/pkg/swarm"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns the population. Ticks, speed changes and respawns arrive
// as messages and are handled one at a time, so a tick always sees the whole
// population in the same state and a new speed applies from the next tick.
type WorldActor struct {
	cfg        *Config
	speed      float64
	population *swarm.Population
	rng        *rand.Rand
	seed       uint64
	// Communication with UI
	snapshotCh chan<- *Snapshot
	viewport   swarm.Viewport // last one a tick was run with
	tickCount  uint64
	// --- Benchmark Stats ---
	ticksSinceLog int
	wrapsSinceLog int
	lastLogTime   time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit. Snapshots are offered to
// snapshotCh without blocking; a nil channel disables them.
func NewWorldActor(cfg *Config, snapshotCh chan<- *Snapshot) *WorldActor {
	rng, seed := cfg.Rand()
	return &WorldActor{
		cfg:         cfg,
		speed:       cfg.Speed,
		rng:         rng,
		seed:        seed,
		snapshotCh:  snapshotCh,
		viewport:    cfg.Viewport(),
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	// A world that cannot spawn must stop the actor system start-up here,
	// before any frontend starts sending ticks.
	if err := w.spawn(); err != nil {
		return fmt.Errorf("world cannot start: %w", err)
	}
	ctx.ActorSystem().Logger().Infof("World spawned %d boids (seed %d, speed %.1f)",
		w.population.Len(), w.seed, w.speed)
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Info("World Started. Waiting for ticks...")

	// 1. The Main Simulation Step (Driven by the frontend loop)
	case *structpb.Struct:
		tick, err := ParseTickMessage(msg)
		if err != nil {
			ctx.Logger().Warnf("ignoring tick: %v", err)
			return
		}
		w.handleTick(ctx.Logger(), tick)

	// 2. Live control surface
	case *wrapperspb.DoubleValue:
		w.handleSetSpeed(ctx.Logger(), msg.GetValue())

	case *emptypb.Empty:
		w.handleRespawn(ctx.Logger())

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d ticks...", w.tickCount)
	return nil
}

func (w *WorldActor) spawn() error {
	cfg := w.cfg.Swarm()
	cfg.Speed = w.speed
	p, err := swarm.Spawn(cfg, w.rng)
	if err != nil {
		return err
	}
	w.population = p
	return nil
}

func (w *WorldActor) handleTick(logger log.Logger, tick Tick) {
	cfg := w.cfg.Swarm()
	cfg.Speed = w.speed
	report, err := swarm.Step(w.population, cfg, tick.DeltaTime, tick.Viewport)
	if err != nil {
		// Either nothing moved (bad dt) or wrapping was skipped (bad viewport);
		// the simulation keeps running and the next tick may be fine.
		logger.Warnf("tick %d: %v", w.tickCount+1, err)
		if !report.WrapSkipped {
			return
		}
	}
	if !report.WrapSkipped {
		w.viewport = tick.Viewport
	}
	w.tickCount++
	w.ticksSinceLog++
	w.wrapsSinceLog += report.Wrapped
	if report.Skipped > 0 {
		logger.Warnf("tick %d: %d boids without a usable heading did not move", w.tickCount, report.Skipped)
	}

	w.logBenchmarks(logger)
	w.pushSnapshot(report.Wrapped)
}

func (w *WorldActor) handleSetSpeed(logger log.Logger, speed float64) {
	if err := swarm.ValidateSpeed(speed); err != nil {
		logger.Warnf("rejecting speed update: %v", err)
		return
	}
	if speed != w.speed {
		logger.Debugf("speed %.2f -> %.2f", w.speed, speed)
	}
	w.speed = speed
}

func (w *WorldActor) handleRespawn(logger log.Logger) {
	if err := w.spawn(); err != nil {
		logger.Errorf("respawn failed, keeping the current population: %v", err)
		return
	}
	logger.Infof("Respawned %d boids", w.population.Len())
	w.pushSnapshot(0)
}

func (w *WorldActor) logBenchmarks(logger log.Logger) {
	if time.Since(w.lastLogTime) >= time.Second {
		logger.Infof("📊 TICK RATE: %d/sec | Wraps: %d | Boids: %d | Speed: %.1f",
			w.ticksSinceLog, w.wrapsSinceLog, w.population.Len(), w.speed)
		w.ticksSinceLog = 0
		w.wrapsSinceLog = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot(wrapped int) {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.buildSnapshot(wrapped):
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) buildSnapshot(wrapped int) *Snapshot {
	return &Snapshot{
		Tick:     w.tickCount,
		Speed:    w.speed,
		Viewport: w.viewport,
		Wrapped:  wrapped,
		Agents:   w.population.Snapshot(make([]swarm.Agent, 0, w.population.Len())),
	}
}
