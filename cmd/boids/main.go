package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids/pkg/window"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "path to a .json or .toml configuration file (defaults when empty)")
	controlAddr := flag.String("control", "", "listen address of the websocket speed control, e.g. :8080 (disabled when empty)")
	flag.Parse()

	cfg, err := simulation.LoadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boids: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	level, _ := simulation.ParseLogLevel(cfg.LogLevel)
	logger := golog.New(level, os.Stdout)

	ctx := context.Background()
	system, err := actor.NewActorSystem("BoidsWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		logger.Errorf("failed to create actor system: %v", err)
		os.Exit(1)
	}
	if err := system.Start(ctx); err != nil {
		logger.Errorf("failed to start actor system: %v", err)
		os.Exit(1)
	}
	defer system.Stop(ctx)

	// Buffer to avoid blocking the world when a frame is slow
	snapshotCh := make(chan *simulation.Snapshot, 10)
	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(cfg, snapshotCh))
	if err != nil {
		logger.Errorf("cannot start the simulation: %v", err)
		_ = system.Stop(ctx)
		os.Exit(1)
	}

	game := window.NewGame(ctx, cfg, worldPID, snapshotCh, logger)

	if *controlAddr != "" {
		hub := simulation.NewControlHub(cfg.Speed, game.ApplyRemoteSpeed, logger)
		game.SetControlHub(hub)
		server := &http.Server{
			Addr:              *controlAddr,
			Handler:           simulation.NewControlMux(hub),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Infof("speed control listening on ws://%s/ws/control", *controlAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("speed control server stopped: %v", err)
			}
		}()
		defer server.Shutdown(ctx)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetTPS(cfg.TicksPerSecond)

	if err := ebiten.RunGame(game); err != nil {
		logger.Errorf("game loop ended with error: %v", err)
	}
}
