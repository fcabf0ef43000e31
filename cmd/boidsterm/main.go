package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids/pkg/terminal"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
)

func main() {
	configPath := flag.String("config", "", "path to a .json or .toml configuration file (defaults when empty)")
	logPath := flag.String("log", "", "file receiving the log output (discarded when empty, the screen belongs to the grid)")
	sound := flag.Bool("sound", false, "beep when boids wrap around the edges")
	flag.Parse()

	cfg, err := simulation.LoadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boidsterm: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	var logger golog.Logger = golog.DiscardLogger
	if *logPath != "" {
		logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "boidsterm: cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		level, _ := simulation.ParseLogLevel(cfg.LogLevel)
		logger = golog.New(level, logFile)
	}

	if err := run(cfg, logger, *sound); err != nil {
		fmt.Fprintf(os.Stderr, "boidsterm: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *simulation.Config, logger golog.Logger, sound bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	system, err := actor.NewActorSystem("BoidsTerminal",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer system.Stop(ctx)

	snapshotCh := make(chan *simulation.Snapshot, 10)
	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(cfg, snapshotCh))
	if err != nil {
		return fmt.Errorf("cannot start the simulation: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var cue *terminal.WrapCue
	if sound {
		cue, err = terminal.NewWrapCue()
		if err != nil {
			// Non-fatal, the grid works without sound
			logger.Warnf("audio initialization failed: %v", err)
		}
		defer cue.Close()
	}

	send := func(msg proto.Message) error {
		return actor.Tell(ctx, worldPID, msg)
	}
	app := terminal.NewApp(screen, cfg, send, snapshotCh, logger, cue)
	return app.Run(ctx)
}
