package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/lao-tseu-is-alive/go-boids/pkg/batch"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "path to a .json or .toml configuration file (defaults when empty)")
	ticks := flag.Int("ticks", 600, "number of ticks to simulate")
	outPath := flag.String("out", "", "CSV output file (stdout when empty)")
	flag.Parse()

	cfg, err := simulation.LoadConfigOrDefault(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "boidsbatch: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	level, _ := simulation.ParseLogLevel(cfg.LogLevel)
	// stdout may carry the CSV
	logger := golog.New(level, os.Stderr)

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Errorf("cannot create output file: %v", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	buffered := bufio.NewWriter(out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := batch.Run(ctx, cfg, *ticks, buffered, logger); err != nil {
		logger.Errorf("batch run failed: %v", err)
	}
	if err := buffered.Flush(); err != nil {
		logger.Errorf("failed to write output: %v", err)
	}
}
