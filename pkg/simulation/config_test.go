package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids/pkg/swarm"
	"github.com/tochemey/goakt/v3/log"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.AgentCount != 50 || cfg.Speed != 50 || cfg.WorldWidth != 1000 || cfg.WorldHeight != 750 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
	if vp := cfg.Viewport(); vp.Width != 1000 || vp.Height != 750 {
		t.Errorf("Viewport() = %+v", vp)
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "boids.json", `{"agentCount": 12, "speed": 80.5, "seed": 7, "logLevel": "debug"}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error %v", err)
	}
	if cfg.AgentCount != 12 || cfg.Speed != 80.5 || cfg.Seed != 7 || cfg.LogLevel != "debug" {
		t.Errorf("LoadConfig = %+v", cfg)
	}
	// Missing keys keep their defaults.
	if cfg.WorldWidth != 1000 || cfg.WorldHeight != 750 || cfg.TicksPerSecond != 60 {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadConfig_TOML(t *testing.T) {
	path := writeFile(t, "boids.toml", "agentCount = 3\nspeed = 10.0\nworldWidth = 100.0\nworldHeight = 100.0\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error %v", err)
	}
	want := swarm.Config{AgentCount: 3, Speed: 10, WorldWidth: 100, WorldHeight: 100}
	if got := cfg.Swarm(); got != want {
		t.Errorf("Swarm() = %+v; want %+v", got, want)
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"negative agent count", "a.json", `{"agentCount": -1}`},
		{"zero world width", "b.json", `{"worldWidth": 0}`},
		{"unknown key", "c.json", `{"flocking": true}`},
		{"bad log level", "d.json", `{"logLevel": "loud"}`},
		{"not json", "e.json", `agentCount = 3`},
		{"toml negative speed", "f.toml", "speed = -2.0\n"},
		{"toml unknown key", "g.toml", "cohesion = 1.0\n"},
		{"unsupported extension", "h.yaml", "agentCount: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cfg, err := LoadConfig(writeFile(t, tt.file, tt.content)); err == nil {
				t.Errorf("LoadConfig accepted %q: %+v", tt.content, cfg)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) error = %v; want os.ErrNotExist", err)
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault("")
	if err != nil {
		t.Fatalf("LoadConfigOrDefault(\"\") returned error %v", err)
	}
	if cfg.AgentCount != swarm.DefaultAgentCount {
		t.Errorf("AgentCount = %d; want default %d", cfg.AgentCount, swarm.DefaultAgentCount)
	}

	path := writeFile(t, "boids.toml", "agentCount = 3\n")
	cfg, err = LoadConfigOrDefault(path)
	if err != nil {
		t.Fatalf("LoadConfigOrDefault(%q) returned error %v", path, err)
	}
	if cfg.AgentCount != 3 {
		t.Errorf("AgentCount = %d; want 3", cfg.AgentCount)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TicksPerSecond = 0
	if err := cfg.Validate(); !errors.Is(err, swarm.ErrConfiguration) {
		t.Errorf("Validate() = %v; want ErrConfiguration", err)
	}

	cfg = DefaultConfig()
	cfg.WorldHeight = -1
	if err := cfg.Validate(); !errors.Is(err, swarm.ErrConfiguration) {
		t.Errorf("Validate() = %v; want ErrConfiguration", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"", log.InfoLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarningLevel},
		{"error", log.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLogLevel("verbose"); !errors.Is(err, swarm.ErrConfiguration) {
		t.Errorf("ParseLogLevel(verbose) error = %v; want ErrConfiguration", err)
	}
}
