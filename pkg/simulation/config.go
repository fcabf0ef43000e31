package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-boids/pkg/swarm"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tochemey/goakt/v3/log"
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "config.schema.json"

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" toml:"worldHeight"`

	// Population
	AgentCount int `json:"agentCount" toml:"agentCount"`

	// Physics, live-tunable
	Speed float64 `json:"speed" toml:"speed"`

	// Seed for the spawn PRNG, 0 picks one from the clock
	Seed uint64 `json:"seed" toml:"seed"`

	// Frame rate of the window and terminal, fixed step of the batch runner
	TicksPerSecond int `json:"ticksPerSecond" toml:"ticksPerSecond"`

	LogLevel string `json:"logLevel" toml:"logLevel"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:     swarm.DefaultWorldWidth,
		WorldHeight:    swarm.DefaultWorldHeight,
		AgentCount:     swarm.DefaultAgentCount,
		Speed:          swarm.DefaultSpeed,
		Seed:           0,
		TicksPerSecond: 60,
		LogLevel:       "info",
	}
}

// Swarm returns the part of the configuration the simulation core reads.
func (c *Config) Swarm() swarm.Config {
	return swarm.Config{
		AgentCount:  c.AgentCount,
		Speed:       c.Speed,
		WorldWidth:  c.WorldWidth,
		WorldHeight: c.WorldHeight,
	}
}

// Viewport is the world rectangle used until a frontend reports its own size.
func (c *Config) Viewport() swarm.Viewport {
	return swarm.Viewport{Width: c.WorldWidth, Height: c.WorldHeight}
}

// Rand returns the spawn PRNG and the seed it was built from. A zero Seed
// picks one from the clock.
func (c *Config) Rand() (*rand.Rand, uint64) {
	seed := c.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>1^0x9e3779b97f4a7c15)), seed
}

// Validate is the start-up check: the program must not begin ticking with a
// configuration that cannot produce a population or a viewport.
func (c *Config) Validate() error {
	if err := c.Swarm().Validate(); err != nil {
		return err
	}
	if c.TicksPerSecond <= 0 {
		return fmt.Errorf("ticksPerSecond %d must be positive: %w", c.TicksPerSecond, swarm.ErrConfiguration)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps the configuration names onto goakt log levels.
func ParseLogLevel(level string) (log.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarningLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q: %w", level, swarm.ErrConfiguration)
}

// LoadConfig loads configuration from a JSON or TOML file, on top of the
// defaults, and validates it against the embedded schema.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	switch ext := strings.ToLower(filepath.Ext(configFile)); ext {
	case ".json":
		if err := validateJSON(b); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(b), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config keys %v: %w", undecoded, swarm.ErrConfiguration)
		}
		// Same rules as the JSON files: round-trip through JSON and validate.
		asJSON, err := json.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to encode config for validation: %w", err)
		}
		if err := validateJSON(asJSON); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (want .json or .toml): %w", ext, swarm.ErrConfiguration)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrDefault loads configFile, or returns the defaults when it is empty.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	if configFile == "" {
		cfg := DefaultConfig()
		return cfg, cfg.Validate()
	}
	return LoadConfig(configFile)
}

func validateJSON(b []byte) error {
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
