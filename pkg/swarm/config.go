package swarm

import (
	"fmt"
	"math"
)

const (
	DefaultAgentCount  = 50
	DefaultSpeed       = 50.0
	DefaultWorldWidth  = 1000.0
	DefaultWorldHeight = 750.0
)

// Config is the simulation configuration read by the initializer and by Step.
// AgentCount and the world size are fixed once the population exists;
// Speed may be changed between ticks.
type Config struct {
	AgentCount  int     // population size
	Speed       float64 // world units per second
	WorldWidth  float64
	WorldHeight float64
}

// DefaultConfig returns 50 agents at 50 units/s in a 1000x750 world.
func DefaultConfig() Config {
	return Config{
		AgentCount:  DefaultAgentCount,
		Speed:       DefaultSpeed,
		WorldWidth:  DefaultWorldWidth,
		WorldHeight: DefaultWorldHeight,
	}
}

// Validate checks the fields needed to build a population.
func (c Config) Validate() error {
	if c.AgentCount < 0 {
		return fmt.Errorf("agent count %d is negative: %w", c.AgentCount, ErrConfiguration)
	}
	if err := ValidateSpeed(c.Speed); err != nil {
		return err
	}
	if !isPositiveFinite(c.WorldWidth) || !isPositiveFinite(c.WorldHeight) {
		return fmt.Errorf("world size %vx%v must be positive: %w", c.WorldWidth, c.WorldHeight, ErrConfiguration)
	}
	return nil
}

// ValidateSpeed accepts any finite, non-negative speed.
func ValidateSpeed(speed float64) error {
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed < 0 {
		return fmt.Errorf("speed %v must be a finite non-negative number: %w", speed, ErrConfiguration)
	}
	return nil
}

func isPositiveFinite(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
