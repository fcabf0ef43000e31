package swarm

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
)

// Spawn creates cfg.AgentCount agents with random positions and headings.
//
// Position X is drawn from [0, WorldHeight) and Y from [0, WorldWidth); the
// bounds are crossed on purpose so existing scenes keep their layout.
// Heading components are drawn from the closed interval [-1, 1]; a zero
// heading is drawn again.
func Spawn(cfg Config, rng *rand.Rand) (*Population, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := NewPopulation(cfg.AgentCount)
	for i := 0; i < cfg.AgentCount; i++ {
		position := geometry.Vector2D{
			X: rng.Float64() * cfg.WorldHeight,
			Y: rng.Float64() * cfg.WorldWidth,
		}
		heading := randomHeading(rng)
		if _, err := p.Add(position, heading); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func randomHeading(rng *rand.Rand) geometry.Vector2D {
	for {
		h := geometry.Vector2D{X: closedUnit(rng)*2 - 1, Y: closedUnit(rng)*2 - 1}
		if !h.IsDegenerate() {
			return h
		}
	}
}

// closedUnit returns a uniform float in [0, 1], both ends included.
func closedUnit(rng *rand.Rand) float64 {
	const steps = 1 << 53
	return float64(rng.Uint64N(steps+1)) / steps
}
