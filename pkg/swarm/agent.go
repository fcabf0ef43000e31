// Package swarm holds the per-tick state update of a population of boids that
// travel in a straight line and wrap around the edges of the viewport.
//
// The package has no rendering, timing or logging of its own: a driver
// supplies the elapsed time and the viewport on every Step and reads the
// agents back out for display.
package swarm

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
)

// ErrConfiguration is wrapped by every error caused by bad configuration or
// bad per-tick input (world size, viewport, delta time).
var ErrConfiguration = errors.New("configuration error")

// Handle is the stable identity of an agent inside its Population.
// Renderers use it to pair agent state with their own sprites.
type Handle uint32

// Agent is one boid.
// Heading is an unnormalized direction and is never the zero vector.
// Rotation is the display rotation in radians derived from Heading by Orient.
type Agent struct {
	Handle   Handle            `json:"handle"`
	Position geometry.Vector2D `json:"position"`
	Heading  geometry.Vector2D `json:"heading"`
	Rotation float64           `json:"rotation"`
}

// Population is the contiguous, exclusively owned set of agents.
type Population struct {
	agents []Agent
	next   Handle
}

// NewPopulation returns an empty population with room for capacity agents.
func NewPopulation(capacity int) *Population {
	if capacity < 0 {
		capacity = 0
	}
	return &Population{agents: make([]Agent, 0, capacity)}
}

// Add appends an agent and returns its handle.
// A heading without direction is rejected with geometry.ErrDegenerateVector.
func (p *Population) Add(position, heading geometry.Vector2D) (Handle, error) {
	if heading.IsDegenerate() {
		return 0, fmt.Errorf("add agent with heading %s: %w", heading, geometry.ErrDegenerateVector)
	}
	if !position.IsFinite() || !heading.IsFinite() {
		return 0, fmt.Errorf("add agent at %s heading %s: %w", position, heading, ErrConfiguration)
	}
	h := p.next
	p.next++
	p.agents = append(p.agents, Agent{
		Handle:   h,
		Position: position,
		Heading:  heading,
		Rotation: heading.HeadingAngle(),
	})
	return h, nil
}

// Len returns the number of agents.
func (p *Population) Len() int {
	return len(p.agents)
}

// Agent returns a copy of the agent identified by h.
func (p *Population) Agent(h Handle) (Agent, bool) {
	// handles are assigned in insertion order and never removed
	if int(h) < len(p.agents) && p.agents[h].Handle == h {
		return p.agents[h], true
	}
	return Agent{}, false
}

// Snapshot copies every agent into dst (reusing its capacity) and returns it.
func (p *Population) Snapshot(dst []Agent) []Agent {
	return append(dst[:0], p.agents...)
}
