package swarm

import (
	"fmt"
	"math"
)

// wrapInset keeps a wrapped agent one unit inside the opposite edge so the
// same edge test does not fire again on the next tick.
const wrapInset = 1.0

// Viewport is the visible world rectangle, centred on the origin.
type Viewport struct {
	Width  float64
	Height float64
}

// HalfExtents returns half the width and half the height.
func (v Viewport) HalfExtents() (halfWidth, halfHeight float64) {
	return v.Width / 2, v.Height / 2
}

// Validate rejects a missing (zero), negative or non finite viewport.
func (v Viewport) Validate() error {
	if !isPositiveFinite(v.Width) || !isPositiveFinite(v.Height) {
		return fmt.Errorf("viewport %vx%v is not usable for wrapping: %w", v.Width, v.Height, ErrConfiguration)
	}
	return nil
}

// Wrap moves agents that left the viewport to the opposite edge.
// Both axes are checked on every agent, so a corner exit wraps twice.
// It returns the number of agents that moved.
func Wrap(p *Population, viewport Viewport) (int, error) {
	if err := viewport.Validate(); err != nil {
		return 0, err
	}
	hw, hh := viewport.HalfExtents()
	wrapped := 0
	for i := range p.agents {
		pos := &p.agents[i].Position
		x, xw := wrapAxis(pos.X, hw)
		y, yw := wrapAxis(pos.Y, hh)
		pos.X, pos.Y = x, y
		if xw || yw {
			wrapped++
		}
	}
	return wrapped, nil
}

func wrapAxis(v, half float64) (float64, bool) {
	switch {
	case v >= half:
		return -half + wrapInset, true
	case v <= -half:
		return half - wrapInset, true
	}
	return v, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
