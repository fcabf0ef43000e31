// Package terminal renders the swarm on a character grid with tcell and turns
// key presses into world messages.
package terminal

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids/pkg/swarm"
)

// One terminal cell covers cellWidth x cellHeight world units. Cells are about
// twice as tall as they are wide, so the world keeps its aspect ratio.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

// arrows indexed by octant, counter-clockwise starting from "up" (rotation 0).
var arrows = [8]rune{'↑', '↖', '←', '↙', '↓', '↘', '→', '↗'}

// ViewportFor returns the world area shown on a cols x rows terminal.
func ViewportFor(cols, rows int) swarm.Viewport {
	return swarm.Viewport{Width: float64(cols) * cellWidth, Height: float64(rows) * cellHeight}
}

// CellFor maps a world position (origin at the centre, Y up) to a column and
// row (origin top-left, rows growing down). ok is false when the position
// falls outside the grid.
func CellFor(p geometry.Vector2D, viewport swarm.Viewport, cols, rows int) (col, row int, ok bool) {
	if cols <= 0 || rows <= 0 || viewport.Validate() != nil || !p.IsFinite() {
		return 0, 0, false
	}
	hw, hh := viewport.HalfExtents()
	col = int(math.Floor((p.X + hw) / viewport.Width * float64(cols)))
	row = int(math.Floor((hh - p.Y) / viewport.Height * float64(rows)))
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return 0, 0, false
	}
	return col, row, true
}

// Glyph picks the arrow closest to a rotation, using the same convention as
// geometry.Vector2D.HeadingAngle.
func Glyph(rotation float64) rune {
	octant := int(math.Round(rotation/(math.Pi/4))) % len(arrows)
	if octant < 0 {
		octant += len(arrows)
	}
	return arrows[octant]
}
