// Package window is the ebiten frontend: it drives the world actor with the
// frame time and window size and draws the latest snapshot.
package window

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids/pkg/swarm"
	"github.com/lao-tseu-is-alive/go-boids/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
)

const (
	boidRadius    = 12.0
	headingLength = 30.0
	maxUISpeed    = 300.0
	// uint16 indices: 3 vertices per boid
	boidsPerBatch = math.MaxUint16 / 3
)

var (
	whiteImage   = ebiten.NewImage(3, 3)
	boidColor    = color.RGBA{R: 230, G: 40, B: 40, A: 255}
	headingColor = color.RGBA{R: 250, G: 220, B: 80, A: 200}
	// triangle pointing up (+Y), the direction a rotation of 0 faces
	boidShape = [3]geometry.Vector2D{
		geometry.NewVectorPolar(boidRadius, math.Pi/2),
		geometry.NewVectorPolar(boidRadius, math.Pi/2+2*math.Pi/3),
		geometry.NewVectorPolar(boidRadius, math.Pi/2+4*math.Pi/3),
	}
)

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	worldPID   *actor.PID
	snapshotCh <-chan *simulation.Snapshot
	lastState  *simulation.Snapshot
	logger     log.Logger
	cfg        *simulation.Config

	// UI Controls
	panel             *ui.UIPanel
	widgetSpeed       *ui.Slider
	widgetShowHeading *ui.Checkbox
	respawnRequested  bool

	// Live control surface
	hub         *simulation.ControlHub
	remoteSpeed chan float64
	sliderSpeed float64 // slider value last sent to the world

	// Per-tick input
	lastTick time.Time
	viewport swarm.Viewport

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewGame wires the window to a running world actor.
func NewGame(ctx context.Context, cfg *simulation.Config, worldPID *actor.PID, snapshotCh <-chan *simulation.Snapshot, logger log.Logger) *Game {
	g := &Game{
		ctx:         ctx,
		worldPID:    worldPID,
		snapshotCh:  snapshotCh,
		lastState:   &simulation.Snapshot{}, // Avoid nil pointer
		logger:      logger,
		cfg:         cfg,
		remoteSpeed: make(chan float64, 8),
		lastTick:    time.Now(),
		viewport:    cfg.Viewport(),
	}

	g.panel = ui.NewUIPanel(10, 10, 220, 200, "Boids")
	g.panel.AddSection("Motion")
	g.widgetSpeed = g.panel.AddSlider("Speed", 0, maxUISpeed, cfg.Speed)
	g.panel.EndSection()
	g.panel.AddSection("Display")
	g.widgetShowHeading = g.panel.AddCheckbox("Show headings", false)
	g.panel.AddButton("Respawn", func() { g.respawnRequested = true })
	g.panel.EndSection()
	g.sliderSpeed = g.widgetSpeed.Value

	return g
}

// SetControlHub makes slider changes visible to websocket clients.
func (g *Game) SetControlHub(hub *simulation.ControlHub) {
	g.hub = hub
}

// ApplyRemoteSpeed queues a speed coming from another goroutine (the control
// hub); it is sent to the world on the next Update.
func (g *Game) ApplyRemoteSpeed(speed float64) {
	select {
	case g.remoteSpeed <- speed:
	default:
		g.logger.Warnf("dropping remote speed %.2f, window not keeping up", speed)
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()
	g.syncSpeed()

	if g.respawnRequested {
		g.respawnRequested = false
		g.tell(simulation.NewRespawnMessage())
	}

	// Retrieve Latest State (Non-blocking)
	for drained := false; !drained; {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
		default:
			drained = true
		}
	}

	now := time.Now()
	dt := now.Sub(g.lastTick).Seconds()
	g.lastTick = now
	g.tell(simulation.NewTickMessage(dt, g.viewport))
	return nil
}

// syncSpeed sends remote updates first, then any slider movement.
func (g *Game) syncSpeed() {
	for {
		select {
		case speed := <-g.remoteSpeed:
			g.tell(simulation.NewSpeedMessage(speed))
			g.widgetSpeed.SetValue(speed)
			g.sliderSpeed = g.widgetSpeed.Value
			continue
		default:
		}
		break
	}

	if g.widgetSpeed.Value != g.sliderSpeed {
		g.sliderSpeed = g.widgetSpeed.Value
		g.tell(simulation.NewSpeedMessage(g.sliderSpeed))
		if g.hub != nil {
			g.hub.SetSpeed(g.sliderSpeed)
		}
	}
}

func (g *Game) tell(msg proto.Message) {
	if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
		g.logger.Errorf("failed to send %T to world: %v", msg, err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	cx, cy := float64(w)/2, float64(h)/2

	agents := g.lastState.Agents
	for len(agents) > 0 {
		n := min(len(agents), boidsPerBatch)
		g.drawBoids(screen, agents[:n], cx, cy)
		agents = agents[n:]
	}

	if g.widgetShowHeading.Value {
		for _, a := range g.lastState.Agents {
			tip := a.Position.Add(a.Heading.Normalize().Mul(headingLength))
			x0, y0 := toScreen(a.Position, cx, cy)
			x1, y1 := toScreen(tip, cx, cy)
			vector.StrokeLine(screen, x0, y0, x1, y1, 1, headingColor, true)
		}
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nTick: %d\nBoids: %d\nSpeed: %.1f\nWraps: %d\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.lastState.Tick,
		len(g.lastState.Agents),
		g.lastState.Speed,
		g.lastState.Wrapped,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, w-150, 10)
}

// drawBoids draws one triangle per agent, rotated by the agent rotation, in a
// single DrawTriangles call.
func (g *Game) drawBoids(screen *ebiten.Image, agents []swarm.Agent, cx, cy float64) {
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
	for i, a := range agents {
		for _, corner := range boidShape {
			x, y := toScreen(a.Position.Add(corner.Rotate(a.Rotation)), cx, cy)
			g.vertices = append(g.vertices, ebiten.Vertex{
				DstX: x, DstY: y,
				SrcX: 1, SrcY: 1,
				ColorR: float32(boidColor.R) / 255,
				ColorG: float32(boidColor.G) / 255,
				ColorB: float32(boidColor.B) / 255,
				ColorA: 1,
			})
		}
		base := uint16(i * 3)
		g.indices = append(g.indices, base, base+1, base+2)
	}
	screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}

// toScreen maps world coordinates (origin at the centre, Y up) to screen
// pixels (origin top-left, Y down).
func toScreen(p geometry.Vector2D, cx, cy float64) (float32, float32) {
	return float32(cx + p.X), float32(cy - p.Y)
}

// Layout reports the window size as the viewport of the next tick.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.viewport = swarm.Viewport{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	}
	return outsideWidth, outsideHeight
}
