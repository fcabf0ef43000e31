package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
)

const speedStep = 10.0

var (
	boidStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// Sender delivers a message to the world, typically actor.Tell bound to the
// world PID.
type Sender func(msg proto.Message) error

// App drives the world from a terminal: every frame it sends a tick sized to
// the terminal grid and draws the latest snapshot.
type App struct {
	screen     tcell.Screen
	send       Sender
	snapshotCh <-chan *simulation.Snapshot
	logger     log.Logger
	cue        *WrapCue
	frame      time.Duration

	speed      float64
	lastState  *simulation.Snapshot
	lastTick   time.Time
	cols, rows int
}

// NewApp prepares an app on an initialised screen. cue may be nil.
func NewApp(screen tcell.Screen, cfg *simulation.Config, send Sender, snapshotCh <-chan *simulation.Snapshot, logger log.Logger, cue *WrapCue) *App {
	tps := cfg.TicksPerSecond
	if tps <= 0 {
		tps = simulation.DefaultConfig().TicksPerSecond
	}
	a := &App{
		screen:     screen,
		send:       send,
		snapshotCh: snapshotCh,
		logger:     logger,
		cue:        cue,
		frame:      time.Second / time.Duration(tps),
		speed:      cfg.Speed,
		lastState:  &simulation.Snapshot{},
		lastTick:   time.Now(),
	}
	a.cols, a.rows = screen.Size()
	return a
}

// Run loops until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				// screen finalised
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-eventChan:
			if !a.handleEvent(ev) {
				return nil
			}

		case now := <-ticker.C:
			a.step(now)
		}
	}
}

// handleEvent reports false when the user asked to quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case '+', '=':
				a.changeSpeed(speedStep)
			case '-', '_':
				a.changeSpeed(-speedStep)
			case 'r', 'R':
				a.deliver(simulation.NewRespawnMessage())
			}
		}

	case *tcell.EventResize:
		a.screen.Sync()
		a.cols, a.rows = a.screen.Size()
	}
	return true
}

func (a *App) changeSpeed(delta float64) {
	speed := max(a.speed+delta, 0)
	if speed == a.speed {
		return
	}
	a.speed = speed
	a.deliver(simulation.NewSpeedMessage(speed))
}

func (a *App) step(now time.Time) {
	for drained := false; !drained; {
		select {
		case snap := <-a.snapshotCh:
			a.lastState = snap
			if snap.Wrapped > 0 {
				a.cue.Play()
			}
		default:
			drained = true
		}
	}

	dt := now.Sub(a.lastTick).Seconds()
	a.lastTick = now
	a.deliver(simulation.NewTickMessage(dt, ViewportFor(a.cols, a.rows)))
	a.draw()
}

func (a *App) deliver(msg proto.Message) {
	if err := a.send(msg); err != nil {
		a.logger.Errorf("failed to send %T to world: %v", msg, err)
	}
}

func (a *App) draw() {
	a.screen.Clear()

	viewport := ViewportFor(a.cols, a.rows)
	for _, agent := range a.lastState.Agents {
		col, row, ok := CellFor(agent.Position, viewport, a.cols, a.rows)
		if !ok {
			continue
		}
		a.screen.SetContent(col, row, Glyph(agent.Rotation), nil, boidStyle)
	}

	status := fmt.Sprintf(" tick %d | boids %d | speed %.0f | +/- speed  r respawn  q quit ",
		a.lastState.Tick, len(a.lastState.Agents), a.speed)
	a.drawText(0, a.rows-1, status, statusStyle)

	a.screen.Show()
}

func (a *App) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= a.cols {
			return
		}
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
