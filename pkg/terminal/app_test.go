package terminal

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-boids/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids/pkg/swarm"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type recorder struct {
	messages []proto.Message
}

func (r *recorder) send(msg proto.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func newTestApp(t *testing.T, speed float64) (*App, *recorder, chan *simulation.Snapshot, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 10)

	cfg := simulation.DefaultConfig()
	cfg.Speed = speed
	rec := &recorder{}
	snapshots := make(chan *simulation.Snapshot, 1)
	return NewApp(screen, cfg, rec.send, snapshots, log.DiscardLogger, nil), rec, snapshots, screen
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestApp_SpeedKeys(t *testing.T) {
	app, rec, _, _ := newTestApp(t, 50)

	app.handleEvent(key('+'))
	app.handleEvent(key('-'))
	app.handleEvent(key('-'))

	want := []float64{60, 50, 40}
	if len(rec.messages) != len(want) {
		t.Fatalf("sent %d messages; want %d", len(rec.messages), len(want))
	}
	for i, msg := range rec.messages {
		speed, ok := msg.(*wrapperspb.DoubleValue)
		if !ok {
			t.Fatalf("message %d is %T; want *wrapperspb.DoubleValue", i, msg)
		}
		if speed.GetValue() != want[i] {
			t.Errorf("message %d speed = %v; want %v", i, speed.GetValue(), want[i])
		}
	}
}

func TestApp_SpeedNeverNegative(t *testing.T) {
	app, rec, _, _ := newTestApp(t, 5)

	app.handleEvent(key('-'))
	app.handleEvent(key('-'))

	if len(rec.messages) != 1 {
		t.Fatalf("sent %d messages; want 1 (second press is a no-op)", len(rec.messages))
	}
	if got := rec.messages[0].(*wrapperspb.DoubleValue).GetValue(); got != 0 {
		t.Errorf("speed = %v; want 0", got)
	}
}

func TestApp_Keys(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		keepOn   bool
		respawns bool
	}{
		{"Quit", key('q'), false, false},
		{"Escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false, false},
		{"CtrlC", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), false, false},
		{"Respawn", key('r'), true, true},
		{"Ignored", key('x'), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, rec, _, _ := newTestApp(t, 50)
			if got := app.handleEvent(tt.ev); got != tt.keepOn {
				t.Errorf("handleEvent = %v; want %v", got, tt.keepOn)
			}
			respawned := len(rec.messages) == 1
			if respawned {
				if _, ok := rec.messages[0].(*emptypb.Empty); !ok {
					t.Fatalf("sent %T; want *emptypb.Empty", rec.messages[0])
				}
			}
			if respawned != tt.respawns {
				t.Errorf("respawn sent = %v; want %v", respawned, tt.respawns)
			}
		})
	}
}

func TestApp_StepSendsTickAndDraws(t *testing.T) {
	app, rec, snapshots, screen := newTestApp(t, 50)

	snapshots <- &simulation.Snapshot{
		Tick:  1,
		Speed: 50,
		Agents: []swarm.Agent{
			{Handle: 0, Position: geometry.NewVector(0, 0), Heading: geometry.NewVector(0, 1), Rotation: 0},
		},
	}
	app.step(app.lastTick.Add(100 * time.Millisecond))

	if len(rec.messages) != 1 {
		t.Fatalf("sent %d messages; want 1 tick", len(rec.messages))
	}
	msg, ok := rec.messages[0].(*structpb.Struct)
	if !ok {
		t.Fatalf("sent %T; want *structpb.Struct", rec.messages[0])
	}
	tick, err := simulation.ParseTickMessage(msg)
	if err != nil {
		t.Fatalf("ParseTickMessage: %v", err)
	}
	if tick.Viewport.Width != 400 || tick.Viewport.Height != 200 {
		t.Errorf("tick viewport = %+v; want 400x200", tick.Viewport)
	}
	if tick.DeltaTime < 0.099 || tick.DeltaTime > 0.101 {
		t.Errorf("tick dt = %v; want 0.1", tick.DeltaTime)
	}

	// (0,0) sits in the middle of the 40x10 grid
	if r, _, _, _ := screen.GetContent(20, 5); r != '↑' {
		t.Errorf("cell (20,5) = %q; want '↑'", r)
	}
}

func TestApp_Resize(t *testing.T) {
	app, _, _, screen := newTestApp(t, 50)

	screen.SetSize(60, 20)
	app.handleEvent(tcell.NewEventResize(60, 20))

	if app.cols != 60 || app.rows != 20 {
		t.Errorf("grid = %dx%d; want 60x20", app.cols, app.rows)
	}
}
