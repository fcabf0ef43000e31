package simulation

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-boids/pkg/swarm"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Messages understood by the WorldActor. They are protobuf well-known types so
// the same values travel through the actor mailbox and over the websocket:
//
//	*structpb.Struct        Tick {deltaTime, viewportWidth, viewportHeight}
//	*wrapperspb.DoubleValue SetSpeed (world units per second)
//	*emptypb.Empty          Respawn the population
const (
	fieldDeltaTime      = "deltaTime"
	fieldViewportWidth  = "viewportWidth"
	fieldViewportHeight = "viewportHeight"
)

// Tick carries the per-frame input of the simulation.
type Tick struct {
	DeltaTime float64 // seconds since the previous tick
	Viewport  swarm.Viewport
}

// NewTickMessage encodes a tick.
func NewTickMessage(dt float64, viewport swarm.Viewport) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldDeltaTime:      structpb.NewNumberValue(dt),
		fieldViewportWidth:  structpb.NewNumberValue(viewport.Width),
		fieldViewportHeight: structpb.NewNumberValue(viewport.Height),
	}}
}

// ParseTickMessage decodes a tick. A missing field is an error rather than a
// zero, so a sender that forgot the viewport is reported.
func ParseTickMessage(msg *structpb.Struct) (Tick, error) {
	var values [3]float64
	for i, name := range []string{fieldDeltaTime, fieldViewportWidth, fieldViewportHeight} {
		v, ok := msg.GetFields()[name]
		if !ok {
			return Tick{}, fmt.Errorf("tick message has no %q field: %w", name, swarm.ErrConfiguration)
		}
		if _, isNumber := v.GetKind().(*structpb.Value_NumberValue); !isNumber {
			return Tick{}, fmt.Errorf("tick field %q is not a number: %w", name, swarm.ErrConfiguration)
		}
		values[i] = v.GetNumberValue()
	}
	return Tick{
		DeltaTime: values[0],
		Viewport:  swarm.Viewport{Width: values[1], Height: values[2]},
	}, nil
}

// NewSpeedMessage encodes a speed update.
func NewSpeedMessage(speed float64) *wrapperspb.DoubleValue {
	return wrapperspb.Double(speed)
}

// NewRespawnMessage asks the world to rebuild its population.
func NewRespawnMessage() *emptypb.Empty {
	return &emptypb.Empty{}
}

// Snapshot is the copy of the world published after every tick.
type Snapshot struct {
	Tick     uint64
	Speed    float64
	Viewport swarm.Viewport
	Wrapped  int
	Agents   []swarm.Agent
}

// Empty reports whether no tick has been published yet.
func (s *Snapshot) Empty() bool {
	return s == nil || s.Tick == 0
}
