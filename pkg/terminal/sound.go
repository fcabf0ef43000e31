package terminal

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	cueSampleRate = beep.SampleRate(44100)
	cueFrequency  = 880
	cueDuration   = 40 * time.Millisecond
	cueCooldown   = 150 * time.Millisecond
)

// WrapCue plays a short tone when boids wrap around the edges. A cue whose
// speaker could not be opened stays silent.
type WrapCue struct {
	enabled  bool
	lastPlay time.Time
}

// NewWrapCue opens the speaker. The returned cue is usable even when err is
// not nil; sound is optional.
func NewWrapCue() (*WrapCue, error) {
	if err := speaker.Init(cueSampleRate, cueSampleRate.N(time.Second/10)); err != nil {
		return &WrapCue{}, err
	}
	return &WrapCue{enabled: true}, nil
}

// Play beeps, at most once per cooldown period.
func (c *WrapCue) Play() {
	if c == nil || !c.enabled || time.Since(c.lastPlay) < cueCooldown {
		return
	}
	sine, err := generators.SineTone(cueSampleRate, cueFrequency)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(cueSampleRate.N(cueDuration), sine))
	c.lastPlay = time.Now()
}

// Close releases the speaker.
func (c *WrapCue) Close() {
	if c != nil && c.enabled {
		speaker.Close()
		c.enabled = false
	}
}
