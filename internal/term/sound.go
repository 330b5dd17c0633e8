package term

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate    = beep.SampleRate(44100)
	eatToneHz     = 880
	eatToneLength = 60 * time.Millisecond
)

// Sound plays short cues. The zero value and a nil *Sound are silent.
type Sound struct {
	mu      sync.Mutex
	enabled bool
}

// NewSound initialises the speaker. On failure the returned Sound is silent and the
// error says why, so callers can log it and carry on.
func NewSound() (*Sound, error) {
	s := &Sound{}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return s, err
	}
	s.enabled = true
	return s, nil
}

// Enabled reports whether cues reach the speaker.
func (s *Sound) Enabled() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Eat plays the food cue.
func (s *Sound) Eat() {
	if !s.Enabled() {
		return
	}
	tone, err := generators.SineTone(sampleRate, eatToneHz)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(eatToneLength), tone))
}

// Close silences the speaker.
func (s *Sound) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		speaker.Clear()
		s.enabled = false
	}
}
