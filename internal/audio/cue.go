package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	cueFrequency = 880.0
	cueLength    = 600 * time.Millisecond
)

// Player plays the phase-complete cue on the default output device.
type Player struct {
	mu       sync.Mutex
	enabled  bool
	volume   float64
	initOnce sync.Once
	initErr  error
}

// NewPlayer creates a player. volume is a fraction in [0, 1].
func NewPlayer(enabled bool, volume float64) *Player {
	player := &Player{}
	player.Configure(enabled, volume)
	return player
}

// Configure updates the cue preferences.
func (player *Player) Configure(enabled bool, volume float64) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.enabled = enabled
	player.volume = math.Max(0, math.Min(1, volume))
}

// PlayCue plays the completion cue. The speaker is initialized on first use.
func (player *Player) PlayCue() error {
	player.mu.Lock()
	enabled, volume := player.enabled, player.volume
	player.mu.Unlock()
	if !enabled {
		return nil
	}

	player.initOnce.Do(func() {
		if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
			player.initErr = fmt.Errorf("init speaker: %w", err)
		}
	})
	if player.initErr != nil {
		return player.initErr
	}

	speaker.Play(WithVolume(Tone(sampleRate, cueFrequency, cueLength), volume))
	return nil
}

// Tone returns a sine tone of the given frequency that ends after length.
// The last tenth of the tone fades out to avoid a click.
func Tone(rate beep.SampleRate, frequency float64, length time.Duration) beep.Streamer {
	total := rate.N(length)
	fade := total / 10
	position := 0
	step := 2 * math.Pi * frequency / float64(rate)
	sine := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			value := math.Sin(step * float64(position))
			if left := total - position; fade > 0 && left < fade {
				value *= float64(left) / float64(fade)
			}
			samples[i][0] = value
			samples[i][1] = value
			position++
		}
		return len(samples), true
	})
	return beep.Take(total, sine)
}

// WithVolume scales streamer by a linear fraction in [0, 1].
func WithVolume(streamer beep.Streamer, fraction float64) beep.Streamer {
	if fraction <= 0 {
		return &effects.Volume{Streamer: streamer, Base: 2, Silent: true}
	}
	return &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   math.Log2(math.Min(fraction, 1)),
	}
}
