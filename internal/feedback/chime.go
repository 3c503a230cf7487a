// Package feedback provides audible cues for stylesheet reloads.
package feedback

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

const chimeSampleRate = beep.SampleRate(44100)

// Chime plays short generated tones when a stylesheet reload succeeds or
// fails, so live edits are noticeable without watching the window.
type Chime struct {
	mu          sync.Mutex
	logger      *slog.Logger
	initialized bool
}

// NewChime creates a chime player. The speaker is initialized lazily on
// first use.
func NewChime(logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chime{logger: logger}
}

// Success plays a short rising two-tone cue.
func (c *Chime) Success() {
	c.play([]float64{880, 1175}, 90*time.Millisecond)
}

// Failure plays a short falling two-tone cue.
func (c *Chime) Failure() {
	c.play([]float64{440, 330}, 140*time.Millisecond)
}

func (c *Chime) play(freqs []float64, toneLen time.Duration) {
	if err := c.ensureInitialized(); err != nil {
		c.logger.Debug("chime unavailable", "error", err)
		return
	}

	var tones []beep.Streamer
	for _, freq := range freqs {
		tone, err := generators.SineTone(chimeSampleRate, freq)
		if err != nil {
			c.logger.Debug("cannot generate tone", "freq", freq, "error", err)
			return
		}
		tones = append(tones, beep.Take(chimeSampleRate.N(toneLen), tone))
	}
	speaker.Play(beep.Seq(tones...))
}

func (c *Chime) ensureInitialized() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	bufferSize := chimeSampleRate.N(time.Millisecond * 100)
	if err := speaker.Init(chimeSampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	c.initialized = true
	c.logger.Debug("speaker initialized", "sample_rate", chimeSampleRate)
	return nil
}

// Close releases the speaker.
func (c *Chime) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		speaker.Close()
		c.initialized = false
	}
}
