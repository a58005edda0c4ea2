package emu

import (
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/game"
)

// Config contains settings that affect the simulated board.
type Config struct {
	Trace        bool // log every byte the LCD controller latches
	Headless     bool // run on a virtual clock as fast as possible
	TickRate     int  // busy-loop ticks per wall millisecond
	SampleRate   int  // buzzer output rate in Hz
	CaptureAudio bool // keep every buzzer sample for WAV export
	Palette      string
	Game         game.Config
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.TickRate <= 0 {
		c.TickRate = clock.DefaultTicksPerMillisecond
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 48000
	}
	c.Game.Defaults()
	if c.Palette == "" {
		c.Palette = "green"
	}
}
