package term

import "time"

// Config contains terminal frontend settings.
type Config struct {
	// Hold is how long a key press keeps its button down. Terminals report
	// no key release; repeats extend the hold.
	Hold    time.Duration
	Muted   bool
	NoSound bool // do not open the speaker at all
	Frame   time.Duration
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Hold <= 0 {
		c.Hold = 150 * time.Millisecond
	}
	if c.Frame <= 0 {
		c.Frame = 16 * time.Millisecond // ~60 FPS
	}
}
