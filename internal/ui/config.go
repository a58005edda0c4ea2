package ui

// Config contains window/input/audio related settings.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor of the LCD panel
	// Audio buffering
	AudioBufferMs   int  // desired buffer in ms (approx)
	AudioLowLatency bool // hard-cap buffering for minimal latency
	Muted           bool
	StateDir        string // where quick-save slots live
	ShowBoard       bool   // draw the five button indicators under the panel
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "Simon Says"
	}
	if c.Scale <= 0 {
		c.Scale = 4
	}
	if c.AudioBufferMs <= 0 {
		c.AudioBufferMs = 60
	}
	if c.StateDir == "" {
		c.StateDir = "."
	}
}
