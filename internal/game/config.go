package game

// Config holds the engine switches. It is read once when the engine is built.
// The zero value plays with timeouts and the default caps.
type Config struct {
	NoTimeout   bool // wait forever for every answer
	MaxLevel    int  // classic level cap
	MaxSequence int  // longest sequence a run can reach
	SkipSplash  bool
}

// Defaults fills the caps left at zero. A classic cap above the sequence cap
// could never be reached, so it is lowered to it.
func (c *Config) Defaults() {
	if c.MaxSequence <= 0 {
		c.MaxSequence = 100
	}
	if c.MaxLevel <= 0 {
		c.MaxLevel = 20
	}
	c.MaxLevel = min(c.MaxLevel, c.MaxSequence)
}
