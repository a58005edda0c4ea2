// Package tone plays square waves by toggling the buzzer pair on PORTE.
// Pitch and duration are both busy-loop counts: a note with Freq f and Len n
// lasts 2*f*n ticks.
package tone

import (
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
)

const (
	pinA byte = 1 << 4
	pinB byte = 1 << 5
)

// Note is one entry of a tune. A zero Freq terminates a tune.
type Note struct {
	Freq clock.Ticks // half period
	Len  int         // periods
}

var (
	TuneStart    = []Note{{2000, 40}, {0, 0}}
	TuneLevelUp  = []Note{{3000, 20}, {0, 0}}
	TuneGameOver = []Note{{1000, 200}, {1500, 200}, {2000, 400}, {0, 0}}
)

// UI feedback notes.
var (
	Navigate = Note{2000, 10}
	Confirm  = Note{3000, 30}
	Mistake  = Note{500, 300}
)

// Generator blocks the caller for the whole note.
type Generator struct {
	Bus   bus.Bus
	Clock clock.Clock
}

// PlayNote toggles the buzzer pair length times, waiting freq ticks per half
// period.
func (g Generator) PlayNote(freq clock.Ticks, length int) {
	for i := 0; i < length; i++ {
		v := g.Bus.Read(bus.PORTE)
		g.Bus.Write(bus.PORTE, v&^pinB|pinA)
		g.Clock.Delay(freq)
		v = g.Bus.Read(bus.PORTE)
		g.Bus.Write(bus.PORTE, v&^pinA|pinB)
		g.Clock.Delay(freq)
	}
}

// Play plays a single note.
func (g Generator) Play(n Note) { g.PlayNote(n.Freq, n.Len) }

// PlayTune plays notes until a zero Freq or the end of the slice.
func (g Generator) PlayTune(notes []Note) {
	for _, n := range notes {
		if n.Freq == 0 {
			return
		}
		g.PlayNote(n.Freq, n.Len)
	}
}

// Duration returns how long a tune blocks.
func Duration(notes []Note) clock.Ticks {
	var d clock.Ticks
	for _, n := range notes {
		if n.Freq == 0 {
			break
		}
		d += 2 * n.Freq * clock.Ticks(n.Len)
	}
	return d
}
