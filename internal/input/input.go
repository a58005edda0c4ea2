// Package input turns the five active-low button lines into press events.
//
// Debounce is level based: Poll reports a press only while the accept latch
// is set and clears it; Unlock sets it again once every line reads released.
package input

import (
	"strings"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
)

type Button uint8

const (
	None Button = iota
	Center
	Left
	Right
	Up
	Down
)

func (b Button) String() string {
	switch b {
	case Center:
		return "center"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "none"
}

// ParseButton accepts a button, colour or keyboard key name (E, I, F, J,
// Enter).
func ParseButton(name string) (Button, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "up", "red", "e":
		return Up, true
	case "right", "green", "i":
		return Right, true
	case "left", "blue", "f":
		return Left, true
	case "center", "centre", "yellow", "j":
		return Center, true
	case "down", "enter", "ok":
		return Down, true
	}
	return None, false
}

// Color is a sequence element. Each colour is bound to one button.
type Color uint8

const (
	NoColor Color = iota
	Red
	Green
	Blue
	Yellow
)

// Colors lists the colours in the order the random source indexes them.
var Colors = [4]Color{Red, Green, Blue, Yellow}

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	}
	return "none"
}

// Button returns the button that enters c.
func (c Color) Button() Button {
	switch c {
	case Red:
		return Up
	case Green:
		return Right
	case Blue:
		return Left
	case Yellow:
		return Center
	}
	return None
}

// Color returns the colour a button enters; Down and None have none.
func (b Button) Color() Color {
	switch b {
	case Up:
		return Red
	case Right:
		return Green
	case Left:
		return Blue
	case Center:
		return Yellow
	}
	return NoColor
}

// priority is the fixed order in which simultaneous presses are resolved.
var priority = [...]struct {
	line byte
	b    Button
}{
	{bus.LineRight, Right},
	{bus.LineUp, Up},
	{bus.LineCenter, Center},
	{bus.LineLeft, Left},
	{bus.LineDown, Down},
}

// Line returns the PINA bit of a button.
func (b Button) Line() byte {
	for _, p := range priority {
		if p.b == b {
			return p.line
		}
	}
	return 0
}

// PollInterval is the pause the wait helpers put between polls.
const PollInterval clock.Ticks = 100

// Manager owns the accept latch. It has a single consumer.
type Manager struct {
	bus    bus.Bus
	clk    clock.Clock
	accept bool
}

func New(b bus.Bus, clk clock.Clock) *Manager {
	return &Manager{bus: b, clk: clk, accept: true}
}

// Accepting reports the latch state.
func (m *Manager) Accepting() bool { return m.accept }

// Poll returns the highest priority pressed button if the latch is set,
// clearing the latch. Every line is sampled with its own PINA read.
func (m *Manager) Poll() Button {
	for _, p := range priority {
		if m.bus.Read(bus.PINA)&p.line == 0 && m.accept {
			m.accept = false
			return p.b
		}
	}
	return None
}

// Unlock re-arms the latch when all five lines read released.
func (m *Manager) Unlock() {
	if m.bus.Read(bus.PINA)&bus.LineMask == bus.LineMask {
		m.accept = true
	}
}

// Drain consumes a press that is still pending. It does not wait for the
// held button to be released; the latch already keeps it from repeating.
func (m *Manager) Drain() {
	for m.Poll() != None {
		m.Unlock()
	}
}

// WaitPress blocks until a button is accepted and returns it.
func (m *Manager) WaitPress() Button {
	for {
		if b := m.Poll(); b != None {
			return b
		}
		m.Unlock()
		m.clk.Delay(PollInterval)
	}
}

// Acknowledge waits for a press and consumes it, for screens that any button
// dismisses.
func (m *Manager) Acknowledge() Button {
	b := m.WaitPress()
	m.Drain()
	return b
}
