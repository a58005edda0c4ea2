package bus

import (
	"sync/atomic"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/buzzer"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
)

// TimerDivider is the number of clock ticks per TCNT0 count on the
// simulated board.
const TimerDivider = 7

// ButtonSource supplies the pressed button lines (active high) each time
// PINA is sampled.
type ButtonSource interface {
	Pressed() byte
}

// Sim is the simulated board: PORTC drives an HD44780 model, PORTE a buzzer
// model, PINA reads button levels set by a frontend or a ButtonSource.
type Sim struct {
	clk    clock.Clock
	lcd    *hd44780.Controller
	buzzer *buzzer.Buzzer

	pressed atomic.Uint32
	source  ButtonSource
	reads   atomic.Uint64

	portc, porte, tccr0 byte
	timerStart          clock.Ticks
}

// NewSim wires a simulated board. lcd and bz may be nil when a test has no
// use for them.
func NewSim(clk clock.Clock, lcd *hd44780.Controller, bz *buzzer.Buzzer) *Sim {
	return &Sim{clk: clk, lcd: lcd, buzzer: bz, porte: buzzer.PinA | buzzer.PinB}
}

// SetButtons sets the pressed lines (active high, LineMask bits). Safe to
// call from a frontend goroutine.
func (s *Sim) SetButtons(mask byte) { s.pressed.Store(uint32(mask & LineMask)) }

// Press adds lines to the pressed set.
func (s *Sim) Press(mask byte) {
	for {
		old := s.pressed.Load()
		if s.pressed.CompareAndSwap(old, old|uint32(mask&LineMask)) {
			return
		}
	}
}

// Release removes lines from the pressed set.
func (s *Sim) Release(mask byte) {
	for {
		old := s.pressed.Load()
		if s.pressed.CompareAndSwap(old, old&^uint32(mask)) {
			return
		}
	}
}

// Buttons returns the lines currently held through SetButtons/Press.
func (s *Sim) Buttons() byte { return byte(s.pressed.Load()) }

// SetButtonSource replaces the atomic button state with src. Pass nil to
// go back to SetButtons.
func (s *Sim) SetButtonSource(src ButtonSource) { s.source = src }

// Reads returns how many times PINA has been sampled.
func (s *Sim) Reads() uint64 { return s.reads.Load() }

func (s *Sim) Read(r Reg) byte {
	switch r {
	case PINA:
		s.reads.Add(1)
		p := byte(s.pressed.Load())
		if s.source != nil {
			p = s.source.Pressed()
		}
		// unused upper lines float high through the pull-ups
		return ^(p & LineMask)
	case PORTC:
		return s.portc
	case PORTE:
		return s.porte
	case TCCR0:
		return s.tccr0
	case TCNT0:
		if s.tccr0&0x07 == 0 {
			return 0
		}
		return byte((s.clk.Now() - s.timerStart) / TimerDivider)
	}
	return 0xFF
}

func (s *Sim) Write(r Reg, v byte) {
	switch r {
	case PORTC:
		s.portc = v
		if s.lcd != nil {
			s.lcd.WritePins(v)
		}
	case PORTE:
		s.porte = v
		if s.buzzer != nil {
			s.buzzer.Write(v, s.clk.Now())
		}
	case TCCR0:
		if s.tccr0&0x07 == 0 && v&0x07 != 0 {
			s.timerStart = s.clk.Now()
		}
		s.tccr0 = v
	}
}
