// Package lcd bit-bangs an HD44780 character display over PORTC in 4-bit
// mode. All timing is delay based; there is no busy-flag polling and no error
// channel.
package lcd

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
)

// Commands.
const (
	ClearDisplay byte = 0x01
	DisplayOn    byte = 0x0C
	DisplayOff   byte = 0x08
	EntryMode    byte = 0x06
	FunctionSet  byte = 0x28 // 4-bit, two lines, 5x8 font
	CGRAMAddr    byte = 0x40
	DDRAMAddr    byte = 0x80
	DDRAMAddr2   byte = 0xC0
)

// PORTC lines.
const (
	pinRS byte = 1 << 0
	pinE  byte = 1 << 2
)

// Delays in busy-loop ticks. Their ratios matter more than their absolute
// values.
const (
	PulseHold   clock.Ticks = 1400
	PowerOnWait clock.Ticks = 10000
	ResetGap    clock.Ticks = 1000
)

const (
	GlyphRows  = 8
	GlyphSlots = 8
)

// Driver owns the LCD lines of PORTC. Other PORTC bits are preserved.
type Driver struct {
	bus   bus.Bus
	clk   clock.Clock
	ready bool
}

func New(b bus.Bus, clk clock.Clock) *Driver {
	return &Driver{bus: b, clk: clk}
}

func (d *Driver) port() byte     { return d.bus.Read(bus.PORTC) }
func (d *Driver) setPort(v byte) { d.bus.Write(bus.PORTC, v) }

// pulse strobes E: high, hold, low.
func (d *Driver) pulse() {
	d.setPort(d.port() | pinE)
	d.clk.Delay(PulseHold)
	d.setPort(d.port() &^ pinE)
}

// Init runs the power-on handshake that forces the controller into 4-bit
// mode from any state, then configures two lines, clears and turns the
// display on.
func (d *Driver) Init() {
	d.setPort(d.port() &^ pinRS)
	d.clk.Delay(PowerOnWait)
	for i := 0; i < 3; i++ {
		d.setPort(0x30)
		d.pulse()
		d.clk.Delay(ResetGap)
	}
	d.setPort(0x20)
	d.pulse()
	d.ready = true

	d.Command(FunctionSet)
	d.Command(DisplayOff)
	d.Command(ClearDisplay)
	d.Command(EntryMode)
	d.Command(DisplayOn)
	d.Command(ClearDisplay)
}

// Send transfers one byte as two nibbles, high first. RS is low for
// commands and high for data.
func (d *Driver) Send(command bool, b byte) {
	if !d.ready {
		panic(fmt.Sprintf("lcd: send %#02x before Init", b))
	}
	d.nibble(command, b&0xF0)
	d.nibble(command, b<<4)
}

func (d *Driver) nibble(command bool, hi byte) {
	v := d.port()&0x0F | hi
	d.setPort(v)
	if command {
		v &^= pinRS
	} else {
		v |= pinRS
	}
	d.setPort(v)
	d.pulse()
}

func (d *Driver) Command(b byte) { d.Send(true, b) }
func (d *Driver) Data(b byte)    { d.Send(false, b) }

// Text writes s at the current address.
func (d *Driver) Text(s string) {
	for i := 0; i < len(s); i++ {
		d.Data(s[i])
	}
}

// Line1 moves to the start of the first line and writes s.
func (d *Driver) Line1(s string) {
	d.Command(DDRAMAddr)
	d.Text(s)
}

// Line2 moves to the start of the second line and writes s.
func (d *Driver) Line2(s string) {
	d.Command(DDRAMAddr2)
	d.Text(s)
}

// SetCursor moves the address counter to line (0 or 1), col.
func (d *Driver) SetCursor(line, col int) {
	base := DDRAMAddr
	if line == 1 {
		base = DDRAMAddr2
	}
	d.Command(base + byte(col))
}

func (d *Driver) Clear() { d.Command(ClearDisplay) }

// Glyph uploads an 8-row bitmap into CGRAM slot 0-7. The address counter is
// left in CGRAM; the caller must set a DDRAM address before writing text.
func (d *Driver) Glyph(slot int, rows [GlyphRows]byte) {
	if slot < 0 || slot >= GlyphSlots {
		panic(fmt.Sprintf("lcd: CGRAM slot %d out of range", slot))
	}
	d.Command(CGRAMAddr + byte(slot*GlyphRows))
	for _, r := range rows {
		d.Data(r)
	}
}
