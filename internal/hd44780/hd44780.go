package hd44780

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"
)

// Geometry of the 16x2 module on the board.
const (
	Cols       = 16
	Rows       = 2
	LineWidth  = 40   // DDRAM bytes per line
	Line2Addr  = 0x40 // DDRAM address of the second line
	GlyphSlots = 8
	GlyphRows  = 8
)

// Control and data lines on the LCD port.
const (
	PinRS    byte = 1 << 0
	PinE     byte = 1 << 2
	DataMask byte = 0xF0 // D4-D7
)

// Transfer is one byte the controller latched.
type Transfer struct {
	Command bool
	Value   byte
}

// String formats a transfer the way lcdtrace prints it: CMD 0x28, DAT 'S',
// DAT 0x04 for codes outside printable ASCII.
func (t Transfer) String() string {
	if t.Command {
		return fmt.Sprintf("CMD 0x%02X", t.Value)
	}
	if t.Value >= 0x20 && t.Value < 0x7F {
		return fmt.Sprintf("DAT '%c'", t.Value)
	}
	return fmt.Sprintf("DAT 0x%02X", t.Value)
}

// Controller models an HD44780 wired in 4-bit mode: DDRAM, CGRAM, address
// counter and the nibble phase of the bus. Bytes are latched on the falling
// edge of E. Nothing is checked against busy timing; the controller accepts
// whatever arrives.
type Controller struct {
	lock sync.Locker

	ddram [0x80]byte
	cgram [GlyphSlots * GlyphRows]byte

	ac        byte // address counter
	cgSelect  bool // data goes to CGRAM
	increment bool
	fourBit   bool
	twoLine   bool
	displayOn bool
	cursorOn  bool
	blinkOn   bool

	// 4-bit bus phase
	pending bool
	hi      byte

	pins    byte
	dirty   bool
	cgDirty bool

	// OnTransfer, when set, sees every latched byte. It runs with the state
	// lock held and must not call back into the controller.
	OnTransfer func(Transfer)
}

// New returns a controller in its power-on state (8-bit interface, blank DDRAM).
func New() *Controller {
	c := &Controller{increment: true}
	for i := range c.ddram {
		c.ddram[i] = ' '
	}
	return c
}

// SetStateLock installs the lock shared with the rendering side. Every state
// change and every snapshot is taken under it.
func (c *Controller) SetStateLock(l sync.Locker) { c.lock = l }

// WritePins is called with the new level of the LCD port on every write.
// The bus phase and the latched byte change together under the state lock, so
// a snapshot or dump always sees the controller between two port writes.
func (c *Controller) WritePins(v byte) {
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}
	prev := c.pins
	c.pins = v
	if prev&PinE == 0 || v&PinE != 0 {
		return
	}
	// falling edge of E: latch D4-D7 and RS
	nibble := v >> 4
	rs := v&PinRS != 0
	if !c.fourBit {
		// 8-bit interface with D0-D3 tied low
		c.execute(rs, nibble<<4)
		return
	}
	if !c.pending {
		c.hi = nibble
		c.pending = true
		return
	}
	c.pending = false
	c.execute(rs, c.hi<<4|nibble)
}

func (c *Controller) execute(rs bool, v byte) {
	if rs {
		c.writeData(v)
	} else {
		c.command(v)
	}
	if c.OnTransfer != nil {
		c.OnTransfer(Transfer{Command: !rs, Value: v})
	}
}

func (c *Controller) command(v byte) {
	switch {
	case v&0x80 != 0: // set DDRAM address
		c.ac = v & 0x7F
		c.cgSelect = false
	case v&0x40 != 0: // set CGRAM address
		c.ac = v & 0x3F
		c.cgSelect = true
	case v&0x20 != 0: // function set
		c.fourBit = v&0x10 == 0
		c.twoLine = v&0x08 != 0
		c.pending = false
	case v&0x10 != 0: // cursor/display shift; only cursor moves are modelled
		if v&0x08 == 0 {
			c.step(v&0x04 != 0)
		}
	case v&0x08 != 0: // display control
		c.displayOn = v&0x04 != 0
		c.cursorOn = v&0x02 != 0
		c.blinkOn = v&0x01 != 0
		c.dirty = true
	case v&0x04 != 0: // entry mode
		c.increment = v&0x02 != 0
	case v&0x02 != 0: // return home
		c.ac = 0
		c.cgSelect = false
	case v == 0x01: // clear display
		for i := range c.ddram {
			c.ddram[i] = ' '
		}
		c.ac = 0
		c.cgSelect = false
		c.increment = true
		c.dirty = true
	}
}

func (c *Controller) writeData(v byte) {
	if c.cgSelect {
		c.cgram[c.ac&0x3F] = v & 0x1F
		c.cgDirty = true
	} else {
		c.ddram[c.ac&0x7F] = v
		c.dirty = true
	}
	c.step(c.increment)
}

// step moves the address counter, wrapping the way the controller does in
// two-line mode (0x27 -> 0x40, 0x67 -> 0x00).
func (c *Controller) step(forward bool) {
	if c.cgSelect {
		if forward {
			c.ac = (c.ac + 1) & 0x3F
		} else {
			c.ac = (c.ac - 1) & 0x3F
		}
		return
	}
	if forward {
		c.ac++
		switch c.ac {
		case LineWidth:
			c.ac = Line2Addr
		case Line2Addr + LineWidth:
			c.ac = 0
		}
		return
	}
	switch c.ac {
	case 0:
		c.ac = Line2Addr + LineWidth - 1
	case Line2Addr:
		c.ac = LineWidth - 1
	default:
		c.ac--
	}
}

// FourBit reports whether the 4-bit handshake has completed.
func (c *Controller) FourBit() bool {
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}
	return c.fourBit
}

// Pending reports whether a high nibble is waiting for its low half.
func (c *Controller) Pending() bool {
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}
	return c.pending
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	Lines     [Rows][LineWidth]byte
	CGRAM     [GlyphSlots][GlyphRows]byte
	DisplayOn bool
	Dirty     bool // DDRAM or display state changed since the last snapshot
	CGDirty   bool // CGRAM changed since the last snapshot
}

// Snapshot copies the controller state under the state lock and marks it
// seen. A renderer that never installed the lock is a wiring bug; it panics.
func (c *Controller) Snapshot() Snapshot {
	if c.lock == nil {
		panic("hd44780: Snapshot without a state lock; call SetStateLock first")
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	var s Snapshot
	copy(s.Lines[0][:], c.ddram[0:LineWidth])
	copy(s.Lines[1][:], c.ddram[Line2Addr:Line2Addr+LineWidth])
	for g := 0; g < GlyphSlots; g++ {
		copy(s.CGRAM[g][:], c.cgram[g*GlyphRows:(g+1)*GlyphRows])
	}
	s.DisplayOn = c.displayOn
	s.Dirty = c.dirty
	s.CGDirty = c.cgDirty
	c.dirty = false
	c.cgDirty = false
	return s
}

// Row returns the visible bytes of a line.
func (s Snapshot) Row(line int) []byte { return s.Lines[line][:Cols] }

// Text returns the visible part of a line as a string; CGRAM codes stay as
// raw bytes 0x00-0x07.
func (s Snapshot) Text(line int) string { return string(s.Row(line)) }

// Glyph returns the bitmap behind a character code, if it maps to CGRAM.
// Codes 0x08-0x0F mirror 0x00-0x07.
func (s Snapshot) Glyph(code byte) ([GlyphRows]byte, bool) {
	if code >= 0x10 {
		return [GlyphRows]byte{}, false
	}
	return s.CGRAM[code&0x07], true
}

// --- Save/Load state ---
type controllerState struct {
	DDRAM     [0x80]byte
	CGRAM     [GlyphSlots * GlyphRows]byte
	AC        byte
	CGSelect  bool
	Increment bool
	FourBit   bool
	TwoLine   bool
	DisplayOn bool
	CursorOn  bool
	BlinkOn   bool
	Pending   bool
	Hi        byte
	Pins      byte
}

func (c *Controller) SaveState() []byte {
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	s := controllerState{
		DDRAM: c.ddram, CGRAM: c.cgram, AC: c.ac, CGSelect: c.cgSelect,
		Increment: c.increment, FourBit: c.fourBit, TwoLine: c.twoLine,
		DisplayOn: c.displayOn, CursorOn: c.cursorOn, BlinkOn: c.blinkOn,
		Pending: c.pending, Hi: c.hi, Pins: c.pins,
	}
	_ = enc.Encode(s)
	return buf.Bytes()
}

func (c *Controller) LoadState(data []byte) error {
	var s controllerState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return err
	}
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}
	c.ddram, c.cgram, c.ac, c.cgSelect = s.DDRAM, s.CGRAM, s.AC, s.CGSelect
	c.increment, c.fourBit, c.twoLine = s.Increment, s.FourBit, s.TwoLine
	c.displayOn, c.cursorOn, c.blinkOn = s.DisplayOn, s.CursorOn, s.BlinkOn
	c.pending, c.hi, c.pins = s.Pending, s.Hi, s.Pins
	c.dirty, c.cgDirty = true, true
	return nil
}
