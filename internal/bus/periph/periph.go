// Package periph drives the real board through periph.io GPIO pins.
package periph

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
)

// Pins names the GPIO lines by their periph.io registry names. Bit i of a
// port maps to index i; an empty name leaves that bit unconnected.
type Pins struct {
	PORTC [8]string
	PORTE [8]string
	PINA  [5]string
}

// Defaults is the wiring used on a Raspberry Pi header.
func (p *Pins) Defaults() {
	p.PORTC = [8]string{0: "GPIO25", 2: "GPIO24", 4: "GPIO23", 5: "GPIO17", 6: "GPIO18", 7: "GPIO22"}
	p.PORTE = [8]string{4: "GPIO12", 5: "GPIO13"}
	p.PINA = [5]string{"GPIO5", "GPIO6", "GPIO16", "GPIO20", "GPIO21"}
}

// Bus implements bus.Bus on top of GPIO pins. TCNT0 is emulated from the
// monotonic clock since there is no hardware timer to sample.
type Bus struct {
	portc, porte [8]gpio.PinIO
	pina         [5]gpio.PinIO

	lc, le  byte
	tccr0   byte
	started time.Time
}

// Open initialises the host drivers and claims every named pin.
func Open(p Pins) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	b := &Bus{}
	out := func(dst *[8]gpio.PinIO, names [8]string) error {
		for i, n := range names {
			if n == "" {
				continue
			}
			pin := gpioreg.ByName(n)
			if pin == nil {
				return fmt.Errorf("gpio %q not found", n)
			}
			if err := pin.Out(gpio.Low); err != nil {
				return fmt.Errorf("gpio %s out: %w", n, err)
			}
			dst[i] = pin
		}
		return nil
	}
	if err := out(&b.portc, p.PORTC); err != nil {
		return nil, err
	}
	if err := out(&b.porte, p.PORTE); err != nil {
		return nil, err
	}
	for i, n := range p.PINA {
		pin := gpioreg.ByName(n)
		if pin == nil {
			return nil, fmt.Errorf("gpio %q not found", n)
		}
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("gpio %s in: %w", n, err)
		}
		b.pina[i] = pin
	}
	return b, nil
}

func (b *Bus) Read(r bus.Reg) byte {
	switch r {
	case bus.PINA:
		v := byte(0xFF)
		for i, pin := range b.pina {
			if pin != nil && pin.Read() == gpio.Low {
				v &^= 1 << i
			}
		}
		return v
	case bus.PORTC:
		return b.lc
	case bus.PORTE:
		return b.le
	case bus.TCCR0:
		return b.tccr0
	case bus.TCNT0:
		if b.tccr0&0x07 == 0 {
			return 0
		}
		return byte(time.Since(b.started) / time.Microsecond)
	}
	return 0xFF
}

func (b *Bus) Write(r bus.Reg, v byte) {
	switch r {
	case bus.PORTC:
		drive(&b.portc, b.lc, v)
		b.lc = v
	case bus.PORTE:
		drive(&b.porte, b.le, v)
		b.le = v
	case bus.TCCR0:
		if b.tccr0&0x07 == 0 && v&0x07 != 0 {
			b.started = time.Now()
		}
		b.tccr0 = v
	}
}

// drive updates only the pins whose level changed. Errors are dropped: the
// game has no way to react to a failed write.
func drive(pins *[8]gpio.PinIO, old, v byte) {
	for i, pin := range pins {
		bit := byte(1) << i
		if pin == nil || (old^v)&bit == 0 {
			continue
		}
		_ = pin.Out(gpio.Level(v&bit != 0))
	}
}
