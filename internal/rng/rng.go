// Package rng picks sequence colours from a free-running counter.
package rng

import "github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"

// Source returns a value in [0, n).
type Source interface {
	Intn(n int) int
}

// Counter samples TCNT0 modulo n. The counter runs freely, so the result
// depends on how long the player took to get here.
type Counter struct {
	Bus bus.Bus
}

// Start sets the timer running with no prescaling.
func (c Counter) Start() { c.Bus.Write(bus.TCCR0, 0x01) }

func (c Counter) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(c.Bus.Read(bus.TCNT0)) % n
}

// Fixed replays a list of values, then repeats the last one. Tests use it to
// pin down a colour sequence.
type Fixed struct {
	Values []int
	i      int
}

func (f *Fixed) Intn(n int) int {
	if len(f.Values) == 0 || n <= 0 {
		return 0
	}
	v := f.Values[len(f.Values)-1]
	if f.i < len(f.Values) {
		v = f.Values[f.i]
		f.i++
	}
	return v % n
}
