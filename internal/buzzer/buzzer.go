package buzzer

import (
	"sync"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
)

// The piezo is driven differentially by two lines of the buzzer port.
const (
	PinA byte = 1 << 4
	PinB byte = 1 << 5
)

// DefaultIdle is the longest gap between edges still treated as part of a
// note. The slowest tone in the firmware toggles every 3000 ticks.
const DefaultIdle clock.Ticks = 8000

// Buzzer turns edge timing on the buzzer lines into mono 16-bit samples.
// Edges are time-stamped in clock ticks; the calibration decides how long a
// tick lasts, and therefore the pitch a busy-loop note ends up at.
type Buzzer struct {
	mu sync.Mutex

	sampleRate     int
	ticksPerSample float64
	idle           clock.Ticks
	amp            int16

	level    int // +1, -1 or 0 (both lines equal)
	lastEdge clock.Ticks
	started  bool
	acc      float64 // fractional samples carried between edges
	edges    uint64

	// ring buffer of mono samples
	buf  []int16
	head int
	tail int

	capturing bool
	capture   []int16
}

// New creates a buzzer producing sampleRate samples per second for a clock
// running at ticksPerMs.
func New(sampleRate, ticksPerMs int) *Buzzer {
	if sampleRate <= 0 {
		sampleRate = 48000
	}
	if ticksPerMs <= 0 {
		ticksPerMs = clock.DefaultTicksPerMillisecond
	}
	return &Buzzer{
		sampleRate:     sampleRate,
		ticksPerSample: float64(ticksPerMs) * 1000 / float64(sampleRate),
		idle:           DefaultIdle,
		amp:            6000,
		buf:            make([]int16, 1<<16),
	}
}

// SampleRate returns the output rate in Hz.
func (b *Buzzer) SampleRate() int { return b.sampleRate }

// Write is called with the new level of the buzzer port at time now.
func (b *Buzzer) Write(v byte, now clock.Ticks) {
	lvl := 0
	switch {
	case v&PinA != 0 && v&PinB == 0:
		lvl = 1
	case v&PinB != 0 && v&PinA == 0:
		lvl = -1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started && lvl == b.level {
		return
	}
	if b.started {
		gap := now - b.lastEdge
		switch {
		case gap <= b.idle:
			b.emit(gap, int16(b.level)*b.amp)
		case b.capturing:
			// keep silences in a capture so the recording has true timing
			b.emit(gap, 0)
		}
	}
	b.level = lvl
	b.lastEdge = now
	b.started = true
	b.edges++
}

func (b *Buzzer) emit(gap clock.Ticks, s int16) {
	b.acc += float64(gap) / b.ticksPerSample
	n := int(b.acc)
	b.acc -= float64(n)
	for i := 0; i < n; i++ {
		b.push(s)
		if b.capturing {
			b.capture = append(b.capture, s)
		}
	}
}

func (b *Buzzer) push(s int16) {
	next := (b.head + 1) & (len(b.buf) - 1)
	if next == b.tail {
		return // full, drop
	}
	b.buf[b.head] = s
	b.head = next
}

// Edges returns the number of level changes seen so far.
func (b *Buzzer) Edges() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.edges
}

// Available returns the number of buffered samples.
func (b *Buzzer) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return (b.head - b.tail) & (len(b.buf) - 1)
}

// PullSamples copies up to max mono samples out of the ring buffer.
func (b *Buzzer) PullSamples(max int) []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if max <= 0 || b.head == b.tail {
		return nil
	}
	out := make([]int16, 0, max)
	for len(out) < max && b.tail != b.head {
		out = append(out, b.buf[b.tail])
		b.tail = (b.tail + 1) & (len(b.buf) - 1)
	}
	return out
}

// TrimTo drops the oldest samples so at most target remain buffered.
func (b *Buzzer) TrimTo(target int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for (b.head-b.tail)&(len(b.buf)-1) > target {
		b.tail = (b.tail + 1) & (len(b.buf) - 1)
	}
}

// StartCapture records every emitted sample, silences included, until the
// buzzer is discarded.
func (b *Buzzer) StartCapture() {
	b.mu.Lock()
	b.capturing = true
	b.mu.Unlock()
}

// Capture returns a copy of the recorded samples.
func (b *Buzzer) Capture() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int16, len(b.capture))
	copy(out, b.capture)
	return out
}
