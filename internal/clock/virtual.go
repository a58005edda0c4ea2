package clock

import (
	"errors"
	"sync/atomic"
)

// ErrExhausted is the panic value raised by a Virtual clock that ran past its
// limit. Callers driving an engine that never returns recover it.
var ErrExhausted = errors.New("clock: virtual time limit reached")

// Virtual advances instantly. It is used by tests and by headless runs.
type Virtual struct {
	now atomic.Int64

	// Limit stops the clock by panicking with ErrExhausted once Now passes it.
	// Zero means unlimited.
	Limit Ticks

	// OnAdvance runs after every delay with the new time.
	OnAdvance func(now Ticks)
}

func NewVirtual() *Virtual { return &Virtual{} }

func (v *Virtual) Delay(t Ticks) {
	if t < 0 {
		t = 0
	}
	now := Ticks(v.now.Add(int64(t)))
	if v.OnAdvance != nil {
		v.OnAdvance(now)
	}
	if v.Limit > 0 && now > v.Limit {
		panic(ErrExhausted)
	}
}

func (v *Virtual) Now() Ticks { return Ticks(v.now.Load()) }
