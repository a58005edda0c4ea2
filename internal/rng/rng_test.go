package rng

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
)

func TestCounterSamplesTimer(t *testing.T) {
	clk := clock.NewVirtual()
	c := Counter{Bus: bus.NewSim(clk, nil, nil)}
	if c.Intn(4) != 0 {
		t.Fatalf("stopped timer should read 0")
	}
	c.Start()
	seen := map[int]bool{}
	for i := 0; i < 64; i++ {
		clk.Delay(1000)
		v := c.Intn(4)
		if v < 0 || v >= 4 {
			t.Fatalf("Intn(4) out of range: %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected all four colours over 64 samples, got %v", seen)
	}
	if c.Intn(0) != 0 {
		t.Fatalf("Intn(0) should be 0")
	}
}

func TestFixedRepeatsLast(t *testing.T) {
	f := &Fixed{Values: []int{1, 6}}
	got := []int{f.Intn(4), f.Intn(4), f.Intn(4)}
	if got[0] != 1 || got[1] != 2 || got[2] != 2 {
		t.Fatalf("Fixed got %v, want [1 2 2]", got)
	}
}
