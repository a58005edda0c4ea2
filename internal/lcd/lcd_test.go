package lcd

import (
	"sync"
	"testing"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
)

func newBoard(t *testing.T) (*Driver, *hd44780.Controller, *clock.Virtual) {
	t.Helper()
	clk := clock.NewVirtual()
	ctl := hd44780.New()
	ctl.SetStateLock(&sync.Mutex{})
	d := New(bus.NewSim(clk, ctl, nil), clk)
	return d, ctl, clk
}

func TestInitReachesFourBitMode(t *testing.T) {
	d, ctl, clk := newBoard(t)
	var got []hd44780.Transfer
	ctl.OnTransfer = func(tr hd44780.Transfer) { got = append(got, tr) }
	d.Init()

	if !ctl.FourBit() {
		t.Fatalf("controller not in 4-bit mode after Init")
	}
	// 4 handshake strobes seen as 8-bit commands, then 6 full commands
	want := []byte{0x30, 0x30, 0x30, 0x20, 0x28, 0x08, 0x01, 0x06, 0x0C, 0x01}
	if len(got) != len(want) {
		t.Fatalf("transfers got %d, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if !got[i].Command || got[i].Value != w {
			t.Fatalf("transfer %d got %+v, want CMD %#02x", i, got[i], w)
		}
	}
	s := ctl.Snapshot()
	if !s.DisplayOn {
		t.Fatalf("display should be on")
	}
	// power-on wait + 3*(pulse+gap) + pulse + 6 commands of two pulses
	ticks := PowerOnWait + 3*(PulseHold+ResetGap) + PulseHold + 12*PulseHold
	if clk.Now() != ticks {
		t.Fatalf("Init took %d ticks, want %d", clk.Now(), ticks)
	}
}

func TestLinesAndCursor(t *testing.T) {
	d, ctl, _ := newBoard(t)
	d.Init()
	d.Line1(" CLASSIC MODE")
	d.Line2("  Get Ready...")
	d.SetCursor(1, 14)
	d.Text("!!")
	s := ctl.Snapshot()
	if got := s.Text(0); got != " CLASSIC MODE   " {
		t.Fatalf("line 1 got %q", got)
	}
	if got := s.Text(1); got != "  Get Ready...!!" {
		t.Fatalf("line 2 got %q", got)
	}
	d.Clear()
	if got := ctl.Snapshot().Text(0); got != "                " {
		t.Fatalf("after Clear got %q", got)
	}
}

func TestGlyphUpload(t *testing.T) {
	d, ctl, _ := newBoard(t)
	d.Init()
	skull := [GlyphRows]byte{0x0E, 0x15, 0x1B, 0x0E, 0x0E, 0x0A, 0x0E, 0x00}
	d.Glyph(5, skull)
	d.SetCursor(0, 0)
	d.Data(5)
	s := ctl.Snapshot()
	if g, ok := s.Glyph(s.Row(0)[0]); !ok || g != skull {
		t.Fatalf("slot 5 got %v, want %v", g, skull)
	}
}

func TestSendBeforeInitPanics(t *testing.T) {
	d, _, _ := newBoard(t)
	defer func() {
		if recover() == nil {
			t.Fatalf("Send before Init should panic")
		}
	}()
	d.Data('A')
}

func TestGlyphSlotOutOfRangePanics(t *testing.T) {
	d, _, _ := newBoard(t)
	d.Init()
	defer func() {
		if recover() == nil {
			t.Fatalf("slot 8 should panic")
		}
	}()
	d.Glyph(8, [GlyphRows]byte{})
}

func TestSendKeepsLowPortBits(t *testing.T) {
	clk := clock.NewVirtual()
	sim := bus.NewSim(clk, nil, nil)
	d := New(sim, clk)
	d.Init()
	sim.Write(bus.PORTC, sim.Read(bus.PORTC)|0x08) // unrelated line
	d.Data('A')
	if sim.Read(bus.PORTC)&0x08 == 0 {
		t.Fatalf("Send clobbered PORTC bit 3")
	}
	if sim.Read(bus.PORTC)&pinE != 0 {
		t.Fatalf("E left high after Send")
	}
}
