package hd44780

import (
	"strings"
	"sync"
	"testing"
)

func pulse(c *Controller, rs bool, nibble byte) {
	v := nibble << 4
	if rs {
		v |= PinRS
	}
	c.WritePins(v | PinE)
	c.WritePins(v)
}

func send(c *Controller, rs bool, b byte) {
	pulse(c, rs, b>>4)
	pulse(c, rs, b&0x0F)
}

func initController(t *testing.T) *Controller {
	t.Helper()
	c := New()
	c.SetStateLock(&sync.Mutex{})
	for i := 0; i < 3; i++ {
		pulse(c, false, 0x3)
	}
	if c.FourBit() {
		t.Fatalf("controller switched to 4-bit before the 0x2 nibble")
	}
	pulse(c, false, 0x2)
	if !c.FourBit() {
		t.Fatalf("controller still in 8-bit mode after the 0x2 nibble")
	}
	for _, cmd := range []byte{0x28, 0x08, 0x01, 0x06, 0x0C, 0x01} {
		send(c, false, cmd)
	}
	return c
}

func writeText(c *Controller, s string) {
	for i := 0; i < len(s); i++ {
		send(c, true, s[i])
	}
}

func TestInitHandshakeAndText(t *testing.T) {
	c := initController(t)
	var log []Transfer
	c.OnTransfer = func(tr Transfer) { log = append(log, tr) }

	send(c, false, 0x80)
	writeText(c, "SIMON")
	send(c, false, 0xC0+2)
	writeText(c, "SAYS")

	s := c.Snapshot()
	if !s.DisplayOn {
		t.Fatalf("display should be on after 0x0C")
	}
	if got := s.Text(0); got != "SIMON           " {
		t.Fatalf("line 1 got %q", got)
	}
	if got := s.Text(1); got != "  SAYS          " {
		t.Fatalf("line 2 got %q", got)
	}
	if len(log) != 11 || !log[0].Command || log[0].Value != 0x80 || log[1].Command || log[1].Value != 'S' {
		t.Fatalf("transfer log got %+v", log)
	}
	if c.Pending() {
		t.Fatalf("no nibble should be pending after complete bytes")
	}
}

func TestSnapshotDirtyFlags(t *testing.T) {
	c := initController(t)
	if s := c.Snapshot(); !s.Dirty {
		t.Fatalf("first snapshot after init should be dirty")
	}
	if s := c.Snapshot(); s.Dirty || s.CGDirty {
		t.Fatalf("second snapshot should be clean")
	}
	send(c, false, 0x40)
	send(c, true, 0x1F)
	s := c.Snapshot()
	if !s.CGDirty || s.Dirty {
		t.Fatalf("CGRAM write should only set CGDirty, got %+v", s)
	}
}

func TestCGRAMGlyphs(t *testing.T) {
	c := initController(t)
	heart := [GlyphRows]byte{0x00, 0x0A, 0x1F, 0x1F, 0x1F, 0x0E, 0x04, 0x00}
	send(c, false, 0x40|4<<3)
	for _, r := range heart {
		send(c, true, r|0xE0) // upper bits are not stored
	}
	send(c, false, 0x80)
	send(c, true, 4)

	s := c.Snapshot()
	if s.Row(0)[0] != 4 {
		t.Fatalf("DDRAM[0] got %#x, want 4", s.Row(0)[0])
	}
	g, ok := s.Glyph(s.Row(0)[0])
	if !ok || g != heart {
		t.Fatalf("glyph 4 got %v ok=%v, want %v", g, ok, heart)
	}
	if g, ok := s.Glyph(12); !ok || g != heart {
		t.Fatalf("code 12 should mirror slot 4")
	}
	if _, ok := s.Glyph('A'); ok {
		t.Fatalf("ROM characters have no CGRAM glyph")
	}
}

func TestAddressWrapsToSecondLine(t *testing.T) {
	c := initController(t)
	send(c, false, 0x80|(LineWidth-1))
	writeText(c, "XY")
	s := c.Snapshot()
	if s.Lines[0][LineWidth-1] != 'X' {
		t.Fatalf("last byte of line 1 got %q", s.Lines[0][LineWidth-1])
	}
	if s.Lines[1][0] != 'Y' {
		t.Fatalf("wrap should continue on line 2, got %q", s.Lines[1][0])
	}
}

func TestClearResetsDDRAM(t *testing.T) {
	c := initController(t)
	writeText(c, "HELLO")
	send(c, false, 0x01)
	writeText(c, "A")
	s := c.Snapshot()
	if got := s.Text(0); got != "A               " {
		t.Fatalf("after clear got %q", got)
	}
}

func TestSnapshotWithoutLockPanics(t *testing.T) {
	c := New()
	defer func() {
		if recover() == nil {
			t.Fatalf("Snapshot without a state lock should panic")
		}
	}()
	c.Snapshot()
}

func TestSaveLoadState(t *testing.T) {
	c := initController(t)
	writeText(c, "SCORE")
	pulse(c, true, 0x4) // leave a half byte pending
	data := c.SaveState()

	d := New()
	d.SetStateLock(&sync.Mutex{})
	if err := d.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	pulse(d, true, 0x1) // completes 'A'
	s := d.Snapshot()
	if got := s.Text(0); got != "SCOREA          " {
		t.Fatalf("restored line got %q", got)
	}
	if err := d.LoadState([]byte("nope")); err == nil {
		t.Fatalf("LoadState should reject garbage")
	}
}

func TestTransferString(t *testing.T) {
	tests := []struct {
		tr   Transfer
		want string
	}{
		{Transfer{Command: true, Value: 0x28}, "CMD 0x28"},
		{Transfer{Value: 'S'}, "DAT 'S'"},
		{Transfer{Value: 4}, "DAT 0x04"},
	}
	for _, tc := range tests {
		if got := tc.tr.String(); got != tc.want {
			t.Errorf("String got %q, want %q", got, tc.want)
		}
	}
}

func TestDumpWhileBusIsDriven(t *testing.T) {
	c := initController(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			send(c, false, 0x80)
			writeText(c, "LEVEL UP")
		}
	}()
	for {
		select {
		case <-done:
			if c.Pending() {
				t.Fatalf("complete bytes left a nibble pending")
			}
			return
		default:
		}
		d := New()
		d.SetStateLock(&sync.Mutex{})
		if err := d.LoadState(c.SaveState()); err != nil {
			t.Fatalf("LoadState: %v", err)
		}
		if got := d.Snapshot().Text(0); !strings.HasPrefix("LEVEL UP", strings.TrimRight(got, " ")) {
			t.Fatalf("torn line 1 %q", got)
		}
		_ = c.FourBit()
	}
}
