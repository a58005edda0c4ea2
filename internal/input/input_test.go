package input

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
)

func newManager() (*Manager, *bus.Sim, *clock.Virtual) {
	clk := clock.NewVirtual()
	sim := bus.NewSim(clk, nil, nil)
	return New(sim, clk), sim, clk
}

func TestPollPriority(t *testing.T) {
	tests := []struct {
		name    string
		pressed byte
		want    Button
	}{
		{"none", 0, None},
		{"right beats all", bus.LineMask, Right},
		{"up beats center", bus.LineUp | bus.LineCenter, Up},
		{"center beats left", bus.LineCenter | bus.LineLeft, Center},
		{"left beats down", bus.LineLeft | bus.LineDown, Left},
		{"down alone", bus.LineDown, Down},
	}
	for _, tc := range tests {
		m, sim, _ := newManager()
		sim.SetButtons(tc.pressed)
		if got := m.Poll(); got != tc.want {
			t.Errorf("%s: Poll got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLatchHoldsUntilRelease(t *testing.T) {
	m, sim, _ := newManager()
	sim.SetButtons(bus.LineUp)
	if got := m.Poll(); got != Up {
		t.Fatalf("first Poll got %v, want up", got)
	}
	m.Unlock() // still held
	if got := m.Poll(); got != None {
		t.Fatalf("held button repeated: %v", got)
	}
	// another line joining the held one does not fire either
	sim.SetButtons(bus.LineUp | bus.LineRight)
	m.Unlock()
	if got := m.Poll(); got != None {
		t.Fatalf("second button fired while latched: %v", got)
	}
	sim.SetButtons(0)
	m.Unlock()
	if !m.Accepting() {
		t.Fatalf("latch not re-armed after release")
	}
	sim.SetButtons(bus.LineRight)
	if got := m.Poll(); got != Right {
		t.Fatalf("Poll after release got %v, want right", got)
	}
}

func TestWaitPressAdvancesClock(t *testing.T) {
	m, sim, clk := newManager()
	sim.SetButtonSource(pressAfter{sim: sim, reads: 50, line: bus.LineLeft})
	if got := m.WaitPress(); got != Left {
		t.Fatalf("WaitPress got %v, want left", got)
	}
	if clk.Now() == 0 {
		t.Fatalf("WaitPress should pause between polls")
	}
	m.Drain()
	if m.Accepting() {
		t.Fatalf("Drain must not re-arm while the button is held")
	}
}

func TestAcknowledgeConsumesPress(t *testing.T) {
	m, sim, _ := newManager()
	sim.SetButtonSource(pressAfter{sim: sim, reads: 20, line: bus.LineCenter})
	if got := m.Acknowledge(); got != Center {
		t.Fatalf("Acknowledge got %v, want center", got)
	}
	if m.Poll() != None {
		t.Fatalf("a held button must not be reported twice")
	}
}

type pressAfter struct {
	sim   *bus.Sim
	reads uint64
	line  byte
}

func (p pressAfter) Pressed() byte {
	if p.sim.Reads() > p.reads {
		return p.line
	}
	return 0
}

func TestColorMapping(t *testing.T) {
	for _, c := range Colors {
		if c.Button().Color() != c {
			t.Errorf("%v does not round trip through its button", c)
		}
	}
	if Down.Color() != NoColor || None.Color() != NoColor {
		t.Errorf("down and none have no colour")
	}
	if Red.Button() != Up || Green.Button() != Right || Blue.Button() != Left || Yellow.Button() != Center {
		t.Errorf("colour to button mapping changed")
	}
	if Left.Line() != bus.LineLeft || Down.Line() != bus.LineDown {
		t.Errorf("Line mapping wrong")
	}
}

func TestParseButton(t *testing.T) {
	for name, want := range map[string]Button{"E": Up, "green": Right, "f": Left, "J": Center, "enter": Down, " down ": Down} {
		if got, ok := ParseButton(name); !ok || got != want {
			t.Errorf("ParseButton(%q) got %v %v, want %v", name, got, ok, want)
		}
	}
	if _, ok := ParseButton("start"); ok {
		t.Errorf("unknown names must be rejected")
	}
}
