package display

import (
	"sync"
	"testing"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/input"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/lcd"
)

func newCompositor(t *testing.T) (*Compositor, *hd44780.Controller, *clock.Virtual) {
	t.Helper()
	clk := clock.NewVirtual()
	ctl := hd44780.New()
	ctl.SetStateLock(&sync.Mutex{})
	d := lcd.New(bus.NewSim(clk, ctl, nil), clk)
	d.Init()
	c := New(d, clk)
	c.LoadGameGlyphs()
	return c, ctl, clk
}

// visible maps CGRAM codes to printable stand-ins so lines can be compared
// as strings.
func visible(s hd44780.Snapshot, line int) string {
	out := []byte(s.Text(line))
	for i, b := range out {
		if b < 8 {
			out[i] = "[]{}HSF#"[b]
		}
	}
	return string(out)
}

func TestDigits(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"}, {9, "9"}, {10, "10"}, {99, "99"}, {100, "100"}, {999, "999"}, {1050, "999"}, {-3, "0"},
	}
	for _, tc := range tests {
		if got := Digits(tc.n); got != tc.want {
			t.Errorf("Digits(%d) got %q, want %q", tc.n, got, tc.want)
		}
	}
	if Digits2(150) != "99" || Digits2(7) != "7" {
		t.Errorf("Digits2 clamp wrong")
	}
	for n, want := range map[int]string{7: "S:7", 999: "S:999", 1050: "S1050", 20100: "20100", 101000: "S:   "} {
		if got := ScoreField(n); got != want {
			t.Errorf("ScoreField(%d) got %q, want %q", n, got, want)
		}
	}
	if Padded(5) != "05" || Padded(40) != "40" || Padded(1200) != "1200" {
		t.Errorf("Padded wrong")
	}
}

func TestMirrorIsInvolution(t *testing.T) {
	for _, g := range []Glyph{BracketLeftEmpty, BracketLeftLit, Heart, Skull, MenuArrow, Splash[1]} {
		if Mirror(Mirror(g)) != g {
			t.Errorf("Mirror is not its own inverse for %v", g)
		}
	}
	if Mirror(BracketLeftEmpty)[1] != 0x03 {
		t.Errorf("mirrored bracket row got %05b, want 00011", Mirror(BracketLeftEmpty)[1])
	}
}

func TestBarSplit(t *testing.T) {
	tests := []struct {
		rem, total int
		l, m, r    int
	}{
		{150, 150, 5, 5, 5},
		{100, 150, 5, 5, 0},
		{80, 150, 5, 3, 0},
		{30, 150, 3, 0, 0},
		{1, 150, 0, 0, 0},
		{66, 60, 5, 5, 5},
		{0, 0, 0, 0, 0},
	}
	for _, tc := range tests {
		l, m, r := BarSplit(tc.rem, tc.total)
		if l != tc.l || m != tc.m || r != tc.r {
			t.Errorf("BarSplit(%d,%d) got %d,%d,%d want %d,%d,%d", tc.rem, tc.total, l, m, r, tc.l, tc.m, tc.r)
		}
	}
	if BarCell(3)[0] != 0x1C || BarCell(9) != Full || BarCell(0) != (Glyph{}) {
		t.Errorf("BarCell wrong")
	}
}

func TestClassicBoard(t *testing.T) {
	c, ctl, _ := newCompositor(t)
	c.Redraw(Board{Lives: 2, Level: 12, MaxLevel: 20, Score: 7})
	c.Draw(Board{Lives: 2, Level: 12, MaxLevel: 20, Score: 7}, input.Green)
	s := ctl.Snapshot()
	if got := visible(s, 0); got != "[] {}  HH L12/20" {
		t.Fatalf("line 1 got %q", got)
	}
	if got := visible(s, 1); got != "[] []      S:7  " {
		t.Fatalf("line 2 got %q", got)
	}
	if s.CGRAM[SlotBracketRightLit] != Mirror(BracketLeftLit) {
		t.Fatalf("right lit bracket is not the mirrored left one")
	}
}

func TestHardcoreBoardClamps(t *testing.T) {
	c, ctl, _ := newCompositor(t)
	c.Redraw(Board{Hardcore: true, Level: 105, Best: 12, Score: 1234})
	s := ctl.Snapshot()
	if got := visible(s, 0); got != "[] []  B:12 L99 " {
		t.Fatalf("line 1 got %q", got)
	}
	if got := visible(s, 1); got != "[] []      S1234" {
		t.Fatalf("line 2 got %q", got)
	}
}

func TestCountdownBorrowsSkullSlot(t *testing.T) {
	c, ctl, _ := newCompositor(t)
	c.Redraw(Board{Lives: 3, Level: 1, MaxLevel: 20, Score: 40})
	c.Countdown(100, 150, 40)
	s := ctl.Snapshot()
	if got := visible(s, 1); got != "[] []  SF# S:40 " {
		t.Fatalf("line 2 got %q", got)
	}
	if s.CGRAM[SlotSkull] != BarCell(5) || s.CGRAM[SlotScratch] != BarCell(0) {
		t.Fatalf("bar cells got %v %v", s.CGRAM[SlotSkull], s.CGRAM[SlotScratch])
	}
	c.ClearCountdown()
	s = ctl.Snapshot()
	if got := visible(s, 1); got != "[] []      S:40 " {
		t.Fatalf("after clear got %q", got)
	}
	if s.CGRAM[SlotSkull] != Skull {
		t.Fatalf("skull not restored")
	}
}

func TestMistakeAndHeartBreak(t *testing.T) {
	c, ctl, clk := newCompositor(t)
	c.Mistake(true, 3)
	s := ctl.Snapshot()
	if visible(s, 0) != "  TIME OUT!     " || visible(s, 1) != "  Lives: HHH    " {
		t.Fatalf("mistake screen got %q / %q", visible(s, 0), visible(s, 1))
	}
	start := clk.Now()
	c.HeartBreak(3, 2)
	if clk.Now()-start < 5*HeartBreakFrame {
		t.Fatalf("heart break should take five frames")
	}
	s = ctl.Snapshot()
	if visible(s, 1) != "  Lives: HH#    " {
		t.Fatalf("after heart break got %q", visible(s, 1))
	}
	if s.CGRAM[SlotScratch] != HeartBreak[4] {
		t.Fatalf("last frame should be empty")
	}
}

func TestResultScreens(t *testing.T) {
	c, ctl, _ := newCompositor(t)
	c.ClassicResult(false, 5)
	s := ctl.Snapshot()
	if visible(s, 0) != "  GAME OVER!    " || visible(s, 1) != "  Score: 05     " {
		t.Fatalf("game over got %q / %q", visible(s, 0), visible(s, 1))
	}
	c.ClassicResult(true, 2100)
	if got := visible(ctl.Snapshot(), 1); got != "  Score: 2100   " {
		t.Fatalf("win score got %q", got)
	}
	c.HardcoreResult(false, 3, 120)
	s = ctl.Snapshot()
	if visible(s, 0) != "  GAME OVER!    " || visible(s, 1) != " LVL:3 SCR:120  " {
		t.Fatalf("hardcore result got %q / %q", visible(s, 0), visible(s, 1))
	}
}

func TestHighScoresPlaceholders(t *testing.T) {
	c, ctl, _ := newCompositor(t)
	c.HighScores(0, 0, 0, 0)
	s := ctl.Snapshot()
	if visible(s, 0) != "HL:-- S:---     " || visible(s, 1) != "SL:-- S:---     " {
		t.Fatalf("empty records got %q / %q", visible(s, 0), visible(s, 1))
	}
	c.HighScores(12, 780, 4, 200)
	s = ctl.Snapshot()
	if visible(s, 0) != "HL:12 S:780     " || visible(s, 1) != "SL:4 S:200      " {
		t.Fatalf("records got %q / %q", visible(s, 0), visible(s, 1))
	}
}

func TestMenuAndSplash(t *testing.T) {
	c, ctl, _ := newCompositor(t)
	c.LoadMenuGlyphs()
	c.Menu(1)
	s := ctl.Snapshot()
	if visible(s, 0) != "[ HARDCORE MODE " || visible(s, 1) != "E/F NAV  ENTER  " {
		t.Fatalf("menu got %q / %q", visible(s, 0), visible(s, 1))
	}
	if s.CGRAM[SlotMenuArrow] != MenuArrow {
		t.Fatalf("arrow not in slot 0")
	}
	c.Splash()
	s = ctl.Snapshot()
	if visible(s, 0) != "[[ SIMON SAYS [[" || visible(s, 1) != "[[by L. Bajnai [" {
		t.Fatalf("splash got %q / %q", visible(s, 0), visible(s, 1))
	}
	if s.CGRAM[SlotSplash] != Splash[2] {
		t.Fatalf("splash should end on the last frame")
	}
}
