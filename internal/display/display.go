// Package display composes the game screens out of LCD text and CGRAM
// glyphs. Every full screen starts with a clear and repaints all of its
// content.
package display

import (
	"strconv"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/input"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/lcd"
)

// Animation and settle delays in ticks.
const (
	ClearSettle     clock.Ticks = 1000
	HeartBreakFrame clock.Ticks = 240000
	SplashFrame     clock.Ticks = 500000
)

// Screen positions.
const (
	colBar      = 7  // countdown bar on line 2
	colScore    = 11 // "S:" on line 2
	colLives    = 9  // hearts on the mistake screen
	colResult   = 9  // score on the result screens
	colLevelHC  = 5  // level on the hardcore result screen
	colSplashTx = 2
)

// MenuItems are the menu entries in display order.
var MenuItems = [...]string{" CLASSIC MODE", " HARDCORE MODE", " HIGH SCORES"}

// Board is what the game board shows besides the four colour buttons.
type Board struct {
	Hardcore bool
	Lives    int // classic only
	Level    int
	MaxLevel int // classic only
	Best     int // hardcore only, best completed level
	Score    int
}

// Compositor renders screens through an initialised LCD driver.
type Compositor struct {
	lcd *lcd.Driver
	clk clock.Clock
}

func New(d *lcd.Driver, clk clock.Clock) *Compositor {
	return &Compositor{lcd: d, clk: clk}
}

// LoadGameGlyphs uploads brackets, heart, skull and the full block to slots
// 0-6.
func (c *Compositor) LoadGameGlyphs() {
	c.lcd.Glyph(SlotBracketLeft, BracketLeftEmpty)
	c.lcd.Glyph(SlotBracketRight, Mirror(BracketLeftEmpty))
	c.lcd.Glyph(SlotBracketLeftLit, BracketLeftLit)
	c.lcd.Glyph(SlotBracketRightLit, Mirror(BracketLeftLit))
	c.lcd.Glyph(SlotHeart, Heart)
	c.lcd.Glyph(SlotSkull, Skull)
	c.lcd.Glyph(SlotFull, Full)
}

// Digits formats n with one to three digits and no leading zeros. Values
// above 999 render as 999.
func Digits(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 999 {
		n = 999
	}
	return strconv.Itoa(n)
}

// Digits2 is Digits capped at 99.
func Digits2(n int) string {
	if n > 99 {
		return "99"
	}
	return Digits(n)
}

// ScoreField formats a score for the five cells after the countdown bar:
// "S:" and up to three digits, the label shortened to "S" for four digits
// and dropped for five. Larger scores leave the digits blank.
func ScoreField(n int) string {
	if n < 0 {
		n = 0
	}
	switch {
	case n < 1000:
		return "S:" + Digits(n)
	case n < 10000:
		return "S" + strconv.Itoa(n)
	case n < 100000:
		return strconv.Itoa(n)
	}
	return "S:   "
}

// Padded formats n with at least two digits.
func Padded(n int) string {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func (c *Compositor) pair(lit bool) {
	if lit {
		c.lcd.Data(SlotBracketLeftLit)
		c.lcd.Data(SlotBracketRightLit)
		return
	}
	c.lcd.Data(SlotBracketLeft)
	c.lcd.Data(SlotBracketRight)
}

// Draw paints both board lines with highlight lit. It does not clear first.
func (c *Compositor) Draw(b Board, highlight input.Color) {
	c.lcd.Command(lcd.DDRAMAddr)
	c.pair(highlight == input.Red)
	c.lcd.Text(" ")
	c.pair(highlight == input.Green)
	c.lcd.Text("  ")
	if b.Hardcore {
		c.lcd.Text("B:" + Digits2(b.Best))
		c.lcd.Text(" L" + Digits2(b.Level))
	} else {
		for i := 0; i < b.Lives; i++ {
			c.lcd.Data(SlotHeart)
		}
		for i := b.Lives; i < 3; i++ {
			c.lcd.Text(" ")
		}
		c.lcd.Text("L" + Digits2(b.Level) + "/" + Digits2(b.MaxLevel))
	}

	c.lcd.Command(lcd.DDRAMAddr2)
	c.pair(highlight == input.Blue)
	c.lcd.Text(" ")
	c.pair(highlight == input.Yellow)
	c.lcd.Text("  ")
	c.lcd.Text("   ") // countdown bar
	c.lcd.Text(" ")
	c.lcd.Text(ScoreField(b.Score))
}

// Redraw clears the screen, lets it settle and draws the board.
func (c *Compositor) Redraw(b Board) {
	c.lcd.Clear()
	c.clk.Delay(ClearSettle)
	c.Draw(b, input.NoColor)
}

// BarSplit divides the remaining time into three 5-column cells.
func BarSplit(remaining, total int) (left, mid, right int) {
	if total <= 0 {
		return 0, 0, 0
	}
	px := remaining * 15 / total
	if px > 15 {
		px = 15
	}
	if px < 0 {
		px = 0
	}
	left = min(5, px)
	if px > 5 {
		mid = min(5, px-5)
	}
	if px > 10 {
		right = px - 10
	}
	return left, mid, right
}

// Countdown draws the bar for remaining out of total and the live score. The
// bar borrows slots 5-7, so the skull is gone until ClearCountdown.
func (c *Compositor) Countdown(remaining, total, score int) {
	l, m, r := BarSplit(remaining, total)
	c.lcd.Glyph(SlotSkull, BarCell(l))
	c.lcd.Glyph(SlotFull, BarCell(m))
	c.lcd.Glyph(SlotScratch, BarCell(r))
	c.lcd.SetCursor(1, colBar)
	c.lcd.Data(SlotSkull)
	c.lcd.Data(SlotFull)
	c.lcd.Data(SlotScratch)
	c.lcd.SetCursor(1, colScore)
	c.lcd.Text(ScoreField(score))
}

// ClearCountdown blanks the bar and restores the skull.
func (c *Compositor) ClearCountdown() {
	c.lcd.SetCursor(1, colBar)
	c.lcd.Text("   ")
	c.lcd.Glyph(SlotSkull, Skull)
}

// Intro shows which key sits on which corner.
func (c *Compositor) Intro() {
	c.lcd.Clear()
	c.lcd.Line1(" TL(E)  TR(I)")
	c.lcd.Line2(" BL(F)  BR(J)")
}

// Title shows the mode banner before the first round.
func (c *Compositor) Title(hardcore bool) {
	c.lcd.Clear()
	if hardcore {
		c.lcd.Data(SlotSkull)
		c.lcd.Text(" HARDCORE MODE ")
		c.lcd.Data(SlotSkull)
	} else {
		c.lcd.Line1(" CLASSIC MODE")
	}
	c.lcd.Line2("  Get Ready...")
}

// Mistake shows the classic mistake screen with the lives left before it.
func (c *Compositor) Mistake(timeout bool, lives int) {
	c.lcd.Clear()
	if timeout {
		c.lcd.Line1("  TIME OUT!")
	} else {
		c.lcd.Line1("    WRONG!")
	}
	c.lcd.Line2("  Lives: ")
	c.lcd.SetCursor(1, colLives)
	for i := 0; i < lives; i++ {
		c.lcd.Data(SlotHeart)
	}
}

// HeartBreak animates the last heart of oldLives breaking.
func (c *Compositor) HeartBreak(oldLives, newLives int) {
	for _, f := range HeartBreak {
		c.lcd.Glyph(SlotScratch, f)
		c.lcd.SetCursor(1, colLives)
		for j := 0; j < newLives; j++ {
			c.lcd.Data(SlotHeart)
		}
		c.lcd.Data(SlotScratch)
		for j := newLives + 1; j < oldLives; j++ {
			c.lcd.Text(" ")
		}
		c.clk.Delay(HeartBreakFrame)
	}
}

// ClassicResult shows the game over or win screen.
func (c *Compositor) ClassicResult(win bool, score int) {
	c.lcd.Clear()
	if win {
		c.lcd.Line1("   YOU WIN!")
	} else {
		c.lcd.Line1("  GAME OVER!")
	}
	c.lcd.Line2("  Score: ")
	c.lcd.SetCursor(1, colResult)
	c.lcd.Text(Padded(score))
}

// HardcoreResult shows the end of a hardcore run.
func (c *Compositor) HardcoreResult(timeout bool, completed, score int) {
	c.lcd.Clear()
	if timeout {
		c.lcd.Line1("  TIME OUT!")
	} else {
		c.lcd.Line1("  GAME OVER!")
	}
	c.lcd.Line2(" LVL:")
	c.lcd.SetCursor(1, colLevelHC)
	c.lcd.Text(strconv.Itoa(max(completed, 0)))
	c.lcd.Text(" SCR:" + Padded(score))
}

// HighScores shows the classic record with a heart and the hardcore record
// with a skull. Zero values render as dashes.
func (c *Compositor) HighScores(classicLevel, classicScore, hardcoreLevel, hardcoreScore int) {
	c.lcd.Clear()
	c.lcd.Command(lcd.DDRAMAddr)
	c.lcd.Data(SlotHeart)
	c.record(classicLevel, classicScore)
	c.lcd.Command(lcd.DDRAMAddr2)
	c.lcd.Data(SlotSkull)
	c.record(hardcoreLevel, hardcoreScore)
}

func (c *Compositor) record(level, score int) {
	c.lcd.Text("L:")
	if level == 0 {
		c.lcd.Text("--")
	} else {
		c.lcd.Text(strconv.Itoa(level))
	}
	c.lcd.Text(" S:")
	if score == 0 {
		c.lcd.Text("---")
	} else {
		c.lcd.Text(Padded(score))
	}
}

// LoadMenuGlyphs puts the selection arrow in slot 0.
func (c *Compositor) LoadMenuGlyphs() {
	c.lcd.Glyph(SlotMenuArrow, MenuArrow)
}

// Menu shows entry selected with the arrow in front of it.
func (c *Compositor) Menu(selected int) {
	c.lcd.Clear()
	c.clk.Delay(ClearSettle)
	c.lcd.Command(lcd.DDRAMAddr)
	c.lcd.Data(SlotMenuArrow)
	c.lcd.Text(MenuItems[selected%len(MenuItems)])
	c.lcd.Line2("E/F NAV  ENTER")
}

// Splash plays the title animation. The caller plays the start tune.
func (c *Compositor) Splash() {
	for _, f := range Splash {
		c.lcd.Glyph(SlotSplash, f)
		c.lcd.Clear()
		c.border(lcd.DDRAMAddr)
		c.lcd.SetCursor(0, colSplashTx)
		c.lcd.Text(" SIMON SAYS ")
		c.border(lcd.DDRAMAddr2)
		c.lcd.SetCursor(1, colSplashTx)
		c.lcd.Text("by L. Bajnai ")
		c.clk.Delay(SplashFrame)
	}
}

func (c *Compositor) border(addr byte) {
	c.lcd.Command(addr)
	for i := 0; i < 16; i++ {
		c.lcd.Data(SlotSplash)
	}
}
