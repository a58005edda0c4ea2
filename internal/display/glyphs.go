package display

// Glyph is a 5x8 CGRAM bitmap, one byte per row, bit 4 is the leftmost pixel.
type Glyph [8]byte

// CGRAM slots used by the game screens.
const (
	SlotBracketLeft     = 0
	SlotBracketRight    = 1
	SlotBracketLeftLit  = 2
	SlotBracketRightLit = 3
	SlotHeart           = 4
	SlotSkull           = 5
	SlotFull            = 6
	SlotScratch         = 7

	SlotMenuArrow = 0
	SlotSplash    = 0
)

var (
	BracketLeftEmpty = Glyph{0x1F, 0x18, 0x18, 0x18, 0x18, 0x18, 0x18, 0x1F}
	BracketLeftLit   = Glyph{0x1F, 0x1D, 0x1A, 0x1D, 0x1A, 0x1D, 0x1A, 0x1F}
	Heart            = Glyph{0x00, 0x0A, 0x1F, 0x1F, 0x1F, 0x0E, 0x04, 0x00}
	Skull            = Glyph{0x0E, 0x15, 0x1B, 0x0E, 0x0E, 0x0A, 0x0E, 0x00}
	Full             = Glyph{0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F, 0x1F}
	MenuArrow        = Glyph{0x00, 0x08, 0x0C, 0x0E, 0x0C, 0x08, 0x00, 0x00}
)

// HeartBreak runs from a full heart to nothing.
var HeartBreak = [5]Glyph{
	Heart,
	{0x00, 0x0A, 0x1B, 0x1B, 0x1F, 0x0E, 0x04, 0x00},
	{0x00, 0x0A, 0x15, 0x11, 0x11, 0x0A, 0x04, 0x00},
	{0x00, 0x0A, 0x04, 0x00, 0x00, 0x04, 0x00, 0x00},
	{},
}

// Splash is the shrinking border of the title screen.
var Splash = [3]Glyph{
	{0x1F, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x1F},
	{0x00, 0x0E, 0x0A, 0x0A, 0x0A, 0x0A, 0x0E, 0x00},
	{0x00, 0x00, 0x04, 0x04, 0x04, 0x04, 0x00, 0x00},
}

// BarCell returns a countdown cell with n of 5 columns filled from the left.
func BarCell(n int) Glyph {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	row := byte(0x1F) &^ (0x1F >> n)
	var g Glyph
	for i := range g {
		g[i] = row
	}
	return g
}

// Mirror flips a glyph horizontally.
func Mirror(g Glyph) Glyph {
	var m Glyph
	for i, b := range g {
		m[i] = (b&0x10)>>4 | (b&0x08)>>2 | b&0x04 | (b&0x02)<<2 | (b&0x01)<<4
	}
	return m
}
