package term

import "github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"

// Braille dot bits, indexed [row][col] for the 2x4 cell.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// brailleGlyph squeezes a 5x8 CGRAM bitmap into one braille character:
// pixel rows are paired, the left dot column covers pixel columns 0-2 and
// the right one columns 2-4.
func brailleGlyph(g [hd44780.GlyphRows]byte) rune {
	r := rune(0x2800)
	for row := 0; row < 4; row++ {
		bits := g[2*row] | g[2*row+1]
		if bits&0x1C != 0 {
			r |= brailleDots[row][0]
		}
		if bits&0x07 != 0 {
			r |= brailleDots[row][1]
		}
	}
	if r == 0x2800 {
		return ' '
	}
	return r
}

// cellRune is what a terminal shows for one DDRAM byte.
func cellRune(s hd44780.Snapshot, code byte) rune {
	if g, ok := s.Glyph(code); ok {
		return brailleGlyph(g)
	}
	if code < 0x20 || code >= 0x7F {
		return ' '
	}
	return rune(code)
}
