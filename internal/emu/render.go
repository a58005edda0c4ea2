package emu

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
)

// Panel geometry in framebuffer pixels. CGRAM dots are drawn 2x2; ROM
// characters come from a 7x13 bitmap face.
const (
	cellW   = 12
	cellH   = 18
	cellGap = 2
	margin  = 8
	dotSize = 2

	FrameWidth  = 2*margin + hd44780.Cols*cellW + (hd44780.Cols-1)*cellGap
	FrameHeight = 2*margin + hd44780.Rows*cellH + (hd44780.Rows-1)*cellGap
)

func fill(dst *image.RGBA, r image.Rectangle, c image.Image) {
	draw.Draw(dst, r, c, image.Point{}, draw.Src)
}

// renderPanel paints a snapshot into dst.
func renderPanel(dst *image.RGBA, s hd44780.Snapshot, p Palette) {
	if !s.DisplayOn {
		fill(dst, dst.Bounds(), image.NewUniform(p.Off))
		return
	}
	fill(dst, dst.Bounds(), image.NewUniform(p.Backlight))
	cell := image.NewUniform(p.Cell)
	ink := image.NewUniform(p.Ink)
	d := font.Drawer{Dst: dst, Src: ink, Face: basicfont.Face7x13}
	for row := 0; row < hd44780.Rows; row++ {
		for col, code := range s.Row(row) {
			x := margin + col*(cellW+cellGap)
			y := margin + row*(cellH+cellGap)
			fill(dst, image.Rect(x, y, x+cellW, y+cellH), cell)
			if g, ok := s.Glyph(code); ok {
				for r, bits := range g {
					for c := 0; c < 5; c++ {
						if bits&(0x10>>c) == 0 {
							continue
						}
						px := x + 1 + c*dotSize
						py := y + 1 + r*dotSize
						fill(dst, image.Rect(px, py, px+dotSize, py+dotSize), ink)
					}
				}
				continue
			}
			if code < 0x20 || code >= 0x7F || code == ' ' {
				continue
			}
			d.Dot = fixed.P(x+3, y+14)
			d.DrawString(string(rune(code)))
		}
	}
}
