package emu

import (
	"image"
	"testing"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
)

func blankSnapshot() hd44780.Snapshot {
	var s hd44780.Snapshot
	for r := range s.Lines {
		for c := range s.Lines[r] {
			s.Lines[r][c] = ' '
		}
	}
	s.DisplayOn = true
	return s
}

func TestRenderGlyphDots(t *testing.T) {
	pal, _ := LookupPalette("green")
	s := blankSnapshot()
	s.CGRAM[3][0] = 0x10 // top-left dot
	s.Lines[0][0] = 3
	img := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	renderPanel(img, s, pal)

	if got := img.RGBAAt(margin+1, margin+1); got != pal.Ink {
		t.Fatalf("lit dot got %v, want ink %v", got, pal.Ink)
	}
	if got := img.RGBAAt(margin+1+dotSize, margin+1); got != pal.Cell {
		t.Fatalf("unlit dot got %v, want cell %v", got, pal.Cell)
	}
	if got := img.RGBAAt(0, 0); got != pal.Backlight {
		t.Fatalf("margin got %v, want backlight %v", got, pal.Backlight)
	}
}

func TestRenderROMCharacter(t *testing.T) {
	pal, _ := LookupPalette("green")
	s := blankSnapshot()
	s.Lines[1][5] = 'W'
	img := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	renderPanel(img, s, pal)

	x0 := margin + 5*(cellW+cellGap)
	y0 := margin + cellH + cellGap
	ink := 0
	for y := y0; y < y0+cellH; y++ {
		for x := x0; x < x0+cellW; x++ {
			if img.RGBAAt(x, y) == pal.Ink {
				ink++
			}
		}
	}
	if ink == 0 {
		t.Fatalf("no ink drawn for 'W'")
	}
}

func TestRenderDisplayOff(t *testing.T) {
	pal, _ := LookupPalette("blue")
	s := blankSnapshot()
	s.DisplayOn = false
	s.Lines[0][0] = 'A'
	img := image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	renderPanel(img, s, pal)
	if got := img.RGBAAt(margin+4, margin+8); got != pal.Off {
		t.Fatalf("switched-off panel got %v, want %v", got, pal.Off)
	}
}
