package main

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
)

func TestTextWindow(t *testing.T) {
	w := &textWindow{max: 8}
	for _, c := range []byte("GAME OVER") {
		w.add(hd44780.Transfer{Value: c})
	}
	if !w.contains("me over") {
		t.Fatalf("window should hold the tail of the text, got %q", w.buf)
	}
	w.add(hd44780.Transfer{Command: true, Value: 0xC0})
	if w.contains("over") {
		t.Fatalf("a command should reset the window")
	}
}
