package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var mainMenuItems = []string{
	"Save state (slot %d)",
	"Save state as...",
	"Export audio (WAV)...",
	"Select Slot",
	"Settings",
	"Keybindings",
	"Close",
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	lines := []string{"Menu:"}
	for i, s := range mainMenuItems {
		if i == 0 {
			s = fmt.Sprintf(s, a.currentSlot+1)
		}
		lines = append(lines, "  "+s)
	}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
	hs := a.m.Scores()
	scores := fmt.Sprintf("Best: classic L%d/%d pts  hardcore L%d", hs.ClassicLevel, hs.ClassicScore, hs.Hardcore)
	ebitenutil.DebugPrintAt(screen, a.truncateText(scores, a.maxCharsForText(10)), 10, 10+len(lines)*14)
	hint := "F5: Save  [/]: Palette  F11: Fullscreen  Esc: Back"
	ebitenutil.DebugPrintAt(screen, a.truncateText(hint, a.maxCharsForText(10)), 10, 10+(len(lines)+1)*14)
}

func (a *App) drawSlotMenu(screen *ebiten.Image) {
	lines := []string{"Select Slot:"}
	for i := 0; i < 4; i++ {
		state := "[empty]"
		if _, err := os.Stat(a.statePath(i)); err == nil {
			state = ""
		}
		lines = append(lines, fmt.Sprintf("  %d %s", i+1, state))
	}
	for i, s := range lines {
		prefix := "  "
		if i == a.menuIdx+1 {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 10, 10+i*14)
	}
}

var keyRows = []string{
	"E / Up: red (menu: back)",
	"I / Right: green",
	"F / Left: blue (menu: forward)",
	"J / Space: yellow",
	"Enter / Down: confirm",
	"P: Pause",
	"F5: Quick save",
	"[ ]: Cycle palette",
	"F12: Screenshot",
	"Esc: Open/Close Menu",
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	title := "Keybindings (Up/Down to scroll, Backspace/Esc to return)"
	cursorY := 10
	for _, w := range a.wrapText(title, a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	baseY := cursorY + 4
	maxRows := (a.curH - baseY) / 14
	if maxRows < 1 {
		maxRows = 1
	}
	if a.keysOff < 0 {
		a.keysOff = 0
	}
	if a.keysOff > len(keyRows)-1 {
		a.keysOff = len(keyRows) - 1
	}
	end := a.keysOff + maxRows
	if end > len(keyRows) {
		end = len(keyRows)
	}
	maxChars := a.maxCharsForText(10)
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, a.truncateText(keyRows[i], maxChars), 10, baseY+(i-a.keysOff)*14)
	}
	// scroll indicators
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 2, baseY)
	}
	if end < len(keyRows) {
		ebitenutil.DebugPrintAt(screen, "v", 2, baseY+(maxRows-1)*14)
	}
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

func (a *App) settingsItems() []string {
	return []string{
		fmt.Sprintf("Scale: %dx", a.cfg.Scale),
		fmt.Sprintf("Palette: %s", a.m.Palette()),
		fmt.Sprintf("Sound: %s", onOff(!a.cfg.Muted)),
		fmt.Sprintf("Low-Latency Audio: %s", onOff(a.cfg.AudioLowLatency)),
		fmt.Sprintf("Button Board: %s", onOff(a.cfg.ShowBoard)),
	}
}

func (a *App) drawSettingsMenu(screen *ebiten.Image) {
	title := "Settings (Up/Down select; Left/Right change; Backspace/Esc: back)"
	cursorY := 10
	for _, w := range a.wrapText(title, a.maxCharsForText(10)) {
		ebitenutil.DebugPrintAt(screen, w, 10, cursorY)
		cursorY += 14
	}
	for i, item := range a.settingsItems() {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		line := a.truncateText(prefix+item, a.maxCharsForText(10))
		ebitenutil.DebugPrintAt(screen, line, 10, cursorY+i*14)
	}
}

// maxCharsForText is how many debug-font characters fit from x to the
// right edge.
func (a *App) maxCharsForText(x int) int {
	n := (a.curW - x) / 6
	if n < 1 {
		n = 1
	}
	return n
}

func (a *App) truncateText(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func (a *App) wrapText(s string, width int) []string {
	var out []string
	line := ""
	for _, w := range strings.Fields(s) {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) <= width:
			line += " " + w
		default:
			out = append(out, line)
			line = w
		}
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
