package ui

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sqweek/dialog"
)

func (a *App) updateMainMenu() {
	max := len(mainMenuItems) - 1
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < max {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			if err := a.saveSlot(a.currentSlot); err == nil {
				a.toast(fmt.Sprintf("Saved slot %d", a.currentSlot+1))
			} else {
				a.toast("Save failed: " + err.Error())
			}
		case 1:
			a.askPath("state", "Save state", "Simon state", "state")
		case 2:
			a.askPath("wav", "Export audio", "WAV audio", "wav")
		case 3:
			a.menuMode = "slot"
			a.menuIdx = a.currentSlot
		case 4:
			a.menuMode = "settings"
			a.menuIdx = 0
		case 5:
			a.menuMode = "keys"
			a.keysOff = 0
		case 6:
			a.showMenu = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

// askPath opens a native save dialog off the game loop; the answer comes
// back through a.dialogs.
func (a *App) askPath(kind, title, desc, ext string) {
	go func() {
		path, err := dialog.File().Title(title).Filter(desc, ext).Save()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				log.Println(err)
			}
			return
		}
		a.dialogs <- dialogResult{kind: kind, path: path}
	}()
}

func (a *App) updateSlotMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < 3 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.currentSlot = a.menuIdx
		if _, err := os.Stat(a.statePath(a.currentSlot)); err != nil {
			a.toast(fmt.Sprintf("Slot set to %d (empty)", a.currentSlot+1))
		} else {
			a.toast(fmt.Sprintf("Slot set to %d", a.currentSlot+1))
		}
		a.menuMode = "main"
		a.menuIdx = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
		a.menuIdx = 0
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
		a.menuIdx = 0
	}
}

func (a *App) updateSettingsMenu() {
	// Items order:
	// 0 Scale
	// 1 Palette
	// 2 Sound
	// 3 Low-Latency
	// 4 Button board
	items := len(a.settingsItems())
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < items-1 {
		a.menuIdx++
	}
	left := inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
	right := inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	if left || right {
		switch a.menuIdx {
		case 0: // Scale
			if left && a.cfg.Scale > 1 {
				a.cfg.Scale--
			}
			if right && a.cfg.Scale < 10 {
				a.cfg.Scale++
			}
			a.applyWindowSize()
		case 1: // Palette
			if left {
				a.cyclePalette(-1)
			} else {
				a.cyclePalette(+1)
			}
		case 2: // Sound
			a.cfg.Muted = !a.cfg.Muted
		case 3: // Low-Latency Audio
			a.cfg.AudioLowLatency = !a.cfg.AudioLowLatency
			if a.cfg.AudioLowLatency {
				a.m.CapBufferedSamples(a.m.SampleRate() * 30 / 1000)
			}
			if a.audioSrc != nil {
				a.audioSrc.lowLatency = a.cfg.AudioLowLatency
			}
			a.applyPlayerBufferSize()
		case 4: // Button board
			a.cfg.ShowBoard = !a.cfg.ShowBoard
			a.applyWindowSize()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode = "main"
		a.menuIdx = 0
	}
}
