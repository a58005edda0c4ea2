package ui

import (
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/emu"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const boardH = 20 // button indicator strip under the panel, in panel pixels

// keyMap binds keys to board buttons: the E/I/F/J/Enter layout of the
// original keypad plus the arrow keys.
var keyMap = map[ebiten.Key]input.Button{
	ebiten.KeyE:          input.Up,
	ebiten.KeyI:          input.Right,
	ebiten.KeyF:          input.Left,
	ebiten.KeyJ:          input.Center,
	ebiten.KeyEnter:      input.Down,
	ebiten.KeyArrowUp:    input.Up,
	ebiten.KeyArrowRight: input.Right,
	ebiten.KeyArrowLeft:  input.Left,
	ebiten.KeyArrowDown:  input.Down,
	ebiten.KeySpace:      input.Center,
}

// buttonsFromKeys maps held keys to board buttons.
func buttonsFromKeys(pressed func(ebiten.Key) bool) emu.Buttons {
	var b emu.Buttons
	for k, btn := range keyMap {
		if !pressed(k) {
			continue
		}
		switch btn {
		case input.Up:
			b.Up = true
		case input.Right:
			b.Right = true
		case input.Left:
			b.Left = true
		case input.Center:
			b.Center = true
		case input.Down:
			b.Down = true
		}
	}
	return b
}

// buttonColor is the indicator colour of each board button.
var buttonColor = map[input.Button]color.RGBA{
	input.Up:     {0xE0, 0x30, 0x30, 0xFF},
	input.Right:  {0x30, 0xC0, 0x40, 0xFF},
	input.Left:   {0x30, 0x60, 0xE0, 0xFF},
	input.Center: {0xE0, 0xD0, 0x30, 0xFF},
	input.Down:   {0xD0, 0xD0, 0xD0, 0xFF},
}

type dialogResult struct {
	kind string // "state" or "wav"
	path string
}

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	held   emu.Buttons
	paused bool

	curW, curH int

	// overlay/menu
	showMenu    bool
	menuMode    string // "main", "slot", "settings", "keys"
	menuIdx     int
	currentSlot int
	keysOff     int
	toastMsg    string
	toastUntil  time.Time
	dialogs     chan dialogResult

	// audio
	audioCtx    *audio.Context
	audioPlayer *audio.Player
	audioSrc    *buzzerStream
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	a := &App{cfg: cfg, m: m, menuMode: "main", dialogs: make(chan dialogResult, 1)}
	ebiten.SetWindowTitle(cfg.Title)
	a.applyWindowSize()
	a.audioCtx = audio.NewContext(m.SampleRate())
	a.audioSrc = &buzzerStream{m: m, muted: &a.cfg.Muted, lowLatency: cfg.AudioLowLatency}
	if p, err := a.audioCtx.NewPlayer(a.audioSrc); err == nil {
		a.audioPlayer = p
		a.applyPlayerBufferSize()
		a.audioPlayer.Play()
	} else {
		log.Printf("audio: %v", err)
	}
	return a
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) applyWindowSize() {
	h := emu.FrameHeight
	if a.cfg.ShowBoard {
		h += boardH
	}
	ebiten.SetWindowSize(emu.FrameWidth*a.cfg.Scale, h*a.cfg.Scale)
}

func (a *App) toast(msg string) {
	log.Printf("ui: %s", msg)
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) statePath(slot int) string {
	return filepath.Join(a.cfg.StateDir, fmt.Sprintf("simon_slot%d.state", slot+1))
}

func (a *App) saveSlot(slot int) error { return a.m.SaveStateToFile(a.statePath(slot)) }

func (a *App) Update() error {
	select {
	case <-a.m.Done():
		if err := a.m.Err(); err != nil {
			return err
		}
		return ebiten.Termination
	default:
	}
	select {
	case d := <-a.dialogs:
		a.handleDialog(d)
	default:
	}

	// Toggle menu (Escape); submenus handle their own Escape.
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && (!a.showMenu || a.menuMode == "main") {
		a.showMenu = !a.showMenu
		a.menuMode = "main"
		a.menuIdx = 0
		a.held = emu.Buttons{}
		a.m.SetButtons(a.held)
		return nil
	}
	if a.showMenu {
		switch a.menuMode {
		case "slot":
			a.updateSlotMenu()
		case "settings":
			a.updateSettingsMenu()
		case "keys":
			a.updateKeysMenu()
		default:
			a.updateMainMenu()
		}
		return nil
	}

	// Keyboard -> board buttons
	a.held = buttonsFromKeys(ebiten.IsKeyPressed)
	a.m.SetButtons(a.held)

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
		a.m.SetPaused(a.paused)
	}
	// Quick save (F5)
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.saveSlot(a.currentSlot); err != nil {
			a.toast("Save failed: " + err.Error())
		} else {
			a.toast(fmt.Sprintf("Saved slot %d", a.currentSlot+1))
		}
	}
	// Palette cycle ([ and ])
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		a.cyclePalette(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		a.cyclePalette(+1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if name, err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		} else {
			a.toast("Saved " + name)
		}
	}
	if a.cfg.AudioLowLatency {
		a.m.CapBufferedSamples(a.m.SampleRate() * 30 / 1000)
	}
	return nil
}

func (a *App) cyclePalette(dir int) {
	names := emu.PaletteNames()
	idx := 0
	for i, n := range names {
		if n == a.m.Palette() {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(names)) % len(names)
	a.m.SetPalette(names[idx])
	a.toast("Palette: " + names[idx])
}

func (a *App) handleDialog(d dialogResult) {
	var err error
	switch d.kind {
	case "state":
		err = a.m.SaveStateToFile(d.path)
	case "wav":
		err = a.m.WriteWAV(d.path)
	}
	if err != nil {
		a.toast("Save failed: " + err.Error())
		return
	}
	a.toast("Saved " + filepath.Base(d.path))
}

// panelScale is the largest integer scale that fits the window.
func (a *App) panelScale() int {
	h := emu.FrameHeight
	if a.cfg.ShowBoard {
		h += boardH
	}
	s := a.curW / emu.FrameWidth
	if t := a.curH / h; t < s {
		s = t
	}
	if s < 1 {
		s = 1
	}
	return s
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(emu.FrameWidth, emu.FrameHeight)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	s := a.panelScale()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(s), float64(s))
	screen.DrawImage(a.tex, op)

	if a.cfg.ShowBoard {
		a.drawBoard(screen, s)
	}
	if a.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 4, a.curH-16)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.truncateText(a.toastMsg, a.maxCharsForText(60)), 60, a.curH-16)
	}

	if a.showMenu {
		vector.DrawFilledRect(screen, 0, 0, float32(a.curW), float32(a.curH), color.RGBA{0, 0, 0, 200}, false)
		switch a.menuMode {
		case "slot":
			a.drawSlotMenu(screen)
		case "settings":
			a.drawSettingsMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
	}
}

// drawBoard shows the five buttons, lit while held.
func (a *App) drawBoard(screen *ebiten.Image, s int) {
	order := []input.Button{input.Up, input.Right, input.Left, input.Center, input.Down}
	held := map[input.Button]bool{
		input.Up: a.held.Up, input.Right: a.held.Right, input.Left: a.held.Left,
		input.Center: a.held.Center, input.Down: a.held.Down,
	}
	cy := float32(emu.FrameHeight*s) + float32(boardH*s)/2
	w := float32(emu.FrameWidth*s) / float32(len(order))
	r := float32((boardH-6)*s) / 2
	for i, b := range order {
		c := buttonColor[b]
		if !held[b] {
			c = color.RGBA{c.R / 4, c.G / 4, c.B / 4, 0xFF}
		}
		vector.DrawFilledCircle(screen, w*float32(i)+w/2, cy, r, c, true)
	}
}

func (a *App) Layout(outW, outH int) (int, int) {
	a.curW, a.curH = outW, outH
	return outW, outH
}

func (a *App) saveScreenshot() (string, error) {
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return name, png.Encode(f, a.m.Image())
}
