// Package term shows the simulated board in a terminal. CGRAM glyphs are
// drawn as braille; the buzzer plays through the system speaker.
package term

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/emu"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/input"
)

// Panel origin on the terminal.
const (
	panelX = 2
	panelY = 1
)

var runeKeys = map[rune]input.Button{
	'e': input.Up,
	'i': input.Right,
	'f': input.Left,
	'j': input.Center,
	' ': input.Center,
}

var specialKeys = map[tcell.Key]input.Button{
	tcell.KeyEnter: input.Down,
	tcell.KeyUp:    input.Up,
	tcell.KeyRight: input.Right,
	tcell.KeyLeft:  input.Left,
	tcell.KeyDown:  input.Down,
}

var buttonStyle = map[input.Button]tcell.Color{
	input.Up:     tcell.ColorRed,
	input.Right:  tcell.ColorGreen,
	input.Left:   tcell.ColorBlue,
	input.Center: tcell.ColorYellow,
	input.Down:   tcell.ColorWhite,
}

// Terminal is the tcell frontend.
type Terminal struct {
	cfg    Config
	m      *emu.Machine
	screen tcell.Screen

	held   map[input.Button]time.Time // release deadline per button
	paused bool

	audio     *beep.Ctrl
	audioInit bool
}

// New opens the terminal and, unless disabled, the speaker.
func New(cfg Config, m *emu.Machine) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("term: %w", err)
	}
	t := NewWithScreen(cfg, m, screen)
	if !cfg.NoSound {
		if err := t.initAudio(); err != nil {
			// Non-fatal, the game runs without sound
			log.Printf("term: audio initialization failed: %v", err)
		}
	}
	return t, nil
}

// NewWithScreen uses an already initialised screen.
func NewWithScreen(cfg Config, m *emu.Machine, screen tcell.Screen) *Terminal {
	cfg.Defaults()
	return &Terminal{cfg: cfg, m: m, screen: screen, held: make(map[input.Button]time.Time)}
}

// buzzerStreamer feeds buzzer samples to the speaker, padding with silence
// when the buzzer is quiet.
type buzzerStreamer struct{ m *emu.Machine }

func (s buzzerStreamer) Stream(samples [][2]float64) (int, bool) {
	got := s.m.PullSamples(len(samples))
	for i := range samples {
		v := 0.0
		if i < len(got) {
			v = float64(got[i]) / 32768
		}
		samples[i] = [2]float64{v, v}
	}
	return len(samples), true
}

func (s buzzerStreamer) Err() error { return nil }

func (t *Terminal) initAudio() error {
	sampleRate := beep.SampleRate(t.m.SampleRate())
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return err
	}
	t.audio = &beep.Ctrl{Streamer: buzzerStreamer{m: t.m}, Paused: t.cfg.Muted}
	speaker.Play(t.audio)
	t.audioInit = true
	return nil
}

func (t *Terminal) setMuted(on bool) {
	t.cfg.Muted = on
	if t.audio == nil {
		return
	}
	speaker.Lock()
	t.audio.Paused = on
	speaker.Unlock()
}

// press holds b until now plus the configured hold.
func (t *Terminal) press(b input.Button, now time.Time) {
	t.held[b] = now.Add(t.cfg.Hold)
}

// buttons drops expired holds and returns what is still down.
func (t *Terminal) buttons(now time.Time) emu.Buttons {
	var out emu.Buttons
	for b, until := range t.held {
		if !now.Before(until) {
			delete(t.held, b)
			continue
		}
		switch b {
		case input.Up:
			out.Up = true
		case input.Right:
			out.Right = true
		case input.Left:
			out.Left = true
		case input.Center:
			out.Center = true
		case input.Down:
			out.Down = true
		}
	}
	return out
}

// handleEvent reacts to one terminal event and reports whether to keep
// running.
func (t *Terminal) handleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if b, ok := specialKeys[ev.Key()]; ok {
			t.press(b, now)
			return true
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		r := ev.Rune()
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if b, ok := runeKeys[r]; ok {
			t.press(b, now)
			return true
		}
		switch r {
		case 'q':
			return false
		case 'p':
			t.paused = !t.paused
			t.m.SetPaused(t.paused)
		case 'm':
			t.setMuted(!t.cfg.Muted)
		case '[':
			t.cyclePalette(-1)
		case ']':
			t.cyclePalette(+1)
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *Terminal) cyclePalette(dir int) {
	names := emu.PaletteNames()
	idx := 0
	for i, n := range names {
		if n == t.m.Palette() {
			idx = i
			break
		}
	}
	t.m.SetPalette(names[(idx+dir+len(names))%len(names)])
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

// draw paints the panel, the button row and the status line.
func (t *Terminal) draw(pressed emu.Buttons) {
	snap := t.m.Snapshot()
	pal, _ := emu.LookupPalette(t.m.Palette())
	t.screen.Clear()

	frame := tcell.StyleDefault.Foreground(tcell.ColorGray)
	w := hd44780.Cols + 2
	for x := 1; x < w-1; x++ {
		t.screen.SetContent(panelX-1+x, panelY-1, '─', nil, frame)
		t.screen.SetContent(panelX-1+x, panelY+hd44780.Rows, '─', nil, frame)
	}
	for y := 0; y < hd44780.Rows; y++ {
		t.screen.SetContent(panelX-1, panelY+y, '│', nil, frame)
		t.screen.SetContent(panelX+hd44780.Cols, panelY+y, '│', nil, frame)
	}
	t.screen.SetContent(panelX-1, panelY-1, '┌', nil, frame)
	t.screen.SetContent(panelX+hd44780.Cols, panelY-1, '┐', nil, frame)
	t.screen.SetContent(panelX-1, panelY+hd44780.Rows, '└', nil, frame)
	t.screen.SetContent(panelX+hd44780.Cols, panelY+hd44780.Rows, '┘', nil, frame)

	on := tcell.StyleDefault.Foreground(rgb(pal.Ink)).Background(rgb(pal.Backlight))
	off := tcell.StyleDefault.Background(rgb(pal.Off))
	for row := 0; row < hd44780.Rows; row++ {
		for col, code := range snap.Row(row) {
			if !snap.DisplayOn {
				t.screen.SetContent(panelX+col, panelY+row, ' ', nil, off)
				continue
			}
			t.screen.SetContent(panelX+col, panelY+row, cellRune(snap, code), nil, on)
		}
	}

	held := map[input.Button]bool{
		input.Up: pressed.Up, input.Right: pressed.Right, input.Left: pressed.Left,
		input.Center: pressed.Center, input.Down: pressed.Down,
	}
	y := panelY + hd44780.Rows + 2
	for i, b := range []input.Button{input.Up, input.Right, input.Left, input.Center, input.Down} {
		style := tcell.StyleDefault.Foreground(buttonStyle[b])
		r := '○'
		if held[b] {
			r = '●'
		}
		t.screen.SetContent(panelX+i*3, y, r, nil, style)
	}

	status := tcell.StyleDefault.Foreground(tcell.ColorGray)
	hs := t.m.Scores()
	t.text(panelX, y+2, fmt.Sprintf("best: classic L%d %dpts  hardcore L%d", hs.ClassicLevel, hs.ClassicScore, hs.Hardcore), status)
	t.text(panelX, y+3, "E I F J Enter: buttons  p: pause  m: mute  [ ]: palette  q: quit", status)
	if t.paused {
		t.text(panelX, y+4, "PAUSED", tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true))
	}
	t.screen.Show()
}

// Run drives the screen until the player quits or the machine stops.
func (t *Terminal) Run() error {
	ticker := time.NewTicker(t.cfg.Frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !t.handleEvent(ev, time.Now()) {
				return nil
			}
		case <-t.m.Done():
			return t.m.Err()
		case now := <-ticker.C:
			b := t.buttons(now)
			t.m.SetButtons(b)
			t.draw(b)
		}
	}
}

// Close restores the terminal and releases the speaker.
func (t *Terminal) Close() {
	if t.audioInit {
		speaker.Close()
	}
	t.screen.Fini()
}
