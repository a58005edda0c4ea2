package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus/periph"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/emu"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/game"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/statsview"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/term"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/ui"
)

type CLIFlags struct {
	Scale     int
	Title     string
	Palette   string
	Term      bool
	Mute      bool
	Trace     bool
	TickRate  int
	NoTimeout bool
	NoSplash  bool
	MaxLevel  int
	State     string // gob state dump written on exit
	View      string // show a state dump and exit
	GPIO      bool
	StatsView bool

	// headless
	Headless bool
	For      time.Duration
	Script   string
	Hold     time.Duration
	WAV      string
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.IntVar(&f.Scale, "scale", 4, "window scale")
	flag.StringVar(&f.Title, "title", "Simon Says", "window title")
	flag.StringVar(&f.Palette, "palette", "green", "LCD palette: "+strings.Join(emu.PaletteNames(), ", "))
	flag.BoolVar(&f.Term, "term", false, "run in the terminal instead of a window")
	flag.BoolVar(&f.Mute, "mute", false, "start with sound off")
	flag.BoolVar(&f.Trace, "trace", false, "log every byte the LCD latches")
	flag.IntVar(&f.TickRate, "tick-rate", clock.DefaultTicksPerMillisecond, "busy-loop ticks per millisecond")
	flag.BoolVar(&f.NoTimeout, "no-timeout", false, "wait forever for answers")
	flag.BoolVar(&f.NoSplash, "no-splash", false, "skip the splash screen")
	flag.IntVar(&f.MaxLevel, "max-level", 20, "classic mode level cap")
	flag.StringVar(&f.State, "state", "", "write a state dump (LCD contents, finished games) here on exit")
	flag.StringVar(&f.View, "view", "", "print a state dump (and write -outpng) without running the game")
	flag.BoolVar(&f.GPIO, "gpio", false, "run the game on real GPIO pins (Raspberry Pi wiring)")
	flag.BoolVar(&f.StatsView, "statsview", false, "launch the runtime stats server (needs -tags statsview)")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window on a virtual clock")
	flag.DurationVar(&f.For, "for", 10*time.Second, "board time to run in headless mode")
	flag.StringVar(&f.Script, "script", "", "scripted presses, e.g. 500ms:down,2s:up")
	flag.DurationVar(&f.Hold, "hold", emu.DefaultHold, "how long a scripted press is held")
	flag.StringVar(&f.WAV, "wav", "", "record the buzzer to a WAV file")
	flag.StringVar(&f.PNGOut, "outpng", "", "write the last panel to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func (f CLIFlags) gameConfig() game.Config {
	c := game.Config{NoTimeout: f.NoTimeout, SkipSplash: f.NoSplash, MaxLevel: f.MaxLevel}
	c.Defaults()
	return c
}

// printable replaces CGRAM codes so LCD lines can go to a terminal.
func printable(line string) string {
	b := []byte(line)
	for i, c := range b {
		if c < 0x10 {
			b[i] = '#'
		}
	}
	return string(b)
}

func runHeadless(m *emu.Machine, f CLIFlags) error {
	if f.Script != "" {
		presses, err := emu.ParseScript(f.Script)
		if err != nil {
			return err
		}
		m.SetScript(presses, f.Hold)
	}

	start := time.Now()
	if err := m.RunFor(f.For); err != nil {
		return err
	}
	dur := time.Since(start)

	fb := m.Framebuffer()
	crc := crc32.ChecksumIEEE(fb)
	log.Printf("headless: board=%s elapsed=%s fb_crc32=%08x",
		m.Elapsed().Truncate(time.Millisecond), dur.Truncate(time.Millisecond), crc)
	for _, l := range m.Lines() {
		fmt.Printf("|%s|\n", printable(l))
	}
	for _, r := range m.Results() {
		fmt.Printf("game: level=%d score=%d won=%v timeout=%v\n", r.Completed, r.Score, r.Won, r.Timeout)
	}

	if f.PNGOut != "" {
		if err := saveFramePNG(fb, emu.FrameWidth, emu.FrameHeight, f.PNGOut); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", f.PNGOut)
	}
	if f.WAV != "" {
		if err := m.WriteWAV(f.WAV); err != nil {
			return fmt.Errorf("write WAV: %w", err)
		}
		log.Printf("wrote %s", f.WAV)
	}

	if f.Expect != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(f.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

// viewState prints a saved dump the way a headless run ends.
func viewState(m *emu.Machine, f CLIFlags) error {
	if err := m.LoadStateFromFile(f.View); err != nil {
		return err
	}
	for _, l := range m.Lines() {
		fmt.Printf("|%s|\n", printable(l))
	}
	for _, r := range m.Results() {
		fmt.Printf("game: level=%d score=%d won=%v timeout=%v\n", r.Completed, r.Score, r.Won, r.Timeout)
	}
	if f.PNGOut != "" {
		if err := saveFramePNG(m.Framebuffer(), emu.FrameWidth, emu.FrameHeight, f.PNGOut); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", f.PNGOut)
	}
	return nil
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    make([]byte, len(pix)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, pix)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// runGPIO plays on the real board; it only returns on a wiring error.
func runGPIO(f CLIFlags) error {
	var pins periph.Pins
	pins.Defaults()
	b, err := periph.Open(pins)
	if err != nil {
		return err
	}
	log.Printf("gpio: board open, tick rate %d/ms", f.TickRate)
	e := game.New(f.gameConfig(), b, clock.NewRealTime(f.TickRate), nil)
	e.OnResult = func(r game.Rules, res game.Result) {
		log.Printf("game: %s over: level %d, score %d, won=%v", r.Name, res.Completed, res.Score, res.Won)
	}
	e.Run()
	return nil
}

func main() {
	f := parseFlags()
	if f.StatsView {
		statsview.Launch(os.Stdout)
	}
	if f.GPIO {
		if err := runGPIO(f); err != nil {
			log.Fatalf("gpio: %v", err)
		}
		return
	}

	emuCfg := emu.Config{
		Trace:        f.Trace,
		Headless:     f.Headless,
		TickRate:     f.TickRate,
		CaptureAudio: f.WAV != "",
		Palette:      f.Palette,
		Game:         f.gameConfig(),
	}
	m := emu.New(emuCfg)

	if f.View != "" {
		if err := viewState(m, f); err != nil {
			log.Fatalf("view: %v", err)
		}
		return
	}

	saveState := func() {
		if f.State == "" {
			return
		}
		if err := m.SaveStateToFile(f.State); err != nil {
			log.Printf("save state: %v", err)
			return
		}
		log.Printf("wrote %s", f.State)
	}
	writeWAV := func() {
		if f.WAV == "" {
			return
		}
		if err := m.WriteWAV(f.WAV); err != nil {
			log.Printf("write WAV: %v", err)
			return
		}
		log.Printf("wrote %s", f.WAV)
	}

	if f.Headless {
		if err := runHeadless(m, f); err != nil {
			log.Fatal(err)
		}
		saveState()
		return
	}

	if f.Term {
		t, err := term.New(term.Config{Muted: f.Mute}, m)
		if err != nil {
			log.Fatalf("terminal: %v", err)
		}
		m.Start()
		err = t.Run()
		t.Close()
		m.Stop()
		if err != nil {
			log.Fatal(err)
		}
		saveState()
		writeWAV()
		return
	}

	uiCfg := ui.Config{Title: f.Title, Scale: f.Scale, Muted: f.Mute, ShowBoard: true}
	app := ui.NewApp(uiCfg, m)
	m.Start()
	err := app.Run()
	m.Stop()
	if err != nil {
		log.Fatal(err)
	}
	saveState()
	writeWAV()
}
