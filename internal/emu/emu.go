package emu

import (
	"bytes"
	"encoding/gob"
	"errors"
	"image"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/buzzer"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/game"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/input"
)

// Buttons is the state of the five board buttons.
type Buttons struct {
	Up, Down, Left, Right, Center bool
}

func (b Buttons) mask() byte {
	var m byte
	if b.Up {
		m |= bus.LineUp
	}
	if b.Down {
		m |= bus.LineDown
	}
	if b.Left {
		m |= bus.LineLeft
	}
	if b.Right {
		m |= bus.LineRight
	}
	if b.Center {
		m |= bus.LineCenter
	}
	return m
}

var errStopped = errors.New("emu: machine stopped")

// ErrStarted is returned by operations that only make sense before Start.
var ErrStarted = errors.New("emu: machine already running")

// Machine is the simulated board: an HD44780 and a piezo on a bus, with the
// game engine running against them on its own goroutine.
type Machine struct {
	cfg Config

	mu     sync.Mutex // LCD state lock, shared with renderers
	clk    *machineClock
	virt   *clock.Virtual // nil on the real-time clock
	sim    *bus.Sim
	lcd    *hd44780.Controller
	buzzer *buzzer.Buzzer
	engine *game.Engine

	onTransfer func(hd44780.Transfer)

	pal      Palette
	fb       *image.RGBA
	rendered bool

	started bool
	stop    atomic.Bool
	paused  atomic.Bool
	done    chan struct{}
	err     error

	resMu   sync.Mutex
	scores  game.HighScores
	results []game.Result
}

// machineClock lets the frontends pause and stop the engine goroutine: every
// busy-wait goes through Delay.
type machineClock struct {
	base clock.Clock
	m    *Machine
}

func (c *machineClock) Delay(t clock.Ticks) {
	for c.m.paused.Load() && !c.m.stop.Load() {
		time.Sleep(10 * time.Millisecond)
	}
	if c.m.stop.Load() {
		panic(errStopped)
	}
	c.base.Delay(t)
}

func (c *machineClock) Now() clock.Ticks { return c.base.Now() }

// New builds a powered-off board. The engine starts with Start or Run.
func New(cfg Config) *Machine {
	cfg.Defaults()
	m := &Machine{cfg: cfg, done: make(chan struct{})}
	var base clock.Clock
	if cfg.Headless {
		m.virt = clock.NewVirtual()
		base = m.virt
	} else {
		base = clock.NewRealTime(cfg.TickRate)
	}
	m.clk = &machineClock{base: base, m: m}

	m.lcd = hd44780.New()
	m.lcd.SetStateLock(&m.mu)
	m.lcd.OnTransfer = m.transfer
	m.buzzer = buzzer.New(cfg.SampleRate, cfg.TickRate)
	if cfg.CaptureAudio {
		m.buzzer.StartCapture()
	}
	m.sim = bus.NewSim(m.clk, m.lcd, m.buzzer)
	m.engine = game.New(cfg.Game, m.sim, m.clk, nil)
	m.engine.OnResult = m.record

	pal, ok := LookupPalette(cfg.Palette)
	if !ok {
		log.Printf("emu: unknown palette %q, using green", cfg.Palette)
		pal, _ = LookupPalette("green")
	}
	m.pal = pal
	m.fb = image.NewRGBA(image.Rect(0, 0, FrameWidth, FrameHeight))
	return m
}

// transfer runs for every byte the LCD latches, with the state lock held.
func (m *Machine) transfer(t hd44780.Transfer) {
	if m.cfg.Trace {
		log.Printf("lcd: %v", t)
	}
	if m.onTransfer != nil {
		m.onTransfer(t)
	}
}

// SetTransferHook installs fn for every latched LCD byte. fn runs on the
// engine goroutine with the LCD state lock held; it must not take snapshots.
func (m *Machine) SetTransferHook(fn func(hd44780.Transfer)) { m.onTransfer = fn }

// record runs on the engine goroutine after each finished game.
func (m *Machine) record(r game.Rules, res game.Result) {
	log.Printf("game: %s over: level %d, score %d, won=%v timeout=%v", r.Name, res.Completed, res.Score, res.Won, res.Timeout)
	m.resMu.Lock()
	m.scores = m.engine.Scores
	m.results = append(m.results, res)
	m.resMu.Unlock()
}

// Start runs the engine on a new goroutine.
func (m *Machine) Start() {
	m.started = true
	go func() {
		m.err = m.run()
		close(m.done)
	}()
}

// Run runs the engine on the calling goroutine until Stop, or until the
// virtual clock reaches its limit in headless mode.
func (m *Machine) Run() error {
	m.started = true
	m.err = m.run()
	close(m.done)
	return m.err
}

// RunFor runs a headless machine for d of board time.
func (m *Machine) RunFor(d time.Duration) error {
	if m.virt == nil {
		return errors.New("emu: RunFor needs a headless machine")
	}
	m.virt.Limit = m.Ticks(d)
	return m.Run()
}

func (m *Machine) run() (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && (errors.Is(e, errStopped) || errors.Is(e, clock.ErrExhausted)) {
			err = nil
			return
		}
		panic(r)
	}()
	m.engine.Run()
	return nil
}

// RequestStop asks the engine to halt at its next delay without waiting.
// It is safe to call from hooks running on the engine goroutine.
func (m *Machine) RequestStop() { m.stop.Store(true) }

// Stop asks the engine to halt at its next delay and waits for it.
func (m *Machine) Stop() {
	m.RequestStop()
	if m.started {
		<-m.done
	}
}

// Done is closed once the engine goroutine has returned.
func (m *Machine) Done() <-chan struct{} { return m.done }

// Err returns how the engine ended; valid after Done.
func (m *Machine) Err() error { return m.err }

// SetPaused freezes the engine at its next delay.
func (m *Machine) SetPaused(on bool) { m.paused.Store(on) }

// Paused reports whether the engine is paused.
func (m *Machine) Paused() bool { return m.paused.Load() }

// Ticks converts board time to clock ticks at the configured rate.
func (m *Machine) Ticks(d time.Duration) clock.Ticks {
	return clock.Ticks(d.Microseconds() * int64(m.cfg.TickRate) / 1000)
}

// Elapsed returns board time since power-up.
func (m *Machine) Elapsed() time.Duration {
	return time.Duration(int64(m.clk.Now()) * 1000 / int64(m.cfg.TickRate) * int64(time.Microsecond))
}

// SetButtons replaces the pressed set.
func (m *Machine) SetButtons(b Buttons) { m.sim.SetButtons(b.mask()) }

// Press and Release change a single button.
func (m *Machine) Press(b input.Button)   { m.sim.Press(b.Line()) }
func (m *Machine) Release(b input.Button) { m.sim.Release(b.Line()) }

// SetScript makes the buttons follow scripted presses on the board clock,
// each held for hold (DefaultHold when zero).
func (m *Machine) SetScript(presses []Press, hold time.Duration) {
	if hold <= 0 {
		hold = DefaultHold
	}
	m.sim.SetButtonSource(&scriptSource{
		clk:     m.clk,
		presses: presses,
		perMs:   int64(m.cfg.TickRate),
		hold:    m.Ticks(hold),
	})
}

// Snapshot copies the LCD state.
func (m *Machine) Snapshot() hd44780.Snapshot { return m.lcd.Snapshot() }

// Lines returns the visible text of both LCD lines.
func (m *Machine) Lines() [hd44780.Rows]string {
	s := m.lcd.Snapshot()
	return [hd44780.Rows]string{s.Text(0), s.Text(1)}
}

// Framebuffer renders the panel if it changed and returns RGBA pixels of
// FrameWidth x FrameHeight.
func (m *Machine) Framebuffer() []byte {
	s := m.lcd.Snapshot()
	if s.Dirty || s.CGDirty || !m.rendered {
		renderPanel(m.fb, s, m.pal)
		m.rendered = true
	}
	return m.fb.Pix
}

// Image returns the rendered panel.
func (m *Machine) Image() *image.RGBA {
	m.Framebuffer()
	return m.fb
}

// SetPalette switches the backlight colours.
func (m *Machine) SetPalette(name string) bool {
	p, ok := LookupPalette(name)
	if !ok {
		return false
	}
	m.pal = p
	m.cfg.Palette = name
	m.rendered = false
	return true
}

// Palette returns the active palette name.
func (m *Machine) Palette() string { return m.cfg.Palette }

// --- Audio ---

// SampleRate returns the buzzer output rate.
func (m *Machine) SampleRate() int { return m.buzzer.SampleRate() }

// PullSamples returns up to max mono samples.
func (m *Machine) PullSamples(max int) []int16 { return m.buzzer.PullSamples(max) }

// BufferedSamples returns the number of samples ready.
func (m *Machine) BufferedSamples() int { return m.buzzer.Available() }

// CapBufferedSamples trims the buffer to at most target samples.
func (m *Machine) CapBufferedSamples(target int) { m.buzzer.TrimTo(target) }

// WriteWAV writes the captured buzzer output. The machine must have been
// built with CaptureAudio.
func (m *Machine) WriteWAV(path string) error {
	if !m.cfg.CaptureAudio {
		return errors.New("emu: audio capture is off")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.buzzer.WriteWAV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- Scores ---

// Scores returns the records as of the last finished game.
func (m *Machine) Scores() game.HighScores {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	return m.scores
}

// Results returns every finished game in order.
func (m *Machine) Results() []game.Result {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	return append([]game.Result(nil), m.results...)
}

// --- Save/Load state ---
type machineState struct {
	LCD     []byte
	Elapsed time.Duration
	Results []game.Result
}

// SaveState dumps the LCD controller and the games finished so far.
// High scores are not part of it; they live as long as the process.
func (m *Machine) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	_ = enc.Encode(machineState{LCD: m.lcd.SaveState(), Elapsed: m.Elapsed(), Results: m.Results()})
	return buf.Bytes()
}

// LoadState shows a dump on a board that has not been started, for viewing.
func (m *Machine) LoadState(data []byte) error {
	if m.started {
		return ErrStarted
	}
	var s machineState
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return err
	}
	if err := m.lcd.LoadState(s.LCD); err != nil {
		return err
	}
	m.resMu.Lock()
	m.results = s.Results
	m.resMu.Unlock()
	m.rendered = false
	return nil
}

func (m *Machine) SaveStateToFile(path string) error {
	return os.WriteFile(path, m.SaveState(), 0644)
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadState(data)
}
