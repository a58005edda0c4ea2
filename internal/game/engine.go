// Package game runs the menu and the two game modes on top of the LCD,
// input, tone and random source.
package game

import (
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/bus"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/display"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/input"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/lcd"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/rng"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/tone"
)

// Waits, in ticks.
const (
	Decisecond clock.Ticks = 100 * clock.Millisecond

	FlashHold      clock.Ticks = 240000 // after the colour's note
	FlashGap       clock.Ticks = 150000 // after the board is unlit again
	RoundSettle    clock.Ticks = 20000
	TitleWait      clock.Ticks = 1500000
	MistakeWait    clock.Ticks = 480000
	MistakeRecover clock.Ticks = 900000
	LevelUpWait    clock.Ticks = 600000
	GameOverWait   clock.Ticks = 3000000
	SplashWait     clock.Ticks = 1500000
	MenuPoll       clock.Ticks = 5000

	introPolls                 = 25000
	introPollDelay clock.Ticks = 60
	winPolls                   = 50000
	winPollDelay   clock.Ticks = 100
)

// PressFlash is the note length, in periods, of the player's own press.
const PressFlash = 60

// Mode is a menu entry.
type Mode int

const (
	ModeClassic Mode = iota
	ModeHardcore
	ModeHighScores
	numModes
)

func (m Mode) String() string {
	switch m {
	case ModeClassic:
		return "classic"
	case ModeHardcore:
		return "hardcore"
	case ModeHighScores:
		return "high scores"
	}
	return "mode?"
}

// ColorFreq is the half period of each colour's note. Buttons without a
// colour flash silently.
func ColorFreq(c input.Color) clock.Ticks {
	switch c {
	case input.Red:
		return 1500
	case input.Green:
		return 2000
	case input.Blue:
		return 1200
	case input.Yellow:
		return 1800
	}
	return 0
}

// Result is how a run ended.
type Result struct {
	Completed int // levels cleared
	Score     int
	Won       bool
	Timeout   bool // the last mistake was a timeout
}

// RoundResult is the outcome of one playback and answer cycle.
type RoundResult struct {
	Mistake bool
	Timeout bool
	Checked int // answers compared before the round ended
}

// Engine owns every piece of game state. It runs on a single goroutine and
// is never re-entered.
type Engine struct {
	cfg    Config
	bus    bus.Bus
	clk    clock.Clock
	lcd    *lcd.Driver
	screen *display.Compositor
	in     *input.Manager
	tone   tone.Generator
	rnd    rng.Source

	Scores HighScores

	// OnResult, when set, is called after every finished run.
	OnResult func(r Rules, res Result)
}

// New builds an engine on b. A nil rnd samples TCNT0.
func New(cfg Config, b bus.Bus, clk clock.Clock, rnd rng.Source) *Engine {
	if rnd == nil {
		rnd = rng.Counter{Bus: b}
	}
	cfg.Defaults()
	d := lcd.New(b, clk)
	return &Engine{
		cfg:    cfg,
		bus:    b,
		clk:    clk,
		lcd:    d,
		screen: display.New(d, clk),
		in:     input.New(b, clk),
		tone:   tone.Generator{Bus: b, Clock: clk},
		rnd:    rnd,
	}
}

// Run powers up and loops over the menu forever.
func (e *Engine) Run() {
	e.PowerUp()
	if !e.cfg.SkipSplash {
		e.Splash()
	}
	for {
		switch e.Menu() {
		case ModeClassic:
			r := Classic
			r.MaxLevel = e.cfg.MaxLevel
			e.Play(r)
		case ModeHardcore:
			e.Play(Hardcore)
		case ModeHighScores:
			e.ShowHighScores()
		}
	}
}

// PowerUp initialises the display and starts the random counter.
func (e *Engine) PowerUp() {
	e.lcd.Init()
	rng.Counter{Bus: e.bus}.Start()
}

// Splash shows the title animation and plays the start tune.
func (e *Engine) Splash() {
	e.screen.Splash()
	e.tone.PlayTune(tone.TuneStart)
	e.clk.Delay(SplashWait)
}

// Menu lets the player pick a mode. Up moves back, Left moves forward,
// Down confirms.
func (e *Engine) Menu() Mode {
	sel := ModeClassic
	e.screen.LoadMenuGlyphs()
	e.screen.Menu(int(sel))
	for {
		switch e.in.Poll() {
		case input.Up:
			sel = (sel - 1 + numModes) % numModes
			e.screen.Menu(int(sel))
			e.tone.Play(tone.Navigate)
		case input.Left:
			sel = (sel + 1) % numModes
			e.screen.Menu(int(sel))
			e.tone.Play(tone.Navigate)
		case input.Down:
			e.tone.Play(tone.Confirm)
			return sel
		}
		e.in.Unlock()
		e.clk.Delay(MenuPoll)
	}
}

// ShowHighScores shows both records until a button is pressed.
func (e *Engine) ShowHighScores() {
	e.screen.LoadGameGlyphs()
	e.screen.HighScores(e.Scores.ClassicLevel, e.Scores.ClassicScore, e.Scores.Hardcore, e.Scores.HardcoreScore())
	e.in.Acknowledge()
}

func (e *Engine) board(s *Session) display.Board {
	return display.Board{
		Hardcore: s.Rules.Hardcore,
		Lives:    s.Lives,
		Level:    s.Level,
		MaxLevel: s.Rules.MaxLevel,
		Best:     e.Scores.Hardcore,
		Score:    s.Score,
	}
}

// Play runs one game from the intro screen to the result screen.
func (e *Engine) Play(r Rules) Result {
	s := e.Start(r)
	e.intro()
	e.screen.Title(r.Hardcore)
	e.tone.PlayTune(tone.TuneStart)
	e.clk.Delay(TitleWait)

	for {
		rr := e.Round(s)
		if s.Lives == 0 {
			return e.gameOver(s, rr.Timeout)
		}
		if rr.Mistake {
			continue
		}
		if s.Rules.MaxLevel > 0 && s.Level > s.Rules.MaxLevel || len(s.Sequence) >= e.maxSequence() {
			return e.win(s)
		}
		e.tone.PlayTune(tone.TuneLevelUp)
		e.clk.Delay(LevelUpWait)
	}
}

// Start loads the game glyphs and returns a fresh session.
func (e *Engine) Start(r Rules) *Session {
	e.screen.LoadGameGlyphs()
	return NewSession(r, e.maxSequence())
}

func (e *Engine) maxSequence() int { return e.cfg.MaxSequence }

// intro shows the key map until the time runs out or Down is pressed.
func (e *Engine) intro() {
	e.screen.Intro()
	for p := 0; p < introPolls; p++ {
		if e.in.Poll() == input.Down {
			e.in.Drain()
			return
		}
		e.in.Unlock()
		e.clk.Delay(introPollDelay)
	}
}

// Round extends the sequence if a new level started, plays it back and
// checks the answers. The first wrong or missing answer ends the round and
// costs one life.
func (e *Engine) Round(s *Session) RoundResult {
	if len(s.Sequence) < s.Level && len(s.Sequence) < cap(s.Sequence) {
		s.Sequence = append(s.Sequence, input.Colors[e.rnd.Intn(len(input.Colors))])
	}
	e.screen.Redraw(e.board(s))
	e.clk.Delay(RoundSettle)
	e.PlaySequence(s)

	var rr RoundResult
	timeout := Timeout(s.Level)
	for _, want := range s.Sequence {
		got := e.Answer(s, timeout)
		rr.Checked++
		if got.Color() != want {
			rr.Mistake = true
			rr.Timeout = got == input.None
			break
		}
	}
	if rr.Mistake {
		e.mistake(s, rr.Timeout)
		return rr
	}
	s.Score += s.Level * s.Rules.PointsPerLevel
	s.Level++
	return rr
}

// PlaySequence flashes every colour of the sequence.
func (e *Engine) PlaySequence(s *Session) {
	n := DisplayTime(s.Level) / 10
	for _, c := range s.Sequence {
		e.flash(s, c, n)
	}
}

func (e *Engine) flash(s *Session, c input.Color, length int) {
	b := e.board(s)
	e.screen.Draw(b, c)
	e.tone.PlayNote(ColorFreq(c), length)
	e.clk.Delay(FlashHold)
	e.screen.Draw(b, input.NoColor)
	e.clk.Delay(FlashGap)
}

// Answer waits for one button, drawing the countdown while the timeout is
// enabled. It returns None on timeout. An accepted press is flashed back.
func (e *Engine) Answer(s *Session, timeout int) input.Button {
	b := input.None
	if !e.cfg.NoTimeout {
		for elapsed := 0; elapsed < timeout && b == input.None; elapsed++ {
			b = e.in.Poll()
			e.in.Unlock()
			e.screen.Countdown(timeout-elapsed, timeout, s.Score)
			e.clk.Delay(Decisecond)
		}
		if b == input.None {
			e.screen.ClearCountdown()
		}
	} else {
		for b == input.None {
			b = e.in.Poll()
			e.in.Unlock()
			if b == input.None {
				e.clk.Delay(input.PollInterval)
			}
		}
	}
	if b != input.None {
		e.flash(s, b.Color(), PressFlash)
		e.in.Drain()
	}
	return b
}

func (e *Engine) mistake(s *Session, timeout bool) {
	old := s.Lives
	s.Lives--
	if s.Rules.Hardcore {
		return
	}
	e.screen.Mistake(timeout, old)
	e.tone.Play(tone.Mistake)
	e.clk.Delay(MistakeWait)
	e.screen.HeartBreak(old, s.Lives)
	e.clk.Delay(MistakeRecover)
}

func (e *Engine) finish(s *Session, res Result) Result {
	e.Scores.Record(s.Rules, res.Completed, res.Score)
	if e.OnResult != nil {
		e.OnResult(s.Rules, res)
	}
	return res
}

func (e *Engine) gameOver(s *Session, timeout bool) Result {
	res := e.finish(s, Result{Completed: s.Completed(), Score: s.Score, Timeout: timeout})
	if s.Rules.Hardcore {
		e.screen.HardcoreResult(timeout, res.Completed, res.Score)
	} else {
		e.screen.ClassicResult(false, res.Score)
	}
	e.tone.PlayTune(tone.TuneGameOver)
	e.clk.Delay(GameOverWait)
	e.in.Acknowledge()
	return res
}

// win shows the win screen. It returns on the first press or, after a
// bounded wait, keeps waiting for one.
func (e *Engine) win(s *Session) Result {
	// the sequence cap can end a run below MaxLevel
	res := Result{Completed: s.Completed(), Score: s.Score, Won: true}
	if s.Rules.MaxLevel > 0 {
		res.Completed = min(res.Completed, s.Rules.MaxLevel)
	}
	res = e.finish(s, res)
	e.screen.ClassicResult(true, res.Score)
	e.tone.PlayTune(tone.TuneLevelUp)
	for p := 0; p < winPolls; p++ {
		if e.in.Poll() != input.None {
			e.in.Drain()
			return res
		}
		e.in.Unlock()
		e.clk.Delay(winPollDelay)
	}
	e.in.Acknowledge()
	return res
}
