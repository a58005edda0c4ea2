package game

import "github.com/FabianRolfMatthiasNoll/SimonSays/internal/input"

// Rules is what sets the two game modes apart.
type Rules struct {
	Name           string
	Hardcore       bool // skull screens, no hearts, best tracked by level only
	Lives          int  // mistakes allowed per run
	MaxLevel       int  // 0: unbounded
	PointsPerLevel int
}

var (
	Classic  = Rules{Name: "classic", Lives: 3, MaxLevel: 20, PointsPerLevel: 10}
	Hardcore = Rules{Name: "hardcore", Hardcore: true, Lives: 1, PointsPerLevel: 20}
)

// DisplayTime is how long each colour is shown at level, in milliseconds.
func DisplayTime(level int) int {
	return max(200, 600-20*(level-1))
}

// Timeout is the time allowed per answer at level, in deciseconds.
func Timeout(level int) int {
	return max(60, 150-5*(level-1))
}

// Session is the state of one run. It is owned by the engine for the
// duration of Play.
type Session struct {
	Rules    Rules
	Level    int
	Lives    int
	Score    int
	Sequence []input.Color
}

func NewSession(r Rules, capacity int) *Session {
	return &Session{
		Rules:    r,
		Level:    1,
		Lives:    r.Lives,
		Sequence: make([]input.Color, 0, capacity),
	}
}

// Completed is the number of levels cleared so far.
func (s *Session) Completed() int { return s.Level - 1 }

// HighScores are the best results since power-up.
type HighScores struct {
	ClassicLevel int
	ClassicScore int
	Hardcore     int // best completed hardcore level
}

// HardcoreScore derives the hardcore best score from the best level.
func (h HighScores) HardcoreScore() int {
	total := 0
	for i := 1; i <= h.Hardcore; i++ {
		total += 20 * i
	}
	return total
}

// Record stores a finished run if it beats the current best and reports
// whether it did. Classic compares level first and score second; hardcore
// compares level only.
func (h *HighScores) Record(r Rules, level, score int) bool {
	if r.Hardcore {
		if level > h.Hardcore {
			h.Hardcore = level
			return true
		}
		return false
	}
	if level > h.ClassicLevel || level == h.ClassicLevel && score > h.ClassicScore {
		h.ClassicLevel = level
		h.ClassicScore = score
		return true
	}
	return false
}
