package emu

import (
	"fmt"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/clock"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/input"
)

// DefaultHold is how long a scripted press keeps its button down.
const DefaultHold = 250 * time.Millisecond

// Press is one scripted button press.
type Press struct {
	At     time.Duration
	Button input.Button
}

// ParseScript reads a comma separated list of at:button entries, for example
// "500ms:down,2s:up". Times are measured from power-up on the board clock.
func ParseScript(s string) ([]Press, error) {
	var out []Press
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		at, name, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("script entry %q: want time:button", item)
		}
		d, err := time.ParseDuration(at)
		if err != nil {
			return nil, fmt.Errorf("script entry %q: %w", item, err)
		}
		b, ok := input.ParseButton(name)
		if !ok {
			return nil, fmt.Errorf("script entry %q: unknown button %q", item, name)
		}
		out = append(out, Press{At: d, Button: b})
	}
	return out, nil
}

// scriptSource holds each press for hold ticks starting at its time.
type scriptSource struct {
	clk     clock.Clock
	presses []Press
	perMs   int64
	hold    clock.Ticks
}

func (s *scriptSource) ticks(d time.Duration) clock.Ticks {
	return clock.Ticks(d.Microseconds() * s.perMs / 1000)
}

func (s *scriptSource) Pressed() byte {
	now := s.clk.Now()
	var mask byte
	for _, p := range s.presses {
		at := s.ticks(p.At)
		if now >= at && now < at+s.hold {
			mask |= p.Button.Line()
		}
	}
	return mask
}
