package ui

import (
	"encoding/binary"
	"time"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/emu"
)

// applyPlayerBufferSize sets the audio player's internal buffer: ~20ms in
// low-latency mode, the configured size otherwise.
func (a *App) applyPlayerBufferSize() {
	if a.audioPlayer == nil {
		return
	}
	bufMs := a.cfg.AudioBufferMs
	if a.cfg.AudioLowLatency {
		bufMs = 20
	}
	a.audioPlayer.SetBufferSize(time.Duration(bufMs) * time.Millisecond)
}

// buzzerStream implements io.Reader by pulling mono buzzer samples and
// duplicating them into 16-bit little-endian stereo frames.
type buzzerStream struct {
	m          *emu.Machine
	muted      *bool
	lowLatency bool
	// stats
	underruns  int
	lastPulled int
}

func (s *buzzerStream) silence(p []byte, frames int) int {
	n := frames * 4
	if n > len(p) {
		n = len(p) &^ 3
	}
	for i := 0; i < n; i++ {
		p[i] = 0
	}
	return n
}

func (s *buzzerStream) Read(p []byte) (int, error) {
	if len(p) == 0 || s == nil || s.m == nil {
		return 0, nil
	}
	// Smaller than a stereo frame: fill with silence rather than return 0.
	if len(p) < 4 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	if s.muted != nil && *s.muted {
		time.Sleep(5 * time.Millisecond)
		return s.silence(p, len(p)/4), nil
	}
	maxReq := len(p) / 4
	capFrames := 2048 // ~42.7ms at 48kHz
	if s.lowLatency {
		capFrames = 1024
	}
	if maxReq > capFrames {
		maxReq = capFrames
	}

	// The buzzer is silent between notes; wait briefly before padding.
	waitDur := 15 * time.Millisecond
	if s.lowLatency {
		waitDur = 8 * time.Millisecond
	}
	deadline := time.Now().Add(waitDur)
	want := s.m.BufferedSamples()
	for want == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
		want = s.m.BufferedSamples()
	}
	if want > maxReq {
		want = maxReq
	}
	if want <= 0 {
		s.underruns++
		s.lastPulled = 0
		frames := 256
		if frames > maxReq {
			frames = maxReq
		}
		return s.silence(p, frames), nil
	}

	i := 0
	for _, v := range s.m.PullSamples(want) {
		binary.LittleEndian.PutUint16(p[i:], uint16(v))
		binary.LittleEndian.PutUint16(p[i+2:], uint16(v))
		i += 4
	}
	if i == 0 {
		s.underruns++
		return s.silence(p, 128), nil
	}
	s.lastPulled = i / 4
	return i, nil
}
