package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/emu"
	"github.com/FabianRolfMatthiasNoll/SimonSays/internal/hd44780"
)

// textWindow keeps the characters written since the last command, so a
// message the firmware prints in one go can be matched as a whole.
type textWindow struct {
	buf []byte
	max int
}

func (w *textWindow) add(t hd44780.Transfer) {
	if t.Command {
		w.buf = w.buf[:0]
		return
	}
	w.buf = append(w.buf, t.Value)
	if len(w.buf) > w.max {
		w.buf = w.buf[len(w.buf)-w.max:]
	}
}

func (w *textWindow) contains(s string) bool {
	return strings.Contains(strings.ToLower(string(w.buf)), s)
}

func main() {
	limit := flag.Duration("for", 30*time.Second, "board time to run")
	until := flag.String("until", "", "stop once this text is written to the LCD (case-insensitive); empty to disable")
	script := flag.String("script", "", "scripted presses, e.g. 500ms:down,2s:up")
	hold := flag.Duration("hold", emu.DefaultHold, "how long a scripted press is held")
	noSplash := flag.Bool("no-splash", false, "skip the splash screen")
	quiet := flag.Bool("quiet", false, "only print the summary")
	flag.Parse()

	cfg := emu.Config{Headless: true}
	cfg.Game.Defaults()
	cfg.Game.SkipSplash = *noSplash
	m := emu.New(cfg)
	if *script != "" {
		presses, err := emu.ParseScript(*script)
		if err != nil {
			log.Fatalf("script: %v", err)
		}
		m.SetScript(presses, *hold)
	}

	want := strings.ToLower(*until)
	win := &textWindow{max: 2 * hd44780.LineWidth}
	var cmds, data int
	found := false
	m.SetTransferHook(func(t hd44780.Transfer) {
		if t.Command {
			cmds++
		} else {
			data++
		}
		if !*quiet {
			fmt.Printf("%10s  %v\n", m.Elapsed().Truncate(time.Microsecond), t)
		}
		win.add(t)
		if want != "" && !found && win.contains(want) {
			found = true
			m.RequestStop()
		}
	})

	start := time.Now()
	if err := m.RunFor(*limit); err != nil {
		log.Fatalf("run: %v", err)
	}
	fmt.Printf("\nDone: commands=%d data=%d board=%s elapsed=%s\n",
		cmds, data, m.Elapsed().Truncate(time.Millisecond), time.Since(start).Truncate(time.Millisecond))
	if want != "" {
		if !found {
			fmt.Printf("'%s' never appeared on the LCD.\n", *until)
			os.Exit(1)
		}
		fmt.Printf("Detected '%s' on the LCD.\n", *until)
	}
}
