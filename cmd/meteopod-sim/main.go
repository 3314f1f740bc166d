// Host-side simulator: the real interaction core driven from a REPL
// with a fake button source, fake radio and a text-dump display.
package main

import (
	"context"
	"fmt"
	"image"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/anelyubin/meteopod/hardware/display"
	"github.com/anelyubin/meteopod/helpers/cli"
	"github.com/anelyubin/meteopod/internal/creds"
	"github.com/anelyubin/meteopod/internal/input"
	"github.com/anelyubin/meteopod/internal/netlink"
	"github.com/anelyubin/meteopod/internal/state"
	"github.com/anelyubin/meteopod/internal/ui"
	"github.com/anelyubin/meteopod/log2"
)

const simConfig = `
ui { tick_ms = 5 refresh_ms = 700 long_press_ms = 1200 }
hardware { radio { connect_timeout_sec = 20 } }
`

const simTick = 5 * time.Millisecond

type sim struct {
	g     *state.Global
	u     *ui.UI
	d     *display.Display
	src   *input.FakeSource
	radio *netlink.FakeRadio
	now   time.Time
}

func main() {
	log := log2.NewStderr(log2.LInfo)
	log.SetFlags(log2.LInteractiveFlags)

	g := &state.Global{
		Alive:        alive.NewAlive(),
		BuildVersion: "sim",
		Log:          log,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, state.ContextKey, g)

	s := &sim{
		g:     g,
		d:     display.NewMock(image.Pt(128, 64)),
		src:   new(input.FakeSource),
		radio: &netlink.FakeRadio{ScanResult: []string{"homenet", "cafe guest"}},
		now:   time.Now(),
	}
	g.Hardware.Display.D = s.d
	g.Hardware.Buttons.Src = s.src
	g.Hardware.Radio.R = s.radio

	dir, err := ioutil.TempDir("", "meteopod-sim")
	if err != nil {
		log.Fatal(err)
	}
	store, err := creds.NewStore(log, dir)
	if err != nil {
		log.Fatal(errors.Trace(err))
	}
	g.Hardware.Creds.Store = store

	fs := state.NewMockFullReader(map[string]string{"sim-inline": simConfig})
	g.MustInit(ctx, state.MustReadConfig(log, fs, "sim-inline"))

	s.u = new(ui.UI)
	if err := s.u.Init(ctx); err != nil {
		log.Fatal(errors.Trace(err))
	}
	s.run(2 * simTick) // Loading -> Menu
	fmt.Println("meteopod simulator, try: help")

	cli.MainLoop("meteopod-sim", s.exec, complete)
}

// run advances the fake clock in tick steps through the real core.
func (s *sim) run(d time.Duration) {
	end := s.now.Add(d)
	for s.now.Before(end) {
		s.now = s.now.Add(simTick)
		s.u.Step(s.now)
	}
}

func (s *sim) exec(line string) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}
	switch words[0] {
	case "help":
		fmt.Print(`press <up|down|select|back> [ms]   short press (default 100ms)
down/up <btn>                      hold / release a button
hold-both <ms>                     hold select+back together
run <ms>                           advance time
scan <name>...                     set fake scan results
link <addr>                        fake radio comes up
unlink                             fake radio goes down
show                               dump the frame
state                              core state summary
quit
`)

	case "press":
		b, ok := parseButton(words, 1)
		if !ok {
			return
		}
		d := parseMs(words, 2, 100*time.Millisecond)
		s.src.Set(b, true)
		s.run(d)
		s.src.Release(b)
		s.run(50 * time.Millisecond)

	case "down":
		if b, ok := parseButton(words, 1); ok {
			s.src.Set(b, true)
			s.run(50 * time.Millisecond)
		}

	case "up":
		if b, ok := parseButton(words, 1); ok {
			s.src.Release(b)
			s.run(50 * time.Millisecond)
		}

	case "hold-both":
		d := parseMs(words, 1, 1500*time.Millisecond)
		s.src.Set(input.ButtonSelect, true)
		s.src.Set(input.ButtonBack, true)
		s.run(d)
		s.src.Release(input.ButtonSelect)
		s.src.Release(input.ButtonBack)
		s.run(50 * time.Millisecond)

	case "run":
		s.run(parseMs(words, 1, 700*time.Millisecond))

	case "scan":
		s.radio.ScanResult = words[1:]
		fmt.Printf("scan results=%v\n", s.radio.ScanResult)

	case "link":
		addr := "192.168.4.2"
		if len(words) > 1 {
			addr = words[1]
		}
		s.radio.LinkedV = true
		s.radio.Addr = addr
		s.run(2 * simTick)

	case "unlink":
		s.radio.LinkedV = false
		s.radio.Addr = ""

	case "show":
		fmt.Print(s.d.String2())

	case "state":
		fmt.Printf("screen=%s conn=%s began=%s/%s aborts=%d\n",
			s.u.Screen().String(), s.u.ConnState().String(),
			s.radio.BeganName, s.radio.BeganSecret, s.radio.AbortCount)

	case "quit", "exit":
		s.g.Stop()
		fmt.Println("bye")
		os.Exit(0)

	default:
		fmt.Printf("unknown command %q, try: help\n", words[0])
	}
}

func parseButton(words []string, i int) (input.Button, bool) {
	if i >= len(words) {
		fmt.Println("button name required: up down select back")
		return 0, false
	}
	switch words[i] {
	case "up", "u":
		return input.ButtonUp, true
	case "down", "d":
		return input.ButtonDown, true
	case "select", "s", "ok":
		return input.ButtonSelect, true
	case "back", "b":
		return input.ButtonBack, true
	}
	fmt.Printf("unknown button %q\n", words[i])
	return 0, false
}

func parseMs(words []string, i int, def time.Duration) time.Duration {
	if i >= len(words) {
		return def
	}
	n, err := strconv.Atoi(words[i])
	if err != nil || n <= 0 {
		fmt.Printf("bad duration %q\n", words[i])
		return def
	}
	return time.Duration(n) * time.Millisecond
}

func complete(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "press", Description: "short press a button"},
		{Text: "down", Description: "hold a button"},
		{Text: "up", Description: "release a button"},
		{Text: "hold-both", Description: "select+back compound gesture"},
		{Text: "run", Description: "advance time, ms"},
		{Text: "scan", Description: "set fake scan results"},
		{Text: "link", Description: "fake radio link up"},
		{Text: "unlink", Description: "fake radio link down"},
		{Text: "show", Description: "dump the frame"},
		{Text: "state", Description: "core state summary"},
		{Text: "help", Description: ""},
		{Text: "quit", Description: ""},
	}
	return prompt.FilterFuzzy(suggests, d.GetWordBeforeCursor(), true)
}
