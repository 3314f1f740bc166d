// Sorry, workaround to import cycles.
package state_new

import (
	"context"
	"image"
	"os"
	"testing"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/anelyubin/meteopod/hardware/display"
	"github.com/anelyubin/meteopod/internal/creds"
	"github.com/anelyubin/meteopod/internal/input"
	"github.com/anelyubin/meteopod/internal/netlink"
	"github.com/anelyubin/meteopod/internal/state"
	"github.com/anelyubin/meteopod/log2"
)

func NewContext(log *log2.Log) (context.Context, *state.Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}

	g := &state.Global{
		Alive: alive.NewAlive(),
		Log:   log,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, state.ContextKey, g)

	return ctx, g
}

func NewTestContext(t testing.TB, buildVersion string, confString string) (context.Context, *state.Global) {
	fs := state.NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	var log *log2.Log
	if os.Getenv("meteopod_test_log_stderr") == "1" {
		log = log2.NewStderr(log2.LDebug) // useful with panics
	} else {
		log = log2.NewTest(t, log2.LDebug)
	}
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log)
	g.BuildVersion = buildVersion

	g.Hardware.Display.D = display.NewMock(image.Pt(128, 64))
	g.Hardware.Buttons.Src = new(input.FakeSource)
	g.Hardware.Radio.R = new(netlink.FakeRadio)
	store, err := creds.NewStore(log, t.TempDir())
	if err != nil {
		t.Fatal(errors.Trace(err))
	}
	g.Hardware.Creds.Store = store

	g.MustInit(ctx, state.MustReadConfig(log, fs, "test-inline"))
	return ctx, g
}
