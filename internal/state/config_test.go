package state

import (
	"context"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/temoto/alive/v2"

	"github.com/anelyubin/meteopod/internal/creds"
	"github.com/anelyubin/meteopod/internal/input"
	"github.com/anelyubin/meteopod/internal/netlink"
	"github.com/anelyubin/meteopod/log2"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		input     string
		check     func(testing.TB, context.Context)
		expectErr string
	}
	cases := []Case{
		{"empty", "", nil, ""},

		{"radio",
			`hardware { radio { iface = "wlan0" connect_timeout_sec = 20 scan_max = 31 } }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, "wlan0", g.Config.Hardware.Radio.Iface)
				assert.Equal(t, 20, g.Config.Hardware.Radio.ConnectTimeoutSec)
				assert.Equal(t, 31, g.Config.Hardware.Radio.ScanMax)
			},
			"",
		},

		{"buttons",
			`hardware { buttons {
	pin_chip = "/dev/gpiochip0"
	pin_up = 17 pin_down = 27 pin_select = 22 pin_back = 23
	debounce_ms = 30
} }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				b := g.Config.Hardware.Buttons
				assert.Equal(t, "/dev/gpiochip0", b.PinChip)
				assert.Equal(t, 27, b.PinDown)
				assert.Equal(t, 30, b.DebounceMs)
			},
			"",
		},

		{"ui-weather",
			`ui { tick_ms = 50 refresh_ms = 700 long_press_ms = 1200 }
weather { api_url = "http://api.example/current" sensor_root = "/sys/bus/iio/devices" }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, 700, g.Config.UI.RefreshMs)
				assert.Equal(t, 1200, g.Config.UI.LongPressMs)
				assert.Equal(t, "http://api.example/current", g.Config.Weather.ApiUrl)
			},
			"",
		},

		{"include-normalize", `
persist { root = "a" }
include "./empty" {}`,
			nil, ""},

		{"include-optional", `
include "persist-b" {}
include "non-exist" { optional = true }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, "b", g.Config.Persist.Root)
			}, ""},

		{"include-overwrites", `
persist { root = "a" }
include "persist-b" {}`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, "b", g.Config.Persist.Root)
			}, ""},

		{"error-syntax", `hello`, nil, "key 'hello' expected start of object"},
		{"error-include-loop", `include "include-loop" {}`, nil, "config include loop: from=include-loop include=include-loop"},
	}
	mkCheck := func(c Case) func(*testing.T) {
		return func(t *testing.T) {
			// log := log2.NewStderr(log2.LDebug) // helps with panics
			log := log2.NewTest(t, log2.LDebug)

			// XXX FIXME code duplicate from NewContext but stupid import cycle
			g := &Global{
				Alive: alive.NewAlive(),
				Log:   log,
			}
			ctx := context.Background()
			ctx = context.WithValue(ctx, log2.ContextKey, log)
			ctx = context.WithValue(ctx, ContextKey, g)

			g.Hardware.Buttons.Src = new(input.FakeSource)
			g.Hardware.Radio.R = new(netlink.FakeRadio)
			store, err := creds.NewStore(log, t.TempDir())
			if err != nil {
				t.Fatal(errors.Trace(err))
			}
			g.Hardware.Creds.Store = store

			fs := NewMockFullReader(map[string]string{
				"test-inline":  c.input,
				"empty":        "",
				"persist-b":    `persist{root="b"}`,
				"error-syntax": "hello",
				"include-loop": `include "include-loop" {}`,
			})
			cfg, err := ReadConfig(log, fs, "test-inline")
			if err == nil {
				err = g.Init(ctx, cfg)
			}
			if c.expectErr == "" {
				if err != nil {
					t.Fatalf("error expected=nil actual='%v'", errors.ErrorStack(err))
				}
				if c.check != nil {
					c.check(t, ctx)
				}
			} else {
				if !strings.Contains(err.Error(), c.expectErr) {
					t.Fatalf("error expected='%s' actual='%v'", c.expectErr, err)
				}
			}
		}
	}
	for _, c := range cases {
		t.Run(c.name, mkCheck(c))
	}
}

func TestFunctionalBundled(t *testing.T) {
	// not Parallel
	t.Logf("this test needs OS open|read|stat access to file `../../meteopod.hcl`")

	log := log2.NewTest(t, log2.LDebug)
	MustReadConfig(log, NewOsFullReader(), "../../meteopod.hcl")
}
