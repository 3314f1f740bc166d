// Package ui is the interaction core: debounced button events drive a
// screen state machine, the grid keyboard editor and the connection
// manager, one cooperative tick at a time.
package ui

import (
	"context"
	"time"

	"github.com/juju/errors"

	"github.com/anelyubin/meteopod/hardware/display"
	"github.com/anelyubin/meteopod/helpers"
	"github.com/anelyubin/meteopod/internal/creds"
	"github.com/anelyubin/meteopod/internal/input"
	"github.com/anelyubin/meteopod/internal/netlink"
	"github.com/anelyubin/meteopod/internal/state"
	"github.com/anelyubin/meteopod/internal/weather"
	"github.com/anelyubin/meteopod/log2"
)

const (
	DefaultTick      = 50 * time.Millisecond
	DefaultRefresh   = 700 * time.Millisecond
	DefaultLongPress = 1200 * time.Millisecond
)

type UI struct { //nolint:maligned
	g       *state.Global
	display *display.Display
	deb     *input.Debouncer
	conn    *netlink.Manager
	store   *creds.Store
	radio   netlink.Radio
	sensor  weather.Sensor
	weather weather.Provider
	locator weather.Locator

	screen      Screen
	menuSel     int
	scanResults []string
	scanSel     int
	ed          editor
	connOk      bool
	connMsg     string

	tick       time.Duration
	refresh    time.Duration
	longPress  time.Duration
	scanMax    int
	lastRender time.Time
}

func (self *UI) Init(ctx context.Context) error {
	self.g = state.GetGlobal(ctx)
	cfg := &self.g.Config.UI
	if cfg.MsgError == "" {
		cfg.MsgError = "ERR"
	}
	if cfg.MsgWait == "" {
		cfg.MsgWait = "Loading..."
	}
	self.tick = helpers.IntMillisecondDefault(cfg.TickMs, DefaultTick)
	self.refresh = helpers.IntMillisecondDefault(cfg.RefreshMs, DefaultRefresh)
	self.longPress = helpers.IntMillisecondDefault(cfg.LongPressMs, DefaultLongPress)

	src, err := self.g.ButtonSource()
	if err != nil {
		return errors.Annotate(err, "ui.Init")
	}
	window := helpers.IntMillisecondDefault(self.g.Config.Hardware.Buttons.DebounceMs, input.DefaultWindow)
	self.deb = input.NewDebouncer(self.g.Log, src, window)

	self.display = self.g.MustDisplay()

	self.radio = self.g.Radio()
	timeout := helpers.IntSecondDefault(self.g.Config.Hardware.Radio.ConnectTimeoutSec, netlink.DefaultConnectTimeout)
	self.conn = netlink.NewManager(self.g.Log.Clone(log2.LInfo), self.radio, timeout)
	self.scanMax = self.g.Config.Hardware.Radio.ScanMax
	if self.scanMax <= 0 || self.scanMax > netlink.ScanMax {
		self.scanMax = netlink.ScanMax
	}

	self.store, err = self.g.CredStore()
	if err != nil {
		return errors.Annotate(err, "ui.Init")
	}

	wcfg := &self.g.Config.Weather
	wtimeout := helpers.IntSecondDefault(wcfg.TimeoutSec, weather.DefaultFetchTimeout)
	self.sensor = weather.IIOSensor{Root: wcfg.SensorRoot}
	self.weather = weather.NewWttrProvider(self.g.Log, wcfg.ApiUrl, wtimeout)
	self.locator = weather.NewIpApiLocator(self.g.Log, wcfg.GeoUrl, wtimeout)

	self.screen = ScreenLoading
	self.ed = newEditor()
	if cred := self.store.LoadCredential(); !cred.IsZero() {
		self.ed.setName(cred.Name)
		self.ed.setSecret(cred.Secret)
	}
	return nil
}

// Loop runs the tick loop until Alive stops. All core state is owned by
// this goroutine.
func (self *UI) Loop(ctx context.Context) {
	self.g.Alive.Add(1)
	defer self.g.Alive.Done()

	self.render(time.Now())
	tkr := time.NewTicker(self.tick)
	defer tkr.Stop()
	for self.g.Alive.IsRunning() {
		select {
		case now := <-tkr.C:
			self.Step(now)
		case <-self.g.Alive.StopChan():
			self.g.Log.Debugf("ui loop end")
			return
		}
	}
}

// Step is one scheduler tick: advance the debouncer, deliver at most one
// edge per button, poll the connection iff Connecting, refresh render.
func (self *UI) Step(now time.Time) {
	self.deb.Advance(now)
	e := self.collectEdges()
	self.dispatch(now, e)

	if self.screen == ScreenConnecting {
		self.conn.Poll(now)
		switch self.conn.State() {
		case netlink.StateConnected:
			self.connOk = true
			self.connMsg = self.conn.Address()
			self.setScreen(ScreenConnResult, now)
		case netlink.StateFailed:
			self.connOk = false
			self.connMsg = self.conn.Reason()
			self.setScreen(ScreenConnResult, now)
		}
	}

	if now.Sub(self.lastRender) >= self.refresh {
		self.render(now)
	}
}

func (self *UI) Screen() Screen { return self.screen }

func (self *UI) ConnState() netlink.State { return self.conn.State() }

func (self *UI) setScreen(s Screen, now time.Time) {
	self.g.Log.Debugf("ui %s -> %s", self.screen.String(), s.String())
	self.screen = s
	self.render(now)
}

// edges is what one tick consumed: press edges for the selection
// buttons, release-classified short presses for Select/Back (a press is
// short only once released before the long threshold).
type edges struct {
	up, down           bool
	selShort, bakShort bool
}

func (self *UI) collectEdges() edges {
	e := edges{
		up:   self.deb.PressedEdge(input.ButtonUp),
		down: self.deb.PressedEdge(input.ButtonDown),
	}
	// unused edge kinds are still consumed
	self.deb.ReleasedEdge(input.ButtonUp)
	self.deb.ReleasedEdge(input.ButtonDown)
	self.deb.PressedEdge(input.ButtonSelect)
	self.deb.PressedEdge(input.ButtonBack)
	if self.deb.ReleasedEdge(input.ButtonSelect) && self.deb.LastPressDuration(input.ButtonSelect) < self.longPress {
		e.selShort = true
	}
	if self.deb.ReleasedEdge(input.ButtonBack) && self.deb.LastPressDuration(input.ButtonBack) < self.longPress {
		e.bakShort = true
	}
	return e
}
