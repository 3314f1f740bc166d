package state

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/juju/errors"

	"github.com/anelyubin/meteopod/hardware/display"
	"github.com/anelyubin/meteopod/internal/creds"
	"github.com/anelyubin/meteopod/internal/input"
	"github.com/anelyubin/meteopod/internal/netlink"
	"github.com/anelyubin/meteopod/log2"
)

type hardware struct {
	Display struct {
		once
		D *display.Display
	}
	Buttons struct {
		once
		Src input.Source
	}
	Radio struct {
		once
		R netlink.Radio
	}
	Creds struct {
		once
		Store *creds.Store
	}
}

func (g *Global) Display() (*display.Display, error) {
	x := &g.Hardware.Display // short alias
	_ = x.do(func() error {
		if x.D != nil { // state-new testing mode
			return nil
		}
		cfg := &g.Config.Hardware.Display
		if cfg.Framebuffer == "" {
			return nil
		}
		x.D, x.err = display.NewFb(cfg.Framebuffer, cfg.Codepage)
		return x.err
	})
	return x.D, x.err
}

func (g *Global) MustDisplay() *display.Display {
	d, err := g.Display()
	if err != nil {
		g.Log.Fatal(err)
	}
	if d == nil {
		g.Log.Fatal("display is not available")
	}
	return d
}

func (g *Global) ButtonSource() (input.Source, error) {
	x := &g.Hardware.Buttons
	_ = x.do(func() error {
		if x.Src != nil { // state-new testing mode
			return nil
		}

		if g.Config.Hardware.Input.DevInputEvent.Enable {
			src, err := input.NewDevInputSource(g.Log, g.Config.Hardware.Input.DevInputEvent.Device)
			if err != nil {
				x.err = errors.Annotatef(err, "input=%s", input.DevInputEventTag)
				return x.err
			}
			x.Src = src
			return nil
		}

		cfg := &g.Config.Hardware.Buttons
		if cfg.PinChip == "" {
			x.err = errors.Errorf("config: no button source (try buttons.pin_chip or input.dev_input_event)")
			return x.err
		}
		pins := [input.NumButtons]uint32{
			input.ButtonUp:     uint32(cfg.PinUp),
			input.ButtonDown:   uint32(cfg.PinDown),
			input.ButtonSelect: uint32(cfg.PinSelect),
			input.ButtonBack:   uint32(cfg.PinBack),
		}
		src, err := input.NewGpioSource(cfg.PinChip, pins)
		if err != nil {
			x.err = errors.Annotatef(err, "input=%s config=%#v", input.GpioSourceTag, cfg)
			return x.err
		}
		x.Src = src
		return nil
	})
	return x.Src, x.err
}

func (g *Global) Radio() netlink.Radio {
	x := &g.Hardware.Radio
	_ = x.do(func() error {
		if x.R != nil { // state-new testing mode
			return nil
		}
		cfg := &g.Config.Hardware.Radio
		x.R = netlink.NewWpaRadio(g.Log.Clone(log2.LInfo), cfg.WpaCli, cfg.Iface)
		return nil
	})
	return x.R
}

func (g *Global) CredStore() (*creds.Store, error) {
	x := &g.Hardware.Creds
	_ = x.do(func() error {
		if x.Store != nil { // state-new testing mode
			return nil
		}
		dir := filepath.Join(g.Config.Persist.Root, "network")
		x.Store, x.err = creds.NewStore(g.Log, dir)
		return errors.Annotatef(x.err, "creds dir=%s", dir)
	})
	return x.Store, x.err
}

type once struct {
	sync.Mutex
	called uint32 // atomic bool
	err    error
}

func (o *once) done() bool {
	return atomic.LoadUint32(&o.called) == 1
}

func (o *once) do(f func() error) error {
	if o.done() { // fast path
		return o.err
	}
	o.Lock()
	defer o.Unlock()
	if o.done() {
		return o.err
	}
	o.err = f()
	atomic.StoreUint32(&o.called, 1)
	return o.err
}
