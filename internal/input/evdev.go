package input

import (
	"os"
	"sync/atomic"

	"github.com/juju/errors"
	inputevent "github.com/temoto/inputevent-go"

	"github.com/anelyubin/meteopod/log2"
)

const DevInputEventTag = "dev-input-event"

// Linux key codes of the bench rig keypad.
const (
	evKeyEsc   = 1
	evKeyEnter = 28
	evKeyUp    = 103
	evKeyDown  = 108
)

// DevInputSource adapts /dev/input/event* key state to button levels for
// development on a desk without the real buttons. A reader goroutine
// maintains a level bitmap, Levels() is a lock-free snapshot.
type DevInputSource struct {
	log    *log2.Log
	f      *os.File
	levels uint32 // bitmap by Button
}

var _ Source = new(DevInputSource)

func NewDevInputSource(log *log2.Log, device string) (*DevInputSource, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s device=%s", DevInputEventTag, device)
	}
	self := &DevInputSource{log: log, f: f}
	go self.readLoop()
	return self, nil
}

func (self *DevInputSource) String() string { return DevInputEventTag }

func (self *DevInputSource) Levels() (Levels, error) {
	var ls Levels
	bits := atomic.LoadUint32(&self.levels)
	for b := Button(0); b < NumButtons; b++ {
		ls[b] = bits&(1<<uint(b)) != 0
	}
	return ls, nil
}

func (self *DevInputSource) Close() error { return self.f.Close() }

func (self *DevInputSource) readLoop() {
	for {
		ie, err := inputevent.ReadOne(self.f)
		if err != nil {
			self.log.Debugf("%s read err=%v", DevInputEventTag, err)
			return
		}
		if ie.Type != inputevent.EV_KEY {
			continue
		}
		var b Button
		switch ie.Code {
		case evKeyUp:
			b = ButtonUp
		case evKeyDown:
			b = ButtonDown
		case evKeyEnter:
			b = ButtonSelect
		case evKeyEsc:
			b = ButtonBack
		default:
			continue
		}
		down := inputevent.KeyEventState(ie.Value) != inputevent.KeyStateUp
		for {
			old := atomic.LoadUint32(&self.levels)
			new := old &^ (1 << uint(b))
			if down {
				new = old | (1 << uint(b))
			}
			if atomic.CompareAndSwapUint32(&self.levels, old, new) {
				break
			}
		}
	}
}
