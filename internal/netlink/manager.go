// Package netlink owns the radio association attempt as a small
// non-blocking state machine. The UI starts, polls and cancels it; the
// radio itself is fire-and-forget behind the Radio interface.
package netlink

import (
	"time"

	atomic_clock "github.com/temoto/atomic_clock"

	"github.com/anelyubin/meteopod/internal/creds"
	"github.com/anelyubin/meteopod/log2"
)

const DefaultConnectTimeout = 20 * time.Second

const (
	ReasonTimeout   = "Timeout"
	ReasonCancelled = "Cancelled by user"
)

type State uint8

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	case StateFailed:
		return "Failed"
	}
	return "invalid"
}

// Radio is the external link interface. BeginAssociation and Abort are
// fire-and-forget, Linked is polled.
type Radio interface {
	BeginAssociation(name, secret string)
	Linked() bool
	LocalAddress() string
	Abort()
	Scan() []string
}

// Manager tracks at most one association attempt. All methods are called
// from the tick loop only.
type Manager struct {
	log     *log2.Log
	radio   Radio
	timeout time.Duration

	state  State
	cred   creds.Credential
	reason string
	addr   string
	begin  *atomic_clock.Clock
}

func NewManager(log *log2.Log, radio Radio, timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &Manager{
		log:     log,
		radio:   radio,
		timeout: timeout,
		begin:   atomic_clock.New(),
	}
}

func (self *Manager) State() State                 { return self.state }
func (self *Manager) Reason() string               { return self.reason }
func (self *Manager) Address() string              { return self.addr }
func (self *Manager) Credential() creds.Credential { return self.cred }

// Elapsed is the age of the running attempt, zero when none started.
func (self *Manager) Elapsed(now time.Time) time.Duration {
	if self.begin.IsZero() {
		return 0
	}
	end := atomic_clock.New()
	end.Set(now.UnixNano())
	return end.Sub(self.begin)
}

// Start begins a new attempt. Ignored while one is already connecting:
// the UI exposes no such path, this guard is the invariant's backstop.
func (self *Manager) Start(now time.Time, c creds.Credential) {
	if self.state == StateConnecting {
		self.log.Errorf("netlink start ignored state=%s", self.state.String())
		return
	}
	self.cred = c
	self.reason = ""
	self.addr = ""
	self.begin.Set(now.UnixNano())
	self.state = StateConnecting
	self.log.Infof("netlink start network=%s", c.Name)
	self.radio.BeginAssociation(c.Name, c.Secret)
}

// Poll advances a running attempt: linked radio completes it, the fixed
// timeout fails it. Any other state is a no-op.
func (self *Manager) Poll(now time.Time) {
	if self.state != StateConnecting {
		return
	}
	if self.radio.Linked() {
		self.addr = self.radio.LocalAddress()
		self.state = StateConnected
		self.log.Infof("netlink connected addr=%s", self.addr)
		return
	}
	if self.Elapsed(now) > self.timeout {
		self.radio.Abort()
		self.reason = ReasonTimeout
		self.state = StateFailed
		self.log.Infof("netlink timeout network=%s", self.cred.Name)
	}
}

// Cancel aborts a running attempt; no-op in every other state.
func (self *Manager) Cancel() {
	if self.state != StateConnecting {
		return
	}
	self.radio.Abort()
	self.reason = ReasonCancelled
	self.state = StateFailed
	self.log.Infof("netlink cancelled network=%s", self.cred.Name)
}

// Reset returns to Idle after the user acknowledged the result screen.
func (self *Manager) Reset() {
	self.state = StateIdle
	self.cred = creds.Credential{}
	self.reason = ""
	self.addr = ""
	self.begin.Set(0)
}
