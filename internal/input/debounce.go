package input

import (
	"time"

	"github.com/anelyubin/meteopod/log2"
)

const DefaultWindow = 30 * time.Millisecond

// ButtonState is the per-button debounce record.
// Invariant: pressedAt is non-zero iff stable is true.
type ButtonState struct {
	raw           bool
	stable        bool
	lastRawChange time.Time
	pressedAt     time.Time
	lastPressDur  time.Duration
	edgePress     bool
	edgeRelease   bool
}

// Debouncer samples a Source once per Advance and commits raw changes to
// stable levels only after they survive the debounce window. Edges are
// consumed once; hold duration is derived from the press timestamp.
type Debouncer struct {
	log     *log2.Log
	source  Source
	window  time.Duration
	seeded  bool
	buttons [NumButtons]ButtonState
}

func NewDebouncer(log *log2.Log, source Source, window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{
		log:    log,
		source: source,
		window: window,
	}
}

// Advance samples every button and runs the two-stage filter:
// a raw flip only records the change time; the new level becomes stable
// after staying constant for the whole window.
func (self *Debouncer) Advance(now time.Time) {
	ls, err := self.source.Levels()
	if err != nil {
		// transient read failure: keep previous raw sample
		self.log.Errorf("input read source=%s err=%v", self.source.String(), err)
		ls = self.rawLevels()
	}

	// The first sample seeds stable levels in the caller's clock domain:
	// a level held across boot produces no phantom edge and its hold
	// duration counts from the first tick.
	if !self.seeded {
		self.seeded = true
		for b := Button(0); b < NumButtons; b++ {
			bs := &self.buttons[b]
			bs.raw = ls[b]
			bs.stable = ls[b]
			bs.lastRawChange = now
			if bs.stable {
				bs.pressedAt = now
			}
		}
		return
	}

	for b := Button(0); b < NumButtons; b++ {
		bs := &self.buttons[b]
		if ls[b] != bs.raw {
			bs.raw = ls[b]
			bs.lastRawChange = now
			continue
		}
		if bs.raw == bs.stable {
			continue
		}
		if now.Sub(bs.lastRawChange) < self.window {
			continue
		}
		bs.stable = bs.raw
		if bs.stable {
			bs.pressedAt = now
			bs.edgePress = true
		} else {
			bs.lastPressDur = now.Sub(bs.pressedAt)
			bs.pressedAt = time.Time{}
			bs.edgeRelease = true
		}
	}
}

// PressedEdge reports a released->pressed transition and consumes it.
func (self *Debouncer) PressedEdge(b Button) bool {
	bs := &self.buttons[b]
	e := bs.edgePress
	bs.edgePress = false
	return e
}

// ReleasedEdge reports a pressed->released transition and consumes it.
func (self *Debouncer) ReleasedEdge(b Button) bool {
	bs := &self.buttons[b]
	e := bs.edgeRelease
	bs.edgeRelease = false
	return e
}

func (self *Debouncer) IsPressed(b Button) bool { return self.buttons[b].stable }

// IsHeld is true while b is stable-pressed for at least d.
func (self *Debouncer) IsHeld(b Button, now time.Time, d time.Duration) bool {
	bs := &self.buttons[b]
	return bs.stable && now.Sub(bs.pressedAt) >= d
}

func (self *Debouncer) PressedAt(b Button) time.Time { return self.buttons[b].pressedAt }

// LastPressDuration is how long the most recently finished press episode
// lasted. Valid on the tick ReleasedEdge fires; classifies short vs long.
func (self *Debouncer) LastPressDuration(b Button) time.Duration {
	return self.buttons[b].lastPressDur
}

func (self *Debouncer) rawLevels() Levels {
	var ls Levels
	for b := Button(0); b < NumButtons; b++ {
		ls[b] = self.buttons[b].raw
	}
	return ls
}
