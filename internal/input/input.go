// Package input turns raw button levels into debounced press/release
// edges and hold durations. All state advances from the owner's tick,
// there are no goroutines here except inside sources that need them.
package input

type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonSelect
	ButtonBack
	NumButtons
)

var buttonNames = [NumButtons]string{"up", "down", "select", "back"}

func (b Button) String() string {
	if b >= NumButtons {
		return "invalid"
	}
	return buttonNames[b]
}

// Levels is one raw sample per button, true = pressed.
// Electrical polarity (pull-up, pressed=low) is a source concern.
type Levels [NumButtons]bool

type Source interface {
	// Levels returns the current raw sample. Must not block.
	Levels() (Levels, error)
	String() string
}

// FakeSource is a settable Source for tests and the simulator.
type FakeSource struct {
	L   Levels
	Err error
}

var _ Source = new(FakeSource)

func (self *FakeSource) Levels() (Levels, error) { return self.L, self.Err }
func (self *FakeSource) String() string          { return "fake" }

func (self *FakeSource) Set(b Button, pressed bool) { self.L[b] = pressed }
func (self *FakeSource) Release(b Button)           { self.L[b] = false }
