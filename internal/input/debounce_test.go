package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anelyubin/meteopod/log2"
)

const tick = 5 * time.Millisecond

type denv struct {
	src *FakeSource
	d   *Debouncer
	now time.Time
}

func newDenv(t testing.TB) *denv {
	src := new(FakeSource)
	return &denv{
		src: src,
		d:   NewDebouncer(log2.NewTest(t, log2.LDebug), src, DefaultWindow),
		now: time.Unix(1000, 0),
	}
}

// run advances d ticks and returns how many press edges fired meanwhile.
func (e *denv) run(d time.Duration, b Button) (presses int) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += tick {
		e.now = e.now.Add(tick)
		e.d.Advance(e.now)
		if e.d.PressedEdge(b) {
			presses++
		}
	}
	return presses
}

func TestDebounceRejectsBounce(t *testing.T) {
	t.Parallel()
	e := newDenv(t)

	// contact chatter: flips shorter than the window never commit
	for i := 0; i < 10; i++ {
		e.src.Set(ButtonSelect, i%2 == 0)
		assert.Zero(t, e.run(10*time.Millisecond, ButtonSelect))
		assert.False(t, e.d.IsPressed(ButtonSelect))
	}

	// a solid press commits exactly one edge
	e.src.Set(ButtonSelect, true)
	assert.Equal(t, 1, e.run(100*time.Millisecond, ButtonSelect))
	assert.True(t, e.d.IsPressed(ButtonSelect))

	// holding produces no further edges
	assert.Zero(t, e.run(time.Second, ButtonSelect))
}

func TestEdgeConsumedOnce(t *testing.T) {
	t.Parallel()
	e := newDenv(t)

	e.src.Set(ButtonUp, true)
	assert.Equal(t, 1, e.run(50*time.Millisecond, ButtonUp))
	assert.False(t, e.d.PressedEdge(ButtonUp))

	e.src.Release(ButtonUp)
	e.run(50*time.Millisecond, ButtonUp)
	assert.True(t, e.d.ReleasedEdge(ButtonUp))
	assert.False(t, e.d.ReleasedEdge(ButtonUp))

	// next press fires again
	e.src.Set(ButtonUp, true)
	assert.Equal(t, 1, e.run(50*time.Millisecond, ButtonUp))
}

func TestIsHeld(t *testing.T) {
	t.Parallel()
	e := newDenv(t)
	const hold = 1200 * time.Millisecond

	e.src.Set(ButtonBack, true)
	e.run(50*time.Millisecond, ButtonBack)
	assert.False(t, e.d.IsHeld(ButtonBack, e.now, hold))

	e.run(1300*time.Millisecond, ButtonBack)
	assert.True(t, e.d.IsHeld(ButtonBack, e.now, hold))

	// false immediately after release regardless of prior duration
	e.src.Release(ButtonBack)
	e.run(50*time.Millisecond, ButtonBack)
	assert.False(t, e.d.IsHeld(ButtonBack, e.now, hold))
	assert.True(t, e.d.PressedAt(ButtonBack).IsZero())
}

func TestSeedNoPhantomEdge(t *testing.T) {
	t.Parallel()
	src := &FakeSource{}
	src.Set(ButtonDown, true)
	d := NewDebouncer(log2.NewTest(t, log2.LDebug), src, DefaultWindow)

	now := time.Unix(2000, 0)
	for i := 0; i < 20; i++ {
		now = now.Add(tick)
		d.Advance(now)
		assert.False(t, d.PressedEdge(ButtonDown))
	}
	assert.True(t, d.IsPressed(ButtonDown))
}

func TestSeedUsesTickClock(t *testing.T) {
	t.Parallel()
	src := &FakeSource{}
	src.Set(ButtonBack, true)
	d := NewDebouncer(log2.NewTest(t, log2.LDebug), src, DefaultWindow)

	// the tick clock is nowhere near wall time
	now := time.Unix(5000, 0)
	d.Advance(now)
	assert.False(t, d.PressedEdge(ButtonBack))
	assert.Equal(t, now, d.PressedAt(ButtonBack))

	now = now.Add(1300 * time.Millisecond)
	d.Advance(now)
	assert.True(t, d.IsHeld(ButtonBack, now, 1200*time.Millisecond))

	// release: the episode duration is pure tick-clock arithmetic
	src.Release(ButtonBack)
	end := now
	for i := 0; i < 20; i++ {
		end = end.Add(tick)
		d.Advance(end)
	}
	assert.True(t, d.ReleasedEdge(ButtonBack))
	assert.Equal(t, 1335*time.Millisecond, d.LastPressDuration(ButtonBack))
}

func TestSourceErrorKeepsLastSample(t *testing.T) {
	t.Parallel()
	e := newDenv(t)

	e.src.Set(ButtonSelect, true)
	e.run(50*time.Millisecond, ButtonSelect)
	assert.True(t, e.d.IsPressed(ButtonSelect))

	// a flaky source degrades to the previous level, never to an error
	e.src.Err = assert.AnError
	e.run(50*time.Millisecond, ButtonSelect)
	assert.True(t, e.d.IsPressed(ButtonSelect))
}
