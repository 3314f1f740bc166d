package netlink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/anelyubin/meteopod/internal/creds"
	"github.com/anelyubin/meteopod/log2"
)

func testManager(t testing.TB) (*Manager, *FakeRadio, time.Time) {
	radio := new(FakeRadio)
	m := NewManager(log2.NewTest(t, log2.LDebug), radio, DefaultConnectTimeout)
	return m, radio, time.Unix(5000, 0)
}

func TestConnectingUntilLinked(t *testing.T) {
	t.Parallel()
	m, radio, now := testManager(t)
	cred := creds.Credential{Name: "net1", Secret: "pass1"}

	m.Start(now, cred)
	assert.Equal(t, StateConnecting, m.State())
	assert.Equal(t, "net1", radio.BeganName)
	assert.Equal(t, "pass1", radio.BeganSecret)

	// stays connecting before timeout while not linked
	for i := 0; i < 10; i++ {
		now = now.Add(time.Second)
		m.Poll(now)
		assert.Equal(t, StateConnecting, m.State())
	}

	radio.LinkedV = true
	radio.Addr = "10.1.2.3"
	m.Poll(now.Add(time.Second))
	assert.Equal(t, StateConnected, m.State())
	assert.Equal(t, "10.1.2.3", m.Address())
}

func TestTimeoutExactlyOnce(t *testing.T) {
	t.Parallel()
	m, radio, now := testManager(t)

	m.Start(now, creds.Credential{Name: "slow"})
	m.Poll(now.Add(20 * time.Second))
	assert.Equal(t, StateConnecting, m.State(), "boundary is exclusive")

	m.Poll(now.Add(20*time.Second + time.Millisecond))
	assert.Equal(t, StateFailed, m.State())
	assert.Equal(t, ReasonTimeout, m.Reason())
	assert.Equal(t, 1, radio.AbortCount)

	// further polls change nothing
	m.Poll(now.Add(25 * time.Second))
	assert.Equal(t, StateFailed, m.State())
	assert.Equal(t, 1, radio.AbortCount)
}

func TestCancel(t *testing.T) {
	t.Parallel()
	m, radio, now := testManager(t)

	// no-op outside Connecting
	m.Cancel()
	assert.Equal(t, StateIdle, m.State())
	assert.Zero(t, radio.AbortCount)

	m.Start(now, creds.Credential{Name: "n"})
	m.Cancel()
	assert.Equal(t, StateFailed, m.State())
	assert.Equal(t, ReasonCancelled, m.Reason())
	assert.Equal(t, 1, radio.AbortCount)

	m.Cancel()
	assert.Equal(t, 1, radio.AbortCount)
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	m, _, now := testManager(t)

	assert.Zero(t, m.Elapsed(now), "no attempt, no age")

	m.Start(now, creds.Credential{Name: "n"})
	assert.Equal(t, 5*time.Second, m.Elapsed(now.Add(5*time.Second)))

	m.Cancel()
	m.Reset()
	assert.Zero(t, m.Elapsed(now.Add(time.Minute)))
}

func TestStartGuardWhileConnecting(t *testing.T) {
	t.Parallel()
	m, radio, now := testManager(t)

	m.Start(now, creds.Credential{Name: "first"})
	m.Start(now.Add(time.Second), creds.Credential{Name: "second"})
	assert.Equal(t, "first", m.Credential().Name)
	assert.Equal(t, 1, radio.BeginCount)
}

func TestResetAfterResult(t *testing.T) {
	t.Parallel()
	m, _, now := testManager(t)

	m.Start(now, creds.Credential{Name: "n", Secret: "s"})
	m.Cancel()
	m.Reset()
	assert.Equal(t, StateIdle, m.State())
	assert.True(t, m.Credential().IsZero())
	assert.Zero(t, m.Elapsed(now))

	// retry is a fresh user-initiated start
	m.Start(now, creds.Credential{Name: "n2"})
	assert.Equal(t, StateConnecting, m.State())
}
