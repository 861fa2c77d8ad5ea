package link_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/envsensed/internal/link"
	"codeberg.org/mutker/envsensed/internal/logger"
	"codeberg.org/mutker/envsensed/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu     sync.Mutex
	remote string
	ok     bool
}

func (f *fakeTransport) Central() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remote, f.ok
}

func (f *fakeTransport) set(remote string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remote, f.ok = remote, ok
}

type fakePoller struct {
	polls []time.Time
	err   error
}

func (p *fakePoller) Poll(_ context.Context, now time.Time) (bool, error) {
	p.polls = append(p.polls, now)
	return true, p.err
}

type fakeIndicator struct {
	states []bool
}

func (i *fakeIndicator) Set(on bool) error {
	i.states = append(i.states, on)
	return nil
}

type countingCycler struct {
	cycles int
}

func (c *countingCycler) Cycle(context.Context) error {
	c.cycles++
	return nil
}

func newController(tr link.Transport, p link.Poller, ind link.Indicator) *link.Controller {
	return link.NewController(tr, p, link.WithIndicator(ind), link.WithLogger(logger.Nop()))
}

func TestNoPollWhileDisconnected(t *testing.T) {
	tr := &fakeTransport{}
	p := &fakePoller{}
	c := newController(tr, p, &fakeIndicator{})

	now := time.Unix(0, 0)
	for i := 0; i < 100; i++ {
		require.NoError(t, c.Step(context.Background(), now))
		now = now.Add(time.Second)
	}
	assert.Empty(t, p.polls)
	assert.Equal(t, link.Disconnected, c.State())
}

func TestConnectAndDisconnect(t *testing.T) {
	tr := &fakeTransport{}
	p := &fakePoller{}
	ind := &fakeIndicator{}
	c := newController(tr, p, ind)
	ctx := context.Background()
	now := time.Unix(0, 0)

	tr.set("AA:BB:CC:DD:EE:FF", true)
	require.NoError(t, c.Step(ctx, now))
	assert.Equal(t, link.Connected, c.State())
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", c.Remote())
	assert.Len(t, p.polls, 1)

	require.NoError(t, c.Step(ctx, now))
	assert.Len(t, p.polls, 2)

	tr.set("", false)
	require.NoError(t, c.Step(ctx, now))
	assert.Equal(t, link.Disconnected, c.State())
	assert.Empty(t, c.Remote())
	assert.Len(t, p.polls, 2)

	assert.Equal(t, []bool{true, false}, ind.states)
}

func TestCentralSwap(t *testing.T) {
	tr := &fakeTransport{}
	ind := &fakeIndicator{}
	c := newController(tr, &fakePoller{}, ind)

	tr.set("one", true)
	require.NoError(t, c.Step(context.Background(), time.Unix(0, 0)))
	tr.set("two", true)
	require.NoError(t, c.Step(context.Background(), time.Unix(0, 0)))

	assert.Equal(t, "two", c.Remote())
	assert.Equal(t, []bool{true, false, true}, ind.states)
}

func TestStepWrapsPollError(t *testing.T) {
	tr := &fakeTransport{remote: "x", ok: true}
	c := newController(tr, &fakePoller{err: errors.New("boom")}, &fakeIndicator{})

	assert.Error(t, c.Step(context.Background(), time.Unix(0, 0)))
}

func TestReconnectTicksImmediately(t *testing.T) {
	boot := time.Unix(1000, 0)
	cyc := &countingCycler{}
	s, err := scheduler.New(2*time.Second, boot, cyc)
	require.NoError(t, err)

	tr := &fakeTransport{}
	c := newController(tr, s, &fakeIndicator{})
	ctx := context.Background()

	tr.set("central", true)
	require.NoError(t, c.Step(ctx, boot.Add(2*time.Second)))
	assert.Equal(t, 1, cyc.cycles)

	tr.set("", false)
	for now := boot.Add(2 * time.Second); now.Before(boot.Add(20 * time.Second)); now = now.Add(time.Second) {
		require.NoError(t, c.Step(ctx, now))
	}
	assert.Equal(t, 1, cyc.cycles)

	// lastTick survived the disconnection, so the first poll is due at once.
	tr.set("central", true)
	require.NoError(t, c.Step(ctx, boot.Add(20*time.Second)))
	assert.Equal(t, 2, cyc.cycles)
}

func TestRunStopsOnCancel(t *testing.T) {
	tr := &fakeTransport{remote: "x", ok: true}
	ind := &fakeIndicator{}
	c := link.NewController(tr, &fakePoller{},
		link.WithIndicator(ind),
		link.WithLogger(logger.Nop()),
		link.WithPollInterval(time.Millisecond),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, c.Run(ctx))
	require.NotEmpty(t, ind.states)
	assert.False(t, ind.states[len(ind.states)-1], "indicator is switched off on exit")
}

func TestLogIndicator(t *testing.T) {
	ind, err := link.NewIndicator("")
	require.NoError(t, err)
	assert.NoError(t, ind.Set(true))
}
