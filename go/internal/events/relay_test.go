package events

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/mcdev12/leagueconsole/go/internal/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	mu        sync.Mutex
	refreshed []console.Resource
}

func (c *countingRefresher) Refresh(ctx context.Context, r console.Resource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshed = append(c.refreshed, r)
	return nil
}

func (c *countingRefresher) calls() []console.Resource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]console.Resource(nil), c.refreshed...)
}

func TestRelay_refreshesOtherInstancesOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewLocalBus()
	first, second := &countingRefresher{}, &countingRefresher{}
	a := NewRelay(bus, first)
	b := NewRelay(bus, second)
	require.NoError(t, a.Start(ctx))
	require.NoError(t, b.Start(ctx))
	require.NotEqual(t, a.Origin(), b.Origin())

	require.NoError(t, a.ResourceChanged(ctx, console.ResourceTeams))

	assert.Empty(t, first.calls())
	assert.Equal(t, []console.Resource{console.ResourceTeams}, second.calls())
}

func TestRelay_stopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	bus := NewLocalBus()
	refresher := &countingRefresher{}
	require.NoError(t, NewRelay(bus, refresher).Start(ctx))
	cancel()

	require.Eventually(t, func() bool {
		bus.mu.RLock()
		defer bus.mu.RUnlock()
		return len(bus.subs) == 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, NewRelay(bus, &countingRefresher{}).ResourceChanged(context.Background(), console.ResourceLeagues))
	assert.Empty(t, refresher.calls())
}

func TestLocalBus_closed(t *testing.T) {
	bus := NewLocalBus()
	require.NoError(t, bus.Close())

	_, err := bus.Subscribe(context.Background(), func(context.Context, Event) {})
	assert.ErrorIs(t, err, ErrBusClosed)
	assert.ErrorIs(t, bus.Publish(context.Background(), Event{}), ErrBusClosed)
}

func TestLocalBus_unsubscribe(t *testing.T) {
	bus := NewLocalBus()
	var got []string
	cancel, err := bus.Subscribe(context.Background(), func(_ context.Context, e Event) {
		got = append(got, e.EventID)
	})
	require.NoError(t, err)

	e := NewResourceChanged("a", console.ResourceLeagues, time.Now())
	require.NoError(t, bus.Publish(context.Background(), e))
	cancel()
	require.NoError(t, bus.Publish(context.Background(), e))

	assert.Equal(t, []string{e.EventID}, got)
}

func TestDecodeEvent(t *testing.T) {
	e := NewResourceChanged("origin-1", console.ResourceSchedules, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	data, err := json.Marshal(e)
	require.NoError(t, err)

	got, err := decodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = decodeEvent([]byte(`{"eventType":"PickMade","resource":"teams"}`))
	assert.Error(t, err)
	_, err = decodeEvent([]byte(`{"eventType":"ResourceChanged","resource":"players"}`))
	assert.Error(t, err)
	_, err = decodeEvent([]byte(`not json`))
	assert.Error(t, err)
}

func TestNATSBus_roundTrip(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}

	cfg := DefaultNATSConfig()
	cfg.URL = url
	cfg.SubjectPrefix = "league.console.test"
	bus, err := NewNATSBus(cfg)
	require.NoError(t, err)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := &countingRefresher{}
	require.NoError(t, NewRelay(bus, refresher).Start(ctx))
	require.NoError(t, bus.nc.Flush())

	require.NoError(t, NewRelay(bus, &countingRefresher{}).ResourceChanged(ctx, console.ResourceTeams))
	require.Eventually(t, func() bool {
		return len(refresher.calls()) == 1
	}, 2*time.Second, 20*time.Millisecond)
}
