package liveview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	mu     sync.Mutex
	orders []domain.Order
	err    error
	calls  atomic.Int32

	// gated sources block each run until release receives a value.
	gated   bool
	started chan struct{}
	release chan struct{}
}

func newGatedSource() *stubSource {
	return &stubSource{gated: true, started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (s *stubSource) ListSince(ctx context.Context, _ time.Time) ([]domain.Order, error) {
	s.calls.Add(1)
	if s.gated {
		s.started <- struct{}{}
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders, s.err
}

func (s *stubSource) ListCheckoutSessionsSince(context.Context, time.Time) ([]domain.CheckoutSession, error) {
	return nil, nil
}

func (s *stubSource) set(orders []domain.Order, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders, s.err = orders, err
}

type stubSellers struct{ users []domain.User }

func (s stubSellers) ListByIDs(context.Context, []uuid.UUID) ([]domain.User, error) {
	return s.users, nil
}

func newCoordinator(t *testing.T, src Source, hub *realtime.Hub) *Coordinator {
	t.Helper()
	c := NewCoordinator(angola(t), src, stubSellers{}, DefaultRates(), hub, time.Hour, zerolog.Nop())
	c.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }
	return c
}

func waitStarted(t *testing.T, src *stubSource) {
	t.Helper()
	select {
	case <-src.started:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not start")
	}
}

func TestCoordinator_TriggersCoalesceIntoOneFollowUp(t *testing.T) {
	hub := realtime.NewHub(nil, zerolog.Nop())
	src := newGatedSource()
	c := newCoordinator(t, src, hub)
	c.Start(context.Background())
	defer c.Stop()

	waitStarted(t, src)
	for i := 0; i < 5; i++ {
		c.Trigger(TriggerRealtime)
	}
	src.release <- struct{}{}

	waitStarted(t, src)
	src.release <- struct{}{}

	require.Eventually(t, func() bool { return c.Snapshot() != nil }, time.Second, 5*time.Millisecond)
	select {
	case <-src.started:
		t.Fatal("a third run started")
	case <-time.After(100 * time.Millisecond):
	}
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestCoordinator_ManualRefreshSharesInFlightRun(t *testing.T) {
	src := newGatedSource()
	c := newCoordinator(t, src, realtime.NewHub(nil, zerolog.Nop()))

	results := make(chan *Snapshot, 2)
	for i := 0; i < 2; i++ {
		go func() {
			snap, err := c.Refresh(context.Background())
			assert.NoError(t, err)
			results <- snap
		}()
	}

	waitStarted(t, src)
	time.Sleep(50 * time.Millisecond)
	src.release <- struct{}{}

	for i := 0; i < 2; i++ {
		select {
		case snap := <-results:
			assert.NotNil(t, snap)
		case <-time.After(2 * time.Second):
			t.Fatal("refresh did not return")
		}
	}
	assert.EqualValues(t, 1, src.calls.Load())
}

func TestCoordinator_ErrorKeepsStaleSnapshot(t *testing.T) {
	src := &stubSource{}
	src.set([]domain.Order{order(uuid.New(), "10000", "AOA", domain.OrderCompleted, "Angola")}, nil)
	c := newCoordinator(t, src, realtime.NewHub(nil, zerolog.Nop()))

	first, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, first.Stale)

	src.set(nil, errors.New("db down"))
	_, err = c.Refresh(context.Background())
	require.Error(t, err)

	snap := c.Snapshot()
	require.NotNil(t, snap)
	assert.True(t, snap.Stale)
	assert.Equal(t, "db down", snap.LastError)
	assert.True(t, snap.TotalSales.Equal(dec("10000")))
}

func TestCoordinator_SubscribesAndBroadcasts(t *testing.T) {
	hub := realtime.NewHub(nil, zerolog.Nop())
	src := &stubSource{}
	seller := uuid.New()
	src.set([]domain.Order{order(seller, "500", "AOA", domain.OrderCompleted, "Angola")}, nil)

	c := NewCoordinator(angola(t), src, stubSellers{users: []domain.User{{ID: seller, Name: "Loja Kiami"}}},
		DefaultRates(), hub, time.Hour, zerolog.Nop())

	snapshots := make(chan Snapshot, 8)
	unsub := hub.Subscribe(Channel(ViewAngola), func(ev realtime.Event) {
		assert.Equal(t, realtime.EventSnapshot, ev.Type)
		snapshots <- ev.Payload.(Snapshot)
	})
	defer unsub()

	c.Start(context.Background())
	assert.Equal(t, 1, hub.ListenerCount(realtime.ChannelOrders))
	assert.Equal(t, 1, hub.ListenerCount(realtime.ChannelCheckoutSessions))

	select {
	case snap := <-snapshots:
		require.Len(t, snap.TopSellers, 1)
		assert.Equal(t, "Loja Kiami", snap.TopSellers[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no startup snapshot")
	}

	hub.Publish(realtime.ChannelOrders, realtime.EventInsert, nil)
	select {
	case <-snapshots:
	case <-time.After(2 * time.Second):
		t.Fatal("order notification did not trigger a refresh")
	}

	c.Stop()
	assert.Equal(t, 0, hub.ListenerCount(realtime.ChannelOrders))
	assert.Equal(t, 0, hub.ListenerCount(realtime.ChannelCheckoutSessions))
}
