package liveview

import (
	"context"
	"sync"
	"time"

	"kambafy/internal/domain"
	"kambafy/internal/pkg/metrics"
	"kambafy/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	TriggerTick     = "tick"
	TriggerRealtime = "realtime"
	TriggerManual   = "manual"
	TriggerStartup  = "startup"

	refreshTimeout = 20 * time.Second
)

// Channel is the websocket channel a view's snapshots are broadcast on.
func Channel(view string) string {
	return "admin_live:" + view
}

// Coordinator keeps one view's snapshot fresh. Triggers coalesce: while a
// recomputation runs, any number of triggers schedule exactly one follow-up.
type Coordinator struct {
	view     ViewConfig
	source   Source
	sellers  SellerDirectory
	rates    RateProvider
	broker   Broker
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	pending chan struct{}
	group   singleflight.Group

	mu       sync.RWMutex
	snapshot *Snapshot

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	unsubs    []func()
}

func NewCoordinator(view ViewConfig, source Source, sellers SellerDirectory, rates RateProvider, broker Broker, interval time.Duration, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		view:     view,
		source:   source,
		sellers:  sellers,
		rates:    rates,
		broker:   broker,
		interval: interval,
		log:      log.With().Str("component", "liveview").Str("view", view.Name).Logger(),
		now:      func() time.Time { return time.Now().UTC() },
		pending:  make(chan struct{}, 1),
	}
}

func (c *Coordinator) View() ViewConfig { return c.view }

// Start subscribes to the order and checkout channels and runs the refresh loop until Stop.
func (c *Coordinator) Start(ctx context.Context) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	onChange := func(realtime.Event) { c.Trigger(TriggerRealtime) }
	c.unsubs = []func(){
		c.broker.Subscribe(realtime.ChannelOrders, onChange),
		c.broker.Subscribe(realtime.ChannelCheckoutSessions, onChange),
	}

	go c.loop(ctx, c.done)
	c.Trigger(TriggerStartup)
}

// Stop unsubscribes and waits for the loop to exit.
func (c *Coordinator) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if c.cancel == nil {
		return
	}
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
	c.cancel()
	<-c.done
	c.cancel = nil
}

// Trigger schedules a recomputation without blocking.
func (c *Coordinator) Trigger(source string) {
	metrics.LiveTriggers.WithLabelValues(c.view.Name, source).Inc()
	select {
	case c.pending <- struct{}{}:
	default:
	}
}

// Refresh recomputes now, sharing the result with any run already in flight.
func (c *Coordinator) Refresh(ctx context.Context) (*Snapshot, error) {
	metrics.LiveTriggers.WithLabelValues(c.view.Name, TriggerManual).Inc()
	return c.refresh(ctx)
}

// Snapshot returns the latest snapshot, or nil before the first successful run.
func (c *Coordinator) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil
	}
	cp := *c.snapshot
	return &cp
}

func (c *Coordinator) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Trigger(TriggerTick)
		case <-c.pending:
			if _, err := c.refresh(ctx); err != nil && ctx.Err() == nil {
				c.log.Warn().Err(err).Msg("live view refresh failed")
			}
		}
	}
}

func (c *Coordinator) refresh(ctx context.Context) (*Snapshot, error) {
	ch := c.group.DoChan(c.view.Name, func() (any, error) {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return c.compute(runCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		snap := *res.Val.(*Snapshot)
		return &snap, nil
	}
}

func (c *Coordinator) compute(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.LiveRefreshDuration.WithLabelValues(c.view.Name).Observe(time.Since(start).Seconds())
	}()

	now := c.now()
	since := StartOfDay(now, c.view.Location)

	orders, err := c.source.ListSince(ctx, since)
	if err != nil {
		return nil, c.fail(err)
	}
	sessions, err := c.source.ListCheckoutSessionsSince(ctx, since)
	if err != nil {
		return nil, c.fail(err)
	}

	snap := Aggregate(orders, sessions, c.rates, c.view)
	snap.Since = since
	snap.ComputedAt = now
	if snap.SkippedOrders > 0 {
		c.log.Warn().Int("skipped", snap.SkippedOrders).Msg("orders skipped for unknown currency")
	}
	c.nameSellers(ctx, snap.TopSellers)

	c.mu.Lock()
	c.snapshot = &snap
	c.mu.Unlock()

	metrics.LiveRefreshes.WithLabelValues(c.view.Name, "ok").Inc()
	c.broker.Publish(Channel(c.view.Name), realtime.EventSnapshot, snap)
	return &snap, nil
}

// fail keeps the previous snapshot and marks it stale.
func (c *Coordinator) fail(err error) error {
	metrics.LiveRefreshes.WithLabelValues(c.view.Name, "error").Inc()
	c.mu.Lock()
	if c.snapshot != nil {
		c.snapshot.Stale = true
		c.snapshot.LastError = err.Error()
	}
	c.mu.Unlock()
	c.log.Error().Err(err).Msg("live view recompute failed, keeping previous snapshot")
	return err
}

func (c *Coordinator) nameSellers(ctx context.Context, top []SellerRevenue) {
	if len(top) == 0 || c.sellers == nil {
		return
	}
	ids := make([]uuid.UUID, len(top))
	for i, s := range top {
		ids[i] = s.SellerID
	}
	users, err := c.sellers.ListByIDs(ctx, ids)
	if err != nil {
		c.log.Warn().Err(err).Msg("resolve seller names")
		return
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = displayName(u)
	}
	for i := range top {
		top[i].Name = names[top[i].SellerID]
	}
}

func displayName(u domain.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
