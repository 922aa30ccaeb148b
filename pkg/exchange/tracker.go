package exchange

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Tracker maintains a best-effort live view of currently-open on-chain
// orders without re-scanning the chain on every query.
//
// Lifecycle is one-way: Initialize registers a live Order event subscription
// and then backfills from historical events, in that order, so events
// arriving during backfill are not missed. Duplicates are absorbed because
// the set is keyed by full structural order identity. Refresh prunes orders
// the contract reports as fully filled, which covers cancellations too.
//
// All methods are safe for concurrent use; event delivery may race with
// queries.
type Tracker struct {
	mu          sync.Mutex
	orders      map[types.OrderKey]types.OnChainOrder
	initialized bool
	sub         ethereum.Subscription

	deps *trackerDeps
}

// trackerDeps are the client operations the tracker is wired to.
type trackerDeps struct {
	subscribe func(ctx context.Context, handler func(OrderEvent)) (ethereum.Subscription, error)
	backfill  func(ctx context.Context, lookbackBlocks uint64) ([]OrderEvent, error)
	filled    func(ctx context.Context, order types.Order) (types.Wad, error)
	logger    *zap.Logger
}

func newTracker(deps *trackerDeps) *Tracker {
	return &Tracker{
		orders: make(map[types.OrderKey]types.OnChainOrder),
		deps:   deps,
	}
}

// Initialized reports whether the tracker has completed initialization.
func (t *Tracker) Initialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initialized
}

// Initialize registers the live event subscription and backfills historical
// orders over the lookback window. Idempotent: later calls return
// immediately. A failed initialization leaves the tracker uninitialized so
// a subsequent call can retry.
func (t *Tracker) Initialize(ctx context.Context, lookbackBlocks uint64) error {
	t.mu.Lock()
	if t.initialized {
		t.mu.Unlock()
		return nil
	}
	t.initialized = true
	t.mu.Unlock()

	// Subscription first, backfill second: an event landing during the
	// backfill is then seen at least once.
	sub, err := t.deps.subscribe(ctx, func(event OrderEvent) {
		t.insert(event.Order())
	})
	if err != nil {
		t.reset()
		return fmt.Errorf("subscribe: %w", err)
	}

	events, err := t.deps.backfill(ctx, lookbackBlocks)
	if err != nil {
		sub.Unsubscribe()
		t.reset()
		return fmt.Errorf("backfill: %w", err)
	}

	t.mu.Lock()
	t.sub = sub
	for _, event := range events {
		order := event.Order()
		t.orders[order.Key()] = order
	}
	size := len(t.orders)
	t.mu.Unlock()

	TrackedOrders.Set(float64(size))
	t.deps.logger.Info("order-tracker-initialized",
		zap.Uint64("lookback-blocks", lookbackBlocks),
		zap.Int("orders", size))

	return nil
}

// InsertLocal records an order the local actor just placed, independent of
// event delivery, so the next Refresh reflects it even before the Order
// event propagates. No-op until the tracker is initialized.
func (t *Tracker) InsertLocal(order types.OnChainOrder) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return
	}

	t.orders[order.Key()] = order
	TrackedOrders.Set(float64(len(t.orders)))
}

// Refresh prunes fully-filled (and therefore also cancelled) orders and
// returns the remaining open orders. Iteration order is undefined.
func (t *Tracker) Refresh(ctx context.Context) ([]types.OnChainOrder, error) {
	timer := prometheus.NewTimer(TrackerRefreshDuration)
	defer timer.ObserveDuration()

	t.mu.Lock()
	snapshot := make([]types.OnChainOrder, 0, len(t.orders))
	for _, order := range t.orders {
		snapshot = append(snapshot, order)
	}
	t.mu.Unlock()

	for _, order := range snapshot {
		filled, err := t.deps.filled(ctx, order)
		if err != nil {
			return nil, fmt.Errorf("query filled amount: %w", err)
		}

		if filled.Equal(order.AmountGet) {
			t.remove(order.Key())
			t.deps.logger.Debug("order-pruned",
				zap.Uint32("nonce", order.Nonce),
				zap.String("user", order.User.Hex()))
		}
	}

	t.mu.Lock()
	open := make([]types.OnChainOrder, 0, len(t.orders))
	for _, order := range t.orders {
		open = append(open, order)
	}
	size := len(t.orders)
	t.mu.Unlock()

	TrackedOrders.Set(float64(size))
	return open, nil
}

// Close tears down the live event subscription.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sub != nil {
		t.sub.Unsubscribe()
		t.sub = nil
	}
}

func (t *Tracker) insert(order types.OnChainOrder) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.orders[order.Key()] = order
	TrackedOrders.Set(float64(len(t.orders)))
}

func (t *Tracker) remove(key types.OrderKey) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.orders, key)
}

func (t *Tracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.initialized = false
}
