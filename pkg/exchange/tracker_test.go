package exchange

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/mselser95/etherdelta-client/internal/testutil"
	"go.uber.org/zap"
)

// filledResponder answers amountFilled calls with a settable value.
type filledResponder struct {
	mu     sync.Mutex
	filled *big.Int
}

func (f *filledResponder) set(value *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filled = value
}

func (f *filledResponder) respond(msg ethereum.CallMsg) ([]byte, error) {
	if !bytes.HasPrefix(msg.Data, contractABI.Methods["amountFilled"].ID) {
		return nil, errors.New("unexpected contract call")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return contractABI.Methods["amountFilled"].Outputs.Pack(f.filled)
}

func trackerTestClient(t *testing.T, backend *testutil.Backend) *Client {
	t.Helper()

	client, err := NewClient(&ClientConfig{
		Contract:       common.HexToAddress("0x8d12A197cB00D4747a1fe03395095ce2A5CC6819"),
		Backend:        backend,
		LookbackBlocks: 1_000_000,
		Logger:         zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	return client
}

func TestActiveOrders_BackfillThenPrune(t *testing.T) {
	order := testOrder()
	filled := &filledResponder{filled: big.NewInt(0)}
	backend := &testutil.Backend{
		Head:     5_000_000,
		PastLogs: []gethtypes.Log{packOrderLog(t, order, 4_500_000)},
		CallFn:   filled.respond,
	}

	client := trackerTestClient(t, backend)
	defer client.Tracker().Close()

	open, err := client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(open) != 1 || !open[0].Equal(order) {
		t.Fatalf("got %v, want the backfilled order", open)
	}

	// The subscription must be registered before the backfill query so no
	// event can slip between them.
	queries := backend.Queries()
	if len(queries) != 2 {
		t.Fatalf("got %d queries, want 2", len(queries))
	}

	if queries[0].FromBlock != nil {
		t.Error("first query must be the live subscription")
	}

	if queries[1].FromBlock == nil {
		t.Error("second query must be the backfill")
	}

	// A partial fill keeps the order open.
	filled.set(big.NewInt(40))

	open, err = client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(open) != 1 {
		t.Fatalf("a partially filled order must stay tracked, got %d orders", len(open))
	}

	// A complete fill (which is also how cancellation manifests) prunes it.
	filled.set(order.AmountGet.Int())

	open, err = client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(open) != 0 {
		t.Fatalf("a fully filled order must be pruned, got %d orders", len(open))
	}
}

func TestActiveOrders_LiveEvent(t *testing.T) {
	filled := &filledResponder{filled: big.NewInt(0)}
	backend := &testutil.Backend{Head: 5_000_000, CallFn: filled.respond}

	client := trackerTestClient(t, backend)
	defer client.Tracker().Close()

	open, err := client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(open) != 0 {
		t.Fatalf("got %d orders before any event", len(open))
	}

	order := testOrder()
	backend.EmitLog(packOrderLog(t, order, 5_000_001))

	// Event delivery runs on the subscription goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for {
		open, err = client.ActiveOrders(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(open) == 1 {
			break
		}

		if time.Now().After(deadline) {
			t.Fatal("live event never reached the tracker")
		}

		time.Sleep(10 * time.Millisecond)
	}

	if !open[0].Equal(order) {
		t.Fatalf("tracked order %s does not match the emitted one", open[0])
	}
}

func TestTracker_DuplicatesAbsorbed(t *testing.T) {
	order := testOrder()
	filled := &filledResponder{filled: big.NewInt(0)}
	backend := &testutil.Backend{
		Head: 5_000_000,
		PastLogs: []gethtypes.Log{
			packOrderLog(t, order, 4_500_000),
			packOrderLog(t, order, 4_500_000),
		},
		CallFn: filled.respond,
	}

	client := trackerTestClient(t, backend)
	defer client.Tracker().Close()

	open, err := client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(open) != 1 {
		t.Fatalf("identical orders must collapse into one entry, got %d", len(open))
	}
}

func TestTracker_InsertLocal(t *testing.T) {
	order := testOrder()
	filled := &filledResponder{filled: big.NewInt(0)}
	backend := &testutil.Backend{Head: 5_000_000, CallFn: filled.respond}

	client := trackerTestClient(t, backend)
	defer client.Tracker().Close()

	tracker := client.Tracker()

	// Before initialization a local insert is dropped.
	tracker.InsertLocal(order)

	open, err := client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(open) != 0 {
		t.Fatal("an insert before initialization must not survive")
	}

	tracker.InsertLocal(order)
	tracker.InsertLocal(order)

	open, err = client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(open) != 1 {
		t.Fatalf("got %d orders after local insert, want 1", len(open))
	}
}

func TestTracker_InitializeFailureIsRetryable(t *testing.T) {
	filled := &filledResponder{filled: big.NewInt(0)}
	backend := &testutil.Backend{
		Head:         5_000_000,
		CallFn:       filled.respond,
		SubscribeErr: errors.New("node unavailable"),
	}

	client := trackerTestClient(t, backend)
	defer client.Tracker().Close()

	_, err := client.ActiveOrders(context.Background())
	if err == nil {
		t.Fatal("expected an error when the subscription fails")
	}

	if client.Tracker().Initialized() {
		t.Fatal("a failed initialization must leave the tracker uninitialized")
	}

	backend.SubscribeErr = nil

	_, err = client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("retry after failure must succeed, got: %v", err)
	}

	if !client.Tracker().Initialized() {
		t.Fatal("tracker must be initialized after a successful retry")
	}
}

func TestTracker_RefreshErrorKeepsOrders(t *testing.T) {
	order := testOrder()
	callErr := errors.New("rpc timeout")
	failing := func(_ ethereum.CallMsg) ([]byte, error) {
		return nil, callErr
	}

	filled := &filledResponder{filled: big.NewInt(0)}
	backend := &testutil.Backend{
		Head:     5_000_000,
		PastLogs: []gethtypes.Log{packOrderLog(t, order, 4_500_000)},
		CallFn:   failing,
	}

	client := trackerTestClient(t, backend)
	defer client.Tracker().Close()

	_, err := client.ActiveOrders(context.Background())
	if err == nil {
		t.Fatal("expected the refresh to surface the call error")
	}

	backend.CallFn = filled.respond

	open, err := client.ActiveOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(open) != 1 {
		t.Fatal("a failed refresh must not drop tracked orders")
	}
}
