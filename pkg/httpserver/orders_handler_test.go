package httpserver

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/internal/testutil"
	"github.com/mselser95/etherdelta-client/pkg/exchange"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// nopTransactor confirms every transaction without touching a chain.
type nopTransactor struct{}

func (nopTransactor) Transact(_ context.Context, _ common.Address, _ *big.Int, _ []byte) (*types.Receipt, error) {
	return &types.Receipt{BlockNumber: 1}, nil
}

// ordersTestClient builds an exchange client with one tracked open order.
func ordersTestClient(t *testing.T, maker common.Address) *exchange.Client {
	t.Helper()

	backend := &testutil.Backend{
		Head: 100,
		CallFn: func(_ ethereum.CallMsg) ([]byte, error) {
			// Every read in these tests is amountFilled; report nothing filled.
			return common.LeftPadBytes(big.NewInt(0).Bytes(), 32), nil
		},
	}

	client, err := exchange.NewClient(&exchange.ClientConfig{
		Contract:   common.HexToAddress("0x8d12A197cB00D4747a1fe03395095ce2A5CC6819"),
		Backend:    backend,
		Transactor: nopTransactor{},
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("create exchange client: %v", err)
	}
	t.Cleanup(client.Tracker().Close)

	if _, err := client.ActiveOrders(context.Background()); err != nil {
		t.Fatalf("initialize tracker: %v", err)
	}

	_, err = client.PlaceOrderOnChain(context.Background(),
		maker,
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		types.MustWad(big.NewInt(100)),
		types.EthToken,
		types.MustWad(big.NewInt(200)),
		5_000_000)
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	return client
}

func TestHandleOrders(t *testing.T) {
	maker := common.HexToAddress("0x3333333333333333333333333333333333333333")
	handler := NewOrdersHandler(ordersTestClient(t, maker), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()
	handler.HandleOrders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp OrdersResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Count != 1 || len(resp.Orders) != 1 {
		t.Fatalf("got %d orders, want 1", resp.Count)
	}

	order := resp.Orders[0]
	if order.User != maker.Hex() {
		t.Errorf("user = %s, want %s", order.User, maker.Hex())
	}

	if !order.AmountGet.Equal(types.MustWad(big.NewInt(100))) {
		t.Errorf("amount_get = %s, want 100", order.AmountGet.Int())
	}
}

func TestHandleOrders_UserFilter(t *testing.T) {
	maker := common.HexToAddress("0x3333333333333333333333333333333333333333")
	handler := NewOrdersHandler(ordersTestClient(t, maker), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders?user="+maker.Hex(), nil)
	w := httptest.NewRecorder()
	handler.HandleOrders(w, req)

	var resp OrdersResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Count != 1 {
		t.Fatalf("filter by maker returned %d orders, want 1", resp.Count)
	}

	other := common.HexToAddress("0x4444444444444444444444444444444444444444")
	req = httptest.NewRequest(http.MethodGet, "/api/orders?user="+other.Hex(), nil)
	w = httptest.NewRecorder()
	handler.HandleOrders(w, req)

	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Count != 0 {
		t.Fatalf("filter by a stranger returned %d orders, want 0", resp.Count)
	}
}

func TestHandleOrders_InvalidUser(t *testing.T) {
	maker := common.HexToAddress("0x3333333333333333333333333333333333333333")
	handler := NewOrdersHandler(ordersTestClient(t, maker), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders?user=bogus", nil)
	w := httptest.NewRecorder()
	handler.HandleOrders(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
