package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// feedServer serves each queued message once per connection, then closes it.
func feedServer(t *testing.T, messages [][]byte) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		for _, message := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		}

		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestNewFeed_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *FeedConfig
	}{
		{name: "nil_config", cfg: nil},
		{name: "empty_url", cfg: &FeedConfig{Logger: zap.NewNop()}},
		{name: "nil_logger", cfg: &FeedConfig{URL: "ws://relay.invalid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFeed(tt.cfg)
			if err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestFeed_DeliversOrders(t *testing.T) {
	contract := common.HexToAddress("0x8d12A197cB00D4747a1fe03395095ce2A5CC6819")
	expected := signedTestOrder()

	payload, err := MarshalOrder(contract, expected)
	if err != nil {
		t.Fatalf("marshal order: %v", err)
	}

	server := feedServer(t, [][]byte{
		[]byte(`{not json`),
		[]byte(`{"tokenGet":"bogus"}`),
		payload,
	})
	defer server.Close()

	feed, err := NewFeed(&FeedConfig{URL: wsURL(server), Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("create feed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() {
		runDone <- feed.Run(ctx)
	}()

	// Malformed messages are skipped; the valid order comes through.
	select {
	case order := <-feed.Orders():
		if !order.Equal(expected) {
			t.Fatalf("delivered order does not match: %+v", order)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no order delivered")
	}

	cancel()

	select {
	case err := <-runDone:
		if err != context.Canceled {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}

func TestFeed_ReconnectsAfterDrop(t *testing.T) {
	contract := common.HexToAddress("0x8d12A197cB00D4747a1fe03395095ce2A5CC6819")

	payload, err := MarshalOrder(contract, signedTestOrder())
	if err != nil {
		t.Fatalf("marshal order: %v", err)
	}

	// Each connection gets the order once and is then dropped, so receiving
	// two orders proves a reconnect happened.
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, payload)
		conn.Close()
	}))
	defer server.Close()

	feed, err := NewFeed(&FeedConfig{
		URL:                   wsURL(server),
		ReconnectInitialDelay: 10 * time.Millisecond,
		Logger:                zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("create feed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		_ = feed.Run(ctx)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-feed.Orders():
		case <-time.After(4 * time.Second):
			t.Fatalf("order %d never arrived", i+1)
		}
	}
}
