package relay

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// Feed maintains a websocket subscription to the relay's live off-chain
// order stream, delivering parsed orders on a channel. Dropped connections
// are re-established with exponential backoff.
type Feed struct {
	url          string
	dialTimeout  time.Duration
	initialDelay time.Duration
	maxDelay     time.Duration
	backoffMult  float64
	orders       chan types.OffChainOrder
	logger       *zap.Logger
}

// FeedConfig holds order feed configuration.
type FeedConfig struct {
	URL                   string
	DialTimeout           time.Duration // defaults to 10s
	ReconnectInitialDelay time.Duration // defaults to 1s
	ReconnectMaxDelay     time.Duration // defaults to 30s
	ReconnectBackoffMult  float64       // defaults to 2.0
	BufferSize            int           // defaults to 256
	Logger                *zap.Logger
}

// NewFeed creates a new relay order feed.
func NewFeed(cfg *FeedConfig) (*Feed, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.URL == "" {
		return nil, errors.New("URL cannot be empty")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	feed := &Feed{
		url:          cfg.URL,
		dialTimeout:  cfg.DialTimeout,
		initialDelay: cfg.ReconnectInitialDelay,
		maxDelay:     cfg.ReconnectMaxDelay,
		backoffMult:  cfg.ReconnectBackoffMult,
		logger:       cfg.Logger,
	}

	if feed.dialTimeout <= 0 {
		feed.dialTimeout = 10 * time.Second
	}
	if feed.initialDelay <= 0 {
		feed.initialDelay = 1 * time.Second
	}
	if feed.maxDelay <= 0 {
		feed.maxDelay = 30 * time.Second
	}
	if feed.backoffMult <= 1 {
		feed.backoffMult = 2.0
	}

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = 256
	}
	feed.orders = make(chan types.OffChainOrder, bufferSize)

	return feed, nil
}

// Orders returns the channel on which parsed off-chain orders are delivered.
// Orders are dropped when the channel is full.
func (f *Feed) Orders() <-chan types.OffChainOrder {
	return f.orders
}

// Run connects to the relay and pumps orders until the context is canceled.
// Blocking; returns ctx.Err() on cancellation.
func (f *Feed) Run(ctx context.Context) error {
	backoff := f.initialDelay

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := f.readLoop(ctx)
		if err != nil && ctx.Err() == nil {
			FeedReconnectsTotal.Inc()
			f.logger.Warn("relay-feed-disconnected",
				zap.Error(err),
				zap.Duration("backoff", backoff))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}

			backoff = time.Duration(float64(backoff) * f.backoffMult)
			if backoff > f.maxDelay {
				backoff = f.maxDelay
			}
			continue
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Clean read-loop exit resets the backoff.
		backoff = f.initialDelay
	}
}

// readLoop dials the relay and reads order messages until the connection
// drops or the context is canceled.
func (f *Feed) readLoop(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: f.dialTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.logger.Info("relay-feed-connected", zap.String("url", f.url))

	// Unblock ReadMessage when the context is canceled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var wire OrderJSON
		err = json.Unmarshal(message, &wire)
		if err != nil {
			f.logger.Warn("relay-feed-bad-message", zap.Error(err))
			continue
		}

		order, err := wire.Order()
		if err != nil {
			f.logger.Warn("relay-feed-invalid-order", zap.Error(err))
			continue
		}

		FeedOrdersTotal.Inc()

		select {
		case f.orders <- order:
		default:
			f.logger.Warn("relay-feed-buffer-full",
				zap.Uint32("nonce", order.Nonce))
		}
	}
}
