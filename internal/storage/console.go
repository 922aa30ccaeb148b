package storage

import (
	"context"
	"fmt"

	"github.com/mselser95/etherdelta-client/pkg/exchange"
	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by printing events to the console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreOrderEvent prints an on-chain order placement to the console.
func (c *ConsoleStorage) StoreOrderEvent(_ context.Context, event exchange.OrderEvent) error {
	fmt.Printf("ORDER  block=%d maker=%s get=%s@%s give=%s@%s expires=%d nonce=%d\n",
		event.BlockNumber,
		event.User.Hex(),
		event.AmountGet.Int(), event.TokenGet.Hex(),
		event.AmountGive.Int(), event.TokenGive.Hex(),
		event.Expires,
		event.Nonce,
	)

	return nil
}

// StoreCancelEvent prints an on-chain order cancellation to the console.
func (c *ConsoleStorage) StoreCancelEvent(_ context.Context, event exchange.CancelEvent) error {
	fmt.Printf("CANCEL block=%d maker=%s get=%s@%s give=%s@%s nonce=%d\n",
		event.BlockNumber,
		event.User.Hex(),
		event.AmountGet.Int(), event.TokenGet.Hex(),
		event.AmountGive.Int(), event.TokenGive.Hex(),
		event.Nonce,
	)

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
