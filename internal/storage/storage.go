// Package storage persists exchange events observed by the watch service.
package storage

import (
	"context"

	"github.com/mselser95/etherdelta-client/pkg/exchange"
)

// Storage is the interface for recording observed exchange events.
type Storage interface {
	// StoreOrderEvent records an on-chain order placement.
	StoreOrderEvent(ctx context.Context, event exchange.OrderEvent) error

	// StoreCancelEvent records an on-chain order cancellation.
	StoreCancelEvent(ctx context.Context, event exchange.CancelEvent) error

	// Close closes the storage connection.
	Close() error
}
