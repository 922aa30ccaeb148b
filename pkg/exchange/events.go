package exchange

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// OrderEvent is a decoded Order log: an on-chain order placement.
type OrderEvent struct {
	TokenGet    common.Address
	AmountGet   types.Wad
	TokenGive   common.Address
	AmountGive  types.Wad
	Expires     uint64
	Nonce       uint32
	User        common.Address
	BlockNumber uint64
	TxHash      common.Hash
}

// Order converts the event into its order value.
func (e OrderEvent) Order() types.OnChainOrder {
	return types.OnChainOrder{
		TokenGet:   e.TokenGet,
		AmountGet:  e.AmountGet,
		TokenGive:  e.TokenGive,
		AmountGive: e.AmountGive,
		Expires:    e.Expires,
		Nonce:      e.Nonce,
		User:       e.User,
	}
}

// CancelEvent is a decoded Cancel log. The signature fields are carried by
// the contract but have no operational use here.
type CancelEvent struct {
	TokenGet    common.Address
	AmountGet   types.Wad
	TokenGive   common.Address
	AmountGive  types.Wad
	Expires     uint64
	Nonce       uint32
	User        common.Address
	V           uint8
	R           [32]byte
	S           [32]byte
	BlockNumber uint64
	TxHash      common.Hash
}

type rawOrderEvent struct {
	TokenGet   common.Address
	AmountGet  *big.Int
	TokenGive  common.Address
	AmountGive *big.Int
	Expires    *big.Int
	Nonce      *big.Int
	User       common.Address
}

type rawCancelEvent struct {
	TokenGet   common.Address
	AmountGet  *big.Int
	TokenGive  common.Address
	AmountGive *big.Int
	Expires    *big.Int
	Nonce      *big.Int
	User       common.Address
	V          uint8
	R          [32]byte
	S          [32]byte
}

func decodeOrderLog(log gethtypes.Log) (OrderEvent, error) {
	var raw rawOrderEvent
	err := contractABI.UnpackIntoInterface(&raw, "Order", log.Data)
	if err != nil {
		return OrderEvent{}, fmt.Errorf("unpack Order log: %w", err)
	}

	amountGet, err := types.NewWad(raw.AmountGet)
	if err != nil {
		return OrderEvent{}, fmt.Errorf("amountGet: %w", err)
	}

	amountGive, err := types.NewWad(raw.AmountGive)
	if err != nil {
		return OrderEvent{}, fmt.Errorf("amountGive: %w", err)
	}

	return OrderEvent{
		TokenGet:    raw.TokenGet,
		AmountGet:   amountGet,
		TokenGive:   raw.TokenGive,
		AmountGive:  amountGive,
		Expires:     raw.Expires.Uint64(),
		Nonce:       uint32(raw.Nonce.Uint64()),
		User:        raw.User,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
	}, nil
}

func decodeCancelLog(log gethtypes.Log) (CancelEvent, error) {
	var raw rawCancelEvent
	err := contractABI.UnpackIntoInterface(&raw, "Cancel", log.Data)
	if err != nil {
		return CancelEvent{}, fmt.Errorf("unpack Cancel log: %w", err)
	}

	amountGet, err := types.NewWad(raw.AmountGet)
	if err != nil {
		return CancelEvent{}, fmt.Errorf("amountGet: %w", err)
	}

	amountGive, err := types.NewWad(raw.AmountGive)
	if err != nil {
		return CancelEvent{}, fmt.Errorf("amountGive: %w", err)
	}

	return CancelEvent{
		TokenGet:    raw.TokenGet,
		AmountGet:   amountGet,
		TokenGive:   raw.TokenGive,
		AmountGive:  amountGive,
		Expires:     raw.Expires.Uint64(),
		Nonce:       uint32(raw.Nonce.Uint64()),
		User:        raw.User,
		V:           raw.V,
		R:           raw.R,
		S:           raw.S,
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
	}, nil
}

func (c *Client) eventQuery(eventName string, fromBlock *big.Int) ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{c.contract},
		Topics:    [][]common.Hash{{contractABI.Events[eventName].ID}},
		FromBlock: fromBlock,
	}
}

// OnOrder subscribes to new Order events, invoking handler for each one.
// The handler runs on the subscription goroutine; it must not block for
// long. The subscription ends when the context is canceled, the returned
// subscription is unsubscribed, or the backend reports an error.
func (c *Client) OnOrder(ctx context.Context, handler func(OrderEvent)) (ethereum.Subscription, error) {
	logs := make(chan gethtypes.Log, 128)
	sub, err := c.backend.SubscribeFilterLogs(ctx, c.eventQuery("Order", nil), logs)
	if err != nil {
		return nil, fmt.Errorf("subscribe to Order events: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				sub.Unsubscribe()
				return
			case err := <-sub.Err():
				if err != nil {
					c.logger.Warn("order-subscription-error", zap.Error(err))
				}
				return
			case log := <-logs:
				event, err := decodeOrderLog(log)
				if err != nil {
					c.logger.Warn("decode-order-log", zap.Error(err))
					continue
				}
				handler(event)
			}
		}
	}()

	return sub, nil
}

// OnCancel subscribes to new Cancel events, invoking handler for each one.
func (c *Client) OnCancel(ctx context.Context, handler func(CancelEvent)) (ethereum.Subscription, error) {
	logs := make(chan gethtypes.Log, 128)
	sub, err := c.backend.SubscribeFilterLogs(ctx, c.eventQuery("Cancel", nil), logs)
	if err != nil {
		return nil, fmt.Errorf("subscribe to Cancel events: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				sub.Unsubscribe()
				return
			case err := <-sub.Err():
				if err != nil {
					c.logger.Warn("cancel-subscription-error", zap.Error(err))
				}
				return
			case log := <-logs:
				event, err := decodeCancelLog(log)
				if err != nil {
					c.logger.Warn("decode-cancel-log", zap.Error(err))
					continue
				}
				handler(event)
			}
		}
	}()

	return sub, nil
}

// PastOrders returns all Order events over the last lookbackBlocks blocks.
func (c *Client) PastOrders(ctx context.Context, lookbackBlocks uint64) ([]OrderEvent, error) {
	logs, err := c.pastLogs(ctx, "Order", lookbackBlocks)
	if err != nil {
		return nil, err
	}

	events := make([]OrderEvent, 0, len(logs))
	for _, log := range logs {
		event, err := decodeOrderLog(log)
		if err != nil {
			c.logger.Warn("decode-order-log", zap.Error(err))
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// PastCancels returns all Cancel events over the last lookbackBlocks blocks.
func (c *Client) PastCancels(ctx context.Context, lookbackBlocks uint64) ([]CancelEvent, error) {
	logs, err := c.pastLogs(ctx, "Cancel", lookbackBlocks)
	if err != nil {
		return nil, err
	}

	events := make([]CancelEvent, 0, len(logs))
	for _, log := range logs {
		event, err := decodeCancelLog(log)
		if err != nil {
			c.logger.Warn("decode-cancel-log", zap.Error(err))
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

func (c *Client) pastLogs(ctx context.Context, eventName string, lookbackBlocks uint64) ([]gethtypes.Log, error) {
	head, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get block number: %w", err)
	}

	fromBlock := new(big.Int)
	if head > lookbackBlocks {
		fromBlock.SetUint64(head - lookbackBlocks)
	}

	logs, err := c.backend.FilterLogs(ctx, c.eventQuery(eventName, fromBlock))
	if err != nil {
		return nil, fmt.Errorf("filter %s logs: %w", eventName, err)
	}

	return logs, nil
}
