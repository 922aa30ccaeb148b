package exchange

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// PlaceOrderOnChain creates a new on-chain order via a transaction from
// maker. The nonce is drawn at random. On success the order is inserted
// into the tracker immediately, so ActiveOrders reflects it before the
// corresponding Order event has propagated.
//
// Having token_give deposited is not a precondition for placing the order,
// but nobody can take it until the maker's exchange balance covers it.
// Pass types.EthToken as either token to trade raw ETH.
func (c *Client) PlaceOrderOnChain(
	ctx context.Context,
	maker common.Address,
	tokenGet common.Address,
	amountGet types.Wad,
	tokenGive common.Address,
	amountGive types.Wad,
	expires uint64,
) (*types.Receipt, error) {
	if maker == (common.Address{}) {
		return nil, errors.New("maker cannot be the zero address")
	}

	nonce, err := RandomNonce()
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	receipt, err := c.transact(ctx, "order", nil,
		tokenGet, amountGet.Int(), tokenGive, amountGive.Int(),
		new(big.Int).SetUint64(expires), new(big.Int).SetUint64(uint64(nonce)))
	if err != nil || receipt == nil {
		return receipt, err
	}

	order := types.OnChainOrder{
		TokenGet:   tokenGet,
		AmountGet:  amountGet,
		TokenGive:  tokenGive,
		AmountGive: amountGive,
		Expires:    expires,
		Nonce:      nonce,
		User:       maker,
	}

	// Insert straight away so a query between transaction confirmation and
	// event delivery does not return a stale view. The keyed set absorbs
	// the duplicate when the event arrives.
	c.tracker.InsertLocal(order)

	OrdersPlacedTotal.WithLabelValues("onchain").Inc()
	c.logger.Info("onchain-order-placed",
		zap.Uint32("nonce", nonce),
		zap.String("maker", maker.Hex()))

	return receipt, nil
}

// ActiveOrders returns the currently-open on-chain orders. The first call
// initializes the tracker: it subscribes to new Order events and then
// backfills from historical events over the configured lookback window.
// Every call prunes orders the contract reports as fully filled (which
// includes cancelled orders).
func (c *Client) ActiveOrders(ctx context.Context) ([]types.OnChainOrder, error) {
	err := c.tracker.Initialize(ctx, c.lookback)
	if err != nil {
		return nil, fmt.Errorf("initialize tracker: %w", err)
	}

	return c.tracker.Refresh(ctx)
}

// AmountAvailable returns the amount still tradeable for an order, in terms
// of token_get. Never greater than amount_get minus the filled amount; it
// can be lower when the maker's exchange balance does not cover the order.
func (c *Client) AmountAvailable(ctx context.Context, order types.Order) (types.Wad, error) {
	p := order.Params()
	return c.callWad(ctx, "availableVolume",
		p.TokenGet, p.AmountGet, p.TokenGive, p.AmountGive,
		p.Expires, p.Nonce, p.User, p.V, p.R, p.S)
}

// AmountFilled returns the cumulative amount already filled for an order, in
// terms of token_get. Cancelled orders report as completely filled.
func (c *Client) AmountFilled(ctx context.Context, order types.Order) (types.Wad, error) {
	p := order.Params()
	return c.callWad(ctx, "amountFilled",
		p.TokenGet, p.AmountGet, p.TokenGive, p.AmountGive,
		p.Expires, p.Nonce, p.User, p.V, p.R, p.S)
}

// Trade takes (buys) an order. amount is in token_get terms and must not
// exceed AmountAvailable for the order.
func (c *Client) Trade(ctx context.Context, order types.Order, amount types.Wad) (*types.Receipt, error) {
	p := order.Params()
	receipt, err := c.transact(ctx, "trade", nil,
		p.TokenGet, p.AmountGet, p.TokenGive, p.AmountGive,
		p.Expires, p.Nonce, p.User, p.V, p.R, p.S, amount.Int())
	if err != nil || receipt == nil {
		return receipt, err
	}

	TradesTotal.Inc()
	return receipt, nil
}

// CanTrade verifies whether a Trade call with exactly the same parameters,
// sent by taker, would succeed.
func (c *Client) CanTrade(ctx context.Context, order types.Order, amount types.Wad, taker common.Address) (bool, error) {
	if taker == (common.Address{}) {
		return false, errors.New("taker cannot be the zero address")
	}

	p := order.Params()
	results, err := c.call(ctx, "testTrade",
		p.TokenGet, p.AmountGet, p.TokenGive, p.AmountGive,
		p.Expires, p.Nonce, p.User, p.V, p.R, p.S, amount.Int(), taker)
	if err != nil {
		return false, err
	}

	ok, isBool := results[0].(bool)
	if !isBool {
		return false, fmt.Errorf("testTrade returned %T, want bool", results[0])
	}

	return ok, nil
}

// CancelOrder cancels an existing order. The contract restricts cancellation
// to the order's maker, so the transaction must be sent from that account.
func (c *Client) CancelOrder(ctx context.Context, order types.Order) (*types.Receipt, error) {
	p := order.Params()
	return c.transact(ctx, "cancelOrder", nil,
		p.TokenGet, p.AmountGet, p.TokenGive, p.AmountGive,
		p.Expires, p.Nonce, p.V, p.R, p.S)
}
