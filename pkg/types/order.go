package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EthToken is the reserved token address meaning raw ETH rather than an
// ERC20 token contract.
var EthToken = common.Address{}

// Order is either an OnChainOrder or an OffChainOrder. The single conversion
// point for contract calls is Params, which fills the signature fields with
// zeroes for the on-chain variant.
type Order interface {
	// Params returns the full parameter tuple accepted by the contract's
	// signature-aware calls (availableVolume, amountFilled, trade, testTrade,
	// cancelOrder).
	Params() OrderParams

	// Maker returns the address of the account that created the order.
	Maker() common.Address
}

// OrderParams is the flattened order tuple passed to the exchange contract.
type OrderParams struct {
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

// OnChainOrder is an order created via a state-changing transaction and
// discoverable through the contract's Order event logs.
type OnChainOrder struct {
	TokenGet   common.Address
	AmountGet  Wad
	TokenGive  common.Address
	AmountGive Wad
	Expires    uint64 // block number after which the order is void
	Nonce      uint32 // random, in [1, 2^32-1]
	User       common.Address
}

// OrderKey is the comparable structural identity of an OnChainOrder, covering
// all seven fields. Two orders are the same order iff their keys are equal.
type OrderKey struct {
	TokenGet   common.Address
	AmountGet  string
	TokenGive  common.Address
	AmountGive string
	Expires    uint64
	Nonce      uint32
	User       common.Address
}

// Key returns the order's structural identity.
func (o OnChainOrder) Key() OrderKey {
	return OrderKey{
		TokenGet:   o.TokenGet,
		AmountGet:  o.AmountGet.key(),
		TokenGive:  o.TokenGive,
		AmountGive: o.AmountGive.key(),
		Expires:    o.Expires,
		Nonce:      o.Nonce,
		User:       o.User,
	}
}

// Equal reports whether both orders have identical field values.
func (o OnChainOrder) Equal(other OnChainOrder) bool {
	return o.Key() == other.Key()
}

// Params implements Order. The signature fields are zero for on-chain orders.
func (o OnChainOrder) Params() OrderParams {
	return OrderParams{
		TokenGet:   o.TokenGet,
		AmountGet:  o.AmountGet.Int(),
		TokenGive:  o.TokenGive,
		AmountGive: o.AmountGive.Int(),
		Expires:    new(big.Int).SetUint64(o.Expires),
		Nonce:      new(big.Int).SetUint64(uint64(o.Nonce)),
		User:       o.User,
	}
}

// Maker implements Order.
func (o OnChainOrder) Maker() common.Address {
	return o.User
}

func (o OnChainOrder) String() string {
	return fmt.Sprintf("OnChainOrder{tokenGet: %s, amountGet: %s, tokenGive: %s, amountGive: %s, expires: %d, nonce: %d, user: %s}",
		o.TokenGet.Hex(), o.AmountGet, o.TokenGive.Hex(), o.AmountGive, o.Expires, o.Nonce, o.User.Hex())
}

// OffChainOrder is an order that exists only as a maker-signed message,
// distributed via the relay and settled on-chain only when taken.
type OffChainOrder struct {
	TokenGet   common.Address
	AmountGet  Wad
	TokenGive  common.Address
	AmountGive Wad
	Expires    uint64
	Nonce      uint32
	User       common.Address
	V          uint8
	R          [32]byte
	S          [32]byte
}

// OffChainOrderKey is the comparable structural identity of an OffChainOrder,
// covering all ten fields including the signature.
type OffChainOrderKey struct {
	OrderKey
	V uint8
	R [32]byte
	S [32]byte
}

// Key returns the order's structural identity.
func (o OffChainOrder) Key() OffChainOrderKey {
	core := OnChainOrder{
		TokenGet:   o.TokenGet,
		AmountGet:  o.AmountGet,
		TokenGive:  o.TokenGive,
		AmountGive: o.AmountGive,
		Expires:    o.Expires,
		Nonce:      o.Nonce,
		User:       o.User,
	}

	return OffChainOrderKey{
		OrderKey: core.Key(),
		V:        o.V,
		R:        o.R,
		S:        o.S,
	}
}

// Equal reports whether both orders have identical field values.
func (o OffChainOrder) Equal(other OffChainOrder) bool {
	return o.Key() == other.Key()
}

// Params implements Order.
func (o OffChainOrder) Params() OrderParams {
	return OrderParams{
		TokenGet:   o.TokenGet,
		AmountGet:  o.AmountGet.Int(),
		TokenGive:  o.TokenGive,
		AmountGive: o.AmountGive.Int(),
		Expires:    new(big.Int).SetUint64(o.Expires),
		Nonce:      new(big.Int).SetUint64(uint64(o.Nonce)),
		User:       o.User,
		V:          o.V,
		R:          o.R,
		S:          o.S,
	}
}

// Maker implements Order.
func (o OffChainOrder) Maker() common.Address {
	return o.User
}

func (o OffChainOrder) String() string {
	return fmt.Sprintf("OffChainOrder{tokenGet: %s, amountGet: %s, tokenGive: %s, amountGive: %s, expires: %d, nonce: %d, user: %s, v: %d}",
		o.TokenGet.Hex(), o.AmountGet, o.TokenGive.Hex(), o.AmountGive, o.Expires, o.Nonce, o.User.Hex(), o.V)
}
