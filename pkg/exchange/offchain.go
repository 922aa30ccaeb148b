package exchange

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// RandomNonce returns a random order nonce in [1, 2^32-1]. Nonces are not
// sequential; they only disambiguate otherwise-identical orders.
func RandomNonce() (uint32, error) {
	var buf [4]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		return 0, fmt.Errorf("read random bytes: %w", err)
	}

	nonce := binary.BigEndian.Uint32(buf[:])
	if nonce == 0 {
		nonce = 1
	}

	return nonce, nil
}

// canonicalMessage builds the byte-exact signing payload for an off-chain
// order: contract address and token addresses as their 20-byte forms (the
// low 20 bytes of the 32-byte ABI word), amounts, expiry and nonce as
// big-endian 256-bit words, concatenated in contract-call order.
func canonicalMessage(
	contract common.Address,
	tokenGet common.Address,
	amountGet types.Wad,
	tokenGive common.Address,
	amountGive types.Wad,
	expires uint64,
	nonce uint32,
) []byte {
	message := make([]byte, 0, 3*common.AddressLength+4*32)
	message = append(message, contract.Bytes()...)
	message = append(message, tokenGet.Bytes()...)
	message = append(message, math.U256Bytes(amountGet.Int())...)
	message = append(message, tokenGive.Bytes()...)
	message = append(message, math.U256Bytes(amountGive.Int())...)
	message = append(message, math.U256Bytes(new(big.Int).SetUint64(expires))...)
	message = append(message, math.U256Bytes(new(big.Int).SetUint64(uint64(nonce)))...)
	return message
}

// OrderDigest computes the digest the maker signs for an off-chain order:
// sha256 over the canonical message. The exchange contract address acts as
// the domain separator.
func OrderDigest(
	contract common.Address,
	tokenGet common.Address,
	amountGet types.Wad,
	tokenGive common.Address,
	amountGive types.Wad,
	expires uint64,
	nonce uint32,
) common.Hash {
	return sha256.Sum256(canonicalMessage(contract, tokenGet, amountGet, tokenGive, amountGive, expires, nonce))
}

// PlaceOrderOffChain creates a maker-signed off-chain order and submits it
// to the relay, without an on-chain transaction.
//
// A signing failure is returned as an error and produces no order. A relay
// rejection or timeout yields (nil, nil); the caller can retry, which draws
// a fresh nonce.
func (c *Client) PlaceOrderOffChain(
	ctx context.Context,
	maker common.Address,
	tokenGet common.Address,
	amountGet types.Wad,
	tokenGive common.Address,
	amountGive types.Wad,
	expires uint64,
) (*types.OffChainOrder, error) {
	if c.signer == nil {
		return nil, errors.New("no signer configured")
	}

	if c.relay == nil {
		return nil, errors.New("no relay client configured")
	}

	if maker == (common.Address{}) {
		return nil, errors.New("maker cannot be the zero address")
	}

	nonce, err := RandomNonce()
	if err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	digest := OrderDigest(c.contract, tokenGet, amountGet, tokenGive, amountGive, expires, nonce)

	signature, err := c.signer.SignHash(ctx, maker, digest)
	if err != nil {
		return nil, &types.SigningError{Account: maker, Err: err}
	}

	if len(signature) != 65 {
		return nil, &types.SigningError{
			Account: maker,
			Err:     fmt.Errorf("signature is %d bytes, want 65", len(signature)),
		}
	}

	order := types.OffChainOrder{
		TokenGet:   tokenGet,
		AmountGet:  amountGet,
		TokenGive:  tokenGive,
		AmountGive: amountGive,
		Expires:    expires,
		Nonce:      nonce,
		User:       maker,
		V:          signature[64],
	}
	copy(order.R[:], signature[0:32])
	copy(order.S[:], signature[32:64])

	accepted, err := c.relay.Submit(ctx, c.contract, order)
	if err != nil {
		return nil, fmt.Errorf("submit to relay: %w", err)
	}

	if !accepted {
		c.logger.Warn("offchain-order-not-accepted",
			zap.Uint32("nonce", nonce),
			zap.String("maker", maker.Hex()))
		return nil, nil
	}

	OrdersPlacedTotal.WithLabelValues("offchain").Inc()
	c.logger.Info("offchain-order-placed",
		zap.Uint32("nonce", nonce),
		zap.String("maker", maker.Hex()))

	return &order, nil
}
