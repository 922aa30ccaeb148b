package exchange

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// KeyedTransactor signs and submits transactions with a local private key
// and waits for them to be mined. It also implements HashSigner with
// eth_sign semantics: the digest is wrapped in the personal-message prefix
// and v is offset to 27/28, matching what a node's eth_sign returns.
type KeyedTransactor struct {
	key     *ecdsa.PrivateKey
	address common.Address
	client  *ethclient.Client
	chainID *big.Int
	logger  *zap.Logger
}

// NewKeyedTransactor creates a transactor from a hex-encoded private key.
func NewKeyedTransactor(ctx context.Context, privateKeyHex string, client *ethclient.Client, logger *zap.Logger) (*KeyedTransactor, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain ID: %w", err)
	}

	return &KeyedTransactor{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		client:  client,
		chainID: chainID,
		logger:  logger,
	}, nil
}

// Address returns the account address derived from the private key.
func (k *KeyedTransactor) Address() common.Address {
	return k.address
}

// Transact implements Transactor. A transaction that is mined but reverted
// yields (nil, nil).
func (k *KeyedTransactor) Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error) {
	nonce, err := k.client.PendingNonceAt(ctx, k.address)
	if err != nil {
		return nil, fmt.Errorf("get pending nonce: %w", err)
	}

	gasPrice, err := k.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}

	gas, err := k.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  k.address,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}

	// 20% headroom over the estimate.
	gas = gas + gas/5

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(k.chainID), k.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	err = k.client.SendTransaction(ctx, signed)
	if err != nil {
		return nil, fmt.Errorf("send transaction: %w", err)
	}

	k.logger.Info("transaction-sent",
		zap.String("tx", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce))

	receipt, err := bind.WaitMined(ctx, k.client, signed)
	if err != nil {
		return nil, fmt.Errorf("wait for mining: %w", err)
	}

	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		k.logger.Warn("transaction-reverted",
			zap.String("tx", signed.Hash().Hex()),
			zap.Uint64("block", receipt.BlockNumber.Uint64()))
		return nil, nil
	}

	return &types.Receipt{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}

// SignHash implements HashSigner for the key's own account.
func (k *KeyedTransactor) SignHash(_ context.Context, account common.Address, hash common.Hash) ([]byte, error) {
	if account != k.address {
		return nil, fmt.Errorf("unknown account %s", account.Hex())
	}

	signature, err := crypto.Sign(accounts.TextHash(hash.Bytes()), k.key)
	if err != nil {
		return nil, fmt.Errorf("sign hash: %w", err)
	}

	// crypto.Sign yields v in {0,1}; eth_sign convention is {27,28}.
	signature[64] += 27
	return signature, nil
}
