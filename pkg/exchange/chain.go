package exchange

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/types"
)

// Caller performs read-only contract invocations.
type Caller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Backend bundles the read-side chain operations the client needs: contract
// calls, log queries, log subscriptions and the current block height.
// *ethclient.Client satisfies Backend.
type Backend interface {
	Caller
	ethereum.LogFilterer
	BlockNumber(ctx context.Context) (uint64, error)
}

// Transactor submits a state-changing contract call and waits for it to be
// mined. A transaction that was mined but reverted yields (nil, nil): the
// absence of a receipt is the failure signal, mirroring how all facade
// transaction methods behave. Errors are reserved for transport problems.
type Transactor interface {
	Transact(ctx context.Context, to common.Address, value *big.Int, data []byte) (*types.Receipt, error)
}

// HashSigner signs a 32-byte digest with the given account's key, returning
// the 65-byte r||s||v signature.
type HashSigner interface {
	SignHash(ctx context.Context, account common.Address, hash common.Hash) ([]byte, error)
}
