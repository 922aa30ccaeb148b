package types

import "github.com/ethereum/go-ethereum/common"

// Receipt describes a successfully mined, non-reverted transaction.
//
// Facade methods that submit transactions return a nil *Receipt with a nil
// error when the transaction was mined but reverted; callers must check for
// the absence of a receipt rather than for an error.
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
	GasUsed     uint64
}
