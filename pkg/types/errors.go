package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// SigningError reports that the external signer rejected a signing request
// or was unavailable. It always aborts the operation; no off-chain order is
// produced when it occurs.
type SigningError struct {
	Account common.Address
	Err     error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing with account %s failed: %v", e.Account.Hex(), e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}
