// Package relay implements the client side of the off-chain order cache
// service: order submission over HTTP and the live order feed over websocket.
package relay

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	json "github.com/goccy/go-json"
	"github.com/mselser95/etherdelta-client/pkg/types"
)

// OrderJSON is the relay wire schema for off-chain orders. Amounts and the
// nonce travel as JSON numbers; addresses and signature words as 0x-prefixed
// lowercase hex strings.
type OrderJSON struct {
	ContractAddr string    `json:"contractAddr"`
	TokenGet     string    `json:"tokenGet"`
	AmountGet    types.Wad `json:"amountGet"`
	TokenGive    string    `json:"tokenGive"`
	AmountGive   types.Wad `json:"amountGive"`
	Expires      uint64    `json:"expires"`
	Nonce        uint32    `json:"nonce"`
	V            uint8     `json:"v"`
	R            string    `json:"r"`
	S            string    `json:"s"`
	User         string    `json:"user"`
}

// ToOrderJSON converts a signed off-chain order into the relay wire schema.
func ToOrderJSON(contract common.Address, order types.OffChainOrder) OrderJSON {
	return OrderJSON{
		ContractAddr: hexAddress(contract),
		TokenGet:     hexAddress(order.TokenGet),
		AmountGet:    order.AmountGet,
		TokenGive:    hexAddress(order.TokenGive),
		AmountGive:   order.AmountGive,
		Expires:      order.Expires,
		Nonce:        order.Nonce,
		V:            order.V,
		R:            "0x" + common.Bytes2Hex(order.R[:]),
		S:            "0x" + common.Bytes2Hex(order.S[:]),
		User:         hexAddress(order.User),
	}
}

// MarshalOrder serializes an off-chain order to the relay JSON schema.
func MarshalOrder(contract common.Address, order types.OffChainOrder) ([]byte, error) {
	return json.Marshal(ToOrderJSON(contract, order))
}

// Order converts the wire representation back into an OffChainOrder,
// validating field shapes.
func (j OrderJSON) Order() (types.OffChainOrder, error) {
	order := types.OffChainOrder{
		AmountGet:  j.AmountGet,
		AmountGive: j.AmountGive,
		Expires:    j.Expires,
		Nonce:      j.Nonce,
		V:          j.V,
	}

	var err error
	order.TokenGet, err = parseAddress(j.TokenGet)
	if err != nil {
		return types.OffChainOrder{}, fmt.Errorf("tokenGet: %w", err)
	}

	order.TokenGive, err = parseAddress(j.TokenGive)
	if err != nil {
		return types.OffChainOrder{}, fmt.Errorf("tokenGive: %w", err)
	}

	order.User, err = parseAddress(j.User)
	if err != nil {
		return types.OffChainOrder{}, fmt.Errorf("user: %w", err)
	}

	order.R, err = parseWord(j.R)
	if err != nil {
		return types.OffChainOrder{}, fmt.Errorf("r: %w", err)
	}

	order.S, err = parseWord(j.S)
	if err != nil {
		return types.OffChainOrder{}, fmt.Errorf("s: %w", err)
	}

	return order, nil
}

func hexAddress(addr common.Address) string {
	return "0x" + common.Bytes2Hex(addr.Bytes())
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseWord(s string) ([32]byte, error) {
	var word [32]byte

	if len(s) != 66 || s[:2] != "0x" {
		return word, fmt.Errorf("invalid 32-byte hex word %q", s)
	}

	raw := common.FromHex(s)
	if len(raw) != 32 {
		return word, fmt.Errorf("invalid 32-byte hex word %q", s)
	}

	copy(word[:], raw)
	return word, nil
}
