package types

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func newTestOrder() OnChainOrder {
	return OnChainOrder{
		TokenGet:   common.HexToAddress("0x12AE66CDc592e10B60f9097a7b0D3C59fce29876"),
		AmountGet:  MustWad(big.NewInt(100)),
		TokenGive:  EthToken,
		AmountGive: MustWad(big.NewInt(50)),
		Expires:    10_000_000,
		Nonce:      1234,
		User:       common.HexToAddress("0x64306D30c4B9880A7284cA84a08d4A52C785f4CC"),
	}
}

func TestOnChainOrder_Equality(t *testing.T) {
	base := newTestOrder()
	same := newTestOrder()

	if !base.Equal(same) {
		t.Error("identical orders should be equal")
	}
	if base.Key() != same.Key() {
		t.Error("identical orders should have equal keys")
	}

	// Changing any single field must break equality.
	mutations := map[string]func(o *OnChainOrder){
		"token_get":   func(o *OnChainOrder) { o.TokenGet = common.HexToAddress("0x01") },
		"amount_get":  func(o *OnChainOrder) { o.AmountGet = MustWad(big.NewInt(101)) },
		"token_give":  func(o *OnChainOrder) { o.TokenGive = common.HexToAddress("0x02") },
		"amount_give": func(o *OnChainOrder) { o.AmountGive = MustWad(big.NewInt(51)) },
		"expires":     func(o *OnChainOrder) { o.Expires = 10_000_001 },
		"nonce":       func(o *OnChainOrder) { o.Nonce = 1235 },
		"user":        func(o *OnChainOrder) { o.User = common.HexToAddress("0x03") },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			mutated := newTestOrder()
			mutate(&mutated)
			if base.Equal(mutated) {
				t.Error("orders differing in one field should not be equal")
			}
			if base.Key() == mutated.Key() {
				t.Error("orders differing in one field should have different keys")
			}
		})
	}
}

func TestOffChainOrder_Equality(t *testing.T) {
	core := newTestOrder()
	sign := func(v uint8) OffChainOrder {
		return OffChainOrder{
			TokenGet:   core.TokenGet,
			AmountGet:  core.AmountGet,
			TokenGive:  core.TokenGive,
			AmountGive: core.AmountGive,
			Expires:    core.Expires,
			Nonce:      core.Nonce,
			User:       core.User,
			V:          v,
			R:          [32]byte{1},
			S:          [32]byte{2},
		}
	}

	if !sign(27).Equal(sign(27)) {
		t.Error("identical off-chain orders should be equal")
	}
	if sign(27).Equal(sign(28)) {
		t.Error("off-chain orders differing in v should not be equal")
	}
}

func TestOnChainOrder_Params(t *testing.T) {
	order := newTestOrder()
	params := order.Params()

	if params.V != 0 {
		t.Errorf("Params() v = %d, want 0 for on-chain order", params.V)
	}
	if params.R != ([32]byte{}) || params.S != ([32]byte{}) {
		t.Error("Params() r/s should be zero for on-chain order")
	}
	if params.AmountGet.Int64() != 100 {
		t.Errorf("Params() amountGet = %s, want 100", params.AmountGet)
	}
	if params.Expires.Uint64() != order.Expires {
		t.Errorf("Params() expires = %s, want %d", params.Expires, order.Expires)
	}
	if params.Nonce.Uint64() != uint64(order.Nonce) {
		t.Errorf("Params() nonce = %s, want %d", params.Nonce, order.Nonce)
	}
}

func TestOffChainOrder_Params(t *testing.T) {
	core := newTestOrder()
	order := OffChainOrder{
		TokenGet:   core.TokenGet,
		AmountGet:  core.AmountGet,
		TokenGive:  core.TokenGive,
		AmountGive: core.AmountGive,
		Expires:    core.Expires,
		Nonce:      core.Nonce,
		User:       core.User,
		V:          27,
		R:          [32]byte{0xaa},
		S:          [32]byte{0xbb},
	}

	params := order.Params()
	if params.V != 27 {
		t.Errorf("Params() v = %d, want 27", params.V)
	}
	if params.R[0] != 0xaa || params.S[0] != 0xbb {
		t.Error("Params() should carry the signature through unchanged")
	}
}

func TestOrderKey_AsMapKey(t *testing.T) {
	set := make(map[OrderKey]OnChainOrder)

	set[newTestOrder().Key()] = newTestOrder()
	set[newTestOrder().Key()] = newTestOrder()

	if len(set) != 1 {
		t.Errorf("set size = %d, want 1 after duplicate insert", len(set))
	}

	other := newTestOrder()
	other.Nonce = 99
	set[other.Key()] = other

	if len(set) != 2 {
		t.Errorf("set size = %d, want 2 after distinct insert", len(set))
	}
}
