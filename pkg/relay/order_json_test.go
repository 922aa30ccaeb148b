package relay

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	json "github.com/goccy/go-json"
	"github.com/mselser95/etherdelta-client/pkg/types"
)

func signedTestOrder() types.OffChainOrder {
	order := types.OffChainOrder{
		TokenGet:   common.HexToAddress("0x1111111111111111111111111111111111111111"),
		AmountGet:  types.MustWad(big.NewInt(100)),
		TokenGive:  types.EthToken,
		AmountGive: types.MustWad(big.NewInt(200)),
		Expires:    5_000_000,
		Nonce:      42,
		User:       common.HexToAddress("0x3333333333333333333333333333333333333333"),
		V:          28,
	}
	order.R[0] = 0xaa
	order.S[31] = 0xbb
	return order
}

func TestMarshalOrder_WireShape(t *testing.T) {
	contract := common.HexToAddress("0x8d12A197cB00D4747a1fe03395095ce2A5CC6819")

	payload, err := MarshalOrder(contract, signedTestOrder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := string(payload)

	// Amounts, expiry, nonce and v are bare JSON numbers, not strings.
	for _, want := range []string{
		`"amountGet":100`,
		`"amountGive":200`,
		`"expires":5000000`,
		`"nonce":42`,
		`"v":28`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("payload missing %s: %s", want, body)
		}
	}

	// Addresses are lowercase 0x hex; the zero token stays all zeros.
	if !strings.Contains(body, `"contractAddr":"0x8d12a197cb00d4747a1fe03395095ce2a5cc6819"`) {
		t.Errorf("contract address not lowercase hex: %s", body)
	}

	if !strings.Contains(body, `"tokenGive":"0x0000000000000000000000000000000000000000"`) {
		t.Errorf("zero token not rendered in full: %s", body)
	}

	// Signature words are 32 bytes each, 0x plus 64 hex characters.
	var decoded OrderJSON
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	if len(decoded.R) != 66 || len(decoded.S) != 66 {
		t.Errorf("r/s must be 0x plus 64 hex chars, got %q and %q", decoded.R, decoded.S)
	}
}

func TestOrderJSON_RoundTrip(t *testing.T) {
	contract := common.HexToAddress("0x8d12A197cB00D4747a1fe03395095ce2A5CC6819")
	original := signedTestOrder()

	payload, err := MarshalOrder(contract, original)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wire OrderJSON
	if err := json.Unmarshal(payload, &wire); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	restored, err := wire.Order()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !restored.Equal(original) {
		t.Fatalf("round-trip changed the order:\n got %+v\nwant %+v", restored, original)
	}
}

func TestOrderJSON_Validation(t *testing.T) {
	valid := ToOrderJSON(common.HexToAddress("0x8d12A197cB00D4747a1fe03395095ce2A5CC6819"), signedTestOrder())

	tests := []struct {
		name   string
		mutate func(j *OrderJSON)
	}{
		{name: "bad_token_get", mutate: func(j *OrderJSON) { j.TokenGet = "not-an-address" }},
		{name: "bad_user", mutate: func(j *OrderJSON) { j.User = "0x12" }},
		{name: "short_r", mutate: func(j *OrderJSON) { j.R = "0xaa" }},
		{name: "unprefixed_s", mutate: func(j *OrderJSON) { j.S = strings.Repeat("ab", 33) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire := valid
			tt.mutate(&wire)

			_, err := wire.Order()
			if err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
